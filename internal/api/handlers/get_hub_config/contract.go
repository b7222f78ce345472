package get_hub_config

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/service/config/models"
)

type ConfigService interface {
	GetHubConfig(ctx context.Context, hubID uuid.UUID) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package enable_scheduling

import (
	"context"

	"github.com/m04kA/SMC-PickupService/internal/service/config/models"
)

type ConfigService interface {
	EnableScheduling(ctx context.Context, req *models.EnableSchedulingRequest) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

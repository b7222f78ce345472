package update_operating_hours

import (
	"context"

	"github.com/m04kA/SMC-PickupService/internal/service/config/models"
)

type ConfigService interface {
	UpdateOperatingHours(ctx context.Context, req *models.UpdateOperatingHoursRequest) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

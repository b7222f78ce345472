package disable_scheduling

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
)

type ConfigService interface {
	DisableScheduling(ctx context.Context, caller domain.Caller, hubID uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

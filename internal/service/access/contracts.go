package access

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/integrations/hubservice"
)

// HubDirectory справочник хабов
type HubDirectory interface {
	GetHub(ctx context.Context, hubID uuid.UUID) (*hubservice.Hub, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

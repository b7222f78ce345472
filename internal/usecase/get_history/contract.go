package get_history

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
)

// SlotRepository интерфейс реестра слотов
type SlotRepository interface {
	GetHistory(ctx context.Context, filter domain.HistoryFilter) ([]*domain.PickupSlot, int, error)
}

// AccessChecker проверка прав на хаб
type AccessChecker interface {
	CanManageHub(ctx context.Context, caller domain.Caller, hubID uuid.UUID) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package get_queue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
)

// SlotRepository интерфейс реестра слотов
type SlotRepository interface {
	GetQueue(ctx context.Context, filter domain.QueueFilter) ([]*domain.PickupSlot, error)
}

// HubChecker проверка существования хаба
type HubChecker interface {
	HubExists(ctx context.Context, hubID uuid.UUID) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

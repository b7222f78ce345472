package book_slot

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/integrations/orderservice"
)

// SlotRepository интерфейс реестра слотов
type SlotRepository interface {
	GetActiveByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.PickupSlot, error)
}

// ConfigRepository интерфейс хранилища настроек расписания
type ConfigRepository interface {
	GetByHubID(ctx context.Context, hubID uuid.UUID) (*domain.HubScheduleConfig, error)
}

// CapacityReserver атомарное резервирование места в корзине
type CapacityReserver interface {
	Reserve(ctx context.Context, cfg *domain.HubScheduleConfig, slot *domain.PickupSlot) (*domain.PickupSlot, error)
}

// OrderService внешний сервис заказов
type OrderService interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (*orderservice.Order, error)
}

// HubChecker проверка существования хаба
type HubChecker interface {
	HubExists(ctx context.Context, hubID uuid.UUID) error
}

// VehicleDirectory сохранённые автомобили пользователей (опционально)
type VehicleDirectory interface {
	DefaultVehicle(ctx context.Context, userID uuid.UUID) (*domain.VehicleInfo, error)
}

// EventEmitter отправка доменных событий
type EventEmitter interface {
	Emit(ctx context.Context, name domain.EventName, event domain.SlotEvent)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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

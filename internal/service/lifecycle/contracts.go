package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/integrations/orderservice"
)

// SlotRepository интерфейс реестра слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PickupSlot, error)
	Update(ctx context.Context, slot *domain.PickupSlot) (*domain.PickupSlot, error)
}

// ConfigRepository настройки хаба (для настроек уведомлений в событиях)
type ConfigRepository interface {
	GetByHubID(ctx context.Context, hubID uuid.UUID) (*domain.HubScheduleConfig, error)
}

// OrderService внешний сервис заказов
type OrderService interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (*orderservice.Order, error)
	SetOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error
}

// AccessChecker проверка прав вызывающего
type AccessChecker interface {
	CanManageHub(ctx context.Context, caller domain.Caller, hubID uuid.UUID) error
	IsSlotCustomer(caller domain.Caller, slot *domain.PickupSlot) error
	CanViewSlot(ctx context.Context, caller domain.Caller, slot *domain.PickupSlot) error
}

// EventEmitter отправка доменных событий
type EventEmitter interface {
	Emit(ctx context.Context, name domain.EventName, event domain.SlotEvent)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальное время
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

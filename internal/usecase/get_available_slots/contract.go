package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/service/availability"
)

// ConfigRepository интерфейс хранилища настроек расписания
type ConfigRepository interface {
	GetByHubID(ctx context.Context, hubID uuid.UUID) (*domain.HubScheduleConfig, error)
}

// AvailabilityService расчёт загрузки слотов
type AvailabilityService interface {
	DayAvailability(ctx context.Context, cfg *domain.HubScheduleConfig, date time.Time, now time.Time) ([]availability.TimePoint, error)
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

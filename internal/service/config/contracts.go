package config

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
)

// ConfigRepository интерфейс хранилища настроек расписания
type ConfigRepository interface {
	GetByHubID(ctx context.Context, hubID uuid.UUID) (*domain.HubScheduleConfig, error)
	Upsert(ctx context.Context, cfg *domain.HubScheduleConfig) (*domain.HubScheduleConfig, error)
	SetEnabled(ctx context.Context, hubID uuid.UUID, enabled bool) error
}

// AccessChecker проверка прав на управление хабом
type AccessChecker interface {
	CanManageHub(ctx context.Context, caller domain.Caller, hubID uuid.UUID) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/pkg/types"
)

// SlotRepository операции реестра слотов, нужные для учёта емкости
type SlotRepository interface {
	// LockBucket блокирует корзину до конца текущей транзакции
	LockBucket(ctx context.Context, bucket domain.Bucket) error
	// CountActiveInBucket считает слоты корзины, занимающие емкость
	CountActiveInBucket(ctx context.Context, bucket domain.Bucket) (int, error)
	// CountActiveByTime считает занимающие емкость слоты хаба на дату, по времени начала
	CountActiveByTime(ctx context.Context, hubID uuid.UUID, date time.Time) (map[types.TimeString]int, error)
	Create(ctx context.Context, slot *domain.PickupSlot) (*domain.PickupSlot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/pkg/dbmetrics"
)

// Service единая точка учёта емкости корзин.
// Используется и для расчёта доступности, и для атомарного резервирования.
type Service struct {
	slotRepo SlotRepository
	logger   Logger
}

// NewService создает сервис доступности
func NewService(slotRepo SlotRepository, logger Logger) *Service {
	return &Service{
		slotRepo: slotRepo,
		logger:   logger,
	}
}

// DayAvailability рассчитывает загрузку слотов хаба на дату.
// Прошедшие моменты (для сегодняшней даты) не возвращаются.
func (s *Service) DayAvailability(
	ctx context.Context,
	cfg *domain.HubScheduleConfig,
	date time.Time,
	now time.Time,
) ([]TimePoint, error) {
	times, open := SlotTimesForDate(cfg, date)
	if !open || len(times) == 0 {
		return []TimePoint{}, nil
	}

	counts, err := s.slotRepo.CountActiveByTime(ctx, cfg.HubID, domain.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("%w: DayAvailability - count bookings: %v", ErrInternal, err)
	}

	points := make([]TimePoint, 0, len(times))
	for _, t := range times {
		if IsPast(date, t, now) {
			continue
		}
		count := counts[t]
		points = append(points, TimePoint{
			Time:               t,
			IsAvailable:        HasCapacity(count, cfg.ConcurrentCapacity),
			ConcurrentBookings: count,
			MaxConcurrent:      cfg.ConcurrentCapacity,
		})
	}

	return points, nil
}

// Reserve атомарно проверяет емкость корзины и сохраняет слот.
// Должен вызываться внутри транзакции: корзина блокируется до её завершения,
// поэтому параллельные резервирования одной корзины выполняются строго по очереди.
func (s *Service) Reserve(
	ctx context.Context,
	cfg *domain.HubScheduleConfig,
	slot *domain.PickupSlot,
) (*domain.PickupSlot, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, ErrNotInTransaction
	}

	bucket := slot.Bucket()

	if err := s.slotRepo.LockBucket(ctx, bucket); err != nil {
		return nil, fmt.Errorf("%w: Reserve - lock bucket %s: %v", ErrInternal, bucket.Key(), err)
	}

	count, err := s.slotRepo.CountActiveInBucket(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: Reserve - count bucket %s: %v", ErrInternal, bucket.Key(), err)
	}

	if !HasCapacity(count, cfg.ConcurrentCapacity) {
		s.logger.Warn("Reserve: bucket %s is full, %d/%d taken", bucket.Key(), count, cfg.ConcurrentCapacity)
		return nil, ErrSlotFull
	}

	slot.QueuePosition = count + 1

	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		// Ошибки репозитория (например, дубликат заказа) пробрасываются как есть
		return nil, err
	}

	s.logger.Info("Reserve: bucket %s reserved, queue position %d/%d",
		bucket.Key(), created.QueuePosition, cfg.ConcurrentCapacity)
	return created, nil
}

package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	configRepo "github.com/m04kA/SMC-PickupService/internal/infra/storage/config"
	"github.com/m04kA/SMC-PickupService/internal/service/access"
)

// UseCase use case для получения доступных слотов самовывоза
type UseCase struct {
	configRepo   ConfigRepository
	availability AvailabilityService
	hubs         HubChecker
	timeProvider TimeProvider
	logger       Logger
	defaultDays  int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	configRepo ConfigRepository,
	availability AvailabilityService,
	hubs HubChecker,
	timeProvider TimeProvider,
	logger Logger,
	defaultDays int,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	if defaultDays <= 0 {
		defaultDays = domain.DefaultAvailabilityDays
	}
	return &UseCase{
		configRepo:   configRepo,
		availability: availability,
		hubs:         hubs,
		timeProvider: timeProvider,
		logger:       logger,
		defaultDays:  defaultDays,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: hub=%s, days=%d", req.HubID, req.Days)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем, что хаб существует
	if err := uc.hubs.HubExists(ctx, req.HubID); err != nil {
		if errors.Is(err, access.ErrHubNotFound) {
			uc.logger.Warn("GetAvailableSlots: hub=%s not found", req.HubID)
			return nil, ErrHubNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to check hub=%s: %v", req.HubID, err)
		return nil, fmt.Errorf("%w: failed to check hub: %v", ErrInternal, err)
	}

	// 4. Получаем включённую конфигурацию хаба
	cfg, err := uc.configRepo.GetByHubID(ctx, req.HubID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Warn("GetAvailableSlots: hub=%s has no schedule config", req.HubID)
			return nil, ErrSchedulingNotEnabled
		}
		uc.logger.Error("GetAvailableSlots: failed to get config for hub=%s: %v", req.HubID, err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}
	if !cfg.IsEnabled {
		uc.logger.Warn("GetAvailableSlots: scheduling disabled for hub=%s", req.HubID)
		return nil, ErrSchedulingNotEnabled
	}

	// 5. Определяем диапазон дат
	start, days, err := resolveRange(req, now, uc.defaultDays, cfg.MaxAdvanceDays)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, err
	}

	// 6. Считаем загрузку по каждому дню, дни без слотов пропускаем
	resp := &Response{HubID: req.HubID, Days: []Day{}}
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)

		points, err := uc.availability.DayAvailability(ctx, cfg, date, now)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to calculate %s: %v", date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: failed to calculate availability: %v", ErrInternal, err)
		}
		if len(points) == 0 {
			continue
		}

		day := Day{
			Date:    date,
			Weekday: date.Weekday().String(),
			Slots:   make([]Slot, 0, len(points)),
		}
		for _, p := range points {
			day.Slots = append(day.Slots, Slot{
				Time:               p.Time,
				IsAvailable:        p.IsAvailable,
				ConcurrentBookings: p.ConcurrentBookings,
				MaxConcurrent:      p.MaxConcurrent,
			})
		}
		resp.Days = append(resp.Days, day)
	}

	uc.logger.Info("GetAvailableSlots: %d days with slots for hub=%s from %s",
		len(resp.Days), req.HubID, start.Format(domain.DateFormat))

	return resp, nil
}

package get_queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/service/access"
	"github.com/m04kA/SMC-PickupService/internal/service/lifecycle/models"
)

// UseCase use case для получения очереди хаба на дату
type UseCase struct {
	slotRepo     SlotRepository
	hubs         HubChecker
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, hubs HubChecker, timeProvider TimeProvider, logger Logger) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		slotRepo:     slotRepo,
		hubs:         hubs,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute возвращает активные слоты хаба, упорядоченные по времени и позиции в очереди
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.HubID == uuid.Nil {
		return nil, fmt.Errorf("%w: hub id is required", ErrInvalidInput)
	}

	// 1. Дата очереди
	date := domain.DateOnly(uc.timeProvider.Now())
	if req.Date != nil {
		date = domain.DateOnly(*req.Date)
	}

	uc.logger.Info("GetQueue: hub=%s, date=%s", req.HubID, date.Format(domain.DateFormat))

	// 2. Проверяем, что хаб существует
	if err := uc.hubs.HubExists(ctx, req.HubID); err != nil {
		if errors.Is(err, access.ErrHubNotFound) {
			uc.logger.Warn("GetQueue: hub=%s not found", req.HubID)
			return nil, ErrHubNotFound
		}
		uc.logger.Error("GetQueue: failed to check hub=%s: %v", req.HubID, err)
		return nil, fmt.Errorf("%w: failed to check hub: %v", ErrInternal, err)
	}

	// 3. Получаем очередь
	slots, err := uc.slotRepo.GetQueue(ctx, domain.QueueFilter{HubID: req.HubID, Date: date})
	if err != nil {
		uc.logger.Error("GetQueue: failed to get queue for hub=%s: %v", req.HubID, err)
		return nil, fmt.Errorf("%w: failed to get queue: %v", ErrInternal, err)
	}

	resp := &Response{
		HubID: req.HubID,
		Date:  date.Format(domain.DateFormat),
		Queue: models.FromDomainSlots(slots),
		Stats: countStats(slots),
	}

	uc.logger.Info("GetQueue: %d active slots for hub=%s", resp.Stats.Total, req.HubID)
	return resp, nil
}

func countStats(slots []*domain.PickupSlot) Stats {
	stats := Stats{Total: len(slots)}
	for _, s := range slots {
		switch s.Status {
		case domain.StatusScheduled:
			stats.Scheduled++
		case domain.StatusCustomerNotified:
			stats.Notified++
		case domain.StatusCustomerArrived:
			stats.Arrived++
		case domain.StatusInProgress:
			stats.InProgress++
		}
	}
	return stats
}

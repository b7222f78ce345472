package get_history

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/service/access"
	"github.com/m04kA/SMC-PickupService/internal/service/lifecycle/models"
)

// UseCase use case для получения истории бронирований
type UseCase struct {
	slotRepo SlotRepository
	access   AccessChecker
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, access AccessChecker, logger Logger) *UseCase {
	return &UseCase{
		slotRepo: slotRepo,
		access:   access,
		logger:   logger,
	}
}

// Execute возвращает страницу истории.
// Администратор видит все бронирования, владелец хаба - бронирования своего хаба,
// остальные - только собственные.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetHistory: caller=%s role=%s, page=%d, limit=%d",
		req.Caller.UserID, req.Caller.Role, req.Page, req.Limit)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetHistory: validation failed: %v", err)
		return nil, err
	}

	// 2. Ограничиваем выборку правами вызывающего
	filter, err := uc.scope(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Получаем страницу
	slots, total, err := uc.slotRepo.GetHistory(ctx, filter)
	if err != nil {
		uc.logger.Error("GetHistory: failed to get history: %v", err)
		return nil, fmt.Errorf("%w: failed to get history: %v", ErrInternal, err)
	}

	pages := (total + req.Limit - 1) / req.Limit

	uc.logger.Info("GetHistory: returned %d of %d slots", len(slots), total)

	return &Response{
		Slots: models.FromDomainSlots(slots),
		Pagination: Pagination{
			Page:  req.Page,
			Limit: req.Limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

func (uc *UseCase) scope(ctx context.Context, req *Request) (domain.HistoryFilter, error) {
	filter := domain.HistoryFilter{
		CustomerID: req.CustomerID,
		HubID:      req.HubID,
		Status:     req.Status,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Limit:      req.Limit,
		Offset:     (req.Page - 1) * req.Limit,
	}

	if req.Caller.IsAdmin() {
		return filter, nil
	}

	if req.HubID != nil {
		err := uc.access.CanManageHub(ctx, req.Caller, *req.HubID)
		switch {
		case err == nil:
			return filter, nil
		case errors.Is(err, access.ErrForbidden), errors.Is(err, access.ErrHubNotFound):
			// Не владелец хаба: видит только свои бронирования в этом хабе
		default:
			uc.logger.Error("GetHistory: failed to check hub=%s: %v", *req.HubID, err)
			return filter, fmt.Errorf("%w: failed to check access: %v", ErrInternal, err)
		}
	}

	if req.CustomerID != nil && *req.CustomerID != req.Caller.UserID {
		uc.logger.Warn("GetHistory: user=%s requested history of customer=%s", req.Caller.UserID, *req.CustomerID)
		return filter, ErrAccessDenied
	}

	own := req.Caller.UserID
	filter.CustomerID = &own
	return filter, nil
}

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	slotRepo "github.com/m04kA/SMC-PickupService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-PickupService/internal/service/access"
	"github.com/m04kA/SMC-PickupService/internal/service/lifecycle/models"
	"github.com/m04kA/SMC-PickupService/pkg/metrics"
)

// Service обработчик переходов жизненного цикла слота.
// Все переходы проверяются по единой таблице domain.NextStatus.
type Service struct {
	slotRepo     SlotRepository
	configRepo   ConfigRepository
	orders       OrderService
	access       AccessChecker
	txManager    TransactionManager
	emitter      EventEmitter
	timeProvider TimeProvider
	metrics      *metrics.Metrics
	logger       Logger

	cancellationCutoff time.Duration
	location           *time.Location
}

// Options настройки правил жизненного цикла
type Options struct {
	// CancellationCutoff минимальное время до начала слота, при котором клиент ещё может отменить бронирование
	CancellationCutoff time.Duration
	// Location часовой пояс, в котором заданы дата и время слотов
	Location *time.Location
}

// NewService создает сервис жизненного цикла, m может быть nil
func NewService(
	slotRepo SlotRepository,
	configRepo ConfigRepository,
	orders OrderService,
	access AccessChecker,
	txManager TransactionManager,
	emitter EventEmitter,
	timeProvider TimeProvider,
	m *metrics.Metrics,
	logger Logger,
	opts Options,
) *Service {
	if opts.CancellationCutoff <= 0 {
		opts.CancellationCutoff = domain.DefaultCancellationCutoff * time.Minute
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	return &Service{
		slotRepo:           slotRepo,
		configRepo:         configRepo,
		orders:             orders,
		access:             access,
		txManager:          txManager,
		emitter:            emitter,
		timeProvider:       timeProvider,
		metrics:            m,
		logger:             logger,
		cancellationCutoff: opts.CancellationCutoff,
		location:           opts.Location,
	}
}

// transition описание одного перехода
type transition struct {
	action domain.Action
	// authorize проверяет права вызывающего на слот
	authorize func(ctx context.Context, caller domain.Caller, slot *domain.PickupSlot) error
	// apply дополнительные проверки и изменение полей слота, вызывается после проверки статуса
	apply func(slot *domain.PickupSlot, now time.Time) error
	// precheck выполняется после проверки прав и до транзакции
	precheck func(ctx context.Context, slot *domain.PickupSlot) error
	// afterCommit побочный эффект во внешней системе, выполняется после фиксации
	afterCommit func(ctx context.Context, slot *domain.PickupSlot)
	// event дополняет полезную нагрузку события
	event func(event *domain.SlotEvent)
}

// GetSlot получает слот, доступно клиенту бронирования, владельцу хаба и администратору
func (s *Service) GetSlot(ctx context.Context, caller domain.Caller, slotID uuid.UUID) (*models.SlotResponse, error) {
	slot, err := s.getSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	if err := s.mapAccess(s.access.CanViewSlot(ctx, caller, slot)); err != nil {
		s.logger.Warn("GetSlot: user=%s cannot view slot=%s", caller.UserID, slotID)
		return nil, err
	}

	return models.FromDomainSlot(slot), nil
}

// NotifyReady сообщает клиенту, что заказ готов к выдаче
func (s *Service) NotifyReady(ctx context.Context, caller domain.Caller, slotID uuid.UUID) (*models.SlotResponse, error) {
	slot, err := s.run(ctx, caller, slotID, transition{
		action:    domain.ActionNotify,
		authorize: s.hubStaff,
	})
	if err != nil {
		return nil, err
	}

	s.markOrderReady(ctx, slot)
	return models.FromDomainSlot(slot), nil
}

// MarkArrived фиксирует прибытие клиента, доступно клиенту и персоналу хаба
func (s *Service) MarkArrived(ctx context.Context, caller domain.Caller, slotID uuid.UUID) (*models.SlotResponse, error) {
	slot, err := s.run(ctx, caller, slotID, transition{
		action: domain.ActionArrive,
		authorize: func(ctx context.Context, caller domain.Caller, slot *domain.PickupSlot) error {
			return s.access.CanViewSlot(ctx, caller, slot)
		},
	})
	if err != nil {
		return nil, err
	}
	return models.FromDomainSlot(slot), nil
}

// StartService начинает выдачу заказа
func (s *Service) StartService(ctx context.Context, caller domain.Caller, slotID uuid.UUID) (*models.SlotResponse, error) {
	slot, err := s.run(ctx, caller, slotID, transition{
		action:    domain.ActionStart,
		authorize: s.hubStaff,
		apply: func(slot *domain.PickupSlot, now time.Time) error {
			slot.ActualStartTime = &now
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return models.FromDomainSlot(slot), nil
}

// CompleteService завершает выдачу и переводит заказ в статус "picked_up".
// Заказ читается до транзакции: если сервис заказов недоступен, слот остаётся в прежнем статусе.
// Статус заказа обновляется после фиксации, ошибка обновления логируется и учитывается в метриках.
func (s *Service) CompleteService(ctx context.Context, caller domain.Caller, slotID uuid.UUID, req *models.CompleteRequest) (*models.SlotResponse, error) {
	if err := validateComplete(req); err != nil {
		return nil, err
	}

	slot, err := s.run(ctx, caller, slotID, transition{
		action:    domain.ActionComplete,
		authorize: s.hubStaff,
		apply: func(slot *domain.PickupSlot, now time.Time) error {
			slot.ActualEndTime = &now
			if req.HubRating != nil {
				slot.HubRating = req.HubRating
			}
			if req.Feedback != nil {
				slot.Feedback = req.Feedback
			}
			return nil
		},
		precheck: func(ctx context.Context, slot *domain.PickupSlot) error {
			if _, err := s.orders.GetOrder(ctx, slot.OrderID); err != nil {
				return fmt.Errorf("%w: order=%s: %v", ErrOrderUpdateFailed, slot.OrderID, err)
			}
			return nil
		},
		afterCommit: s.markOrderPickedUp,
	})
	if err != nil {
		return nil, err
	}
	return models.FromDomainSlot(slot), nil
}

// MarkNoShow отмечает неявку клиента, освобождая место в корзине
func (s *Service) MarkNoShow(ctx context.Context, caller domain.Caller, slotID uuid.UUID) (*models.SlotResponse, error) {
	slot, err := s.run(ctx, caller, slotID, transition{
		action:    domain.ActionNoShow,
		authorize: s.hubStaff,
	})
	if err != nil {
		return nil, err
	}
	return models.FromDomainSlot(slot), nil
}

// CancelBooking отменяет бронирование клиентом.
// Отмена возможна, если до начала слота осталось не меньше cancellationCutoff (граница включительно).
func (s *Service) CancelBooking(ctx context.Context, caller domain.Caller, slotID uuid.UUID, req *models.CancelRequest) (*models.SlotResponse, error) {
	if req.Reason != nil && len([]rune(*req.Reason)) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	slot, err := s.run(ctx, caller, slotID, transition{
		action: domain.ActionCancel,
		authorize: func(ctx context.Context, caller domain.Caller, slot *domain.PickupSlot) error {
			return s.access.IsSlotCustomer(caller, slot)
		},
		apply: func(slot *domain.PickupSlot, now time.Time) error {
			left := slot.StartsAt(s.location).Sub(now)
			if left < s.cancellationCutoff {
				return fmt.Errorf("%w: slot starts in %s, cutoff is %s",
					ErrCancellationWindowClosed, left.Truncate(time.Second), s.cancellationCutoff)
			}
			slot.CancellationReason = req.Reason
			slot.CancelledAt = &now
			return nil
		},
		event: func(event *domain.SlotEvent) {
			event.Reason = req.Reason
		},
	})
	if err != nil {
		return nil, err
	}
	return models.FromDomainSlot(slot), nil
}

// RateExperience сохраняет оценку клиента, оценить можно только один раз
func (s *Service) RateExperience(ctx context.Context, caller domain.Caller, slotID uuid.UUID, req *models.RateRequest) (*models.SlotResponse, error) {
	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	if req.Feedback != nil && len([]rune(*req.Feedback)) > domain.MaxFeedbackLength {
		return nil, fmt.Errorf("%w: feedback must be at most %d characters", ErrInvalidInput, domain.MaxFeedbackLength)
	}

	rating := req.Rating
	slot, err := s.run(ctx, caller, slotID, transition{
		action: domain.ActionRate,
		authorize: func(ctx context.Context, caller domain.Caller, slot *domain.PickupSlot) error {
			return s.access.IsSlotCustomer(caller, slot)
		},
		apply: func(slot *domain.PickupSlot, now time.Time) error {
			if slot.IsRated() {
				return ErrAlreadyRated
			}
			slot.CustomerRating = &rating
			if req.Feedback != nil {
				slot.Feedback = req.Feedback
			}
			return nil
		},
		event: func(event *domain.SlotEvent) {
			event.Rating = &rating
		},
	})
	if err != nil {
		return nil, err
	}
	return models.FromDomainSlot(slot), nil
}

// run выполняет переход:
// права проверяются по прочитанному слоту, затем в транзакции слот блокируется,
// статус проверяется по таблице переходов и изменение сохраняется с проверкой версии.
func (s *Service) run(ctx context.Context, caller domain.Caller, slotID uuid.UUID, t transition) (*domain.PickupSlot, error) {
	op := string(t.action)
	s.logger.Info("%s: slot=%s by user=%s role=%s", op, slotID, caller.UserID, caller.Role)

	// 1. Получаем слот для проверки прав
	seen, err := s.getSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	// 2. Проверяем права вызывающего
	if err := s.mapAccess(t.authorize(ctx, caller, seen)); err != nil {
		s.logger.Warn("%s: user=%s is not allowed to change slot=%s: %v", op, caller.UserID, slotID, err)
		s.metrics.IncTransition(op, "forbidden")
		return nil, err
	}

	// 3. Проверяем внешние зависимости перехода вне транзакции
	if t.precheck != nil {
		if err := t.precheck(ctx, seen); err != nil {
			s.metrics.IncTransition(op, resultLabel(err))
			s.logger.Error("%s: precheck failed for slot=%s: %v", op, slotID, err)
			return nil, err
		}
	}

	var updated *domain.PickupSlot

	// 4. Проверяем статус и сохраняем изменения в транзакции
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		slot, err := s.getSlot(ctx, slotID)
		if err != nil {
			return err
		}

		// Решение принималось по прочитанной версии, параллельный переход её уже изменил
		if slot.Version != seen.Version {
			return ErrConcurrentModification
		}

		next, err := domain.NextStatus(t.action, slot.Status)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}

		now := s.timeProvider.Now()
		if t.apply != nil {
			if err := t.apply(slot, now); err != nil {
				return err
			}
		}
		slot.Status = next

		updated, err = s.slotRepo.Update(ctx, slot)
		if err != nil {
			if errors.Is(err, slotRepo.ErrConcurrentModification) {
				return ErrConcurrentModification
			}
			return fmt.Errorf("%w: %s - update slot: %v", ErrInternal, op, err)
		}
		return nil
	})
	if err != nil {
		s.metrics.IncTransition(op, resultLabel(err))
		if errors.Is(err, ErrInternal) {
			s.logger.Error("%s: failed for slot=%s: %v", op, slotID, err)
		} else {
			s.logger.Warn("%s: rejected for slot=%s: %v", op, slotID, err)
		}
		return nil, err
	}

	s.metrics.IncTransition(op, "success")
	s.logger.Info("%s: slot=%s is now %s", op, slotID, updated.Status)

	// 5. Побочные эффекты и событие только после фиксации
	if t.afterCommit != nil {
		t.afterCommit(ctx, updated)
	}
	s.emit(ctx, t, updated, caller)

	return updated, nil
}

func (s *Service) emit(ctx context.Context, t transition, slot *domain.PickupSlot, caller domain.Caller) {
	name, ok := domain.EventForAction[t.action]
	if !ok {
		return
	}

	event := domain.NewSlotEvent(slot, caller.UserID, s.timeProvider.Now())
	if cfg, err := s.configRepo.GetByHubID(ctx, slot.HubID); err == nil {
		notifications := cfg.NotificationSettings
		event.Notifications = &notifications
	}
	if t.event != nil {
		t.event(&event)
	}

	s.emitter.Emit(ctx, name, event)
}

// markOrderReady переводит заказ в "ready_for_pickup", если он ещё не там.
// Ошибки только логируются: уведомление клиента уже зафиксировано.
func (s *Service) markOrderReady(ctx context.Context, slot *domain.PickupSlot) {
	order, err := s.orders.GetOrder(ctx, slot.OrderID)
	if err != nil {
		s.logger.Warn("notify: failed to get order=%s: %v", slot.OrderID, err)
		return
	}
	if order.Status == domain.OrderStatusReadyForPickup || order.Status == domain.OrderStatusPickedUp {
		return
	}
	if err := s.orders.SetOrderStatus(ctx, slot.OrderID, domain.OrderStatusReadyForPickup); err != nil {
		s.logger.Warn("notify: failed to mark order=%s ready for pickup: %v", slot.OrderID, err)
	}
}

// markOrderPickedUp переводит заказ в "picked_up" после завершения выдачи.
// Слот уже завершён, поэтому ошибка не откатывает переход.
func (s *Service) markOrderPickedUp(ctx context.Context, slot *domain.PickupSlot) {
	if err := s.orders.SetOrderStatus(ctx, slot.OrderID, domain.OrderStatusPickedUp); err != nil {
		s.metrics.IncTransition(string(domain.ActionComplete), "order_sync_failed")
		s.logger.Error("complete: failed to mark order=%s picked up for slot=%s: %v", slot.OrderID, slot.ID, err)
	}
}

func (s *Service) hubStaff(ctx context.Context, caller domain.Caller, slot *domain.PickupSlot) error {
	return s.access.CanManageHub(ctx, caller, slot.HubID)
}

func (s *Service) getSlot(ctx context.Context, slotID uuid.UUID) (*domain.PickupSlot, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: get slot: %v", ErrInternal, err)
	}
	return slot, nil
}

func (s *Service) mapAccess(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, access.ErrForbidden), errors.Is(err, access.ErrHubNotFound):
		return ErrAccessDenied
	default:
		return fmt.Errorf("%w: check access: %v", ErrInternal, err)
	}
}

func validateComplete(req *models.CompleteRequest) error {
	if req.HubRating != nil && (*req.HubRating < domain.MinRating || *req.HubRating > domain.MaxRating) {
		return fmt.Errorf("%w: hub rating must be between %d and %d", ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	if req.Feedback != nil && len([]rune(*req.Feedback)) > domain.MaxFeedbackLength {
		return fmt.Errorf("%w: feedback must be at most %d characters", ErrInvalidInput, domain.MaxFeedbackLength)
	}
	return nil
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrAlreadyRated):
		return "already_rated"
	case errors.Is(err, ErrCancellationWindowClosed):
		return "window_closed"
	case errors.Is(err, ErrConcurrentModification):
		return "conflict"
	case errors.Is(err, ErrSlotNotFound):
		return "not_found"
	case errors.Is(err, ErrOrderUpdateFailed):
		return "order_unavailable"
	default:
		return "error"
	}
}

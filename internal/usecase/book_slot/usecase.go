package book_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	configRepo "github.com/m04kA/SMC-PickupService/internal/infra/storage/config"
	slotRepo "github.com/m04kA/SMC-PickupService/internal/infra/storage/slot"
	orderClient "github.com/m04kA/SMC-PickupService/internal/integrations/orderservice"
	"github.com/m04kA/SMC-PickupService/internal/service/access"
	"github.com/m04kA/SMC-PickupService/internal/service/availability"
	"github.com/m04kA/SMC-PickupService/internal/service/lifecycle/models"
	"github.com/m04kA/SMC-PickupService/pkg/metrics"
	"github.com/m04kA/SMC-PickupService/pkg/ptr"
)

// UseCase use case бронирования слота самовывоза
type UseCase struct {
	slotRepo     SlotRepository
	configRepo   ConfigRepository
	reserver     CapacityReserver
	orders       OrderService
	hubs         HubChecker
	vehicles     VehicleDirectory
	txManager    TransactionManager
	emitter      EventEmitter
	timeProvider TimeProvider
	metrics      *metrics.Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// vehicles может быть nil: тогда данные автомобиля берутся только из запроса.
func NewUseCase(
	slotRepo SlotRepository,
	configRepo ConfigRepository,
	reserver CapacityReserver,
	orders OrderService,
	hubs HubChecker,
	vehicles VehicleDirectory,
	txManager TransactionManager,
	emitter EventEmitter,
	timeProvider TimeProvider,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		slotRepo:     slotRepo,
		configRepo:   configRepo,
		reserver:     reserver,
		orders:       orders,
		hubs:         hubs,
		vehicles:     vehicles,
		txManager:    txManager,
		emitter:      emitter,
		timeProvider: timeProvider,
		metrics:      m,
		logger:       logger,
	}
}

// Execute выполняет use case бронирования.
// Проверка емкости и вставка выполняются атомарно в транзакции с блокировкой корзины.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.SlotResponse, error) {
	uc.logger.Info("BookSlot: customer=%s, hub=%s, order=%s, date=%s, time=%s",
		req.Caller.UserID, req.HubID, req.OrderID, req.Date.Format(domain.DateFormat), req.Time)

	slot, err := uc.book(ctx, req)
	uc.metrics.IncBooking(resultLabel(err))
	if err != nil {
		return nil, err
	}

	return models.FromDomainSlot(slot), nil
}

func (uc *UseCase) book(ctx context.Context, req *Request) (*domain.PickupSlot, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Хаб существует и расписание включено
	if err := uc.hubs.HubExists(ctx, req.HubID); err != nil {
		if errors.Is(err, access.ErrHubNotFound) {
			uc.logger.Warn("BookSlot: hub=%s not found", req.HubID)
			return nil, ErrHubNotFound
		}
		uc.logger.Error("BookSlot: failed to check hub=%s: %v", req.HubID, err)
		return nil, fmt.Errorf("%w: failed to check hub: %v", ErrInternal, err)
	}

	cfg, err := uc.configRepo.GetByHubID(ctx, req.HubID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Warn("BookSlot: hub=%s has no schedule config", req.HubID)
			return nil, ErrSchedulingNotEnabled
		}
		uc.logger.Error("BookSlot: failed to get config for hub=%s: %v", req.HubID, err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}
	if !cfg.IsEnabled {
		uc.logger.Warn("BookSlot: scheduling disabled for hub=%s", req.HubID)
		return nil, ErrSchedulingNotEnabled
	}

	// 4. Заказ принадлежит клиенту и готов к самовывозу
	order, err := uc.orders.GetOrder(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, orderClient.ErrOrderNotFound) {
			uc.logger.Warn("BookSlot: order=%s not found", req.OrderID)
			return nil, ErrOrderNotFound
		}
		uc.logger.Error("BookSlot: failed to get order=%s: %v", req.OrderID, err)
		return nil, fmt.Errorf("%w: failed to get order: %v", ErrInternal, err)
	}
	if err := checkOrder(order, req); err != nil {
		uc.logger.Warn("BookSlot: %v", err)
		return nil, err
	}

	// 5. У заказа нет активного слота
	existing, err := uc.slotRepo.GetActiveByOrderID(ctx, req.OrderID)
	if err != nil && !errors.Is(err, slotRepo.ErrSlotNotFound) {
		uc.logger.Error("BookSlot: failed to check existing slot for order=%s: %v", req.OrderID, err)
		return nil, fmt.Errorf("%w: failed to check existing slot: %v", ErrInternal, err)
	}
	if existing != nil {
		uc.logger.Warn("BookSlot: order=%s already has slot=%s", req.OrderID, existing.ID)
		return nil, ErrDuplicateBooking
	}

	// 6. Начало слота ещё не наступило
	date := domain.DateOnly(req.Date)
	if req.Time.OnDate(date, now.Location()).Before(now) {
		uc.logger.Warn("BookSlot: %s %s is in the past", date.Format(domain.DateFormat), req.Time)
		return nil, ErrSlotInPast
	}

	// 7. Дата в горизонте бронирования, хаб работает, время совпадает с началом слота
	if err := validateDate(date, now, cfg.MaxAdvanceDays); err != nil {
		uc.logger.Warn("BookSlot: date validation failed: %v", err)
		return nil, err
	}
	if _, open := cfg.WeeklyHours.OpenOn(date); !open {
		uc.logger.Warn("BookSlot: hub=%s is closed on %s", req.HubID, date.Format(domain.DateFormat))
		return nil, ErrHubClosed
	}
	if !availability.IsSlotBoundary(cfg, date, req.Time) {
		uc.logger.Warn("BookSlot: %s is not a slot boundary for hub=%s", req.Time, req.HubID)
		return nil, ErrInvalidTimeSlot
	}
	if err := validateInstructions(req.SpecialInstructions, cfg.SpecialInstructionsMaxLength); err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		return nil, err
	}

	// 8. Данные автомобиля, если хаб их требует
	vehicle := req.VehicleInfo
	if cfg.RequiresVehicleInfo && vehicle == nil {
		vehicle = uc.savedVehicle(ctx, req)
		if vehicle == nil {
			uc.logger.Warn("BookSlot: hub=%s requires vehicle info", req.HubID)
			return nil, ErrVehicleInfoRequired
		}
	}

	slot := &domain.PickupSlot{
		HubID:                    req.HubID,
		CustomerID:               req.Caller.UserID,
		OrderID:                  req.OrderID,
		SlotDate:                 date,
		SlotTime:                 req.Time,
		EstimatedDurationMinutes: cfg.SlotDurationMinutes,
		Status:                   domain.StatusScheduled,
		VehicleInfo:              vehicle,
		SpecialInstructions:      req.SpecialInstructions,
	}

	var created *domain.PickupSlot

	// 9. Атомарно проверяем емкость и сохраняем слот
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		created, err = uc.reserver.Reserve(txCtx, cfg, slot)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, availability.ErrSlotFull):
			return ErrSlotFull
		case errors.Is(err, slotRepo.ErrDuplicateOrder):
			return ErrDuplicateBooking
		default:
			return fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
		}
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("BookSlot: %v", err)
		} else {
			uc.logger.Warn("BookSlot: reservation rejected for %s %s: %v", date.Format(domain.DateFormat), req.Time, err)
		}
		return nil, err
	}

	uc.logger.Info("BookSlot: slot=%s booked, queue position %d", created.ID, created.QueuePosition)

	// 10. Событие после фиксации
	event := domain.NewSlotEvent(created, req.Caller.UserID, uc.timeProvider.Now())
	event.AutoConfirm = ptr.Ptr(cfg.AutoConfirm)
	notifications := cfg.NotificationSettings
	event.Notifications = &notifications
	uc.emitter.Emit(ctx, domain.EventSlotBooked, event)

	return created, nil
}

// savedVehicle подставляет автомобиль из профиля клиента, если справочник настроен
func (uc *UseCase) savedVehicle(ctx context.Context, req *Request) *domain.VehicleInfo {
	if uc.vehicles == nil {
		return nil
	}
	vehicle, err := uc.vehicles.DefaultVehicle(ctx, req.Caller.UserID)
	if err != nil || !vehicle.IsComplete() {
		return nil
	}
	uc.logger.Info("BookSlot: using saved vehicle %s %s for customer=%s", vehicle.Make, vehicle.Model, req.Caller.UserID)
	return vehicle
}

// checkOrder проверяет владельца, хаб и статус заказа
func checkOrder(order *orderClient.Order, req *Request) error {
	if order.CustomerID != req.Caller.UserID {
		return fmt.Errorf("%w: order %s belongs to another customer", ErrOrderNotEligible, order.ID)
	}
	if order.HubID != uuid.Nil && order.HubID != req.HubID {
		return fmt.Errorf("%w: order %s is for another hub", ErrOrderNotEligible, order.ID)
	}
	if !domain.IsOrderEligible(order.Status) {
		return fmt.Errorf("%w: order %s has status %s", ErrOrderNotEligible, order.ID, order.Status)
	}
	return nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrSlotFull):
		return "slot_full"
	case errors.Is(err, ErrDuplicateBooking):
		return "duplicate"
	case errors.Is(err, ErrInternal):
		return "error"
	default:
		return "rejected"
	}
}

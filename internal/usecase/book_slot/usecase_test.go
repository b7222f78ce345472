package book_slot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/infra/events"
	"github.com/m04kA/SMC-PickupService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-PickupService/internal/service/access"
	"github.com/m04kA/SMC-PickupService/internal/service/availability"
	"github.com/m04kA/SMC-PickupService/internal/testutil"
	"github.com/m04kA/SMC-PickupService/pkg/logger"
	"github.com/m04kA/SMC-PickupService/pkg/metrics"
	"github.com/m04kA/SMC-PickupService/pkg/ptr"
	"github.com/m04kA/SMC-PickupService/pkg/types"
)

// 2025-03-03 понедельник
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

type vehicleStub struct {
	vehicle *domain.VehicleInfo
	err     error
}

func (v *vehicleStub) DefaultVehicle(ctx context.Context, userID uuid.UUID) (*domain.VehicleInfo, error) {
	return v.vehicle, v.err
}

type harness struct {
	store    *memory.Store
	clock    *testutil.Clock
	hubs     *testutil.Hubs
	orders   *testutil.Orders
	pub      *testutil.Publisher
	metrics  *metrics.Metrics
	hubID    uuid.UUID
	vehicles VehicleDirectory
}

func newHarness(t *testing.T, mutate func(cfg *domain.HubScheduleConfig)) *harness {
	t.Helper()

	h := &harness{
		store:   memory.NewStore(),
		clock:   testutil.NewClock(monday.Add(7 * time.Hour)),
		hubs:    testutil.NewHubs(),
		orders:  testutil.NewOrders(),
		pub:     testutil.NewPublisher(),
		metrics: metrics.NewWithRegisterer("pickup_test", prometheus.NewRegistry()),
	}
	h.store.WithClock(h.clock.Now)
	h.hubID = h.hubs.Add(uuid.New())

	cfg := domain.NewDefaultHubScheduleConfig(h.hubID)
	cfg.IsEnabled = true
	cfg.WeeklyHours.Monday = &domain.DaySchedule{Open: "09:00", Close: "10:00", Enabled: true}
	cfg.SlotDurationMinutes = 15
	cfg.BufferMinutes = 5
	cfg.ConcurrentCapacity = 2
	if mutate != nil {
		mutate(cfg)
	}
	_, err := h.store.Configs().Upsert(context.Background(), cfg)
	require.NoError(t, err)

	return h
}

func (h *harness) useCase() *UseCase {
	log := logger.NewNop()
	return NewUseCase(
		h.store.Slots(),
		h.store.Configs(),
		availability.NewService(h.store.Slots(), log),
		h.orders,
		access.NewService(h.hubs, log),
		h.vehicles,
		h.store.TxManager(),
		events.NewEmitter(h.pub, log, nil),
		h.clock,
		h.metrics,
		log,
	)
}

// request заказ нового клиента на указанное время понедельника
func (h *harness) request(slotTime types.TimeString) *Request {
	customer := uuid.New()
	return &Request{
		Caller:  domain.Caller{UserID: customer, Role: domain.RoleCustomer},
		HubID:   h.hubID,
		OrderID: h.orders.Add(customer, domain.OrderStatusConfirmed),
		Date:    monday,
		Time:    slotTime,
	}
}

func TestBookSlot_CapacityPerBucket(t *testing.T) {
	h := newHarness(t, nil)
	uc := h.useCase()
	ctx := context.Background()

	first, err := uc.Execute(ctx, h.request("09:00"))
	require.NoError(t, err)
	assert.Equal(t, 1, first.QueuePosition)
	assert.Equal(t, domain.StatusScheduled, first.Status)
	assert.Equal(t, "2025-03-03", first.SlotDate)
	assert.Equal(t, "09:00", first.SlotTime)
	assert.Equal(t, 15, first.EstimatedDurationMinutes)

	second, err := uc.Execute(ctx, h.request("09:00"))
	require.NoError(t, err)
	assert.Equal(t, 2, second.QueuePosition)

	_, err = uc.Execute(ctx, h.request("09:00"))
	assert.ErrorIs(t, err, ErrSlotFull)

	other, err := uc.Execute(ctx, h.request("09:20"))
	require.NoError(t, err)
	assert.Equal(t, 1, other.QueuePosition)

	assert.Equal(t, 3.0, promtest.ToFloat64(h.metrics.BookingsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(h.metrics.BookingsTotal.WithLabelValues("slot_full")))
}

func TestBookSlot_ConcurrentBookingsNeverOverbook(t *testing.T) {
	const (
		capacity = 3
		attempts = 12
	)

	h := newHarness(t, func(cfg *domain.HubScheduleConfig) {
		cfg.ConcurrentCapacity = capacity
	})
	uc := h.useCase()

	requests := make([]*Request, attempts)
	for i := range requests {
		requests[i] = h.request("09:40")
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		booked   int
		full     int
		unknowns []error
	)
	for _, req := range requests {
		wg.Add(1)
		go func(req *Request) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				booked++
			case errors.Is(err, ErrSlotFull):
				full++
			default:
				unknowns = append(unknowns, err)
			}
		}(req)
	}
	wg.Wait()

	require.Empty(t, unknowns)
	assert.Equal(t, capacity, booked)
	assert.Equal(t, attempts-capacity, full)

	count, err := h.store.Slots().CountActiveInBucket(context.Background(), domain.Bucket{
		HubID: h.hubID,
		Date:  monday,
		Time:  "09:40",
	})
	require.NoError(t, err)
	assert.Equal(t, capacity, count)
}

func TestBookSlot_DuplicateAndRebookAfterCancel(t *testing.T) {
	h := newHarness(t, nil)
	uc := h.useCase()
	ctx := context.Background()

	req := h.request("09:00")
	booked, err := uc.Execute(ctx, req)
	require.NoError(t, err)

	_, err = uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrDuplicateBooking)

	slot, err := h.store.Slots().GetByID(ctx, booked.ID)
	require.NoError(t, err)
	slot.Status = domain.StatusCancelled
	_, err = h.store.Slots().Update(ctx, slot)
	require.NoError(t, err)

	rebooked, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, booked.ID, rebooked.ID)
	assert.Equal(t, 1, rebooked.QueuePosition)
}

func TestBookSlot_EmitsSlotBooked(t *testing.T) {
	h := newHarness(t, nil)
	uc := h.useCase()

	req := h.request("09:20")
	booked, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, []string{"slot.booked"}, h.pub.Keys())
	event, ok := h.pub.Last()
	require.True(t, ok)
	assert.Equal(t, booked.ID, event.SlotID)
	assert.Equal(t, req.Caller.UserID, event.CustomerID)
	assert.Equal(t, req.Caller.UserID, event.ActorID)
	assert.Equal(t, 1, event.QueuePosition)
	assert.Equal(t, "09:20", event.SlotTime)
	require.NotNil(t, event.AutoConfirm)
	assert.True(t, *event.AutoConfirm)
	require.NotNil(t, event.Notifications)
	assert.True(t, event.Notifications.HubNewBooking)
}

func TestBookSlot_NoEventOnRejection(t *testing.T) {
	h := newHarness(t, func(cfg *domain.HubScheduleConfig) {
		cfg.ConcurrentCapacity = 1
	})
	uc := h.useCase()
	ctx := context.Background()

	_, err := uc.Execute(ctx, h.request("09:00"))
	require.NoError(t, err)
	_, err = uc.Execute(ctx, h.request("09:00"))
	require.ErrorIs(t, err, ErrSlotFull)

	assert.Equal(t, []string{"slot.booked"}, h.pub.Keys())
}

func TestBookSlot_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *domain.HubScheduleConfig)
		prepare func(h *harness, req *Request)
		wantErr error
	}{
		{
			name: "missing order id",
			prepare: func(h *harness, req *Request) {
				req.OrderID = uuid.Nil
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "malformed time",
			prepare: func(h *harness, req *Request) {
				req.Time = "9am"
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown hub",
			prepare: func(h *harness, req *Request) {
				req.HubID = uuid.New()
			},
			wantErr: ErrHubNotFound,
		},
		{
			name: "hub without config",
			prepare: func(h *harness, req *Request) {
				req.HubID = h.hubs.Add(uuid.New())
			},
			wantErr: ErrSchedulingNotEnabled,
		},
		{
			name: "scheduling disabled",
			mutate: func(cfg *domain.HubScheduleConfig) {
				cfg.IsEnabled = false
			},
			wantErr: ErrSchedulingNotEnabled,
		},
		{
			name: "unknown order",
			prepare: func(h *harness, req *Request) {
				req.OrderID = uuid.New()
			},
			wantErr: ErrOrderNotFound,
		},
		{
			name: "order of another customer",
			prepare: func(h *harness, req *Request) {
				req.OrderID = h.orders.Add(uuid.New(), domain.OrderStatusConfirmed)
			},
			wantErr: ErrOrderNotEligible,
		},
		{
			name: "order not ready for pickup",
			prepare: func(h *harness, req *Request) {
				req.OrderID = h.orders.Add(req.Caller.UserID, "pending")
			},
			wantErr: ErrOrderNotEligible,
		},
		{
			name: "slot in the past",
			prepare: func(h *harness, req *Request) {
				h.clock.Set(monday.Add(9*time.Hour + 21*time.Minute))
				req.Time = "09:20"
			},
			wantErr: ErrSlotInPast,
		},
		{
			name: "date beyond booking horizon",
			prepare: func(h *harness, req *Request) {
				req.Date = monday.AddDate(0, 0, 7)
			},
			wantErr: ErrDateTooFarInFuture,
		},
		{
			name: "hub closed on sunday",
			prepare: func(h *harness, req *Request) {
				req.Date = monday.AddDate(0, 0, 6)
				req.Time = "10:00"
			},
			wantErr: ErrHubClosed,
		},
		{
			name: "time between slots",
			prepare: func(h *harness, req *Request) {
				req.Time = "09:10"
			},
			wantErr: ErrInvalidTimeSlot,
		},
		{
			name: "slot does not fit before close",
			prepare: func(h *harness, req *Request) {
				req.Time = "10:00"
			},
			wantErr: ErrInvalidTimeSlot,
		},
		{
			name: "instructions over hub limit",
			mutate: func(cfg *domain.HubScheduleConfig) {
				cfg.SpecialInstructionsMaxLength = 10
			},
			prepare: func(h *harness, req *Request) {
				req.SpecialInstructions = ptr.Ptr("ring twice please")
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "vehicle required",
			mutate: func(cfg *domain.HubScheduleConfig) {
				cfg.RequiresVehicleInfo = true
			},
			wantErr: ErrVehicleInfoRequired,
		},
		{
			name: "incomplete vehicle",
			prepare: func(h *harness, req *Request) {
				req.VehicleInfo = &domain.VehicleInfo{Make: "Lada"}
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.mutate)
			req := h.request("09:00")
			if tt.prepare != nil {
				tt.prepare(h, req)
			}

			resp, err := h.useCase().Execute(context.Background(), req)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, h.pub.Keys())
		})
	}
}

func TestBookSlot_VehicleInfo(t *testing.T) {
	requireVehicle := func(cfg *domain.HubScheduleConfig) {
		cfg.RequiresVehicleInfo = true
	}

	t.Run("taken from request", func(t *testing.T) {
		h := newHarness(t, requireVehicle)
		req := h.request("09:00")
		req.VehicleInfo = &domain.VehicleInfo{Make: "Skoda", Model: "Octavia", Color: ptr.Ptr("white")}

		resp, err := h.useCase().Execute(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, resp.VehicleInfo)
		assert.Equal(t, "Skoda", resp.VehicleInfo.Make)
		assert.Equal(t, "white", *resp.VehicleInfo.Color)
	})

	t.Run("taken from customer profile", func(t *testing.T) {
		h := newHarness(t, requireVehicle)
		h.vehicles = &vehicleStub{vehicle: &domain.VehicleInfo{Make: "Kia", Model: "Rio"}}

		resp, err := h.useCase().Execute(context.Background(), h.request("09:00"))
		require.NoError(t, err)
		require.NotNil(t, resp.VehicleInfo)
		assert.Equal(t, "Kia", resp.VehicleInfo.Make)
		assert.Equal(t, "Rio", resp.VehicleInfo.Model)
	})

	t.Run("profile lookup failure", func(t *testing.T) {
		h := newHarness(t, requireVehicle)
		h.vehicles = &vehicleStub{err: errors.New("user service down")}

		_, err := h.useCase().Execute(context.Background(), h.request("09:00"))
		assert.ErrorIs(t, err, ErrVehicleInfoRequired)
	})
}

func TestBookSlot_LastDayOfHorizon(t *testing.T) {
	h := newHarness(t, func(cfg *domain.HubScheduleConfig) {
		cfg.MaxAdvanceDays = 8
	})
	req := h.request("09:00")
	req.Date = monday.AddDate(0, 0, 7)

	resp, err := h.useCase().Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", resp.SlotDate)
}

package get_history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-PickupService/internal/service/access"
	"github.com/m04kA/SMC-PickupService/internal/testutil"
	"github.com/m04kA/SMC-PickupService/pkg/logger"
)

// 2025-03-03 понедельник
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

type fixture struct {
	uc    *UseCase
	store *memory.Store

	hubA, hubB uuid.UUID
	ownerA     domain.Caller
	alice      domain.Caller
	bob        domain.Caller
}

// newFixture: у alice три бронирования (два в хабе A, одно в хабе B), у bob одно в хабе A
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	hubs := testutil.NewHubs()
	log := logger.NewNop()

	f := &fixture{
		uc:     NewUseCase(store.Slots(), access.NewService(hubs, log), log),
		store:  store,
		ownerA: domain.Caller{UserID: uuid.New(), Role: domain.RoleHubOwner},
		alice:  domain.Caller{UserID: uuid.New(), Role: domain.RoleCustomer},
		bob:    domain.Caller{UserID: uuid.New(), Role: domain.RoleCustomer},
	}
	f.hubA = hubs.Add(f.ownerA.UserID)
	f.hubB = hubs.Add(uuid.New())

	f.seed(t, f.hubA, f.alice, 0, domain.StatusCompleted)
	f.seed(t, f.hubA, f.alice, 1, domain.StatusScheduled)
	f.seed(t, f.hubB, f.alice, 2, domain.StatusCancelled)
	f.seed(t, f.hubA, f.bob, 3, domain.StatusScheduled)

	return f
}

func (f *fixture) seed(t *testing.T, hubID uuid.UUID, customer domain.Caller, dayOffset int, status domain.SlotStatus) {
	t.Helper()
	_, err := f.store.Slots().Create(context.Background(), &domain.PickupSlot{
		HubID:      hubID,
		CustomerID: customer.UserID,
		OrderID:    uuid.New(),
		SlotDate:   monday.AddDate(0, 0, dayOffset),
		SlotTime:   "09:00",
		Status:     status,
	})
	require.NoError(t, err)
}

func TestGetHistory_Visibility(t *testing.T) {
	f := newFixture(t)
	admin := domain.Caller{UserID: uuid.New(), Role: domain.RoleAdmin}

	tests := []struct {
		name      string
		req       func() *Request
		wantTotal int
	}{
		{
			name:      "customer sees own bookings",
			req:       func() *Request { return &Request{Caller: f.alice} },
			wantTotal: 3,
		},
		{
			name: "customer filters own bookings by hub",
			req: func() *Request {
				return &Request{Caller: f.alice, HubID: &f.hubA}
			},
			wantTotal: 2,
		},
		{
			name: "hub owner sees all bookings of the hub",
			req: func() *Request {
				return &Request{Caller: f.ownerA, HubID: &f.hubA}
			},
			wantTotal: 3,
		},
		{
			name: "hub owner without hub filter sees own bookings",
			req: func() *Request {
				return &Request{Caller: f.ownerA}
			},
			wantTotal: 0,
		},
		{
			name: "hub owner of another hub",
			req: func() *Request {
				return &Request{Caller: f.ownerA, HubID: &f.hubB}
			},
			wantTotal: 0,
		},
		{
			name:      "admin sees everything",
			req:       func() *Request { return &Request{Caller: admin} },
			wantTotal: 4,
		},
		{
			name: "admin filters by customer",
			req: func() *Request {
				return &Request{Caller: admin, CustomerID: &f.bob.UserID}
			},
			wantTotal: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.uc.Execute(context.Background(), tt.req())
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, resp.Pagination.Total)
			assert.Len(t, resp.Slots, tt.wantTotal)
		})
	}
}

func TestGetHistory_CustomerCannotReadOthers(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{Caller: f.alice, CustomerID: &f.bob.UserID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.uc.Execute(context.Background(), &Request{Caller: f.alice, CustomerID: &f.alice.UserID})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Pagination.Total)
}

func TestGetHistory_FiltersAndOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, &Request{Caller: f.alice})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	// Новые даты первыми
	assert.Equal(t, "2025-03-05", resp.Slots[0].SlotDate)
	assert.Equal(t, "2025-03-03", resp.Slots[2].SlotDate)

	scheduled := domain.StatusScheduled
	resp, err = f.uc.Execute(ctx, &Request{Caller: f.alice, Status: &scheduled})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, domain.StatusScheduled, resp.Slots[0].Status)

	start := monday.AddDate(0, 0, 1)
	end := monday.AddDate(0, 0, 2)
	resp, err = f.uc.Execute(ctx, &Request{Caller: f.alice, StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Pagination.Total)
}

func TestGetHistory_Pagination(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 2; i++ {
		f.seed(t, f.hubA, f.alice, 10+i, domain.StatusCompleted)
	}

	resp, err := f.uc.Execute(context.Background(), &Request{Caller: f.alice, Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, Pagination{Page: 3, Limit: 2, Total: 5, Pages: 3}, resp.Pagination)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "2025-03-03", resp.Slots[0].SlotDate)

	resp, err = f.uc.Execute(context.Background(), &Request{Caller: f.alice, Page: 4, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)

	resp, err = f.uc.Execute(context.Background(), &Request{Caller: f.alice})
	require.NoError(t, err)
	assert.Equal(t, Pagination{Page: 1, Limit: domain.DefaultHistoryLimit, Total: 5, Pages: 1}, resp.Pagination)
}

func TestGetHistory_Validation(t *testing.T) {
	f := newFixture(t)
	unknown := domain.SlotStatus("lost")
	start := monday.AddDate(0, 0, 2)
	end := monday

	tests := []struct {
		name string
		req  *Request
	}{
		{"negative page", &Request{Caller: f.alice, Page: -1}},
		{"limit too large", &Request{Caller: f.alice, Limit: domain.MaxHistoryLimit + 1}},
		{"unknown status", &Request{Caller: f.alice, Status: &unknown}},
		{"end before start", &Request{Caller: f.alice, StartDate: &start, EndDate: &end}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

package config

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-PickupService/internal/service/access"
	"github.com/m04kA/SMC-PickupService/internal/service/config/models"
	"github.com/m04kA/SMC-PickupService/internal/testutil"
	"github.com/m04kA/SMC-PickupService/pkg/logger"
	"github.com/m04kA/SMC-PickupService/pkg/ptr"
)

type fixture struct {
	svc   *Service
	store *memory.Store
	hubID uuid.UUID
	owner domain.Caller
}

func newFixture() *fixture {
	store := memory.NewStore()
	hubs := testutil.NewHubs()
	owner := domain.Caller{UserID: uuid.New(), Role: domain.RoleHubOwner}
	log := logger.NewNop()

	return &fixture{
		svc:   NewService(store.Configs(), access.NewService(hubs, log), store.TxManager(), log),
		store: store,
		hubID: hubs.Add(owner.UserID),
		owner: owner,
	}
}

func TestService_EnableSchedulingWithDefaults(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.svc.EnableScheduling(ctx, &models.EnableSchedulingRequest{Caller: f.owner, HubID: f.hubID})
	require.NoError(t, err)

	assert.True(t, resp.IsEnabled)
	assert.Equal(t, domain.DefaultSlotDurationMinutes, resp.SlotDurationMinutes)
	assert.Equal(t, domain.DefaultBufferMinutes, resp.BufferMinutes)
	assert.Equal(t, domain.DefaultConcurrentCapacity, resp.ConcurrentCapacity)
	assert.Equal(t, domain.DefaultMaxAdvanceDays, resp.MaxAdvanceDays)
	assert.True(t, resp.AutoConfirm)
	assert.Equal(t, domain.DefaultWeeklyHours(), resp.WeeklyHours)

	stored, err := f.svc.GetHubConfig(ctx, f.hubID)
	require.NoError(t, err)
	assert.True(t, stored.IsEnabled)
}

func TestService_EnableSchedulingKeepsExistingSettings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.EnableScheduling(ctx, &models.EnableSchedulingRequest{
		Caller:             f.owner,
		HubID:              f.hubID,
		ConcurrentCapacity: ptr.Ptr(4),
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.DisableScheduling(ctx, f.owner, f.hubID))

	resp, err := f.svc.EnableScheduling(ctx, &models.EnableSchedulingRequest{
		Caller:              f.owner,
		HubID:               f.hubID,
		SlotDurationMinutes: ptr.Ptr(10),
	})
	require.NoError(t, err)
	assert.True(t, resp.IsEnabled)
	assert.Equal(t, 4, resp.ConcurrentCapacity)
	assert.Equal(t, 10, resp.SlotDurationMinutes)
}

func TestService_EnableSchedulingRejections(t *testing.T) {
	tests := []struct {
		name    string
		build   func(f *fixture) *models.EnableSchedulingRequest
		wantErr error
	}{
		{
			name: "capacity above limit",
			build: func(f *fixture) *models.EnableSchedulingRequest {
				return &models.EnableSchedulingRequest{Caller: f.owner, HubID: f.hubID, ConcurrentCapacity: ptr.Ptr(11)}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "slot too short",
			build: func(f *fixture) *models.EnableSchedulingRequest {
				return &models.EnableSchedulingRequest{Caller: f.owner, HubID: f.hubID, SlotDurationMinutes: ptr.Ptr(4)}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "customer",
			build: func(f *fixture) *models.EnableSchedulingRequest {
				return &models.EnableSchedulingRequest{
					Caller: domain.Caller{UserID: uuid.New(), Role: domain.RoleCustomer},
					HubID:  f.hubID,
				}
			},
			wantErr: ErrAccessDenied,
		},
		{
			name: "owner of another hub",
			build: func(f *fixture) *models.EnableSchedulingRequest {
				return &models.EnableSchedulingRequest{
					Caller: domain.Caller{UserID: uuid.New(), Role: domain.RoleHubOwner},
					HubID:  f.hubID,
				}
			},
			wantErr: ErrAccessDenied,
		},
		{
			name: "unknown hub",
			build: func(f *fixture) *models.EnableSchedulingRequest {
				return &models.EnableSchedulingRequest{Caller: f.owner, HubID: uuid.New()}
			},
			wantErr: ErrHubNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.EnableScheduling(context.Background(), tt.build(f))
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = f.svc.GetHubConfig(context.Background(), f.hubID)
			assert.ErrorIs(t, err, ErrConfigNotFound)
		})
	}
}

func TestService_AdminManagesAnyHub(t *testing.T) {
	f := newFixture()
	admin := domain.Caller{UserID: uuid.New(), Role: domain.RoleAdmin}

	resp, err := f.svc.EnableScheduling(context.Background(), &models.EnableSchedulingRequest{Caller: admin, HubID: f.hubID})
	require.NoError(t, err)
	assert.True(t, resp.IsEnabled)
}

func TestService_DisableScheduling(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	err := f.svc.DisableScheduling(ctx, f.owner, f.hubID)
	assert.ErrorIs(t, err, ErrConfigNotFound)

	_, err = f.svc.EnableScheduling(ctx, &models.EnableSchedulingRequest{Caller: f.owner, HubID: f.hubID})
	require.NoError(t, err)

	require.NoError(t, f.svc.DisableScheduling(ctx, f.owner, f.hubID))

	resp, err := f.svc.GetHubConfig(ctx, f.hubID)
	require.NoError(t, err)
	assert.False(t, resp.IsEnabled)
}

func TestService_UpdateOperatingHours(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	hours := domain.WeeklyHours{
		Monday: &domain.DaySchedule{Open: "08:00", Close: "12:00", Enabled: true},
	}

	_, err := f.svc.UpdateOperatingHours(ctx, &models.UpdateOperatingHoursRequest{
		Caller:      f.owner,
		HubID:       f.hubID,
		WeeklyHours: hours,
	})
	assert.ErrorIs(t, err, ErrConfigNotFound)

	_, err = f.svc.EnableScheduling(ctx, &models.EnableSchedulingRequest{Caller: f.owner, HubID: f.hubID})
	require.NoError(t, err)

	resp, err := f.svc.UpdateOperatingHours(ctx, &models.UpdateOperatingHoursRequest{
		Caller:      f.owner,
		HubID:       f.hubID,
		WeeklyHours: hours,
	})
	require.NoError(t, err)
	assert.Equal(t, hours, resp.WeeklyHours)
	assert.True(t, resp.IsEnabled)

	_, err = f.svc.UpdateOperatingHours(ctx, &models.UpdateOperatingHoursRequest{
		Caller: f.owner,
		HubID:  f.hubID,
		WeeklyHours: domain.WeeklyHours{
			Tuesday: &domain.DaySchedule{Open: "18:00", Close: "09:00", Enabled: true},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

package get_available_slots

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
	"github.com/m04kA/SMC-PickupService/internal/service/availability"
	"github.com/m04kA/SMC-PickupService/internal/testutil"
	"github.com/m04kA/SMC-PickupService/pkg/logger"
	"github.com/m04kA/SMC-PickupService/pkg/types"
)

// 2025-03-03 понедельник
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

type fixture struct {
	uc    *UseCase
	store *memory.Store
	clock *testutil.Clock
	hubs  *testutil.Hubs
	hubID uuid.UUID
}

func newFixture(t *testing.T, mutate func(cfg *domain.HubScheduleConfig)) *fixture {
	t.Helper()

	store := memory.NewStore()
	hubs := testutil.NewHubs()
	clock := testutil.NewClock(monday.Add(7 * time.Hour))
	log := logger.NewNop()
	hubID := hubs.Add(uuid.New())

	cfg := domain.NewDefaultHubScheduleConfig(hubID)
	cfg.IsEnabled = true
	cfg.WeeklyHours.Monday = &domain.DaySchedule{Open: "09:00", Close: "10:00", Enabled: true}
	cfg.SlotDurationMinutes = 15
	cfg.BufferMinutes = 5
	cfg.ConcurrentCapacity = 2
	if mutate != nil {
		mutate(cfg)
	}
	_, err := store.Configs().Upsert(context.Background(), cfg)
	require.NoError(t, err)

	return &fixture{
		uc: NewUseCase(
			store.Configs(),
			availability.NewService(store.Slots(), log),
			access.NewService(hubs, log),
			clock,
			log,
			domain.DefaultAvailabilityDays,
		),
		store: store,
		clock: clock,
		hubs:  hubs,
		hubID: hubID,
	}
}

func slotTimes(day Day) []types.TimeString {
	result := make([]types.TimeString, 0, len(day.Slots))
	for _, s := range day.Slots {
		result = append(result, s.Time)
	}
	return result
}

func TestGetAvailableSlots_SingleDay(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.store.Slots().Create(ctx, &domain.PickupSlot{
		HubID:    f.hubID,
		OrderID:  uuid.New(),
		SlotDate: monday,
		SlotTime: "09:00",
		Status:   domain.StatusScheduled,
	})
	require.NoError(t, err)

	resp, err := f.uc.Execute(ctx, &Request{HubID: f.hubID, Days: 1})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	day := resp.Days[0]
	assert.True(t, day.Date.Equal(monday))
	assert.Equal(t, "Monday", day.Weekday)
	assert.Equal(t, []types.TimeString{"09:00", "09:20", "09:40"}, slotTimes(day))
	assert.Equal(t, Slot{Time: "09:00", IsAvailable: true, ConcurrentBookings: 1, MaxConcurrent: 2}, day.Slots[0])
}

func TestGetAvailableSlots_PastTimesExcluded(t *testing.T) {
	f := newFixture(t, nil)

	f.clock.Set(monday.Add(9*time.Hour + 30*time.Minute))
	resp, err := f.uc.Execute(context.Background(), &Request{HubID: f.hubID, Days: 1})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, []types.TimeString{"09:40"}, slotTimes(resp.Days[0]))

	f.clock.Set(monday.Add(10*time.Hour + 30*time.Minute))
	resp, err = f.uc.Execute(context.Background(), &Request{HubID: f.hubID, Days: 1})
	require.NoError(t, err)
	assert.Empty(t, resp.Days)
}

func TestGetAvailableSlots_DefaultRangeSkipsClosedDays(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.uc.Execute(context.Background(), &Request{HubID: f.hubID})
	require.NoError(t, err)

	// Воскресенье выключено в расписании по умолчанию
	require.Len(t, resp.Days, 6)
	for _, day := range resp.Days {
		assert.NotEqual(t, time.Sunday, day.Date.Weekday())
	}
	assert.Equal(t, "Saturday", resp.Days[5].Weekday)
	assert.Equal(t, types.TimeString("10:00"), resp.Days[5].Slots[0].Time)
}

func TestGetAvailableSlots_DaysClampedToHorizon(t *testing.T) {
	f := newFixture(t, func(cfg *domain.HubScheduleConfig) {
		cfg.MaxAdvanceDays = 3
	})

	resp, err := f.uc.Execute(context.Background(), &Request{HubID: f.hubID, Days: 10})
	require.NoError(t, err)
	require.Len(t, resp.Days, 3)
	assert.True(t, resp.Days[2].Date.Equal(monday.AddDate(0, 0, 2)))
}

func TestGetAvailableSlots_StartDateBeyondHorizon(t *testing.T) {
	f := newFixture(t, func(cfg *domain.HubScheduleConfig) {
		cfg.MaxAdvanceDays = 7
	})

	// Последний день горизонта 2025-03-09, воскресенье выключено
	saturday := monday.AddDate(0, 0, 5)
	resp, err := f.uc.Execute(context.Background(), &Request{HubID: f.hubID, StartDate: &saturday, Days: 5})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "Saturday", resp.Days[0].Weekday)

	farAway := monday.AddDate(0, 0, 14)
	resp, err = f.uc.Execute(context.Background(), &Request{HubID: f.hubID, StartDate: &farAway, Days: 1})
	require.NoError(t, err)
	assert.Empty(t, resp.Days)
}

func TestGetAvailableSlots_StartDate(t *testing.T) {
	f := newFixture(t, nil)
	tuesday := monday.AddDate(0, 0, 1)

	resp, err := f.uc.Execute(context.Background(), &Request{HubID: f.hubID, StartDate: &tuesday, Days: 1})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "Tuesday", resp.Days[0].Weekday)
	// 09:00-18:00 с шагом 20 минут, последний слот 17:40
	assert.Len(t, resp.Days[0].Slots, 27)
}

func TestGetAvailableSlots_Errors(t *testing.T) {
	yesterday := monday.AddDate(0, 0, -1)

	tests := []struct {
		name    string
		mutate  func(cfg *domain.HubScheduleConfig)
		build   func(f *fixture) *Request
		wantErr error
	}{
		{
			name:    "missing hub",
			build:   func(f *fixture) *Request { return &Request{} },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "too many days",
			build:   func(f *fixture) *Request { return &Request{HubID: f.hubID, Days: 31} },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown hub",
			build:   func(f *fixture) *Request { return &Request{HubID: uuid.New()} },
			wantErr: ErrHubNotFound,
		},
		{
			name:    "hub without config",
			build:   func(f *fixture) *Request { return &Request{HubID: f.hubs.Add(uuid.New())} },
			wantErr: ErrSchedulingNotEnabled,
		},
		{
			name:    "scheduling disabled",
			mutate:  func(cfg *domain.HubScheduleConfig) { cfg.IsEnabled = false },
			build:   func(f *fixture) *Request { return &Request{HubID: f.hubID} },
			wantErr: ErrSchedulingNotEnabled,
		},
		{
			name:    "start date in the past",
			build:   func(f *fixture) *Request { return &Request{HubID: f.hubID, StartDate: &yesterday} },
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.mutate)
			_, err := f.uc.Execute(context.Background(), tt.build(f))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

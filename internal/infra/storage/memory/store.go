package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	configrepo "github.com/m04kA/SMC-PickupService/internal/infra/storage/config"
	slotrepo "github.com/m04kA/SMC-PickupService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-PickupService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PickupService/pkg/types"
)

// Store хранилище в памяти для локального запуска и тестов.
// Повторяет контракты PostgreSQL-репозиториев и возвращает те же ошибки.
// Транзакции сериализуются глобальной блокировкой, откат восстанавливает снимок данных.
type Store struct {
	mu      sync.Mutex
	slots   map[uuid.UUID]domain.PickupSlot
	configs map[uuid.UUID]domain.HubScheduleConfig
	now     func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		slots:   make(map[uuid.UUID]domain.PickupSlot),
		configs: make(map[uuid.UUID]domain.HubScheduleConfig),
		now:     time.Now,
	}
}

// WithClock подменяет источник времени для created_at/updated_at
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Slots репозиторий слотов поверх хранилища
func (s *Store) Slots() *SlotRepository {
	return &SlotRepository{store: s}
}

// Configs репозиторий конфигураций поверх хранилища
func (s *Store) Configs() *ConfigRepository {
	return &ConfigRepository{store: s}
}

// TxManager менеджер транзакций поверх хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

// lock берёт блокировку хранилища, если вызов идёт не из транзакции
// (транзакция держит её сама до завершения).
func (s *Store) lock(ctx context.Context) func() {
	if dbmetrics.IsInTransaction(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	slots   map[uuid.UUID]domain.PickupSlot
	configs map[uuid.UUID]domain.HubScheduleConfig
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		slots:   make(map[uuid.UUID]domain.PickupSlot, len(s.slots)),
		configs: make(map[uuid.UUID]domain.HubScheduleConfig, len(s.configs)),
	}
	for id, slot := range s.slots {
		snap.slots[id] = slot
	}
	for id, cfg := range s.configs {
		snap.configs[id] = cfg
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.slots = snap.slots
	s.configs = snap.configs
}

// SlotRepository реестр слотов в памяти
type SlotRepository struct {
	store *Store
}

func (r *SlotRepository) Create(ctx context.Context, slot *domain.PickupSlot) (*domain.PickupSlot, error) {
	defer r.store.lock(ctx)()

	for _, existing := range r.store.slots {
		if existing.OrderID == slot.OrderID && existing.Status != domain.StatusCancelled {
			return nil, slotrepo.ErrDuplicateOrder
		}
	}

	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	now := r.store.now()
	slot.SlotDate = domain.DateOnly(slot.SlotDate)
	slot.Version = 1
	slot.CreatedAt = now
	slot.UpdatedAt = now

	r.store.slots[slot.ID] = *slot
	return cloneSlot(*slot), nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PickupSlot, error) {
	defer r.store.lock(ctx)()

	slot, ok := r.store.slots[id]
	if !ok {
		return nil, slotrepo.ErrSlotNotFound
	}
	return cloneSlot(slot), nil
}

func (r *SlotRepository) GetActiveByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.PickupSlot, error) {
	defer r.store.lock(ctx)()

	for _, slot := range r.store.slots {
		if slot.OrderID == orderID && slot.Status != domain.StatusCancelled {
			return cloneSlot(slot), nil
		}
	}
	return nil, slotrepo.ErrSlotNotFound
}

// LockBucket не требует отдельной блокировки: транзакция уже держит блокировку хранилища
func (r *SlotRepository) LockBucket(ctx context.Context, bucket domain.Bucket) error {
	return nil
}

func (r *SlotRepository) CountActiveInBucket(ctx context.Context, bucket domain.Bucket) (int, error) {
	defer r.store.lock(ctx)()

	key := bucket.Key()
	count := 0
	for _, slot := range r.store.slots {
		if slot.Bucket().Key() == key && slot.Status.OccupiesCapacity() {
			count++
		}
	}
	return count, nil
}

func (r *SlotRepository) CountActiveByTime(ctx context.Context, hubID uuid.UUID, date time.Time) (map[types.TimeString]int, error) {
	defer r.store.lock(ctx)()

	day := domain.DateOnly(date)
	counts := make(map[types.TimeString]int)
	for _, slot := range r.store.slots {
		if slot.HubID == hubID && slot.SlotDate.Equal(day) && slot.Status.OccupiesCapacity() {
			counts[slot.SlotTime]++
		}
	}
	return counts, nil
}

func (r *SlotRepository) Update(ctx context.Context, slot *domain.PickupSlot) (*domain.PickupSlot, error) {
	defer r.store.lock(ctx)()

	current, ok := r.store.slots[slot.ID]
	if !ok || current.Version != slot.Version {
		return nil, slotrepo.ErrConcurrentModification
	}

	updated := *slot
	updated.Version = current.Version + 1
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = r.store.now()
	r.store.slots[slot.ID] = updated

	slot.Version = updated.Version
	slot.UpdatedAt = updated.UpdatedAt
	return cloneSlot(updated), nil
}

func (r *SlotRepository) GetQueue(ctx context.Context, filter domain.QueueFilter) ([]*domain.PickupSlot, error) {
	defer r.store.lock(ctx)()

	day := domain.DateOnly(filter.Date)
	result := make([]*domain.PickupSlot, 0)
	for _, slot := range r.store.slots {
		if slot.HubID != filter.HubID || !slot.SlotDate.Equal(day) || !inQueue(slot.Status) {
			continue
		}
		result = append(result, cloneSlot(slot))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].SlotTime != result[j].SlotTime {
			return result[i].SlotTime.IsBefore(result[j].SlotTime)
		}
		return result[i].QueuePosition < result[j].QueuePosition
	})
	return result, nil
}

func (r *SlotRepository) GetHistory(ctx context.Context, filter domain.HistoryFilter) ([]*domain.PickupSlot, int, error) {
	defer r.store.lock(ctx)()

	matched := make([]*domain.PickupSlot, 0)
	for _, slot := range r.store.slots {
		if matchesHistory(slot, filter) {
			matched = append(matched, cloneSlot(slot))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.SlotDate.Equal(b.SlotDate) {
			return a.SlotDate.After(b.SlotDate)
		}
		if a.SlotTime != b.SlotTime {
			return a.SlotTime.IsAfter(b.SlotTime)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	total := len(matched)
	if filter.Offset >= total {
		return []*domain.PickupSlot{}, total, nil
	}
	end := total
	if filter.Limit > 0 && filter.Offset+filter.Limit < total {
		end = filter.Offset + filter.Limit
	}
	return matched[filter.Offset:end], total, nil
}

func matchesHistory(slot domain.PickupSlot, filter domain.HistoryFilter) bool {
	if filter.CustomerID != nil && slot.CustomerID != *filter.CustomerID {
		return false
	}
	if filter.HubID != nil && slot.HubID != *filter.HubID {
		return false
	}
	if filter.Status != nil && slot.Status != *filter.Status {
		return false
	}
	if filter.StartDate != nil && slot.SlotDate.Before(domain.DateOnly(*filter.StartDate)) {
		return false
	}
	if filter.EndDate != nil && slot.SlotDate.After(domain.DateOnly(*filter.EndDate)) {
		return false
	}
	return true
}

func inQueue(status domain.SlotStatus) bool {
	for _, s := range domain.QueueStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func cloneSlot(slot domain.PickupSlot) *domain.PickupSlot {
	if slot.VehicleInfo != nil {
		info := *slot.VehicleInfo
		slot.VehicleInfo = &info
	}
	return &slot
}

// ConfigRepository настройки хабов в памяти
type ConfigRepository struct {
	store *Store
}

func (r *ConfigRepository) GetByHubID(ctx context.Context, hubID uuid.UUID) (*domain.HubScheduleConfig, error) {
	defer r.store.lock(ctx)()

	cfg, ok := r.store.configs[hubID]
	if !ok {
		return nil, configrepo.ErrConfigNotFound
	}
	return &cfg, nil
}

func (r *ConfigRepository) Upsert(ctx context.Context, cfg *domain.HubScheduleConfig) (*domain.HubScheduleConfig, error) {
	defer r.store.lock(ctx)()

	now := r.store.now()
	if existing, ok := r.store.configs[cfg.HubID]; ok {
		cfg.CreatedAt = existing.CreatedAt
	} else {
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now

	r.store.configs[cfg.HubID] = *cfg
	stored := *cfg
	return &stored, nil
}

func (r *ConfigRepository) SetEnabled(ctx context.Context, hubID uuid.UUID, enabled bool) error {
	defer r.store.lock(ctx)()

	cfg, ok := r.store.configs[hubID]
	if !ok {
		return configrepo.ErrConfigNotFound
	}
	cfg.IsEnabled = enabled
	cfg.UpdatedAt = r.store.now()
	r.store.configs[hubID] = cfg
	return nil
}

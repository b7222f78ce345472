package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/internal/integrations/hubservice"
	"github.com/m04kA/SMC-PickupService/pkg/dbmetrics"
)

// HubDirectory источник данных о хабах
type HubDirectory interface {
	GetHub(ctx context.Context, hubID uuid.UUID) (*hubservice.Hub, error)
}

// ConfigRepository хранилище настроек расписания
type ConfigRepository interface {
	GetByHubID(ctx context.Context, hubID uuid.UUID) (*domain.HubScheduleConfig, error)
	Upsert(ctx context.Context, cfg *domain.HubScheduleConfig) (*domain.HubScheduleConfig, error)
	SetEnabled(ctx context.Context, hubID uuid.UUID, enabled bool) error
}

// CachedHubDirectory справочник хабов с кэшированием ответов
type CachedHubDirectory struct {
	next  HubDirectory
	cache *Cache
}

// NewCachedHubDirectory оборачивает справочник хабов
func NewCachedHubDirectory(next HubDirectory, cache *Cache) *CachedHubDirectory {
	return &CachedHubDirectory{next: next, cache: cache}
}

func (d *CachedHubDirectory) GetHub(ctx context.Context, hubID uuid.UUID) (*hubservice.Hub, error) {
	var hub hubservice.Hub
	if d.cache.get(ctx, KeyHub+hubID.String(), &hub) {
		d.cache.logger.Debug("hub %s cache hit", hubID)
		return &hub, nil
	}

	fetched, err := d.next.GetHub(ctx, hubID)
	if err != nil {
		return nil, err
	}

	_ = d.cache.set(ctx, KeyHub+hubID.String(), fetched, d.cache.config.HubTTL)
	return fetched, nil
}

// CachedConfigRepository настройки расписания с кэшированием чтений вне транзакций.
// Внутри транзакции чтение всегда идёт в хранилище, чтобы бронирование видело актуальные настройки.
// Запись сбрасывает кэш после фиксации транзакции.
type CachedConfigRepository struct {
	next  ConfigRepository
	cache *Cache
}

// NewCachedConfigRepository оборачивает репозиторий настроек
func NewCachedConfigRepository(next ConfigRepository, cache *Cache) *CachedConfigRepository {
	return &CachedConfigRepository{next: next, cache: cache}
}

func (r *CachedConfigRepository) GetByHubID(ctx context.Context, hubID uuid.UUID) (*domain.HubScheduleConfig, error) {
	if dbmetrics.IsInTransaction(ctx) {
		return r.next.GetByHubID(ctx, hubID)
	}

	var cfg domain.HubScheduleConfig
	if r.cache.get(ctx, KeyConfig+hubID.String(), &cfg) {
		r.cache.logger.Debug("config %s cache hit", hubID)
		return &cfg, nil
	}

	stored, err := r.next.GetByHubID(ctx, hubID)
	if err != nil {
		return nil, err
	}

	_ = r.cache.set(ctx, KeyConfig+hubID.String(), stored, r.cache.config.ConfigTTL)
	return stored, nil
}

func (r *CachedConfigRepository) Upsert(ctx context.Context, cfg *domain.HubScheduleConfig) (*domain.HubScheduleConfig, error) {
	stored, err := r.next.Upsert(ctx, cfg)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, cfg.HubID)
	return stored, nil
}

func (r *CachedConfigRepository) SetEnabled(ctx context.Context, hubID uuid.UUID, enabled bool) error {
	if err := r.next.SetEnabled(ctx, hubID, enabled); err != nil {
		return err
	}
	r.invalidate(ctx, hubID)
	return nil
}

func (r *CachedConfigRepository) invalidate(ctx context.Context, hubID uuid.UUID) {
	dbmetrics.AfterCommit(ctx, func(ctx context.Context) {
		if err := r.cache.delete(ctx, KeyConfig+hubID.String()); err != nil {
			r.cache.logger.Warn("failed to invalidate config %s: %v", hubID, err)
		}
	})
}

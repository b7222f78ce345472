package config

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PickupService/pkg/psqlbuilder"
)

const tableName = "hub_schedule_configs"

var configColumns = []string{
	"hub_id",
	"is_enabled",
	"weekly_hours",
	"slot_duration_minutes",
	"buffer_minutes",
	"concurrent_capacity",
	"max_advance_days",
	"requires_vehicle_info",
	"auto_confirm",
	"special_instructions_max_length",
	"notification_settings",
	"created_at",
	"updated_at",
}

// Repository репозиторий настроек расписания хабов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByHubID получает конфигурацию хаба
func (r *Repository) GetByHubID(ctx context.Context, hubID uuid.UUID) (*domain.HubScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(configColumns...).
		From(tableName).
		Where(squirrel.Eq{"hub_id": hubID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByHubID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		cfg                  domain.HubScheduleConfig
		weeklyHours          []byte
		notifications        []byte
		createdAt, updatedAt sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.HubID,
		&cfg.IsEnabled,
		&weeklyHours,
		&cfg.SlotDurationMinutes,
		&cfg.BufferMinutes,
		&cfg.ConcurrentCapacity,
		&cfg.MaxAdvanceDays,
		&cfg.RequiresVehicleInfo,
		&cfg.AutoConfirm,
		&cfg.SpecialInstructionsMaxLength,
		&notifications,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByHubID - scan config: %w", ErrScanRow, err)
	}

	if err := json.Unmarshal(weeklyHours, &cfg.WeeklyHours); err != nil {
		return nil, fmt.Errorf("%w: GetByHubID - decode weekly_hours: %v", ErrScanRow, err)
	}
	if len(notifications) > 0 {
		if err := json.Unmarshal(notifications, &cfg.NotificationSettings); err != nil {
			return nil, fmt.Errorf("%w: GetByHubID - decode notification_settings: %v", ErrScanRow, err)
		}
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}

// Upsert создает конфигурацию хаба или полностью перезаписывает существующую
func (r *Repository) Upsert(ctx context.Context, cfg *domain.HubScheduleConfig) (*domain.HubScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	weeklyHours, err := json.Marshal(cfg.WeeklyHours)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - weekly_hours: %v", ErrEncode, err)
	}
	notifications, err := json.Marshal(cfg.NotificationSettings)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - notification_settings: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"hub_id",
			"is_enabled",
			"weekly_hours",
			"slot_duration_minutes",
			"buffer_minutes",
			"concurrent_capacity",
			"max_advance_days",
			"requires_vehicle_info",
			"auto_confirm",
			"special_instructions_max_length",
			"notification_settings",
		).
		Values(
			cfg.HubID,
			cfg.IsEnabled,
			string(weeklyHours),
			cfg.SlotDurationMinutes,
			cfg.BufferMinutes,
			cfg.ConcurrentCapacity,
			cfg.MaxAdvanceDays,
			cfg.RequiresVehicleInfo,
			cfg.AutoConfirm,
			cfg.SpecialInstructionsMaxLength,
			string(notifications),
		).
		Suffix(`ON CONFLICT (hub_id) DO UPDATE SET
			is_enabled = EXCLUDED.is_enabled,
			weekly_hours = EXCLUDED.weekly_hours,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			buffer_minutes = EXCLUDED.buffer_minutes,
			concurrent_capacity = EXCLUDED.concurrent_capacity,
			max_advance_days = EXCLUDED.max_advance_days,
			requires_vehicle_info = EXCLUDED.requires_vehicle_info,
			auto_confirm = EXCLUDED.auto_confirm,
			special_instructions_max_length = EXCLUDED.special_instructions_max_length,
			notification_settings = EXCLUDED.notification_settings,
			updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return cfg, nil
}

// SetEnabled включает или выключает расписание хаба
func (r *Repository) SetEnabled(ctx context.Context, hubID uuid.UUID, enabled bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("is_enabled", enabled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"hub_id": hubID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetEnabled - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetEnabled - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetEnabled - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrConfigNotFound
	}

	return nil
}

package slot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PickupService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-PickupService/pkg/types"
)

const (
	tableName = "pickup_slots"

	// activeOrderConstraint частичный уникальный индекс: один неотменённый слот на заказ
	activeOrderConstraint = "pickup_slots_active_order_uniq"

	pqUniqueViolation = "23505"
)

var slotColumns = []string{
	"slot_id",
	"hub_id",
	"customer_id",
	"order_id",
	"slot_date",
	"slot_time",
	"estimated_duration_minutes",
	"queue_position",
	"status",
	"vehicle_info",
	"special_instructions",
	"actual_start_time",
	"actual_end_time",
	"customer_rating",
	"hub_rating",
	"feedback",
	"cancellation_reason",
	"cancelled_at",
	"version",
	"created_at",
	"updated_at",
}

// Repository реестр слотов самовывоза в PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый слот.
// Нарушение уникальности активного заказа возвращается как ErrDuplicateOrder.
func (r *Repository) Create(ctx context.Context, slot *domain.PickupSlot) (*domain.PickupSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	slot.Version = 1

	vehicle, err := encodeVehicle(slot.VehicleInfo)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - vehicle info: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"slot_id",
			"hub_id",
			"customer_id",
			"order_id",
			"slot_date",
			"slot_time",
			"estimated_duration_minutes",
			"queue_position",
			"status",
			"vehicle_info",
			"special_instructions",
			"version",
		).
		Values(
			slot.ID,
			slot.HubID,
			slot.CustomerID,
			slot.OrderID,
			slot.SlotDate.Format(domain.DateFormat),
			slot.SlotTime,
			slot.EstimatedDurationMinutes,
			slot.QueuePosition,
			slot.Status,
			vehicle,
			slot.SpecialInstructions,
			slot.Version,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		if isUniqueViolation(err, activeOrderConstraint) {
			return nil, ErrDuplicateOrder
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// GetByID получает слот по ID.
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PickupSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From(tableName).
		Where(squirrel.Eq{"slot_id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// GetActiveByOrderID получает неотменённый слот заказа
func (r *Repository) GetActiveByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.PickupSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From(tableName).
		Where(squirrel.Eq{"order_id": orderID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByOrderID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByOrderID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// LockBucket берёт транзакционную advisory-блокировку на корзину (hub, date, time).
// Блокировка снимается при завершении транзакции.
func (r *Repository) LockBucket(ctx context.Context, bucket domain.Bucket) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(hashtext(?))", bucket.Key())).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockBucket - build query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LockBucket - execute: %v", ErrExecQuery, err)
	}

	return nil
}

// CountActiveInBucket считает слоты корзины, кроме отменённых и неявок
func (r *Repository) CountActiveInBucket(ctx context.Context, bucket domain.Bucket) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{
			"hub_id":    bucket.HubID,
			"slot_date": bucket.Date.Format(domain.DateFormat),
			"slot_time": bucket.Time,
		}).
		Where(squirrel.NotEq{"status": inactiveStatuses()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveInBucket - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveInBucket - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountActiveByTime считает занимающие емкость слоты хаба на дату с группировкой по времени
func (r *Repository) CountActiveByTime(ctx context.Context, hubID uuid.UUID, date time.Time) (map[types.TimeString]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_time", "COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{
			"hub_id":    hubID,
			"slot_date": date.Format(domain.DateFormat),
		}).
		Where(squirrel.NotEq{"status": inactiveStatuses()}).
		GroupBy("slot_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByTime - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByTime - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[types.TimeString]int)
	for rows.Next() {
		var (
			slotTime types.TimeString
			count    int
		)
		if err := rows.Scan(&slotTime, &count); err != nil {
			return nil, fmt.Errorf("%w: CountActiveByTime - scan row: %v", ErrScanRow, err)
		}
		counts[slotTime] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountActiveByTime - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// Update сохраняет изменения слота с оптимистичной проверкой версии.
// Если версия в БД отличается от slot.Version, возвращается ErrConcurrentModification.
func (r *Repository) Update(ctx context.Context, slot *domain.PickupSlot) (*domain.PickupSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	vehicle, err := encodeVehicle(slot.VehicleInfo)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - vehicle info: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", slot.Status).
		Set("vehicle_info", vehicle).
		Set("special_instructions", slot.SpecialInstructions).
		Set("actual_start_time", slot.ActualStartTime).
		Set("actual_end_time", slot.ActualEndTime).
		Set("customer_rating", slot.CustomerRating).
		Set("hub_rating", slot.HubRating).
		Set("feedback", slot.Feedback).
		Set("cancellation_reason", slot.CancellationReason).
		Set("cancelled_at", slot.CancelledAt).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"slot_id": slot.ID, "version": slot.Version}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&slot.Version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConcurrentModification
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// GetQueue получает активные слоты хаба на дату в порядке обслуживания
func (r *Repository) GetQueue(ctx context.Context, filter domain.QueueFilter) ([]*domain.PickupSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From(tableName).
		Where(squirrel.Eq{
			"hub_id":    filter.HubID,
			"slot_date": filter.Date.Format(domain.DateFormat),
			"status":    domain.QueueStatuses,
		}).
		OrderBy("slot_time ASC", "queue_position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetQueue - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetQueue - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// GetHistory получает страницу истории и общее количество записей по фильтру
func (r *Repository) GetHistory(ctx context.Context, filter domain.HistoryFilter) ([]*domain.PickupSlot, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := historyConditions(filter)

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").
		From(tableName).
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: GetHistory - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: GetHistory - scan count: %v", ErrScanRow, err)
	}

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From(tableName).
		Where(where).
		OrderBy("slot_date DESC", "slot_time DESC", "created_at DESC")

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: GetHistory - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: GetHistory - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots, err := scanSlots(rows)
	if err != nil {
		return nil, 0, err
	}

	return slots, total, nil
}

func historyConditions(filter domain.HistoryFilter) squirrel.And {
	where := squirrel.And{}

	if filter.CustomerID != nil {
		where = append(where, squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.HubID != nil {
		where = append(where, squirrel.Eq{"hub_id": *filter.HubID})
	}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"status": *filter.Status})
	}
	if filter.StartDate != nil {
		where = append(where, squirrel.GtOrEq{"slot_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		where = append(where, squirrel.LtOrEq{"slot_date": filter.EndDate.Format(domain.DateFormat)})
	}

	return where
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.PickupSlot, error) {
	var (
		slot                 domain.PickupSlot
		vehicle              []byte
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&slot.ID,
		&slot.HubID,
		&slot.CustomerID,
		&slot.OrderID,
		&slot.SlotDate,
		&slot.SlotTime,
		&slot.EstimatedDurationMinutes,
		&slot.QueuePosition,
		&slot.Status,
		&vehicle,
		&slot.SpecialInstructions,
		&slot.ActualStartTime,
		&slot.ActualEndTime,
		&slot.CustomerRating,
		&slot.HubRating,
		&slot.Feedback,
		&slot.CancellationReason,
		&slot.CancelledAt,
		&slot.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(vehicle) > 0 {
		var info domain.VehicleInfo
		if err := json.Unmarshal(vehicle, &info); err != nil {
			return nil, fmt.Errorf("decode vehicle_info: %w", err)
		}
		slot.VehicleInfo = &info
	}

	slot.SlotDate = domain.DateOnly(slot.SlotDate)
	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.PickupSlot, error) {
	slots := make([]*domain.PickupSlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

func encodeVehicle(info *domain.VehicleInfo) (interface{}, error) {
	if info == nil {
		return nil, nil
	}
	data, err := json.Marshal(info)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func inactiveStatuses() []string {
	statuses := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqUniqueViolation && pqErr.Constraint == constraint
}

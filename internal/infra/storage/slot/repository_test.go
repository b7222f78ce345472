package slot

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/pkg/dbmetrics"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db), mock
}

func testSlot() *domain.PickupSlot {
	return &domain.PickupSlot{
		ID:            uuid.New(),
		HubID:         uuid.New(),
		CustomerID:    uuid.New(),
		OrderID:       uuid.New(),
		SlotDate:      time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		SlotTime:      "09:00",
		QueuePosition: 1,
		Status:        domain.StatusScheduled,
		Version:       4,
	}
}

func slotRow(slot *domain.PickupSlot) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(slotColumns).AddRow(
		slot.ID.String(),
		slot.HubID.String(),
		slot.CustomerID.String(),
		slot.OrderID.String(),
		slot.SlotDate,
		string(slot.SlotTime),
		15,
		slot.QueuePosition,
		string(slot.Status),
		nil, nil, nil, nil, nil, nil, nil, nil, nil,
		slot.Version,
		now,
		now,
	)
}

func TestRepository_LockBucket(t *testing.T) {
	repo, mock := newMock(t)
	bucket := testSlot().Bucket()

	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs(bucket.Key()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.LockBucket(context.Background(), bucket))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountActiveInBucket(t *testing.T) {
	repo, mock := newMock(t)
	bucket := testSlot().Bucket()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM pickup_slots WHERE hub_id = $1 AND slot_date = $2 AND slot_time = $3 AND status NOT IN ($4,$5)",
	)).
		WithArgs(bucket.HubID, "2025-03-03", "09:00", "cancelled", "no_show").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountActiveInBucket(context.Background(), bucket)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateChecksVersion(t *testing.T) {
	updateSQL := `^UPDATE pickup_slots SET .*version = version \+ 1, updated_at = NOW\(\) ` +
		`WHERE slot_id = \$11 AND version = \$12 RETURNING version, updated_at$`
	anyFields := []driver.Value{
		sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
		sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
	}

	t.Run("bumps version", func(t *testing.T) {
		repo, mock := newMock(t)
		slot := testSlot()

		mock.ExpectQuery(updateSQL).
			WithArgs(append(anyFields, slot.ID, 4)...).
			WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(5, time.Now()))

		updated, err := repo.Update(context.Background(), slot)
		require.NoError(t, err)
		assert.Equal(t, 5, updated.Version)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version", func(t *testing.T) {
		repo, mock := newMock(t)
		slot := testSlot()

		mock.ExpectQuery(updateSQL).
			WithArgs(append(anyFields, slot.ID, 4)...).
			WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}))

		_, err := repo.Update(context.Background(), slot)
		assert.ErrorIs(t, err, ErrConcurrentModification)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_CreateMapsUniqueViolation(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{
			name:    "active order index",
			dbErr:   &pq.Error{Code: pqUniqueViolation, Constraint: activeOrderConstraint},
			wantErr: ErrDuplicateOrder,
		},
		{
			name:    "other unique index",
			dbErr:   &pq.Error{Code: pqUniqueViolation, Constraint: "pickup_slots_pkey"},
			wantErr: ErrExecQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMock(t)

			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pickup_slots")).
				WillReturnError(tt.dbErr)

			_, err := repo.Create(context.Background(), testSlot())
			assert.ErrorIs(t, err, tt.wantErr)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetByIDLocksInsideTransaction(t *testing.T) {
	t.Run("outside transaction", func(t *testing.T) {
		repo, mock := newMock(t)
		slot := testSlot()

		mock.ExpectQuery(`FROM pickup_slots WHERE slot_id = \$1$`).
			WithArgs(slot.ID).
			WillReturnRows(slotRow(slot))

		got, err := repo.GetByID(context.Background(), slot.ID)
		require.NoError(t, err)
		assert.Equal(t, slot.ID, got.ID)
		assert.Equal(t, domain.StatusScheduled, got.Status)
		assert.Equal(t, 4, got.Version)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inside transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)
		slot := testSlot()

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM pickup_slots WHERE slot_id = \$1 FOR UPDATE$`).
			WithArgs(slot.ID).
			WillReturnRows(slotRow(slot))
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)

		_, err = repo.GetByID(dbmetrics.WithTx(context.Background(), tx), slot.ID)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMock(t)
		id := uuid.New()

		mock.ExpectQuery(`FROM pickup_slots WHERE slot_id = \$1$`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(slotColumns))

		_, err := repo.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}

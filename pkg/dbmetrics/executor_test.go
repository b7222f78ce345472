package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubTx struct {
	DBExecutor
}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

type stubDB struct{}

func (stubDB) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (stubDB) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (stubDB) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func TestGetExecutor(t *testing.T) {
	db := stubDB{}
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Equal(t, DBExecutor(db), GetExecutor(ctx, db))

	tx := stubTx{DBExecutor: db}
	txCtx := WithTx(ctx, tx)

	assert.True(t, IsInTransaction(txCtx))
	assert.Equal(t, DBExecutor(tx), GetExecutor(txCtx, db))
}

func TestAfterCommit(t *testing.T) {
	ran := 0

	AfterCommit(context.Background(), func(context.Context) { ran++ })
	assert.Equal(t, 1, ran, "outside a transaction the hook runs immediately")

	ctx := context.Background()
	txCtx := WithTx(ctx, stubTx{DBExecutor: stubDB{}})
	AfterCommit(txCtx, func(ctx context.Context) {
		assert.False(t, IsInTransaction(ctx))
		ran++
	})
	assert.Equal(t, 1, ran)

	RunCommitHooks(txCtx, ctx)
	assert.Equal(t, 2, ran)

	RunCommitHooks(txCtx, ctx)
	assert.Equal(t, 2, ran, "hooks run once")
}

package memory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/m04kA/SMC-PickupService/pkg/dbmetrics"
)

// ErrNoSQL возвращается при попытке выполнить SQL внутри транзакции хранилища в памяти
var ErrNoSQL = errors.New("memory: sql is not supported")

// TxManager транзакции хранилища в памяти.
// Одновременно выполняется не более одной транзакции, при ошибке данные откатываются к снимку.
type TxManager struct {
	store *Store
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	txCtx := dbmetrics.WithTx(ctx, &tx{})
	if err := m.exec(txCtx, fn); err != nil {
		return err
	}

	// Обработчики фиксации выполняются уже без блокировки хранилища
	dbmetrics.RunCommitHooks(txCtx, ctx)
	return nil
}

func (m *TxManager) exec(txCtx context.Context, fn func(ctx context.Context) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap := m.store.snapshot()
	defer func() {
		if p := recover(); p != nil {
			m.store.restore(snap)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		m.store.restore(snap)
		return err
	}

	return nil
}

// tx маркер транзакции в контексте, SQL через него не выполняется
type tx struct{}

func (t *tx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, ErrNoSQL
}

func (t *tx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, ErrNoSQL
}

func (t *tx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *tx) Commit() error   { return nil }
func (t *tx) Rollback() error { return nil }

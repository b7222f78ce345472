package dbmetrics

import (
	"context"
	"database/sql"
	"sync"
)

// DBExecutor общий интерфейс для *sql.DB, *sql.Tx и обёрток с метриками
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor транзакция, через которую выполняются запросы
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

type txKey struct{}

type hooksKey struct{}

// commitHooks обработчики, отложенные до фиксации транзакции
type commitHooks struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

// WithTx кладёт транзакцию в контекст вместе с пустым списком обработчиков фиксации
func WithTx(ctx context.Context, tx TxExecutor) context.Context {
	ctx = context.WithValue(ctx, txKey{}, tx)
	return context.WithValue(ctx, hooksKey{}, &commitHooks{})
}

// AfterCommit откладывает fn до фиксации транзакции из контекста.
// При откате fn не вызывается. Вне транзакции fn выполняется сразу.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	hooks, ok := ctx.Value(hooksKey{}).(*commitHooks)
	if !ok {
		fn(ctx)
		return
	}
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.fns = append(hooks.fns, fn)
}

// RunCommitHooks вызывается менеджером транзакций после успешной фиксации.
// txCtx контекст, переданный в транзакцию, обработчики получают ctx вне транзакции.
func RunCommitHooks(txCtx, ctx context.Context) {
	hooks, ok := txCtx.Value(hooksKey{}).(*commitHooks)
	if !ok {
		return
	}
	hooks.mu.Lock()
	fns := hooks.fns
	hooks.fns = nil
	hooks.mu.Unlock()

	for _, fn := range fns {
		fn(ctx)
	}
}

// TxFromContext достаёт транзакцию из контекста
func TxFromContext(ctx context.Context) (TxExecutor, bool) {
	tx, ok := ctx.Value(txKey{}).(TxExecutor)
	return tx, ok
}

// IsInTransaction проверяет, выполняется ли код внутри транзакции
func IsInTransaction(ctx context.Context) bool {
	_, ok := TxFromContext(ctx)
	return ok
}

// GetExecutor возвращает транзакцию из контекста, если она есть, иначе db
func GetExecutor(ctx context.Context, db DBExecutor) DBExecutor {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return db
}

package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Values значения колонок для вставки/обновления
type Values map[string]any

// Range окно выборки, Limit <= 0 означает без ограничения
type Range struct {
	Limit  int
	Offset int
}

// Sort сортировка по колонке
type Sort struct {
	Field string
	Desc  bool
}

// Persistence табличные операции поверх реляционного хранилища
//
// Ошибки: domain.ErrNotFound, domain.ErrUniqueViolation, остальные оборачиваются как есть
type Persistence interface {
	InsertReturning(ctx context.Context, table string, values Values, dest any) error
	UpdateReturning(ctx context.Context, table string, filters []Filter, values Values, dest any) error
	SelectOne(ctx context.Context, table string, filters []Filter, dest any) error
	SelectMany(ctx context.Context, table string, filters []Filter, rng Range, sort []Sort, dest any) (int64, error)
	Delete(ctx context.Context, table string, filters []Filter) (bool, error)
}

// Transaction запросы внутри одной транзакции
type Transaction interface {
	Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Exec(ctx context.Context, query string, args ...interface{}) error
	ExecWithResult(ctx context.Context, query string, args ...interface{}) (int64, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Commit() error
	Rollback() error
}

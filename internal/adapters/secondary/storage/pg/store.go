package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/anastasia-gushchina/topdj-bot/internal/ports/persistence"
)

var _ persistence.Persistence = (*DB)(nil)

// InsertReturning вставляет строку и сканирует её в dest
func (d *DB) InsertReturning(ctx context.Context, table string, values persistence.Values, dest any) error {
	if err := checkIdentifier(table); err != nil {
		return err
	}
	cols, args, err := splitValues(values)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		table,
		strings.Join(cols, ", "),
		placeholders(len(cols)),
	)

	return d.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		return classifyError(tx.Get(ctx, dest, query, args...))
	})
}

// UpdateReturning обновляет строки по фильтру, в dest первая обновлённая
func (d *DB) UpdateReturning(ctx context.Context, table string, filters []persistence.Filter, values persistence.Values, dest any) error {
	if err := checkIdentifier(table); err != nil {
		return err
	}
	if len(filters) == 0 {
		return fmt.Errorf("update %s: filter is required", table)
	}
	cols, setArgs, err := splitValues(values)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	where, whereArgs, err := buildWhere(filters)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}

	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = col + " = ?"
	}

	query := fmt.Sprintf("UPDATE %s SET %s%s RETURNING *", table, strings.Join(sets, ", "), where)
	args := append(setArgs, whereArgs...)

	return d.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		return classifyError(tx.Get(ctx, dest, query, args...))
	})
}

// SelectOne первая строка по фильтру
func (d *DB) SelectOne(ctx context.Context, table string, filters []persistence.Filter, dest any) error {
	if err := checkIdentifier(table); err != nil {
		return err
	}
	where, args, err := buildWhere(filters)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}

	query := fmt.Sprintf("SELECT * FROM %s%s LIMIT 1", table, where)
	return classifyError(d.Get(ctx, dest, query, args...))
}

// SelectMany страница строк и общее количество по фильтру
func (d *DB) SelectMany(
	ctx context.Context,
	table string,
	filters []persistence.Filter,
	rng persistence.Range,
	sort []persistence.Sort,
	dest any,
) (int64, error) {
	if err := checkIdentifier(table); err != nil {
		return 0, err
	}
	where, args, err := buildWhere(filters)
	if err != nil {
		return 0, fmt.Errorf("select %s: %w", table, err)
	}
	order, err := buildOrder(sort)
	if err != nil {
		return 0, fmt.Errorf("select %s: %w", table, err)
	}

	var total int64
	if err := d.Get(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, where), args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}

	query := fmt.Sprintf("SELECT * FROM %s%s%s", table, where, order)
	pageArgs := args
	if rng.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		pageArgs = append(append([]any{}, args...), rng.Limit, max(rng.Offset, 0))
	}

	if err := d.Select(ctx, dest, query, pageArgs...); err != nil {
		return 0, fmt.Errorf("select %s: %w", table, err)
	}
	return total, nil
}

// Delete удаляет строки по фильтру, true если что-то удалено
func (d *DB) Delete(ctx context.Context, table string, filters []persistence.Filter) (bool, error) {
	if err := checkIdentifier(table); err != nil {
		return false, err
	}
	if len(filters) == 0 {
		return false, fmt.Errorf("delete %s: filter is required", table)
	}
	where, args, err := buildWhere(filters)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", table, err)
	}

	var affected int64
	err = d.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		n, err := tx.ExecWithResult(ctx, fmt.Sprintf("DELETE FROM %s%s", table, where), args...)
		affected = n
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", table, err)
	}
	return affected > 0, nil
}

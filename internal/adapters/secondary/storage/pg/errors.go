package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// classifyError переводит ошибки драйвера в доменные
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrUniqueViolation, pgErr.ConstraintName)
	}

	// sqlite в тестах
	if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
		return fmt.Errorf("%w: %v", domain.ErrUniqueViolation, err)
	}

	return err
}

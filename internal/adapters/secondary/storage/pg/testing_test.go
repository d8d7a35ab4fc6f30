package pg

import (
	"testing"

	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/storage/pg/pgtest"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	return NewDB(pgtest.Open(t))
}

// Package pgtest поднимает sqlite с той же схемой, что и миграции postgres
package pgtest

import (
	"path/filepath"
	"testing"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

// Schema повторяет migrations/000001_init.up.sql в диалекте sqlite
const Schema = `
CREATE TABLE users (
    id         TEXT PRIMARY KEY,
    username   TEXT,
    name       TEXT NOT NULL DEFAULT '',
    surname    TEXT,
    tg_id      INTEGER NOT NULL UNIQUE,
    chat_id    INTEGER NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE TABLE payments (
    id             TEXT PRIMARY KEY,
    user_id        INTEGER NOT NULL,
    status         TEXT NOT NULL,
    transaction_id TEXT,
    pack_name      TEXT NOT NULL,
    created_at     DATETIME NOT NULL,
    updated_at     DATETIME NOT NULL,
    UNIQUE (user_id, transaction_id)
);`

// Open открывает файл sqlite во временной директории теста и создаёт схему
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(Schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

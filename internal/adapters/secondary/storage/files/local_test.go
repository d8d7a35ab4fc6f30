package files

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
)

type staticSource map[string][]byte

func (s staticSource) ReadFile(_ context.Context, name string) ([]byte, error) {
	if data, ok := s[name]; ok {
		return data, nil
	}
	return nil, domain.ErrNotFound
}

func TestLocalReadFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Хаус 30.zip"), []byte("zip"), 0o600); err != nil {
		t.Fatal(err)
	}
	src := NewLocal(dir)
	ctx := context.Background()

	data, err := src.ReadFile(ctx, "Хаус 30.zip")
	if err != nil || string(data) != "zip" {
		t.Fatalf("data=%q err=%v", data, err)
	}

	if _, err := src.ReadFile(ctx, "missing.zip"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := src.ReadFile(ctx, "../etc/passwd"); err == nil || errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected invalid name error, got %v", err)
	}
}

func TestChainFallsThroughNotFound(t *testing.T) {
	chain := Chain{staticSource{}, staticSource{"a.zip": []byte("remote")}}

	data, err := chain.ReadFile(context.Background(), "a.zip")
	if err != nil || string(data) != "remote" {
		t.Fatalf("data=%q err=%v", data, err)
	}
	if _, err := chain.ReadFile(context.Background(), "b.zip"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

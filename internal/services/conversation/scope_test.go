package conversation

import (
	"context"
	"testing"

	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/storage/inmemory"
	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
)

func TestScopeWritesThroughToStore(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStateStore()
	from := &domain.TelegramUser{ID: 42}

	s, err := Load(ctx, store, from, 4242)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.State() != domain.StateNone || s.UserID != 42 || s.ChatID != 4242 {
		t.Fatalf("unexpected scope %+v", s)
	}

	if err := s.SetState(ctx, "pack_name"); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(ctx, map[string]string{domain.DataPage: "2"}); err != nil {
		t.Fatal(err)
	}
	if s.Page() != 2 {
		t.Fatalf("page = %d", s.Page())
	}

	reloaded, err := Load(ctx, store, from, 4242)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.State() != "pack_name" || reloaded.Page() != 2 {
		t.Fatalf("store not updated: %s %d", reloaded.State(), reloaded.Page())
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Value(domain.DataPage); ok || s.State() != domain.StateNone {
		t.Fatal("scope must be empty after clear")
	}
}

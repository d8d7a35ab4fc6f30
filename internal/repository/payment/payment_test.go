package paymentRepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/storage/pg"
	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/storage/pg/pgtest"
	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/pkg/logger"
	"github.com/google/uuid"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	return newRepository(pg.NewDB(pgtest.Open(t)), logger.Discard())
}

func createAt(t *testing.T, r *Repository, userID int64, status domain.PaymentStatus, pack string, at time.Time) *domain.Payment {
	t.Helper()
	p, err := r.Create(context.Background(), &domain.Payment{
		UserID:    userID,
		Status:    status,
		PackName:  pack,
		CreatedAt: at,
		UpdatedAt: at,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return p
}

func TestCreateAndGetByID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created := createAt(t, r, 7, domain.PaymentStatusStarted, "techno_pack", time.Now().UTC())
	if created.ID == uuid.Nil {
		t.Fatal("id must be generated")
	}

	got, err := r.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != 7 || got.Status != domain.PaymentStatusStarted || got.PackName != "techno_pack" || got.TransactionID != nil {
		t.Fatalf("unexpected payment %+v", got)
	}

	if _, err := r.GetByID(ctx, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetLatestFiltersByStatusAndOrder(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	createAt(t, r, 1, domain.PaymentStatusStarted, "old", base)
	newer := createAt(t, r, 1, domain.PaymentStatusStarted, "new", base.Add(time.Minute))
	created := createAt(t, r, 1, domain.PaymentStatusTransactionCreated, "newest", base.Add(2*time.Minute))
	createAt(t, r, 2, domain.PaymentStatusStarted, "other user", base.Add(3*time.Minute))

	got, err := r.GetLatest(ctx, 1, domain.PaymentStatusStarted)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if got.ID != newer.ID {
		t.Fatalf("expected %s, got %s (%s)", newer.ID, got.ID, got.PackName)
	}

	latest, err := r.GetLatest(ctx, 1)
	if err != nil || latest.ID != created.ID {
		t.Fatalf("expected newest of any status, got %+v %v", latest, err)
	}

	if _, err := r.GetLatest(ctx, 1, domain.PaymentStatusTransactionCompleted); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransitionIsCompareAndSet(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	p := createAt(t, r, 5, domain.PaymentStatusStarted, "pack", time.Now().UTC())
	txID := "query-1"

	updated, err := r.Transition(ctx, p.ID, domain.PaymentStatusStarted, domain.PaymentStatusTransactionCreated, &txID)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if updated.Status != domain.PaymentStatusTransactionCreated || updated.TransactionID == nil || *updated.TransactionID != txID {
		t.Fatalf("unexpected payment %+v", updated)
	}

	// повторный переход из started уже невозможен
	if _, err := r.Transition(ctx, p.ID, domain.PaymentStatusStarted, domain.PaymentStatusTransactionCreated, &txID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on replay, got %v", err)
	}

	done, err := r.Transition(ctx, p.ID, domain.PaymentStatusTransactionCreated, domain.PaymentStatusTransactionCompleted, nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.TransactionID == nil || *done.TransactionID != txID {
		t.Fatal("transaction id must be preserved when not provided")
	}
}

func TestTransitionDuplicateTransactionID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	first := createAt(t, r, 9, domain.PaymentStatusStarted, "a", time.Now().UTC())
	second := createAt(t, r, 9, domain.PaymentStatusStarted, "b", time.Now().UTC())
	txID := "same"

	if _, err := r.Transition(ctx, first.ID, domain.PaymentStatusStarted, domain.PaymentStatusTransactionCreated, &txID); err != nil {
		t.Fatalf("first transition: %v", err)
	}
	_, err := r.Transition(ctx, second.ID, domain.PaymentStatusStarted, domain.PaymentStatusTransactionCreated, &txID)
	if !errors.Is(err, domain.ErrUniqueViolation) {
		t.Fatalf("expected ErrUniqueViolation, got %v", err)
	}
}

func TestListByStatus(t *testing.T) {
	r := newTestRepo(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		createAt(t, r, int64(i), domain.PaymentStatusStarted, "p", base.Add(time.Duration(i)*time.Hour))
	}
	createAt(t, r, 10, domain.PaymentStatusTransactionCompleted, "p", base)

	list, total, err := r.ListByStatus(context.Background(), domain.PaymentStatusStarted, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(list) != 2 || list[0].UserID != 0 {
		t.Fatalf("unexpected list total=%d %+v", total, list)
	}
}

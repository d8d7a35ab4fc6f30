package jobs

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/pkg/logger"
	"github.com/google/uuid"
)

type fakeRepo struct {
	payments []domain.Payment
	total    int64
	err      error
}

func (r *fakeRepo) Create(context.Context, *domain.Payment) (*domain.Payment, error) { return nil, nil }

func (r *fakeRepo) GetByID(context.Context, uuid.UUID) (*domain.Payment, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) GetLatest(context.Context, int64, ...domain.PaymentStatus) (*domain.Payment, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) Transition(context.Context, uuid.UUID, domain.PaymentStatus, domain.PaymentStatus, *string) (*domain.Payment, error) {
	return nil, errors.New("report job must not modify payments")
}

func (r *fakeRepo) ListByStatus(_ context.Context, status domain.PaymentStatus, limit int) ([]domain.Payment, int64, error) {
	if status != domain.PaymentStatusStarted {
		return nil, 0, errors.New("unexpected status")
	}
	out := r.payments
	if len(out) > limit {
		out = out[:limit]
	}
	return out, r.total, r.err
}

type fakeNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (n *fakeNotifier) Notify(_ context.Context, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
}

func (n *fakeNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.texts...)
}

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newStaleJob(t *testing.T, repo *fakeRepo, n *fakeNotifier, limit int) *StalePayments {
	t.Helper()
	j, err := NewStalePayments(StalePaymentsConfig{Schedule: "@every 1h", After: 24 * time.Hour, Limit: limit}, repo, n, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	j.now = func() time.Time { return now }
	return j
}

func started(userID int64, age time.Duration) domain.Payment {
	return domain.Payment{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    domain.PaymentStatusStarted,
		PackName:  "house_30",
		CreatedAt: now.Add(-age),
	}
}

func TestStalePaymentsReport(t *testing.T) {
	repo := &fakeRepo{
		payments: []domain.Payment{started(1, 72*time.Hour), started(2, 30*time.Hour), started(3, time.Hour)},
		total:    3,
	}
	n := &fakeNotifier{}

	if err := newStaleJob(t, repo, n, 10).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	texts := n.all()
	if len(texts) != 1 {
		t.Fatalf("expected one report, got %v", texts)
	}
	if !strings.Contains(texts[0], ": 2.") || !strings.Contains(texts[0], "user_id=1") {
		t.Fatalf("unexpected report %q", texts[0])
	}
}

func TestStalePaymentsTruncated(t *testing.T) {
	repo := &fakeRepo{
		payments: []domain.Payment{started(1, 72*time.Hour), started(2, 48*time.Hour)},
		total:    40,
	}
	n := &fakeNotifier{}

	if err := newStaleJob(t, repo, n, 2).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if texts := n.all(); len(texts) != 1 || !strings.Contains(texts[0], "не меньше 2") {
		t.Fatalf("unexpected report %v", texts)
	}
}

func TestStalePaymentsQuietWhenFresh(t *testing.T) {
	repo := &fakeRepo{payments: []domain.Payment{started(1, time.Hour)}, total: 1}
	n := &fakeNotifier{}

	if err := newStaleJob(t, repo, n, 10).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(n.all()) != 0 {
		t.Fatal("nothing to report")
	}
}

func TestStalePaymentsConfigValidation(t *testing.T) {
	if _, err := NewStalePayments(StalePaymentsConfig{Schedule: "bogus", After: time.Hour}, &fakeRepo{}, &fakeNotifier{}, logger.Discard()); err == nil {
		t.Fatal("invalid schedule must fail")
	}
	if _, err := NewStalePayments(StalePaymentsConfig{Schedule: "0 * * * *"}, &fakeRepo{}, &fakeNotifier{}, logger.Discard()); err == nil {
		t.Fatal("zero threshold must fail")
	}

	j := newStaleJob(t, &fakeRepo{}, &fakeNotifier{}, 1)
	if next := j.NextRun(now); !next.Equal(now.Add(time.Hour)) {
		t.Fatalf("next run = %s", next)
	}
}

type countingJob struct {
	mu   sync.Mutex
	runs int
	err  error
	done chan struct{}
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) NextRun(now time.Time) time.Time { return now.Add(time.Millisecond) }

func (j *countingJob) Run(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs++
	if j.runs == 2 {
		close(j.done)
	}
	return j.err
}

func TestSchedulerRunsUntilCancelled(t *testing.T) {
	n := &fakeNotifier{}
	job := &countingJob{err: errors.New("boom"), done: make(chan struct{})}
	s := NewScheduler(logger.Discard(), n)
	s.Register(job)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	select {
	case <-job.done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run twice")
	}
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	texts := n.all()
	if len(texts) < 2 || !strings.Contains(texts[0], "counting") {
		t.Fatalf("failures must be reported, got %v", texts)
	}
}

func TestSchedulerWithoutJobs(t *testing.T) {
	if err := NewScheduler(logger.Discard(), &fakeNotifier{}).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
}

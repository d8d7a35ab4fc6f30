package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/repository"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/service"
	"github.com/robfig/cron/v3"
)

const stalePaymentsName = "stale-payments-report"

// StalePaymentsConfig расписание и порог отчёта о зависших платежах
type StalePaymentsConfig struct {
	Schedule string        `envconfig:"STALE_SCHEDULE" default:"@every 1h"`
	After    time.Duration `envconfig:"STALE_AFTER" default:"24h"`
	Limit    int           `envconfig:"STALE_LIMIT" default:"500"`
}

// StalePayments считает платежи, застрявшие в started, и сообщает оператору.
// Записи не меняются
type StalePayments struct {
	repo     repository.IPaymentRepo
	notifier service.INotifier
	schedule cron.Schedule
	after    time.Duration
	limit    int
	log      *slog.Logger
	now      func() time.Time
}

func NewStalePayments(
	cfg StalePaymentsConfig,
	repo repository.IPaymentRepo,
	notifier service.INotifier,
	log *slog.Logger,
) (*StalePayments, error) {
	schedule, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
	}
	if cfg.After <= 0 {
		return nil, fmt.Errorf("stale threshold must be positive, got %s", cfg.After)
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 500
	}
	return &StalePayments{
		repo:     repo,
		notifier: notifier,
		schedule: schedule,
		after:    cfg.After,
		limit:    cfg.Limit,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (j *StalePayments) Name() string {
	return stalePaymentsName
}

func (j *StalePayments) NextRun(now time.Time) time.Time {
	return j.schedule.Next(now)
}

func (j *StalePayments) Run(ctx context.Context) error {
	payments, total, err := j.repo.ListByStatus(ctx, domain.PaymentStatusStarted, j.limit)
	if err != nil {
		return fmt.Errorf("failed to list started payments: %w", err)
	}

	// список отсортирован по created_at, зависшие идут первыми
	threshold := j.now().Add(-j.after)
	stale := 0
	for _, p := range payments {
		if !p.CreatedAt.Before(threshold) {
			break
		}
		stale++
	}

	j.log.Info("stale payments checked", "stale", stale, "started_total", total)
	if stale == 0 {
		return nil
	}

	oldest := payments[0]
	count := fmt.Sprint(stale)
	if stale == len(payments) && int64(stale) < total {
		count = "не меньше " + count
	}
	j.notifier.Notify(ctx, fmt.Sprintf(
		"Платежей в статусе started дольше %s: %s. Самый старый: %s, user_id=%d, пак %s",
		j.after, count, oldest.CreatedAt.Format(time.RFC3339), oldest.UserID, oldest.PackName,
	))
	return nil
}

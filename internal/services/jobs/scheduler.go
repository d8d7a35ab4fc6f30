package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anastasia-gushchina/topdj-bot/internal/ports/jobs"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/service"
	"golang.org/x/sync/errgroup"
)

// Scheduler управляет запуском периодических джоб
type Scheduler struct {
	jobs     []jobs.Job
	notifier service.INotifier
	log      *slog.Logger
	now      func() time.Time
}

// NewScheduler создаёт новый планировщик джоб
func NewScheduler(log *slog.Logger, notifier service.INotifier) *Scheduler {
	return &Scheduler{
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Register регистрирует джобу в планировщике
func (s *Scheduler) Register(job jobs.Job) {
	s.jobs = append(s.jobs, job)
	s.log.Debug("job registered", "job_name", job.Name(), "total_jobs", len(s.jobs))
}

// Run блокируется до отмены ctx. Упавший запуск не повторяется, следующий будет по расписанию
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.jobs) == 0 {
		s.log.Info("no jobs registered, scheduler not started")
		return nil
	}

	s.log.Info("starting job scheduler", "jobs_count", len(s.jobs))

	g, ctx := errgroup.WithContext(ctx)
	for _, job := range s.jobs {
		job := job
		g.Go(func() error {
			s.loop(ctx, job)
			return nil
		})
	}
	return g.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job jobs.Job) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		now := s.now()
		timer.Reset(job.NextRun(now).Sub(now))

		select {
		case <-ctx.Done():
			s.log.Info("job stopped by context", "job_name", job.Name())
			return
		case <-timer.C:
			s.execute(ctx, job)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, job jobs.Job) {
	start := s.now()
	if err := job.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Error("job failed", "job_name", job.Name(), "error", err)
		s.notifier.Notify(ctx, fmt.Sprintf("Джоба %s упала: %v", job.Name(), err))
		return
	}
	s.log.Info("job executed successfully",
		"job_name", job.Name(),
		"duration", s.now().Sub(start),
	)
}

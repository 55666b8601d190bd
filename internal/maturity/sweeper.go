// Package maturity periodically re-evaluates pending verification
// records whose checklists are complete but that were too young to
// finalize when the last event arrived.
package maturity

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"refguard/internal/verification"
	"refguard/internal/verification/models"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

const defaultInterval = time.Hour

// RecordLister exposes the subset of the record store the sweeper needs.
type RecordLister interface {
	ListAwaitingMaturity(ctx context.Context, cutoff time.Time) ([]*models.VerificationRecord, error)
}

// Finalizer re-runs the completion check for a single user.
type Finalizer interface {
	HandleCompletion(ctx context.Context, userID domain.UserID) error
}

// Sweeper drives scheduled maturity sweeps.
type Sweeper struct {
	records   RecordLister
	finalizer Finalizer
	logger    *slog.Logger
	interval  time.Duration
	nowFn     func() time.Time
	sched     gocron.Scheduler
}

// Option configures the Sweeper.
type Option func(*Sweeper)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithInterval overrides the sweep interval.
func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock sets a custom time source for testing.
func WithClock(nowFn func() time.Time) Option {
	return func(s *Sweeper) {
		if nowFn != nil {
			s.nowFn = nowFn
		}
	}
}

// New creates a Sweeper.
func New(records RecordLister, finalizer Finalizer, opts ...Option) (*Sweeper, error) {
	if records == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "record lister is required")
	}
	if finalizer == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "finalizer is required")
	}

	s := &Sweeper{
		records:   records,
		finalizer: finalizer,
		logger:    slog.Default(),
		interval:  defaultInterval,
		nowFn:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start schedules recurring sweeps. Stop releases the scheduler.
func (s *Sweeper) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "create scheduler")
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			if err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "maturity sweep failed", "error", err)
			}
		}),
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "schedule maturity sweep")
	}

	sched.Start()
	s.sched = sched
	return nil
}

// Stop shuts the scheduler down.
func (s *Sweeper) Stop() {
	if s.sched != nil {
		if err := s.sched.Shutdown(); err != nil {
			s.logger.Error("scheduler shutdown", "error", err)
		}
	}
}

// RunOnce performs a single sweep: every pending record whose checklist
// is complete and whose account is at least MaturityAge old is handed
// back to the verification service for finalization.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	cutoff := s.nowFn().Add(-verification.MaturityAge)

	candidates, err := s.records.ListAwaitingMaturity(ctx, cutoff)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "list records awaiting maturity")
	}
	if len(candidates) == 0 {
		return nil
	}

	s.logger.InfoContext(ctx, "maturity sweep started", "candidates", len(candidates))

	var failed int
	for _, c := range candidates {
		if err := s.finalizer.HandleCompletion(ctx, c.UserID); err != nil {
			failed++
			s.logger.ErrorContext(ctx, "maturity finalization failed", "user_id", c.UserID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "maturity sweep finished", "candidates", len(candidates), "failed", failed)
	return nil
}

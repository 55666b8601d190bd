package fraud

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"refguard/internal/fraud/metrics"
	"refguard/internal/verification/models"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

const gatherTimeout = 5 * time.Second

// ActivityReader fetches the community history a scoring pass runs over.
type ActivityReader interface {
	Posts(ctx context.Context, userID domain.UserID) ([]Post, error)
	Messages(ctx context.Context, userID domain.UserID) ([]Message, error)
	Interactions(ctx context.Context, userID domain.UserID) ([]Interaction, error)
	Devices(ctx context.Context, userID domain.UserID) ([]string, error)
	Email(ctx context.Context, userID domain.UserID) (string, error)
}

// Engine runs the seven fraud checks over a referee's gathered activity.
type Engine struct {
	reader  ActivityReader
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	nowFn   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.nowFn = now }
}

// NewEngine creates a fraud scoring engine over the given activity reader.
func NewEngine(reader ActivityReader, opts ...Option) *Engine {
	e := &Engine{
		reader: reader,
		logger: slog.Default(),
		tracer: otel.Tracer("refguard/fraud"),
		nowFn:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score gathers the referee's activity and runs all checks. Individual fetch
// failures and check panics degrade to neutral results: a scoring pass only
// errors when the record itself is unusable.
func (e *Engine) Score(ctx context.Context, rec *models.VerificationRecord) (ScoreResult, error) {
	if rec == nil {
		return ScoreResult{}, dErrors.New(dErrors.CodeInvalidInput, "fraud: nil verification record")
	}

	ctx, span := e.tracer.Start(ctx, "fraud.Score",
		trace.WithAttributes(attribute.String("user_id", rec.UserID.String())))
	defer span.End()

	start := e.nowFn()
	activity := e.gatherActivity(ctx, rec)
	result := e.runChecks(ctx, rec, activity)

	span.SetAttributes(
		attribute.Int("fraud.score", result.Total),
		attribute.StringSlice("fraud.flags", result.Flags),
	)
	e.metrics.ObserveScore(result.Total, time.Since(start))

	return result, nil
}

// gatherActivity fetches all sources in parallel. A failed fetch is logged
// and leaves its slice nil; it never fails the pass, because missing
// evidence must not read as fraud.
func (e *Engine) gatherActivity(ctx context.Context, rec *models.VerificationRecord) *Activity {
	ctx, cancel := context.WithTimeout(ctx, gatherTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	activity := &Activity{}

	g.Go(func() error {
		start := time.Now()
		posts, err := e.reader.Posts(ctx, rec.UserID)
		e.metrics.ObserveFetchLatency("posts", time.Since(start))
		if err != nil {
			e.logFetchFailure(ctx, "posts", rec.UserID, err)
			return nil
		}
		activity.Posts = posts
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		messages, err := e.reader.Messages(ctx, rec.UserID)
		e.metrics.ObserveFetchLatency("messages", time.Since(start))
		if err != nil {
			e.logFetchFailure(ctx, "messages", rec.UserID, err)
			return nil
		}
		activity.Messages = messages
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		interactions, err := e.reader.Interactions(ctx, rec.UserID)
		e.metrics.ObserveFetchLatency("interactions", time.Since(start))
		if err != nil {
			e.logFetchFailure(ctx, "interactions", rec.UserID, err)
			return nil
		}
		activity.Interactions = interactions
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		devices, err := e.reader.Devices(ctx, rec.UserID)
		e.metrics.ObserveFetchLatency("devices", time.Since(start))
		if err != nil {
			e.logFetchFailure(ctx, "devices", rec.UserID, err)
			return nil
		}
		activity.Devices = devices
		return nil
	})

	if !rec.ReferrerID.IsEmpty() {
		g.Go(func() error {
			start := time.Now()
			devices, err := e.reader.Devices(ctx, rec.ReferrerID)
			e.metrics.ObserveFetchLatency("devices", time.Since(start))
			if err != nil {
				e.logFetchFailure(ctx, "referrer_devices", rec.ReferrerID, err)
				return nil
			}
			activity.ReferrerDevices = devices
			return nil
		})
	}

	g.Go(func() error {
		email, err := e.reader.Email(ctx, rec.UserID)
		if err != nil {
			e.logFetchFailure(ctx, "email", rec.UserID, err)
			return nil
		}
		activity.Email = email
		return nil
	})

	// Fetch closures never return errors, so Wait only reflects ctx teardown.
	_ = g.Wait()
	return activity
}

// runChecks executes every check concurrently. A panicking check is recorded
// and neutralized so one bad signal cannot take down scoring.
func (e *Engine) runChecks(ctx context.Context, rec *models.VerificationRecord, activity *Activity) ScoreResult {
	now := e.nowFn()
	checks := []func() CheckResult{
		func() CheckResult { return checkDeviceOverlap(activity.Devices, activity.ReferrerDevices) },
		func() CheckResult { return checkPostingVelocity(activity.Posts) },
		func() CheckResult { return checkInteractionConcentration(activity.Interactions) },
		func() CheckResult { return checkGroupMessageBurst(activity.Messages) },
		func() CheckResult { return checkActivityBurst(rec, now) },
		func() CheckResult { return checkContentQuality(activity.Posts) },
		func() CheckResult { return checkEmailAlias(activity.Email) },
	}
	names := []string{
		CheckDeviceOverlap,
		CheckPostingVelocity,
		CheckInteractionConcentration,
		CheckGroupMessageBurst,
		CheckActivityBurst,
		CheckContentQuality,
		CheckEmailAlias,
	}

	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					e.metrics.IncrementCheckPanic(names[i])
					e.logger.ErrorContext(ctx, "fraud check panicked",
						"check", names[i],
						"user_id", rec.UserID,
						"panic", r,
					)
					results[i] = CheckResult{Name: names[i]}
				}
			}()
			results[i] = check()
		}()
	}
	wg.Wait()

	result := ScoreResult{Checks: results}
	for _, c := range results {
		result.Total += c.Score
		if c.Score > 0 {
			e.metrics.IncrementCheckHit(c.Name)
		}
		if c.Flag != "" {
			result.Flags = append(result.Flags, c.Flag)
		}
	}
	if result.Total > MaxScore {
		result.Total = MaxScore
	}
	return result
}

func (e *Engine) logFetchFailure(ctx context.Context, source string, userID domain.UserID, err error) {
	e.logger.WarnContext(ctx, "activity fetch failed, treating as missing evidence",
		"source", source,
		"user_id", userID,
		"error", err,
	)
}

package events

import (
	"context"
	"log/slog"
	"time"

	"refguard/internal/verification/ports"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

// Templates used for dispatcher notifications.
const (
	templateVerificationStarted = "verification_started"
	templateReferralVerified    = "referral_verified"
	templateRewardGranted       = "referral_reward_granted"
)

// FraudRefresher recomputes a pending record's provisional fraud score.
type FraudRefresher interface {
	RefreshFraud(ctx context.Context, userID domain.UserID) error
}

// Dispatcher drains the bus and performs best-effort side effects:
// entitlement grants, notifications, and provisional fraud refreshes.
// Failures are logged, never retried into the decision path; the
// verification record is already authoritative by the time an event
// reaches it.
type Dispatcher struct {
	bus          *Bus
	records      ports.RecordStore
	entitlements ports.Entitlements
	notifier     ports.Notifier
	refresher    FraudRefresher
	logger       *slog.Logger
	rewardDays   int
	nowFn        func() time.Time
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = l }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) { d.nowFn = now }
}

// WithFraudRefresher enables provisional rescoring on checklist progress.
// Without it, progress events are dropped and scoring happens only at
// finalization.
func WithFraudRefresher(r FraudRefresher) DispatcherOption {
	return func(d *Dispatcher) { d.refresher = r }
}

// NewDispatcher creates a dispatcher over the bus.
func NewDispatcher(
	bus *Bus,
	records ports.RecordStore,
	entitlements ports.Entitlements,
	notifier ports.Notifier,
	rewardDays int,
	opts ...DispatcherOption,
) (*Dispatcher, error) {
	if bus == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "event bus is required")
	}
	if records == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "record store is required")
	}
	if entitlements == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "entitlements client is required")
	}
	if notifier == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "notifier is required")
	}
	if rewardDays <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "reward days must be positive")
	}

	d := &Dispatcher{
		bus:          bus,
		records:      records,
		entitlements: entitlements,
		notifier:     notifier,
		logger:       slog.Default(),
		rewardDays:   rewardDays,
		nowFn:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run processes events until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.InfoContext(ctx, "event dispatcher started")
	for {
		select {
		case <-ctx.Done():
			d.logger.InfoContext(ctx, "event dispatcher stopped")
			return
		case ev := <-d.bus.Events():
			d.Handle(ctx, ev)
		}
	}
}

// Handle applies the side effects for one event. Exported so the maturity
// sweep and tests can drive the dispatcher synchronously.
func (d *Dispatcher) Handle(ctx context.Context, ev Event) {
	switch ev.Type {
	case TypeVerificationCreated:
		d.notify(ctx, ev.UserID, templateVerificationStarted, map[string]string{
			"referrer_id": ev.ReferrerID.String(),
		})

	case TypeReferralVerified:
		d.handleVerified(ctx, ev)

	case TypeChecklistProgress:
		if d.refresher == nil {
			return
		}
		if err := d.refresher.RefreshFraud(ctx, ev.UserID); err != nil {
			d.logger.WarnContext(ctx, "fraud refresh failed",
				"user_id", ev.UserID,
				"error", err,
			)
		}

	case TypeReferralBlocked, TypeReferralFlagged:
		// Decision is recorded and audited; no user-facing side effects for
		// blocked or parked referrals.

	default:
		d.logger.WarnContext(ctx, "unknown event type dropped", "type", ev.Type)
	}
}

func (d *Dispatcher) handleVerified(ctx context.Context, ev Event) {
	rec, err := d.records.Get(ctx, ev.UserID)
	if err != nil {
		d.logger.ErrorContext(ctx, "reward bookkeeping failed",
			"user_id", ev.UserID,
			"error", err,
		)
		return
	}
	if rec.RewardAwarded {
		// Reward already went out for this referee; redelivered or
		// override-replayed event.
		return
	}

	// The record is marked only after a successful grant. A failed grant
	// leaves it unmarked and the next delivery retries.
	if err := d.entitlements.Grant(ctx, ev.ReferrerID, d.rewardDays); err != nil {
		d.logger.ErrorContext(ctx, "entitlement grant failed",
			"referrer_id", ev.ReferrerID,
			"user_id", ev.UserID,
			"reward_days", d.rewardDays,
			"error", err,
		)
		return
	}

	if _, err := d.records.MarkRewardAwarded(ctx, ev.UserID, d.nowFn().UTC()); err != nil {
		d.logger.ErrorContext(ctx, "reward bookkeeping failed",
			"user_id", ev.UserID,
			"error", err,
		)
	}

	d.logger.InfoContext(ctx, "referral reward granted",
		"referrer_id", ev.ReferrerID,
		"user_id", ev.UserID,
		"reward_days", d.rewardDays,
	)
	d.notify(ctx, ev.ReferrerID, templateRewardGranted, map[string]string{
		"referred_user_id": ev.UserID.String(),
	})
	d.notify(ctx, ev.UserID, templateReferralVerified, nil)
}

func (d *Dispatcher) notify(ctx context.Context, userID domain.UserID, template string, data map[string]string) {
	if !d.notifier.Send(ctx, userID, template, data) {
		d.logger.WarnContext(ctx, "notification delivery failed",
			"user_id", userID,
			"template", template,
		)
	}
}

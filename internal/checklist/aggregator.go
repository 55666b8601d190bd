// Package checklist turns community activity events into checklist progress
// on pending verification records.
//
// Every event-driven item goes through the same pipeline: guard, ledger
// write, derived count, threshold check. The ledger write is the idempotency
// gate, so replayed or racing deliveries fall out before any counter moves.
package checklist

import (
	"context"
	"log/slog"
	"time"

	"refguard/internal/events"
	"refguard/internal/ledger"
	"refguard/internal/verification/models"
	"refguard/internal/verification/ports"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

// CompletionHandler is notified after any checklist item completes. The
// handler decides whether the record as a whole is ready to finalize.
type CompletionHandler interface {
	HandleCompletion(ctx context.Context, userID domain.UserID) error
}

// Event is one delivery from a trigger adapter.
type Event struct {
	UserID   domain.UserID
	ActionID domain.ActionID
	Key      domain.ItemKey
	// GroupID scopes group-message events to the joined group.
	GroupID domain.GroupID
	// Partner is the counterpart author on interaction events.
	Partner string
	At      time.Time
}

// Aggregator applies events to verification records.
type Aggregator struct {
	records ports.RecordStore
	ledger  ledger.Store
	handler CompletionHandler
	bus     *events.Bus
	logger  *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// WithBus publishes a progress event after every counted action, feeding
// the dispatcher's best-effort fraud refresh.
func WithBus(bus *events.Bus) Option {
	return func(a *Aggregator) { a.bus = bus }
}

// NewAggregator creates a checklist aggregator.
func NewAggregator(records ports.RecordStore, ledgerStore ledger.Store, handler CompletionHandler, opts ...Option) (*Aggregator, error) {
	if records == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "record store is required")
	}
	if ledgerStore == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ledger store is required")
	}
	if handler == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "completion handler is required")
	}
	a := &Aggregator{
		records: records,
		ledger:  ledgerStore,
		handler: handler,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// RecordEvent applies one counted event. Deliveries for users without a
// record, for settled or deleted records, and replays of already-counted
// actions are silent no-ops: event streams cover the whole community, not
// just referees mid-verification.
func (a *Aggregator) RecordEvent(ctx context.Context, ev Event) error {
	if !ev.Key.IsValid() || ev.Key == domain.ItemGroupJoined || ev.Key == domain.ItemAccountAge {
		return dErrors.New(dErrors.CodeInvalidInput, "not a countable checklist item")
	}
	if ev.UserID.IsEmpty() || ev.ActionID.IsEmpty() {
		return dErrors.New(dErrors.CodeInvalidInput, "event requires user and action ids")
	}

	rec, err := a.records.Get(ctx, ev.UserID)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if rec.Deleted || rec.Status != models.StatusPending {
		return nil
	}
	if rec.Item(ev.Key).Completed {
		// A checklist can finish before the account-age gate opens. Later
		// activity on a completed checklist re-offers the record to the
		// completion handler, whose guards decide whether it finalizes now.
		if rec.EventItemsComplete() {
			return a.handler.HandleCompletion(ctx, ev.UserID)
		}
		return nil
	}

	if ev.Key == domain.ItemGroupMessages {
		joined := rec.JoinedGroup()
		if joined.IsEmpty() || ev.GroupID != joined {
			return nil
		}
	}

	counted, count, err := a.ledger.MarkCounted(ctx, ev.UserID, ev.Key, ev.ActionID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "record action in ledger")
	}
	if !counted {
		a.logger.DebugContext(ctx, "duplicate delivery ignored",
			"user_id", ev.UserID,
			"action_id", ev.ActionID,
			"item", ev.Key,
		)
		return nil
	}

	if ev.Key == domain.ItemInteractions {
		// Interactions complete on distinct counterpart authors, not raw
		// event count.
		count, err = a.records.AddInteractionPartner(ctx, ev.UserID, ev.Partner)
		if err != nil {
			return err
		}
	} else {
		if err := a.records.SetItemCount(ctx, ev.UserID, ev.Key, count); err != nil {
			return err
		}
	}

	a.publishProgress(ev.UserID, ev.At)

	if count < ev.Key.Threshold() {
		return nil
	}
	return a.completeItem(ctx, ev.UserID, ev.Key, ev.At)
}

// RecordGroupJoin completes the group-membership item with the first group
// the referee joins. Later joins do not move the recorded group: message
// counting stays scoped to the first one.
func (a *Aggregator) RecordGroupJoin(ctx context.Context, userID domain.UserID, groupID domain.GroupID, at time.Time) error {
	if userID.IsEmpty() || groupID.IsEmpty() {
		return dErrors.New(dErrors.CodeInvalidInput, "group join requires user and group ids")
	}

	rec, err := a.records.Get(ctx, userID)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if rec.Deleted || rec.Status != models.StatusPending {
		return nil
	}

	applied, err := a.records.MarkGroupJoined(ctx, userID, groupID, at)
	if err != nil {
		return err
	}
	if !applied {
		if rec.EventItemsComplete() {
			return a.handler.HandleCompletion(ctx, userID)
		}
		return nil
	}

	a.logger.InfoContext(ctx, "checklist item completed",
		"user_id", userID,
		"item", domain.ItemGroupJoined,
		"group_id", groupID,
	)
	a.publishProgress(userID, at)
	return a.handler.HandleCompletion(ctx, userID)
}

// publishProgress is fire-and-forget: a full bus just means this refresh
// round is skipped.
func (a *Aggregator) publishProgress(userID domain.UserID, at time.Time) {
	if a.bus == nil {
		return
	}
	a.bus.Publish(events.Event{
		Type:       events.TypeChecklistProgress,
		UserID:     userID,
		OccurredAt: at,
	})
}

func (a *Aggregator) completeItem(ctx context.Context, userID domain.UserID, key domain.ItemKey, at time.Time) error {
	applied, err := a.records.CompleteItem(ctx, userID, key, at)
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	a.logger.InfoContext(ctx, "checklist item completed",
		"user_id", userID,
		"item", key,
	)
	return a.handler.HandleCompletion(ctx, userID)
}

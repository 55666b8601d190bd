// Package ports defines the interfaces the verification service depends on.
// Each port is defined here rather than importing the implementing package,
// keeping the service testable against mocks.
package ports

import (
	"context"
	"time"

	"refguard/internal/fraud"
	"refguard/internal/verification/models"
	"refguard/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks RecordStore,Scorer,Entitlements,Notifier

// FinalizeParams carries the terminal decision applied to a pending record.
// Exactly one of Verified or Blocked is set.
type FinalizeParams struct {
	Verified      bool
	Blocked       bool
	BlockedReason string
	FraudScore    int
	FraudFlags    []string
	At            time.Time
}

// OverrideParams carries an admin reversal of a block.
type OverrideParams struct {
	Reason string
	At     time.Time
}

// RecordStore persists verification records. Mutations that race with
// concurrent finalization are conditional: they report applied=false instead
// of overwriting a record that already left the pending state.
type RecordStore interface {
	// Create inserts a new pending record. Returns CodeConflict when a
	// record for the user already exists.
	Create(ctx context.Context, rec *models.VerificationRecord) error

	// Get returns the record for a user, or CodeNotFound.
	Get(ctx context.Context, userID domain.UserID) (*models.VerificationRecord, error)

	// SetItemCount updates the running count for a checklist item on a
	// pending record.
	SetItemCount(ctx context.Context, userID domain.UserID, key domain.ItemKey, count int) error

	// AddInteractionPartner adds a distinct counterpart to the interactions
	// item and returns the resulting partner count.
	AddInteractionPartner(ctx context.Context, userID domain.UserID, partner string) (int, error)

	// MarkGroupJoined records the first group joined. Later joins are
	// no-ops; applied reports whether this call recorded the group.
	MarkGroupJoined(ctx context.Context, userID domain.UserID, groupID domain.GroupID, at time.Time) (applied bool, err error)

	// CompleteItem marks a checklist item complete. Completion is monotonic;
	// applied is false when the item was already complete.
	CompleteItem(ctx context.Context, userID domain.UserID, key domain.ItemKey, at time.Time) (applied bool, err error)

	// Finalize moves a record out of pending. The update is conditional on
	// the record still being pending, so of two racing finalizations exactly
	// one observes applied=true.
	Finalize(ctx context.Context, userID domain.UserID, params FinalizeParams) (applied bool, err error)

	// FlagForReview stores a mid-band score and its flags on a record that
	// stays pending.
	FlagForReview(ctx context.Context, userID domain.UserID, score int, flags []string, at time.Time) error

	// SetFraudScore stores a provisional score on a pending, unflagged
	// record. Applied is false once the record is settled, deleted, or
	// parked for review: provisional refreshes never touch those.
	SetFraudScore(ctx context.Context, userID domain.UserID, score int, flags []string) (applied bool, err error)

	// Override reverses a block: status returns to verified and the block
	// fields are cleared. Conditional on the record being blocked.
	Override(ctx context.Context, userID domain.UserID, params OverrideParams) (applied bool, err error)

	// MarkDeleted soft-deletes a record so event processing ignores it.
	MarkDeleted(ctx context.Context, userID domain.UserID, at time.Time) error

	// MarkRewardAwarded records that the referral reward went out, once.
	MarkRewardAwarded(ctx context.Context, userID domain.UserID, at time.Time) (applied bool, err error)

	// ListAwaitingMaturity returns pending, non-deleted records whose event
	// checklist is complete and whose signup date is on or before cutoff.
	ListAwaitingMaturity(ctx context.Context, cutoff time.Time) ([]*models.VerificationRecord, error)
}

// Scorer runs a fraud scoring pass over a record.
type Scorer interface {
	Score(ctx context.Context, rec *models.VerificationRecord) (fraud.ScoreResult, error)
}

// Entitlements grants referral rewards on the membership system.
type Entitlements interface {
	Grant(ctx context.Context, userID domain.UserID, days int) error
}

// Notifier delivers user-facing notifications. Send reports delivery so
// callers can log failures without failing the flow.
type Notifier interface {
	Send(ctx context.Context, userID domain.UserID, template string, data map[string]string) bool
}

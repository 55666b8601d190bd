// Package audit captures append-only records of verification decisions.
// Events are transport-agnostic so stores and sinks can fan out; the
// postgres store is an outbox relayed to Kafka.
package audit

import (
	"context"
	"time"

	"refguard/pkg/domain"
)

// Action names an auditable occurrence.
type Action string

const (
	ActionVerificationCreated Action = "verification_created"
	ActionReferralVerified    Action = "referral_verified"
	ActionReferralBlocked     Action = "referral_blocked"
	ActionReferralFlagged     Action = "referral_flagged"
	ActionFraudOverride       Action = "fraud_override"
	ActionRecordDeleted       Action = "verification_deleted"
)

// Event is emitted from domain logic at decision points. Score and Flags
// snapshot the fraud state at decision time; for overrides, PriorScore and
// PriorFlags preserve what was cleared.
type Event struct {
	Timestamp  time.Time
	UserID     domain.UserID
	ReferrerID domain.UserID
	Action     Action
	Reason     string
	Score      int
	Flags      []string
	PriorScore int
	PriorFlags []string
	// ActorID identifies the admin when the action was performed on a
	// user's behalf; empty for machine decisions.
	ActorID string
	// RequestID is the correlation id from the HTTP request context, when
	// the event originated from the admin surface.
	RequestID string
}

// Store is the audit persistence contract. Append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID domain.UserID) ([]Event, error)
}

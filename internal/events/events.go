// Package events carries domain events from the verification core to the
// side-effect dispatcher. The core transition stays deterministic and
// store-only; notifications, entitlement grants, and other best-effort work
// happen in the dispatcher worker.
package events

import (
	"time"

	"refguard/pkg/domain"
)

// Type names a verification lifecycle event.
type Type string

const (
	TypeVerificationCreated Type = "verification_created"
	TypeReferralVerified    Type = "referral_verified"
	TypeReferralBlocked     Type = "referral_blocked"
	TypeReferralFlagged     Type = "referral_flagged"
	// TypeChecklistProgress fires after a counted checklist action; the
	// dispatcher reacts with a best-effort fraud-score refresh.
	TypeChecklistProgress Type = "checklist_progress"
)

// Event is one lifecycle occurrence for a referee.
type Event struct {
	Type       Type
	UserID     domain.UserID
	ReferrerID domain.UserID
	Score      int
	Flags      []string
	Reason     string
	OccurredAt time.Time
}

// Bus is a bounded, non-blocking publisher. Losing a side-effect event under
// backpressure is acceptable: every consumer of these events is best-effort
// by contract, and the authoritative record was already written.
type Bus struct {
	ch chan Event
}

// NewBus creates a bus with the given buffer size.
func NewBus(size int) *Bus {
	return &Bus{ch: make(chan Event, size)}
}

// Publish never blocks; it reports whether the event was accepted.
func (b *Bus) Publish(event Event) bool {
	select {
	case b.ch <- event:
		return true
	default:
		return false
	}
}

// Events exposes the receive side for the dispatcher.
func (b *Bus) Events() <-chan Event {
	return b.ch
}

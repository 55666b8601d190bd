// Package referrer aggregates per-referrer counters across many referees.
//
// Many referees finalize concurrently against one referrer, so the store
// contract is atomic increments only: callers hand over a delta and never
// read-modify-write the whole document.
package referrer

import (
	"context"
	"time"

	"refguard/pkg/domain"
)

// Stats is the per-referrer aggregate.
type Stats struct {
	ReferrerID           domain.UserID `bson:"_id" json:"referrerId"`
	TotalReferred        int           `bson:"total_referred" json:"totalReferred"`
	TotalVerified        int           `bson:"total_verified" json:"totalVerified"`
	PendingVerifications int           `bson:"pending_verifications" json:"pendingVerifications"`
	BlockedReferrals     int           `bson:"blocked_referrals" json:"blockedReferrals"`
	TotalPaidConversions int           `bson:"total_paid_conversions" json:"totalPaidConversions"`
	UpdatedAt            time.Time     `bson:"updated_at" json:"updatedAt"`
}

// Delta is a set of counter adjustments applied in one atomic update.
type Delta struct {
	Referred        int
	Verified        int
	Pending         int
	Blocked         int
	PaidConversions int
}

// IsZero reports whether the delta would change nothing.
func (d Delta) IsZero() bool {
	return d == Delta{}
}

// Store is the stats persistence contract.
type Store interface {
	// Apply atomically adds the delta to the referrer's counters, creating
	// the document on first touch.
	Apply(ctx context.Context, referrerID domain.UserID, delta Delta) error

	// Get returns the current aggregate; a referrer with no activity yet
	// yields zero counters, not an error.
	Get(ctx context.Context, referrerID domain.UserID) (*Stats, error)
}

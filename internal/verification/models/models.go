// Package models defines the verification record that tracks one referee
// from referral-code redemption to a terminal decision.
package models

import (
	"time"

	"refguard/pkg/domain"
)

// Status is the verification state. pending is the only non-terminal state;
// verified and blocked are terminal, with admin override as the sole reverse
// path from blocked.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusBlocked  Status = "blocked"
)

// FlagFlaggedForReview is the non-exclusive overlay flag applied to pending
// records whose authoritative score lands in the review band. There is no
// automatic exit from this state.
const FlagFlaggedForReview = "flagged_for_review"

// ChecklistItem tracks one verification criterion. Completed is monotonic:
// once true it never reverts.
type ChecklistItem struct {
	Completed   bool       `bson:"completed" json:"completed"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	Current     int        `bson:"current" json:"current"`

	// GroupID is set only on the groupJoined item and scopes groupMessages3.
	GroupID domain.GroupID `bson:"group_id,omitempty" json:"groupId,omitempty"`
	// Partners is the distinct counterpart-author list kept on the
	// interactions5 item. Bounded by the item threshold plus a handful of
	// stragglers, so a slice with linear dedup is enough.
	Partners []string `bson:"partners,omitempty" json:"partners,omitempty"`
}

// VerificationRecord is the per-referee document. Created at code redemption,
// mutated incrementally by trigger adapters, finalized once by the state
// machine. Never hard-deleted: account deletion soft-marks Deleted so the
// audit trail survives.
type VerificationRecord struct {
	UserID       domain.UserID `bson:"_id" json:"userId"`
	ReferrerID   domain.UserID `bson:"referrer_id" json:"referrerId"`
	ReferralCode string        `bson:"referral_code" json:"referralCode"`
	SignupDate   time.Time     `bson:"signup_date" json:"signupDate"`

	Checklist map[domain.ItemKey]*ChecklistItem `bson:"checklist" json:"checklist"`

	Status        Status   `bson:"status" json:"status"`
	FraudScore    int      `bson:"fraud_score" json:"fraudScore"`
	FraudFlags    []string `bson:"fraud_flags,omitempty" json:"fraudFlags,omitempty"`
	IsBlocked     bool     `bson:"is_blocked" json:"isBlocked"`
	BlockedReason string   `bson:"blocked_reason,omitempty" json:"blockedReason,omitempty"`
	RewardAwarded bool     `bson:"reward_awarded" json:"rewardAwarded"`
	Deleted       bool     `bson:"deleted" json:"deleted"`

	CreatedAt  time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updatedAt"`
	VerifiedAt *time.Time `bson:"verified_at,omitempty" json:"verifiedAt,omitempty"`
	BlockedAt  *time.Time `bson:"blocked_at,omitempty" json:"blockedAt,omitempty"`
}

// NewRecord builds a pending record with an empty checklist, one entry per
// supported item.
func NewRecord(userID, referrerID domain.UserID, code string, signup, now time.Time) *VerificationRecord {
	checklist := make(map[domain.ItemKey]*ChecklistItem, len(domain.EventItemKeys)+1)
	for _, key := range domain.EventItemKeys {
		checklist[key] = &ChecklistItem{}
	}
	checklist[domain.ItemAccountAge] = &ChecklistItem{}

	return &VerificationRecord{
		UserID:       userID,
		ReferrerID:   referrerID,
		ReferralCode: code,
		SignupDate:   signup,
		Checklist:    checklist,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Item returns the checklist entry for the key, or an empty item when the
// record predates the key. Callers must not rely on the returned pointer
// being stored in the record.
func (r *VerificationRecord) Item(key domain.ItemKey) *ChecklistItem {
	if item, ok := r.Checklist[key]; ok && item != nil {
		return item
	}
	return &ChecklistItem{}
}

// EventItemsComplete reports whether all five event-driven items are done.
func (r *VerificationRecord) EventItemsComplete() bool {
	for _, key := range domain.EventItemKeys {
		if !r.Item(key).Completed {
			return false
		}
	}
	return true
}

// CompletedEventItems counts finished event-driven items; used by the
// activity-burst fraud check.
func (r *VerificationRecord) CompletedEventItems() int {
	n := 0
	for _, key := range domain.EventItemKeys {
		if r.Item(key).Completed {
			n++
		}
	}
	return n
}

// AccountAge is the referee's age at the given instant.
func (r *VerificationRecord) AccountAge(now time.Time) time.Duration {
	return now.Sub(r.SignupDate)
}

// JoinedGroup returns the group recorded by the groupJoined item, empty when
// the referee has not joined one yet.
func (r *VerificationRecord) JoinedGroup() domain.GroupID {
	return r.Item(domain.ItemGroupJoined).GroupID
}

// HasFlag reports whether the flag set contains the given flag.
func (r *VerificationRecord) HasFlag(flag string) bool {
	for _, f := range r.FraudFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// TrackedAction is one counted (user, action) delivery. Its existence in the
// ledger is the sole idempotency proof; checklist counters derive from ledger
// cardinality rather than independent increments.
type TrackedAction struct {
	UserID     domain.UserID   `bson:"user_id" json:"userId"`
	ActionID   domain.ActionID `bson:"action_id" json:"actionId"`
	ActionType domain.ItemKey  `bson:"action_type" json:"actionType"`
	CountedAt  time.Time       `bson:"counted_at" json:"countedAt"`
}

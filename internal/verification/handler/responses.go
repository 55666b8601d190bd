package handler

import (
	"time"

	"refguard/internal/audit"
	"refguard/internal/referrer"
	"refguard/internal/verification/models"
	"refguard/pkg/domain"
)

// RecordResponse is the HTTP shape of a verification record.
type RecordResponse struct {
	UserID        string                       `json:"user_id"`
	ReferrerID    string                       `json:"referrer_id"`
	ReferralCode  string                       `json:"referral_code"`
	SignupDate    time.Time                    `json:"signup_date"`
	Status        string                       `json:"status"`
	Checklist     map[string]ChecklistResponse `json:"checklist"`
	FraudScore    int                          `json:"fraud_score"`
	FraudFlags    []string                     `json:"fraud_flags,omitempty"`
	IsBlocked     bool                         `json:"is_blocked"`
	BlockedReason string                       `json:"blocked_reason,omitempty"`
	RewardAwarded bool                         `json:"reward_awarded"`
	CreatedAt     time.Time                    `json:"created_at"`
	VerifiedAt    *time.Time                   `json:"verified_at,omitempty"`
	BlockedAt     *time.Time                   `json:"blocked_at,omitempty"`
}

// ChecklistResponse is one checklist item with its threshold.
type ChecklistResponse struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Current     int        `json:"current"`
	Required    int        `json:"required"`
	GroupID     string     `json:"group_id,omitempty"`
}

// FromRecord converts a domain record to an HTTP response.
func FromRecord(rec *models.VerificationRecord) *RecordResponse {
	checklist := make(map[string]ChecklistResponse, len(rec.Checklist))
	for key := range rec.Checklist {
		item := rec.Item(key)
		checklist[key.String()] = ChecklistResponse{
			Completed:   item.Completed,
			CompletedAt: item.CompletedAt,
			Current:     item.Current,
			Required:    key.Threshold(),
			GroupID:     item.GroupID.String(),
		}
	}
	return &RecordResponse{
		UserID:        rec.UserID.String(),
		ReferrerID:    rec.ReferrerID.String(),
		ReferralCode:  rec.ReferralCode,
		SignupDate:    rec.SignupDate,
		Status:        string(rec.Status),
		Checklist:     checklist,
		FraudScore:    rec.FraudScore,
		FraudFlags:    rec.FraudFlags,
		IsBlocked:     rec.IsBlocked,
		BlockedReason: rec.BlockedReason,
		RewardAwarded: rec.RewardAwarded,
		CreatedAt:     rec.CreatedAt,
		VerifiedAt:    rec.VerifiedAt,
		BlockedAt:     rec.BlockedAt,
	}
}

// StatsResponse is the HTTP shape of referrer aggregates.
type StatsResponse struct {
	ReferrerID           string `json:"referrer_id"`
	TotalReferred        int    `json:"total_referred"`
	TotalVerified        int    `json:"total_verified"`
	PendingVerifications int    `json:"pending_verifications"`
	BlockedReferrals     int    `json:"blocked_referrals"`
	TotalPaidConversions int    `json:"total_paid_conversions"`
}

// FromStats converts referrer aggregates to an HTTP response.
func FromStats(referrerID domain.UserID, stats *referrer.Stats) *StatsResponse {
	return &StatsResponse{
		ReferrerID:           referrerID.String(),
		TotalReferred:        stats.TotalReferred,
		TotalVerified:        stats.TotalVerified,
		PendingVerifications: stats.PendingVerifications,
		BlockedReferrals:     stats.BlockedReferrals,
		TotalPaidConversions: stats.TotalPaidConversions,
	}
}

// AuditEventResponse is one audit trail entry.
type AuditEventResponse struct {
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	Reason     string    `json:"reason,omitempty"`
	Score      int       `json:"score"`
	Flags      []string  `json:"flags,omitempty"`
	PriorScore int       `json:"prior_score,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
}

// FromAuditEvents converts audit events to an HTTP response.
func FromAuditEvents(events []audit.Event) []AuditEventResponse {
	out := make([]AuditEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, AuditEventResponse{
			Timestamp:  ev.Timestamp,
			Action:     string(ev.Action),
			Reason:     ev.Reason,
			Score:      ev.Score,
			Flags:      ev.Flags,
			PriorScore: ev.PriorScore,
			ActorID:    ev.ActorID,
		})
	}
	return out
}

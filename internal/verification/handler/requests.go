package handler

import (
	"strings"
	"time"

	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

// CreateRequest is the HTTP request body for POST /verifications.
type CreateRequest struct {
	UserID       string    `json:"user_id"`
	ReferrerID   string    `json:"referrer_id"`
	ReferralCode string    `json:"referral_code"`
	SignupDate   time.Time `json:"signup_date"`

	// Parsed values (populated by Validate)
	parsedUserID     domain.UserID
	parsedReferrerID domain.UserID
}

// Validate validates and parses the request.
func (r *CreateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	userID, err := domain.ParseUserID(strings.TrimSpace(r.UserID))
	if err != nil {
		return err
	}
	referrerID, err := domain.ParseUserID(strings.TrimSpace(r.ReferrerID))
	if err != nil {
		return err
	}

	r.ReferralCode = strings.TrimSpace(r.ReferralCode)
	if r.ReferralCode == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "referral_code is required")
	}

	r.parsedUserID = userID
	r.parsedReferrerID = referrerID
	return nil
}

// ParsedUserID returns the validated referee id.
func (r *CreateRequest) ParsedUserID() domain.UserID {
	return r.parsedUserID
}

// ParsedReferrerID returns the validated referrer id.
func (r *CreateRequest) ParsedReferrerID() domain.UserID {
	return r.parsedReferrerID
}

// OverrideRequest is the HTTP request body for
// POST /admin/verifications/{userID}/override.
type OverrideRequest struct {
	Reason string `json:"reason"`
}

// Validate validates the request.
func (r *OverrideRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "reason is required")
	}
	if len(r.Reason) > 500 {
		return dErrors.New(dErrors.CodeInvalidInput, "reason must be at most 500 characters")
	}
	return nil
}

// Package fraud computes the seven-signal fraud score for a referee.
//
// Checks are independent and explainable: each produces its own score and an
// optional named flag, and a failing check degrades to a neutral result
// instead of aborting the aggregate. The total is capped at 100.
package fraud

import (
	"time"

	"refguard/pkg/domain"
)

// Flags attached by the individual checks.
const (
	FlagSameDevice               = "same_device_as_referrer"
	FlagRapidPosting             = "rapid_posting"
	FlagConcentratedInteractions = "concentrated_interactions"
	FlagGroupMessageBurst        = "group_message_burst"
	FlagNewAccountBurst          = "new_account_burst"
	FlagThinContent              = "thin_content"
	FlagEmailAlias               = "email_alias"
)

// MaxScore caps the aggregate total.
const MaxScore = 100

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Flag    string `json:"flag,omitempty"`
	Details string `json:"details,omitempty"`
}

// ScoreResult aggregates all checks: Total = min(100, sum of scores), Flags
// is the union of non-empty flags in check order.
type ScoreResult struct {
	Total  int           `json:"total"`
	Flags  []string      `json:"flags,omitempty"`
	Checks []CheckResult `json:"checks"`
}

// Post is a forum post authored by the referee.
type Post struct {
	CreatedAt time.Time
	Title     string
	Body      string
}

// Message is a group message authored by the referee.
type Message struct {
	CreatedAt time.Time
	GroupID   domain.GroupID
}

// Interaction is one engagement with another member's content; AuthorID is
// the counterpart author.
type Interaction struct {
	AuthorID  string
	CreatedAt time.Time
}

// Activity is the gathered history a scoring pass runs over. Fetch failures
// leave the corresponding slice nil, which the affected checks treat as
// missing evidence rather than fraud.
type Activity struct {
	Posts           []Post
	Messages        []Message
	Interactions    []Interaction
	Devices         []string
	ReferrerDevices []string
	Email           string
}

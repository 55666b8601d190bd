// Package triggers consumes community and billing event streams and
// translates them into checklist progress. Adapters are thin: decode, map
// profile to user, hand off. All idempotency lives behind the aggregator.
package triggers

import "time"

// Topics consumed from the community platform and billing.
const (
	TopicPosts          = "community.posts"
	TopicComments       = "community.comments"
	TopicGroupJoins     = "community.group-joins"
	TopicGroupMessages  = "community.group-messages"
	TopicInteractions   = "community.interactions"
	TopicPaidConversion = "billing.conversions"
	TopicAccountDeleted = "accounts.deleted"
)

// Topics returns every topic the router consumes.
func Topics() []string {
	return []string{
		TopicPosts,
		TopicComments,
		TopicGroupJoins,
		TopicGroupMessages,
		TopicInteractions,
		TopicPaidConversion,
		TopicAccountDeleted,
	}
}

// PostCreated is the payload on community.posts.
type PostCreated struct {
	PostID          string    `json:"post_id"`
	AuthorProfileID string    `json:"author_profile_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// CommentCreated is the payload on community.comments.
type CommentCreated struct {
	CommentID       string    `json:"comment_id"`
	PostID          string    `json:"post_id"`
	AuthorProfileID string    `json:"author_profile_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// GroupJoined is the payload on community.group-joins.
type GroupJoined struct {
	ProfileID string    `json:"profile_id"`
	GroupID   string    `json:"group_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

// GroupMessageSent is the payload on community.group-messages.
type GroupMessageSent struct {
	MessageID       string    `json:"message_id"`
	AuthorProfileID string    `json:"author_profile_id"`
	GroupID         string    `json:"group_id"`
	SentAt          time.Time `json:"sent_at"`
}

// InteractionRecorded is the payload on community.interactions.
type InteractionRecorded struct {
	InteractionID   string    `json:"interaction_id"`
	ActorProfileID  string    `json:"actor_profile_id"`
	ContentAuthorID string    `json:"content_author_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// PaidConversion is the payload on billing.conversions.
type PaidConversion struct {
	InvoiceID string    `json:"invoice_id"`
	UserID    string    `json:"user_id"`
	PaidAt    time.Time `json:"paid_at"`
}

// AccountDeleted is the payload on accounts.deleted.
type AccountDeleted struct {
	UserID    string    `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

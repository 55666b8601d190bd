package triggers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"refguard/internal/checklist"
	"refguard/internal/platform/kafka"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

// Checklist is the aggregator surface the adapters feed.
type Checklist interface {
	RecordEvent(ctx context.Context, ev checklist.Event) error
	RecordGroupJoin(ctx context.Context, userID domain.UserID, groupID domain.GroupID, at time.Time) error
}

// Lifecycle covers the non-checklist record operations driven by events.
type Lifecycle interface {
	RecordPaidConversion(ctx context.Context, userID domain.UserID, invoiceID domain.ActionID) error
	MarkDeleted(ctx context.Context, userID domain.UserID) error
}

// Resolver maps community profile ids to platform user ids.
type Resolver interface {
	Resolve(ctx context.Context, profileID domain.ProfileID) (domain.UserID, error)
}

// Router implements kafka.Handler and dispatches each topic to its adapter.
type Router struct {
	checklist Checklist
	lifecycle Lifecycle
	resolver  Resolver
	logger    *slog.Logger
}

// NewRouter creates the topic router.
func NewRouter(cl Checklist, lc Lifecycle, resolver Resolver, logger *slog.Logger) (*Router, error) {
	if cl == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "checklist is required")
	}
	if lc == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "lifecycle is required")
	}
	if resolver == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "resolver is required")
	}
	return &Router{checklist: cl, lifecycle: lc, resolver: resolver, logger: logger}, nil
}

// Handle routes one message. Malformed payloads and unknown profiles are
// dropped with a log line: the stream covers the whole community and most
// authors are not referees mid-verification.
func (r *Router) Handle(ctx context.Context, msg *kafka.Message) error {
	switch msg.Topic {
	case TopicPosts:
		return r.handlePost(ctx, msg.Value)
	case TopicComments:
		return r.handleComment(ctx, msg.Value)
	case TopicGroupJoins:
		return r.handleGroupJoin(ctx, msg.Value)
	case TopicGroupMessages:
		return r.handleGroupMessage(ctx, msg.Value)
	case TopicInteractions:
		return r.handleInteraction(ctx, msg.Value)
	case TopicPaidConversion:
		return r.handlePaidConversion(ctx, msg.Value)
	case TopicAccountDeleted:
		return r.handleAccountDeleted(ctx, msg.Value)
	default:
		r.logger.WarnContext(ctx, "message on unexpected topic dropped", "topic", msg.Topic)
		return nil
	}
}

func (r *Router) handlePost(ctx context.Context, value []byte) error {
	var p PostCreated
	if !r.decode(ctx, TopicPosts, value, &p) {
		return nil
	}
	userID, ok := r.resolve(ctx, p.AuthorProfileID)
	if !ok {
		return nil
	}
	return r.checklist.RecordEvent(ctx, checklist.Event{
		UserID:   userID,
		ActionID: domain.ActionID(p.PostID),
		Key:      domain.ItemForumPosts,
		At:       p.CreatedAt,
	})
}

func (r *Router) handleComment(ctx context.Context, value []byte) error {
	var c CommentCreated
	if !r.decode(ctx, TopicComments, value, &c) {
		return nil
	}
	userID, ok := r.resolve(ctx, c.AuthorProfileID)
	if !ok {
		return nil
	}
	return r.checklist.RecordEvent(ctx, checklist.Event{
		UserID:   userID,
		ActionID: domain.ActionID(c.CommentID),
		Key:      domain.ItemForumComments,
		At:       c.CreatedAt,
	})
}

func (r *Router) handleGroupJoin(ctx context.Context, value []byte) error {
	var g GroupJoined
	if !r.decode(ctx, TopicGroupJoins, value, &g) {
		return nil
	}
	userID, ok := r.resolve(ctx, g.ProfileID)
	if !ok {
		return nil
	}
	groupID, err := domain.ParseGroupID(g.GroupID)
	if err != nil {
		r.logger.WarnContext(ctx, "group join without group id dropped", "profile_id", g.ProfileID)
		return nil
	}
	return r.checklist.RecordGroupJoin(ctx, userID, groupID, g.JoinedAt)
}

func (r *Router) handleGroupMessage(ctx context.Context, value []byte) error {
	var m GroupMessageSent
	if !r.decode(ctx, TopicGroupMessages, value, &m) {
		return nil
	}
	userID, ok := r.resolve(ctx, m.AuthorProfileID)
	if !ok {
		return nil
	}
	return r.checklist.RecordEvent(ctx, checklist.Event{
		UserID:   userID,
		ActionID: domain.ActionID(m.MessageID),
		Key:      domain.ItemGroupMessages,
		GroupID:  domain.GroupID(m.GroupID),
		At:       m.SentAt,
	})
}

func (r *Router) handleInteraction(ctx context.Context, value []byte) error {
	var in InteractionRecorded
	if !r.decode(ctx, TopicInteractions, value, &in) {
		return nil
	}
	userID, ok := r.resolve(ctx, in.ActorProfileID)
	if !ok {
		return nil
	}
	if in.ContentAuthorID == "" {
		r.logger.WarnContext(ctx, "interaction without author dropped", "interaction_id", in.InteractionID)
		return nil
	}
	return r.checklist.RecordEvent(ctx, checklist.Event{
		UserID:   userID,
		ActionID: domain.ActionID(in.InteractionID),
		Key:      domain.ItemInteractions,
		Partner:  in.ContentAuthorID,
		At:       in.CreatedAt,
	})
}

func (r *Router) handlePaidConversion(ctx context.Context, value []byte) error {
	var p PaidConversion
	if !r.decode(ctx, TopicPaidConversion, value, &p) {
		return nil
	}
	userID, err := domain.ParseUserID(p.UserID)
	if err != nil {
		r.logger.WarnContext(ctx, "conversion without user dropped", "invoice_id", p.InvoiceID)
		return nil
	}
	return r.lifecycle.RecordPaidConversion(ctx, userID, domain.ActionID(p.InvoiceID))
}

func (r *Router) handleAccountDeleted(ctx context.Context, value []byte) error {
	var a AccountDeleted
	if !r.decode(ctx, TopicAccountDeleted, value, &a) {
		return nil
	}
	userID, err := domain.ParseUserID(a.UserID)
	if err != nil {
		return nil
	}
	return r.lifecycle.MarkDeleted(ctx, userID)
}

func (r *Router) decode(ctx context.Context, topic string, value []byte, into any) bool {
	if err := json.Unmarshal(value, into); err != nil {
		r.logger.WarnContext(ctx, "malformed payload dropped",
			"topic", topic,
			"error", err,
		)
		return false
	}
	return true
}

// resolve maps a profile id to a user id, treating unknown profiles as
// non-referees.
func (r *Router) resolve(ctx context.Context, rawProfileID string) (domain.UserID, bool) {
	profileID, err := domain.ParseProfileID(rawProfileID)
	if err != nil {
		return "", false
	}
	userID, err := r.resolver.Resolve(ctx, profileID)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return "", false
	}
	if err != nil {
		r.logger.WarnContext(ctx, "profile resolution failed",
			"profile_id", profileID,
			"error", err,
		)
		return "", false
	}
	return userID, true
}

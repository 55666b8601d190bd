package triggers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"refguard/internal/checklist"
	"refguard/internal/identity"
	"refguard/internal/platform/kafka"
	"refguard/internal/triggers"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

type checklistRecorder struct {
	events []checklist.Event
	joins  []domain.GroupID
}

func (c *checklistRecorder) RecordEvent(_ context.Context, ev checklist.Event) error {
	c.events = append(c.events, ev)
	return nil
}

func (c *checklistRecorder) RecordGroupJoin(_ context.Context, _ domain.UserID, groupID domain.GroupID, _ time.Time) error {
	c.joins = append(c.joins, groupID)
	return nil
}

type lifecycleRecorder struct {
	conversions []domain.ActionID
	deletions   []domain.UserID
}

func (l *lifecycleRecorder) RecordPaidConversion(_ context.Context, _ domain.UserID, invoiceID domain.ActionID) error {
	l.conversions = append(l.conversions, invoiceID)
	return nil
}

func (l *lifecycleRecorder) MarkDeleted(_ context.Context, userID domain.UserID) error {
	l.deletions = append(l.deletions, userID)
	return nil
}

type staticDirectory map[domain.ProfileID]domain.UserID

func (d staticDirectory) Lookup(_ context.Context, profileID domain.ProfileID) (domain.UserID, error) {
	if userID, ok := d[profileID]; ok {
		return userID, nil
	}
	return "", dErrors.New(dErrors.CodeNotFound, "unknown community profile")
}

type RouterSuite struct {
	suite.Suite
	ctx       context.Context
	checklist *checklistRecorder
	lifecycle *lifecycleRecorder
	router    *triggers.Router
	base      time.Time
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.ctx = context.Background()
	s.checklist = &checklistRecorder{}
	s.lifecycle = &lifecycleRecorder{}
	s.base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	resolver, err := identity.NewResolver(
		identity.NewMemoryCache(8),
		staticDirectory{"cp-1": "u1"},
	)
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router, err = triggers.NewRouter(s.checklist, s.lifecycle, resolver, logger)
	s.Require().NoError(err)
}

func (s *RouterSuite) deliver(topic string, payload any) {
	raw, err := json.Marshal(payload)
	s.Require().NoError(err)
	s.Require().NoError(s.router.Handle(s.ctx, &kafka.Message{Topic: topic, Value: raw}))
}

func (s *RouterSuite) TestPostFeedsForumItem() {
	s.deliver(triggers.TopicPosts, triggers.PostCreated{
		PostID:          "post-1",
		AuthorProfileID: "cp-1",
		CreatedAt:       s.base,
	})

	s.Require().Len(s.checklist.events, 1)
	ev := s.checklist.events[0]
	s.Equal(domain.UserID("u1"), ev.UserID)
	s.Equal(domain.ItemForumPosts, ev.Key)
	s.Equal(domain.ActionID("post-1"), ev.ActionID)
}

func (s *RouterSuite) TestCommentFeedsCommentItem() {
	s.deliver(triggers.TopicComments, triggers.CommentCreated{
		CommentID:       "comment-1",
		PostID:          "post-9",
		AuthorProfileID: "cp-1",
		CreatedAt:       s.base,
	})

	s.Require().Len(s.checklist.events, 1)
	s.Equal(domain.ItemForumComments, s.checklist.events[0].Key)
}

func (s *RouterSuite) TestGroupMessageCarriesGroupScope() {
	s.deliver(triggers.TopicGroupMessages, triggers.GroupMessageSent{
		MessageID:       "msg-1",
		AuthorProfileID: "cp-1",
		GroupID:         "g1",
		SentAt:          s.base,
	})

	s.Require().Len(s.checklist.events, 1)
	ev := s.checklist.events[0]
	s.Equal(domain.ItemGroupMessages, ev.Key)
	s.Equal(domain.GroupID("g1"), ev.GroupID)
}

func (s *RouterSuite) TestGroupJoinRouted() {
	s.deliver(triggers.TopicGroupJoins, triggers.GroupJoined{
		ProfileID: "cp-1",
		GroupID:   "g1",
		JoinedAt:  s.base,
	})

	s.Equal([]domain.GroupID{"g1"}, s.checklist.joins)
}

func (s *RouterSuite) TestInteractionCarriesPartner() {
	s.deliver(triggers.TopicInteractions, triggers.InteractionRecorded{
		InteractionID:   "int-1",
		ActorProfileID:  "cp-1",
		ContentAuthorID: "u9",
		CreatedAt:       s.base,
	})

	s.Require().Len(s.checklist.events, 1)
	ev := s.checklist.events[0]
	s.Equal(domain.ItemInteractions, ev.Key)
	s.Equal("u9", ev.Partner)
}

func (s *RouterSuite) TestPaidConversionAndDeletionRouted() {
	s.deliver(triggers.TopicPaidConversion, triggers.PaidConversion{
		InvoiceID: "inv-1",
		UserID:    "u1",
		PaidAt:    s.base,
	})
	s.deliver(triggers.TopicAccountDeleted, triggers.AccountDeleted{
		UserID:    "u1",
		DeletedAt: s.base,
	})

	s.Equal([]domain.ActionID{"inv-1"}, s.lifecycle.conversions)
	s.Equal([]domain.UserID{"u1"}, s.lifecycle.deletions)
}

func (s *RouterSuite) TestUnknownProfileDropped() {
	s.deliver(triggers.TopicPosts, triggers.PostCreated{
		PostID:          "post-1",
		AuthorProfileID: "cp-unknown",
		CreatedAt:       s.base,
	})
	s.Empty(s.checklist.events)
}

func (s *RouterSuite) TestMalformedPayloadDropped() {
	s.Require().NoError(s.router.Handle(s.ctx, &kafka.Message{
		Topic: triggers.TopicPosts,
		Value: []byte("not json"),
	}))
	s.Empty(s.checklist.events)
}

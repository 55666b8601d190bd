package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"refguard/internal/events"
	"refguard/internal/verification/models"
	"refguard/internal/verification/ports/mocks"
	recordmemory "refguard/internal/verification/store/memory"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

type DispatcherSuite struct {
	suite.Suite
	ctx              context.Context
	ctrl             *gomock.Controller
	bus              *events.Bus
	records          *recordmemory.Store
	mockEntitlements *mocks.MockEntitlements
	mockNotifier     *mocks.MockNotifier
	dispatcher       *events.Dispatcher
	now              time.Time
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.bus = events.NewBus(16)
	s.records = recordmemory.NewStore()
	s.mockEntitlements = mocks.NewMockEntitlements(s.ctrl)
	s.mockNotifier = mocks.NewMockNotifier(s.ctrl)
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var err error
	s.dispatcher, err = events.NewDispatcher(
		s.bus,
		s.records,
		s.mockEntitlements,
		s.mockNotifier,
		30,
		events.WithClock(func() time.Time { return s.now }),
	)
	s.Require().NoError(err)
}

func (s *DispatcherSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *DispatcherSuite) seed(userID domain.UserID) {
	rec := models.NewRecord(userID, "referrer-1", "CODE", s.now.AddDate(0, 0, -10), s.now)
	s.Require().NoError(s.records.Create(s.ctx, rec))
}

func (s *DispatcherSuite) TestVerifiedGrantsRewardOnce() {
	s.seed("u1")

	ev := events.Event{
		Type:       events.TypeReferralVerified,
		UserID:     "u1",
		ReferrerID: "referrer-1",
		OccurredAt: s.now,
	}

	s.mockEntitlements.EXPECT().Grant(gomock.Any(), domain.UserID("referrer-1"), 30).Return(nil).Times(1)
	s.mockNotifier.EXPECT().Send(gomock.Any(), domain.UserID("referrer-1"), gomock.Any(), gomock.Any()).Return(true)
	s.mockNotifier.EXPECT().Send(gomock.Any(), domain.UserID("u1"), gomock.Any(), gomock.Any()).Return(true)

	// Redelivered events must not grant a second reward.
	s.dispatcher.Handle(s.ctx, ev)
	s.dispatcher.Handle(s.ctx, ev)

	rec, err := s.records.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.True(rec.RewardAwarded)
}

func (s *DispatcherSuite) TestFailedGrantRetriesOnRedelivery() {
	s.seed("u1")

	ev := events.Event{
		Type:       events.TypeReferralVerified,
		UserID:     "u1",
		ReferrerID: "referrer-1",
		OccurredAt: s.now,
	}

	gomock.InOrder(
		s.mockEntitlements.EXPECT().Grant(gomock.Any(), domain.UserID("referrer-1"), 30).
			Return(dErrors.New(dErrors.CodeInternal, "entitlement service down")),
		s.mockEntitlements.EXPECT().Grant(gomock.Any(), domain.UserID("referrer-1"), 30).
			Return(nil),
	)
	s.mockNotifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true).Times(2)

	s.dispatcher.Handle(s.ctx, ev)

	rec, err := s.records.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.False(rec.RewardAwarded, "a failed grant must leave the record unmarked")

	s.dispatcher.Handle(s.ctx, ev)

	rec, err = s.records.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.True(rec.RewardAwarded)
}

func (s *DispatcherSuite) TestCreatedNotifiesReferee() {
	s.mockNotifier.EXPECT().Send(gomock.Any(), domain.UserID("u1"), gomock.Any(), gomock.Any()).Return(true)

	s.dispatcher.Handle(s.ctx, events.Event{
		Type:       events.TypeVerificationCreated,
		UserID:     "u1",
		ReferrerID: "referrer-1",
	})
}

func (s *DispatcherSuite) TestBlockedHasNoSideEffects() {
	s.seed("u1")

	s.dispatcher.Handle(s.ctx, events.Event{
		Type:       events.TypeReferralBlocked,
		UserID:     "u1",
		ReferrerID: "referrer-1",
	})

	rec, err := s.records.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.False(rec.RewardAwarded)
}

type refresherStub struct {
	calls []domain.UserID
}

func (r *refresherStub) RefreshFraud(_ context.Context, userID domain.UserID) error {
	r.calls = append(r.calls, userID)
	return nil
}

func (s *DispatcherSuite) TestChecklistProgressTriggersFraudRefresh() {
	refresher := &refresherStub{}
	dispatcher, err := events.NewDispatcher(
		s.bus,
		s.records,
		s.mockEntitlements,
		s.mockNotifier,
		30,
		events.WithFraudRefresher(refresher),
	)
	s.Require().NoError(err)

	dispatcher.Handle(s.ctx, events.Event{Type: events.TypeChecklistProgress, UserID: "u1"})
	s.Equal([]domain.UserID{"u1"}, refresher.calls)
}

func (s *DispatcherSuite) TestChecklistProgressWithoutRefresherIsDropped() {
	s.dispatcher.Handle(s.ctx, events.Event{Type: events.TypeChecklistProgress, UserID: "u1"})
}

func (s *DispatcherSuite) TestRunStopsOnCancel() {
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		s.dispatcher.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("dispatcher did not stop on context cancellation")
	}
}

package maturity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"refguard/internal/verification"
	"refguard/internal/verification/models"
	"refguard/pkg/domain"
)

type listerStub struct {
	gotCutoff time.Time
	records   []*models.VerificationRecord
	err       error
}

func (l *listerStub) ListAwaitingMaturity(_ context.Context, cutoff time.Time) ([]*models.VerificationRecord, error) {
	l.gotCutoff = cutoff
	return l.records, l.err
}

type finalizerStub struct {
	calls  []domain.UserID
	errFor domain.UserID
}

func (f *finalizerStub) HandleCompletion(_ context.Context, userID domain.UserID) error {
	f.calls = append(f.calls, userID)
	if userID == f.errFor && f.errFor != "" {
		return errors.New("store unavailable")
	}
	return nil
}

type SweeperSuite struct {
	suite.Suite
	ctx       context.Context
	now       time.Time
	lister    *listerStub
	finalizer *finalizerStub
	sweeper   *Sweeper
}

func TestSweeperSuite(t *testing.T) {
	suite.Run(t, new(SweeperSuite))
}

func (s *SweeperSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.lister = &listerStub{}
	s.finalizer = &finalizerStub{}

	var err error
	s.sweeper, err = New(s.lister, s.finalizer, WithClock(func() time.Time { return s.now }))
	s.Require().NoError(err)
}

func (s *SweeperSuite) TestFinalizesEveryCandidate() {
	s.lister.records = []*models.VerificationRecord{
		{UserID: "u1"},
		{UserID: "u2"},
		{UserID: "u3"},
	}

	s.Require().NoError(s.sweeper.RunOnce(s.ctx))
	s.Equal([]domain.UserID{"u1", "u2", "u3"}, s.finalizer.calls)
	s.Equal(s.now.Add(-verification.MaturityAge), s.lister.gotCutoff)
}

func (s *SweeperSuite) TestOneFailureDoesNotStopSweep() {
	s.lister.records = []*models.VerificationRecord{
		{UserID: "u1"},
		{UserID: "u2"},
		{UserID: "u3"},
	}
	s.finalizer.errFor = "u2"

	s.Require().NoError(s.sweeper.RunOnce(s.ctx))
	s.Equal([]domain.UserID{"u1", "u2", "u3"}, s.finalizer.calls)
}

func (s *SweeperSuite) TestListFailurePropagates() {
	s.lister.err = errors.New("mongo down")

	s.Error(s.sweeper.RunOnce(s.ctx))
	s.Empty(s.finalizer.calls)
}

func (s *SweeperSuite) TestEmptySweepIsQuiet() {
	s.Require().NoError(s.sweeper.RunOnce(s.ctx))
	s.Empty(s.finalizer.calls)
}

func (s *SweeperSuite) TestRequiresCollaborators() {
	_, err := New(nil, s.finalizer)
	s.Error(err)

	_, err = New(s.lister, nil)
	s.Error(err)
}

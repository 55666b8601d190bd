package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"refguard/internal/verification/models"
	"refguard/internal/verification/ports"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

type RecordStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
	base  time.Time
}

func TestRecordStoreSuite(t *testing.T) {
	suite.Run(t, new(RecordStoreSuite))
}

func (s *RecordStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewStore()
	s.base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RecordStoreSuite) seed(userID domain.UserID) *models.VerificationRecord {
	rec := models.NewRecord(userID, "referrer-1", "CODE", s.base.AddDate(0, 0, -10), s.base)
	s.Require().NoError(s.store.Create(s.ctx, rec))
	return rec
}

func (s *RecordStoreSuite) TestCreateAndGet() {
	s.seed("u1")

	s.Run("get returns the stored record", func() {
		rec, err := s.store.Get(s.ctx, "u1")
		s.Require().NoError(err)
		s.Equal(models.StatusPending, rec.Status)
		s.Equal(domain.UserID("referrer-1"), rec.ReferrerID)
	})

	s.Run("duplicate create conflicts", func() {
		err := s.store.Create(s.ctx, models.NewRecord("u1", "referrer-2", "OTHER", s.base, s.base))
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown user is not found", func() {
		_, err := s.store.Get(s.ctx, "ghost")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("get returns a copy", func() {
		rec, err := s.store.Get(s.ctx, "u1")
		s.Require().NoError(err)
		rec.Status = models.StatusBlocked
		rec.Item(domain.ItemForumPosts).Current = 99

		fresh, err := s.store.Get(s.ctx, "u1")
		s.Require().NoError(err)
		s.Equal(models.StatusPending, fresh.Status)
		s.Zero(fresh.Item(domain.ItemForumPosts).Current)
	})
}

func (s *RecordStoreSuite) TestItemCountIsMonotonic() {
	s.seed("u1")

	s.Require().NoError(s.store.SetItemCount(s.ctx, "u1", domain.ItemForumPosts, 2))
	s.Require().NoError(s.store.SetItemCount(s.ctx, "u1", domain.ItemForumPosts, 1))

	rec, err := s.store.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(2, rec.Item(domain.ItemForumPosts).Current)
}

func (s *RecordStoreSuite) TestAddInteractionPartnerDeduplicates() {
	s.seed("u1")

	n, err := s.store.AddInteractionPartner(s.ctx, "u1", "author-a")
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.store.AddInteractionPartner(s.ctx, "u1", "author-a")
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.store.AddInteractionPartner(s.ctx, "u1", "author-b")
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *RecordStoreSuite) TestMarkGroupJoinedRecordsFirstGroupOnly() {
	s.seed("u1")

	applied, err := s.store.MarkGroupJoined(s.ctx, "u1", "g1", s.base)
	s.Require().NoError(err)
	s.True(applied)

	applied, err = s.store.MarkGroupJoined(s.ctx, "u1", "g2", s.base.Add(time.Hour))
	s.Require().NoError(err)
	s.False(applied)

	rec, err := s.store.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(domain.GroupID("g1"), rec.JoinedGroup())
	s.True(rec.Item(domain.ItemGroupJoined).Completed)
}

func (s *RecordStoreSuite) TestCompleteItemIsMonotonic() {
	s.seed("u1")

	applied, err := s.store.CompleteItem(s.ctx, "u1", domain.ItemForumPosts, s.base)
	s.Require().NoError(err)
	s.True(applied)

	applied, err = s.store.CompleteItem(s.ctx, "u1", domain.ItemForumPosts, s.base.Add(time.Hour))
	s.Require().NoError(err)
	s.False(applied)

	rec, err := s.store.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(s.base, *rec.Item(domain.ItemForumPosts).CompletedAt)
}

func (s *RecordStoreSuite) TestFinalizeAppliesOnce() {
	s.seed("u1")

	applied, err := s.store.Finalize(s.ctx, "u1", ports.FinalizeParams{
		Verified: true, FraudScore: 10, At: s.base,
	})
	s.Require().NoError(err)
	s.True(applied)

	applied, err = s.store.Finalize(s.ctx, "u1", ports.FinalizeParams{
		Blocked: true, BlockedReason: "late block", FraudScore: 90, At: s.base.Add(time.Minute),
	})
	s.Require().NoError(err)
	s.False(applied)

	rec, err := s.store.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(models.StatusVerified, rec.Status)
	s.Equal(10, rec.FraudScore)
	s.False(rec.IsBlocked)
}

func (s *RecordStoreSuite) TestFlagForReviewKeepsRecordPending() {
	s.seed("u1")

	err := s.store.FlagForReview(s.ctx, "u1", 55, []string{"rapid_posting"}, s.base)
	s.Require().NoError(err)

	rec, err := s.store.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(models.StatusPending, rec.Status)
	s.Equal(55, rec.FraudScore)
	s.True(rec.HasFlag("rapid_posting"))
	s.True(rec.HasFlag(models.FlagFlaggedForReview))
}

func (s *RecordStoreSuite) TestSetFraudScoreOnlyTouchesLivePendingRecords() {
	s.seed("u1")

	s.Run("pending record accepts a provisional score", func() {
		applied, err := s.store.SetFraudScore(s.ctx, "u1", 25, []string{"shared_device"})
		s.Require().NoError(err)
		s.True(applied)

		rec, err := s.store.Get(s.ctx, "u1")
		s.Require().NoError(err)
		s.Equal(25, rec.FraudScore)
		s.True(rec.HasFlag("shared_device"))
	})

	s.Run("parked record keeps its review score", func() {
		s.Require().NoError(s.store.FlagForReview(s.ctx, "u1", 55, []string{"rapid_posting"}, s.base))

		applied, err := s.store.SetFraudScore(s.ctx, "u1", 10, nil)
		s.Require().NoError(err)
		s.False(applied)

		rec, err := s.store.Get(s.ctx, "u1")
		s.Require().NoError(err)
		s.Equal(55, rec.FraudScore)
	})

	s.Run("settled record is untouched", func() {
		s.seed("u2")
		_, err := s.store.Finalize(s.ctx, "u2", ports.FinalizeParams{
			Verified: true, FraudScore: 10, At: s.base,
		})
		s.Require().NoError(err)

		applied, err := s.store.SetFraudScore(s.ctx, "u2", 80, []string{"burst"})
		s.Require().NoError(err)
		s.False(applied)

		rec, err := s.store.Get(s.ctx, "u2")
		s.Require().NoError(err)
		s.Equal(10, rec.FraudScore)
	})

	s.Run("unknown user reports not found", func() {
		_, err := s.store.SetFraudScore(s.ctx, "ghost", 5, nil)
		s.Require().Error(err)
	})
}

func (s *RecordStoreSuite) TestOverrideOnlyReversesBlocked() {
	s.seed("u1")

	applied, err := s.store.Override(s.ctx, "u1", ports.OverrideParams{Reason: "manual review", At: s.base})
	s.Require().NoError(err)
	s.False(applied, "pending record must not be overridable")

	_, err = s.store.Finalize(s.ctx, "u1", ports.FinalizeParams{
		Blocked: true, BlockedReason: "score above threshold", FraudScore: 80,
		FraudFlags: []string{"same_device_as_referrer"}, At: s.base,
	})
	s.Require().NoError(err)

	applied, err = s.store.Override(s.ctx, "u1", ports.OverrideParams{Reason: "manual review", At: s.base.Add(time.Hour)})
	s.Require().NoError(err)
	s.True(applied)

	rec, err := s.store.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(models.StatusVerified, rec.Status)
	s.False(rec.IsBlocked)
	s.Empty(rec.BlockedReason)
	s.Nil(rec.BlockedAt)
	s.Zero(rec.FraudScore)
	s.Empty(rec.FraudFlags)
}

func (s *RecordStoreSuite) TestMarkRewardAwardedOnce() {
	s.seed("u1")

	applied, err := s.store.MarkRewardAwarded(s.ctx, "u1", s.base)
	s.Require().NoError(err)
	s.True(applied)

	applied, err = s.store.MarkRewardAwarded(s.ctx, "u1", s.base)
	s.Require().NoError(err)
	s.False(applied)
}

func (s *RecordStoreSuite) TestListAwaitingMaturity() {
	complete := func(userID domain.UserID) {
		for _, key := range domain.EventItemKeys {
			_, err := s.store.CompleteItem(s.ctx, userID, key, s.base)
			s.Require().NoError(err)
		}
	}

	s.seed("ready")
	complete("ready")

	s.seed("incomplete")

	young := models.NewRecord("young", "referrer-1", "CODE", s.base.AddDate(0, 0, -2), s.base)
	s.Require().NoError(s.store.Create(s.ctx, young))
	complete("young")

	s.seed("gone")
	complete("gone")
	s.Require().NoError(s.store.MarkDeleted(s.ctx, "gone", s.base))

	cutoff := s.base.AddDate(0, 0, -7)
	recs, err := s.store.ListAwaitingMaturity(s.ctx, cutoff)
	s.Require().NoError(err)
	s.Require().Len(recs, 1)
	s.Equal(domain.UserID("ready"), recs[0].UserID)
}

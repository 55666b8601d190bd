package fraud_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"refguard/internal/fraud"
	"refguard/internal/fraud/store/memory"
	"refguard/internal/verification/models"
	"refguard/pkg/domain"
)

type EngineSuite struct {
	suite.Suite
	ctx  context.Context
	base time.Time
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctx = context.Background()
	s.base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *EngineSuite) newEngine(reader fraud.ActivityReader) *fraud.Engine {
	return fraud.NewEngine(reader, fraud.WithClock(func() time.Time { return s.base }))
}

func (s *EngineSuite) record(userID, referrerID domain.UserID, age time.Duration) *models.VerificationRecord {
	return models.NewRecord(userID, referrerID, "CODE", s.base.Add(-age), s.base.Add(-age))
}

func (s *EngineSuite) TestCleanRefereeScoresZero() {
	store := memory.NewStore()
	store.SetProfile("u1", "clean@example.com", "dev-u1")
	store.SetProfile("r1", "referrer@example.com", "dev-r1")
	store.AddPosts("u1",
		fraud.Post{CreatedAt: s.base.Add(-72 * time.Hour), Title: "intro", Body: "a longer thoughtful post with plenty of substance and detail for readers"},
		fraud.Post{CreatedAt: s.base.Add(-48 * time.Hour), Title: "followup", Body: "another considered reply that adds context and a genuine question for the group"},
	)

	result, err := s.newEngine(store).Score(s.ctx, s.record("u1", "r1", 10*24*time.Hour))
	s.Require().NoError(err)

	s.Zero(result.Total)
	s.Empty(result.Flags)
	s.Len(result.Checks, 7)
}

func (s *EngineSuite) TestStackedSignalsCapAtHundred() {
	// Device overlap (50) + concentrated interactions (40) + thin content (20)
	// sums past the cap.
	store := memory.NewStore()
	store.SetProfile("u1", "u1@example.com", "shared-device")
	store.SetProfile("r1", "r1@example.com", "shared-device")
	for i := 0; i < 5; i++ {
		store.AddInteractions("u1", fraud.Interaction{AuthorID: "r1", CreatedAt: s.base.Add(time.Duration(i) * time.Minute)})
	}
	for i := 0; i < 2; i++ {
		store.AddPosts("u1", fraud.Post{CreatedAt: s.base.Add(time.Duration(i) * 24 * time.Hour), Title: "hi", Body: "ok"})
	}

	result, err := s.newEngine(store).Score(s.ctx, s.record("u1", "r1", 10*24*time.Hour))
	s.Require().NoError(err)

	s.Equal(fraud.MaxScore, result.Total)
	s.Contains(result.Flags, fraud.FlagSameDevice)
	s.Contains(result.Flags, fraud.FlagConcentratedInteractions)
	s.Contains(result.Flags, fraud.FlagThinContent)
}

func (s *EngineSuite) TestEnthusiastStaysUnderBlockThreshold() {
	// A genuinely fast but substantive participant trips only the velocity
	// signal, which alone is nowhere near a block.
	store := memory.NewStore()
	store.SetProfile("u1", "keen@example.com", "dev-u1")
	store.SetProfile("r1", "r1@example.com", "dev-r1")
	body := "a real answer with enough words to clearly not read as filler content at all"
	for i := 0; i < 4; i++ {
		store.AddPosts("u1", fraud.Post{CreatedAt: s.base.Add(time.Duration(i) * time.Minute), Title: "reply", Body: body})
	}

	result, err := s.newEngine(store).Score(s.ctx, s.record("u1", "r1", 10*24*time.Hour))
	s.Require().NoError(err)

	s.Equal(25, result.Total)
	s.Equal([]string{fraud.FlagRapidPosting}, result.Flags)
}

func (s *EngineSuite) TestFetchFailureIsNeutral() {
	store := &failingReader{inner: memory.NewStore()}
	store.inner.SetProfile("u1", "user+alias@example.com", "dev-u1")

	result, err := s.newEngine(store).Score(s.ctx, s.record("u1", "r1", 10*24*time.Hour))
	s.Require().NoError(err)

	// Post-based checks degrade to neutral; the email check still fires.
	s.Equal(10, result.Total)
	s.Equal([]string{fraud.FlagEmailAlias}, result.Flags)
}

func (s *EngineSuite) TestNilRecordRejected() {
	_, err := s.newEngine(memory.NewStore()).Score(s.ctx, nil)
	s.Error(err)
}

// failingReader fails post fetches and delegates the rest.
type failingReader struct {
	inner *memory.Store
}

func (f *failingReader) Posts(context.Context, domain.UserID) ([]fraud.Post, error) {
	return nil, errors.New("forum store unavailable")
}

func (f *failingReader) Messages(ctx context.Context, userID domain.UserID) ([]fraud.Message, error) {
	return f.inner.Messages(ctx, userID)
}

func (f *failingReader) Interactions(ctx context.Context, userID domain.UserID) ([]fraud.Interaction, error) {
	return f.inner.Interactions(ctx, userID)
}

func (f *failingReader) Devices(ctx context.Context, userID domain.UserID) ([]string, error) {
	return f.inner.Devices(ctx, userID)
}

func (f *failingReader) Email(ctx context.Context, userID domain.UserID) (string, error) {
	return f.inner.Email(ctx, userID)
}

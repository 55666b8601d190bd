// Package memory provides an in-memory verification record store for tests
// and local development. Semantics mirror the mongo store: conditional
// updates only apply against the expected prior state.
package memory

import (
	"context"
	"sync"
	"time"

	"refguard/internal/verification/models"
	"refguard/internal/verification/ports"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

// Store is an in-memory ports.RecordStore.
type Store struct {
	mu      sync.RWMutex
	records map[domain.UserID]*models.VerificationRecord
}

// NewStore creates an empty in-memory record store.
func NewStore() *Store {
	return &Store{records: make(map[domain.UserID]*models.VerificationRecord)}
}

func (s *Store) Create(_ context.Context, rec *models.VerificationRecord) error {
	if rec == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "nil verification record")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.UserID]; exists {
		return dErrors.New(dErrors.CodeConflict, "verification record already exists")
	}
	s.records[rec.UserID] = clone(rec)
	return nil
}

func (s *Store) Get(_ context.Context, userID domain.UserID) (*models.VerificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[userID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	return clone(rec), nil
}

func (s *Store) SetItemCount(_ context.Context, userID domain.UserID, key domain.ItemKey, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	item := ensureItem(rec, key)
	if count > item.Current {
		item.Current = count
	}
	rec.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) AddInteractionPartner(_ context.Context, userID domain.UserID, partner string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return 0, dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	item := ensureItem(rec, domain.ItemInteractions)
	for _, p := range item.Partners {
		if p == partner {
			return len(item.Partners), nil
		}
	}
	item.Partners = append(item.Partners, partner)
	item.Current = len(item.Partners)
	rec.UpdatedAt = time.Now().UTC()
	return len(item.Partners), nil
}

func (s *Store) MarkGroupJoined(_ context.Context, userID domain.UserID, groupID domain.GroupID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return false, dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	item := ensureItem(rec, domain.ItemGroupJoined)
	if item.GroupID != "" {
		return false, nil
	}
	item.GroupID = groupID
	item.Current = 1
	item.Completed = true
	item.CompletedAt = &at
	rec.UpdatedAt = at
	return true, nil
}

func (s *Store) CompleteItem(_ context.Context, userID domain.UserID, key domain.ItemKey, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return false, dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	item := ensureItem(rec, key)
	if item.Completed {
		return false, nil
	}
	item.Completed = true
	item.CompletedAt = &at
	rec.UpdatedAt = at
	return true, nil
}

func (s *Store) Finalize(_ context.Context, userID domain.UserID, params ports.FinalizeParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return false, dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	if rec.Status != models.StatusPending {
		return false, nil
	}
	at := params.At
	rec.FraudScore = params.FraudScore
	rec.FraudFlags = append([]string(nil), params.FraudFlags...)
	rec.UpdatedAt = at
	switch {
	case params.Blocked:
		rec.Status = models.StatusBlocked
		rec.IsBlocked = true
		rec.BlockedReason = params.BlockedReason
		rec.BlockedAt = &at
	case params.Verified:
		rec.Status = models.StatusVerified
		rec.VerifiedAt = &at
	default:
		return false, dErrors.New(dErrors.CodeInvalidInput, "finalize without a terminal state")
	}
	return true, nil
}

func (s *Store) FlagForReview(_ context.Context, userID domain.UserID, score int, flags []string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	rec.FraudScore = score
	rec.FraudFlags = append([]string(nil), flags...)
	if !rec.HasFlag(models.FlagFlaggedForReview) {
		rec.FraudFlags = append(rec.FraudFlags, models.FlagFlaggedForReview)
	}
	rec.UpdatedAt = at
	return nil
}

func (s *Store) SetFraudScore(_ context.Context, userID domain.UserID, score int, flags []string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return false, dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	if rec.Status != models.StatusPending || rec.Deleted || rec.HasFlag(models.FlagFlaggedForReview) {
		return false, nil
	}
	rec.FraudScore = score
	rec.FraudFlags = append([]string(nil), flags...)
	return true, nil
}

func (s *Store) Override(_ context.Context, userID domain.UserID, params ports.OverrideParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return false, dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	if rec.Status != models.StatusBlocked {
		return false, nil
	}
	at := params.At
	rec.Status = models.StatusVerified
	rec.IsBlocked = false
	rec.BlockedReason = ""
	rec.BlockedAt = nil
	rec.FraudScore = 0
	rec.FraudFlags = nil
	rec.VerifiedAt = &at
	rec.UpdatedAt = at
	return true, nil
}

func (s *Store) MarkDeleted(_ context.Context, userID domain.UserID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	rec.Deleted = true
	rec.UpdatedAt = at
	return nil
}

func (s *Store) MarkRewardAwarded(_ context.Context, userID domain.UserID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return false, dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	if rec.RewardAwarded {
		return false, nil
	}
	rec.RewardAwarded = true
	rec.UpdatedAt = at
	return true, nil
}

func (s *Store) ListAwaitingMaturity(_ context.Context, cutoff time.Time) ([]*models.VerificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.VerificationRecord
	for _, rec := range s.records {
		if rec.Status != models.StatusPending || rec.Deleted {
			continue
		}
		if !rec.EventItemsComplete() {
			continue
		}
		if rec.SignupDate.After(cutoff) {
			continue
		}
		out = append(out, clone(rec))
	}
	return out, nil
}

func ensureItem(rec *models.VerificationRecord, key domain.ItemKey) *models.ChecklistItem {
	if rec.Checklist == nil {
		rec.Checklist = make(map[domain.ItemKey]*models.ChecklistItem)
	}
	item, ok := rec.Checklist[key]
	if !ok || item == nil {
		item = &models.ChecklistItem{}
		rec.Checklist[key] = item
	}
	return item
}

func clone(rec *models.VerificationRecord) *models.VerificationRecord {
	out := *rec
	out.Checklist = make(map[domain.ItemKey]*models.ChecklistItem, len(rec.Checklist))
	for key, item := range rec.Checklist {
		if item == nil {
			continue
		}
		c := *item
		c.Partners = append([]string(nil), item.Partners...)
		if item.CompletedAt != nil {
			at := *item.CompletedAt
			c.CompletedAt = &at
		}
		out.Checklist[key] = &c
	}
	out.FraudFlags = append([]string(nil), rec.FraudFlags...)
	if rec.VerifiedAt != nil {
		at := *rec.VerifiedAt
		out.VerifiedAt = &at
	}
	if rec.BlockedAt != nil {
		at := *rec.BlockedAt
		out.BlockedAt = &at
	}
	return &out
}

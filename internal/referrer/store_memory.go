package referrer

import (
	"context"
	"sync"
	"time"

	"refguard/pkg/domain"
)

// InMemoryStore applies deltas under a mutex, mirroring the atomic-increment
// contract of the document store.
type InMemoryStore struct {
	mu    sync.Mutex
	stats map[domain.UserID]*Stats
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{stats: make(map[domain.UserID]*Stats)}
}

func (s *InMemoryStore) Apply(_ context.Context, referrerID domain.UserID, delta Delta) error {
	if delta.IsZero() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stats[referrerID]
	if !ok {
		st = &Stats{ReferrerID: referrerID}
		s.stats[referrerID] = st
	}
	st.TotalReferred += delta.Referred
	st.TotalVerified += delta.Verified
	st.PendingVerifications += delta.Pending
	st.BlockedReferrals += delta.Blocked
	st.TotalPaidConversions += delta.PaidConversions
	st.UpdatedAt = time.Now()
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, referrerID domain.UserID) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.stats[referrerID]; ok {
		copied := *st
		return &copied, nil
	}
	return &Stats{ReferrerID: referrerID}, nil
}

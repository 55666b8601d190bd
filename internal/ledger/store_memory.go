package ledger

import (
	"context"
	"sync"
	"time"

	verModels "refguard/internal/verification/models"
	"refguard/pkg/domain"
)

// InMemoryStore keeps tracked actions per user. Used by unit tests and by
// local runs without a datastore.
type InMemoryStore struct {
	mu      sync.Mutex
	actions map[domain.UserID]map[domain.ActionID]verModels.TrackedAction
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{
		actions: make(map[domain.UserID]map[domain.ActionID]verModels.TrackedAction),
	}
}

func (s *InMemoryStore) WasCounted(_ context.Context, userID domain.UserID, actionID domain.ActionID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.actions[userID][actionID]
	return ok, nil
}

func (s *InMemoryStore) MarkCounted(_ context.Context, userID domain.UserID, actionType domain.ItemKey, actionID domain.ActionID) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byAction, ok := s.actions[userID]
	if !ok {
		byAction = make(map[domain.ActionID]verModels.TrackedAction)
		s.actions[userID] = byAction
	}

	counted := false
	if _, exists := byAction[actionID]; !exists {
		byAction[actionID] = verModels.TrackedAction{
			UserID:     userID,
			ActionID:   actionID,
			ActionType: actionType,
			CountedAt:  time.Now(),
		}
		counted = true
	}

	return counted, s.countLocked(userID, actionType), nil
}

func (s *InMemoryStore) CountByType(_ context.Context, userID domain.UserID, actionType domain.ItemKey) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked(userID, actionType), nil
}

func (s *InMemoryStore) countLocked(userID domain.UserID, actionType domain.ItemKey) int {
	n := 0
	for _, action := range s.actions[userID] {
		if action.ActionType == actionType {
			n++
		}
	}
	return n
}

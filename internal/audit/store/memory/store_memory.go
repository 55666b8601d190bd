package memory

import (
	"context"
	"sync"

	"refguard/internal/audit"
	"refguard/pkg/domain"
)

// Store keeps audit events in memory. Used in tests and in local runs
// without the postgres outbox configured.
type Store struct {
	mu     sync.Mutex
	events []audit.Event
}

func New() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *Store) ListByUser(_ context.Context, userID domain.UserID) ([]audit.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []audit.Event
	for _, e := range s.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// All returns every event in append order; test helper.
func (s *Store) All() []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Event(nil), s.events...)
}

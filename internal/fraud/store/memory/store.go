// Package memory provides an in-memory fraud.ActivityReader for tests and
// local development.
package memory

import (
	"context"
	"sync"

	"refguard/internal/fraud"
	"refguard/pkg/domain"
)

// Store is an in-memory activity reader. Populate it with the Add* setters.
type Store struct {
	mu           sync.RWMutex
	posts        map[domain.UserID][]fraud.Post
	messages     map[domain.UserID][]fraud.Message
	interactions map[domain.UserID][]fraud.Interaction
	devices      map[domain.UserID][]string
	emails       map[domain.UserID]string
}

// NewStore creates an empty in-memory activity reader.
func NewStore() *Store {
	return &Store{
		posts:        make(map[domain.UserID][]fraud.Post),
		messages:     make(map[domain.UserID][]fraud.Message),
		interactions: make(map[domain.UserID][]fraud.Interaction),
		devices:      make(map[domain.UserID][]string),
		emails:       make(map[domain.UserID]string),
	}
}

// AddPosts appends forum posts for a user.
func (s *Store) AddPosts(userID domain.UserID, posts ...fraud.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[userID] = append(s.posts[userID], posts...)
}

// AddMessages appends group messages for a user.
func (s *Store) AddMessages(userID domain.UserID, messages ...fraud.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[userID] = append(s.messages[userID], messages...)
}

// AddInteractions appends interactions for a user.
func (s *Store) AddInteractions(userID domain.UserID, interactions ...fraud.Interaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions[userID] = append(s.interactions[userID], interactions...)
}

// SetProfile sets a user's devices and email.
func (s *Store) SetProfile(userID domain.UserID, email string, devices ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails[userID] = email
	s.devices[userID] = devices
}

func (s *Store) Posts(_ context.Context, userID domain.UserID) ([]fraud.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]fraud.Post(nil), s.posts[userID]...), nil
}

func (s *Store) Messages(_ context.Context, userID domain.UserID) ([]fraud.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]fraud.Message(nil), s.messages[userID]...), nil
}

func (s *Store) Interactions(_ context.Context, userID domain.UserID) ([]fraud.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]fraud.Interaction(nil), s.interactions[userID]...), nil
}

func (s *Store) Devices(_ context.Context, userID domain.UserID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.devices[userID]...), nil
}

func (s *Store) Email(_ context.Context, userID domain.UserID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emails[userID], nil
}

package auth

import (
	"context"
	"strings"
	"sync"

	id "presensi/pkg/domain"
	"presensi/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[id.UserID]User
	byEmail map[string]id.UserID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[id.UserID]User),
		byEmail: make(map[string]id.UserID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(user.Email)
	if _, ok := s.byEmail[email]; ok {
		return sentinel.ErrConflict
	}
	s.byID[user.ID] = user
	s.byEmail[email] = user.ID
	return nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return User{}, sentinel.ErrNotFound
	}
	return s.byID[userID], nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byID[userID]
	if !ok {
		return User{}, sentinel.ErrNotFound
	}
	return user, nil
}

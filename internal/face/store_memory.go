package face

import (
	"context"
	"sync"

	id "presensi/pkg/domain"
	"presensi/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu         sync.RWMutex
	identities map[id.UserID]Identity
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{identities: make(map[id.UserID]Identity)}
}

func (s *InMemoryStore) Save(_ context.Context, identity Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity.Embedding = append([]float32(nil), identity.Embedding...)
	s.identities[identity.UserID] = identity
	return nil
}

func (s *InMemoryStore) FindByUser(_ context.Context, userID id.UserID) (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.identities[userID]
	if !ok {
		return Identity{}, sentinel.ErrNotFound
	}
	return identity, nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Identity, 0, len(s.identities))
	for _, identity := range s.identities {
		out = append(out, identity)
	}
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[userID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.identities, userID)
	return nil
}

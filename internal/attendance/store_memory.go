package attendance

import (
	"context"
	"sort"
	"sync"

	id "presensi/pkg/domain"
	"presensi/pkg/platform/sentinel"
)

type recordKey struct {
	userID id.UserID
	date   string
}

type InMemoryStore struct {
	mu      sync.RWMutex
	records map[recordKey]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[recordKey]Record)}
}

func (s *InMemoryStore) Create(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := recordKey{record.UserID, record.Date}
	if _, ok := s.records[key]; ok {
		return sentinel.ErrConflict
	}
	s.records[key] = record
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := recordKey{record.UserID, record.Date}
	if _, ok := s.records[key]; !ok {
		return sentinel.ErrNotFound
	}
	s.records[key] = record
	return nil
}

func (s *InMemoryStore) FindByUserAndDate(_ context.Context, userID id.UserID, date string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[recordKey{userID, date}]
	if !ok {
		return Record{}, sentinel.ErrNotFound
	}
	return record, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for key, record := range s.records {
		if key.userID == userID {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

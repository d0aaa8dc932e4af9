package roster

import (
	"context"
	"sync"

	id "presensi/pkg/domain"
	"presensi/pkg/platform/sentinel"
)

type InMemoryShiftStore struct {
	mu     sync.RWMutex
	shifts map[id.ShiftID]Shift
}

func NewInMemoryShiftStore() *InMemoryShiftStore {
	return &InMemoryShiftStore{shifts: make(map[id.ShiftID]Shift)}
}

func (s *InMemoryShiftStore) Create(_ context.Context, shift Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shifts[shift.ID]; ok {
		return sentinel.ErrConflict
	}
	s.shifts[shift.ID] = shift
	return nil
}

func (s *InMemoryShiftStore) FindByID(_ context.Context, shiftID id.ShiftID) (Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	shift, ok := s.shifts[shiftID]
	if !ok {
		return Shift{}, sentinel.ErrNotFound
	}
	return shift, nil
}

func (s *InMemoryShiftStore) List(_ context.Context) ([]Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Shift, 0, len(s.shifts))
	for _, shift := range s.shifts {
		out = append(out, shift)
	}
	return out, nil
}

type assignmentKey struct {
	userID id.UserID
	date   string
}

type InMemoryAssignmentStore struct {
	mu          sync.RWMutex
	assignments map[assignmentKey]ShiftAssignment
}

func NewInMemoryAssignmentStore() *InMemoryAssignmentStore {
	return &InMemoryAssignmentStore{assignments: make(map[assignmentKey]ShiftAssignment)}
}

func (s *InMemoryAssignmentStore) Upsert(_ context.Context, assignment ShiftAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[assignmentKey{assignment.UserID, assignment.Date}] = assignment
	return nil
}

func (s *InMemoryAssignmentStore) FindByUserAndDate(_ context.Context, userID id.UserID, date string) (ShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	assignment, ok := s.assignments[assignmentKey{userID, date}]
	if !ok {
		return ShiftAssignment{}, sentinel.ErrNotFound
	}
	return assignment, nil
}

type InMemoryLocationStore struct {
	mu        sync.RWMutex
	locations map[id.LocationID]OfficeLocation
}

func NewInMemoryLocationStore() *InMemoryLocationStore {
	return &InMemoryLocationStore{locations: make(map[id.LocationID]OfficeLocation)}
}

func (s *InMemoryLocationStore) Create(_ context.Context, location OfficeLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[location.ID]; ok {
		return sentinel.ErrConflict
	}
	s.locations[location.ID] = location
	return nil
}

func (s *InMemoryLocationStore) Update(_ context.Context, location OfficeLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[location.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.locations[location.ID] = location
	return nil
}

func (s *InMemoryLocationStore) FindByID(_ context.Context, locationID id.LocationID) (OfficeLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	location, ok := s.locations[locationID]
	if !ok {
		return OfficeLocation{}, sentinel.ErrNotFound
	}
	return location, nil
}

func (s *InMemoryLocationStore) List(_ context.Context) ([]OfficeLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]OfficeLocation, 0, len(s.locations))
	for _, location := range s.locations {
		out = append(out, location)
	}
	return out, nil
}

func (s *InMemoryLocationStore) ListActive(_ context.Context) ([]OfficeLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []OfficeLocation
	for _, location := range s.locations {
		if location.Active {
			out = append(out, location)
		}
	}
	return out, nil
}

package roster_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"presensi/internal/roster"
	"presensi/internal/shiftwindow"
	id "presensi/pkg/domain"
	dErrors "presensi/pkg/domain-errors"
	"presensi/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite

	shifts      *roster.InMemoryShiftStore
	assignments *roster.InMemoryAssignmentStore
	locations   *roster.InMemoryLocationStore
	service     *roster.Service

	ctx context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.shifts = roster.NewInMemoryShiftStore()
	s.assignments = roster.NewInMemoryAssignmentStore()
	s.locations = roster.NewInMemoryLocationStore()
	s.service = roster.NewService(s.shifts, s.assignments, s.locations,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.ctx = requestcontext.WithTime(context.Background(),
		time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC))
}

func (s *ServiceSuite) TestCreateShift() {
	s.Run("valid day shift", func() {
		shift, err := s.service.CreateShift(s.ctx, "Morning", 480, 960, 15)
		s.Require().NoError(err)
		s.False(shift.ID.IsZero())
		s.Equal(480, shift.StartMinute)
	})

	s.Run("valid overnight shift", func() {
		shift, err := s.service.CreateShift(s.ctx, "Night", 1380, 300, 10)
		s.Require().NoError(err)
		s.True(shiftwindow.IsOvernight(shift.Window()))
	})

	s.Run("zero-length shift rejected", func() {
		_, err := s.service.CreateShift(s.ctx, "Broken", 480, 480, 15)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.ErrorIs(err, shiftwindow.ErrZeroLengthShift)
	})

	s.Run("out-of-range minutes rejected", func() {
		_, err := s.service.CreateShift(s.ctx, "Broken", -1, 960, 15)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.CreateShift(s.ctx, "Broken", 480, 1440, 15)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("missing name rejected", func() {
		_, err := s.service.CreateShift(s.ctx, "", 480, 960, 15)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestAssignShift() {
	shift, err := s.service.CreateShift(s.ctx, "Morning", 480, 960, 15)
	s.Require().NoError(err)
	other, err := s.service.CreateShift(s.ctx, "Evening", 960, 1380, 15)
	s.Require().NoError(err)
	userID := id.NewUserID()

	s.Run("assigns a shift for a date", func() {
		assignment, err := s.service.AssignShift(s.ctx, userID, "2025-03-15", shift.ID)
		s.Require().NoError(err)
		s.Equal(shift.ID, assignment.ShiftID)
	})

	s.Run("reassignment replaces the existing shift", func() {
		_, err := s.service.AssignShift(s.ctx, userID, "2025-03-15", other.ID)
		s.Require().NoError(err)

		got, err := s.assignments.FindByUserAndDate(s.ctx, userID, "2025-03-15")
		s.Require().NoError(err)
		s.Equal(other.ID, got.ShiftID)
	})

	s.Run("unknown shift rejected", func() {
		_, err := s.service.AssignShift(s.ctx, userID, "2025-03-15", id.NewShiftID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("malformed date rejected", func() {
		_, err := s.service.AssignShift(s.ctx, userID, "15-03-2025", shift.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestLocations() {
	s.Run("create and list", func() {
		location, err := s.service.CreateLocation(s.ctx, "HQ", -6.2, 106.8, 100)
		s.Require().NoError(err)
		s.True(location.Active)

		active, err := s.locations.ListActive(s.ctx)
		s.Require().NoError(err)
		s.Len(active, 1)
	})

	s.Run("deactivated location leaves matching", func() {
		location, err := s.service.CreateLocation(s.ctx, "Branch", -6.3, 106.9, 50)
		s.Require().NoError(err)

		s.Require().NoError(s.service.DeactivateLocation(s.ctx, location.ID))

		active, err := s.locations.ListActive(s.ctx)
		s.Require().NoError(err)
		for _, l := range active {
			s.NotEqual(location.ID, l.ID)
		}

		all, err := s.service.ListLocations(s.ctx)
		s.Require().NoError(err)
		found := false
		for _, l := range all {
			if l.ID == location.ID {
				found = true
				s.False(l.Active)
			}
		}
		s.True(found, "deactivated location is kept for history")
	})

	s.Run("update changes geometry", func() {
		location, err := s.service.CreateLocation(s.ctx, "Depot", -6.4, 107.0, 75)
		s.Require().NoError(err)

		updated, err := s.service.UpdateLocation(s.ctx, location.ID, "Depot", -6.41, 107.01, 120)
		s.Require().NoError(err)
		s.Equal(120.0, updated.RadiusMeters)
	})

	s.Run("invalid geometry rejected", func() {
		_, err := s.service.CreateLocation(s.ctx, "Bad", 91, 0, 100)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.CreateLocation(s.ctx, "Bad", 0, -181, 100)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.CreateLocation(s.ctx, "Bad", 0, 0, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

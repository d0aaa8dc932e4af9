//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks LiveExtractor,AuditPublisher
package attendance_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"presensi/internal/attendance"
	"presensi/internal/attendance/mocks"
	"presensi/internal/face"
	"presensi/internal/roster"
	id "presensi/pkg/domain"
	"presensi/pkg/platform/sentinel"
	"presensi/pkg/requestcontext"
)

var wib = time.FixedZone("WIB", 7*3600)

const (
	officeLat = -6.2000
	officeLng = 106.8000
)

type ServiceSuite struct {
	suite.Suite

	ctrl      *gomock.Controller
	records   *attendance.InMemoryStore
	locations *roster.InMemoryLocationStore
	shifts    *roster.InMemoryShiftStore
	schedule  *roster.InMemoryAssignmentStore
	faces     *face.InMemoryStore
	extractor *mocks.MockLiveExtractor
	service   *attendance.Service

	userID     id.UserID
	dayShift   roster.Shift
	nightShift roster.Shift
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.records = attendance.NewInMemoryStore()
	s.locations = roster.NewInMemoryLocationStore()
	s.shifts = roster.NewInMemoryShiftStore()
	s.schedule = roster.NewInMemoryAssignmentStore()
	s.faces = face.NewInMemoryStore()
	s.extractor = mocks.NewMockLiveExtractor(s.ctrl)

	auditor := mocks.NewMockAuditPublisher(s.ctrl)
	auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).AnyTimes()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = attendance.NewService(
		s.records, s.locations, s.schedule, s.shifts, s.faces,
		s.extractor, face.NewMatcher(0.5, 0.6, logger),
		nil, auditor, nil, logger)

	s.userID = id.NewUserID()
	ctx := context.Background()

	s.Require().NoError(s.locations.Create(ctx, roster.OfficeLocation{
		ID: id.NewLocationID(), Name: "HQ",
		Latitude: officeLat, Longitude: officeLng,
		RadiusMeters: 100, Active: true,
	}))

	s.dayShift = roster.Shift{
		ID: id.NewShiftID(), Name: "Morning",
		StartMinute: 8 * 60, EndMinute: 16 * 60, LateToleranceMinutes: 15,
	}
	s.nightShift = roster.Shift{
		ID: id.NewShiftID(), Name: "Night",
		StartMinute: 23 * 60, EndMinute: 5 * 60, LateToleranceMinutes: 10,
	}
	s.Require().NoError(s.shifts.Create(ctx, s.dayShift))
	s.Require().NoError(s.shifts.Create(ctx, s.nightShift))
}

func (s *ServiceSuite) at(day int, clock string) context.Context {
	var h, m int
	_, err := fmt.Sscanf(clock, "%d:%d", &h, &m)
	s.Require().NoError(err)
	now := time.Date(2025, 3, day, h, m, 0, 0, wib)
	return requestcontext.WithTime(context.Background(), now)
}

func (s *ServiceSuite) assign(shiftID id.ShiftID, date string) {
	s.Require().NoError(s.schedule.Upsert(context.Background(), roster.ShiftAssignment{
		UserID: s.userID, Date: date, ShiftID: shiftID,
	}))
}

func (s *ServiceSuite) inside() attendance.Coordinate {
	return attendance.Coordinate{Latitude: officeLat, Longitude: officeLng}
}

func (s *ServiceSuite) TestCheckIn_DayShift() {
	s.assign(s.dayShift.ID, "2025-03-15")

	s.Run("on time inside zone", func() {
		decision, err := s.service.CheckIn(s.at(15, "07:50"), s.userID, s.inside(), "")
		s.Require().NoError(err)
		s.Require().True(decision.Accepted)
		s.Equal(attendance.StatusPresent, decision.Record.Status)
		s.Equal("2025-03-15", decision.Record.Date)
		s.False(decision.Record.CheckInVerified)
	})

	s.Run("second check-in rejected", func() {
		decision, err := s.service.CheckIn(s.at(15, "08:05"), s.userID, s.inside(), "")
		s.Require().NoError(err)
		s.False(decision.Accepted)
		s.Equal(attendance.ReasonAlreadyCheckedIn, decision.Reason)
	})
}

func (s *ServiceSuite) TestCheckIn_WindowBoundaries() {
	s.assign(s.dayShift.ID, "2025-03-15")

	cases := []struct {
		clock      string
		accepted   bool
		wantStatus attendance.Status
	}{
		{"07:45", true, attendance.StatusPresent},
		{"08:15", true, attendance.StatusPresent},
		{"08:16", true, attendance.StatusLate},
		{"09:30", false, ""},
	}
	for _, tc := range cases {
		s.Run(tc.clock, func() {
			s.records = attendance.NewInMemoryStore()
			s.rebuildService()

			decision, err := s.service.CheckIn(s.at(15, tc.clock), s.userID, s.inside(), "")
			s.Require().NoError(err)
			s.Equal(tc.accepted, decision.Accepted)
			if tc.accepted {
				s.Equal(tc.wantStatus, decision.Record.Status)
			} else {
				s.Equal(attendance.ReasonOutsideWindow, decision.Reason)
				s.Contains(decision.Details["allowed_window"], "07:45")
			}
		})
	}
}

func (s *ServiceSuite) TestCheckIn_NightShift() {
	s.assign(s.nightShift.ID, "2025-03-15")

	s.Run("early arrival before midnight", func() {
		decision, err := s.service.CheckIn(s.at(15, "22:50"), s.userID, s.inside(), "")
		s.Require().NoError(err)
		s.Require().True(decision.Accepted)
		s.Equal(attendance.StatusPresent, decision.Record.Status)
		s.Equal("2025-03-15", decision.Record.Date)
	})

	s.Run("late arrival past tolerance", func() {
		s.records = attendance.NewInMemoryStore()
		s.rebuildService()

		decision, err := s.service.CheckIn(s.at(15, "23:11"), s.userID, s.inside(), "")
		s.Require().NoError(err)
		s.Require().True(decision.Accepted)
		s.Equal(attendance.StatusLate, decision.Record.Status)
	})
}

func (s *ServiceSuite) TestNightShift_PostMidnightBelongsToPreviousDay() {
	s.assign(s.nightShift.ID, "2025-03-15")

	decision, err := s.service.CheckIn(s.at(15, "23:05"), s.userID, s.inside(), "")
	s.Require().NoError(err)
	s.Require().True(decision.Accepted)

	// At 05:00 the next morning the shift's record is still keyed under the
	// 15th.
	out, err := s.service.CheckOut(s.at(16, "05:00"), s.userID, s.inside(), "")
	s.Require().NoError(err)
	s.Require().True(out.Accepted)
	s.Equal("2025-03-15", out.Record.Date)
	s.NotNil(out.Record.CheckOutTime)
	s.Equal(attendance.StatusPresent, out.Record.Status)
}

func (s *ServiceSuite) TestCheckIn_NoSchedule() {
	decision, err := s.service.CheckIn(s.at(15, "08:00"), s.userID, s.inside(), "")
	s.Require().NoError(err)
	s.False(decision.Accepted)
	s.Equal(attendance.ReasonNoSchedule, decision.Reason)
}

func (s *ServiceSuite) TestCheckIn_NoActiveLocations() {
	s.assign(s.dayShift.ID, "2025-03-15")
	locations, err := s.locations.ListActive(context.Background())
	s.Require().NoError(err)
	for _, location := range locations {
		location.Active = false
		s.Require().NoError(s.locations.Update(context.Background(), location))
	}

	decision, err := s.service.CheckIn(s.at(15, "08:00"), s.userID, s.inside(), "")
	s.Require().NoError(err)
	s.False(decision.Accepted)
	s.Equal(attendance.ReasonNoActiveLocations, decision.Reason)
}

func (s *ServiceSuite) TestCheckIn_OutsideGeofence() {
	s.assign(s.dayShift.ID, "2025-03-15")

	// Roughly 1.1 km south of the office.
	far := attendance.Coordinate{Latitude: officeLat - 0.01, Longitude: officeLng}
	decision, err := s.service.CheckIn(s.at(15, "08:00"), s.userID, far, "")
	s.Require().NoError(err)
	s.False(decision.Accepted)
	s.Equal(attendance.ReasonOutsideGeofence, decision.Reason)
	s.Equal("HQ", decision.Details["nearest_zone"])
	s.Greater(decision.Details["distance_meters"].(float64), 1000.0)
}

func (s *ServiceSuite) TestCheckIn_FaceVerification() {
	enrolled := []float32{1, 0, 0, 0}
	s.Require().NoError(s.faces.Save(context.Background(), face.Identity{
		UserID: s.userID, Embedding: enrolled,
	}))
	s.assign(s.dayShift.ID, "2025-03-15")

	s.Run("matching face is recorded as verified", func() {
		s.extractor.EXPECT().ExtractLive(gomock.Any(), "img").
			Return(face.EmbeddingResult{Embedding: []float32{0.99, 0.01, 0, 0}}, nil)

		decision, err := s.service.CheckIn(s.at(15, "08:00"), s.userID, s.inside(), "img")
		s.Require().NoError(err)
		s.Require().True(decision.Accepted)
		s.True(decision.Record.CheckInVerified)
		s.NotNil(decision.Record.CheckInSimilarity)
		s.Greater(*decision.Record.CheckInSimilarity, 0.5)
	})

	s.Run("mismatch blocks the event and persists nothing", func() {
		s.records = attendance.NewInMemoryStore()
		s.rebuildService()
		s.extractor.EXPECT().ExtractLive(gomock.Any(), "img").
			Return(face.EmbeddingResult{Embedding: []float32{-1, 0, 0, 0}}, nil)

		decision, err := s.service.CheckIn(s.at(15, "08:00"), s.userID, s.inside(), "img")
		s.Require().NoError(err)
		s.False(decision.Accepted)
		s.Equal(attendance.ReasonFaceMismatch, decision.Reason)

		_, err = s.records.FindByUserAndDate(context.Background(), s.userID, "2025-03-15")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("remote failure fails closed", func() {
		s.records = attendance.NewInMemoryStore()
		s.rebuildService()
		s.extractor.EXPECT().ExtractLive(gomock.Any(), "img").
			Return(face.EmbeddingResult{}, fmt.Errorf("face service: %w", sentinel.ErrUnavailable))

		decision, err := s.service.CheckIn(s.at(15, "08:00"), s.userID, s.inside(), "img")
		s.Require().NoError(err)
		s.False(decision.Accepted)
		s.Equal(attendance.ReasonFaceUnavailable, decision.Reason)
	})

	s.Run("enrolled user without capture is accepted unverified", func() {
		s.records = attendance.NewInMemoryStore()
		s.rebuildService()

		decision, err := s.service.CheckIn(s.at(15, "08:00"), s.userID, s.inside(), "")
		s.Require().NoError(err)
		s.Require().True(decision.Accepted)
		s.False(decision.Record.CheckInVerified)
		s.Nil(decision.Record.CheckInSimilarity)
	})
}

func (s *ServiceSuite) TestCheckIn_ConflictOnInsertTranslated() {
	s.assign(s.dayShift.ID, "2025-03-15")
	s.service = s.buildService(&conflictingStore{InMemoryStore: attendance.NewInMemoryStore()})

	decision, err := s.service.CheckIn(s.at(15, "08:00"), s.userID, s.inside(), "")
	s.Require().NoError(err)
	s.False(decision.Accepted)
	s.Equal(attendance.ReasonAlreadyCheckedIn, decision.Reason)
}

func (s *ServiceSuite) TestCheckOut() {
	s.assign(s.dayShift.ID, "2025-03-15")

	s.Run("before check-in rejected", func() {
		decision, err := s.service.CheckOut(s.at(15, "16:10"), s.userID, s.inside(), "")
		s.Require().NoError(err)
		s.False(decision.Accepted)
		s.Equal(attendance.ReasonNotCheckedIn, decision.Reason)
	})

	s.Run("full day round trip keeps late status", func() {
		checkIn, err := s.service.CheckIn(s.at(15, "08:20"), s.userID, s.inside(), "")
		s.Require().NoError(err)
		s.Require().True(checkIn.Accepted)
		s.Equal(attendance.StatusLate, checkIn.Record.Status)

		checkOut, err := s.service.CheckOut(s.at(15, "16:10"), s.userID, s.inside(), "")
		s.Require().NoError(err)
		s.Require().True(checkOut.Accepted)
		s.Equal(attendance.StatusLate, checkOut.Record.Status)
	})

	s.Run("second check-out rejected", func() {
		decision, err := s.service.CheckOut(s.at(15, "16:30"), s.userID, s.inside(), "")
		s.Require().NoError(err)
		s.False(decision.Accepted)
		s.Equal(attendance.ReasonAlreadyCheckedOut, decision.Reason)
	})

	s.Run("too late to check out", func() {
		other := id.NewUserID()
		s.Require().NoError(s.schedule.Upsert(context.Background(), roster.ShiftAssignment{
			UserID: other, Date: "2025-03-15", ShiftID: s.dayShift.ID,
		}))
		checkIn, err := s.service.CheckIn(s.at(15, "08:00"), other, s.inside(), "")
		s.Require().NoError(err)
		s.Require().True(checkIn.Accepted)

		decision, err := s.service.CheckOut(s.at(15, "17:01"), other, s.inside(), "")
		s.Require().NoError(err)
		s.False(decision.Accepted)
		s.Equal(attendance.ReasonOutsideWindow, decision.Reason)
		s.Contains(decision.Details["allowed_window"], "16:00")
	})
}

func (s *ServiceSuite) TestTodayStatus() {
	s.assign(s.dayShift.ID, "2025-03-15")

	status, err := s.service.TodayStatus(s.at(15, "07:00"), s.userID)
	s.Require().NoError(err)
	s.False(status.CheckedIn)
	s.Equal("2025-03-15", status.Date)

	decision, err := s.service.CheckIn(s.at(15, "08:00"), s.userID, s.inside(), "")
	s.Require().NoError(err)
	s.Require().True(decision.Accepted)

	status, err = s.service.TodayStatus(s.at(15, "09:00"), s.userID)
	s.Require().NoError(err)
	s.True(status.CheckedIn)
	s.False(status.CheckedOut)
	s.Equal(attendance.StatusPresent, status.Status)
	s.NotNil(status.CheckInTime)
}

func (s *ServiceSuite) TestHistory() {
	s.assign(s.dayShift.ID, "2025-03-15")
	decision, err := s.service.CheckIn(s.at(15, "08:00"), s.userID, s.inside(), "")
	s.Require().NoError(err)
	s.Require().True(decision.Accepted)

	records, err := s.service.History(context.Background(), s.userID, 10)
	s.Require().NoError(err)
	s.Len(records, 1)
	s.Equal("2025-03-15", records[0].Date)
}

func (s *ServiceSuite) rebuildService() {
	s.service = s.buildService(s.records)
}

func (s *ServiceSuite) buildService(records attendance.RecordStore) *attendance.Service {
	auditor := mocks.NewMockAuditPublisher(s.ctrl)
	auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).AnyTimes()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return attendance.NewService(
		records, s.locations, s.schedule, s.shifts, s.faces,
		s.extractor, face.NewMatcher(0.5, 0.6, logger),
		nil, auditor, nil, logger)
}

// conflictingStore simulates losing the (user_id, date) uniqueness race: the
// pre-write read sees nothing, the insert hits the constraint.
type conflictingStore struct {
	*attendance.InMemoryStore
}

func (s *conflictingStore) Create(context.Context, attendance.Record) error {
	return sentinel.ErrConflict
}

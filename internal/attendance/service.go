package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"presensi/internal/attendance/metrics"
	"presensi/internal/audit"
	"presensi/internal/face"
	"presensi/internal/geofence"
	"presensi/internal/roster"
	"presensi/internal/shiftwindow"
	id "presensi/pkg/domain"
	dErrors "presensi/pkg/domain-errors"
	"presensi/pkg/platform/sentinel"
	"presensi/pkg/requestcontext"
)

// Read-only slices of the roster and face contexts the engine depends on.
// Declared here so tests and wiring can substitute any implementation.
type LocationSource interface {
	ListActive(ctx context.Context) ([]roster.OfficeLocation, error)
}

type AssignmentSource interface {
	FindByUserAndDate(ctx context.Context, userID id.UserID, date string) (roster.ShiftAssignment, error)
}

type ShiftSource interface {
	FindByID(ctx context.Context, shiftID id.ShiftID) (roster.Shift, error)
}

type IdentitySource interface {
	FindByUser(ctx context.Context, userID id.UserID) (face.Identity, error)
}

// LiveExtractor turns a live capture into an embedding via the remote model
// service.
type LiveExtractor interface {
	ExtractLive(ctx context.Context, imageBase64 string) (face.EmbeddingResult, error)
}

// AuditPublisher records decision outcomes.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

const (
	opCheckIn  = "check_in"
	opCheckOut = "check_out"
)

// Service is the attendance decision engine. Each call gathers evidence,
// runs the rule sequence in a fixed order, and persists at most one record
// mutation. Rejections are Decisions, not errors; errors mean the decision
// could not be made at all.
type Service struct {
	records     RecordStore
	locations   LocationSource
	assignments AssignmentSource
	shifts      ShiftSource
	identities  IdentitySource
	extractor   LiveExtractor
	matcher     *face.Matcher
	cache       *StatusCache
	auditor     AuditPublisher
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	logger      *slog.Logger
}

func NewService(
	records RecordStore,
	locations LocationSource,
	assignments AssignmentSource,
	shifts ShiftSource,
	identities IdentitySource,
	extractor LiveExtractor,
	matcher *face.Matcher,
	cache *StatusCache,
	auditor AuditPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		records:     records,
		locations:   locations,
		assignments: assignments,
		shifts:      shifts,
		identities:  identities,
		extractor:   extractor,
		matcher:     matcher,
		cache:       cache,
		auditor:     auditor,
		metrics:     m,
		tracer:      otel.Tracer("presensi/attendance"),
		logger:      logger,
	}
}

// CheckIn decides whether the user may start attendance at now and, on
// acceptance, creates the day's record.
func (s *Service) CheckIn(ctx context.Context, userID id.UserID, coord Coordinate, liveImage string) (Decision, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.CheckIn")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveDecideLatency(opCheckIn, time.Since(start)) }()

	now := requestcontext.Now(ctx)
	evidence, err := s.gatherEvidence(ctx, userID, now)
	if err != nil {
		return Decision{}, fmt.Errorf("gather evidence: %w", err)
	}

	if evidence.schedule == nil {
		return s.reject(ctx, span, userID, opCheckIn,
			ReasonNoSchedule, "no shift scheduled for today", nil), nil
	}
	shift := evidence.schedule.shift
	date := evidence.schedule.date

	if _, err := s.records.FindByUserAndDate(ctx, userID, date); err == nil {
		return s.reject(ctx, span, userID, opCheckIn,
			ReasonAlreadyCheckedIn, "attendance already recorded for today", nil), nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return Decision{}, fmt.Errorf("find record: %w", err)
	}

	decision, ok, err := s.checkGeofence(ctx, span, userID, opCheckIn, coord, evidence.zones)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return decision, nil
	}

	verdict, err := shiftwindow.ClassifyCheckIn(shift.Window(), shiftwindow.MinuteOfDay(now))
	if err != nil {
		return Decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "shift configuration is invalid")
	}
	if !verdict.OnWindow {
		window := shiftwindow.CheckInWindow(shift.Window())
		return s.reject(ctx, span, userID, opCheckIn,
			ReasonOutsideWindow, "outside the allowed check-in window",
			map[string]any{"allowed_window": window.String()}), nil
	}

	verified, similarity, decision, ok := s.verifyFace(ctx, span, userID, opCheckIn, evidence.identity, liveImage)
	if !ok {
		return decision, nil
	}

	status := StatusPresent
	if verdict.Late {
		status = StatusLate
	}
	record := Record{
		ID:               id.NewRecordID(),
		UserID:           userID,
		Date:             date,
		ShiftID:          shift.ID,
		CheckInTime:      now,
		CheckInLatitude:  coord.Latitude,
		CheckInLongitude: coord.Longitude,
		CheckInVerified:  verified,
		CheckInSimilarity: similarity,
		Status:           status,
	}
	if err := s.records.Create(ctx, record); err != nil {
		// A concurrent duplicate lost the race at the uniqueness index.
		if errors.Is(err, sentinel.ErrConflict) {
			return s.reject(ctx, span, userID, opCheckIn,
				ReasonAlreadyCheckedIn, "attendance already recorded for today", nil), nil
		}
		return Decision{}, fmt.Errorf("create record: %w", err)
	}

	s.cache.Invalidate(ctx, userID, date)
	s.accept(ctx, span, userID, opCheckIn, string(status))
	return Decision{Accepted: true, Record: &record}, nil
}

// CheckOut decides whether the user may close attendance at now and, on
// acceptance, completes the day's record. Status is fixed at check-in and
// never revisited here.
func (s *Service) CheckOut(ctx context.Context, userID id.UserID, coord Coordinate, liveImage string) (Decision, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.CheckOut")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveDecideLatency(opCheckOut, time.Since(start)) }()

	now := requestcontext.Now(ctx)
	evidence, err := s.gatherEvidence(ctx, userID, now)
	if err != nil {
		return Decision{}, fmt.Errorf("gather evidence: %w", err)
	}

	if evidence.schedule == nil {
		return s.reject(ctx, span, userID, opCheckOut,
			ReasonNoSchedule, "no shift scheduled for today", nil), nil
	}
	shift := evidence.schedule.shift
	date := evidence.schedule.date

	record, err := s.records.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return s.reject(ctx, span, userID, opCheckOut,
				ReasonNotCheckedIn, "no check-in recorded for today", nil), nil
		}
		return Decision{}, fmt.Errorf("find record: %w", err)
	}
	if record.CheckedOut() {
		return s.reject(ctx, span, userID, opCheckOut,
			ReasonAlreadyCheckedOut, "attendance already closed for today", nil), nil
	}

	decision, ok, err := s.checkGeofence(ctx, span, userID, opCheckOut, coord, evidence.zones)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return decision, nil
	}

	onWindow, err := shiftwindow.ClassifyCheckOut(shift.Window(), shiftwindow.MinuteOfDay(now))
	if err != nil {
		return Decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "shift configuration is invalid")
	}
	if !onWindow {
		window := shiftwindow.CheckOutWindow(shift.Window())
		return s.reject(ctx, span, userID, opCheckOut,
			ReasonOutsideWindow, "outside the allowed check-out window",
			map[string]any{"allowed_window": window.String()}), nil
	}

	verified, similarity, decision, ok := s.verifyFace(ctx, span, userID, opCheckOut, evidence.identity, liveImage)
	if !ok {
		return decision, nil
	}

	record.CheckOutTime = &now
	record.CheckOutLatitude = &coord.Latitude
	record.CheckOutLongitude = &coord.Longitude
	record.CheckOutVerified = verified
	record.CheckOutSimilarity = similarity
	if err := s.records.Update(ctx, record); err != nil {
		return Decision{}, fmt.Errorf("update record: %w", err)
	}

	s.cache.Invalidate(ctx, userID, date)
	s.accept(ctx, span, userID, opCheckOut, string(record.Status))
	return Decision{Accepted: true, Record: &record}, nil
}

// TodayStatus reports the state of today's record, serving cached entries
// when fresh.
func (s *Service) TodayStatus(ctx context.Context, userID id.UserID) (DayStatus, error) {
	now := requestcontext.Now(ctx)
	date := now.Format(roster.DateLayout)
	if schedule, err := s.resolveSchedule(ctx, userID, now); err == nil && schedule != nil {
		date = schedule.date
	}

	if status, ok := s.cache.Get(ctx, userID, date); ok {
		return status, nil
	}

	status := DayStatus{Date: date}
	record, err := s.records.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return DayStatus{}, fmt.Errorf("find record: %w", err)
		}
	} else {
		status.CheckedIn = true
		status.CheckedOut = record.CheckedOut()
		status.Status = record.Status
		checkIn := record.CheckInTime
		status.CheckInTime = &checkIn
		status.CheckOutTime = record.CheckOutTime
	}

	s.cache.Set(ctx, userID, status)
	return status, nil
}

// History lists the user's recent records, newest first.
func (s *Service) History(ctx context.Context, userID id.UserID, limit int) ([]Record, error) {
	return s.records.ListByUser(ctx, userID, limit)
}

// checkGeofence runs the location rules: no active zones is a configuration
// error reported distinctly from being outside every zone.
func (s *Service) checkGeofence(ctx context.Context, span trace.Span, userID id.UserID, operation string, coord Coordinate, zones []geofence.Zone) (Decision, bool, error) {
	if len(zones) == 0 {
		return s.reject(ctx, span, userID, operation,
			ReasonNoActiveLocations, "no active office locations are configured", nil), false, nil
	}

	result, err := geofence.Locate(coord.Latitude, coord.Longitude, zones)
	if err != nil {
		return Decision{}, false, err
	}
	if !result.Inside {
		details := map[string]any{}
		if result.NearestZone != nil {
			details["nearest_zone"] = result.NearestZone.Name
		}
		if result.DistanceMeters != nil {
			details["distance_meters"] = *result.DistanceMeters
		}
		return s.reject(ctx, span, userID, operation,
			ReasonOutsideGeofence, "outside every office zone", details), false, nil
	}
	return Decision{}, true, nil
}

// verifyFace applies the identity rule. Verification runs only when the user
// is enrolled and a live capture was supplied; a remote failure blocks the
// event (fail-closed) and is logged apart from a genuine mismatch.
func (s *Service) verifyFace(ctx context.Context, span trace.Span, userID id.UserID, operation string, identity *face.Identity, liveImage string) (bool, *float64, Decision, bool) {
	if identity == nil || len(identity.Embedding) == 0 {
		return false, nil, Decision{}, true
	}
	if liveImage == "" {
		s.logger.InfoContext(ctx, "enrolled user sent no live capture, skipping verification",
			"user_id", userID.String(), "operation", operation)
		return false, nil, Decision{}, true
	}

	start := time.Now()
	result, err := s.extractor.ExtractLive(ctx, liveImage)
	s.metrics.ObserveFaceVerifyLatency(time.Since(start))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			// The model service understood the image and found no usable
			// face in it.
			return false, nil, s.reject(ctx, span, userID, operation,
				ReasonFaceMismatch, "face could not be verified", nil), false
		}
		s.logger.ErrorContext(ctx, "face service unavailable, failing closed",
			"user_id", userID.String(), "operation", operation, "error", err)
		return false, nil, s.reject(ctx, span, userID, operation,
			ReasonFaceUnavailable, "face verification is temporarily unavailable", nil), false
	}

	verdict := s.matcher.Verify(result.Embedding, identity.Embedding)
	if !verdict.Verified {
		s.logger.WarnContext(ctx, "face mismatch",
			"user_id", userID.String(), "operation", operation,
			"similarity", verdict.Similarity)
		return false, nil, s.reject(ctx, span, userID, operation,
			ReasonFaceMismatch, "face does not match the enrolled template",
			map[string]any{"similarity": verdict.Similarity}), false
	}
	return true, &verdict.Similarity, Decision{}, true
}

func (s *Service) reject(ctx context.Context, span trace.Span, userID id.UserID, operation, reason, message string, details map[string]any) Decision {
	span.SetAttributes(
		attribute.String("attendance.outcome", "rejected"),
		attribute.String("attendance.reason", reason),
	)
	s.metrics.IncrementOutcome(operation, reason)
	s.emitAudit(ctx, userID, operation, audit.OutcomeRejected, reason)
	s.logger.InfoContext(ctx, "attendance rejected",
		"user_id", userID.String(), "operation", operation, "reason", reason)
	return rejection(reason, message, details)
}

func (s *Service) accept(ctx context.Context, span trace.Span, userID id.UserID, operation, status string) {
	span.SetAttributes(
		attribute.String("attendance.outcome", "accepted"),
		attribute.String("attendance.status", status),
	)
	s.metrics.IncrementOutcome(operation, "accepted")
	s.emitAudit(ctx, userID, operation, audit.OutcomeAccepted, "")
}

func (s *Service) emitAudit(ctx context.Context, userID id.UserID, operation, outcome, reason string) {
	if s.auditor == nil {
		return
	}
	action := audit.ActionCheckIn
	if operation == opCheckOut {
		action = audit.ActionCheckOut
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:  userID.String(),
		Action:  action,
		Outcome: outcome,
		Reason:  reason,
	})
}

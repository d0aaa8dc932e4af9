package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"presensi/internal/shiftwindow"
	id "presensi/pkg/domain"
	dErrors "presensi/pkg/domain-errors"
	"presensi/pkg/platform/sentinel"
	"presensi/pkg/requestcontext"
)

// Service owns roster mutations and their validation. Reads used by the
// attendance engine go straight to the stores.
type Service struct {
	shifts      ShiftStore
	assignments AssignmentStore
	locations   LocationStore
	logger      *slog.Logger
}

func NewService(shifts ShiftStore, assignments AssignmentStore, locations LocationStore, logger *slog.Logger) *Service {
	return &Service{
		shifts:      shifts,
		assignments: assignments,
		locations:   locations,
		logger:      logger,
	}
}

// CreateShift validates and stores a shift definition. Zero-length shifts are
// invalid configuration: a 24-hour shift cannot be expressed and is rejected
// here, before it can poison window classification.
func (s *Service) CreateShift(ctx context.Context, name string, startMinute, endMinute, toleranceMinutes int) (Shift, error) {
	if name == "" {
		return Shift{}, dErrors.New(dErrors.CodeValidation, "shift name is required")
	}
	if startMinute < 0 || startMinute > 1439 || endMinute < 0 || endMinute > 1439 {
		return Shift{}, dErrors.New(dErrors.CodeValidation, "shift minutes must be between 0 and 1439")
	}
	if startMinute == endMinute {
		return Shift{}, dErrors.Wrap(shiftwindow.ErrZeroLengthShift,
			dErrors.CodeValidation, "shift start and end must differ")
	}
	if toleranceMinutes < 0 {
		return Shift{}, dErrors.New(dErrors.CodeValidation, "late tolerance must not be negative")
	}

	shift := Shift{
		ID:                   id.NewShiftID(),
		Name:                 name,
		StartMinute:          startMinute,
		EndMinute:            endMinute,
		LateToleranceMinutes: toleranceMinutes,
		CreatedAt:            requestcontext.Now(ctx),
	}
	if err := s.shifts.Create(ctx, shift); err != nil {
		return Shift{}, fmt.Errorf("create shift: %w", err)
	}
	return shift, nil
}

func (s *Service) ListShifts(ctx context.Context) ([]Shift, error) {
	return s.shifts.List(ctx)
}

// AssignShift binds the user to a shift for one date, replacing any existing
// assignment for that date.
func (s *Service) AssignShift(ctx context.Context, userID id.UserID, date string, shiftID id.ShiftID) (ShiftAssignment, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return ShiftAssignment{}, dErrors.New(dErrors.CodeValidation, "date must be formatted YYYY-MM-DD")
	}
	if _, err := s.shifts.FindByID(ctx, shiftID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ShiftAssignment{}, dErrors.New(dErrors.CodeNotFound, "shift not found")
		}
		return ShiftAssignment{}, fmt.Errorf("find shift: %w", err)
	}

	assignment := ShiftAssignment{UserID: userID, Date: date, ShiftID: shiftID}
	if err := s.assignments.Upsert(ctx, assignment); err != nil {
		return ShiftAssignment{}, fmt.Errorf("assign shift: %w", err)
	}
	return assignment, nil
}

// CreateLocation validates and stores a geofenced site.
func (s *Service) CreateLocation(ctx context.Context, name string, latitude, longitude, radiusMeters float64) (OfficeLocation, error) {
	if err := validateLocation(name, latitude, longitude, radiusMeters); err != nil {
		return OfficeLocation{}, err
	}

	now := requestcontext.Now(ctx)
	location := OfficeLocation{
		ID:           id.NewLocationID(),
		Name:         name,
		Latitude:     latitude,
		Longitude:    longitude,
		RadiusMeters: radiusMeters,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.locations.Create(ctx, location); err != nil {
		return OfficeLocation{}, fmt.Errorf("create location: %w", err)
	}
	return location, nil
}

// UpdateLocation replaces the mutable fields of an existing site.
func (s *Service) UpdateLocation(ctx context.Context, locationID id.LocationID, name string, latitude, longitude, radiusMeters float64) (OfficeLocation, error) {
	if err := validateLocation(name, latitude, longitude, radiusMeters); err != nil {
		return OfficeLocation{}, err
	}

	location, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return OfficeLocation{}, dErrors.New(dErrors.CodeNotFound, "location not found")
		}
		return OfficeLocation{}, fmt.Errorf("find location: %w", err)
	}

	location.Name = name
	location.Latitude = latitude
	location.Longitude = longitude
	location.RadiusMeters = radiusMeters
	location.UpdatedAt = requestcontext.Now(ctx)
	if err := s.locations.Update(ctx, location); err != nil {
		return OfficeLocation{}, fmt.Errorf("update location: %w", err)
	}
	return location, nil
}

// DeactivateLocation removes the site from geofence matching while keeping
// its history.
func (s *Service) DeactivateLocation(ctx context.Context, locationID id.LocationID) error {
	location, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "location not found")
		}
		return fmt.Errorf("find location: %w", err)
	}
	if !location.Active {
		return nil
	}
	location.Active = false
	location.UpdatedAt = requestcontext.Now(ctx)
	if err := s.locations.Update(ctx, location); err != nil {
		return fmt.Errorf("deactivate location: %w", err)
	}
	return nil
}

func (s *Service) ListLocations(ctx context.Context) ([]OfficeLocation, error) {
	return s.locations.List(ctx)
}

func validateLocation(name string, latitude, longitude, radiusMeters float64) error {
	if name == "" {
		return dErrors.New(dErrors.CodeValidation, "location name is required")
	}
	if latitude < -90 || latitude > 90 {
		return dErrors.New(dErrors.CodeValidation, "latitude must be between -90 and 90")
	}
	if longitude < -180 || longitude > 180 {
		return dErrors.New(dErrors.CodeValidation, "longitude must be between -180 and 180")
	}
	if radiusMeters <= 0 {
		return dErrors.New(dErrors.CodeValidation, "radius must be positive")
	}
	return nil
}

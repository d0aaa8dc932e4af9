package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "presensi/pkg/domain"
	"presensi/pkg/platform/sentinel"
)

type PostgresShiftStore struct {
	db *sql.DB
}

func NewPostgresShiftStore(db *sql.DB) *PostgresShiftStore {
	return &PostgresShiftStore{db: db}
}

func (s *PostgresShiftStore) Create(ctx context.Context, shift Shift) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (id, name, start_minute, end_minute, late_tolerance_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(shift.ID), shift.Name, shift.StartMinute, shift.EndMinute,
		shift.LateToleranceMinutes, shift.CreatedAt)
	if err != nil {
		return fmt.Errorf("create shift: %w", err)
	}
	return nil
}

func (s *PostgresShiftStore) FindByID(ctx context.Context, shiftID id.ShiftID) (Shift, error) {
	var (
		rawID uuid.UUID
		shift Shift
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, start_minute, end_minute, late_tolerance_minutes, created_at
		FROM shifts WHERE id = $1`, uuid.UUID(shiftID)).
		Scan(&rawID, &shift.Name, &shift.StartMinute, &shift.EndMinute,
			&shift.LateToleranceMinutes, &shift.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Shift{}, sentinel.ErrNotFound
		}
		return Shift{}, fmt.Errorf("find shift: %w", err)
	}
	shift.ID = id.ShiftID(rawID)
	return shift, nil
}

func (s *PostgresShiftStore) List(ctx context.Context) ([]Shift, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, start_minute, end_minute, late_tolerance_minutes, created_at
		FROM shifts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var shifts []Shift
	for rows.Next() {
		var (
			rawID uuid.UUID
			shift Shift
		)
		if err := rows.Scan(&rawID, &shift.Name, &shift.StartMinute, &shift.EndMinute,
			&shift.LateToleranceMinutes, &shift.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		shift.ID = id.ShiftID(rawID)
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	return shifts, nil
}

type PostgresAssignmentStore struct {
	db *sql.DB
}

func NewPostgresAssignmentStore(db *sql.DB) *PostgresAssignmentStore {
	return &PostgresAssignmentStore{db: db}
}

func (s *PostgresAssignmentStore) Upsert(ctx context.Context, assignment ShiftAssignment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shift_assignments (user_id, date, shift_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date) DO UPDATE SET shift_id = EXCLUDED.shift_id`,
		uuid.UUID(assignment.UserID), assignment.Date, uuid.UUID(assignment.ShiftID))
	if err != nil {
		return fmt.Errorf("upsert shift assignment: %w", err)
	}
	return nil
}

func (s *PostgresAssignmentStore) FindByUserAndDate(ctx context.Context, userID id.UserID, date string) (ShiftAssignment, error) {
	var (
		rawUser  uuid.UUID
		rawShift uuid.UUID
		found    ShiftAssignment
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, date, shift_id
		FROM shift_assignments WHERE user_id = $1 AND date = $2`,
		uuid.UUID(userID), date).
		Scan(&rawUser, &found.Date, &rawShift)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ShiftAssignment{}, sentinel.ErrNotFound
		}
		return ShiftAssignment{}, fmt.Errorf("find shift assignment: %w", err)
	}
	found.UserID = id.UserID(rawUser)
	found.ShiftID = id.ShiftID(rawShift)
	return found, nil
}

type PostgresLocationStore struct {
	db *sql.DB
}

func NewPostgresLocationStore(db *sql.DB) *PostgresLocationStore {
	return &PostgresLocationStore{db: db}
}

func (s *PostgresLocationStore) Create(ctx context.Context, location OfficeLocation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO office_locations (id, name, latitude, longitude, radius_meters, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(location.ID), location.Name, location.Latitude, location.Longitude,
		location.RadiusMeters, location.Active, location.CreatedAt, location.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create office location: %w", err)
	}
	return nil
}

func (s *PostgresLocationStore) Update(ctx context.Context, location OfficeLocation) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE office_locations
		SET name = $2, latitude = $3, longitude = $4, radius_meters = $5, active = $6, updated_at = $7
		WHERE id = $1`,
		uuid.UUID(location.ID), location.Name, location.Latitude, location.Longitude,
		location.RadiusMeters, location.Active, location.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update office location: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update office location: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresLocationStore) FindByID(ctx context.Context, locationID id.LocationID) (OfficeLocation, error) {
	location, err := s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT id, name, latitude, longitude, radius_meters, active, created_at, updated_at
		FROM office_locations WHERE id = $1`, uuid.UUID(locationID)).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OfficeLocation{}, sentinel.ErrNotFound
		}
		return OfficeLocation{}, fmt.Errorf("find office location: %w", err)
	}
	return location, nil
}

func (s *PostgresLocationStore) List(ctx context.Context) ([]OfficeLocation, error) {
	return s.list(ctx, `
		SELECT id, name, latitude, longitude, radius_meters, active, created_at, updated_at
		FROM office_locations ORDER BY name`)
}

func (s *PostgresLocationStore) ListActive(ctx context.Context) ([]OfficeLocation, error) {
	return s.list(ctx, `
		SELECT id, name, latitude, longitude, radius_meters, active, created_at, updated_at
		FROM office_locations WHERE active ORDER BY name`)
}

func (s *PostgresLocationStore) list(ctx context.Context, query string) ([]OfficeLocation, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list office locations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var locations []OfficeLocation
	for rows.Next() {
		location, err := s.scanOne(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan office location: %w", err)
		}
		locations = append(locations, location)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list office locations: %w", err)
	}
	return locations, nil
}

func (s *PostgresLocationStore) scanOne(scan func(dest ...any) error) (OfficeLocation, error) {
	var (
		rawID    uuid.UUID
		location OfficeLocation
	)
	if err := scan(&rawID, &location.Name, &location.Latitude, &location.Longitude,
		&location.RadiusMeters, &location.Active, &location.CreatedAt, &location.UpdatedAt); err != nil {
		return OfficeLocation{}, err
	}
	location.ID = id.LocationID(rawID)
	return location, nil
}

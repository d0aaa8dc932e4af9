// Package domain defines typed identifiers shared across bounded contexts.
// Distinct types for each entity make it a compile error to pass a shift id
// where a user id is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "presensi/pkg/domain-errors"
)

type (
	// UserID identifies a workforce member.
	UserID uuid.UUID
	// ShiftID identifies a named work shift.
	ShiftID uuid.UUID
	// LocationID identifies a registered office location.
	LocationID uuid.UUID
	// RecordID identifies an attendance record.
	RecordID uuid.UUID
)

// NewUserID generates a fresh user id.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewShiftID generates a fresh shift id.
func NewShiftID() ShiftID { return ShiftID(uuid.New()) }

// NewLocationID generates a fresh location id.
func NewLocationID() LocationID { return LocationID(uuid.New()) }

// NewRecordID generates a fresh attendance record id.
func NewRecordID() RecordID { return RecordID(uuid.New()) }

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id ShiftID) String() string    { return uuid.UUID(id).String() }
func (id LocationID) String() string { return uuid.UUID(id).String() }
func (id RecordID) String() string   { return uuid.UUID(id).String() }

func (id UserID) IsZero() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ShiftID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id LocationID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id RecordID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }

// ParseUserID validates and parses a user id from its string form.
// IDs must be valid, non-empty, non-nil UUIDs.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

// ParseShiftID validates and parses a shift id from its string form.
func ParseShiftID(s string) (ShiftID, error) {
	u, err := parseUUID(s, "shift id")
	return ShiftID(u), err
}

// ParseLocationID validates and parses a location id from its string form.
func ParseLocationID(s string) (LocationID, error) {
	u, err := parseUUID(s, "location id")
	return LocationID(u), err
}

// ParseRecordID validates and parses an attendance record id from its string form.
func ParseRecordID(s string) (RecordID, error) {
	u, err := parseUUID(s, "record id")
	return RecordID(u), err
}

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the nil UUID", kind)
	}
	return u, nil
}

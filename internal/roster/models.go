// Package roster holds the scheduling master data the attendance engine
// consumes: shift definitions, per-day shift assignments, and geofenced
// office locations. The engine reads it, admins write it.
package roster

import (
	"time"

	"presensi/internal/geofence"
	"presensi/internal/shiftwindow"
	id "presensi/pkg/domain"
)

// DateLayout is the civil date format used for assignment and attendance
// keys. Dates are always local to the business timezone, never UTC.
const DateLayout = "2006-01-02"

// Shift is a named work interval in minutes since local midnight. A shift
// whose end precedes its start spans midnight.
type Shift struct {
	ID                   id.ShiftID
	Name                 string
	StartMinute          int
	EndMinute            int
	LateToleranceMinutes int
	CreatedAt            time.Time
}

// Window converts the shift into its window-math form.
func (s Shift) Window() shiftwindow.Shift {
	return shiftwindow.Shift{
		StartMinute:      s.StartMinute,
		EndMinute:        s.EndMinute,
		ToleranceMinutes: s.LateToleranceMinutes,
	}
}

// ShiftAssignment binds a user to a shift for one civil date. At most one
// assignment exists per (user, date).
type ShiftAssignment struct {
	UserID  id.UserID
	Date    string
	ShiftID id.ShiftID
}

// OfficeLocation is a geofenced site attendance may be recorded at.
// Deactivated locations are kept for history but excluded from matching.
type OfficeLocation struct {
	ID           id.LocationID
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Zone converts the location into its geofence form.
func (l OfficeLocation) Zone() geofence.Zone {
	return geofence.Zone{
		ID:           l.ID,
		Name:         l.Name,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		RadiusMeters: l.RadiusMeters,
	}
}

// Package attendance is the decision core: it combines the geofence, the
// shift window math and the face matcher into accept/reject decisions over a
// single attendance record per user per day.
package attendance

import (
	"time"

	id "presensi/pkg/domain"
)

// Status of an attendance record, fixed at check-in time. Check-out never
// changes it.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
)

// Rejection reasons. These are part of the API contract: clients branch on
// them, operators alert on them.
const (
	ReasonNoSchedule        = "no_schedule"
	ReasonAlreadyCheckedIn  = "already_checked_in"
	ReasonAlreadyCheckedOut = "already_checked_out"
	ReasonNotCheckedIn      = "not_checked_in"
	ReasonNoActiveLocations = "no_active_locations"
	ReasonOutsideGeofence   = "outside_geofence"
	ReasonOutsideWindow     = "outside_window"
	ReasonFaceMismatch      = "face_mismatch"
	ReasonFaceUnavailable   = "face_unavailable"
)

// Coordinate is a reported position in decimal degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Record is one user's attendance for one civil date. At most one check-in
// and one check-out ever exist; the (UserID, Date) pair is unique in every
// store.
type Record struct {
	ID     id.RecordID
	UserID id.UserID
	Date   string
	ShiftID id.ShiftID

	CheckInTime       time.Time
	CheckInLatitude   float64
	CheckInLongitude  float64
	CheckInVerified   bool
	CheckInSimilarity *float64

	CheckOutTime       *time.Time
	CheckOutLatitude   *float64
	CheckOutLongitude  *float64
	CheckOutVerified   bool
	CheckOutSimilarity *float64

	Status Status
}

// CheckedOut reports whether the record reached its terminal state.
func (r Record) CheckedOut() bool {
	return r.CheckOutTime != nil
}

// Decision is the orchestrator's answer. Rejections are routine outcomes,
// not errors: Reason identifies which rule fired and Details carries the
// diagnostics a client needs to self-correct (distance, window bounds,
// similarity).
type Decision struct {
	Accepted bool
	Reason   string
	Message  string
	Details  map[string]any
	Record   *Record
}

func rejection(reason, message string, details map[string]any) Decision {
	return Decision{Reason: reason, Message: message, Details: details}
}

// DayStatus is the read model behind the status endpoints.
type DayStatus struct {
	Date         string     `json:"date"`
	CheckedIn    bool       `json:"checked_in"`
	CheckedOut   bool       `json:"checked_out"`
	Status       Status     `json:"status,omitempty"`
	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
}

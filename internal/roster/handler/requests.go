package handler

import (
	"presensi/internal/shiftwindow"
	id "presensi/pkg/domain"
	dErrors "presensi/pkg/domain-errors"
)

// CreateShiftRequest takes clock times the way admins think about them and
// parses them into minutes during validation.
type CreateShiftRequest struct {
	Name                 string `json:"name"`
	StartTime            string `json:"start_time"`
	EndTime              string `json:"end_time"`
	LateToleranceMinutes int    `json:"late_tolerance_minutes"`

	startMinute int
	endMinute   int
}

func (r *CreateShiftRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	start, err := shiftwindow.ParseClock(r.StartTime)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "start_time must be formatted HH:MM")
	}
	end, err := shiftwindow.ParseClock(r.EndTime)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "end_time must be formatted HH:MM")
	}
	r.startMinute = start
	r.endMinute = end
	return nil
}

type AssignShiftRequest struct {
	UserID  string `json:"user_id"`
	Date    string `json:"date"`
	ShiftID string `json:"shift_id"`

	userID  id.UserID
	shiftID id.ShiftID
}

func (r *AssignShiftRequest) Validate() error {
	userID, err := id.ParseUserID(r.UserID)
	if err != nil {
		return err
	}
	shiftID, err := id.ParseShiftID(r.ShiftID)
	if err != nil {
		return err
	}
	if r.Date == "" {
		return dErrors.New(dErrors.CodeValidation, "date is required")
	}
	r.userID = userID
	r.shiftID = shiftID
	return nil
}

type LocationRequest struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

func (r *LocationRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

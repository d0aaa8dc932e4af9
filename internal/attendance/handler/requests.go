package handler

import (
	"github.com/asaskevich/govalidator"

	dErrors "presensi/pkg/domain-errors"
)

// SubmitRequest is the shared body of check-in and check-out. Coordinates
// are pointers so a missing field is distinguishable from zero, which is a
// valid coordinate.
type SubmitRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Image     string   `json:"image,omitempty"`
}

func (r *SubmitRequest) Validate() error {
	if r.Latitude == nil || r.Longitude == nil {
		return dErrors.New(dErrors.CodeValidation, "latitude and longitude are required")
	}
	if *r.Latitude < -90 || *r.Latitude > 90 {
		return dErrors.New(dErrors.CodeValidation, "latitude must be between -90 and 90")
	}
	if *r.Longitude < -180 || *r.Longitude > 180 {
		return dErrors.New(dErrors.CodeValidation, "longitude must be between -180 and 180")
	}
	if r.Image != "" && !govalidator.IsBase64(r.Image) {
		return dErrors.New(dErrors.CodeValidation, "image must be base64 encoded")
	}
	return nil
}

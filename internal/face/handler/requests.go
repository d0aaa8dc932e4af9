package handler

import (
	"github.com/asaskevich/govalidator"

	dErrors "presensi/pkg/domain-errors"
)

// EnrollRequest carries the enrollment image as base64.
type EnrollRequest struct {
	Image string `json:"image"`
}

func (r *EnrollRequest) Validate() error {
	if r.Image == "" {
		return dErrors.New(dErrors.CodeValidation, "image is required")
	}
	if !govalidator.IsBase64(r.Image) {
		return dErrors.New(dErrors.CodeValidation, "image must be base64 encoded")
	}
	return nil
}

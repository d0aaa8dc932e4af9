package audit

import (
	"time"

	"github.com/mssola/useragent"
)

// Actions recorded by the activity log.
const (
	ActionCheckIn    = "attendance.check_in"
	ActionCheckOut   = "attendance.check_out"
	ActionFaceEnroll = "face.enroll"
	ActionFaceRemove = "face.remove"
	ActionLogin      = "auth.login"
)

// Outcomes of an audited action.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	UserID    string
	Action    string
	Outcome   string
	Reason    string
	RequestID string
	ClientIP  string
	Device    string
}

// NormalizeDevice reduces a raw User-Agent header to a short
// "browser/version on os" label for the activity log.
func NormalizeDevice(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	if name == "" {
		return rawUA
	}
	label := name
	if version != "" {
		label += "/" + version
	}
	if os := ua.OS(); os != "" {
		label += " on " + os
	}
	return label
}

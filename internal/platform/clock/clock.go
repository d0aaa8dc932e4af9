// Package clock supplies the organization's notion of "now". Attendance is
// anchored to a single fixed-offset zone with no DST, so every timestamp the
// engine sees has already been normalized here.
package clock

import "time"

// Clock returns the current time in the organization's local zone.
type Clock interface {
	Now() time.Time
}

// FixedZone is a Clock pinned to a fixed UTC offset.
type FixedZone struct {
	loc *time.Location
}

// NewFixedZone builds a clock for a zone offsetMinutes east of UTC
// (e.g. 420 for UTC+7).
func NewFixedZone(name string, offsetMinutes int) *FixedZone {
	return &FixedZone{loc: time.FixedZone(name, offsetMinutes*60)}
}

func (c *FixedZone) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location exposes the zone for date formatting.
func (c *FixedZone) Location() *time.Location {
	return c.loc
}

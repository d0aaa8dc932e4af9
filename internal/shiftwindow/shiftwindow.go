// Package shiftwindow converts shift start/end times into allowed check-in
// and check-out windows and classifies an instant against them. All time
// arithmetic operates on minutes since local midnight; every mod-1440 wrap
// lives here so callers never do minute math themselves.
//
// Shifts whose end minute is numerically smaller than their start minute span
// midnight (overnight shifts). The wrap rule for window membership is driven
// by the window itself, not by the shift: a 00:10 day shift produces a
// check-in window that wraps even though the shift does not.
package shiftwindow

import (
	"errors"
	"fmt"
	"time"
)

// Window policy offsets, in minutes relative to shift start/end.
const (
	CheckInEarlyMinutes  = 15
	CheckInLateMinutes   = 60
	CheckOutEarlyMinutes = 0
	CheckOutLateMinutes  = 60
)

const minutesPerDay = 24 * 60

// ErrZeroLengthShift marks a shift configured with start == end. Such shifts
// have no defined window semantics and are rejected as invalid configuration
// rather than silently treated as 24-hour shifts.
var ErrZeroLengthShift = errors.New("shift start and end must differ")

// Shift carries the time-of-day bounds the window math needs. Minutes are
// since local midnight, 0-1439.
type Shift struct {
	StartMinute      int
	EndMinute        int
	ToleranceMinutes int
}

// Window is an allowed interval in minutes-of-day. When Earliest > Latest the
// window itself wraps midnight.
type Window struct {
	Earliest int
	Latest   int
}

// Contains reports whether the minute falls inside the window, applying the
// wrap rule when the window spans midnight.
func (w Window) Contains(minute int) bool {
	if w.Earliest <= w.Latest {
		return minute >= w.Earliest && minute <= w.Latest
	}
	return minute >= w.Earliest || minute <= w.Latest
}

// String renders the window as "HH:MM - HH:MM" for user-facing messages.
func (w Window) String() string {
	return FormatMinute(w.Earliest) + " - " + FormatMinute(w.Latest)
}

// CheckInVerdict is the outcome of classifying a check-in instant. Late is
// meaningful only when OnWindow is true.
type CheckInVerdict struct {
	OnWindow bool
	Late     bool
}

// IsOvernight reports whether the shift spans midnight.
func IsOvernight(s Shift) bool {
	return s.StartMinute > s.EndMinute
}

// CheckInWindow derives the allowed check-in interval for the shift.
func CheckInWindow(s Shift) Window {
	return Window{
		Earliest: wrap(s.StartMinute - CheckInEarlyMinutes),
		Latest:   wrap(s.StartMinute + CheckInLateMinutes),
	}
}

// CheckOutWindow derives the allowed check-out interval for the shift.
func CheckOutWindow(s Shift) Window {
	return Window{
		Earliest: wrap(s.EndMinute - CheckOutEarlyMinutes),
		Latest:   wrap(s.EndMinute + CheckOutLateMinutes),
	}
}

// ClassifyCheckIn tests the instant against the check-in window and, when it
// is inside, whether the check-in counts as late.
//
// The lateness threshold is start + tolerance, wrapped into the day. For the
// post-midnight segment of an overnight shift (now < start) the instant is
// late only if the threshold itself wrapped past midnight and now is beyond
// it; a post-midnight instant against an unwrapped threshold is the window's
// early tail of the next segment, never a late arrival.
func ClassifyCheckIn(s Shift, nowMinute int) (CheckInVerdict, error) {
	if err := validate(s, nowMinute); err != nil {
		return CheckInVerdict{}, err
	}

	window := CheckInWindow(s)
	if !window.Contains(nowMinute) {
		return CheckInVerdict{}, nil
	}

	lateThreshold := wrap(s.StartMinute + s.ToleranceMinutes)

	if IsOvernight(s) && nowMinute < s.StartMinute {
		wrapped := s.ToleranceMinutes > 0 && lateThreshold < s.StartMinute
		return CheckInVerdict{
			OnWindow: true,
			Late:     wrapped && nowMinute > lateThreshold,
		}, nil
	}

	return CheckInVerdict{
		OnWindow: true,
		Late:     nowMinute > lateThreshold,
	}, nil
}

// ClassifyCheckOut tests the instant against the check-out window. There is
// no lateness concept at check-out.
func ClassifyCheckOut(s Shift, nowMinute int) (bool, error) {
	if err := validate(s, nowMinute); err != nil {
		return false, err
	}
	return CheckOutWindow(s).Contains(nowMinute), nil
}

// ScheduleDateFor resolves which calendar day's schedule an event at now
// belongs to. For the post-midnight segment of an overnight shift the
// schedule is the previous day's; everything else belongs to the current day.
func ScheduleDateFor(s Shift, now time.Time) time.Time {
	if IsOvernight(s) && MinuteOfDay(now) <= s.EndMinute {
		return now.AddDate(0, 0, -1)
	}
	return now
}

// MinuteOfDay extracts the minutes elapsed since the local midnight of t.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseClock converts "HH:MM" or "HH:MM:SS" into minutes since midnight.
func ParseClock(clock string) (int, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(clock, "%d:%d:%d", &h, &m, &sec); err != nil {
		if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid clock time %q", clock)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", clock)
	}
	return h*60 + m, nil
}

// FormatMinute renders a minute-of-day as "HH:MM", wrapping into the day.
func FormatMinute(minute int) string {
	minute = wrap(minute)
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

func validate(s Shift, nowMinute int) error {
	if s.StartMinute == s.EndMinute {
		return ErrZeroLengthShift
	}
	if s.StartMinute < 0 || s.StartMinute >= minutesPerDay ||
		s.EndMinute < 0 || s.EndMinute >= minutesPerDay {
		return fmt.Errorf("shift bounds out of range: start=%d end=%d", s.StartMinute, s.EndMinute)
	}
	if nowMinute < 0 || nowMinute >= minutesPerDay {
		return fmt.Errorf("minute of day out of range: %d", nowMinute)
	}
	return nil
}

func wrap(minute int) int {
	minute %= minutesPerDay
	if minute < 0 {
		minute += minutesPerDay
	}
	return minute
}

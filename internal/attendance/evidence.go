package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"presensi/internal/face"
	"presensi/internal/geofence"
	"presensi/internal/roster"
	"presensi/internal/shiftwindow"
	id "presensi/pkg/domain"
	"presensi/pkg/platform/sentinel"
)

const evidenceTimeout = 5 * time.Second

// gatheredEvidence is everything a decision needs, fetched up front so the
// rule sequence itself stays pure.
type gatheredEvidence struct {
	zones     []geofence.Zone
	schedule  *scheduleEvidence
	identity  *face.Identity
	fetchedAt time.Time
}

// scheduleEvidence binds the shift in force to the civil date its record is
// keyed under. For the post-midnight tail of an overnight shift the date is
// the previous day's.
type scheduleEvidence struct {
	shift roster.Shift
	date  string
}

// gatherEvidence fetches locations, schedule and identity in parallel with a
// shared timeout and first-failure cancellation.
func (s *Service) gatherEvidence(ctx context.Context, userID id.UserID, now time.Time) (*gatheredEvidence, error) {
	ctx, cancel := context.WithTimeout(ctx, evidenceTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	evidence := &gatheredEvidence{fetchedAt: now}

	g.Go(func() error {
		start := time.Now()
		locations, err := s.locations.ListActive(ctx)
		s.metrics.ObserveEvidenceLatency("locations", time.Since(start))
		if err != nil {
			return fmt.Errorf("list active locations: %w", err)
		}
		zones := make([]geofence.Zone, 0, len(locations))
		for _, location := range locations {
			zones = append(zones, location.Zone())
		}
		evidence.zones = zones
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		schedule, err := s.resolveSchedule(ctx, userID, now)
		s.metrics.ObserveEvidenceLatency("schedule", time.Since(start))
		if err != nil {
			return err
		}
		evidence.schedule = schedule
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		identity, err := s.identities.FindByUser(ctx, userID)
		s.metrics.ObserveEvidenceLatency("identity", time.Since(start))
		if err != nil {
			// Not being enrolled is a normal state, not missing evidence.
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("find identity: %w", err)
		}
		evidence.identity = &identity
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return evidence, nil
}

// resolveSchedule finds the shift in force at now. Yesterday's assignment
// wins when its shift spans midnight and now is still inside the shift's
// post-midnight tail; otherwise today's assignment applies. A nil result
// with nil error means no schedule exists.
func (s *Service) resolveSchedule(ctx context.Context, userID id.UserID, now time.Time) (*scheduleEvidence, error) {
	yesterday := now.AddDate(0, 0, -1).Format(roster.DateLayout)
	if assignment, err := s.assignments.FindByUserAndDate(ctx, userID, yesterday); err == nil {
		shift, err := s.shifts.FindByID(ctx, assignment.ShiftID)
		if err != nil {
			return nil, fmt.Errorf("find shift %s: %w", assignment.ShiftID, err)
		}
		window := shift.Window()
		if shiftwindow.IsOvernight(window) &&
			shiftwindow.ScheduleDateFor(window, now).Format(roster.DateLayout) == yesterday {
			return &scheduleEvidence{shift: shift, date: yesterday}, nil
		}
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, fmt.Errorf("find assignment: %w", err)
	}

	today := now.Format(roster.DateLayout)
	assignment, err := s.assignments.FindByUserAndDate(ctx, userID, today)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	shift, err := s.shifts.FindByID(ctx, assignment.ShiftID)
	if err != nil {
		return nil, fmt.Errorf("find shift %s: %w", assignment.ShiftID, err)
	}
	return &scheduleEvidence{shift: shift, date: today}, nil
}

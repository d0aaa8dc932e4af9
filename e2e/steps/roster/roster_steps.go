package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	LastStatus() int
	GetResponseField(field string) (interface{}, error)
	GetUserID() string
	GetShiftID() string
	SetShiftID(shiftID string)
}

// RegisterSteps registers roster administration step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &rosterSteps{tc: tc}

	ctx.Step(`^a shift "([^"]*)" from "([^"]*)" to "([^"]*)" with tolerance (\d+) exists$`, steps.createShift)
	ctx.Step(`^I am assigned that shift for "([^"]*)"$`, steps.assignShift)
	ctx.Step(`^I am assigned that shift for today$`, steps.assignShiftToday)
	ctx.Step(`^an office "([^"]*)" at latitude (-?\d+\.?\d*) and longitude (-?\d+\.?\d*) with radius (\d+) exists$`, steps.createLocation)
}

type rosterSteps struct {
	tc TestContext
}

func (s *rosterSteps) createShift(ctx context.Context, name, start, end string, tolerance int) error {
	err := s.tc.POST("/shifts", map[string]interface{}{
		"name":                   name,
		"start_time":             start,
		"end_time":               end,
		"late_tolerance_minutes": tolerance,
	})
	if err != nil {
		return err
	}
	if s.tc.LastStatus() != 201 {
		return fmt.Errorf("create shift failed with status %d", s.tc.LastStatus())
	}
	shiftID, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	s.tc.SetShiftID(shiftID.(string))
	return nil
}

func (s *rosterSteps) assignShift(ctx context.Context, date string) error {
	err := s.tc.POST("/assignments", map[string]interface{}{
		"user_id":  s.tc.GetUserID(),
		"date":     date,
		"shift_id": s.tc.GetShiftID(),
	})
	if err != nil {
		return err
	}
	if s.tc.LastStatus() != 201 {
		return fmt.Errorf("assign shift failed with status %d", s.tc.LastStatus())
	}
	return nil
}

// assignShiftToday uses the local civil date. Around midnight this can lag
// the server's business date by a day; e2e runs should avoid that window.
func (s *rosterSteps) assignShiftToday(ctx context.Context) error {
	return s.assignShift(ctx, time.Now().Format("2006-01-02"))
}

func (s *rosterSteps) createLocation(ctx context.Context, name, lat, lng string, radius int) error {
	latitude, longitude := 0.0, 0.0
	if _, err := fmt.Sscanf(lat, "%f", &latitude); err != nil {
		return err
	}
	if _, err := fmt.Sscanf(lng, "%f", &longitude); err != nil {
		return err
	}
	err := s.tc.POST("/locations", map[string]interface{}{
		"name":          name,
		"latitude":      latitude,
		"longitude":     longitude,
		"radius_meters": float64(radius),
	})
	if err != nil {
		return err
	}
	if s.tc.LastStatus() != 201 {
		return fmt.Errorf("create location failed with status %d", s.tc.LastStatus())
	}
	return nil
}

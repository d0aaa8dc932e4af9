package attendance

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
}

// RegisterSteps registers attendance-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &attendanceSteps{tc: tc}

	ctx.Step(`^I check in at latitude (-?\d+\.?\d*) and longitude (-?\d+\.?\d*)$`, steps.checkIn)
	ctx.Step(`^I check out at latitude (-?\d+\.?\d*) and longitude (-?\d+\.?\d*)$`, steps.checkOut)
	ctx.Step(`^I request today's attendance status$`, steps.todayStatus)
	ctx.Step(`^I request my attendance history$`, steps.history)
	ctx.Step(`^the rejection reason should be "([^"]*)"$`, steps.rejectionReasonShouldBe)
}

type attendanceSteps struct {
	tc TestContext
}

func (s *attendanceSteps) checkIn(ctx context.Context, lat, lng string) error {
	return s.submit(ctx, "/attendance/check-in", lat, lng)
}

func (s *attendanceSteps) checkOut(ctx context.Context, lat, lng string) error {
	return s.submit(ctx, "/attendance/check-out", lat, lng)
}

func (s *attendanceSteps) submit(ctx context.Context, path, lat, lng string) error {
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return err
	}
	longitude, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return err
	}
	return s.tc.POST(path, map[string]interface{}{
		"latitude":  latitude,
		"longitude": longitude,
	})
}

func (s *attendanceSteps) todayStatus(ctx context.Context) error {
	return s.tc.GET("/attendance/today", nil)
}

func (s *attendanceSteps) history(ctx context.Context) error {
	return s.tc.GET("/attendance/history", nil)
}

func (s *attendanceSteps) rejectionReasonShouldBe(ctx context.Context, expected string) error {
	reason, err := s.tc.GetResponseField("error")
	if err != nil {
		return err
	}
	if reason != expected {
		return fmt.Errorf("expected rejection reason %q, got %v", expected, reason)
	}
	return nil
}

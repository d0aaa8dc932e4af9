package e2e

import (
	"github.com/cucumber/godog"

	"presensi/e2e/steps/attendance"
	"presensi/e2e/steps/auth"
	"presensi/e2e/steps/common"
	"presensi/e2e/steps/roster"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register authentication and account steps
	auth.RegisterSteps(ctx, tc)

	// Register roster administration steps
	roster.RegisterSteps(ctx, tc)

	// Register attendance-specific steps
	attendance.RegisterSteps(ctx, tc)
}

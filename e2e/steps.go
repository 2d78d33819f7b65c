package e2e

import (
	"github.com/cucumber/godog"

	"geoshell/e2e/steps/geo"
	"geoshell/e2e/steps/identity"
	"geoshell/e2e/steps/shell"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Shells: opening, typing commands, reading output
	shell.RegisterSteps(ctx, tc)

	// Stored identity state
	identity.RegisterSteps(ctx, tc)

	// Stored geographic state
	geo.RegisterSteps(ctx, tc)
}

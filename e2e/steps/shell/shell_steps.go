package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	OpenShell(ctx context.Context, name string) error
	Run(ctx context.Context, name, line string) error
	Output(name string) (string, error)
	Prompt(name string) (string, error)
}

// RegisterSteps registers shell interaction step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &shellSteps{tc: tc}

	ctx.Step(`^a fresh geographic database$`, steps.freshDatabase)
	ctx.Step(`^shell "([^"]*)" is open$`, steps.shellIsOpen)
	ctx.Step("^shell \"([^\"]*)\" runs `([^`]*)`$", steps.run)
	ctx.Step(`^shell "([^"]*)" prints "([^"]*)"$`, steps.printsLine)
	ctx.Step(`^shell "([^"]*)" prints:$`, steps.printsExactly)
	ctx.Step(`^the prompt of shell "([^"]*)" is "([^"]*)"$`, steps.promptIs)
}

type shellSteps struct {
	tc TestContext
}

// freshDatabase is a no-op: every scenario starts from the fixture dataset.
func (s *shellSteps) freshDatabase(context.Context) error {
	return nil
}

func (s *shellSteps) shellIsOpen(ctx context.Context, name string) error {
	return s.tc.OpenShell(ctx, name)
}

func (s *shellSteps) run(ctx context.Context, name, line string) error {
	return s.tc.Run(ctx, name, line)
}

func (s *shellSteps) printsLine(_ context.Context, name, want string) error {
	out, err := s.tc.Output(name)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(out, "\n") {
		if line == want {
			return nil
		}
	}
	return fmt.Errorf("expected line %q in output:\n%s", want, out)
}

func (s *shellSteps) printsExactly(_ context.Context, name string, doc *godog.DocString) error {
	out, err := s.tc.Output(name)
	if err != nil {
		return err
	}
	if want := doc.Content + "\n"; out != want {
		return fmt.Errorf("expected output:\n%s\ngot:\n%s", want, out)
	}
	return nil
}

func (s *shellSteps) promptIs(_ context.Context, name, want string) error {
	got, err := s.tc.Prompt(name)
	if err != nil {
		return err
	}
	if strings.TrimSuffix(got, " > ") != want {
		return fmt.Errorf("expected prompt %q, got %q", want, got)
	}
	return nil
}

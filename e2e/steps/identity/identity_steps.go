package identity

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"geoshell/internal/storage"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Tables() storage.Tables
}

// RegisterSteps registers identity state assertions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &identitySteps{tc: tc}

	ctx.Step(`^administrator "([^"]*)" holds (\d+) sessions?$`, steps.holdsSessions)
	ctx.Step(`^administrator "([^"]*)" is on level (\d+)$`, steps.isOnLevel)
	ctx.Step(`^(\d+) guest sessions? exists?$`, steps.guestSessions)
}

type identitySteps struct {
	tc TestContext
}

func (s *identitySteps) admin(id string) (storage.AdministratorRow, error) {
	for _, r := range s.tc.Tables().Administrators {
		if r.AdminID == id {
			return r, nil
		}
	}
	return storage.AdministratorRow{}, fmt.Errorf("administrator %q not found", id)
}

func (s *identitySteps) holdsSessions(_ context.Context, id string, n int) error {
	admin, err := s.admin(id)
	if err != nil {
		return err
	}
	if admin.SessionCount != n {
		return fmt.Errorf("expected %s to hold %d sessions, got %d", id, n, admin.SessionCount)
	}
	return nil
}

func (s *identitySteps) isOnLevel(_ context.Context, id string, level int) error {
	admin, err := s.admin(id)
	if err != nil {
		return err
	}
	if admin.LevelID != level {
		return fmt.Errorf("expected %s on level %d, got %d", id, level, admin.LevelID)
	}
	return nil
}

func (s *identitySteps) guestSessions(_ context.Context, n int) error {
	if got := len(s.tc.Tables().Users); got != n {
		return fmt.Errorf("expected %d guest sessions, got %d", n, got)
	}
	return nil
}

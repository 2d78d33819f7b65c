package e2e

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"golang.org/x/crypto/bcrypt"

	"geoshell/internal/app"
	"geoshell/internal/platform/config"
	"geoshell/internal/platform/logger"
	"geoshell/internal/platform/metrics"
	"geoshell/internal/shell"
	"geoshell/internal/storage"
	tu "geoshell/pkg/testutil"
)

type terminal struct {
	shell *shell.Shell
	out   *bytes.Buffer
}

// TestContext holds one scenario's application and the shells opened on it.
type TestContext struct {
	app       *app.App
	terminals map[string]*terminal
}

func NewTestContext() *TestContext {
	return &TestContext{}
}

// Reset replaces the application with a fresh copy of the fixture dataset.
func (tc *TestContext) Reset() {
	cfg := config.Default()
	cfg.Database.Driver = "memory"
	cfg.Secrets.BcryptCost = bcrypt.MinCost
	tc.app = app.NewMemory(cfg, tu.Mondial(), logger.Discard(), metrics.New())
	tc.terminals = map[string]*terminal{}
}

// CloseAll terminates every open shell in name order.
func (tc *TestContext) CloseAll(ctx context.Context) error {
	names := make([]string, 0, len(tc.terminals))
	for name := range tc.terminals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := tc.terminals[name].shell.Close(ctx); err != nil {
			return fmt.Errorf("close shell %q: %w", name, err)
		}
	}
	return nil
}

func (tc *TestContext) OpenShell(ctx context.Context, name string) error {
	if _, ok := tc.terminals[name]; ok {
		return fmt.Errorf("shell %q is already open", name)
	}
	out := &bytes.Buffer{}
	sh := tc.app.Shell(out)
	if err := sh.Start(ctx); err != nil {
		return err
	}
	out.Reset()
	tc.terminals[name] = &terminal{shell: sh, out: out}
	return nil
}

// Run executes line in the named shell, opening it first if needed.
func (tc *TestContext) Run(ctx context.Context, name, line string) error {
	if _, ok := tc.terminals[name]; !ok {
		if err := tc.OpenShell(ctx, name); err != nil {
			return err
		}
	}
	t := tc.terminals[name]
	t.out.Reset()
	t.shell.Execute(ctx, line)
	return nil
}

func (tc *TestContext) Output(name string) (string, error) {
	t, ok := tc.terminals[name]
	if !ok {
		return "", fmt.Errorf("shell %q was never opened", name)
	}
	return t.out.String(), nil
}

func (tc *TestContext) Prompt(name string) (string, error) {
	t, ok := tc.terminals[name]
	if !ok {
		return "", fmt.Errorf("shell %q was never opened", name)
	}
	session := t.shell.Session()
	return session.Prompt(), nil
}

// Tables returns the committed dataset.
func (tc *TestContext) Tables() storage.Tables {
	return tc.app.Memory.Snapshot()
}

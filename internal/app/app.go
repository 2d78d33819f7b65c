// Package app wires stores, transaction runners and services for one backing
// store. The CLI, the shell tests and the e2e suite all build through here so
// they exercise the same graph.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	geoservice "geoshell/internal/geo/service"
	geostore "geoshell/internal/geo/store"
	idservice "geoshell/internal/identity/service"
	idstore "geoshell/internal/identity/store"
	"geoshell/internal/platform/config"
	"geoshell/internal/platform/metrics"
	"geoshell/internal/platform/postgres"
	"geoshell/internal/reporting"
	"geoshell/internal/shell"
	"geoshell/internal/storage"
	"geoshell/pkg/platform/audit"
	auditmemory "geoshell/pkg/platform/audit/store/memory"
	auditpostgres "geoshell/pkg/platform/audit/store/postgres"
	"geoshell/pkg/platform/tx"
)

type identityStore interface {
	idservice.Store
	reporting.QuotaStore
}

type geoStore interface {
	geoservice.Store
	reporting.GeoStore
}

type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// App holds the services of one running shell process.
type App struct {
	Identity  *idservice.Service
	Geo       *geoservice.Service
	Reporting *reporting.Service
	Audit     audit.Store
	Metrics   *metrics.Metrics
	Logger    *slog.Logger

	// Memory is set only for the in-memory backend.
	Memory *storage.Memory
	db     *sql.DB
}

// Open builds the App for cfg.Database.Driver. For the memory driver the
// dataset comes from cfg.Database.Seed, or is empty.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger, m *metrics.Metrics) (*App, error) {
	if cfg.Database.Driver == "memory" {
		seed := storage.Tables{}
		if cfg.Database.Seed != "" {
			var err error
			if seed, err = storage.LoadTablesFile(cfg.Database.Seed); err != nil {
				return nil, err
			}
		}
		return NewMemory(cfg, seed, logger, m), nil
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a, err := NewPostgres(db, cfg, logger, m)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

// NewMemory builds an App over a private copy of seed.
func NewMemory(cfg config.Config, seed storage.Tables, logger *slog.Logger, m *metrics.Metrics) *App {
	mem := storage.NewMemory(seed)
	a := build(cfg, idstore.NewInMemory(mem), geostore.NewInMemory(mem), mem, auditmemory.NewInMemoryStore(), logger, m)
	a.Memory = mem
	return a
}

// NewPostgres builds an App on an open database. The caller keeps ownership
// of db until Close.
func NewPostgres(db *sql.DB, cfg config.Config, logger *slog.Logger, m *metrics.Metrics) (*App, error) {
	isolation, err := postgres.IsolationLevel(cfg.Database.Isolation)
	if err != nil {
		return nil, err
	}
	runner := tx.NewRunner(db,
		tx.WithTimeout(cfg.Database.TxTimeout),
		tx.WithIsolation(isolation),
	)
	a := build(cfg, idstore.NewPostgres(db), geostore.NewPostgres(db), runner, auditpostgres.New(db), logger, m)
	a.db = db
	return a, nil
}

func build(cfg config.Config, ids identityStore, geo geoStore, runner txRunner, auditor audit.Store, logger *slog.Logger, m *metrics.Metrics) *App {
	return &App{
		Identity: idservice.New(ids, runner,
			idservice.WithLogger(logger),
			idservice.WithMetrics(m),
			idservice.WithAuditor(auditor),
			idservice.WithGuestQueryLimit(cfg.Guest.QueryLimit),
			idservice.WithSecretCost(cfg.Secrets.BcryptCost),
		),
		Geo: geoservice.New(geo, runner,
			geoservice.WithLogger(logger),
			geoservice.WithMetrics(m),
			geoservice.WithAuditor(auditor),
		),
		Reporting: reporting.New(geo, ids, runner,
			reporting.WithLogger(logger),
			reporting.WithMetrics(m),
		),
		Audit:   auditor,
		Metrics: m,
		Logger:  logger,
	}
}

// Shell returns a new shell writing to out. Each shell owns its own session.
func (a *App) Shell(out io.Writer) *shell.Shell {
	return shell.New(a.Identity, a.Geo, a.Reporting, out,
		shell.WithLogger(a.Logger),
		shell.WithMetrics(a.Metrics),
	)
}

// Close releases the database, if any.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

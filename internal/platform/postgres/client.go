package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/lib/pq"              // registers the "postgres" driver

	"geoshell/internal/platform/config"
)

// Open connects to Postgres with the configured driver ("postgres" for
// lib/pq, "pgx" for pgx's database/sql adapter) and verifies the connection.
//
// Idle pooling is disabled: every transaction acquires a fresh connection and
// hands it back to the server when it finishes.
func Open(ctx context.Context, cfg config.Database) (*sql.DB, error) {
	switch cfg.Driver {
	case "postgres", "pgx":
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxIdleConns(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return db, nil
}

// Health checks that the database answers.
func Health(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}

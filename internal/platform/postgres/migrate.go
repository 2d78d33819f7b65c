package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schema string

// Tables lists every table in dependency order, children first.
var Tables = []string{
	"audit_events",
	"spoken",
	"religion",
	"economy",
	"encompasses",
	"city",
	"country",
	"continent",
	"users",
	"administrators",
	"accesslevels",
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

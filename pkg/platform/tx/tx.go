// Package tx scopes a database transaction to one operation. The open
// transaction travels in the context so stores pick it up without new
// parameters; fn returning a non-nil error always rolls back.
package tx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultTimeout = 5 * time.Second

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Runner opens one transaction per call on a shared *sql.DB.
type Runner struct {
	db        *sql.DB
	timeout   time.Duration
	isolation sql.IsolationLevel
}

type Option func(*Runner)

// WithTimeout sets the deadline applied when the caller's context has none.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithIsolation sets the isolation level for every transaction.
func WithIsolation(level sql.IsolationLevel) Option {
	return func(r *Runner) {
		r.isolation = level
	}
}

func NewRunner(db *sql.DB, opts ...Option) *Runner {
	r := &Runner{db: db, timeout: defaultTimeout, isolation: sql.LevelReadCommitted}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunInTx executes fn inside a transaction and commits only when fn returns nil.
func (r *Runner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	ctx, span := otel.Tracer("geoshell/tx").Start(ctx, "tx.RunInTx")
	span.SetAttributes(attribute.String("db.isolation", r.isolation.String()))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "rolled back")
		}
		span.End()
	}()

	sqlTx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: r.isolation})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

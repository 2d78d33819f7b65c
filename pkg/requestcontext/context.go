// Package requestcontext provides accessors for command-scoped values.
//
// The shell sets these once per dispatched command; services and stores read
// them without taking extra parameters.
//
// Usage in the shell (set values):
//
//	ctx = requestcontext.WithCommand(ctx, "transfer_city", uuid.NewString())
//
// Usage in services (read values):
//
//	commandID := requestcontext.CommandID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

type (
	commandNameKey struct{}
	commandIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyCommandName = commandNameKey{}
	ContextKeyCommandID   = commandIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// WithCommand records the command being executed and its correlation id.
func WithCommand(ctx context.Context, name, commandID string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyCommandName, name)
	return context.WithValue(ctx, ContextKeyCommandID, commandID)
}

// CommandName returns the command name or "" when none is set.
func CommandName(ctx context.Context) string {
	name, _ := ctx.Value(ContextKeyCommandName).(string)
	return name
}

// CommandID returns the command correlation id or "" when none is set.
func CommandID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyCommandID).(string)
	return id
}

// WithTime pins the clock for everything downstream of ctx.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

// Now returns the pinned time, falling back to the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

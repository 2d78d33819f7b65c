package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"

	"geoshell/pkg/requestcontext"
)

// FixedTime is the clock pinned by CommandContext.
var FixedTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// CommandContext returns a background context that looks like the shell is
// dispatching the named command: it carries a fresh command id and a pinned clock.
func CommandContext(command string) context.Context {
	ctx := requestcontext.WithCommand(context.Background(), command, uuid.NewString())
	return requestcontext.WithTime(ctx, FixedTime)
}

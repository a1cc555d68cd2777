package server

import (
	"context"
	"os/signal"
	"syscall"
)

// WithSignal returns a context that is canceled when the process receives
// SIGINT or SIGTERM, triggering the graceful shutdown path in app.Run.
func WithSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}

package utils

import (
	"context"
)

// GracefulShutdown waits for the context to be canceled and runs the
// provided cleanup exactly once.
func GracefulShutdown(ctx context.Context, cancel context.CancelFunc, cleanup func()) {
	<-ctx.Done()
	cleanup()
	cancel()
}

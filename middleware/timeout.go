package middleware

import (
	"context"
	"log/slog"

	"github.com/gantoin/n8n/execution"
)

// Timeout returns middleware that enforces the run's execution deadline.
// If the run has a non-zero Timeout (from the workflow's settings), a
// context.WithTimeout wraps the handler call. Runs without a timeout are
// bounded solely by the engine's own completion signal.
func Timeout(logger *slog.Logger) Middleware {
	return func(ctx context.Context, run *execution.Run, next Handler) error {
		if run.Timeout > 0 {
			logger.Debug("execution timeout set",
				slog.String("execution_id", run.ID.String()),
				slog.Duration("timeout", run.Timeout),
			)
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, run.Timeout)
			defer cancel()
		}
		return next(ctx)
	}
}

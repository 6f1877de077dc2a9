package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/gantoin/n8n/execution"
)

// Logging returns middleware that logs execution start and completion.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, run *execution.Run, next Handler) error {
		logger.Info("execution dispatched",
			slog.String("execution_id", run.ID.String()),
			slog.String("workflow_id", run.WorkflowID),
			slog.String("mode", string(run.Mode)),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("execution errored",
				slog.String("execution_id", run.ID.String()),
				slog.String("workflow_id", run.WorkflowID),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("execution returned",
				slog.String("execution_id", run.ID.String()),
				slog.String("workflow_id", run.WorkflowID),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}

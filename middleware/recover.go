package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gantoin/n8n/execution"
)

// Recover returns middleware that recovers from panics in the handler
// chain. Panics are converted to errors and logged with a stack trace.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, run *execution.Run, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("execution panicked",
					slog.String("execution_id", run.ID.String()),
					slog.String("workflow_id", run.WorkflowID),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic in execution %s: %v", run.ID, r)
			}
		}()
		return next(ctx)
	}
}

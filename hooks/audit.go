package hooks

import (
	"context"
	"log/slog"
	"time"

	"github.com/gantoin/n8n/execution"
)

// Compile-time interface checks.
var (
	_ Hook              = (*AuditHook)(nil)
	_ ExecutionStarted  = (*AuditHook)(nil)
	_ ExecutionFinished = (*AuditHook)(nil)
	_ ExecutionFailed   = (*AuditHook)(nil)
)

// AuditHook writes a structured audit record for every execution
// lifecycle event through the injected logger. The records are the
// post-mortem trail for headless runs, separate from the CLI's own
// stdout/stderr diagnostics.
type AuditHook struct {
	logger *slog.Logger
}

// NewAuditHook creates an audit hook writing through logger.
func NewAuditHook(logger *slog.Logger) *AuditHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditHook{logger: logger}
}

// Name implements Hook.
func (a *AuditHook) Name() string { return "audit-log" }

// OnExecutionStarted implements ExecutionStarted.
func (a *AuditHook) OnExecutionStarted(_ context.Context, run *execution.Run) error {
	a.logger.Info("execution started",
		slog.String("execution_id", run.ID.String()),
		slog.String("workflow_id", run.WorkflowID),
		slog.String("workflow_name", run.WorkflowName),
		slog.String("mode", string(run.Mode)),
	)
	return nil
}

// OnExecutionFinished implements ExecutionFinished.
func (a *AuditHook) OnExecutionFinished(_ context.Context, run *execution.Run, elapsed time.Duration) error {
	a.logger.Info("execution finished",
		slog.String("execution_id", run.ID.String()),
		slog.String("workflow_id", run.WorkflowID),
		slog.String("state", string(run.State)),
		slog.Duration("elapsed", elapsed),
	)
	return nil
}

// OnExecutionFailed implements ExecutionFailed.
func (a *AuditHook) OnExecutionFailed(_ context.Context, run *execution.Run, err error) error {
	a.logger.Error("execution failed",
		slog.String("execution_id", run.ID.String()),
		slog.String("workflow_id", run.WorkflowID),
		slog.String("error", err.Error()),
	)
	return nil
}

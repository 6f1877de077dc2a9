package hooks

import (
	"context"
	"log/slog"
	"time"

	"github.com/gantoin/n8n/execution"
)

// Named entry types pair a hook implementation with the hook name
// captured at registration time. This avoids type-asserting back to
// Hook inside the emit methods.
type executionStartedEntry struct {
	name string
	hook ExecutionStarted
}

type executionFinishedEntry struct {
	name string
	hook ExecutionFinished
}

type executionFailedEntry struct {
	name string
	hook ExecutionFailed
}

type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered hooks and dispatches lifecycle events to
// them. It type-caches hooks at registration time so emit calls iterate
// only over hooks that implement the relevant event.
type Registry struct {
	hooks  []Hook
	logger *slog.Logger

	executionStarted  []executionStartedEntry
	executionFinished []executionFinishedEntry
	executionFailed   []executionFailedEntry
	shutdown          []shutdownEntry
}

// NewRegistry creates a hook registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds a hook and type-asserts it into all applicable event
// caches. Hooks are notified in registration order.
func (r *Registry) Register(h Hook) {
	r.hooks = append(r.hooks, h)
	name := h.Name()

	if e, ok := h.(ExecutionStarted); ok {
		r.executionStarted = append(r.executionStarted, executionStartedEntry{name, e})
	}
	if e, ok := h.(ExecutionFinished); ok {
		r.executionFinished = append(r.executionFinished, executionFinishedEntry{name, e})
	}
	if e, ok := h.(ExecutionFailed); ok {
		r.executionFailed = append(r.executionFailed, executionFailedEntry{name, e})
	}
	if e, ok := h.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, e})
	}
}

// Hooks returns the registered hooks in registration order.
func (r *Registry) Hooks() []Hook { return r.hooks }

// logHookError reports a hook failure without interrupting the run.
// Hook errors never abort the execution flow.
func (r *Registry) logHookError(event, name string, err error) {
	r.logger.Error("hook failed",
		slog.String("event", event),
		slog.String("hook", name),
		slog.String("error", err.Error()),
	)
}

// EmitExecutionStarted notifies all ExecutionStarted hooks.
func (r *Registry) EmitExecutionStarted(ctx context.Context, run *execution.Run) {
	for _, e := range r.executionStarted {
		if err := e.hook.OnExecutionStarted(ctx, run); err != nil {
			r.logHookError("execution.started", e.name, err)
		}
	}
}

// EmitExecutionFinished notifies all ExecutionFinished hooks.
func (r *Registry) EmitExecutionFinished(ctx context.Context, run *execution.Run, elapsed time.Duration) {
	for _, e := range r.executionFinished {
		if err := e.hook.OnExecutionFinished(ctx, run, elapsed); err != nil {
			r.logHookError("execution.finished", e.name, err)
		}
	}
}

// EmitExecutionFailed notifies all ExecutionFailed hooks.
func (r *Registry) EmitExecutionFailed(ctx context.Context, run *execution.Run, err error) {
	for _, e := range r.executionFailed {
		if hookErr := e.hook.OnExecutionFailed(ctx, run, err); hookErr != nil {
			r.logHookError("execution.failed", e.name, hookErr)
		}
	}
}

// EmitShutdown notifies all Shutdown hooks.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("shutdown", e.name, err)
		}
	}
}

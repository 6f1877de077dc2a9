// Package hooks defines the external-hook system for the execution
// runtime.
//
// Hooks are notified of execution lifecycle events and can react to
// them, for example by recording metrics or writing audit records.
// Each lifecycle event is a separate interface so hooks opt in
// only to the events they care about. The Registry fans each event out
// to every registered hook that implements the corresponding interface.
package hooks

import (
	"context"
	"time"

	"github.com/gantoin/n8n/execution"
)

// Hook is the base interface all hooks must implement.
type Hook interface {
	// Name returns a unique human-readable name for the hook.
	Name() string
}

// ExecutionStarted is called after a run is dispatched to the engine.
type ExecutionStarted interface {
	OnExecutionStarted(ctx context.Context, run *execution.Run) error
}

// ExecutionFinished is called after a run delivers a result, whether or
// not the result embeds an error.
type ExecutionFinished interface {
	OnExecutionFinished(ctx context.Context, run *execution.Run, elapsed time.Duration) error
}

// ExecutionFailed is called when the engine rejects a run instead of
// delivering a result.
type ExecutionFailed interface {
	OnExecutionFailed(ctx context.Context, run *execution.Run, err error) error
}

// Shutdown is called once when the runtime is shutting down.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}

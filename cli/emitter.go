package cli

import (
	"context"
	"time"

	"github.com/gantoin/n8n/engine"
	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/hooks"
)

// registryEmitter adapts *hooks.Registry to satisfy engine.Emitter.
// This breaks the import cycle: engine defines the interface,
// hooks.Registry provides the implementation, and the cli layer plugs
// them together.
type registryEmitter struct {
	reg *hooks.Registry
}

var _ engine.Emitter = (*registryEmitter)(nil)

func (e *registryEmitter) EmitExecutionStarted(ctx context.Context, run *execution.Run) {
	e.reg.EmitExecutionStarted(ctx, run)
}

func (e *registryEmitter) EmitExecutionFinished(ctx context.Context, run *execution.Run, elapsed time.Duration) {
	e.reg.EmitExecutionFinished(ctx, run, elapsed)
}

func (e *registryEmitter) EmitExecutionFailed(ctx context.Context, run *execution.Run, err error) {
	e.reg.EmitExecutionFailed(ctx, run, err)
}

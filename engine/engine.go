// Package engine executes dispatched workflow runs and correlates each
// run with its single result.
//
// The engine sits above the data packages (execution, workflow) and
// below the application layer. It owns the in-process table of active
// runs: Dispatch registers a run under a fresh execution ID and starts
// it on a goroutine, AwaitResult blocks until that run delivers its
// one result. A result can be consumed exactly once per handle.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/id"
	mw "github.com/gantoin/n8n/middleware"
)

// Runner executes a prepared workflow request and produces its result.
// The engine is agnostic to how nodes are actually traversed; the
// runner supplies that behavior.
type Runner interface {
	Run(ctx context.Context, req *execution.Request) (*execution.Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, req *execution.Request) (*execution.Result, error)

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, req *execution.Request) (*execution.Result, error) {
	return f(ctx, req)
}

// NopRunner returns a Runner that reports an immediately finished,
// empty result. It stands in where no node traversal backend is
// configured.
func NopRunner() Runner {
	return RunnerFunc(func(_ context.Context, req *execution.Request) (*execution.Result, error) {
		now := time.Now().UTC()
		return &execution.Result{
			Finished:  true,
			Mode:      req.Mode,
			Data:      map[string]any{},
			StartedAt: now,
			StoppedAt: now,
		}, nil
	})
}

// Emitter receives execution lifecycle events. The hooks package
// provides the fan-out implementation; the engine only depends on this
// narrow interface so it stays decoupled from hook registration.
type Emitter interface {
	EmitExecutionStarted(ctx context.Context, run *execution.Run)
	EmitExecutionFinished(ctx context.Context, run *execution.Run, elapsed time.Duration)
	EmitExecutionFailed(ctx context.Context, run *execution.Run, err error)
}

// NopEmitter is an Emitter that discards all events.
type NopEmitter struct{}

func (NopEmitter) EmitExecutionStarted(context.Context, *execution.Run) {}

func (NopEmitter) EmitExecutionFinished(context.Context, *execution.Run, time.Duration) {}

func (NopEmitter) EmitExecutionFailed(context.Context, *execution.Run, error) {}

var _ Emitter = NopEmitter{}

// outcome is what a finished run delivers to its waiter.
type outcome struct {
	result *execution.Result
	err    error
}

// pending tracks one active run from dispatch until its result is
// consumed.
type pending struct {
	ch       chan outcome
	consumed bool
}

// Engine dispatches workflow runs and hands out their results.
type Engine struct {
	runner  Runner
	store   execution.Store
	emitter Emitter
	logger  *slog.Logger
	mws     []mw.Middleware

	mu     sync.Mutex
	active map[string]*pending
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used by the engine. If not set,
// slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithEmitter sets the lifecycle event emitter. If not set, events are
// discarded.
func WithEmitter(em Emitter) Option {
	return func(e *Engine) {
		e.emitter = em
	}
}

// WithMiddleware adds middleware to the engine's chain. Middleware runs
// around the runner in registration order.
func WithMiddleware(m mw.Middleware) Option {
	return func(e *Engine) {
		e.mws = append(e.mws, m)
	}
}

// New creates an Engine that executes requests with runner and persists
// run records in store.
func New(runner Runner, store execution.Store, opts ...Option) (*Engine, error) {
	if runner == nil {
		return nil, n8n.ErrNoRunner
	}
	if store == nil {
		return nil, n8n.ErrNoStore
	}
	e := &Engine{
		runner:  runner,
		store:   store,
		emitter: NopEmitter{},
		logger:  slog.Default(),
		active:  make(map[string]*pending),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Dispatch validates the request, persists a new run record and starts
// executing it on a background goroutine. The returned execution ID is
// the handle for AwaitResult. The run keeps executing even if ctx is
// later canceled; cancellation is handled per-run by the timeout
// middleware.
func (e *Engine) Dispatch(ctx context.Context, req *execution.Request) (id.ExecutionID, error) {
	if req == nil || req.Workflow == nil {
		return id.ExecutionID{}, n8n.ErrUsage
	}
	if len(req.StartNodes) == 0 {
		return id.ExecutionID{}, n8n.ErrNoStartNode
	}

	now := time.Now().UTC()
	run := &execution.Run{
		ID:           id.NewExecutionID(),
		WorkflowID:   req.Workflow.ID,
		WorkflowName: req.Workflow.Name,
		Mode:         req.Mode,
		State:        execution.RunStateRunning,
		Timeout:      req.Workflow.Timeout(),
		StartedAt:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.store.CreateRun(ctx, run); err != nil {
		return id.ExecutionID{}, err
	}

	p := &pending{ch: make(chan outcome, 1)}
	e.mu.Lock()
	e.active[run.ID.String()] = p
	e.mu.Unlock()

	e.emitter.EmitExecutionStarted(ctx, run)
	e.logger.Info("execution dispatched",
		"execution_id", run.ID.String(),
		"workflow_id", run.WorkflowID,
		"workflow_name", run.WorkflowName,
		"mode", string(run.Mode))

	// Detach from the caller's cancellation: the dispatched run owns
	// its own lifetime from here on.
	go e.execute(context.WithoutCancel(ctx), run, req, p)

	return run.ID, nil
}

// execute runs the request through the middleware chain, persists the
// final run state and delivers the outcome to the waiter.
func (e *Engine) execute(ctx context.Context, run *execution.Run, req *execution.Request, p *pending) {
	var result *execution.Result

	handler := func(ctx context.Context) error {
		var err error
		result, err = e.runner.Run(ctx, req)
		return err
	}
	err := mw.Chain(e.mws...)(ctx, run, handler)

	elapsed := time.Since(run.StartedAt)
	now := time.Now().UTC()
	run.CompletedAt = &now
	run.UpdatedAt = now

	switch {
	case err != nil:
		run.State = execution.RunStateFailed
		run.Error = err.Error()
		e.emitter.EmitExecutionFailed(ctx, run, err)
		e.logger.Error("execution failed",
			"execution_id", run.ID.String(),
			"workflow_id", run.WorkflowID,
			"error", err)
	case result != nil && result.Error != nil:
		run.State = execution.RunStateFailed
		run.Error = result.Error.Message
		e.marshalResult(run, result)
		e.emitter.EmitExecutionFinished(ctx, run, elapsed)
		e.logger.Warn("execution finished with error",
			"execution_id", run.ID.String(),
			"workflow_id", run.WorkflowID,
			"error", result.Error.Message)
	default:
		run.State = execution.RunStateCompleted
		e.marshalResult(run, result)
		e.emitter.EmitExecutionFinished(ctx, run, elapsed)
		e.logger.Info("execution completed",
			"execution_id", run.ID.String(),
			"workflow_id", run.WorkflowID,
			"elapsed", elapsed)
	}

	if uerr := e.store.UpdateRun(ctx, run); uerr != nil {
		e.logger.Error("persist run state",
			"execution_id", run.ID.String(),
			"error", uerr)
	}

	p.ch <- outcome{result: result, err: err}
}

func (e *Engine) marshalResult(run *execution.Run, result *execution.Result) {
	if result == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		e.logger.Error("marshal execution result",
			"execution_id", run.ID.String(),
			"error", err)
		return
	}
	run.Data = data
}

// AwaitResult blocks until the run identified by handle delivers its
// result, then consumes it. A handle's result can be consumed exactly
// once: a second call returns ErrResultConsumed, an unknown handle
// returns ErrHandleNotFound.
func (e *Engine) AwaitResult(ctx context.Context, handle id.ExecutionID) (*execution.Result, error) {
	e.mu.Lock()
	p, ok := e.active[handle.String()]
	if !ok {
		e.mu.Unlock()
		return nil, n8n.ErrHandleNotFound
	}
	if p.consumed {
		e.mu.Unlock()
		return nil, n8n.ErrResultConsumed
	}
	e.mu.Unlock()

	select {
	case out := <-p.ch:
		e.mu.Lock()
		p.consumed = true
		e.mu.Unlock()
		if out.err != nil {
			return nil, out.err
		}
		return out.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

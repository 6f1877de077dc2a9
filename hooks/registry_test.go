package hooks_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/hooks"
	"github.com/gantoin/n8n/id"
)

// startOnlyHook opts in to ExecutionStarted only.
type startOnlyHook struct {
	started int
}

func (h *startOnlyHook) Name() string { return "start-only" }
func (h *startOnlyHook) OnExecutionStarted(_ context.Context, _ *execution.Run) error {
	h.started++
	return nil
}

// allEventsHook opts in to every lifecycle event.
type allEventsHook struct {
	started, finished, failed, shutdowns int
	err                                  error
}

func (h *allEventsHook) Name() string { return "all-events" }
func (h *allEventsHook) OnExecutionStarted(context.Context, *execution.Run) error {
	h.started++
	return h.err
}
func (h *allEventsHook) OnExecutionFinished(context.Context, *execution.Run, time.Duration) error {
	h.finished++
	return h.err
}
func (h *allEventsHook) OnExecutionFailed(context.Context, *execution.Run, error) error {
	h.failed++
	return h.err
}
func (h *allEventsHook) OnShutdown(context.Context) error {
	h.shutdowns++
	return h.err
}

func testRegistry() *hooks.Registry {
	return hooks.NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testRun() *execution.Run {
	return &execution.Run{ID: id.NewExecutionID(), Mode: execution.ModeCLI}
}

func TestRegistry_FanOut(t *testing.T) {
	reg := testRegistry()
	a := &startOnlyHook{}
	b := &allEventsHook{}
	reg.Register(a)
	reg.Register(b)

	ctx := context.Background()
	run := testRun()

	reg.EmitExecutionStarted(ctx, run)
	reg.EmitExecutionFinished(ctx, run, time.Second)
	reg.EmitExecutionFailed(ctx, run, errors.New("engine rejected"))
	reg.EmitShutdown(ctx)

	if a.started != 1 {
		t.Errorf("start-only started = %d, want 1", a.started)
	}
	if b.started != 1 || b.finished != 1 || b.failed != 1 || b.shutdowns != 1 {
		t.Errorf("all-events counts = %+v, want 1 each", b)
	}
}

func TestRegistry_HookErrorDoesNotAbort(t *testing.T) {
	reg := testRegistry()
	failing := &allEventsHook{err: errors.New("sink offline")}
	after := &startOnlyHook{}
	reg.Register(failing)
	reg.Register(after)

	reg.EmitExecutionStarted(context.Background(), testRun())

	// The failing hook must not prevent later hooks from firing.
	if after.started != 1 {
		t.Errorf("hook after failing hook fired %d times, want 1", after.started)
	}
}

func TestAuditHook_ImplementsLifecycle(t *testing.T) {
	reg := testRegistry()
	reg.Register(hooks.NewAuditHook(slog.New(slog.NewTextHandler(io.Discard, nil))))

	// Must not panic or error through any event.
	run := testRun()
	reg.EmitExecutionStarted(context.Background(), run)
	reg.EmitExecutionFinished(context.Background(), run, time.Millisecond)
	reg.EmitExecutionFailed(context.Background(), run, errors.New("boom"))
}

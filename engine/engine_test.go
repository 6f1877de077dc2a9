package engine_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/engine"
	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/id"
	"github.com/gantoin/n8n/middleware"
	"github.com/gantoin/n8n/workflow"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is a minimal in-memory execution.Store for engine tests.
type memStore struct {
	mu   sync.Mutex
	runs map[string]*execution.Run
}

func newMemStore() *memStore {
	return &memStore{runs: make(map[string]*execution.Run)}
}

func (s *memStore) CreateRun(_ context.Context, run *execution.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID.String()]; ok {
		return n8n.ErrRunAlreadyExists
	}
	cp := *run
	s.runs[run.ID.String()] = &cp
	return nil
}

func (s *memStore) GetRun(_ context.Context, runID id.ExecutionID) (*execution.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID.String()]
	if !ok {
		return nil, n8n.ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

func (s *memStore) UpdateRun(_ context.Context, run *execution.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID.String()]; !ok {
		return n8n.ErrRunNotFound
	}
	cp := *run
	s.runs[run.ID.String()] = &cp
	return nil
}

func (s *memStore) ListRuns(_ context.Context, _ execution.ListOpts) ([]*execution.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*execution.Run, 0, len(s.runs))
	for _, run := range s.runs {
		cp := *run
		out = append(out, &cp)
	}
	return out, nil
}

// spyEmitter counts lifecycle events.
type spyEmitter struct {
	mu       sync.Mutex
	started  int
	finished int
	failed   int
}

func (s *spyEmitter) EmitExecutionStarted(context.Context, *execution.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
}

func (s *spyEmitter) EmitExecutionFinished(context.Context, *execution.Run, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished++
}

func (s *spyEmitter) EmitExecutionFailed(context.Context, *execution.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed++
}

func testDefinition() *workflow.Definition {
	return &workflow.Definition{
		ID:   id.NewWorkflowID().String(),
		Name: "test workflow",
		Nodes: []workflow.Node{
			{Name: "Start", Type: workflow.StartNodeType},
		},
		Connections: map[string]workflow.NodeConnections{},
	}
}

func testRequest() *execution.Request {
	return &execution.Request{
		Mode:       execution.ModeCLI,
		StartNodes: []string{"Start"},
		Workflow:   testDefinition(),
	}
}

func okRunner(data map[string]any) engine.RunnerFunc {
	return func(_ context.Context, req *execution.Request) (*execution.Result, error) {
		now := time.Now().UTC()
		return &execution.Result{
			Finished:  true,
			Mode:      req.Mode,
			Data:      data,
			StartedAt: now,
			StoppedAt: now,
		}, nil
	}
}

func TestNew_RequiresRunnerAndStore(t *testing.T) {
	if _, err := engine.New(nil, newMemStore()); !errors.Is(err, n8n.ErrNoRunner) {
		t.Errorf("nil runner: err = %v, want ErrNoRunner", err)
	}
	if _, err := engine.New(okRunner(nil), nil); !errors.Is(err, n8n.ErrNoStore) {
		t.Errorf("nil store: err = %v, want ErrNoStore", err)
	}
}

func TestDispatch_AwaitSuccess(t *testing.T) {
	store := newMemStore()
	eng, err := engine.New(okRunner(map[string]any{"answer": "42"}), store,
		engine.WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	ctx := context.Background()
	handle, err := eng.Dispatch(ctx, testRequest())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if handle.Prefix() != "exec" {
		t.Errorf("handle prefix = %q, want %q", handle.Prefix(), "exec")
	}

	result, err := eng.AwaitResult(ctx, handle)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if !result.Finished {
		t.Error("result not marked finished")
	}
	if result.Data["answer"] != "42" {
		t.Errorf("result data = %v", result.Data)
	}

	run, err := store.GetRun(ctx, handle)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.State != execution.RunStateCompleted {
		t.Errorf("run state = %q, want completed", run.State)
	}
	if run.CompletedAt == nil {
		t.Error("run completed_at not set")
	}
	if len(run.Data) == 0 {
		t.Error("run data not persisted")
	}
}

func TestDispatch_ValidatesRequest(t *testing.T) {
	eng, err := engine.New(okRunner(nil), newMemStore(), engine.WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if _, err := eng.Dispatch(context.Background(), nil); !errors.Is(err, n8n.ErrUsage) {
		t.Errorf("nil request: err = %v, want ErrUsage", err)
	}
	if _, err := eng.Dispatch(context.Background(), &execution.Request{Workflow: nil}); !errors.Is(err, n8n.ErrUsage) {
		t.Errorf("nil workflow: err = %v, want ErrUsage", err)
	}

	req := testRequest()
	req.StartNodes = nil
	if _, err := eng.Dispatch(context.Background(), req); !errors.Is(err, n8n.ErrNoStartNode) {
		t.Errorf("no start nodes: err = %v, want ErrNoStartNode", err)
	}
}

func TestAwaitResult_EmbeddedError(t *testing.T) {
	runner := engine.RunnerFunc(func(_ context.Context, req *execution.Request) (*execution.Result, error) {
		now := time.Now().UTC()
		return &execution.Result{
			Finished: false,
			Mode:     req.Mode,
			Error: &execution.ResultError{
				Message: "node failed: boom",
				Stack:   "at Execute (node.go:12)",
			},
			StartedAt: now,
			StoppedAt: now,
		}, nil
	})

	store := newMemStore()
	eng, err := engine.New(runner, store, engine.WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	ctx := context.Background()
	handle, err := eng.Dispatch(ctx, testRequest())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	// An embedded error still delivers a result; the engine does not
	// convert it into a dispatch failure.
	result, err := eng.AwaitResult(ctx, handle)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if result.Error == nil {
		t.Fatal("expected embedded error")
	}
	if result.Error.Message != "node failed: boom" {
		t.Errorf("error message = %q", result.Error.Message)
	}
	if result.Error.Stack == "" {
		t.Error("error stack dropped")
	}

	run, err := store.GetRun(ctx, handle)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.State != execution.RunStateFailed {
		t.Errorf("run state = %q, want failed", run.State)
	}
	if run.Error != "node failed: boom" {
		t.Errorf("run error = %q", run.Error)
	}
}

func TestAwaitResult_RunnerError(t *testing.T) {
	want := errors.New("engine rejected request")
	runner := engine.RunnerFunc(func(context.Context, *execution.Request) (*execution.Result, error) {
		return nil, want
	})

	store := newMemStore()
	eng, err := engine.New(runner, store, engine.WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	ctx := context.Background()
	handle, err := eng.Dispatch(ctx, testRequest())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if _, err := eng.AwaitResult(ctx, handle); !errors.Is(err, want) {
		t.Fatalf("await: err = %v, want %v", err, want)
	}

	run, err := store.GetRun(ctx, handle)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.State != execution.RunStateFailed {
		t.Errorf("run state = %q, want failed", run.State)
	}
}

func TestAwaitResult_ConsumedOnce(t *testing.T) {
	eng, err := engine.New(okRunner(nil), newMemStore(), engine.WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	ctx := context.Background()
	handle, err := eng.Dispatch(ctx, testRequest())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if _, err := eng.AwaitResult(ctx, handle); err != nil {
		t.Fatalf("first await: %v", err)
	}
	if _, err := eng.AwaitResult(ctx, handle); !errors.Is(err, n8n.ErrResultConsumed) {
		t.Errorf("second await: err = %v, want ErrResultConsumed", err)
	}
}

func TestAwaitResult_UnknownHandle(t *testing.T) {
	eng, err := engine.New(okRunner(nil), newMemStore(), engine.WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	_, err = eng.AwaitResult(context.Background(), id.NewExecutionID())
	if !errors.Is(err, n8n.ErrHandleNotFound) {
		t.Errorf("err = %v, want ErrHandleNotFound", err)
	}
}

func TestAwaitResult_ContextCanceled(t *testing.T) {
	block := make(chan struct{})
	runner := engine.RunnerFunc(func(context.Context, *execution.Request) (*execution.Result, error) {
		<-block
		return &execution.Result{Finished: true}, nil
	})
	defer close(block)

	eng, err := engine.New(runner, newMemStore(), engine.WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	handle, err := eng.Dispatch(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := eng.AwaitResult(ctx, handle); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestDispatch_PanicRecoveredByMiddleware(t *testing.T) {
	runner := engine.RunnerFunc(func(context.Context, *execution.Request) (*execution.Result, error) {
		panic("node blew up")
	})

	eng, err := engine.New(runner, newMemStore(),
		engine.WithLogger(discardLogger()),
		engine.WithMiddleware(middleware.Recover(discardLogger())))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	ctx := context.Background()
	handle, err := eng.Dispatch(ctx, testRequest())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	_, err = eng.AwaitResult(ctx, handle)
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
}

func TestDispatch_EmitsLifecycleEvents(t *testing.T) {
	spy := &spyEmitter{}
	eng, err := engine.New(okRunner(nil), newMemStore(),
		engine.WithLogger(discardLogger()),
		engine.WithEmitter(spy))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	ctx := context.Background()
	handle, err := eng.Dispatch(ctx, testRequest())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if _, err := eng.AwaitResult(ctx, handle); err != nil {
		t.Fatalf("await: %v", err)
	}

	spy.mu.Lock()
	defer spy.mu.Unlock()
	if spy.started != 1 {
		t.Errorf("started events = %d, want 1", spy.started)
	}
	if spy.finished != 1 {
		t.Errorf("finished events = %d, want 1", spy.finished)
	}
	if spy.failed != 0 {
		t.Errorf("failed events = %d, want 0", spy.failed)
	}
}

package cli_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/cli"
	"github.com/gantoin/n8n/credentials"
	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/id"
	"github.com/gantoin/n8n/store"
	"github.com/gantoin/n8n/store/memory"
	"github.com/gantoin/n8n/workflow"
)

const minimalWorkflow = `{
	"name": "minimal",
	"nodes": [
		{"name": "Start", "type": "n8n-nodes-base.start", "typeVersion": 1}
	],
	"connections": {}
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeWorkflowFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workflow.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write workflow file: %v", err)
	}
	return path
}

// countingStore wraps the memory store and counts workflow lookups.
type countingStore struct {
	*memory.Store
	lookups atomic.Int32
}

func (c *countingStore) FindWorkflowByID(ctx context.Context, workflowID string) (*workflow.Definition, error) {
	c.lookups.Add(1)
	return c.Store.FindWorkflowByID(ctx, workflowID)
}

// countingRunner counts dispatches and captures the last request.
type countingRunner struct {
	calls  atomic.Int32
	result *execution.Result
	last   atomic.Pointer[execution.Request]
}

func (r *countingRunner) Run(_ context.Context, req *execution.Request) (*execution.Result, error) {
	r.calls.Add(1)
	r.last.Store(req)
	res := r.result
	if res == nil {
		now := time.Now().UTC()
		res = &execution.Result{
			Finished:  true,
			Mode:      req.Mode,
			Data:      map[string]any{"ok": true},
			StartedAt: now,
			StoppedAt: now,
		}
	}
	return res, nil
}

type fixture struct {
	app    *cli.App
	store  *countingStore
	runner *countingRunner
	opens  *atomic.Int32
	stdout *bytes.Buffer
}

func newFixture(t *testing.T, opts ...cli.AppOption) *fixture {
	t.Helper()

	cs := &countingStore{Store: memory.New()}
	runner := &countingRunner{}
	var opens atomic.Int32
	stdout := &bytes.Buffer{}

	base := []cli.AppOption{
		cli.WithConfig(n8n.DefaultConfig()),
		cli.WithLogger(discardLogger()),
		cli.WithStdout(stdout),
		cli.WithStderr(io.Discard),
		cli.WithRunner(runner),
		cli.WithStoreFactory(func(context.Context, n8n.Config, *slog.Logger) (store.Store, error) {
			opens.Add(1)
			return cs, nil
		}),
	}
	app := cli.NewApp(append(base, opts...)...)
	return &fixture{app: app, store: cs, runner: runner, opens: &opens, stdout: stdout}
}

func run(t *testing.T, f *fixture, args ...string) error {
	t.Helper()
	root := cli.NewRootCommand(f.app)
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestExecute_RequiresExactlyOneSource(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
	}{
		{"neither flag", []string{"execute"}},
		{"both flags", []string{"execute", "--id", "wf_x", "--file", "wf.json"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			err := run(t, f, tc.args...)
			if !errors.Is(err, n8n.ErrUsage) {
				t.Fatalf("err = %v, want ErrUsage", err)
			}
			if f.opens.Load() != 0 {
				t.Error("store opened despite usage error")
			}
			if f.store.lookups.Load() != 0 {
				t.Error("workflow lookup despite usage error")
			}
			if f.runner.calls.Load() != 0 {
				t.Error("dispatch happened despite usage error")
			}
		})
	}
}

func TestExecute_FileMissing(t *testing.T) {
	f := newFixture(t)
	err := run(t, f, "execute", "--file", filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, n8n.ErrWorkflowNotFound) {
		t.Fatalf("err = %v, want ErrWorkflowNotFound", err)
	}
	if f.runner.calls.Load() != 0 {
		t.Error("dispatch happened despite missing file")
	}
}

func TestExecute_FileInvalidFormat(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
	}{
		{"missing connections", `{"name": "x", "nodes": []}`},
		{"missing nodes", `{"name": "x", "connections": {}}`},
		{"not json", `{{{`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			path := writeWorkflowFile(t, tc.content)
			err := run(t, f, "execute", "--file", path)
			if !errors.Is(err, n8n.ErrInvalidFormat) {
				t.Fatalf("err = %v, want ErrInvalidFormat", err)
			}
			if f.runner.calls.Load() != 0 {
				t.Error("dispatch happened despite invalid format")
			}
		})
	}
}

func TestExecute_NoStartNode(t *testing.T) {
	f := newFixture(t)
	path := writeWorkflowFile(t, `{
		"name": "no start",
		"nodes": [{"name": "Fetch", "type": "n8n-nodes-base.httpRequest"}],
		"connections": {}
	}`)
	err := run(t, f, "execute", "--file", path)
	if !errors.Is(err, n8n.ErrNoStartNode) {
		t.Fatalf("err = %v, want ErrNoStartNode", err)
	}
	if f.runner.calls.Load() != 0 {
		t.Error("dispatch happened despite missing start node")
	}
}

func TestExecute_FileHappyPath(t *testing.T) {
	f := newFixture(t)
	path := writeWorkflowFile(t, minimalWorkflow)

	if err := run(t, f, "execute", "--file", path); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if f.runner.calls.Load() != 1 {
		t.Fatalf("runner calls = %d, want 1", f.runner.calls.Load())
	}

	out := f.stdout.String()
	if !strings.Contains(out, `"finished": true`) {
		t.Errorf("stdout missing finished flag: %s", out)
	}

	req := f.runner.last.Load()
	if req == nil {
		t.Fatal("runner received no request")
	}
	if req.Mode != execution.ModeCLI {
		t.Errorf("mode = %q, want cli", req.Mode)
	}
	if len(req.StartNodes) != 1 || req.StartNodes[0] != "Start" {
		t.Errorf("start nodes = %v, want [Start]", req.StartNodes)
	}
}

func TestExecute_StoredWorkflowByID(t *testing.T) {
	f := newFixture(t)

	def := &workflow.Definition{
		ID:   id.NewWorkflowID().String(),
		Name: "stored",
		Nodes: []workflow.Node{
			{Name: "Start", Type: workflow.StartNodeType},
		},
		Connections: map[string]workflow.NodeConnections{},
	}
	if err := f.store.SaveWorkflow(context.Background(), def); err != nil {
		t.Fatalf("seed workflow: %v", err)
	}

	if err := run(t, f, "execute", "--id", def.ID); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if f.store.lookups.Load() != 1 {
		t.Errorf("lookups = %d, want 1", f.store.lookups.Load())
	}
	if f.runner.calls.Load() != 1 {
		t.Errorf("runner calls = %d, want 1", f.runner.calls.Load())
	}
}

func TestExecute_StoredWorkflowMissing(t *testing.T) {
	f := newFixture(t)
	err := run(t, f, "execute", "--id", id.NewWorkflowID().String())
	if !errors.Is(err, n8n.ErrWorkflowNotFound) {
		t.Fatalf("err = %v, want ErrWorkflowNotFound", err)
	}
	if f.runner.calls.Load() != 0 {
		t.Error("dispatch happened despite unknown workflow id")
	}
}

func TestExecute_EmbeddedErrorBecomesExecutionError(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()
	f.runner.result = &execution.Result{
		Finished: false,
		Mode:     execution.ModeCLI,
		Error: &execution.ResultError{
			Message: "boom",
			Stack:   "at Execute (node.go:42)",
		},
		StartedAt: now,
		StoppedAt: now,
	}

	path := writeWorkflowFile(t, minimalWorkflow)
	err := run(t, f, "execute", "--file", path)

	var execErr *n8n.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("err = %v, want *n8n.ExecutionError", err)
	}
	if execErr.Message != "boom" {
		t.Errorf("message = %q, want boom", execErr.Message)
	}
	if execErr.Stack != "at Execute (node.go:42)" {
		t.Errorf("stack = %q", execErr.Stack)
	}
	if f.stdout.Len() != 0 {
		t.Errorf("payload printed despite embedded error: %s", f.stdout.String())
	}
}

func TestExecute_CustomStartMatcher(t *testing.T) {
	f := newFixture(t,
		cli.WithStartMatcher(workflow.MatchType("n8n-nodes-base.webhook")))
	path := writeWorkflowFile(t, `{
		"name": "webhook entry",
		"nodes": [
			{"name": "Start", "type": "n8n-nodes-base.start"},
			{"name": "Hook", "type": "n8n-nodes-base.webhook"}
		],
		"connections": {}
	}`)

	if err := run(t, f, "execute", "--file", path); err != nil {
		t.Fatalf("execute: %v", err)
	}
	req := f.runner.last.Load()
	if req == nil {
		t.Fatal("runner received no request")
	}
	if len(req.StartNodes) != 1 || req.StartNodes[0] != "Hook" {
		t.Errorf("start nodes = %v, want [Hook]", req.StartNodes)
	}
}

func TestExecute_ResolvesCredentialsWithOverwrites(t *testing.T) {
	cfg := n8n.DefaultConfig()
	cfg.CredentialOverwrites = `{"httpHeaderAuth": {"value": "token overwritten"}}`

	f := newFixture(t, cli.WithConfig(cfg))
	if err := f.store.SaveCredential(context.Background(), &credentials.Credential{
		ID:   id.NewCredentialID(),
		Name: "github",
		Type: "httpHeaderAuth",
		Data: map[string]any{"name": "Authorization", "value": "token stored"},
	}); err != nil {
		t.Fatalf("seed credential: %v", err)
	}

	path := writeWorkflowFile(t, `{
		"name": "with credentials",
		"nodes": [
			{"name": "Start", "type": "n8n-nodes-base.start"},
			{
				"name": "Fetch",
				"type": "n8n-nodes-base.httpRequest",
				"credentials": {"httpHeaderAuth": "github"}
			}
		],
		"connections": {}
	}`)

	if err := run(t, f, "execute", "--file", path); err != nil {
		t.Fatalf("execute: %v", err)
	}

	req := f.runner.last.Load()
	if req == nil {
		t.Fatal("runner received no request")
	}
	data, ok := req.Credentials["httpHeaderAuth"]["github"]
	if !ok {
		t.Fatalf("snapshot missing credential: %v", req.Credentials)
	}
	if data["value"] != "token overwritten" {
		t.Errorf("overwrite not applied: %v", data)
	}
	if data["name"] != "Authorization" {
		t.Errorf("stored field dropped: %v", data)
	}
}

func TestExecute_StoreFactoryFailureIsFatal(t *testing.T) {
	want := errors.New("connection refused")
	f := newFixture(t, cli.WithStoreFactory(
		func(context.Context, n8n.Config, *slog.Logger) (store.Store, error) {
			return nil, want
		}))

	err := run(t, f, "execute", "--id", id.NewWorkflowID().String())
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
	if f.runner.calls.Load() != 0 {
		t.Error("dispatch happened despite store failure")
	}
}

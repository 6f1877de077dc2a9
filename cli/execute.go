package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/boot"
	"github.com/gantoin/n8n/credentials"
	"github.com/gantoin/n8n/engine"
	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/hooks"
	"github.com/gantoin/n8n/registry"
	"github.com/gantoin/n8n/store"
	"github.com/gantoin/n8n/workflow"
)

// executeOptions carries the execute command's flag values.
type executeOptions struct {
	WorkflowID string
	File       string
}

func newExecuteCommand(app *App) *cobra.Command {
	var opts executeOptions

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Execute a workflow once and print its result",
		Long: `Execute runs exactly one workflow to completion and prints the
result payload to stdout. The workflow comes either from a JSON file
(--file) or from the configured store (--id); exactly one of the two
must be given.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runExecute(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.WorkflowID, "id", "", "id of the stored workflow to execute")
	cmd.Flags().StringVar(&opts.File, "file", "", "path of a workflow definition file to execute")
	return cmd
}

// runExecute is the whole lifetime of the process: resolve the
// workflow, validate its start node, dispatch it and classify the one
// result.
func (a *App) runExecute(ctx context.Context, opts executeOptions) error {
	// Source arbitration happens before any I/O.
	if (opts.WorkflowID == "") == (opts.File == "") {
		return fmt.Errorf("%w: exactly one of --id or --file must be given", n8n.ErrUsage)
	}

	// Kick off every subsystem now; each readiness point is awaited
	// where its result is first needed.
	storeTask := boot.Go(ctx, func(ctx context.Context) (store.Store, error) {
		st, err := a.openStore(ctx, a.cfg, a.logger)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate store: %w", err)
		}
		return st, nil
	})
	typesTask := boot.Go(ctx, func(ctx context.Context) (*registry.Types, error) {
		return registry.LoadAll(ctx, a.loaders...)
	})
	overwritesTask := boot.Go(ctx, func(_ context.Context) (credentials.Overwrites, error) {
		return credentials.ParseOverwrites(a.cfg.CredentialOverwrites)
	})
	hooksTask := boot.Go(ctx, func(_ context.Context) (*hooks.Registry, error) {
		reg := hooks.NewRegistry(a.logger)
		for _, h := range a.hooks {
			reg.Register(h)
		}
		return reg, nil
	})

	defer a.shutdown(ctx, storeTask, hooksTask)

	def, err := a.resolveSource(ctx, opts, storeTask)
	if err != nil {
		return err
	}
	a.logger.Debug("workflow resolved", "workflow_id", def.ID, "workflow_name", def.Name)

	start, err := workflow.FindStartNode(def, a.match)
	if err != nil {
		return err
	}

	types, err := typesTask.Await(ctx)
	if err != nil {
		return fmt.Errorf("load node types: %w", err)
	}
	regs := registry.NewRegistries(types)
	for _, node := range def.Nodes {
		if node.Disabled {
			continue
		}
		if _, known := regs.Nodes.Get(node.Type); !known {
			a.logger.Warn("unknown node type", "node", node.Name, "type", node.Type)
		}
	}

	st, err := storeTask.Await(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	overwrites, err := overwritesTask.Await(ctx)
	if err != nil {
		return fmt.Errorf("parse credential overwrites: %w", err)
	}

	resolver := credentials.NewResolver(st, overwrites, a.logger)
	snapshot, err := resolver.Resolve(ctx, def.Nodes)
	if err != nil {
		return fmt.Errorf("resolve credentials: %w", err)
	}

	hreg, err := hooksTask.Await(ctx)
	if err != nil {
		return fmt.Errorf("register hooks: %w", err)
	}

	engOpts := []engine.Option{
		engine.WithLogger(a.logger),
		engine.WithEmitter(&registryEmitter{reg: hreg}),
	}
	for _, m := range a.mws {
		engOpts = append(engOpts, engine.WithMiddleware(m))
	}
	eng, err := engine.New(a.runner, st, engOpts...)
	if err != nil {
		return err
	}

	req := &execution.Request{
		Credentials: snapshot,
		Mode:        execution.ModeCLI,
		StartNodes:  []string{start.Name},
		Workflow:    def,
	}
	handle, err := eng.Dispatch(ctx, req)
	if err != nil {
		return err
	}

	result, err := eng.AwaitResult(ctx, handle)
	if err != nil {
		return err
	}
	return a.classify(result)
}

// resolveSource produces the workflow definition named by the flags.
// The file path never touches the store; the id path awaits storage
// readiness first.
func (a *App) resolveSource(ctx context.Context, opts executeOptions, storeTask *boot.Task[store.Store]) (*workflow.Definition, error) {
	if opts.File != "" {
		return workflow.LoadFile(opts.File)
	}

	st, err := storeTask.Await(ctx)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st.FindWorkflowByID(ctx, opts.WorkflowID)
}

// classify turns the engine's one result into the process outcome. A
// result embedding an error is logged in full and surfaces as an
// ExecutionError carrying the original message and stack; otherwise the
// payload goes to stdout.
func (a *App) classify(result *execution.Result) error {
	if result == nil {
		return fmt.Errorf("n8n: engine delivered no result")
	}

	if result.Error != nil {
		dump, err := json.Marshal(result)
		if err != nil {
			dump = []byte(result.Error.Message)
		}
		a.logger.Info("execution finished with error", "result", string(dump))
		return &n8n.ExecutionError{
			Message: result.Error.Message,
			Stack:   result.Error.Stack,
		}
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("n8n: marshal result payload: %w", err)
	}
	fmt.Fprintln(a.stdout, string(payload))
	return nil
}

// shutdown releases subsystems that finished initializing. Tasks still
// in flight are left alone; the process is exiting anyway.
func (a *App) shutdown(ctx context.Context, storeTask *boot.Task[store.Store], hooksTask *boot.Task[*hooks.Registry]) {
	if hooksTask.Ready() {
		if hreg, err := hooksTask.Await(ctx); err == nil {
			hreg.EmitShutdown(ctx)
		}
	}
	if storeTask.Ready() {
		if st, err := storeTask.Await(ctx); err == nil {
			if cerr := st.Close(); cerr != nil {
				a.logger.Warn("close store", "error", cerr)
			}
		}
	}
}

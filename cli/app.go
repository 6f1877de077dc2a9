// Package cli implements the n8n command tree. The execute command
// resolves a workflow from a file or the store, validates its start
// node, dispatches it through the engine and classifies the outcome.
//
// Every subsystem the command needs (storage, type registries,
// credential overwrites, hooks) starts initializing asynchronously at
// entry and is awaited where first needed, so source resolution
// overlaps with backend connection setup.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/engine"
	"github.com/gantoin/n8n/hooks"
	"github.com/gantoin/n8n/middleware"
	"github.com/gantoin/n8n/registry"
	"github.com/gantoin/n8n/store"
	"github.com/gantoin/n8n/workflow"
)

// StoreFactory opens the storage backend selected by cfg.
type StoreFactory func(ctx context.Context, cfg n8n.Config, logger *slog.Logger) (store.Store, error)

// App bundles the collaborators the command tree operates on. All of
// them are injectable; NewApp fills in production defaults.
type App struct {
	cfg    n8n.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer

	openStore StoreFactory
	runner    engine.Runner
	loaders   []registry.Loader
	match     workflow.StartMatcher
	hooks     []hooks.Hook
	mws       []middleware.Middleware
}

// AppOption configures an App.
type AppOption func(*App)

// WithConfig sets the runtime configuration. If not set, FromEnv() is
// used.
func WithConfig(cfg n8n.Config) AppOption {
	return func(a *App) { a.cfg = cfg }
}

// WithLogger sets the logger. If not set, a text handler on stderr at
// the configured level is used.
func WithLogger(l *slog.Logger) AppOption {
	return func(a *App) { a.logger = l }
}

// WithStdout sets the writer for result payloads.
func WithStdout(w io.Writer) AppOption {
	return func(a *App) { a.stdout = w }
}

// WithStderr sets the writer for diagnostics.
func WithStderr(w io.Writer) AppOption {
	return func(a *App) { a.stderr = w }
}

// WithStoreFactory sets the function that opens the storage backend.
func WithStoreFactory(f StoreFactory) AppOption {
	return func(a *App) { a.openStore = f }
}

// WithRunner sets the execution runner dispatched runs go through.
func WithRunner(r engine.Runner) AppOption {
	return func(a *App) { a.runner = r }
}

// WithLoaders replaces the node and credential type loaders.
func WithLoaders(loaders ...registry.Loader) AppOption {
	return func(a *App) { a.loaders = loaders }
}

// WithStartMatcher sets the predicate that selects the start node. If
// not set, workflow.DefaultStartMatcher is used.
func WithStartMatcher(m workflow.StartMatcher) AppOption {
	return func(a *App) { a.match = m }
}

// WithHooks replaces the lifecycle hooks registered with the engine.
func WithHooks(hs ...hooks.Hook) AppOption {
	return func(a *App) { a.hooks = hs }
}

// WithMiddleware replaces the middleware chain wrapped around the
// runner.
func WithMiddleware(mws ...middleware.Middleware) AppOption {
	return func(a *App) { a.mws = mws }
}

// NewApp creates an App with production defaults, then applies opts.
func NewApp(opts ...AppOption) *App {
	a := &App{
		cfg:       n8n.FromEnv(),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		openStore: openStore,
		runner:    engine.NopRunner(),
		loaders:   []registry.Loader{registry.BaseNodes(), registry.BaseCredentials()},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{
			Level: parseLevel(a.cfg.LogLevel),
		}))
	}
	if a.hooks == nil {
		a.hooks = []hooks.Hook{hooks.NewAuditHook(a.logger)}
	}
	if a.mws == nil {
		a.mws = []middleware.Middleware{
			middleware.Recover(a.logger),
			middleware.Logging(a.logger),
			middleware.Tracing(),
			middleware.Metrics(),
			middleware.Timeout(a.logger),
		}
	}
	return a
}

// parseLevel maps a config level string onto a slog.Level. Unknown
// strings fall back to info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

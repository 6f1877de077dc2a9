// Package store defines the aggregate persistence interface. Each
// subsystem (workflow, credentials, execution) defines its own store
// interface. The composite Store composes them all. Backends: Postgres,
// Bun, Redis, Mongo, and Memory.
package store

import (
	"context"

	"github.com/gantoin/n8n/credentials"
	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/workflow"
)

// Store is the aggregate persistence interface. Each subsystem store
// is a composable interface; a single backend implements all of them.
type Store interface {
	workflow.Store
	credentials.Store
	execution.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks database connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}

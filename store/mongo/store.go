package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/gantoin/n8n/credentials"
	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/workflow"
)

// Collection name constants.
const (
	colWorkflows   = "n8n_workflows"
	colCredentials = "n8n_credentials"
	colRuns        = "n8n_execution_runs"
)

// Ensure Store implements all subsystem interfaces at compile time.
var (
	_ workflow.Store    = (*Store)(nil)
	_ credentials.Store = (*Store)(nil)
	_ execution.Store   = (*Store)(nil)
)

// Store is a MongoDB implementation of store.Store. The caller owns the
// client lifecycle; Store never disconnects it.
type Store struct {
	db     *mongod.Database
	logger *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a new MongoDB store on the given database handle.
func New(db *mongod.Database, opts ...Option) *Store {
	s := &Store{
		db:     db,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Database returns the underlying *mongo.Database for advanced usage.
func (s *Store) Database() *mongod.Database {
	return s.db
}

// Migrate creates the indexes each collection needs.
func (s *Store) Migrate(ctx context.Context) error {
	credentialIndexes := []mongod.IndexModel{
		{
			Keys:    bson.D{{Key: "type", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := s.db.Collection(colCredentials).Indexes().CreateMany(ctx, credentialIndexes); err != nil {
		return fmt.Errorf("n8n/mongo: create credential indexes: %w", err)
	}

	runIndexes := []mongod.IndexModel{
		{Keys: bson.D{{Key: "workflow_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "state", Value: 1}}},
	}
	if _, err := s.db.Collection(colRuns).Indexes().CreateMany(ctx, runIndexes); err != nil {
		return fmt.Errorf("n8n/mongo: create run indexes: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// Close is a no-op; the caller owns the client lifecycle.
func (s *Store) Close() error {
	return nil
}

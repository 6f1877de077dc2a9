package execution

import (
	"context"

	"github.com/gantoin/n8n/id"
)

// ListOpts controls filtering and pagination for run list queries.
type ListOpts struct {
	// Limit is the maximum number of runs to return. Zero means no limit.
	Limit int
	// Offset is the number of runs to skip.
	Offset int
	// State filters by run state. Empty means all states.
	State RunState
}

// Store defines the persistence contract for execution runs.
type Store interface {
	// CreateRun persists a new execution run.
	CreateRun(ctx context.Context, run *Run) error

	// GetRun retrieves an execution run by ID. Returns n8n.ErrRunNotFound
	// when no record matches.
	GetRun(ctx context.Context, runID id.ExecutionID) (*Run, error)

	// UpdateRun persists changes to an existing execution run.
	UpdateRun(ctx context.Context, run *Run) error

	// ListRuns returns execution runs matching the given options, oldest
	// first.
	ListRuns(ctx context.Context, opts ListOpts) ([]*Run, error)
}

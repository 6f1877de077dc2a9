package workflow

import "context"

// Store defines the persistence contract for workflow definitions.
type Store interface {
	// SaveWorkflow persists a workflow definition, replacing any
	// existing definition with the same ID.
	SaveWorkflow(ctx context.Context, def *Definition) error

	// FindWorkflowByID retrieves a workflow definition by its stored
	// identifier. Returns n8n.ErrWorkflowNotFound when no record matches.
	FindWorkflowByID(ctx context.Context, workflowID string) (*Definition, error)
}

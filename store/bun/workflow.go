package bunstore

import (
	"context"
	"fmt"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/workflow"
)

// SaveWorkflow persists a workflow definition, replacing any existing
// definition with the same ID.
func (s *Store) SaveWorkflow(ctx context.Context, def *workflow.Definition) error {
	m, err := toWorkflowModel(def)
	if err != nil {
		return err
	}
	_, err = s.db.NewInsert().Model(m).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("active = EXCLUDED.active").
		Set("nodes = EXCLUDED.nodes").
		Set("connections = EXCLUDED.connections").
		Set("settings = EXCLUDED.settings").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("n8n/bun: save workflow: %w", err)
	}
	return nil
}

// FindWorkflowByID retrieves a workflow definition by its stored
// identifier.
func (s *Store) FindWorkflowByID(ctx context.Context, workflowID string) (*workflow.Definition, error) {
	m := new(workflowModel)
	err := s.db.NewSelect().Model(m).
		Where("id = ?", workflowID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, n8n.ErrWorkflowNotFound
		}
		return nil, fmt.Errorf("n8n/bun: find workflow: %w", err)
	}
	return fromWorkflowModel(m)
}

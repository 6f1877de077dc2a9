package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/workflow"
)

// SaveWorkflow persists a workflow definition, replacing any existing
// definition with the same ID.
func (s *Store) SaveWorkflow(ctx context.Context, def *workflow.Definition) error {
	nodes, err := json.Marshal(def.Nodes)
	if err != nil {
		return fmt.Errorf("n8n/postgres: marshal nodes: %w", err)
	}
	conns, err := json.Marshal(def.Connections)
	if err != nil {
		return fmt.Errorf("n8n/postgres: marshal connections: %w", err)
	}
	var settings []byte
	if def.Settings != nil {
		settings, err = json.Marshal(def.Settings)
		if err != nil {
			return fmt.Errorf("n8n/postgres: marshal settings: %w", err)
		}
	}

	createdAt := def.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO n8n_workflows (
			id, name, active, nodes, connections, settings, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			name        = EXCLUDED.name,
			active      = EXCLUDED.active,
			nodes       = EXCLUDED.nodes,
			connections = EXCLUDED.connections,
			settings    = EXCLUDED.settings,
			updated_at  = NOW()`,
		def.ID, def.Name, def.Active, nodes, conns, settings, createdAt,
	)
	if err != nil {
		return fmt.Errorf("n8n/postgres: save workflow: %w", err)
	}
	return nil
}

// FindWorkflowByID retrieves a workflow definition by its stored
// identifier.
func (s *Store) FindWorkflowByID(ctx context.Context, workflowID string) (*workflow.Definition, error) {
	var (
		def      workflow.Definition
		nodes    []byte
		conns    []byte
		settings []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, active, nodes, connections, settings, created_at, updated_at
		FROM n8n_workflows
		WHERE id = $1`,
		workflowID,
	).Scan(&def.ID, &def.Name, &def.Active, &nodes, &conns, &settings,
		&def.CreatedAt, &def.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, n8n.ErrWorkflowNotFound
		}
		return nil, fmt.Errorf("n8n/postgres: find workflow: %w", err)
	}

	if err := json.Unmarshal(nodes, &def.Nodes); err != nil {
		return nil, fmt.Errorf("n8n/postgres: unmarshal nodes: %w", err)
	}
	if err := json.Unmarshal(conns, &def.Connections); err != nil {
		return nil, fmt.Errorf("n8n/postgres: unmarshal connections: %w", err)
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &def.Settings); err != nil {
			return nil, fmt.Errorf("n8n/postgres: unmarshal settings: %w", err)
		}
	}
	return &def, nil
}

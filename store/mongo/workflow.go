package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

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
	_, err = s.db.Collection(colWorkflows).ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: m.ID}},
		m,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("n8n/mongo: save workflow: %w", err)
	}
	return nil
}

// FindWorkflowByID retrieves a workflow definition by its stored
// identifier.
func (s *Store) FindWorkflowByID(ctx context.Context, workflowID string) (*workflow.Definition, error) {
	m := new(workflowModel)
	err := s.db.Collection(colWorkflows).
		FindOne(ctx, bson.D{{Key: "_id", Value: workflowID}}).
		Decode(m)
	if err != nil {
		if errors.Is(err, mongod.ErrNoDocuments) {
			return nil, n8n.ErrWorkflowNotFound
		}
		return nil, fmt.Errorf("n8n/mongo: find workflow: %w", err)
	}
	return fromWorkflowModel(m)
}

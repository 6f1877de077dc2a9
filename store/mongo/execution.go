package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/id"
)

// CreateRun persists a new execution run.
func (s *Store) CreateRun(ctx context.Context, run *execution.Run) error {
	m := toRunModel(run)
	_, err := s.db.Collection(colRuns).InsertOne(ctx, m)
	if err != nil {
		if mongod.IsDuplicateKeyError(err) {
			return n8n.ErrRunAlreadyExists
		}
		return fmt.Errorf("n8n/mongo: create run: %w", err)
	}
	return nil
}

// GetRun retrieves an execution run by ID.
func (s *Store) GetRun(ctx context.Context, runID id.ExecutionID) (*execution.Run, error) {
	m := new(runModel)
	err := s.db.Collection(colRuns).
		FindOne(ctx, bson.D{{Key: "_id", Value: runID.String()}}).
		Decode(m)
	if err != nil {
		if errors.Is(err, mongod.ErrNoDocuments) {
			return nil, n8n.ErrRunNotFound
		}
		return nil, fmt.Errorf("n8n/mongo: get run: %w", err)
	}
	return fromRunModel(m)
}

// UpdateRun persists changes to an existing execution run.
func (s *Store) UpdateRun(ctx context.Context, run *execution.Run) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "state", Value: string(run.State)},
		{Key: "data", Value: run.Data},
		{Key: "error", Value: run.Error},
		{Key: "completed_at", Value: run.CompletedAt},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	res, err := s.db.Collection(colRuns).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: run.ID.String()}}, update)
	if err != nil {
		return fmt.Errorf("n8n/mongo: update run: %w", err)
	}
	if res.MatchedCount == 0 {
		return n8n.ErrRunNotFound
	}
	return nil
}

// ListRuns returns execution runs matching the given options, oldest
// first.
func (s *Store) ListRuns(ctx context.Context, opts execution.ListOpts) ([]*execution.Run, error) {
	filter := bson.D{}
	if opts.State != "" {
		filter = append(filter, bson.E{Key: "state", Value: string(opts.State)})
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if opts.Limit > 0 {
		findOpts = findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts = findOpts.SetSkip(int64(opts.Offset))
	}

	cursor, err := s.db.Collection(colRuns).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("n8n/mongo: list runs: %w", err)
	}
	defer cursor.Close(ctx) //nolint:errcheck // read-only cursor

	var runs []*execution.Run
	for cursor.Next(ctx) {
		m := new(runModel)
		if decErr := cursor.Decode(m); decErr != nil {
			return nil, fmt.Errorf("n8n/mongo: decode run: %w", decErr)
		}
		r, convErr := fromRunModel(m)
		if convErr != nil {
			return nil, fmt.Errorf("n8n/mongo: list runs convert: %w", convErr)
		}
		runs = append(runs, r)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("n8n/mongo: list runs: %w", err)
	}
	return runs, nil
}

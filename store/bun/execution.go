package bunstore

import (
	"context"
	"fmt"
	"time"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/id"
)

// CreateRun persists a new execution run.
func (s *Store) CreateRun(ctx context.Context, run *execution.Run) error {
	m := toRunModel(run)
	_, err := s.db.NewInsert().Model(m).Exec(ctx)
	if err != nil {
		if isDuplicateKey(err) {
			return n8n.ErrRunAlreadyExists
		}
		return fmt.Errorf("n8n/bun: create run: %w", err)
	}
	return nil
}

// GetRun retrieves an execution run by ID.
func (s *Store) GetRun(ctx context.Context, runID id.ExecutionID) (*execution.Run, error) {
	m := new(runModel)
	err := s.db.NewSelect().Model(m).
		Where("id = ?", runID.String()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, n8n.ErrRunNotFound
		}
		return nil, fmt.Errorf("n8n/bun: get run: %w", err)
	}
	return fromRunModel(m)
}

// UpdateRun persists changes to an existing execution run.
func (s *Store) UpdateRun(ctx context.Context, run *execution.Run) error {
	m := toRunModel(run)
	m.UpdatedAt = time.Now().UTC()
	res, err := s.db.NewUpdate().Model(m).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("n8n/bun: update run: %w", err)
	}
	rows, _ := res.RowsAffected() //nolint:errcheck // driver always returns nil
	if rows == 0 {
		return n8n.ErrRunNotFound
	}
	return nil
}

// ListRuns returns execution runs matching the given options, oldest
// first.
func (s *Store) ListRuns(ctx context.Context, opts execution.ListOpts) ([]*execution.Run, error) {
	var models []runModel
	q := s.db.NewSelect().Model(&models)

	if opts.State != "" {
		q = q.Where("state = ?", string(opts.State))
	}

	q = q.OrderExpr("created_at ASC")

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("n8n/bun: list runs: %w", err)
	}

	runs := make([]*execution.Run, 0, len(models))
	for i := range models {
		r, convErr := fromRunModel(&models[i])
		if convErr != nil {
			return nil, fmt.Errorf("n8n/bun: list runs convert: %w", convErr)
		}
		runs = append(runs, r)
	}
	return runs, nil
}

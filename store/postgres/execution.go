package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/id"
)

// CreateRun persists a new execution run.
func (s *Store) CreateRun(ctx context.Context, run *execution.Run) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO n8n_execution_runs (
			id, workflow_id, workflow_name, mode, state, data, error,
			timeout, started_at, completed_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12
		)`,
		run.ID.String(), run.WorkflowID, run.WorkflowName, string(run.Mode),
		string(run.State), run.Data, run.Error,
		run.Timeout.Nanoseconds(), run.StartedAt, run.CompletedAt,
		run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return n8n.ErrRunAlreadyExists
		}
		return fmt.Errorf("n8n/postgres: create run: %w", err)
	}
	return nil
}

// GetRun retrieves an execution run by ID.
func (s *Store) GetRun(ctx context.Context, runID id.ExecutionID) (*execution.Run, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, workflow_id, workflow_name, mode, state, data, error,
		       timeout, started_at, completed_at, created_at, updated_at
		FROM n8n_execution_runs
		WHERE id = $1`,
		runID.String(),
	)
	run, err := scanRun(row)
	if err != nil {
		if isNoRows(err) {
			return nil, n8n.ErrRunNotFound
		}
		return nil, fmt.Errorf("n8n/postgres: get run: %w", err)
	}
	return run, nil
}

// UpdateRun persists changes to an existing execution run.
func (s *Store) UpdateRun(ctx context.Context, run *execution.Run) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE n8n_execution_runs SET
			state        = $2,
			data         = $3,
			error        = $4,
			completed_at = $5,
			updated_at   = NOW()
		WHERE id = $1`,
		run.ID.String(), string(run.State), run.Data, run.Error, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("n8n/postgres: update run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return n8n.ErrRunNotFound
	}
	return nil
}

// ListRuns returns execution runs matching the given options, oldest
// first.
func (s *Store) ListRuns(ctx context.Context, opts execution.ListOpts) ([]*execution.Run, error) {
	query := `
		SELECT id, workflow_id, workflow_name, mode, state, data, error,
		       timeout, started_at, completed_at, created_at, updated_at
		FROM n8n_execution_runs`
	args := []any{}

	if opts.State != "" {
		query += ` WHERE state = $1`
		args = append(args, string(opts.State))
	}
	query += ` ORDER BY created_at ASC`
	if opts.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, opts.Limit)
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(` OFFSET %d`, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("n8n/postgres: list runs: %w", err)
	}
	defer rows.Close()

	var runs []*execution.Run
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("n8n/postgres: scan run: %w", scanErr)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("n8n/postgres: list runs: %w", err)
	}
	return runs, nil
}

// scanRun reads one execution run from a row.
func scanRun(row pgx.Row) (*execution.Run, error) {
	var (
		run       execution.Run
		rawID     string
		mode      string
		state     string
		timeoutNs int64
	)
	err := row.Scan(&rawID, &run.WorkflowID, &run.WorkflowName, &mode, &state,
		&run.Data, &run.Error, &timeoutNs, &run.StartedAt, &run.CompletedAt,
		&run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return nil, err
	}

	runID, err := id.ParseExecutionID(rawID)
	if err != nil {
		return nil, err
	}
	run.ID = runID
	run.Mode = execution.Mode(mode)
	run.State = execution.RunState(state)
	run.Timeout = time.Duration(timeoutNs)
	return &run, nil
}

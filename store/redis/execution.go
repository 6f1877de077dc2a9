package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/id"
)

// CreateRun persists a new execution run.
func (s *Store) CreateRun(ctx context.Context, run *execution.Run) error {
	rID := run.ID.String()
	key := runKey(rID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("n8n/redis: create run exists: %w", err)
	}
	if exists > 0 {
		return n8n.ErrRunAlreadyExists
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, runToMap(run))
	pipe.SAdd(ctx, runIDsKey, rID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("n8n/redis: create run: %w", err)
	}
	return nil
}

// GetRun retrieves an execution run by ID.
func (s *Store) GetRun(ctx context.Context, runID id.ExecutionID) (*execution.Run, error) {
	vals, err := s.client.HGetAll(ctx, runKey(runID.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("n8n/redis: get run: %w", err)
	}
	if len(vals) == 0 {
		return nil, n8n.ErrRunNotFound
	}
	return mapToRun(vals)
}

// UpdateRun persists changes to an existing execution run.
func (s *Store) UpdateRun(ctx context.Context, run *execution.Run) error {
	key := runKey(run.ID.String())
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("n8n/redis: update run exists: %w", err)
	}
	if exists == 0 {
		return n8n.ErrRunNotFound
	}

	m := runToMap(run)
	m["updated_at"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.client.HSet(ctx, key, m).Result(); err != nil {
		return fmt.Errorf("n8n/redis: update run: %w", err)
	}
	return nil
}

// ListRuns returns execution runs matching the given options, oldest
// first.
func (s *Store) ListRuns(ctx context.Context, opts execution.ListOpts) ([]*execution.Run, error) {
	ids, err := s.client.SMembers(ctx, runIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("n8n/redis: list runs smembers: %w", err)
	}

	var runs []*execution.Run
	for _, rID := range ids {
		vals, getErr := s.client.HGetAll(ctx, runKey(rID)).Result()
		if getErr != nil || len(vals) == 0 {
			continue
		}
		r, convErr := mapToRun(vals)
		if convErr != nil {
			continue
		}
		if opts.State != "" && r.State != opts.State {
			continue
		}
		runs = append(runs, r)
	}

	sort.Slice(runs, func(i, k int) bool {
		return runs[i].CreatedAt.Before(runs[k].CreatedAt)
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(runs) {
			return nil, nil
		}
		runs = runs[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(runs) {
		runs = runs[:opts.Limit]
	}
	return runs, nil
}

func runToMap(run *execution.Run) map[string]any {
	m := map[string]any{
		"id":            run.ID.String(),
		"workflow_id":   run.WorkflowID,
		"workflow_name": run.WorkflowName,
		"mode":          string(run.Mode),
		"state":         string(run.State),
		"data":          string(run.Data),
		"error":         run.Error,
		"timeout":       strconv.FormatInt(run.Timeout.Nanoseconds(), 10),
		"started_at":    run.StartedAt.UTC().Format(time.RFC3339Nano),
		"created_at":    run.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":    run.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if run.CompletedAt != nil {
		m["completed_at"] = run.CompletedAt.UTC().Format(time.RFC3339Nano)
	}
	return m
}

func mapToRun(vals map[string]string) (*execution.Run, error) {
	runID, err := id.ParseExecutionID(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("n8n/redis: parse run id %q: %w", vals["id"], err)
	}

	run := &execution.Run{
		ID:           runID,
		WorkflowID:   vals["workflow_id"],
		WorkflowName: vals["workflow_name"],
		Mode:         execution.Mode(vals["mode"]),
		State:        execution.RunState(vals["state"]),
		Error:        vals["error"],
		StartedAt:    parseTime(vals["started_at"]),
		CreatedAt:    parseTime(vals["created_at"]),
		UpdatedAt:    parseTime(vals["updated_at"]),
	}
	if raw := vals["data"]; raw != "" {
		run.Data = []byte(raw)
	}
	if raw := vals["timeout"]; raw != "" {
		ns, _ := strconv.ParseInt(raw, 10, 64) //nolint:errcheck // zero on failure
		run.Timeout = time.Duration(ns)
	}
	if raw, ok := vals["completed_at"]; ok && raw != "" {
		t := parseTime(raw)
		run.CompletedAt = &t
	}
	return run, nil
}

// Package memory provides a fully in-memory store backend. Safe for
// concurrent access. Intended for unit testing, development, and
// single-shot CLI runs that do not need persistence.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/credentials"
	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/id"
	"github.com/gantoin/n8n/workflow"
)

// Ensure Store implements store.Store at compile time.
// We can't import store here (import cycle), so we verify each subsystem.
var (
	_ workflow.Store    = (*Store)(nil)
	_ credentials.Store = (*Store)(nil)
	_ execution.Store   = (*Store)(nil)
)

// Store is a fully in-memory implementation of store.Store.
type Store struct {
	mu sync.RWMutex

	workflows map[string]*workflow.Definition
	creds     map[string]*credentials.Credential // key: "type:name"
	runs      map[string]*execution.Run
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		workflows: make(map[string]*workflow.Definition),
		creds:     make(map[string]*credentials.Credential),
		runs:      make(map[string]*execution.Run),
	}
}

// Migrate is a no-op for the memory store.
func (m *Store) Migrate(_ context.Context) error { return nil }

// Ping always succeeds for the memory store.
func (m *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (m *Store) Close() error { return nil }

// SaveWorkflow persists a workflow definition, replacing any existing
// definition with the same ID.
func (m *Store) SaveWorkflow(_ context.Context, def *workflow.Definition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *def
	m.workflows[def.ID] = &cp
	return nil
}

// FindWorkflowByID retrieves a workflow definition by ID.
func (m *Store) FindWorkflowByID(_ context.Context, workflowID string) (*workflow.Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	def, ok := m.workflows[workflowID]
	if !ok {
		return nil, n8n.ErrWorkflowNotFound
	}
	// Return a copy so callers can mutate without racing with the store.
	cp := *def
	return &cp, nil
}

func credKey(credType, name string) string {
	return credType + ":" + name
}

// SaveCredential persists a credential, replacing any existing one with
// the same type and name.
func (m *Store) SaveCredential(_ context.Context, cred *credentials.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *cred
	m.creds[credKey(cred.Type, cred.Name)] = &cp
	return nil
}

// FindCredential retrieves a credential by type and name.
func (m *Store) FindCredential(_ context.Context, credType, name string) (*credentials.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cred, ok := m.creds[credKey(credType, name)]
	if !ok {
		return nil, n8n.ErrCredentialNotFound
	}
	cp := *cred
	return &cp, nil
}

// CreateRun persists a new execution run.
func (m *Store) CreateRun(_ context.Context, run *execution.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := run.ID.String()
	if _, exists := m.runs[key]; exists {
		return n8n.ErrRunAlreadyExists
	}
	cp := *run
	m.runs[key] = &cp
	return nil
}

// GetRun retrieves an execution run by ID.
func (m *Store) GetRun(_ context.Context, runID id.ExecutionID) (*execution.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[runID.String()]
	if !ok {
		return nil, n8n.ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

// UpdateRun persists changes to an existing execution run.
func (m *Store) UpdateRun(_ context.Context, run *execution.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := run.ID.String()
	if _, exists := m.runs[key]; !exists {
		return n8n.ErrRunNotFound
	}
	cp := *run
	cp.UpdatedAt = time.Now().UTC()
	m.runs[key] = &cp
	return nil
}

// ListRuns returns execution runs matching opts, oldest first.
func (m *Store) ListRuns(_ context.Context, opts execution.ListOpts) ([]*execution.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*execution.Run, 0, len(m.runs))
	for _, run := range m.runs {
		if opts.State != "" && run.State != opts.State {
			continue
		}
		cp := *run
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, k int) bool {
		return result[i].CreatedAt.Before(result[k].CreatedAt)
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(result) {
			return []*execution.Run{}, nil
		}
		result = result[opts.Offset:]
	}
	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result, nil
}

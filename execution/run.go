package execution

import (
	"time"

	"github.com/gantoin/n8n/id"
)

// RunState represents the lifecycle state of an execution run.
type RunState string

const (
	// RunStateRunning means the engine is currently executing the workflow.
	RunStateRunning RunState = "running"
	// RunStateCompleted means the execution finished without an error.
	RunStateCompleted RunState = "completed"
	// RunStateFailed means the execution failed terminally.
	RunStateFailed RunState = "failed"
)

// Run is the persisted record of a single workflow execution. Its ID is
// the opaque handle correlating a dispatched run with its one result.
type Run struct {
	ID           id.ExecutionID `json:"id"`
	WorkflowID   string         `json:"workflow_id"`
	WorkflowName string         `json:"workflow_name,omitempty"`
	Mode         Mode           `json:"mode"`
	State        RunState       `json:"state"`
	Data         []byte         `json:"data,omitempty"`
	Error        string         `json:"error,omitempty"`
	Timeout      time.Duration  `json:"timeout,omitempty"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Package execution defines execution requests, results, persisted run
// records, and the execution store interface.
package execution

import (
	"time"

	"github.com/gantoin/n8n/credentials"
	"github.com/gantoin/n8n/workflow"
)

// Mode describes how an execution was initiated.
type Mode string

const (
	// ModeCLI marks executions started by the command-line entry point.
	ModeCLI Mode = "cli"
)

// Request is the immutable value submitted to the engine for one run.
// It is built once per invocation and never mutated after construction.
type Request struct {
	// Credentials is the secret material resolved for the workflow's
	// nodes at dispatch time. Opaque to the orchestration core.
	Credentials credentials.Snapshot

	// Mode records how the execution was initiated.
	Mode Mode

	// StartNodes names the entry points the engine begins from.
	// The CLI always submits exactly one: the matched start node.
	StartNodes []string

	// Workflow is the definition to execute. Read-only.
	Workflow *workflow.Definition
}

// ResultError is an engine-reported failure embedded in a delivered
// result. Message and Stack come from the failing node unmodified.
type ResultError struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// Result is the engine's terminal report for one execution handle.
// It is delivered exactly once per handle.
type Result struct {
	Finished   bool           `json:"finished"`
	Mode       Mode           `json:"mode"`
	Data       map[string]any `json:"data,omitempty"`
	Error      *ResultError   `json:"error,omitempty"`
	StartedAt  time.Time      `json:"startedAt"`
	StoppedAt  time.Time      `json:"stoppedAt"`
}

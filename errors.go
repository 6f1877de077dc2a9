package n8n

import (
	"errors"
	"fmt"
)

var (
	// Source resolution errors.
	ErrUsage            = errors.New("n8n: exactly one of --id or --file must be provided")
	ErrWorkflowNotFound = errors.New("n8n: workflow not found")
	ErrInvalidFormat    = errors.New("n8n: workflow is missing a node list or connection graph")
	ErrNoStartNode      = errors.New("n8n: workflow contains no executable start node")

	// Engine errors.
	ErrHandleNotFound = errors.New("n8n: no active execution for handle")
	ErrResultConsumed = errors.New("n8n: execution result already consumed")
	ErrNoRunner       = errors.New("n8n: no workflow runner configured")

	// Store errors.
	ErrNoStore            = errors.New("n8n: no store configured")
	ErrStoreClosed        = errors.New("n8n: store closed")
	ErrRunNotFound        = errors.New("n8n: execution run not found")
	ErrRunAlreadyExists   = errors.New("n8n: execution run already exists")
	ErrCredentialNotFound = errors.New("n8n: credential not found")
)

// ExecutionError reports a failure delivered by the engine inside an
// otherwise-completed execution result. It carries the engine's original
// message and stack so post-mortems keep the failing node's context.
type ExecutionError struct {
	Message string
	Stack   string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("n8n: workflow execution failed: %s", e.Message)
}

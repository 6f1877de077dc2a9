package bunstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/gantoin/n8n/credentials"
	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/id"
	"github.com/gantoin/n8n/workflow"
)

type workflowModel struct {
	bun.BaseModel `bun:"table:n8n_workflows"`

	ID          string    `bun:"id,pk"`
	Name        string    `bun:"name,notnull"`
	Active      bool      `bun:"active,notnull,default:false"`
	Nodes       []byte    `bun:"nodes,notnull,type:jsonb"`
	Connections []byte    `bun:"connections,notnull,type:jsonb"`
	Settings    []byte    `bun:"settings,type:jsonb"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

func toWorkflowModel(def *workflow.Definition) (*workflowModel, error) {
	nodes, err := json.Marshal(def.Nodes)
	if err != nil {
		return nil, fmt.Errorf("n8n/bun: marshal nodes: %w", err)
	}
	conns, err := json.Marshal(def.Connections)
	if err != nil {
		return nil, fmt.Errorf("n8n/bun: marshal connections: %w", err)
	}
	var settings []byte
	if def.Settings != nil {
		settings, err = json.Marshal(def.Settings)
		if err != nil {
			return nil, fmt.Errorf("n8n/bun: marshal settings: %w", err)
		}
	}
	createdAt := def.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &workflowModel{
		ID:          def.ID,
		Name:        def.Name,
		Active:      def.Active,
		Nodes:       nodes,
		Connections: conns,
		Settings:    settings,
		CreatedAt:   createdAt,
		UpdatedAt:   time.Now().UTC(),
	}, nil
}

func fromWorkflowModel(m *workflowModel) (*workflow.Definition, error) {
	def := &workflow.Definition{
		ID:        m.ID,
		Name:      m.Name,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if err := json.Unmarshal(m.Nodes, &def.Nodes); err != nil {
		return nil, fmt.Errorf("n8n/bun: unmarshal nodes: %w", err)
	}
	if err := json.Unmarshal(m.Connections, &def.Connections); err != nil {
		return nil, fmt.Errorf("n8n/bun: unmarshal connections: %w", err)
	}
	if len(m.Settings) > 0 {
		if err := json.Unmarshal(m.Settings, &def.Settings); err != nil {
			return nil, fmt.Errorf("n8n/bun: unmarshal settings: %w", err)
		}
	}
	return def, nil
}

type credentialModel struct {
	bun.BaseModel `bun:"table:n8n_credentials"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull"`
	Type      string    `bun:"type,notnull"`
	Data      []byte    `bun:"data,notnull,type:jsonb"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

func toCredentialModel(cred *credentials.Credential) (*credentialModel, error) {
	data, err := json.Marshal(cred.Data)
	if err != nil {
		return nil, fmt.Errorf("n8n/bun: marshal credential data: %w", err)
	}
	credID := cred.ID
	if credID.IsNil() {
		credID = id.NewCredentialID()
	}
	createdAt := cred.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &credentialModel{
		ID:        credID.String(),
		Name:      cred.Name,
		Type:      cred.Type,
		Data:      data,
		CreatedAt: createdAt,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

func fromCredentialModel(m *credentialModel) (*credentials.Credential, error) {
	credID, err := id.ParseCredentialID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("n8n/bun: parse credential id %q: %w", m.ID, err)
	}
	cred := &credentials.Credential{
		ID:        credID,
		Name:      m.Name,
		Type:      m.Type,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if err := json.Unmarshal(m.Data, &cred.Data); err != nil {
		return nil, fmt.Errorf("n8n/bun: unmarshal credential data: %w", err)
	}
	return cred, nil
}

type runModel struct {
	bun.BaseModel `bun:"table:n8n_execution_runs"`

	ID           string     `bun:"id,pk"`
	WorkflowID   string     `bun:"workflow_id,notnull"`
	WorkflowName string     `bun:"workflow_name"`
	Mode         string     `bun:"mode,notnull,default:'cli'"`
	State        string     `bun:"state,notnull,default:'running'"`
	Data         []byte     `bun:"data,type:bytea"`
	Error        string     `bun:"error"`
	Timeout      int64      `bun:"timeout,notnull,default:0"`
	StartedAt    time.Time  `bun:"started_at,notnull,default:current_timestamp"`
	CompletedAt  *time.Time `bun:"completed_at"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

func toRunModel(run *execution.Run) *runModel {
	return &runModel{
		ID:           run.ID.String(),
		WorkflowID:   run.WorkflowID,
		WorkflowName: run.WorkflowName,
		Mode:         string(run.Mode),
		State:        string(run.State),
		Data:         run.Data,
		Error:        run.Error,
		Timeout:      run.Timeout.Nanoseconds(),
		StartedAt:    run.StartedAt,
		CompletedAt:  run.CompletedAt,
		CreatedAt:    run.CreatedAt,
		UpdatedAt:    run.UpdatedAt,
	}
}

func fromRunModel(m *runModel) (*execution.Run, error) {
	runID, err := id.ParseExecutionID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("n8n/bun: parse run id %q: %w", m.ID, err)
	}
	return &execution.Run{
		ID:           runID,
		WorkflowID:   m.WorkflowID,
		WorkflowName: m.WorkflowName,
		Mode:         execution.Mode(m.Mode),
		State:        execution.RunState(m.State),
		Data:         m.Data,
		Error:        m.Error,
		Timeout:      time.Duration(m.Timeout),
		StartedAt:    m.StartedAt,
		CompletedAt:  m.CompletedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

package mongo

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gantoin/n8n/credentials"
	"github.com/gantoin/n8n/execution"
	"github.com/gantoin/n8n/id"
	"github.com/gantoin/n8n/workflow"
)

type workflowModel struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Active      bool      `bson:"active"`
	Nodes       []byte    `bson:"nodes"`
	Connections []byte    `bson:"connections"`
	Settings    []byte    `bson:"settings,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toWorkflowModel(def *workflow.Definition) (*workflowModel, error) {
	nodes, err := json.Marshal(def.Nodes)
	if err != nil {
		return nil, fmt.Errorf("n8n/mongo: marshal nodes: %w", err)
	}
	conns, err := json.Marshal(def.Connections)
	if err != nil {
		return nil, fmt.Errorf("n8n/mongo: marshal connections: %w", err)
	}
	var settings []byte
	if def.Settings != nil {
		settings, err = json.Marshal(def.Settings)
		if err != nil {
			return nil, fmt.Errorf("n8n/mongo: marshal settings: %w", err)
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
		return nil, fmt.Errorf("n8n/mongo: unmarshal nodes: %w", err)
	}
	if err := json.Unmarshal(m.Connections, &def.Connections); err != nil {
		return nil, fmt.Errorf("n8n/mongo: unmarshal connections: %w", err)
	}
	if len(m.Settings) > 0 {
		if err := json.Unmarshal(m.Settings, &def.Settings); err != nil {
			return nil, fmt.Errorf("n8n/mongo: unmarshal settings: %w", err)
		}
	}
	return def, nil
}

type credentialModel struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Type      string    `bson:"type"`
	Data      []byte    `bson:"data"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toCredentialModel(cred *credentials.Credential) (*credentialModel, error) {
	data, err := json.Marshal(cred.Data)
	if err != nil {
		return nil, fmt.Errorf("n8n/mongo: marshal credential data: %w", err)
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
		return nil, fmt.Errorf("n8n/mongo: parse credential id %q: %w", m.ID, err)
	}
	cred := &credentials.Credential{
		ID:        credID,
		Name:      m.Name,
		Type:      m.Type,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if err := json.Unmarshal(m.Data, &cred.Data); err != nil {
		return nil, fmt.Errorf("n8n/mongo: unmarshal credential data: %w", err)
	}
	return cred, nil
}

type runModel struct {
	ID           string     `bson:"_id"`
	WorkflowID   string     `bson:"workflow_id"`
	WorkflowName string     `bson:"workflow_name,omitempty"`
	Mode         string     `bson:"mode"`
	State        string     `bson:"state"`
	Data         []byte     `bson:"data,omitempty"`
	Error        string     `bson:"error,omitempty"`
	Timeout      int64      `bson:"timeout"`
	StartedAt    time.Time  `bson:"started_at"`
	CompletedAt  *time.Time `bson:"completed_at,omitempty"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
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
		return nil, fmt.Errorf("n8n/mongo: parse run id %q: %w", m.ID, err)
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

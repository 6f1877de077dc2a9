// Package credentials resolves the secret material bound to a workflow's
// nodes at dispatch time: stored credentials looked up per node, with an
// optional overwrite document layered on top.
package credentials

import (
	"context"
	"time"

	"github.com/gantoin/n8n/id"
)

// Credential is one stored secret, identified by type and name.
type Credential struct {
	ID        id.CredentialID `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Data      map[string]any  `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Snapshot is the resolved secret material for one execution, keyed by
// credential type then credential name. It is opaque to the
// orchestration core and handed to the engine as-is.
type Snapshot map[string]map[string]map[string]any

// Store defines the persistence contract for credentials.
type Store interface {
	// SaveCredential persists a credential, replacing any existing one
	// with the same type and name.
	SaveCredential(ctx context.Context, cred *Credential) error

	// FindCredential retrieves a credential by type and name. Returns
	// n8n.ErrCredentialNotFound when no record matches.
	FindCredential(ctx context.Context, credType, name string) (*Credential, error)
}

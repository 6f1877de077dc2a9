package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/credentials"
	"github.com/gantoin/n8n/id"
)

// SaveCredential persists a credential, replacing any existing one with
// the same type and name.
func (s *Store) SaveCredential(ctx context.Context, cred *credentials.Credential) error {
	data, err := json.Marshal(cred.Data)
	if err != nil {
		return fmt.Errorf("n8n/postgres: marshal credential data: %w", err)
	}

	credID := cred.ID
	if credID.IsNil() {
		credID = id.NewCredentialID()
	}
	createdAt := cred.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO n8n_credentials (
			id, name, type, data, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, NOW()
		)
		ON CONFLICT (type, name) DO UPDATE SET
			data       = EXCLUDED.data,
			updated_at = NOW()`,
		credID.String(), cred.Name, cred.Type, data, createdAt,
	)
	if err != nil {
		return fmt.Errorf("n8n/postgres: save credential: %w", err)
	}
	return nil
}

// FindCredential retrieves a credential by type and name.
func (s *Store) FindCredential(ctx context.Context, credType, name string) (*credentials.Credential, error) {
	var (
		cred    credentials.Credential
		rawID   string
		rawData []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, type, data, created_at, updated_at
		FROM n8n_credentials
		WHERE type = $1 AND name = $2`,
		credType, name,
	).Scan(&rawID, &cred.Name, &cred.Type, &rawData, &cred.CreatedAt, &cred.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, n8n.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("n8n/postgres: find credential: %w", err)
	}

	credID, err := id.ParseCredentialID(rawID)
	if err != nil {
		return nil, fmt.Errorf("n8n/postgres: parse credential id: %w", err)
	}
	cred.ID = credID

	if err := json.Unmarshal(rawData, &cred.Data); err != nil {
		return nil, fmt.Errorf("n8n/postgres: unmarshal credential data: %w", err)
	}
	return &cred, nil
}

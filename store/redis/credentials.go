package redis

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
		return fmt.Errorf("n8n/redis: marshal credential data: %w", err)
	}

	credID := cred.ID
	if credID.IsNil() {
		credID = id.NewCredentialID()
	}
	createdAt := cred.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	key := credentialKey(cred.Type, cred.Name)
	m := map[string]any{
		"id":         credID.String(),
		"name":       cred.Name,
		"type":       cred.Type,
		"data":       string(data),
		"created_at": createdAt.Format(time.RFC3339Nano),
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, m)
	pipe.SAdd(ctx, credentialIDsKey, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("n8n/redis: save credential: %w", err)
	}
	return nil
}

// FindCredential retrieves a credential by type and name.
func (s *Store) FindCredential(ctx context.Context, credType, name string) (*credentials.Credential, error) {
	vals, err := s.client.HGetAll(ctx, credentialKey(credType, name)).Result()
	if err != nil {
		return nil, fmt.Errorf("n8n/redis: find credential: %w", err)
	}
	if len(vals) == 0 {
		return nil, n8n.ErrCredentialNotFound
	}

	credID, err := id.ParseCredentialID(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("n8n/redis: parse credential id: %w", err)
	}
	cred := &credentials.Credential{
		ID:        credID,
		Name:      vals["name"],
		Type:      vals["type"],
		CreatedAt: parseTime(vals["created_at"]),
		UpdatedAt: parseTime(vals["updated_at"]),
	}
	if raw := vals["data"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &cred.Data); err != nil {
			return nil, fmt.Errorf("n8n/redis: unmarshal credential data: %w", err)
		}
	}
	return cred, nil
}

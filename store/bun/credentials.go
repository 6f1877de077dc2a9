package bunstore

import (
	"context"
	"fmt"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/credentials"
)

// SaveCredential persists a credential, replacing any existing one with
// the same type and name.
func (s *Store) SaveCredential(ctx context.Context, cred *credentials.Credential) error {
	m, err := toCredentialModel(cred)
	if err != nil {
		return err
	}
	_, err = s.db.NewInsert().Model(m).
		On("CONFLICT (type, name) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("n8n/bun: save credential: %w", err)
	}
	return nil
}

// FindCredential retrieves a credential by type and name.
func (s *Store) FindCredential(ctx context.Context, credType, name string) (*credentials.Credential, error) {
	m := new(credentialModel)
	err := s.db.NewSelect().Model(m).
		Where("type = ?", credType).
		Where("name = ?", name).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, n8n.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("n8n/bun: find credential: %w", err)
	}
	return fromCredentialModel(m)
}

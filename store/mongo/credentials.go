package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

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
	_, err = s.db.Collection(colCredentials).ReplaceOne(ctx,
		bson.D{{Key: "type", Value: m.Type}, {Key: "name", Value: m.Name}},
		m,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("n8n/mongo: save credential: %w", err)
	}
	return nil
}

// FindCredential retrieves a credential by type and name.
func (s *Store) FindCredential(ctx context.Context, credType, name string) (*credentials.Credential, error) {
	m := new(credentialModel)
	err := s.db.Collection(colCredentials).
		FindOne(ctx, bson.D{{Key: "type", Value: credType}, {Key: "name", Value: name}}).
		Decode(m)
	if err != nil {
		if errors.Is(err, mongod.ErrNoDocuments) {
			return nil, n8n.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("n8n/mongo: find credential: %w", err)
	}
	return fromCredentialModel(m)
}

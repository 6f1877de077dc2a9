package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/workflow"
)

// Resolver builds the credentials snapshot for a workflow's node list.
type Resolver struct {
	store      Store
	overwrites Overwrites
	logger     *slog.Logger
}

// NewResolver creates a resolver over the given store. A nil overwrites
// map behaves like an empty one.
func NewResolver(store Store, overwrites Overwrites, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, overwrites: overwrites, logger: logger}
}

// Resolve walks the node list and collects the credential data each node
// references, keyed by type then name, with overwrites applied. A node
// referencing a credential that is not stored is logged and skipped: the
// engine decides at execution time whether the node can run without it.
func (r *Resolver) Resolve(ctx context.Context, nodes []workflow.Node) (Snapshot, error) {
	snapshot := make(Snapshot)

	for i := range nodes {
		node := &nodes[i]
		for credType, credName := range node.Credentials {
			if _, done := snapshot[credType][credName]; done {
				continue
			}

			cred, err := r.store.FindCredential(ctx, credType, credName)
			if err != nil {
				if errors.Is(err, n8n.ErrCredentialNotFound) {
					r.logger.Warn("credential referenced by node is not stored",
						slog.String("node", node.Name),
						slog.String("credential_type", credType),
						slog.String("credential_name", credName),
					)
					continue
				}
				return nil, fmt.Errorf("resolve credential %s/%s for node %q: %w",
					credType, credName, node.Name, err)
			}

			if snapshot[credType] == nil {
				snapshot[credType] = make(map[string]map[string]any)
			}
			snapshot[credType][credName] = r.overwrites.Apply(credType, cred.Data)
		}
	}

	return snapshot, nil
}

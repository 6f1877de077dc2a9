package n8n

import "github.com/gantoin/n8n/id"

// ID is the primary identifier type for all runtime entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix

package credentials

import (
	"encoding/json"
	"fmt"
)

// Overwrites maps credential types to field values that take precedence
// over stored credential data. Deployments use this to inject shared
// secrets (OAuth client IDs and the like) without persisting them per
// credential.
type Overwrites map[string]map[string]any

// ParseOverwrites decodes an overwrite document from its JSON form.
// An empty input yields an empty, usable Overwrites.
func ParseOverwrites(raw string) (Overwrites, error) {
	if raw == "" {
		return Overwrites{}, nil
	}

	var o Overwrites
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		return nil, fmt.Errorf("parse credential overwrites: %w", err)
	}
	return o, nil
}

// Apply returns data with the overwrites for credType layered on top.
// The input map is not mutated.
func (o Overwrites) Apply(credType string, data map[string]any) map[string]any {
	fields := o[credType]
	if len(fields) == 0 {
		return data
	}

	merged := make(map[string]any, len(data)+len(fields))
	for k, v := range data {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

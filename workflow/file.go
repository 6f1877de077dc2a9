package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/id"
)

// LoadFile reads and parses a workflow definition from a JSON file.
// A missing file maps to n8n.ErrWorkflowNotFound; a document without a
// node list or connection graph maps to n8n.ErrInvalidFormat.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("workflow file %q: %w", path, n8n.ErrWorkflowNotFound)
		}
		return nil, fmt.Errorf("read workflow file %q: %w", path, err)
	}

	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("workflow file %q: %w", path, err)
	}
	return def, nil
}

// Parse decodes a workflow definition from JSON. The document must carry
// both a node list and a connection graph; an empty list or graph is
// acceptable, their absence is not. A definition without an identifier
// is stamped with a fresh workflow ID so downstream execution records
// have something to reference.
func Parse(data []byte) (*Definition, error) {
	// Probe field presence before decoding: json.Unmarshal cannot tell
	// a missing key from an empty value on the concrete types.
	var probe struct {
		Nodes       json.RawMessage `json:"nodes"`
		Connections json.RawMessage `json:"connections"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", n8n.ErrInvalidFormat, err)
	}
	if probe.Nodes == nil || probe.Connections == nil {
		return nil, n8n.ErrInvalidFormat
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", n8n.ErrInvalidFormat, err)
	}

	if def.ID == "" {
		def.ID = id.NewWorkflowID().String()
	}
	return &def, nil
}

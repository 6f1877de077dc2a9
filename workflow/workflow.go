// Package workflow defines the workflow definition model, the JSON file
// loader, start-node validation, and the workflow store interface.
package workflow

import "time"

// Node is a single step in a workflow definition.
type Node struct {
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	TypeVersion float64           `json:"typeVersion,omitempty"`
	Disabled    bool              `json:"disabled,omitempty"`
	Position    []float64         `json:"position,omitempty"`
	Parameters  map[string]any    `json:"parameters"`
	Credentials map[string]string `json:"credentials,omitempty"`
}

// Connection is one edge of the connection graph: the target node and
// input it feeds.
type Connection struct {
	Node  string `json:"node"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// NodeConnections groups a node's outgoing connections by output index.
type NodeConnections struct {
	Main [][]Connection `json:"main"`
}

// Definition is a complete workflow: an ordered node list plus the
// connection graph keyed by source node name. Once resolved from a file
// or a store it is read-only to the execution core.
type Definition struct {
	ID          string                     `json:"id,omitempty"`
	Name        string                     `json:"name,omitempty"`
	Active      bool                       `json:"active,omitempty"`
	Nodes       []Node                     `json:"nodes"`
	Connections map[string]NodeConnections `json:"connections"`
	Settings    map[string]any             `json:"settings,omitempty"`
	CreatedAt   time.Time                  `json:"createdAt,omitempty"`
	UpdatedAt   time.Time                  `json:"updatedAt,omitempty"`
}

// Timeout returns the per-execution deadline from the workflow settings,
// or zero when the workflow does not bound its own duration.
func (d *Definition) Timeout() time.Duration {
	if d.Settings == nil {
		return 0
	}
	secs, ok := d.Settings["executionTimeout"].(float64)
	if !ok || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

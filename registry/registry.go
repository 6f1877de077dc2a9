// Package registry holds the node and credential type registries and the
// loaders that populate them. Types are loaded once at startup, behind an
// asynchronous readiness point, and are read-only afterwards.
package registry

import (
	"sync"
)

// NodeType describes one installable node type.
type NodeType struct {
	Name        string         `json:"name"`
	DisplayName string         `json:"displayName,omitempty"`
	Group       []string       `json:"group,omitempty"`
	Description string         `json:"description,omitempty"`
	Defaults    map[string]any `json:"defaults,omitempty"`
}

// CredentialType describes one credential type nodes can reference.
type CredentialType struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName,omitempty"`
	Properties  []string `json:"properties,omitempty"`
}

// Types is the combined load result: everything the loaders discovered.
type Types struct {
	Nodes       []NodeType
	Credentials []CredentialType
}

// NodeTypes is the registry of known node types. Safe for concurrent use.
type NodeTypes struct {
	mu     sync.RWMutex
	byName map[string]NodeType
}

// NewNodeTypes creates an empty node type registry.
func NewNodeTypes() *NodeTypes {
	return &NodeTypes{byName: make(map[string]NodeType)}
}

// Init registers the given types, replacing same-named entries.
func (r *NodeTypes) Init(types []NodeType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range types {
		r.byName[t.Name] = t
	}
}

// Get returns the node type registered under name.
func (r *NodeTypes) Get(name string) (NodeType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// Len returns the number of registered node types.
func (r *NodeTypes) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// CredentialTypes is the registry of known credential types. Safe for
// concurrent use.
type CredentialTypes struct {
	mu     sync.RWMutex
	byName map[string]CredentialType
}

// NewCredentialTypes creates an empty credential type registry.
func NewCredentialTypes() *CredentialTypes {
	return &CredentialTypes{byName: make(map[string]CredentialType)}
}

// Init registers the given types, replacing same-named entries.
func (r *CredentialTypes) Init(types []CredentialType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range types {
		r.byName[t.Name] = t
	}
}

// Get returns the credential type registered under name.
func (r *CredentialTypes) Get(name string) (CredentialType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// Len returns the number of registered credential types.
func (r *CredentialTypes) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Registries bundles the two initialized registries.
type Registries struct {
	Nodes       *NodeTypes
	Credentials *CredentialTypes
}

// NewRegistries builds both registries from a completed load.
func NewRegistries(types *Types) *Registries {
	nodes := NewNodeTypes()
	nodes.Init(types.Nodes)
	creds := NewCredentialTypes()
	creds.Init(types.Credentials)
	return &Registries{Nodes: nodes, Credentials: creds}
}

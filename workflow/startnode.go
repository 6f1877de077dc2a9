package workflow

import "github.com/gantoin/n8n"

// StartNodeType is the node type that marks a workflow as invokable
// headlessly. It is the default entry-point capability check.
const StartNodeType = "n8n-nodes-base.start"

// StartMatcher decides whether a node can serve as the execution entry
// point. Matching is a capability check over the node, not a name lookup.
type StartMatcher func(n Node) bool

// MatchType returns a StartMatcher that accepts enabled nodes of the
// given type.
func MatchType(nodeType string) StartMatcher {
	return func(n Node) bool {
		return !n.Disabled && n.Type == nodeType
	}
}

// DefaultStartMatcher accepts enabled nodes of StartNodeType.
var DefaultStartMatcher = MatchType(StartNodeType)

// FindStartNode scans the definition's node list in order and returns
// the first node the matcher accepts. First match wins; there is no
// other disambiguation. Returns n8n.ErrNoStartNode when nothing matches.
func FindStartNode(def *Definition, match StartMatcher) (*Node, error) {
	if match == nil {
		match = DefaultStartMatcher
	}
	for i := range def.Nodes {
		if match(def.Nodes[i]) {
			return &def.Nodes[i], nil
		}
	}
	return nil, n8n.ErrNoStartNode
}

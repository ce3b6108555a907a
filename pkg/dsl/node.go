package dsl

import "github.com/arborui/arbor/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.NodeSnapshot
	parent  string
	builder *Builder
}

// Kind sets the component kind (e.g. "container", "button", "input").
func (n *NodeBuilder) Kind(kind string) *NodeBuilder {
	n.node.Kind = kind
	return n
}

// Disabled marks the node as explicitly disabled.
// The flag sticks to the node and survives reparenting.
func (n *NodeBuilder) Disabled() *NodeBuilder {
	n.node.Disabled = true
	return n
}

// Under attaches this node beneath the given parent.
// The parent must be declared on the same builder before Build.
func (n *NodeBuilder) Under(parentID string) *NodeBuilder {
	n.parent = parentID
	return n
}

// Channel declares a communication channel on the node with the default
// override mode, so traffic drops while the node is disabled.
func (n *NodeBuilder) Channel(name, kind string) *NodeBuilder {
	n.node.Channels = append(n.node.Channels, domain.ChannelSpec{
		Name: name,
		Kind: kind,
	})
	return n
}

// AlwaysAllow declares a channel that bypasses the disabled gate.
func (n *NodeBuilder) AlwaysAllow(name, kind string) *NodeBuilder {
	n.node.Channels = append(n.node.Channels, domain.ChannelSpec{
		Name: name,
		Kind: kind,
		Mode: string(domain.ModeAlwaysAllow),
	})
	return n
}

// Add declares a sibling-level node on the underlying builder.
// It allows chaining declarations without going back to the Builder variable.
func (n *NodeBuilder) Add(id string) *NodeBuilder {
	return n.builder.Add(id)
}

// Build returns the underlying node snapshot without its children.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.NodeSnapshot {
	return n.node
}

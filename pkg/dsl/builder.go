package dsl

import (
	"fmt"

	"github.com/arborui/arbor/pkg/domain"
)

// Builder manages the tree construction.
type Builder struct {
	nodes map[string]*NodeBuilder
	order []string
}

// New creates a new tree builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the tree.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node:    domain.NodeSnapshot{ID: id},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build compiles the declared nodes into a TreeSnapshot.
// Nodes without a parent become roots, in declaration order.
func (b *Builder) Build() (*domain.TreeSnapshot, error) {
	// Validate channel specs and parent links before assembling anything.
	for _, id := range b.order {
		nb := b.nodes[id]
		for _, ch := range nb.node.Channels {
			if _, err := domain.ParseChannelKind(ch.Kind); err != nil {
				return nil, fmt.Errorf("node %q channel %q: %w", id, ch.Name, err)
			}
			if _, err := domain.ParseOverrideMode(ch.Mode); err != nil {
				return nil, fmt.Errorf("node %q channel %q: %w", id, ch.Name, err)
			}
		}
		if nb.parent == "" {
			continue
		}
		if _, ok := b.nodes[nb.parent]; !ok {
			return nil, fmt.Errorf("node %q declares unknown parent %q", id, nb.parent)
		}
		seen := map[string]bool{id: true}
		for anc := nb.parent; anc != ""; {
			if seen[anc] {
				return nil, fmt.Errorf("node %q sits inside a parent cycle: %w", id, domain.ErrCyclicAttach)
			}
			seen[anc] = true
			p, ok := b.nodes[anc]
			if !ok {
				// Unknown ancestor is reported on the node that declared it.
				break
			}
			anc = p.parent
		}
	}

	var assemble func(id string) domain.NodeSnapshot
	assemble = func(id string) domain.NodeSnapshot {
		n := b.nodes[id].node
		n.Children = nil
		for _, childID := range b.order {
			if b.nodes[childID].parent == id {
				n.Children = append(n.Children, assemble(childID))
			}
		}
		return n
	}

	snap := &domain.TreeSnapshot{}
	for _, id := range b.order {
		if b.nodes[id].parent != "" {
			continue
		}
		snap.Roots = append(snap.Roots, assemble(id))
	}
	return snap, nil
}

package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arborui/arbor/internal/logging"
	"github.com/arborui/arbor/pkg/domain"
)

// node is a single component in the containment tree.
//
// effectiveEnabled is derived state: it is true iff the node is not explicitly
// disabled and every ancestor up to its current root is effectively enabled.
// It is recomputed synchronously on every mutation that can affect it and is
// therefore never stale between operations.
type node struct {
	id       string
	kind     string
	parent   *node
	children []*node

	explicitlyDisabled bool
	effectiveEnabled   bool
}

// Tree owns a set of components and keeps their effective enabled state
// consistent with topology and explicit flags.
//
// Tree is not safe for concurrent use. A tree has a single logical owner;
// callers (the arbor.Session facade) serialize every operation against it, so
// a gate decision never observes a half-propagated state.
type Tree struct {
	nodes  map[string]*node
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures a Tree.
type Option func(*Tree)

// WithHooks registers lifecycle callbacks fired during mutations.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(t *Tree) {
		t.hooks = hooks
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) {
		t.logger = logger
	}
}

// NewTree creates an empty tree.
func NewTree(opts ...Option) *Tree {
	t := &Tree{
		nodes:  make(map[string]*node),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// AddNode registers a new detached component.
// A fresh node is enabled: no explicit flag, no parent chain.
func (t *Tree) AddNode(id, kind string) error {
	if _, exists := t.nodes[id]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateNode, id)
	}
	t.nodes[id] = &node{
		id:               id,
		kind:             kind,
		effectiveEnabled: true,
	}
	return nil
}

// Has reports whether the node exists in the tree.
func (t *Tree) Has(id string) bool {
	_, ok := t.nodes[id]
	return ok
}

// Kind returns the component kind of a node.
func (t *Tree) Kind(id string) (string, error) {
	n, ok := t.nodes[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	return n.kind, nil
}

// IsEnabled returns the current effective state of a node.
// Pure read; always reflects the latest propagation pass.
func (t *Tree) IsEnabled(id string) (bool, error) {
	n, ok := t.nodes[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	return n.effectiveEnabled, nil
}

// IsExplicitlyDisabled returns the node's own flag, ignoring ancestors.
func (t *Tree) IsExplicitlyDisabled(id string) (bool, error) {
	n, ok := t.nodes[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	return n.explicitlyDisabled, nil
}

// SetEnabled toggles the explicit flag on a node and recomputes the subtree.
// Idempotent: setting the flag to its current value triggers no propagation.
func (t *Tree) SetEnabled(ctx context.Context, id string, enabled bool) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	disabled := !enabled
	if n.explicitlyDisabled == disabled {
		return nil
	}
	n.explicitlyDisabled = disabled
	t.logger.Debug("explicit toggle", "node", id, "enabled", enabled)
	t.propagate(ctx, n, t.parentEnabled(n))
	return nil
}

// Attach places a detached node under a parent and recomputes its subtree
// against the new ancestor chain. Prior implicit state is discarded.
func (t *Tree) Attach(ctx context.Context, id, parentID string) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	p, ok := t.nodes[parentID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, parentID)
	}
	if n.parent != nil {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyAttached, id)
	}
	// The containment model is a forest; refuse an attach that would make a
	// node its own ancestor.
	for a := p; a != nil; a = a.parent {
		if a == n {
			return fmt.Errorf("%w: %s under %s", domain.ErrCyclicAttach, id, parentID)
		}
	}

	n.parent = p
	p.children = append(p.children, n)
	t.propagate(ctx, n, p.effectiveEnabled)

	if t.hooks.OnAttach != nil {
		t.hooks.OnAttach(ctx, &domain.TopologyEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventAttach},
			NodeID:    id,
			ParentID:  parentID,
		})
	}
	return nil
}

// Detach removes a node from its parent. The explicit flag is untouched;
// effective state reverts to the flag alone since the parent chain is gone.
func (t *Tree) Detach(ctx context.Context, id string) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	if n.parent == nil {
		return fmt.Errorf("%w: %s", domain.ErrNotAttached, id)
	}
	p := n.parent
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
	// Detached subtree is governed only by its own flags.
	t.propagate(ctx, n, true)

	if t.hooks.OnDetach != nil {
		t.hooks.OnDetach(ctx, &domain.TopologyEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventDetach},
			NodeID:    id,
			ParentID:  p.id,
		})
	}
	return nil
}

// Remove detaches a node (if attached) and deletes its whole subtree from the
// tree. Descendants are removed with it; they do not become roots. The IDs of
// every removed node are returned so callers can release per-node resources
// (registered channels).
func (t *Tree) Remove(ctx context.Context, id string) ([]string, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	if n.parent != nil {
		if err := t.Detach(ctx, id); err != nil {
			return nil, err
		}
	}
	var removed []string
	var drop func(n *node)
	drop = func(n *node) {
		delete(t.nodes, n.id)
		removed = append(removed, n.id)
		for _, c := range n.children {
			drop(c)
		}
	}
	drop(n)
	return removed, nil
}

// parentEnabled resolves the propagation input for a node: true for roots.
func (t *Tree) parentEnabled(n *node) bool {
	if n.parent == nil {
		return true
	}
	return n.parent.effectiveEnabled
}

// propagate recomputes effectiveEnabled for n and, when it changed, descends
// into its children with the new value as their parent input.
//
// The early return is correct, not just an optimization in the general case:
// if n's value did not change, no descendant's parent input changed either,
// so the whole subtree is already settled. Every descendant whose value would
// change is reachable through a chain of changed ancestors and is visited.
func (t *Tree) propagate(ctx context.Context, n *node, parentEnabled bool) {
	next := parentEnabled && !n.explicitlyDisabled
	if next == n.effectiveEnabled {
		return
	}
	n.effectiveEnabled = next
	if t.hooks.OnEnabledChange != nil {
		t.hooks.OnEnabledChange(ctx, &domain.EnabledEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventEnabledChange},
			NodeID:    n.id,
			Enabled:   next,
		})
	}
	for _, c := range n.children {
		// A disabled node governs its children through its own effective
		// state; an explicitly disabled child stays disabled regardless.
		t.propagate(ctx, c, next)
	}
}

// Snapshot captures the tree as serializable data. Child order is the attach
// order. Map iteration would make root order nondeterministic, so callers
// pass the preferred root order; roots missing from it are appended in map
// order afterwards.
func (t *Tree) Snapshot(rootOrder []string) *domain.TreeSnapshot {
	snap := &domain.TreeSnapshot{}
	seen := make(map[string]bool)
	appendRoot := func(n *node) {
		if n == nil || n.parent != nil || seen[n.id] {
			return
		}
		seen[n.id] = true
		snap.Roots = append(snap.Roots, *t.export(n))
	}
	for _, id := range rootOrder {
		appendRoot(t.nodes[id])
	}
	for _, n := range t.nodes {
		appendRoot(n)
	}
	return snap
}

func (t *Tree) export(n *node) *domain.NodeSnapshot {
	out := &domain.NodeSnapshot{
		ID:       n.id,
		Kind:     n.kind,
		Disabled: n.explicitlyDisabled,
	}
	for _, c := range n.children {
		out.Children = append(out.Children, *t.export(c))
	}
	return out
}

// Restore rebuilds a tree from a snapshot. Effective state is re-derived from
// the explicit flags and topology, never read from the snapshot.
func Restore(snap *domain.TreeSnapshot, opts ...Option) (*Tree, error) {
	// Options are applied after the rebuild so hooks do not fire for the
	// synthetic mutations that reconstruct the tree.
	t := NewTree()
	ctx := context.Background()
	var build func(n *domain.NodeSnapshot, parentID string) error
	build = func(n *domain.NodeSnapshot, parentID string) error {
		if err := t.AddNode(n.ID, n.Kind); err != nil {
			return err
		}
		if parentID != "" {
			if err := t.Attach(ctx, n.ID, parentID); err != nil {
				return err
			}
		}
		if n.Disabled {
			if err := t.SetEnabled(ctx, n.ID, false); err != nil {
				return err
			}
		}
		for i := range n.Children {
			if err := build(&n.Children[i], n.ID); err != nil {
				return err
			}
		}
		return nil
	}
	for i := range snap.Roots {
		if err := build(&snap.Roots[i], ""); err != nil {
			return nil, err
		}
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

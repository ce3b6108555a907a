package domain

// ChannelSpec describes a channel in a snapshot or declarative definition,
// without the owning node ID (implied by position).
type ChannelSpec struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// NodeSnapshot captures one component and its subtree.
// Only the explicit disabled flag is persisted; effective state is derived on
// restore and never stored.
type NodeSnapshot struct {
	ID       string         `json:"id" yaml:"id"`
	Kind     string         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Disabled bool           `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Channels []ChannelSpec  `json:"channels,omitempty" yaml:"channels,omitempty"`
	Children []NodeSnapshot `json:"children,omitempty" yaml:"children,omitempty"`
}

// TreeSnapshot is a serializable capture of a whole component tree.
// Roots preserves order; detached nodes appear as additional roots.
//
// Sealed carries an opaque encrypted payload when a persistence middleware
// has wrapped the snapshot in an envelope. A sealed snapshot has no Roots.
type TreeSnapshot struct {
	SessionID string         `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	Sealed    string         `json:"sealed,omitempty" yaml:"sealed,omitempty"`
	Roots     []NodeSnapshot `json:"roots,omitempty" yaml:"roots,omitempty"`
}

// Walk visits every node snapshot in depth-first order.
// Traversal stops early if fn returns false.
func (s *TreeSnapshot) Walk(fn func(n *NodeSnapshot, depth int) bool) {
	var visit func(n *NodeSnapshot, depth int) bool
	visit = func(n *NodeSnapshot, depth int) bool {
		if !fn(n, depth) {
			return false
		}
		for i := range n.Children {
			if !visit(&n.Children[i], depth+1) {
				return false
			}
		}
		return true
	}
	for i := range s.Roots {
		if !visit(&s.Roots[i], 0) {
			return
		}
	}
}

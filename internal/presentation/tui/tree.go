package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/arborui/arbor/pkg/domain"
)

// RenderTree writes an indented view of the tree to w.
// Disabled subtrees are rendered faint so the effective state is visible at
// a glance. Channels are listed inline after the node, with always-allow
// channels marked by a trailing "!".
func RenderTree(w io.Writer, snap *domain.TreeSnapshot) {
	out := termenv.NewOutput(w)

	var walk func(n *domain.NodeSnapshot, depth int, parentEnabled bool)
	walk = func(n *domain.NodeSnapshot, depth int, parentEnabled bool) {
		enabled := parentEnabled && !n.Disabled

		line := n.ID
		if n.Kind != "" {
			line = fmt.Sprintf("%s (%s)", n.ID, n.Kind)
		}
		if len(n.Channels) > 0 {
			names := make([]string, 0, len(n.Channels))
			for _, ch := range n.Channels {
				name := ch.Name
				if ch.Mode == string(domain.ModeAlwaysAllow) {
					name += "!"
				}
				names = append(names, name)
			}
			line += "  [" + strings.Join(names, " ") + "]"
		}

		styled := out.String(strings.Repeat("  ", depth) + line)
		if !enabled {
			styled = styled.Faint()
			if n.Disabled {
				styled = styled.CrossOut()
			}
		}
		fmt.Fprintln(w, styled)

		for i := range n.Children {
			walk(&n.Children[i], depth+1, enabled)
		}
	}

	for i := range snap.Roots {
		walk(&snap.Roots[i], 0, true)
	}
}

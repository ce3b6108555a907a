package graph

import (
	"fmt"
	"strings"

	"github.com/arborui/arbor/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart syntax string from a tree snapshot.
// It applies semantic styling:
// - Interactive widgets (button, input, select, checkbox): ([Stadium])
// - Everything else: [Rectangle]
// Channel names are annotated on the node label, with always-allow channels
// marked by a trailing "!". Disabled subtrees get a muted dashed style.
func GenerateMermaid(snap *domain.TreeSnapshot) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var disabledIDs []string

	var walk func(n *domain.NodeSnapshot, parentID string, parentDisabled bool)
	walk = func(n *domain.NodeSnapshot, parentID string, parentDisabled bool) {
		safeID := sanitizeMermaidID(n.ID)

		// Node shape based on Kind
		opener, closer := "[", "]"
		switch n.Kind {
		case "button", "input", "select", "checkbox":
			opener, closer = "([", "])"
		}

		label := n.ID
		if len(n.Channels) > 0 {
			names := make([]string, 0, len(n.Channels))
			for _, ch := range n.Channels {
				name := ch.Name
				if ch.Mode == string(domain.ModeAlwaysAllow) {
					name += "!"
				}
				names = append(names, name)
			}
			label = fmt.Sprintf("%s <br/> 📡 %s", n.ID, strings.Join(names, ", "))
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		off := parentDisabled || n.Disabled
		if off {
			disabledIDs = append(disabledIDs, safeID)
		}

		if parentID != "" {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", parentID, safeID))
		}

		for i := range n.Children {
			walk(&n.Children[i], safeID, off)
		}
	}

	for i := range snap.Roots {
		walk(&snap.Roots[i], "", false)
	}

	if len(disabledIDs) > 0 {
		sb.WriteString("\n    %% Effective-state styles\n")
		// Force black text (color:#000) for high-contrast regardless of theme (Light/Dark)
		sb.WriteString("    classDef disabled fill:#eceff1,stroke:#90a4ae,stroke-dasharray: 5 5,color:#000;\n")
		for _, id := range disabledIDs {
			sb.WriteString(fmt.Sprintf("    class %s disabled;\n", id))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}

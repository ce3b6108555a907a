package cli

import (
	"fmt"
	"io"

	"github.com/arborui/arbor/internal/presentation/graph"
	"github.com/arborui/arbor/internal/presentation/tui"
	"github.com/arborui/arbor/pkg/schema"
)

// InspectOptions contains the configuration for the inspect command.
type InspectOptions struct {
	Path    string
	Mermaid bool
}

// RunInspect loads a definition and prints the resolved tree to w.
// The default output is an indented terminal view with disabled subtrees
// dimmed; --mermaid switches to a flowchart for embedding in docs.
func RunInspect(w io.Writer, opts InspectOptions) error {
	def, err := schema.LoadFile(opts.Path)
	if err != nil {
		return fmt.Errorf("could not load definition: %w", err)
	}

	snap := def.Snapshot()

	if opts.Mermaid {
		fmt.Fprint(w, graph.GenerateMermaid(snap))
		return nil
	}

	tui.RenderTree(w, snap)
	return nil
}

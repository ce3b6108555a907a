package cli

import (
	"fmt"
	"io"

	"github.com/arborui/arbor/pkg/schema"
)

// RunValidate checks a declarative tree definition for structural errors.
// All findings are printed to w before the error is returned, so a host
// sees every problem in one pass.
func RunValidate(w io.Writer, path string) error {
	_, err := schema.LoadFile(path)
	if err == nil {
		return nil
	}

	if errs := schema.ValidationErrors(err); errs != nil {
		for _, e := range errs {
			fmt.Fprintf(w, "  - %s\n", e)
		}
		return fmt.Errorf("definition has %d problem(s)", len(errs))
	}

	return fmt.Errorf("could not load definition: %w", err)
}

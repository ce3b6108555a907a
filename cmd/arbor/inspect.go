package main

import (
	"fmt"
	"os"

	"github.com/arborui/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the resolved component tree",
	Long:  `Loads a YAML tree definition and prints the resolved hierarchy with effective enabled states. Disabled subtrees are dimmed.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mermaid, _ := cmd.Flags().GetBool("mermaid")

		err := cli.RunInspect(os.Stdout, cli.InspectOptions{
			Path:    args[0],
			Mermaid: mermaid,
		})
		if err != nil {
			fmt.Printf("Inspect failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("mermaid", false, "Emit a Mermaid flowchart instead of the terminal view")
}

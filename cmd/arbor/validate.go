package main

import (
	"fmt"
	"os"

	"github.com/arborui/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a tree definition for consistency",
	Long:  `Parses a YAML tree definition and reports every structural problem: duplicate IDs, unnamed channels, unknown channel kinds and override modes.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := cli.RunValidate(os.Stdout, args[0]); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Definition is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

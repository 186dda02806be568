// Package commands holds the tir CLI: diff compares two tree
// documents, show renders one with optional overlays.
package commands

import (
	"github.com/spf13/cobra"
)

func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tir",
		Short:         "Inspect and compare tensor IR trees",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(diffCmd(), showCmd(), versionCmd())
	return cmd
}

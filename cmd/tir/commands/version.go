package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Overridden at build time with -ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tir version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tir %s (%s)\n", version, commit)
		},
	}
}

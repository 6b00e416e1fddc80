package cmd

import (
	"fmt"
	"os"

	"github.com/rskv-p/busmatch/cmd/cmd_match"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "busmatch",
	Short:         "D-Bus style match rules routed over NATS",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(cmd_match.Cmd)
}

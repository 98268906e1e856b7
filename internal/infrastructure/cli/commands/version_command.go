package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set via -ldflags at release time.
var (
	Version = "dev"
	Commit  = "unknown"
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "askai %s (%s) %s/%s\n",
				Version, Commit, runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}

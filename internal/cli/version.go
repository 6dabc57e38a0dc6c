package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Version is the CLI version, overridden at build time with
// -ldflags "-X github.com/khalidelboray/convos/internal/cli.Version=...".
var Version = "0.1.0-dev"

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			if rootOpts.Format == "json" {
				return formatter.Success(Fields{
					{Key: "version", Value: Version},
					{Key: "go", Value: runtime.Version()},
				})
			}
			return formatter.Success("viewport " + Version)
		},
	}
}

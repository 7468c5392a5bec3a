package version

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tphakala/birdwheel/internal/buildinfo"
)

// Command creates a new cobra.Command to print build information.
func Command(build buildinfo.BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of birdwheel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "birdwheel %s (built %s)\n", build.GetVersion(), build.GetBuildDate())
			return err
		},
	}

	return cmd
}

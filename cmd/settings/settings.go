// Package settings implements the config subcommand.
package settings

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/birdwheel/internal/app"
)

// Command creates the config command printing the effective settings as YAML.
func Command(ctx *app.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Prints the settings in effect after merging defaults, the config file, environment variables and flags.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(ctx.Settings); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	return cmd
}

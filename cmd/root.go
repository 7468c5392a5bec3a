package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tphakala/birdwheel/cmd/menu"
	"github.com/tphakala/birdwheel/cmd/play"
	"github.com/tphakala/birdwheel/cmd/render"
	"github.com/tphakala/birdwheel/cmd/settings"
	"github.com/tphakala/birdwheel/cmd/version"
	"github.com/tphakala/birdwheel/internal/app"
	"github.com/tphakala/birdwheel/internal/buildinfo"
	"github.com/tphakala/birdwheel/internal/conf"
	"github.com/tphakala/birdwheel/internal/logger"
	"github.com/tphakala/birdwheel/internal/observability"
	"github.com/tphakala/birdwheel/internal/telemetry"
)

// globalFlags are the persistent flags of the root command
type globalFlags struct {
	ConfigPath string
	Debug      bool
	Loop       float64
}

// RootCommand creates and returns the root command
func RootCommand(ctx *app.Context, build *buildinfo.Context) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "birdwheel",
		Short:         "Bird call wheel visualizer",
		Long:          "Shows bird call samples on a radial wheel or a spectrogram scatter and plays them back in sync.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, flags)

	versionCmd := version.Command(build)
	subcommands := []*cobra.Command{
		menu.Command(ctx),
		render.Command(ctx),
		play.Command(ctx),
		settings.Command(ctx),
		versionCmd,
	}
	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := applyFlags(cmd, ctx, flags); err != nil {
			return err
		}

		// Skip setup for the version command
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return initialize(ctx, build)
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, flags *globalFlags) {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "Path to a config file merged over the defaults")
	rootCmd.PersistentFlags().BoolVarP(&flags.Debug, "debug", "d", false, "Enable debug output")
	rootCmd.PersistentFlags().Float64Var(&flags.Loop, "loop", 0, "Loop duration in seconds every recording is wrapped onto")
}

// applyFlags reloads settings from --config and lets command line flags take precedence
func applyFlags(cmd *cobra.Command, ctx *app.Context, flags *globalFlags) error {
	if cmd.Flags().Changed("config") {
		settings, err := conf.Load(flags.ConfigPath)
		if err != nil {
			return err
		}
		ctx.Settings = settings
	}

	s := ctx.Settings
	if cmd.Flags().Changed("debug") {
		s.Debug = flags.Debug
	}
	if cmd.Flags().Changed("loop") {
		// a drop threshold that followed the loop keeps following it
		if s.Playback.MaxDuration == s.Playback.LoopDuration {
			s.Playback.MaxDuration = flags.Loop
		}
		s.Playback.LoopDuration = flags.Loop
		if err := conf.ValidateSettings(s); err != nil {
			return err
		}
	}
	return nil
}

// initialize is called before any subcommand runs, after flags are applied.
// It sets up logging, telemetry, metrics and the asset loaders.
func initialize(ctx *app.Context, build *buildinfo.Context) error {
	s := ctx.Settings

	level := s.Log.Level
	if s.Debug {
		level = "debug"
	}
	central, err := logger.NewCentralLogger(&logger.LoggingConfig{
		DefaultLevel: level,
		JSON:         s.Log.JSON,
		FilePath:     s.Log.File,
	}, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.SetGlobal(central)

	if err := telemetry.InitSentry(s, telemetry.Options{Release: build.Release()}); err != nil {
		// telemetry is optional, keep running without it
		central.Module("main").Warn("Telemetry disabled", logger.Error(err))
	}

	if ctx.Metrics == nil {
		m, err := observability.NewMetrics()
		if err != nil {
			return err
		}
		ctx.Metrics = m
	}

	return ctx.Init()
}

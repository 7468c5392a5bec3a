package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/tphakala/birdwheel/cmd"
	"github.com/tphakala/birdwheel/internal/app"
	"github.com/tphakala/birdwheel/internal/buildinfo"
	"github.com/tphakala/birdwheel/internal/conf"
	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/logger"
	"github.com/tphakala/birdwheel/internal/telemetry"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   string
	buildDate string
)

func main() {
	os.Exit(run())
}

func run() int {
	// Optional .env file with BIRDWHEEL_* overrides
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		return 1
	}

	settings, err := conf.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	ctx := app.NewContext(settings)
	rootCmd := cmd.RootCommand(ctx, buildinfo.NewContext(version, buildDate))

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	execErr := rootCmd.ExecuteContext(signalCtx)

	if err := ctx.Metrics.Dump(ctx.Settings.Metrics.Output); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing metrics: %v\n", err)
	}
	telemetry.Flush()
	_ = logger.Global().Close()

	if execErr != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", execErr))
		return 1
	}
	return 0
}

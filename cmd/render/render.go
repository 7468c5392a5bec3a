// Package render implements the render subcommand writing wheel and scatter SVGs.
package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tphakala/birdwheel/internal/app"
	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/logger"
	"github.com/tphakala/birdwheel/internal/playback"
	svgrender "github.com/tphakala/birdwheel/internal/render"
)

// Views that can be rendered
const (
	ViewWheel   = "wheel"
	ViewScatter = "scatter"
)

type options struct {
	All    bool
	Output string
}

// Command creates the render command.
func Command(ctx *app.Context) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "render wheel|scatter [titles...]",
		Short: "Render the chosen birds to an SVG file",
		Long: `Loads the chosen birds and writes the radial wheel or the time/frequency
scatter as SVG. Birds that fail to load are skipped with a warning.`,
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: []string{ViewWheel, ViewScatter},
		RunE: func(cmd *cobra.Command, args []string) error {
			view, titles := args[0], args[1:]
			if len(titles) == 0 && !opts.All {
				return fmt.Errorf("name at least one bird or pass --all")
			}
			return Run(cmd.Context(), ctx, view, titles, opts.All, opts.Output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Render every bird of the manifest")
	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "Output file, defaults to wheel.output or scatter.output")

	return cmd
}

// Run renders view for the birds named by titles, or for every bird when all is set,
// and writes it to out (the configured output when empty). The written path is reported on w.
func Run(ctx context.Context, appCtx *app.Context, view string, titles []string, all bool, out string, w io.Writer) error {
	log := svgrender.GetLogger()

	if out == "" {
		switch view {
		case ViewWheel:
			out = appCtx.Settings.Wheel.Output
		case ViewScatter:
			out = appCtx.Settings.Scatter.Output
		default:
			return errors.Newf("unknown view %q, want %s or %s", view, ViewWheel, ViewScatter).
				Component("render").
				Category(errors.CategoryValidation).
				Build()
		}
	}

	sync, catalog, err := appCtx.NewSynchronizer(ctx, playback.NopView{}, playback.NewManualScheduler())
	if err != nil {
		return err
	}
	defer func() {
		if err := sync.Close(); err != nil {
			log.Warn("Failed to release audio handles", logger.Error(err))
		}
	}()

	records, err := app.Select(catalog, titles, all)
	if err != nil {
		return err
	}

	failed, err := appCtx.Preload(ctx, records)
	if err != nil {
		return err
	}
	skip := make(map[string]bool, len(failed))
	for _, title := range failed {
		skip[title] = true
	}

	// activation order decides layer order and scatter colours
	for _, r := range records {
		if skip[r.Title] {
			continue
		}
		if _, err := sync.Activate(ctx, r); err != nil {
			log.Warn("Bird skipped", logger.String("bird", r.Title), logger.Error(err))
		}
	}

	snap := sync.Snapshot()
	switch view {
	case ViewWheel:
		err = svgrender.WriteFile(out, func(fw io.Writer) error {
			return svgrender.Wheel(fw, appCtx.Radial(), snap.Layers, svgrender.WheelView{Angle: snap.Indicator})
		})
	case ViewScatter:
		layers := sync.ScatterLayers(appCtx.Scatter())
		err = svgrender.WriteFile(out, func(fw io.Writer) error {
			return svgrender.Scatter(fw, appCtx.Scatter(), layers)
		})
	default:
		err = errors.Newf("unknown view %q", view).
			Component("render").
			Category(errors.CategoryValidation).
			Build()
	}
	if err != nil {
		return err
	}

	log.Info("Rendered view",
		logger.String("view", view),
		logger.String("path", out),
		logger.Int("birds", len(snap.Active)))

	_, err = fmt.Fprintf(w, "%s: %d birds (%s) -> %s\n", view, len(snap.Active), strings.Join(snap.Active, ", "), out)
	return err
}

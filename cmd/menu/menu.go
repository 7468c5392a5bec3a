// Package menu implements the menu subcommand and the habitat menu printer
// shared with the interactive player.
package menu

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/tphakala/birdwheel/internal/app"
	"github.com/tphakala/birdwheel/internal/manifest"
)

// Command creates the menu command listing the birds by habitat.
func Command(ctx *app.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List the birds grouped by habitat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := ctx.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			return Print(cmd.OutOrStdout(), catalog.Menu(), nil)
		},
	}

	return cmd
}

// terminal colours a swatch can be shown in
var palette = []struct {
	attr color.Attribute
	hex  string
}{
	{color.FgHiRed, "#ff0000"},
	{color.FgHiGreen, "#00ff00"},
	{color.FgHiYellow, "#ffff00"},
	{color.FgHiBlue, "#0000ff"},
	{color.FgHiMagenta, "#ff00ff"},
	{color.FgHiCyan, "#00ffff"},
	{color.FgHiWhite, "#ffffff"},
	{color.FgHiBlack, "#808080"},
}

// Swatch returns the terminal colour closest to hex, white when hex does not parse.
func Swatch(hex string) color.Attribute {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.FgHiWhite
	}

	best, bestDist := color.FgHiWhite, -1.0
	for _, p := range palette {
		pc, _ := colorful.Hex(p.hex)
		if d := c.DistanceLab(pc); bestDist < 0 || d < bestDist {
			best, bestDist = p.attr, d
		}
	}
	return best
}

// Print writes one section per habitat: a coloured swatch and label, then the birds.
// Birds for which active reports true are marked.
func Print(w io.Writer, groups []manifest.MenuGroup, active func(title string) bool) error {
	if len(groups) == 0 {
		_, err := fmt.Fprintln(w, "no birds")
		return err
	}

	bold := color.New(color.Bold)
	for _, g := range groups {
		swatch := color.New(Swatch(g.Swatch))
		if _, err := fmt.Fprintf(w, "%s %s\n", swatch.Sprint("●"), bold.Sprint(g.Habitat.Label)); err != nil {
			return err
		}
		for _, b := range g.Birds {
			mark := " "
			if active != nil && active(b.Title) {
				mark = "*"
			}
			if _, err := fmt.Fprintf(w, "  %s %s\n", mark, b.Title); err != nil {
				return err
			}
		}
	}
	return nil
}

// Package play implements the interactive playback session.
package play

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tphakala/birdwheel/internal/app"
)

// Command creates the play command.
func Command(ctx *app.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [titles...]",
		Short: "Start an interactive playback session",
		Long: `Reads commands from standard input:

  toggle <title|number>  show or hide a bird
  play, stop, space      start, stop or toggle playback
  list                   show the menu with the shown birds marked
  snap [file]            write the wheel with the current playhead
  scatter [file]         write the spectrogram scatter of the shown birds
  quit                   end the session

Birds named on the command line are shown at start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := newTerminalView(cmd.OutOrStdout(), ctx.Settings.Playback.LoopDuration)
			r, err := newREPL(cmd.Context(), ctx, view, nil, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer r.close()

			for _, title := range args {
				r.exec(cmd.Context(), "toggle "+title)
			}
			return r.run(cmd.Context(), os.Stdin)
		},
	}

	return cmd
}

package play

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/tphakala/birdwheel/cmd/menu"
	"github.com/tphakala/birdwheel/internal/app"
	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/logger"
	"github.com/tphakala/birdwheel/internal/manifest"
	"github.com/tphakala/birdwheel/internal/playback"
	"github.com/tphakala/birdwheel/internal/render"
)

// repl is one interactive session over a synchronizer
type repl struct {
	app     *app.Context
	sync    *playback.Synchronizer
	catalog *manifest.Catalog
	out     io.Writer
	warn    *color.Color
	log     logger.Logger
}

// errQuit ends the read loop
var errQuit = errors.NewStd("quit")

// newREPL loads the catalog and builds the synchronizer. A nil scheduler runs
// frames on the configured interval.
func newREPL(ctx context.Context, appCtx *app.Context, view playback.View, scheduler playback.Scheduler, out io.Writer) (*repl, error) {
	s, catalog, err := appCtx.NewSynchronizer(ctx, view, scheduler)
	if err != nil {
		return nil, err
	}
	return &repl{
		app:     appCtx,
		sync:    s,
		catalog: catalog,
		out:     out,
		warn:    color.New(color.FgHiRed),
		log:     logger.Global().Module("play").With(logger.String("session", s.SessionID())),
	}, nil
}

func (r *repl) close() {
	if err := r.sync.Close(); err != nil {
		r.log.Warn("Failed to release audio handles", logger.Error(err))
	}
}

// run executes one command per input line until quit, end of input or cancellation
func (r *repl) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := r.exec(ctx, line); errors.Is(err, errQuit) {
				return nil
			}
		}
	}
}

// exec runs one command line. Command errors are printed and never end the session;
// only quit is returned.
func (r *repl) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, arg := strings.ToLower(fields[0]), strings.Join(fields[1:], " ")

	var err error
	switch name {
	case "toggle", "t":
		err = r.toggle(ctx, arg)
	case "play":
		err = r.sync.Play()
	case "stop":
		r.sync.Stop()
	case "space":
		err = r.sync.TogglePlay()
	case "list", "menu", "ls":
		err = menu.Print(r.out, r.catalog.Menu(), r.isActive)
	case "snap":
		err = r.snap(arg)
	case "scatter":
		err = r.scatter(arg)
	case "quit", "exit", "q":
		return errQuit
	default:
		err = fmt.Errorf("unknown command %q", name)
	}

	if err != nil {
		r.printf(r.warn, "%v\n", err)
	}
	return nil
}

func (r *repl) isActive(title string) bool {
	for _, t := range r.sync.Active() {
		if t == title {
			return true
		}
	}
	return false
}

// resolve accepts a title or a 1-based position in the manifest
func (r *repl) resolve(arg string) (manifest.BirdRecord, error) {
	if record, ok := r.catalog.Lookup(arg); ok {
		return record, nil
	}
	if n, err := strconv.Atoi(arg); err == nil {
		records := r.catalog.Records()
		if n >= 1 && n <= len(records) {
			return records[n-1], nil
		}
	}
	return manifest.BirdRecord{}, fmt.Errorf("no bird %q", arg)
}

func (r *repl) toggle(ctx context.Context, arg string) error {
	if arg == "" {
		return fmt.Errorf("usage: toggle <title|number>")
	}
	record, err := r.resolve(arg)
	if err != nil {
		return err
	}

	result, err := r.sync.Toggle(ctx, record)
	if err != nil {
		return fmt.Errorf("%s not shown: %w", record.Title, err)
	}
	r.printf(nil, "%s: %s\n", record.Title, result)
	return nil
}

func (r *repl) snap(path string) error {
	if path == "" {
		path = r.app.Settings.Wheel.Output
	}
	snap := r.sync.Snapshot()
	err := render.WriteFile(path, func(w io.Writer) error {
		return render.Wheel(w, r.app.Radial(), snap.Layers, render.WheelView{
			Angle:   snap.Indicator,
			Readout: snap.Readout,
		})
	})
	if err != nil {
		return err
	}
	r.printf(nil, "wheel -> %s\n", path)
	return nil
}

func (r *repl) scatter(path string) error {
	if path == "" {
		path = r.app.Settings.Scatter.Output
	}
	sc := r.app.Scatter()
	layers := r.sync.ScatterLayers(sc)
	err := render.WriteFile(path, func(w io.Writer) error {
		return render.Scatter(w, sc, layers)
	})
	if err != nil {
		return err
	}
	r.printf(nil, "scatter -> %s\n", path)
	return nil
}

func (r *repl) printf(c *color.Color, format string, args ...any) {
	if c == nil {
		fmt.Fprintf(r.out, format, args...)
		return
	}
	c.Fprintf(r.out, format, args...)
}

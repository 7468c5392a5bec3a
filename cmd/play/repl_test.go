package play

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tphakala/birdwheel/internal/app"
	"github.com/tphakala/birdwheel/internal/assets"
	"github.com/tphakala/birdwheel/internal/conf"
	"github.com/tphakala/birdwheel/internal/playback"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testManifest = `[
  {"title": "Mallard", "audio": "mallard.wav", "data": "mallard.json"},
  {"title": "Kea", "audio": "kea.wav", "data": "kea.json", "habitat": "forest"}
]`

type harness struct {
	repl  *repl
	sched *playback.ManualScheduler
	clock *playback.FakeClock
	out   *bytes.Buffer
	dir   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	settings := conf.Default()
	settings.Data.Manifest = "birds.json"
	settings.Data.SamplesDir = "data"
	dir := t.TempDir()
	settings.Wheel.Output = filepath.Join(dir, "wheel.svg")
	settings.Scatter.Output = filepath.Join(dir, "scatter.svg")

	appCtx := app.NewContext(settings)
	appCtx.Source = assets.NewMemorySource(map[string][]byte{
		"birds.json":        []byte(testManifest),
		"data/mallard.json": []byte(`[{"Time":1,"Frequency":100,"Volume":50},{"Time":3,"Frequency":200,"Volume":20}]`),
		"data/kea.json":     []byte(`[{"Time":4,"Frequency":400,"Volume":30}]`),
	})
	clock := playback.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	appCtx.Clock = clock
	require.NoError(t, appCtx.Init())

	out := &bytes.Buffer{}
	sched := playback.NewManualScheduler()
	r, err := newREPL(t.Context(), appCtx, newTerminalView(out, settings.Playback.LoopDuration), sched, out)
	require.NoError(t, err)
	t.Cleanup(r.close)

	return &harness{repl: r, sched: sched, clock: clock, out: out, dir: dir}
}

func TestREPL_ToggleByTitleAndNumber(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.repl.exec(t.Context(), "toggle Mallard"))
	require.NoError(t, h.repl.exec(t.Context(), "t 2"))
	assert.Equal(t, []string{"Mallard", "Kea"}, h.repl.sync.Active())
	assert.Contains(t, h.out.String(), "Mallard: activated")
	assert.Contains(t, h.out.String(), "Kea: activated")

	require.NoError(t, h.repl.exec(t.Context(), "toggle Mallard"))
	assert.Equal(t, []string{"Kea"}, h.repl.sync.Active())
	assert.Contains(t, h.out.String(), "Mallard: deactivated")
}

func TestREPL_ErrorsDoNotEndSession(t *testing.T) {
	h := newHarness(t)

	for _, line := range []string{"toggle", "toggle Moa", "toggle 9", "play", "dance"} {
		assert.NoError(t, h.repl.exec(t.Context(), line), line)
	}

	out := h.out.String()
	assert.Contains(t, out, "usage: toggle")
	assert.Contains(t, out, `no bird "Moa"`)
	assert.Contains(t, out, `no bird "9"`)
	assert.Contains(t, out, "nothing to play")
	assert.Contains(t, out, `unknown command "dance"`)
}

func TestREPL_PlaybackReadout(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.repl.exec(t.Context(), "toggle Mallard"))

	require.NoError(t, h.repl.exec(t.Context(), "space"))
	assert.Equal(t, playback.Playing, h.repl.sync.State())

	h.clock.Advance(2 * time.Second)
	require.True(t, h.sched.Step())
	assert.Contains(t, h.out.String(), "[playing] Time: 2.0 / 8.0")

	require.NoError(t, h.repl.exec(t.Context(), "stop"))
	assert.Equal(t, playback.Idle, h.repl.sync.State())
	assert.Contains(t, h.out.String(), "[stopped] Time: 0.0 / 8.0")
}

func TestREPL_ListMarksShownBirds(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.repl.exec(t.Context(), "toggle Kea"))
	h.out.Reset()

	require.NoError(t, h.repl.exec(t.Context(), "list"))
	out := h.out.String()
	assert.Contains(t, out, "Forest")
	assert.Contains(t, out, "* Kea")
	assert.Contains(t, out, "  Mallard")
}

func TestREPL_SnapAndScatter(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.repl.exec(t.Context(), "toggle Mallard"))

	require.NoError(t, h.repl.exec(t.Context(), "snap"))
	wheel, err := os.ReadFile(filepath.Join(h.dir, "wheel.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(wheel), `data-bird="Mallard"`)
	assert.Contains(t, string(wheel), "Time: 0.0 / 8.0")

	custom := filepath.Join(h.dir, "views", "scatter.svg")
	require.NoError(t, h.repl.exec(t.Context(), "scatter "+custom))
	scatter, err := os.ReadFile(custom)
	require.NoError(t, err)
	assert.Contains(t, string(scatter), "Frequency (Hz)")
	assert.Contains(t, h.out.String(), "scatter -> "+custom)
}

func TestREPL_RunStopsAtQuit(t *testing.T) {
	h := newHarness(t)

	in := strings.NewReader("toggle Mallard\n\nquit\ntoggle Kea\n")
	require.NoError(t, h.repl.run(t.Context(), in))
	assert.Equal(t, []string{"Mallard"}, h.repl.sync.Active())
}

func TestREPL_RunStopsAtEndOfInput(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.repl.run(t.Context(), strings.NewReader("toggle Kea\n")))
	assert.Equal(t, []string{"Kea"}, h.repl.sync.Active())
}

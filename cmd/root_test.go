package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/birdwheel/internal/app"
	"github.com/tphakala/birdwheel/internal/buildinfo"
	"github.com/tphakala/birdwheel/internal/conf"
)

func execute(t *testing.T, ctx *app.Context, args ...string) (string, error) {
	t.Helper()
	root := RootCommand(ctx, buildinfo.NewContext("1.2.3", "2026-10-01"))
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRoot_Version(t *testing.T) {
	out, err := execute(t, app.NewContext(conf.Default()), "version")
	require.NoError(t, err)
	assert.Equal(t, "birdwheel 1.2.3 (built 2026-10-01)\n", out)
}

func TestRoot_LoopFlagOverridesSettings(t *testing.T) {
	ctx := app.NewContext(conf.Default())

	out, err := execute(t, ctx, "config", "--loop", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "loopduration: 4")
	assert.Contains(t, out, "maxduration: 4")
	assert.InDelta(t, 4.0, ctx.Settings.Playback.LoopDuration, 0)
	assert.NotNil(t, ctx.Metrics)
	assert.NotNil(t, ctx.Samples)
}

func TestRoot_InvalidLoop(t *testing.T) {
	_, err := execute(t, app.NewContext(conf.Default()), "config", "--loop", "-1")
	require.Error(t, err)
}

func TestRoot_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("playback:\n  loopduration: 12\nwheel:\n  radius: 200\n"), 0o600))

	ctx := app.NewContext(conf.Default())
	out, err := execute(t, ctx, "--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "loopduration: 12")
	assert.Contains(t, out, "radius: 200")
}

func TestRoot_MenuFromBaseDir(t *testing.T) {
	dir := t.TempDir()
	manifest := `[{"title":"Mallard","audio":"mallard.wav","data":"mallard.json"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "birds.json"), []byte(manifest), 0o600))

	settings := conf.Default()
	settings.Data.BaseDir = dir
	out, err := execute(t, app.NewContext(settings), "menu")
	require.NoError(t, err)
	assert.Contains(t, out, "Wetland")
	assert.Contains(t, out, "Mallard")
}

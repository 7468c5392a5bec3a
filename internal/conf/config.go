// Package conf loads and validates birdwheel settings.
package conf

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yaml
var defaultConfig []byte

// EnvPrefix is the prefix of environment variables overriding settings.
const EnvPrefix = "BIRDWHEEL"

// Settings contains all configuration options.
type Settings struct {
	Debug     bool                       `yaml:"debug"`
	Log       LogSettings                `yaml:"log"`
	Telemetry TelemetrySettings          `yaml:"telemetry"`
	Data      DataSettings               `yaml:"data"`
	Playback  PlaybackSettings           `yaml:"playback"`
	Wheel     WheelSettings              `yaml:"wheel"`
	Scatter   ScatterSettings            `yaml:"scatter"`
	Habitats  map[string]HabitatSettings `yaml:"habitats"`
	Birds     []BirdHabitat              `yaml:"birds"`
	Metrics   MetricsSettings            `yaml:"metrics"`
}

// LogSettings configures the central logger.
type LogSettings struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
	File  string `yaml:"file"`
}

// TelemetrySettings configures optional error reporting.
type TelemetrySettings struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

// DataSettings locates the manifest, sample files and audio assets.
type DataSettings struct {
	BaseURL    string        `yaml:"baseurl"`
	BaseDir    string        `yaml:"basedir"`
	Manifest   string        `yaml:"manifest"`
	SamplesDir string        `yaml:"samplesdir"`
	AudioDir   string        `yaml:"audiodir"`
	Timeout    time.Duration `yaml:"timeout"`
	RateLimit  float64       `yaml:"ratelimit"`
	CacheTTL   time.Duration `yaml:"cachettl"`
}

// PlaybackSettings controls the display loop and the frame scheduler.
type PlaybackSettings struct {
	LoopDuration  float64       `yaml:"loopduration"`
	MaxDuration   float64       `yaml:"maxduration"`
	FrameInterval time.Duration `yaml:"frameinterval"`
}

// WheelSettings describes the radial canvas.
type WheelSettings struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	Radius          float64 `yaml:"radius"`
	Rings           int     `yaml:"rings"`
	SpokeStep       float64 `yaml:"spokestep"`
	RimOffset       float64 `yaml:"rimoffset"`
	MarkRadius      float64 `yaml:"markradius"`
	OpacityExponent float64 `yaml:"opacityexponent"`
	Output          string  `yaml:"output"`
}

// ScatterSettings describes the Cartesian spectrogram canvas.
type ScatterSettings struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Margin       float64 `yaml:"margin"`
	TimeMax      float64 `yaml:"timemax"`
	FrequencyMax float64 `yaml:"frequencymax"`
	VolumeMax    float64 `yaml:"volumemax"`
	SizeMin      float64 `yaml:"sizemin"`
	SizeMax      float64 `yaml:"sizemax"`
	Opacity      float64 `yaml:"opacity"`
	Ticks        int     `yaml:"ticks"`
	Output       string  `yaml:"output"`
}

// HabitatSettings is a menu category with its colour gradient endpoints.
type HabitatSettings struct {
	Label  string   `yaml:"label"`
	Colors []string `yaml:"colors"`
}

// BirdHabitat assigns a bird title to a habitat.
type BirdHabitat struct {
	Title   string `yaml:"title"`
	Habitat string `yaml:"habitat"`
}

// MetricsSettings controls the Prometheus text dump.
type MetricsSettings struct {
	Output string `yaml:"output"`
}

// Load reads the embedded defaults, merges the config file at path (or the first
// config.yaml found in the default locations) and applies BIRDWHEEL_* environment overrides.
func Load(path string) (*Settings, error) {
	if path == "" {
		path = findConfigFile()
	}
	return load(path)
}

// Default returns the embedded default settings with environment overrides applied.
func Default() *Settings {
	settings, err := load("")
	if err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return settings
}

func load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultConfig)); err != nil {
		return nil, fmt.Errorf("error reading embedded defaults: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	settings.Normalize()

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// Normalize fills derived values left at zero.
func (s *Settings) Normalize() {
	if s.Playback.MaxDuration == 0 {
		s.Playback.MaxDuration = s.Playback.LoopDuration
	}
}

// HabitatOf returns the habitat assigned to a bird title, or "" when unassigned.
func (s *Settings) HabitatOf(title string) string {
	for _, b := range s.Birds {
		if b.Title == title {
			return b.Habitat
		}
	}
	return ""
}

// findConfigFile returns the first existing config.yaml in the default locations.
func findConfigFile() string {
	for _, dir := range defaultConfigPaths() {
		candidate := filepath.Join(dir, "config.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "birdwheel"))
	}
	return paths
}

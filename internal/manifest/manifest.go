// Package manifest loads the list of bird recordings and groups it into the habitat menu.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tphakala/birdwheel/internal/assets"
	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/logger"
	"github.com/tphakala/birdwheel/internal/observability/metrics"
)

const componentName = "manifest"

// BirdRecord is one entry of the manifest. Title is the unique display key.
type BirdRecord struct {
	Title   string `json:"title" yaml:"title"`
	Audio   string `json:"audio" yaml:"audio"`
	Data    string `json:"data" yaml:"data"`
	Habitat string `json:"habitat,omitempty" yaml:"habitat,omitempty"`
}

// GetLogger returns the manifest module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module(componentName)
}

// Loader fetches and decodes manifests from a Source.
type Loader struct {
	Source  assets.Source
	Metrics *metrics.VisualizerMetrics
}

// Load fetches ref from src and decodes it. See Loader.Load.
func Load(ctx context.Context, src assets.Source, ref string) ([]BirdRecord, error) {
	return (&Loader{Source: src}).Load(ctx, ref)
}

// Load fetches and decodes the manifest at ref. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON. Invalid records are logged and skipped.
// Fetch and decode failures are logged and returned; there is no retry.
func (l *Loader) Load(ctx context.Context, ref string) ([]BirdRecord, error) {
	log := GetLogger().With(logger.String("manifest", l.Source.Locate(ref)))
	start := time.Now()

	records, err := l.load(ctx, ref)
	if err != nil {
		log.Error("Failed to load manifest", logger.Error(err))
		l.Metrics.RecordManifestLoad(metrics.StatusError, 0)
		return nil, err
	}

	log.Info("Manifest loaded",
		logger.Int("birds", len(records)),
		logger.Duration("duration", time.Since(start)))
	l.Metrics.RecordManifestLoad(metrics.StatusSuccess, len(records))
	return records, nil
}

func (l *Loader) load(ctx context.Context, ref string) ([]BirdRecord, error) {
	data, err := l.Source.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	records, err := Decode(data, formatOf(ref))
	if err != nil {
		return nil, err
	}

	valid, problems := Filter(records)
	if len(problems) > 0 {
		log := GetLogger().With(logger.String("manifest", l.Source.Locate(ref)))
		for _, p := range problems {
			log.Warn("Skipping manifest record", logger.String("problem", p))
		}
		l.Metrics.RecordManifestRejected(len(problems))
	}
	return valid, nil
}

// Format is a manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatOf(ref string) Format {
	switch strings.ToLower(path.Ext(ref)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a manifest document in the given format.
func Decode(data []byte, format Format) ([]BirdRecord, error) {
	var records []BirdRecord
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &records)
	default:
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, errors.New(err).
			Component(componentName).
			Category(errors.CategoryFileParsing).
			Context("format", string(format)).
			Build()
	}
	return records, nil
}

// Filter keeps the records that can be shown and describes each one it drops: empty
// titles, repeated titles (the first occurrence wins) and records without a data reference.
func Filter(records []BirdRecord) (valid []BirdRecord, problems []string) {
	valid = make([]BirdRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for i, r := range records {
		var problem string
		switch {
		case strings.TrimSpace(r.Title) == "":
			problem = "empty title"
		case r.Data == "":
			problem = "missing data reference"
		default:
			if _, dup := seen[r.Title]; dup {
				problem = "duplicate title"
			}
		}
		if problem != "" {
			problems = append(problems, fmt.Sprintf("record %d (%q): %s", i, r.Title, problem))
			continue
		}
		seen[r.Title] = struct{}{}
		valid = append(valid, r)
	}
	return valid, problems
}

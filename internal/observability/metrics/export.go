package metrics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Gather returns the families of g whose names start with one of prefixes, or all
// families when no prefix is given.
func Gather(g prometheus.Gatherer, prefixes ...string) ([]*dto.MetricFamily, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	if len(prefixes) == 0 {
		return families, nil
	}

	kept := families[:0]
	for _, mf := range families {
		for _, p := range prefixes {
			if strings.HasPrefix(mf.GetName(), p) {
				kept = append(kept, mf)
				break
			}
		}
	}
	return kept, nil
}

// WriteText writes the families of g selected by prefixes in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer, prefixes ...string) error {
	families, err := Gather(g, prefixes...)
	if err != nil {
		return err
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteTextFile writes the text exposition of g to path, creating parent directories.
func WriteTextFile(path string, g prometheus.Gatherer) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	if err := WriteText(f, g); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

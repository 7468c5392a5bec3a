package assets

import (
	"context"
	"maps"
	"sync"

	"github.com/tphakala/birdwheel/internal/errors"
)

// MemorySource serves assets from a map. Safe for concurrent use.
type MemorySource struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySource returns a source serving a copy of files.
func NewMemorySource(files map[string][]byte) *MemorySource {
	m := &MemorySource{files: make(map[string][]byte, len(files))}
	maps.Copy(m.files, files)
	return m
}

// Put stores data under ref.
func (m *MemorySource) Put(ref string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[ref] = data
}

// Locate returns a memory: pseudo URL.
func (m *MemorySource) Locate(ref string) string {
	return "memory:" + ref
}

// Fetch returns a copy of the data stored under ref.
func (m *MemorySource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.New(err).
			Component(componentName).
			Category(errors.CategoryCancellation).
			Build()
	}

	m.mu.RLock()
	data, ok := m.files[ref]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.Newf("asset %q not found", ref).
			Component(componentName).
			Category(errors.CategoryNotFound).
			Context("ref", ref).
			Build()
	}
	return append([]byte(nil), data...), nil
}

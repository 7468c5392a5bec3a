package assets

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tphakala/birdwheel/internal/errors"
)

// FileSource reads assets below a base directory.
type FileSource struct {
	BaseDir string
}

// NewFileSource returns a FileSource rooted at dir ("." when empty).
func NewFileSource(dir string) *FileSource {
	if dir == "" {
		dir = "."
	}
	return &FileSource{BaseDir: dir}
}

// Locate returns the filesystem path of ref.
func (s *FileSource) Locate(ref string) string {
	return filepath.Join(s.BaseDir, filepath.FromSlash(ref))
}

// Fetch reads ref. References must stay below BaseDir.
func (s *FileSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.New(err).
			Component(componentName).
			Category(errors.CategoryCancellation).
			Context("ref", ref).
			Build()
	}

	if err := validateRef(ref); err != nil {
		return nil, err
	}

	path := s.Locate(ref)
	data, err := os.ReadFile(path)
	if err != nil {
		category := errors.CategoryFileIO
		if errors.Is(err, fs.ErrNotExist) {
			category = errors.CategoryNotFound
		}
		return nil, errors.New(err).
			Component(componentName).
			Category(category).
			FileContext(path).
			Context("ref", ref).
			Build()
	}

	return data, nil
}

// validateRef rejects empty, absolute and escaping references
func validateRef(ref string) error {
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(ref)))
	switch {
	case ref == "":
		return errors.Newf("empty asset reference").
			Component(componentName).
			Category(errors.CategoryValidation).
			Build()
	case filepath.IsAbs(ref), strings.HasPrefix(ref, "/"):
		return errors.Newf("absolute asset reference %q is not allowed", ref).
			Component(componentName).
			Category(errors.CategoryValidation).
			Build()
	case clean == "..", strings.HasPrefix(clean, "../"):
		return errors.Newf("asset reference %q escapes the base directory", ref).
			Component(componentName).
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

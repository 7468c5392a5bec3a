// Package render draws wheel and scatter scenes as SVG documents.
package render

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/logger"
)

const (
	componentName = "render"

	// outputDirPermissions is the permission mode for creating output directories
	outputDirPermissions = 0o755

	// outputFilePermissions is the permission mode of written SVG files
	outputFilePermissions = 0o644
)

// GetLogger returns the render module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module(componentName)
}

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

func px(v float64) int {
	return int(math.Round(v))
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}

// WriteFile renders into a temporary file next to path and renames it into place,
// so readers never observe a half-written document.
func WriteFile(path string, draw func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, outputDirPermissions); err != nil {
		return fileError(err, path, "create output directory")
	}

	tempFile, err := os.CreateTemp(dir, ".birdwheel-*.svg")
	if err != nil {
		return fileError(err, path, "create temporary file")
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()
			_ = os.Remove(tempPath)
		}
	}()

	if err := tempFile.Chmod(outputFilePermissions); err != nil {
		return fileError(err, path, "set file permissions")
	}

	buf := bufio.NewWriter(tempFile)
	if err := draw(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fileError(err, path, "flush")
	}
	if err := tempFile.Close(); err != nil {
		return fileError(err, path, "close temporary file")
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fileError(err, path, "rename temporary file")
	}

	success = true
	GetLogger().Debug("SVG written", logger.String("path", path))
	return nil
}

func fileError(err error, path, op string) error {
	return errors.New(fmt.Errorf("%s: %w", op, err)).
		Component(componentName).
		Category(errors.CategoryFileIO).
		FileContext(path).
		Build()
}

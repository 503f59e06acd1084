// Package export persists indexed surfaces to mesh file formats.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chazu/sdfkit/pkg/surface"
)

// Exporter writes a surface to a file.
type Exporter interface {
	Export(path string, s *surface.IndexedSurface) error
}

// ForPath returns the exporter matching the file extension of path.
func ForPath(path string) (Exporter, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".off":
		return OFF{}, nil
	case ".stl":
		return STL{}, nil
	default:
		return nil, fmt.Errorf("export: unsupported format %q", ext)
	}
}

// Save writes s to path using the exporter for its extension.
func Save(path string, s *surface.IndexedSurface) error {
	e, err := ForPath(path)
	if err != nil {
		return err
	}
	return e.Export(path, s)
}

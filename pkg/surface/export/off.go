package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/chazu/sdfkit/pkg/surface"
)

// OFF writes the Object File Format: a header line "OFF V F 0", one line per
// vertex and one line per face prefixed with its index count. Triangles and
// quads are both supported.
type OFF struct{}

// Export writes s to path, creating or truncating the file.
func (OFF) Export(path string, s *surface.IndexedSurface) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export: %w", cerr)
		}
	}()
	return WriteOFF(f, s)
}

// WriteOFF writes s to w in OFF format.
func WriteOFF(w io.Writer, s *surface.IndexedSurface) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "OFF %d %d %d\n", len(s.Vertices), len(s.Faces), 0)
	for _, v := range s.Vertices {
		fmt.Fprintf(bw, "%f %f %f\n", v.X, v.Y, v.Z)
	}
	for i, f := range s.Faces {
		switch len(f) {
		case 3:
			fmt.Fprintf(bw, "3 %d %d %d\n", f[0], f[1], f[2])
		case 4:
			fmt.Fprintf(bw, "4 %d %d %d %d\n", f[0], f[1], f[2], f[3])
		default:
			return fmt.Errorf("export: face %d has %d indices", i, len(f))
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

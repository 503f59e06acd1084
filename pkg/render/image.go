package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an image file encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatBMP
	FormatTIFF
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatForPath picks an encoding from the file extension.
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "":
		return 0, fmt.Errorf("render: %q has no extension", path)
	}
	return 0, fmt.Errorf("render: unsupported image extension %q", ext)
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("render: unknown format %v", f)
}

// SaveImage writes img to path, choosing the encoding by extension.
func SaveImage(path string, img image.Image) (err error) {
	f, err := FormatForPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(out, img, f)
}

package maze

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for an image format the map cannot be
// written in.
var ErrUnsupportedFormat = errors.New("unsupported map image format")

// Format names an on-disk encoding of a map.
type Format string

// Supported formats. All of them store 8-bit grayscale losslessly.
const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// FormatFromPath picks the format from a file extension, defaulting to PNG.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return FormatBMP
	case ".tif", ".tiff":
		return FormatTIFF
	default:
		return FormatPNG
	}
}

// Image returns the map as an 8-bit grayscale image whose pixel value at
// (row, col) is the tile code.
func (m *Map) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for r := 0; r < m.height; r++ {
		copy(img.Pix[r*img.Stride:r*img.Stride+m.width], m.cells[r*m.width:(r+1)*m.width])
	}
	return img
}

// FromImage builds a map from any image, converting non-gray images through
// the standard luminance model.
func FromImage(img image.Image) (*Map, error) {
	b := img.Bounds()
	m, err := New(b.Dx(), b.Dy(), 0)
	if err != nil {
		return nil, err
	}

	if g, ok := img.(*image.Gray); ok {
		for r := 0; r < m.height; r++ {
			off := g.PixOffset(b.Min.X, b.Min.Y+r)
			copy(m.cells[r*m.width:(r+1)*m.width], g.Pix[off:off+m.width])
		}
	} else {
		for r := 0; r < m.height; r++ {
			for c := 0; c < m.width; c++ {
				gray := color.GrayModel.Convert(img.At(b.Min.X+c, b.Min.Y+r)).(color.Gray)
				m.cells[r*m.width+c] = gray.Y
			}
		}
	}

	m.reindex()
	return m, nil
}

// Encode writes the map to w in the given format.
func (m *Map) Encode(w io.Writer, f Format) error {
	img := m.Image()
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Decode reads a map from r. The format is sniffed from the content.
func Decode(r io.Reader) (*Map, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding map image: %w", err)
	}
	return FromImage(img)
}

// Load reads and validates a map from path.
func Load(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening map: %w", err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return m, nil
}

// Save writes the map to path, choosing the format from the extension.
func (m *Map) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating map file: %w", err)
	}

	if err := m.Encode(f, FormatFromPath(path)); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding map: %w", err)
	}
	return f.Close()
}

package output

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"persp-raster/internal/ppm"
)

// ErrUnknownFormat is returned for a format or file extension with no encoder.
var ErrUnknownFormat = errors.New("output: unknown image format")

// Formats lists the accepted file extensions, without the dot.
var Formats = []string{"ppm", "png", "webp", "bmp", "tiff"}

// Options tunes encoding and post-processing.
type Options struct {
	// Scale enlarges the image by an integer factor with nearest-neighbour
	// sampling before encoding. Values <= 1 keep the native size.
	Scale int
}

// Encode writes img to w in the named format ("ppm", "png", "webp", "bmp",
// "tiff"/"tif").
func Encode(w io.Writer, format string, img image.Image) error {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "ppm":
		return ppm.Encode(w, img)
	case "png":
		return png.Encode(w, img)
	case "webp":
		return nativewebp.Encode(w, img, nil)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff", "tif":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Supported reports whether Encode understands the format or extension.
func Supported(format string) bool {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "ppm", "png", "webp", "bmp", "tiff", "tif":
		return true
	}
	return false
}

// Save encodes img into path, choosing the encoder from the file extension
// and creating parent directories as needed.
func Save(path string, img image.Image, opts Options) (err error) {
	ext := filepath.Ext(path)
	if !Supported(ext) {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if opts.Scale > 1 {
		img = Preview(img, opts.Scale)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("output: mkdir %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("output: close %s: %w", path, cerr)
		}
	}()

	if err := Encode(f, ext, img); err != nil {
		return fmt.Errorf("output: encode %s: %w", path, err)
	}
	return nil
}

// Preview enlarges img by an integer factor with nearest-neighbour sampling,
// keeping hard pixel edges visible.
func Preview(img image.Image, scale int) *image.RGBA {
	b := img.Bounds()
	if scale < 1 {
		scale = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

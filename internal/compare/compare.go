package compare

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"persp-raster/internal/ppm"
)

// ErrSizeMismatch is returned by Images when the two images differ in size.
var ErrSizeMismatch = errors.New("compare: image sizes differ")

// TGA has no magic number, so its registered sniffer matches anything.
// Known extensions go straight to their decoder.
var decoders = map[string]func(io.Reader) (image.Image, error){
	"ppm":  ppm.Decode,
	"png":  png.Decode,
	"jpg":  jpeg.Decode,
	"jpeg": jpeg.Decode,
	"bmp":  bmp.Decode,
	"tif":  tiff.Decode,
	"tiff": tiff.Decode,
	"tga":  tga.Decode,
	"webp": webp.Decode,
}

// Load reads a ppm, png, jpeg, bmp, tiff, tga or webp image and returns it
// as NRGBA along with the format name. Unknown extensions fall back to
// content sniffing.
func Load(path string) (*image.NRGBA, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("compare: read %s: %w", path, err)
	}

	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	var img image.Image
	if decode, ok := decoders[format]; ok {
		img, err = decode(bytes.NewReader(raw))
	} else {
		img, format, err = image.Decode(bytes.NewReader(raw))
	}
	if err != nil {
		return nil, "", fmt.Errorf("compare: decode %s: %w", path, err)
	}
	return toNRGBA(img), format, nil
}

// toNRGBA converts any image to NRGBA with its origin at (0, 0).
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Diff summarizes how two equally sized images differ.
type Diff struct {
	Width, Height int
	CoveredA      int   // pixels of A that differ from Background
	CoveredB      int   // pixels of B that differ from Background
	Differing     int   // pixels whose RGB differs between A and B
	MaxDelta      uint8 // largest per-channel difference
}

// Background is the clear color that does not count as coverage.
var Background = color.NRGBA{0, 0, 0, 255}

// Images compares a and b pixel by pixel, ignoring alpha.
func Images(a, b *image.NRGBA) (Diff, error) {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Size() != bb.Size() {
		return Diff{}, fmt.Errorf("%w: %v vs %v", ErrSizeMismatch, ab.Size(), bb.Size())
	}
	d := Diff{Width: ab.Dx(), Height: ab.Dy()}
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			pa := a.NRGBAAt(ab.Min.X+x, ab.Min.Y+y)
			pb := b.NRGBAAt(bb.Min.X+x, bb.Min.Y+y)
			if !sameRGB(pa, Background) {
				d.CoveredA++
			}
			if !sameRGB(pb, Background) {
				d.CoveredB++
			}
			if sameRGB(pa, pb) {
				continue
			}
			d.Differing++
			for _, delta := range [3]uint8{absDiff(pa.R, pb.R), absDiff(pa.G, pb.G), absDiff(pa.B, pb.B)} {
				if delta > d.MaxDelta {
					d.MaxDelta = delta
				}
			}
		}
	}
	return d, nil
}

func sameRGB(a, b color.NRGBA) bool {
	return a.R == b.R && a.G == b.G && a.B == b.B
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

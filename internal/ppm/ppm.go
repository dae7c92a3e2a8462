// Package ppm reads and writes binary (P6) portable pixmaps with a maximum
// channel value of 255. Importing the package registers the format with
// image.Decode.
package ppm

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
)

const (
	header    = "P6"
	maxPixels = 1 << 28
)

// ErrFormat reports a header or pixel stream that is not 8-bit binary PPM.
var ErrFormat = errors.New("ppm: invalid format")

func init() {
	image.RegisterFormat("ppm", header, Decode, DecodeConfig)
}

// Encode writes img as "P6\n<W> <H>\n255\n" followed by W*H RGB triples,
// row-major, top row first. Translucent pixels are composited over black.
func Encode(w io.Writer, img image.Image) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n255\n", header, b.Dx(), b.Dy()); err != nil {
		return err
	}

	// Buffers that already hold RGB bytes skip the color model conversion.
	rgb, fast := img.(interface {
		RGBAt(x, y int) (r, g, b uint8)
	})

	row := make([]byte, b.Dx()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := (x - b.Min.X) * 3
			if fast {
				row[i], row[i+1], row[i+2] = rgb.RGBAt(x, y)
				continue
			}
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			row[i] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeConfig reads only the header.
func DecodeConfig(r io.Reader) (image.Config, error) {
	w, h, err := readHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: w, Height: h}, nil
}

// Decode reads a P6 image into an *image.RGBA with opaque alpha.
func Decode(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	w, h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	row := make([]byte, w*3)
	for y := 0; y < h; y++ {
		if _, err := io.ReadFull(br, row); err != nil {
			return nil, fmt.Errorf("ppm: row %d: %w", y, err)
		}
		off := y * img.Stride
		for x := 0; x < w; x++ {
			img.Pix[off+x*4] = row[x*3]
			img.Pix[off+x*4+1] = row[x*3+1]
			img.Pix[off+x*4+2] = row[x*3+2]
			img.Pix[off+x*4+3] = 255
		}
	}
	return img, nil
}

func readHeader(br *bufio.Reader) (int, int, error) {
	magic, err := token(br)
	if err != nil {
		return 0, 0, err
	}
	if magic != header {
		return 0, 0, fmt.Errorf("%w: magic %q", ErrFormat, magic)
	}
	var vals [3]int
	for i := range vals {
		tok, err := token(br)
		if err != nil {
			return 0, 0, err
		}
		v, err := strconv.Atoi(tok)
		if err != nil || v < 0 {
			return 0, 0, fmt.Errorf("%w: bad header field %q", ErrFormat, tok)
		}
		vals[i] = v
	}
	if vals[0] > maxPixels || vals[1] > maxPixels || vals[0]*vals[1] > maxPixels {
		return 0, 0, fmt.Errorf("%w: %dx%d too large", ErrFormat, vals[0], vals[1])
	}
	if vals[2] != 255 {
		return 0, 0, fmt.Errorf("%w: unsupported maxval %d", ErrFormat, vals[2])
	}
	// Exactly one whitespace byte separates the header from the raster;
	// token already consumed it.
	return vals[0], vals[1], nil
}

// token returns the next whitespace-delimited header token, skipping
// '#' comments, and consumes the single delimiter that ends it.
func token(br *bufio.Reader) (string, error) {
	var buf []byte
	for {
		c, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				return string(buf), nil
			}
			return "", fmt.Errorf("%w: truncated header", ErrFormat)
		}
		switch {
		case c == '#' && len(buf) == 0:
			if _, err := br.ReadString('\n'); err != nil {
				return "", fmt.Errorf("%w: truncated header", ErrFormat)
			}
		case isSpace(c):
			if len(buf) > 0 {
				return string(buf), nil
			}
		default:
			buf = append(buf, c)
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

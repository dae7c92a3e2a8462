package raster

import (
	"image"
	"image/color"
)

// FrameBuffer is a caller-owned RGB render target stored as one flat slice,
// row-major, top row first. The rasterizer only borrows it for the duration
// of a Draw call.
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // RGB interleaved, len = W*H*3
}

// NewFrameBuffer allocates a zeroed (black) buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Pix:    make([]uint8, w*h*3),
	}
}

func (fb *FrameBuffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < fb.Width && y < fb.Height
}

// Set writes one pixel. It reports false, writing nothing, outside the buffer.
func (fb *FrameBuffer) Set(x, y int, r, g, b uint8) bool {
	if !fb.inBounds(x, y) {
		return false
	}
	i := (y*fb.Width + x) * 3
	fb.Pix[i] = r
	fb.Pix[i+1] = g
	fb.Pix[i+2] = b
	return true
}

// RGBAt returns the pixel at (x, y), or black outside the buffer.
func (fb *FrameBuffer) RGBAt(x, y int) (r, g, b uint8) {
	if !fb.inBounds(x, y) {
		return 0, 0, 0
	}
	i := (y*fb.Width + x) * 3
	return fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2]
}

// Clear fills the whole buffer with one color.
func (fb *FrameBuffer) Clear(r, g, b uint8) {
	for i := 0; i+2 < len(fb.Pix); i += 3 {
		fb.Pix[i] = r
		fb.Pix[i+1] = g
		fb.Pix[i+2] = b
	}
}

// ColorModel, Bounds and At make FrameBuffer an image.Image, so it can be
// handed straight to any encoder.
func (fb *FrameBuffer) ColorModel() color.Model { return color.RGBAModel }

func (fb *FrameBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, fb.Width, fb.Height) }

func (fb *FrameBuffer) At(x, y int) color.Color {
	if !fb.inBounds(x, y) {
		return color.RGBA{}
	}
	r, g, b := fb.RGBAt(x, y)
	return color.RGBA{r, g, b, 255}
}

// Opaque reports true: the buffer has no alpha channel.
func (fb *FrameBuffer) Opaque() bool { return true }

// Quantize maps a channel value in [0,1] to a byte. Out-of-range values are
// clamped; in range it truncates like a plain float-to-byte cast of v*255.
func Quantize(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

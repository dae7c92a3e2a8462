package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"persp-raster/internal/mathutil"
)

const defaultBandRows = 16

// DrawOptions controls how a triangle is painted into a FrameBuffer.
type DrawOptions struct {
	Origin Origin
	// Region limits drawing to part of the buffer; zero means all of it.
	Region image.Rectangle
	// Workers bounds the number of concurrent row bands (default GOMAXPROCS).
	Workers int
	// BandRows is the height of one unit of work (default 16).
	BandRows int
}

// Stats describes one Draw call.
type Stats struct {
	Covered int             // pixels written
	Area    float64         // twice the signed raster-space area
	Bounds  image.Rectangle // scanned pixel rectangle, empty when nothing was scanned
}

// Render projects a camera-space triangle and draws it. A projection error
// (zero depth, bad input) is returned before any pixel is written.
func Render(ctx context.Context, fb *FrameBuffer, verts [3]mathutil.Vec3, attrs [3]Attribute, mode Mode, opts DrawOptions) (Stats, error) {
	if fb == nil {
		return Stats{}, errors.New("raster: nil framebuffer")
	}
	tri, err := Project(verts, attrs, fb.Width, fb.Height, mode)
	if err != nil {
		return Stats{}, err
	}
	return Draw(ctx, fb, tri, mode, opts)
}

// Draw paints the covered pixels of a projected triangle into fb. The first
// three attribute components are read as RGB in [0,1] and quantized with
// clamping; missing components read as 0.
//
// The scanned rows are split into disjoint bands rendered concurrently, so
// each pixel is written at most once. A degenerate triangle draws nothing
// and is not an error.
//
// Cancellation is checked between rows. When ctx is done Draw returns its
// error, and rows finished before that stay written in fb.
func Draw(ctx context.Context, fb *FrameBuffer, tri Triangle, mode Mode, opts DrawOptions) (Stats, error) {
	if fb == nil {
		return Stats{}, errors.New("raster: nil framebuffer")
	}
	if len(fb.Pix) < fb.Width*fb.Height*3 {
		return Stats{}, fmt.Errorf("raster: framebuffer has %d bytes, want %d", len(fb.Pix), fb.Width*fb.Height*3)
	}
	target := Target{Width: fb.Width, Height: fb.Height, Origin: opts.Origin, Region: opts.Region}

	s, ok := newSetup(&tri, mode, target)
	stats := Stats{Area: s.area}
	if !ok {
		return stats, ctx.Err()
	}
	stats.Bounds = s.bounds

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	band := opts.BandRows
	if band <= 0 {
		band = defaultBandRows
	}

	var covered atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	bands := 0
	for y0 := s.bounds.Min.Y; y0 < s.bounds.Max.Y; y0 += band {
		if gctx.Err() != nil {
			break
		}
		y1 := min(y0+band, s.bounds.Max.Y)
		bands++
		g.Go(func() error {
			n, err := s.fillRows(gctx, fb, y0, y1)
			covered.Add(int64(n))
			return err
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	stats.Covered = int(covered.Load())
	Logger().Debug("raster: triangle drawn",
		"mode", mode.String(), "covered", stats.Covered, "bands", bands, "workers", workers)
	return stats, err
}

// fillRows shades rows [y0, y1) of the setup's bounds. Cancellation is
// checked once per row.
func (s *setup) fillRows(ctx context.Context, fb *FrameBuffer, y0, y1 int) (int, error) {
	scratch := make(Attribute, max(s.n, 3))
	covered := 0
	for j := y0; j < y1; j++ {
		if err := ctx.Err(); err != nil {
			return covered, err
		}
		py := s.target.sampleY(j)
		row := j * fb.Width * 3
		for i := s.bounds.Min.X; i < s.bounds.Max.X; i++ {
			if _, _, ok := s.eval(Point{float64(i) + 0.5, py}, true, scratch); !ok {
				continue
			}
			p := row + i*3
			fb.Pix[p] = Quantize(scratch[0])
			fb.Pix[p+1] = Quantize(scratch[1])
			fb.Pix[p+2] = Quantize(scratch[2])
			covered++
		}
	}
	return covered, nil
}

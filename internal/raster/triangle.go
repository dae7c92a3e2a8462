package raster

import (
	"image"
	"iter"
	"math"
)

// EdgeFunction returns (c.x-a.x)*(b.y-a.y) - (c.y-a.y)*(b.x-a.x): twice the
// signed area of (a, b, c). Its sign tells which side of the directed edge
// a→b the point c lies on.
func EdgeFunction(a, b, c Point) float64 {
	return (c.X-a.X)*(b.Y-a.Y) - (c.Y-a.Y)*(b.X-a.X)
}

// attrLen is the number of components every vertex attribute provides.
func (t *Triangle) attrLen() int {
	return min(len(t.Attr[0]), len(t.Attr[1]), len(t.Attr[2]))
}

// Target is the pixel grid a triangle is rasterized into.
type Target struct {
	Width  int
	Height int
	Origin Origin

	// Region restricts the scan to a sub-rectangle of the grid. The zero
	// value scans the whole grid; any other empty rectangle scans nothing.
	Region image.Rectangle
}

func (t Target) bounds() image.Rectangle {
	full := image.Rect(0, 0, t.Width, t.Height)
	if t.Region == (image.Rectangle{}) {
		return full
	}
	return t.Region.Intersect(full)
}

// sampleY returns the raster-space y of the centre of framebuffer row j.
func (t Target) sampleY(j int) float64 {
	if t.Origin == OriginTopLeft {
		return float64(j) + 0.5
	}
	return float64(t.Height-j) - 0.5
}

// Fragment is one covered pixel.
type Fragment struct {
	X, Y    int
	Weights [3]float64 // barycentric λ0, λ1, λ2
	Depth   float64    // camera-space depth at the pixel centre
	Value   Attribute
}

// setup is the per-triangle state shared by every pixel.
type setup struct {
	tri    *Triangle
	mode   Mode
	target Target
	area   float64
	sign   float64 // +1 for positive area, -1 for the opposite winding
	bounds image.Rectangle
	n      int
}

func newSetup(tri *Triangle, mode Mode, target Target) (setup, bool) {
	s := setup{tri: tri, mode: mode, target: target, n: tri.attrLen()}

	s.area = tri.Area()
	if s.area == 0 || math.IsNaN(s.area) || math.IsInf(s.area, 0) {
		Logger().Warn("raster: degenerate triangle skipped", "area", s.area)
		return s, false
	}
	s.sign = 1
	if s.area < 0 {
		s.sign = -1
	}

	// Bounding box in raster space, widened to whole pixels.
	v := tri.V
	minX := math.Min(math.Min(v[0].X, v[1].X), v[2].X)
	maxX := math.Max(math.Max(v[0].X, v[1].X), v[2].X)
	minY := math.Min(math.Min(v[0].Y, v[1].Y), v[2].Y)
	maxY := math.Max(math.Max(v[0].Y, v[1].Y), v[2].Y)

	x0, x1 := pixelSpan(minX, maxX, target.Width)
	var y0, y1 int
	if target.Origin == OriginTopLeft {
		y0, y1 = pixelSpan(minY, maxY, target.Height)
	} else {
		h := float64(target.Height)
		y0, y1 = pixelSpan(h-maxY, h-minY, target.Height)
	}

	s.bounds = image.Rect(x0, y0, x1, y1).Intersect(target.bounds())
	if s.bounds.Empty() {
		return s, false
	}
	Logger().Debug("raster: triangle setup",
		"area", s.area, "bounds", s.bounds, "mode", mode.String())
	return s, true
}

// pixelSpan returns the half-open pixel index range whose centres may fall
// in [lo, hi]. Values are clamped before conversion so far off-screen
// vertices cannot overflow int.
func pixelSpan(lo, hi float64, limit int) (int, int) {
	l := float64(limit)
	lo = math.Max(-1, math.Min(lo, l+1))
	hi = math.Max(-1, math.Min(hi, l+1))
	return int(math.Floor(lo)), int(math.Ceil(hi))
}

// eval computes barycentric weights at p, writes the interpolated attribute
// into out and returns the recovered depth. ok is false when any weight or
// the depth is undefined. When covered is set the inclusive edge test is
// applied as well.
func (s *setup) eval(p Point, covered bool, out Attribute) (lambda [3]float64, depth float64, ok bool) {
	v := s.tri.V
	w0 := EdgeFunction(v[1].Point(), v[2].Point(), p)
	w1 := EdgeFunction(v[2].Point(), v[0].Point(), p)
	w2 := EdgeFunction(v[0].Point(), v[1].Point(), p)

	if covered && (w0*s.sign < 0 || w1*s.sign < 0 || w2*s.sign < 0) {
		return lambda, 0, false
	}

	lambda = [3]float64{w0 / s.area, w1 / s.area, w2 / s.area}
	depth = lambda[0]*v[0].Depth + lambda[1]*v[1].Depth + lambda[2]*v[2].Depth
	if s.mode == ModePerspective {
		depth = 1 / depth
	}
	if math.IsNaN(depth) || math.IsInf(depth, 0) {
		return lambda, 0, false
	}

	a0, a1, a2 := s.tri.Attr[0], s.tri.Attr[1], s.tri.Attr[2]
	for k := 0; k < s.n; k++ {
		c := lambda[0]*a0[k] + lambda[1]*a1[k] + lambda[2]*a2[k]
		if s.mode == ModePerspective {
			c *= depth
		}
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return lambda, 0, false
		}
		out[k] = c
	}
	return lambda, depth, true
}

// Rasterize returns the covered pixels of tri in row-major order, top row
// first. The sequence is lazy and deterministic; ranging over it twice
// yields the same fragments. Each Fragment owns its Value.
//
// Pixels on an edge count as covered, so triangles sharing an edge both
// claim it. Either winding is accepted.
func Rasterize(tri Triangle, mode Mode, target Target) iter.Seq[Fragment] {
	return func(yield func(Fragment) bool) {
		s, ok := newSetup(&tri, mode, target)
		if !ok {
			return
		}
		scratch := make(Attribute, s.n)
		for j := s.bounds.Min.Y; j < s.bounds.Max.Y; j++ {
			py := target.sampleY(j)
			for i := s.bounds.Min.X; i < s.bounds.Max.X; i++ {
				lambda, depth, ok := s.eval(Point{float64(i) + 0.5, py}, true, scratch)
				if !ok {
					continue
				}
				f := Fragment{X: i, Y: j, Weights: lambda, Depth: depth, Value: scratch.Clone()}
				if !yield(f) {
					return
				}
			}
		}
	}
}

// Interpolate evaluates the attribute of tri at an arbitrary raster point
// without the coverage test. It reports false for a degenerate triangle or
// when the depth at p is undefined.
func Interpolate(tri Triangle, mode Mode, p Point) (Attribute, float64, bool) {
	s := setup{tri: &tri, mode: mode, n: tri.attrLen()}
	s.area = tri.Area()
	if s.area == 0 || math.IsNaN(s.area) || math.IsInf(s.area, 0) {
		return nil, 0, false
	}
	out := make(Attribute, s.n)
	_, depth, ok := s.eval(p, false, out)
	if !ok {
		return nil, 0, false
	}
	return out, depth, true
}

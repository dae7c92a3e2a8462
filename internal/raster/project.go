package raster

import (
	"fmt"
	"math"

	"persp-raster/internal/mathutil"
)

// Point is a position in raster space (pixel units).
type Point struct {
	X, Y float64
}

// ProjectedVertex is a vertex in raster space plus the depth term the
// interpolation mode needs: camera z for ModeNaive, 1/z for ModePerspective.
type ProjectedVertex struct {
	X, Y  float64
	Depth float64
}

func (v ProjectedVertex) Point() Point {
	return Point{v.X, v.Y}
}

// Attribute is an N-component per-vertex value such as an RGB color.
type Attribute []float64

// Clone returns a copy that does not share storage with a.
func (a Attribute) Clone() Attribute {
	if a == nil {
		return nil
	}
	out := make(Attribute, len(a))
	copy(out, a)
	return out
}

// Triangle is an ordered triple of projected vertices and their attributes,
// as produced by Project. Attributes are already divided by camera z when
// the triangle was projected in ModePerspective.
type Triangle struct {
	V    [3]ProjectedVertex
	Attr [3]Attribute
}

// Area returns twice the signed area of the triangle in raster space.
func (t *Triangle) Area() float64 {
	return EdgeFunction(t.V[0].Point(), t.V[1].Point(), t.V[2].Point())
}

// Validate returns ErrDegenerateTriangle when the triangle can cover no pixel.
func (t *Triangle) Validate() error {
	a := t.Area()
	if a == 0 || math.IsNaN(a) || math.IsInf(a, 0) {
		return ErrDegenerateTriangle
	}
	return nil
}

// Project converts three camera-space vertices into raster space for a
// width×height viewport. In ModePerspective each attribute component is
// divided by its vertex's camera z and the depth term becomes 1/z.
// Inputs are never modified.
func Project(verts [3]mathutil.Vec3, attrs [3]Attribute, width, height int, mode Mode) (Triangle, error) {
	var tri Triangle
	if width <= 0 || height <= 0 {
		return tri, fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}
	n := len(attrs[0])
	if n == 0 || len(attrs[1]) != n || len(attrs[2]) != n {
		return tri, fmt.Errorf("%w: %d/%d/%d components", ErrAttributeSize,
			len(attrs[0]), len(attrs[1]), len(attrs[2]))
	}

	w := float64(width)
	h := float64(height)
	for i, v := range verts {
		if !v.IsFinite() {
			return Triangle{}, fmt.Errorf("%w: vertex %d = %v", ErrNonFinite, i, v)
		}
		for _, c := range attrs[i] {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return Triangle{}, fmt.Errorf("%w: attribute %d = %v", ErrNonFinite, i, attrs[i])
			}
		}
		z := v[2]
		if z == 0 {
			return Triangle{}, fmt.Errorf("%w: vertex %d", ErrDivideByZero, i)
		}

		// Perspective divide, then NDC [-1,1] to raster [0,W]x[0,H] in one go.
		x := v[0] / z
		y := v[1] / z
		pv := ProjectedVertex{
			X:     (1 + x) * 0.5 * w,
			Y:     (1 + y) * 0.5 * h,
			Depth: z,
		}
		if !(mathutil.Vec3{pv.X, pv.Y, 1 / z}).IsFinite() {
			return Triangle{}, fmt.Errorf("%w: vertex %d projects to (%v, %v)", ErrNonFinite, i, pv.X, pv.Y)
		}

		attr := attrs[i].Clone()
		if mode == ModePerspective {
			for k := range attr {
				attr[k] /= z
			}
			pv.Depth = 1 / z
		}

		tri.V[i] = pv
		tri.Attr[i] = attr
	}
	return tri, nil
}

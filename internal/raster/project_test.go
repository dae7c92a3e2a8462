package raster

import (
	"errors"
	"math"
	"testing"

	"persp-raster/internal/mathutil"
)

// referenceVerts is the camera-space demo triangle with blue, green and red
// corners.
func referenceVerts() ([3]mathutil.Vec3, [3]Attribute) {
	return [3]mathutil.Vec3{
			{13, 34, 114},
			{29, -15, 44},
			{-48, -10, 82},
		}, [3]Attribute{
			{0, 0, 1},
			{0, 1, 0},
			{1, 0, 0},
		}
}

func mustProject(t *testing.T, mode Mode, w, h int) Triangle {
	t.Helper()
	verts, attrs := referenceVerts()
	tri, err := Project(verts, attrs, w, h, mode)
	if err != nil {
		t.Fatalf("Project(%v): %v", mode, err)
	}
	return tri
}

func TestProjectRasterMapping(t *testing.T) {
	verts, _ := referenceVerts()
	tri := mustProject(t, ModeNaive, 512, 512)

	for i, v := range verts {
		wantX := (1 + v[0]/v[2]) * 0.5 * 512
		wantY := (1 + v[1]/v[2]) * 0.5 * 512
		if math.Abs(tri.V[i].X-wantX) > 1e-9 || math.Abs(tri.V[i].Y-wantY) > 1e-9 {
			t.Errorf("vertex %d = (%v, %v), want (%v, %v)", i, tri.V[i].X, tri.V[i].Y, wantX, wantY)
		}
		if tri.V[i].Depth != v[2] {
			t.Errorf("naive depth %d = %v, want %v", i, tri.V[i].Depth, v[2])
		}
	}
}

func TestProjectNDCCorners(t *testing.T) {
	tests := []struct {
		name   string
		v      mathutil.Vec3
		wantX  float64
		wantY  float64
	}{
		{"centre", mathutil.Vec3{0, 0, 5}, 320, 240},
		{"ndc min", mathutil.Vec3{-2, -2, 2}, 0, 0},
		{"ndc max", mathutil.Vec3{3, 3, 3}, 640, 480},
		{"outside is not clamped", mathutil.Vec3{4, 0, 1}, 1600, 240},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verts := [3]mathutil.Vec3{tt.v, {0, 1, 1}, {1, 0, 1}}
			attrs := [3]Attribute{{1}, {1}, {1}}
			tri, err := Project(verts, attrs, 640, 480, ModeNaive)
			if err != nil {
				t.Fatalf("Project: %v", err)
			}
			if math.Abs(tri.V[0].X-tt.wantX) > 1e-9 || math.Abs(tri.V[0].Y-tt.wantY) > 1e-9 {
				t.Errorf("got (%v, %v), want (%v, %v)", tri.V[0].X, tri.V[0].Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestProjectPerspectiveDividesAttributes(t *testing.T) {
	verts, attrs := referenceVerts()
	tri := mustProject(t, ModePerspective, 512, 512)

	for i, v := range verts {
		z := v[2]
		if math.Abs(tri.V[i].Depth-1/z) > 1e-15 {
			t.Errorf("depth %d = %v, want 1/%v", i, tri.V[i].Depth, z)
		}
		for k := range attrs[i] {
			if math.Abs(tri.Attr[i][k]-attrs[i][k]/z) > 1e-15 {
				t.Errorf("attr %d[%d] = %v, want %v", i, k, tri.Attr[i][k], attrs[i][k]/z)
			}
		}
	}
}

func TestProjectDoesNotMutateInputs(t *testing.T) {
	verts, attrs := referenceVerts()
	origVerts := verts
	orig := [3]Attribute{attrs[0].Clone(), attrs[1].Clone(), attrs[2].Clone()}

	tri, err := Project(verts, attrs, 512, 512, ModePerspective)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if verts != origVerts {
		t.Error("vertices were modified")
	}
	for i := range attrs {
		for k := range attrs[i] {
			if attrs[i][k] != orig[i][k] {
				t.Fatalf("attribute %d was modified: %v", i, attrs[i])
			}
		}
	}

	// Naive output must not alias the caller's slices either.
	naive, _ := Project(verts, attrs, 512, 512, ModeNaive)
	naive.Attr[0][0] = 42
	if attrs[0][0] == 42 {
		t.Error("naive projection aliases caller attributes")
	}
	_ = tri
}

func TestProjectErrors(t *testing.T) {
	good, attrs := referenceVerts()
	tests := []struct {
		name  string
		verts [3]mathutil.Vec3
		attrs [3]Attribute
		w, h  int
		want  error
	}{
		{
			name:  "zero depth",
			verts: [3]mathutil.Vec3{good[0], {1, 1, 0}, good[2]},
			attrs: attrs, w: 512, h: 512,
			want: ErrDivideByZero,
		},
		{
			name:  "NaN coordinate",
			verts: [3]mathutil.Vec3{{math.NaN(), 0, 1}, good[1], good[2]},
			attrs: attrs, w: 512, h: 512,
			want: ErrNonFinite,
		},
		{
			name:  "infinite attribute",
			verts: good,
			attrs: [3]Attribute{{math.Inf(1), 0, 0}, attrs[1], attrs[2]},
			w:     512, h: 512,
			want: ErrNonFinite,
		},
		{
			name:  "zero width",
			verts: good, attrs: attrs, w: 0, h: 512,
			want: ErrInvalidViewport,
		},
		{
			name:  "attribute length mismatch",
			verts: good,
			attrs: [3]Attribute{{1, 0, 0}, {0, 1}, {0, 0, 1}},
			w:     512, h: 512,
			want: ErrAttributeSize,
		},
		{
			name:  "empty attributes",
			verts: good,
			attrs: [3]Attribute{{}, {}, {}},
			w:     512, h: 512,
			want: ErrAttributeSize,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, mode := range []Mode{ModeNaive, ModePerspective} {
				_, err := Project(tt.verts, tt.attrs, tt.w, tt.h, mode)
				if !errors.Is(err, tt.want) {
					t.Errorf("%v: err = %v, want %v", mode, err, tt.want)
				}
			}
		})
	}
}

func TestTriangleValidate(t *testing.T) {
	tri := mustProject(t, ModeNaive, 512, 512)
	if err := tri.Validate(); err != nil {
		t.Errorf("reference triangle: %v", err)
	}
	flat := Triangle{V: [3]ProjectedVertex{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 10}}}
	if err := flat.Validate(); !errors.Is(err, ErrDegenerateTriangle) {
		t.Errorf("collinear triangle: err = %v, want ErrDegenerateTriangle", err)
	}
}

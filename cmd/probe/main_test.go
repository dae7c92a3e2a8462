package main

import (
	"math"
	"testing"

	"persp-raster/internal/mathutil"
	"persp-raster/internal/raster"
)

func TestDefaultPoints(t *testing.T) {
	tri := raster.Triangle{V: [3]raster.ProjectedVertex{
		{X: 0, Y: 0, Depth: 1},
		{X: 6, Y: 0, Depth: 1},
		{X: 0, Y: 6, Depth: 1},
	}}
	points := defaultPoints(tri, 2)
	want := []raster.Point{{X: 2, Y: 2}, {X: 0, Y: 0}, {X: 1.5, Y: 1.5}, {X: 3, Y: 3}}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i, p := range points {
		if math.Abs(p.X-want[i].X) > 1e-12 || math.Abs(p.Y-want[i].Y) > 1e-12 {
			t.Errorf("point %d = %v, want %v", i, p, want[i])
		}
	}
	if got := defaultPoints(tri, 0); len(got) != 1 {
		t.Errorf("steps=0 gave %d points, want only the centroid", len(got))
	}
}

func TestCameraArea(t *testing.T) {
	v := [3]mathutil.Vec3{{0, 0, 5}, {4, 0, 5}, {0, 3, 5}}
	if got := cameraArea(v); got != 6 {
		t.Errorf("cameraArea = %v, want 6", got)
	}
}

func TestParsePoints(t *testing.T) {
	points, err := parsePoints("256,256; 10.5 , -2 ;")
	if err != nil {
		t.Fatalf("parsePoints: %v", err)
	}
	if len(points) != 2 || points[1] != (raster.Point{X: 10.5, Y: -2}) {
		t.Errorf("points = %v", points)
	}
	for _, bad := range []string{"1", "a,2", "1,b"} {
		if _, err := parsePoints(bad); err == nil {
			t.Errorf("parsePoints(%q) accepted", bad)
		}
	}
}

func TestRGBPadsMissingComponents(t *testing.T) {
	if got := rgb(raster.Attribute{0.5}); got != (mathutil.Vec3{0.5, 0, 0}) {
		t.Errorf("rgb = %v", got)
	}
}

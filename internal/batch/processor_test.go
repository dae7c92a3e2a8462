package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"persp-raster/internal/mathutil"
	"persp-raster/internal/raster"
	"persp-raster/internal/scene"
)

func TestJobsNaming(t *testing.T) {
	modes := []raster.Mode{raster.ModeNaive, raster.ModePerspective}

	single := Jobs("raster", []scene.Scene{scene.Reference()}, modes)
	if len(single) != 2 || single[0].Stem != "raster-naive" || single[1].Stem != "raster-perspective" {
		t.Errorf("single-scene stems = %+v", single)
	}

	b := scene.Reference()
	b.Name = "b"
	multi := Jobs("out", []scene.Scene{scene.Reference(), b}, modes[:1])
	if len(multi) != 2 || multi[0].Stem != "out-reference-naive" || multi[1].Stem != "out-b-naive" {
		t.Errorf("multi-scene stems = %v, %v", multi[0].Stem, multi[1].Stem)
	}
}

func TestRunRendersEveryJob(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		OutputDir: dir,
		Formats:   []string{"ppm", "png"},
		Width:     128,
		Height:    128,
		Workers:   2,
	}
	jobs := Jobs("raster", []scene.Scene{scene.Reference()},
		[]raster.Mode{raster.ModeNaive, raster.ModePerspective})

	results := Run(context.Background(), cfg, jobs)
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	for _, r := range results {
		if !r.Success {
			t.Fatalf("%s/%s failed: %s", r.Scene, r.Mode, r.Error)
		}
		if r.Covered == 0 {
			t.Errorf("%s/%s covered nothing", r.Scene, r.Mode)
		}
		if len(r.Files) != 2 {
			t.Errorf("files = %v", r.Files)
		}
	}
	if results[0].Covered != results[1].Covered {
		t.Errorf("coverage differs between modes: %d vs %d", results[0].Covered, results[1].Covered)
	}

	naive, err := os.ReadFile(filepath.Join(dir, "raster-naive.ppm"))
	if err != nil {
		t.Fatal(err)
	}
	persp, err := os.ReadFile(filepath.Join(dir, "raster-perspective.ppm"))
	if err != nil {
		t.Fatal(err)
	}
	if len(naive) != len("P6\n128 128\n255\n")+128*128*3 {
		t.Errorf("ppm size = %d", len(naive))
	}
	if bytes.Equal(naive, persp) {
		t.Error("naive and perspective images are identical")
	}

	manifest := filepath.Join(dir, "manifest.json")
	if err := WriteManifest(manifest, results); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	data, _ := os.ReadFile(manifest)
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if len(entries) != 2 || entries[0].Images[0] != "raster-naive.ppm" {
		t.Errorf("manifest = %+v", entries)
	}
}

func TestRunReportsProjectionError(t *testing.T) {
	bad := scene.Scene{
		Name:     "flat",
		Vertices: [3]mathutil.Vec3{{0, 0, 1}, {1, 0, 0}, {0, 1, 1}},
		Colors:   [3]mathutil.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	}
	dir := t.TempDir()
	cfg := Config{OutputDir: dir, Formats: []string{"ppm"}, Width: 32, Height: 32, Workers: 1}

	results := Run(context.Background(), cfg, Jobs("x", []scene.Scene{bad}, []raster.Mode{raster.ModePerspective}))
	if results[0].Success || results[0].Error == "" {
		t.Fatalf("result = %+v, want failure", results[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "x-perspective.ppm")); !os.IsNotExist(err) {
		t.Error("image written for a rejected triangle")
	}
}

func TestRunBackground(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		OutputDir:  dir,
		Formats:    []string{"ppm"},
		Width:      16,
		Height:     16,
		Workers:    1,
		Background: [3]uint8{1, 2, 3},
	}
	// Far off to the side: nothing covered, only background remains.
	off := scene.Scene{
		Name:     "off",
		Vertices: [3]mathutil.Vec3{{50, 50, 1}, {60, 50, 1}, {50, 60, 1}},
		Colors:   [3]mathutil.Vec3{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}},
	}
	results := Run(context.Background(), cfg, Jobs("bg", []scene.Scene{off}, []raster.Mode{raster.ModeNaive}))
	if !results[0].Success || results[0].Covered != 0 {
		t.Fatalf("result = %+v", results[0])
	}
	data, _ := os.ReadFile(filepath.Join(dir, "bg-naive.ppm"))
	raw := data[len("P6\n16 16\n255\n"):]
	if raw[0] != 1 || raw[1] != 2 || raw[2] != 3 {
		t.Errorf("first pixel = %v, want background", raw[:3])
	}
}

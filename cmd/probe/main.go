package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"persp-raster/internal/mathutil"
	"persp-raster/internal/raster"
	"persp-raster/internal/scene"
)

func main() {
	sceneFile := flag.String("scene", "", "Scene JSON file (default: built-in reference triangle)")
	width := flag.Int("width", 512, "Viewport width")
	height := flag.Int("height", 512, "Viewport height")
	at := flag.String("at", "", "Raster points to probe, e.g. \"256,256;100,40\" (default: centroid and median)")
	steps := flag.Int("steps", 8, "Samples along the median")
	flag.Parse()

	scenes := []scene.Scene{scene.Reference()}
	if *sceneFile != "" {
		var err error
		scenes, err = scene.Load(*sceneFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	var custom []raster.Point
	if *at != "" {
		var err error
		custom, err = parsePoints(*at)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	failed := false
	for _, s := range scenes {
		naive, err := raster.Project(s.Vertices, s.Attributes(), *width, *height, raster.ModeNaive)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", s.Name, err)
			failed = true
			continue
		}
		persp, err := raster.Project(s.Vertices, s.Attributes(), *width, *height, raster.ModePerspective)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", s.Name, err)
			failed = true
			continue
		}

		fmt.Printf("=== %s (%dx%d) ===\n", s.Name, *width, *height)
		for i, v := range naive.V {
			fmt.Printf("  v%d: (%.2f, %.2f) z=%.1f\n", i, v.X, v.Y, v.Depth)
		}
		fmt.Printf("  raster area: %.1f, camera area: %.1f\n", naive.Area()/2, cameraArea(s.Vertices))

		points := custom
		if points == nil {
			points = defaultPoints(naive, *steps)
		}

		fmt.Printf("  %-18s %-24s %-8s %-24s %-8s\n", "point", "naive rgb", "z", "perspective rgb", "z")
		fmt.Println("  (* marks points where the modes differ by more than one 8-bit step)")
		for _, p := range points {
			nv, nz, nok := raster.Interpolate(naive, raster.ModeNaive, p)
			pv, pz, pok := raster.Interpolate(persp, raster.ModePerspective, p)
			mark := " "
			if nok && pok && !rgb(nv).ApproxEqual(rgb(pv), 1.0/255) {
				mark = "*"
			}
			fmt.Printf(" %s(%7.2f,%7.2f) %-24s %-8s %-24s %-8s\n",
				mark, p.X, p.Y, fmtAttr(nv, nok), fmtDepth(nz, nok), fmtAttr(pv, pok), fmtDepth(pz, pok))
		}
	}

	if failed {
		os.Exit(1)
	}
}

// defaultPoints returns the centroid followed by samples from v0 to the
// midpoint of the opposite edge.
func defaultPoints(tri raster.Triangle, steps int) []raster.Point {
	var v [3]mathutil.Vec3
	for i, pv := range tri.V {
		v[i] = mathutil.Vec3{pv.X, pv.Y, 0}
	}
	centroid := v[0].Add(v[1]).Add(v[2]).Scale(1.0 / 3)
	points := []raster.Point{{X: centroid[0], Y: centroid[1]}}
	if steps < 1 {
		return points
	}
	mid := v[1].Lerp(v[2], 0.5)
	for i := 0; i <= steps; i++ {
		p := v[0].Lerp(mid, float64(i)/float64(steps))
		points = append(points, raster.Point{X: p[0], Y: p[1]})
	}
	return points
}

// cameraArea is the area of the unprojected triangle.
func cameraArea(v [3]mathutil.Vec3) float64 {
	return v[1].Sub(v[0]).Cross(v[2].Sub(v[0])).Len() / 2
}

// rgb reads the first three components, missing ones as 0.
func rgb(a raster.Attribute) mathutil.Vec3 {
	var c mathutil.Vec3
	copy(c[:], a)
	return c
}

func parsePoints(s string) ([]raster.Point, error) {
	var points []raster.Point
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		xs, ys, ok := strings.Cut(part, ",")
		if !ok {
			return nil, fmt.Errorf("point %q: want x,y", part)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", part, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", part, err)
		}
		points = append(points, raster.Point{X: x, Y: y})
	}
	return points, nil
}

func fmtAttr(v raster.Attribute, ok bool) string {
	if !ok {
		return "-"
	}
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'f', 3, 64)
	}
	return strings.Join(parts, " ")
}

func fmtDepth(z float64, ok bool) string {
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(z, 'f', 2, 64)
}

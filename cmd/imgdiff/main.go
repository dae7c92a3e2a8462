package main

import (
	"errors"
	"fmt"
	"os"

	"persp-raster/internal/compare"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: imgdiff <a> <b>")
		os.Exit(2)
	}

	a, fa, err := compare.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	b, fb, err := compare.Load(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("A: %s (%s) %dx%d\n", os.Args[1], fa, a.Bounds().Dx(), a.Bounds().Dy())
	fmt.Printf("B: %s (%s) %dx%d\n", os.Args[2], fb, b.Bounds().Dx(), b.Bounds().Dy())

	d, err := compare.Images(a, b)
	if errors.Is(err, compare.ErrSizeMismatch) {
		fmt.Printf("Size mismatch: %v\n", err)
		os.Exit(1)
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	total := d.Width * d.Height
	fmt.Printf("Covered: A=%d B=%d\n", d.CoveredA, d.CoveredB)
	fmt.Printf("Differing: %d/%d (%.2f%%)\n", d.Differing, total, 100*float64(d.Differing)/float64(max(total, 1)))
	fmt.Printf("Max channel delta: %d\n", d.MaxDelta)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"persp-raster/internal/batch"
	"persp-raster/internal/config"
	"persp-raster/internal/raster"
	"persp-raster/internal/scene"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	sceneFile := flag.String("scene", "", "Scene JSON file (default: built-in reference triangle)")
	mode := flag.String("mode", "", "Interpolation: naive, perspective or both (default: both)")
	origin := flag.String("origin", "", "Raster origin: bottom-left or top-left (default: bottom-left)")
	width := flag.Int("width", 0, "Image width (default: 512)")
	height := flag.Int("height", 0, "Image height (default: 512)")
	outputDir := flag.String("output", "", "Output directory (default: .)")
	name := flag.String("name", "", "Output file name prefix (default: raster)")
	formats := flag.String("format", "", "Comma separated formats: ppm,png,webp,bmp,tiff (default: ppm)")
	workers := flag.Int("workers", 0, "Number of concurrent renders (default: NumCPU)")
	verbose := flag.Bool("v", false, "Log rasterizer diagnostics to stderr")

	flag.Parse()

	if *verbose {
		raster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		SceneFile:  *sceneFile,
		OutputDir:  *outputDir,
		OutputName: *name,
		Width:      *width,
		Height:     *height,
		Mode:       *mode,
		Origin:     *origin,
		Formats:    *formats,
		Workers:    *workers,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	modes, _ := cfg.Modes()

	// Load scenes
	scenes := []scene.Scene{scene.Reference()}
	if cfg.SceneFile != "" {
		var err error
		scenes, err = scene.Load(cfg.SceneFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
			os.Exit(1)
		}
	}

	jobs := batch.Jobs(cfg.OutputName, scenes, modes)

	fmt.Printf("Triangle rasterizer → %v\n", cfg.Formats)
	fmt.Printf("Scenes: %d, Modes: %v, Size: %dx%d, Origin: %s, Workers: %d\n",
		len(scenes), modes, cfg.Width, cfg.Height, cfg.Origin, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		OutputDir:    cfg.OutputDir,
		Formats:      cfg.Formats,
		Width:        cfg.Width,
		Height:       cfg.Height,
		Origin:       cfg.RasterOrigin(),
		Background:   cfg.Background,
		PreviewScale: cfg.PreviewScale,
		Workers:      cfg.Workers,
		Progress:     os.Stdout,
	}

	results := batch.Run(ctx, batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.2fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	for _, r := range results {
		if r.Success {
			success++
			fmt.Printf("  %s/%s: %d pixels → %v\n", r.Scene, r.Mode, r.Covered, r.Files)
		} else {
			failed++
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(jobs))

	if failed > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, r := range results {
			if !r.Success {
				fmt.Printf("  %s/%s: %s\n", r.Scene, r.Mode, r.Error)
			}
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, cfg.OutputName+"-manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

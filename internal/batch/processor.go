package batch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"persp-raster/internal/output"
	"persp-raster/internal/raster"
	"persp-raster/internal/scene"
)

// Config holds all shared settings for a batch run.
type Config struct {
	OutputDir    string
	Formats      []string
	Width        int
	Height       int
	Origin       raster.Origin
	Background   [3]uint8
	PreviewScale int
	Workers      int // concurrent jobs
	DrawWorkers  int // row bands per triangle; 0 means GOMAXPROCS

	// Progress receives periodic status lines; nil disables them.
	Progress io.Writer
}

// Job renders one scene in one interpolation mode.
type Job struct {
	Scene scene.Scene
	Mode  raster.Mode
	Stem  string // output file name without extension
}

// Jobs pairs every scene with every mode. Output stems are
// <name>-<mode>, or <name>-<scene>-<mode> when there is more than one scene.
func Jobs(name string, scenes []scene.Scene, modes []raster.Mode) []Job {
	jobs := make([]Job, 0, len(scenes)*len(modes))
	for _, s := range scenes {
		for _, m := range modes {
			stem := fmt.Sprintf("%s-%s", name, m)
			if len(scenes) > 1 {
				stem = fmt.Sprintf("%s-%s-%s", name, s.Name, m)
			}
			jobs = append(jobs, Job{Scene: s, Mode: m, Stem: stem})
		}
	}
	return jobs
}

// Result holds the outcome of processing one job.
type Result struct {
	Scene   string
	Mode    string
	Files   []string
	Covered int
	Success bool
	Error   string
}

// Run processes all jobs using a worker pool. Results are in job order.
func Run(ctx context.Context, cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f images/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(ctx, cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(ctx context.Context, cfg Config, job Job) Result {
	res := Result{Scene: job.Scene.Name, Mode: job.Mode.String()}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	fb := raster.NewFrameBuffer(cfg.Width, cfg.Height)
	bg := cfg.Background
	if bg != ([3]uint8{}) {
		fb.Clear(bg[0], bg[1], bg[2])
	}

	stats, err := raster.Render(ctx, fb, job.Scene.Vertices, job.Scene.Attributes(), job.Mode, raster.DrawOptions{
		Origin:  cfg.Origin,
		Workers: cfg.DrawWorkers,
	})
	if err != nil {
		return fail(fmt.Errorf("render %s: %w", job.Scene.Name, err))
	}
	res.Covered = stats.Covered
	if stats.Covered == 0 {
		raster.Logger().Warn("batch: triangle covers no pixels", "scene", job.Scene.Name, "mode", res.Mode)
	}

	for _, format := range cfg.Formats {
		path := filepath.Join(cfg.OutputDir, job.Stem+"."+format)
		if err := output.Save(path, fb, output.Options{Scale: cfg.PreviewScale}); err != nil {
			return fail(err)
		}
		res.Files = append(res.Files, path)
	}

	res.Success = true
	return res
}

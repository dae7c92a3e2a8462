package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"persp-raster/internal/output"
	"persp-raster/internal/raster"
)

// Config holds the scene, output and render settings.
type Config struct {
	// Paths
	SceneFile  string `json:"scene_file"`
	OutputDir  string `json:"output_dir"`
	OutputName string `json:"output_name"`

	// Render settings
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	Mode         string   `json:"mode"`   // "naive", "perspective" or "both"
	Origin       string   `json:"origin"` // "bottom-left" or "top-left"
	Formats      []string `json:"formats"`
	Workers      int      `json:"workers"`
	PreviewScale int      `json:"preview_scale"`
	Background   [3]uint8 `json:"background"`

	// baseDir is the directory of the config file; relative paths in the
	// file are resolved against it.
	baseDir string
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.baseDir = filepath.Dir(path)

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	SceneFile  string
	OutputDir  string
	OutputName string
	Width      int
	Height     int
	Mode       string
	Origin     string
	Formats    string // comma separated
	Workers    int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.SceneFile != "" {
		c.SceneFile = flags.SceneFile
	} else if c.SceneFile != "" && !filepath.IsAbs(c.SceneFile) && c.baseDir != "" {
		c.SceneFile = filepath.Join(c.baseDir, c.SceneFile)
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	} else if c.OutputDir != "" && !filepath.IsAbs(c.OutputDir) && c.baseDir != "" {
		c.OutputDir = filepath.Join(c.baseDir, c.OutputDir)
	}
	if flags.OutputName != "" {
		c.OutputName = flags.OutputName
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Origin != "" {
		c.Origin = flags.Origin
	}
	if flags.Formats != "" {
		c.Formats = splitList(flags.Formats)
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Defaults
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.OutputName == "" {
		c.OutputName = "raster"
	}
	if c.Width <= 0 {
		c.Width = 512
	}
	if c.Height <= 0 {
		c.Height = 512
	}
	if c.Mode == "" {
		c.Mode = "both"
	}
	if c.Origin == "" {
		c.Origin = raster.OriginBottomLeft.String()
	}
	if len(c.Formats) == 0 {
		c.Formats = []string{"ppm"}
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.PreviewScale <= 0 {
		c.PreviewScale = 1
	}
}

// Validate checks the resolved settings.
func (c *Config) Validate() error {
	if _, err := c.Modes(); err != nil {
		return err
	}
	if _, err := raster.ParseOrigin(c.Origin); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for _, f := range c.Formats {
		if !output.Supported(f) {
			return fmt.Errorf("config: unsupported format %q (want one of %s)", f, strings.Join(output.Formats, ", "))
		}
	}
	return nil
}

// Modes expands the Mode setting; "both" renders naive then perspective.
func (c *Config) Modes() ([]raster.Mode, error) {
	if strings.EqualFold(strings.TrimSpace(c.Mode), "both") {
		return []raster.Mode{raster.ModeNaive, raster.ModePerspective}, nil
	}
	m, err := raster.ParseMode(c.Mode)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return []raster.Mode{m}, nil
}

// RasterOrigin returns the parsed Origin setting, defaulting to bottom-left.
func (c *Config) RasterOrigin() raster.Origin {
	o, _ := raster.ParseOrigin(c.Origin)
	return o
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

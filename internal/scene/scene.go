package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"persp-raster/internal/mathutil"
	"persp-raster/internal/raster"
)

// Scene is one camera-space triangle with an RGB color per vertex.
type Scene struct {
	Name     string           `json:"name"`
	Vertices [3]mathutil.Vec3 `json:"vertices"`
	Colors   [3]mathutil.Vec3 `json:"colors"`
}

// Reference returns the demo triangle: blue, green and red corners at
// depths 114, 44 and 82.
func Reference() Scene {
	return Scene{
		Name: "reference",
		Vertices: [3]mathutil.Vec3{
			{13, 34, 114},
			{29, -15, 44},
			{-48, -10, 82},
		},
		Colors: [3]mathutil.Vec3{
			{0, 0, 1},
			{0, 1, 0},
			{1, 0, 0},
		},
	}
}

// Attributes returns the vertex colors as rasterizer attributes.
func (s Scene) Attributes() [3]raster.Attribute {
	return [3]raster.Attribute{
		s.Colors[0].Slice(),
		s.Colors[1].Slice(),
		s.Colors[2].Slice(),
	}
}

// Validate rejects scenes the projector cannot handle, naming the vertex.
func (s Scene) Validate() error {
	for i, v := range s.Vertices {
		if !v.IsFinite() {
			return fmt.Errorf("scene %q: vertex %d: %w", s.Name, i, raster.ErrNonFinite)
		}
		if v[2] == 0 {
			return fmt.Errorf("scene %q: vertex %d: %w", s.Name, i, raster.ErrDivideByZero)
		}
		if !s.Colors[i].IsFinite() {
			return fmt.Errorf("scene %q: color %d: %w", s.Name, i, raster.ErrNonFinite)
		}
	}
	return nil
}

// Load reads a JSON scene file holding either one scene object or an array
// of them. Unnamed scenes are named after their position in the file.
func Load(path string) ([]Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	scenes, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	return scenes, nil
}

// Parse decodes scene JSON; see Load.
func Parse(data []byte) ([]Scene, error) {
	data = bytes.TrimSpace(data)
	var scenes []Scene
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &scenes); err != nil {
			return nil, err
		}
	} else {
		var s Scene
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		scenes = []Scene{s}
	}
	if len(scenes) == 0 {
		return nil, fmt.Errorf("no scenes")
	}

	for i := range scenes {
		if scenes[i].Name == "" {
			scenes[i].Name = fmt.Sprintf("scene%d", i)
		}
		if err := scenes[i].Validate(); err != nil {
			return nil, err
		}
	}
	return scenes, nil
}

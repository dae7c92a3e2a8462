package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one rendered job in the output manifest.
type ManifestEntry struct {
	Scene   string   `json:"scene"`
	Mode    string   `json:"mode"`
	Covered int      `json:"covered_pixels"`
	Images  []string `json:"images"`
	Error   string   `json:"error,omitempty"`
}

// WriteManifest writes manifest.json to path. Image paths are stored
// relative to the manifest's directory when possible.
func WriteManifest(path string, results []Result) error {
	dir := filepath.Dir(path)
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		images := make([]string, len(r.Files))
		for k, f := range r.Files {
			if rel, err := filepath.Rel(dir, f); err == nil {
				f = filepath.ToSlash(rel)
			}
			images[k] = f
		}
		entries[i] = ManifestEntry{
			Scene:   r.Scene,
			Mode:    r.Mode,
			Covered: r.Covered,
			Images:  images,
			Error:   r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

package labels

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/beads_inbox/pkg/model"
)

// PaletteFile is the palette location relative to the repository root
const PaletteFile = ".beads/labels.yaml"

// Palette is the optional per-project label configuration:
//
//	labels:
//	  - id: backend
//	    name: Backend
//	    color: "#50FA7B"
//	    description: Server-side work
type Palette struct {
	Labels []model.Label `yaml:"labels"`
}

// LoadPalette reads the palette for the repository at repoPath.
// A missing file yields an empty palette.
func LoadPalette(repoPath string) (Palette, error) {
	return LoadPaletteFile(filepath.Join(repoPath, PaletteFile))
}

// LoadPaletteFile reads and validates a palette file
func LoadPaletteFile(path string) (Palette, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Palette{}, nil
	}
	if err != nil {
		return Palette{}, fmt.Errorf("read label palette: %w", err)
	}

	var p Palette
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Palette{}, fmt.Errorf("parse label palette %s: %w", path, err)
	}

	seen := make(map[string]bool, len(p.Labels))
	for i := range p.Labels {
		entry := &p.Labels[i]
		if entry.ID == "" {
			return Palette{}, fmt.Errorf("label palette entry %d: id cannot be empty", i)
		}
		if seen[entry.ID] {
			return Palette{}, fmt.Errorf("label palette: duplicate id %q", entry.ID)
		}
		seen[entry.ID] = true

		if entry.Color != "" {
			c, err := NormalizeColor(entry.Color)
			if err != nil {
				return Palette{}, fmt.Errorf("label palette entry %q: %w", entry.ID, err)
			}
			entry.Color = c
		}
	}
	return p, nil
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tesseraos/tessera/internal/grid"
)

// Manifest lists the components to mount at boot.
type Manifest struct {
	Components []Component `yaml:"components"`
}

// Component is one manifest entry. Factory names either a built-in
// widget kind or, when it ends in .lua, a script path.
type Component struct {
	Name    string         `yaml:"name"`
	Factory string         `yaml:"factory"`
	Region  Region         `yaml:"region"`
	Params  map[string]any `yaml:"params"`
}

// Region is a placement rectangle in region units.
type Region struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// LoadManifest reads and validates an apps.yaml. An empty path yields
// an empty manifest.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	if path == "" {
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Validate checks entries for empty factories, duplicate names, and
// placements outside the region grid.
func (m Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Components))
	for i, c := range m.Components {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("component %d", i)
		}
		if c.Factory == "" {
			return fmt.Errorf("%s: factory missing", name)
		}
		if seen[c.Name] && c.Name != "" {
			return fmt.Errorf("%s: duplicate name", name)
		}
		seen[c.Name] = true
		if !grid.ValidRegionRect(c.Region.X, c.Region.Y, c.Region.W, c.Region.H) {
			return fmt.Errorf("%s: region %d,%d %dx%d outside the grid",
				name, c.Region.X, c.Region.Y, c.Region.W, c.Region.H)
		}
	}
	return nil
}

package game

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed assets.yaml
var assetsYAML []byte

// Asset is a clickable item worth a fixed number of points.
type Asset struct {
	Name     string `yaml:"name" json:"name"`
	ImageRef string `yaml:"image" json:"image"`
	Points   int    `yaml:"points" json:"points"`
}

var catalog = mustParseCatalog(assetsYAML)

// Catalog returns a copy of the embedded asset catalog.
func Catalog() []Asset {
	out := make([]Asset, len(catalog))
	copy(out, catalog)
	return out
}

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(data []byte) ([]Asset, error) {
	var doc struct {
		Assets []Asset `yaml:"assets"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validateCatalog(doc.Assets); err != nil {
		return nil, err
	}
	return doc.Assets, nil
}

func validateCatalog(assets []Asset) error {
	if len(assets) == 0 {
		return errors.New("catalog is empty")
	}
	seen := make(map[string]bool, len(assets))
	for i, a := range assets {
		name := strings.TrimSpace(a.Name)
		switch {
		case name == "":
			return fmt.Errorf("asset %d: empty name", i)
		case strings.TrimSpace(a.ImageRef) == "":
			return fmt.Errorf("asset %q: empty image", name)
		case a.Points < 1:
			return fmt.Errorf("asset %q: points %d, want >= 1", name, a.Points)
		case seen[name]:
			return fmt.Errorf("asset %q: duplicate name", name)
		}
		seen[name] = true
	}
	return nil
}

// A broken embedded catalog is a build defect, not a runtime condition.
func mustParseCatalog(data []byte) []Asset {
	assets, err := ParseCatalog(data)
	if err != nil {
		panic("game: embedded asset catalog: " + err.Error())
	}
	return assets
}

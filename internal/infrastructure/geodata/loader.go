// Package geodata loads the neighbourhood boundary GeoJSON served to the
// map UI. The geometry is passed through untouched; only the feature names
// are read, for highlight matching against the district pickers.
package geodata

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/madridpricer/backend/internal/domain"
)

// featureCollection is the minimal slice of the GeoJSON structure needed to
// index names; raw bytes are kept for rendering.
type featureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		Properties struct {
			Neighbourhood      string `json:"neighbourhood"`
			NeighbourhoodGroup string `json:"neighbourhood_group"`
		} `json:"properties"`
	} `json:"features"`
}

// Boundaries holds the loaded boundary file.
type Boundaries struct {
	raw   []byte
	names []string
}

// Load reads and indexes the GeoJSON file once at startup.
func Load(path string) (*Boundaries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBoundariesUnavailable, err)
	}

	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", domain.ErrBoundariesUnavailable, path, err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: %s is not a FeatureCollection", domain.ErrBoundariesUnavailable, path)
	}

	seen := make(map[string]bool)
	var names []string
	for _, f := range fc.Features {
		name := f.Properties.Neighbourhood
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	log.Printf("[GEODATA] Loaded %d features (%d distinct neighbourhoods) from %s",
		len(fc.Features), len(names), path)
	return &Boundaries{raw: data, names: names}, nil
}

// FeatureCollection returns the raw GeoJSON bytes for map rendering.
func (b *Boundaries) FeatureCollection() ([]byte, error) {
	if b == nil || len(b.raw) == 0 {
		return nil, domain.ErrBoundariesUnavailable
	}
	return b.raw, nil
}

// NeighbourhoodNames returns the distinct neighbourhood names in file order.
func (b *Boundaries) NeighbourhoodNames() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

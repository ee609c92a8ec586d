// Package dataset loads region topologies from JSON or YAML files.
//
// The expected layout is a list of records:
//
//	[
//	  {
//	    "name": "Groningen",
//	    "population": 583990,
//	    "density_per_square_km": 194,
//	    "connected_provinces": ["Friesland", "Drenthe"]
//	  }
//	]
package dataset

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/epidemic-sim/epidemic-sim/sim"
)

// RegionRecord is one region as stored on disk.
type RegionRecord struct {
	Name       string   `yaml:"name"`
	Population float64  `yaml:"population"`
	Density    float64  `yaml:"density_per_square_km"`
	Neighbors  []string `yaml:"connected_provinces"`
}

// LoadRegions reads a region file. JSON is accepted as a YAML subset.
func LoadRegions(path string) ([]sim.RegionSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading regions: %w", err)
	}
	specs, err := ParseRegions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return specs, nil
}

// ParseRegions strictly decodes region records and checks their values.
func ParseRegions(data []byte) ([]sim.RegionSpec, error) {
	var records []RegionRecord
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("parsing regions: %w", err)
	}
	specs := make([]sim.RegionSpec, len(records))
	for i, r := range records {
		if r.Name == "" {
			return nil, fmt.Errorf("region %d: missing name", i)
		}
		if r.Population < 0 || r.Density < 0 {
			return nil, fmt.Errorf("region %q: population and density must be non-negative", r.Name)
		}
		specs[i] = sim.RegionSpec{
			Name:       r.Name,
			Population: r.Population,
			Density:    r.Density,
			Neighbors:  append([]string(nil), r.Neighbors...),
		}
	}
	return specs, nil
}

// LoadGraph loads a region file and resolves it into a RegionGraph.
func LoadGraph(path string) (*sim.RegionGraph, error) {
	specs, err := LoadRegions(path)
	if err != nil {
		return nil, err
	}
	return sim.NewRegionGraph(specs)
}

package sim

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// RegionSpec is the unresolved form of a region as read from a dataset.
type RegionSpec struct {
	Name       string
	Population float64
	Density    float64 // inhabitants per square km
	Neighbors  []string
}

// Region is one node of a RegionGraph. Attributes may be updated through
// RegionGraph.Update; adjacency is fixed at construction.
type Region struct {
	Name       string
	Population float64
	Density    float64
	neighbors  []int
}

// Neighbors returns a copy of the region's neighbor indices.
func (r Region) Neighbors() []int {
	return append([]int(nil), r.neighbors...)
}

// RegionGraph is the static topology of a simulation: regions in dataset
// order and a symmetric adjacency relation between them.
type RegionGraph struct {
	regions []Region
	index   map[string]int
}

// NewRegionGraph resolves neighbor names against the region list.
// Returns an error and no graph if any neighbor name cannot be resolved.
// Adjacency is symmetrized: A listing B also makes A a neighbor of B.
func NewRegionGraph(specs []RegionSpec) (*RegionGraph, error) {
	g := &RegionGraph{
		regions: make([]Region, len(specs)),
		index:   make(map[string]int, len(specs)),
	}
	for i, spec := range specs {
		if _, dup := g.index[spec.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRegion, spec.Name)
		}
		g.index[spec.Name] = i
		g.regions[i] = Region{Name: spec.Name, Population: spec.Population, Density: spec.Density}
	}
	for i, spec := range specs {
		for _, name := range spec.Neighbors {
			j, ok := g.index[name]
			if !ok {
				return nil, fmt.Errorf("%w: region %q lists %q", ErrUnknownNeighbor, spec.Name, name)
			}
			if j == i {
				return nil, fmt.Errorf("%w: %q", ErrSelfNeighbor, spec.Name)
			}
			g.link(i, j)
			g.link(j, i)
		}
	}
	return g, nil
}

func (g *RegionGraph) link(from, to int) {
	for _, n := range g.regions[from].neighbors {
		if n == to {
			return
		}
	}
	g.regions[from].neighbors = append(g.regions[from].neighbors, to)
}

// Len returns the number of regions.
func (g *RegionGraph) Len() int {
	return len(g.regions)
}

// Region returns a copy of region i.
func (g *RegionGraph) Region(i int) Region {
	r := g.regions[i]
	r.neighbors = r.Neighbors()
	return r
}

// Index looks up a region by name.
func (g *RegionGraph) Index(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// Neighbors returns a copy of region i's neighbor indices.
func (g *RegionGraph) Neighbors(i int) []int {
	return g.regions[i].Neighbors()
}

// ForEach visits every region in order with a read-only copy.
func (g *RegionGraph) ForEach(fn func(i int, r Region)) {
	for i := range g.regions {
		fn(i, g.Region(i))
	}
}

// Update visits every region in order with a mutable pointer. Name changes
// are not reflected in Index lookups and should not be made.
func (g *RegionGraph) Update(fn func(i int, r *Region)) {
	for i := range g.regions {
		fn(i, &g.regions[i])
	}
}

// MeanDensity returns the average population density across all regions.
func MeanDensity(g *RegionGraph) (float64, error) {
	if g == nil || g.Len() == 0 {
		return 0, ErrEmptyGraph
	}
	densities := make([]float64, 0, g.Len())
	g.ForEach(func(_ int, r Region) {
		densities = append(densities, r.Density)
	})
	return stat.Mean(densities, nil), nil
}

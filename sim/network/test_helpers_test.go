package network

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epidemic-sim/epidemic-sim/sim"
)

// testParams returns a 1000-person region with the reference disease
// parameters, the given number of spreaders and traffic rate.
func testParams(spreaders, traffic float64) *sim.SimulationParameters {
	return &sim.SimulationParameters{
		TimeSpanDays:         100,
		InitialPopulation:    1000,
		InitialSpreaders:     spreaders,
		DiseasePeriodDays:    7,
		IncubationPeriodDays: 7,
		MortalityRate:        0.03,
		RNaught:              2.5,
		HospitalizationRate:  0.1,
		MaxHospitalCapacity:  100,
		TrafficRate:          traffic,
	}
}

func mustGraph(t *testing.T, specs ...sim.RegionSpec) *sim.RegionGraph {
	t.Helper()
	g, err := sim.NewRegionGraph(specs)
	require.NoError(t, err)
	return g
}

// pair is A <-> B with densities 100 and 300.
func pair(t *testing.T) *sim.RegionGraph {
	return mustGraph(t,
		sim.RegionSpec{Name: "A", Population: 1000, Density: 100, Neighbors: []string{"B"}},
		sim.RegionSpec{Name: "B", Population: 1000, Density: 300},
	)
}

// chain is A - B - C - D.
func chain(t *testing.T) *sim.RegionGraph {
	return mustGraph(t,
		sim.RegionSpec{Name: "A", Population: 1000, Density: 100, Neighbors: []string{"B"}},
		sim.RegionSpec{Name: "B", Population: 1000, Density: 200, Neighbors: []string{"C"}},
		sim.RegionSpec{Name: "C", Population: 1000, Density: 300, Neighbors: []string{"D"}},
		sim.RegionSpec{Name: "D", Population: 1000, Density: 400},
	)
}

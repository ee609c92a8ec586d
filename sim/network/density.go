package network

import (
	"fmt"
	"math"

	"github.com/epidemic-sim/epidemic-sim/sim"
)

// ScaleByDensity returns copies of params whose RNaught is scaled by each
// region's relative density deviation from the mean:
//
//	R0' = R0 · max(0, 1 + sensitivity·(density - mean)/mean)
//
// A sensitivity of 0 returns unchanged copies. Fails on an empty graph or
// when params does not hold one entry per region.
func ScaleByDensity(g *sim.RegionGraph, params []*sim.SimulationParameters, sensitivity float64) ([]*sim.SimulationParameters, error) {
	mean, err := sim.MeanDensity(g)
	if err != nil {
		return nil, err
	}
	if len(params) != g.Len() {
		return nil, fmt.Errorf("%w: %d parameter sets for %d regions", sim.ErrInvalidParameters, len(params), g.Len())
	}
	scaled := make([]*sim.SimulationParameters, len(params))
	g.ForEach(func(i int, r sim.Region) {
		p := params[i].Clone()
		if sensitivity != 0 && mean > 0 {
			factor := 1 + sensitivity*(r.Density-mean)/mean
			p.RNaught *= math.Max(0, factor)
		}
		scaled[i] = p
	})
	return scaled, nil
}

package network

import (
	"github.com/epidemic-sim/epidemic-sim/sim"
	"github.com/epidemic-sim/epidemic-sim/sim/trace"
)

// Couple applies one explicit traffic exchange across all regions.
//
// For each region r, deltaE = TrafficRate(r)·E(r)·h is split evenly over
// r's neighbors; each neighbor gains the share in Exposed and loses it in
// Susceptible. A share that would drive a neighbor's Susceptible negative
// is skipped. Exposed amounts are read from the states as passed in, so the
// outcome does not depend on region order. The source region is not debited.
//
// states is modified in place. Returned records list every attempted transfer.
func Couple(g *sim.RegionGraph, params []*sim.SimulationParameters, states []sim.StateVector, h float64) []trace.CouplingRecord {
	exposed := make([]float64, len(states))
	for i, s := range states {
		exposed[i] = s[sim.Exposed]
	}

	var records []trace.CouplingRecord
	for r := range states {
		neighbors := g.Neighbors(r)
		if len(neighbors) == 0 || params[r].TrafficRate == 0 {
			continue
		}
		share := params[r].TrafficRate * exposed[r] * h / float64(len(neighbors))
		if share == 0 {
			continue
		}
		from := g.Region(r).Name
		for _, n := range neighbors {
			rec := trace.CouplingRecord{From: from, To: g.Region(n).Name, Amount: share}
			if states[n][sim.Susceptible]-share < 0 {
				rec.Skipped = true
			} else {
				states[n][sim.Exposed] += share
				states[n][sim.Susceptible] -= share
			}
			records = append(records, rec)
		}
	}
	return records
}

// Package network provides multi-region simulation capabilities.
//
// This package wraps the single-region integrator (sim.Integrator) and couples
// regions through traffic on the region graph via Simulator.
package network

import (
	"github.com/epidemic-sim/epidemic-sim/sim"
)

// RegionSimulator wraps an Integrator for use in a multi-region run.
// Provides an interception point for network-level coordination.
//
// Thread-safety: NOT thread-safe. Distinct RegionSimulators may be stepped
// from different goroutines.
type RegionSimulator struct {
	index  int
	name   string
	integ  *sim.Integrator
	active []bool // last observed on/off state per measure policy
}

// NewRegionSimulator creates a RegionSimulator for region index idx.
// prefill is one of the Prefill* modes; empty means PrefillInitial.
func NewRegionSimulator(idx int, name string, p *sim.SimulationParameters, h float64, prefill string) (*RegionSimulator, error) {
	opts := []sim.IntegratorOption{sim.WithName(name)}
	if prefill == PrefillSusceptible {
		opts = append(opts, sim.WithPrefill(p.SusceptibleState()))
	}
	integ, err := sim.NewIntegrator(p, h, opts...)
	if err != nil {
		return nil, err
	}
	return &RegionSimulator{
		index:  idx,
		name:   name,
		integ:  integ,
		active: make([]bool, len(p.Measures)),
	}, nil
}

// Name returns the region name.
func (r *RegionSimulator) Name() string { return r.name }

// Index returns the region's index in the graph.
func (r *RegionSimulator) Index() int { return r.index }

// Params returns the region's parameters.
func (r *RegionSimulator) Params() *sim.SimulationParameters { return r.integ.Params() }

// State returns the latest finalized state.
func (r *RegionSimulator) State() sim.StateVector { return r.integ.Current() }

// Step advances the region by one RK4 step.
func (r *RegionSimulator) Step() error {
	_, err := r.integ.Step()
	return err
}

// SetState replaces the finalized state after coupling.
func (r *RegionSimulator) SetState(s sim.StateVector) { r.integ.ApplyCoupling(s) }

// measureTransitions returns the indices of policies whose on/off state
// changed during the last step, updating the remembered state.
func (r *RegionSimulator) measureTransitions() []int {
	var changed []int
	for i, v := range r.integ.LastMeasures() {
		on := v > 0
		if on != r.active[i] {
			r.active[i] = on
			changed = append(changed, i)
		}
	}
	return changed
}

// Result returns the padding-stripped trajectory of the region.
func (r *RegionSimulator) Result() RegionResult {
	series := r.integ.Series()
	return RegionResult{
		Name:   r.name,
		Params: r.integ.Params(),
		Times:  sim.TimeGrid(len(series), r.integ.StepSize()),
		Series: series,
	}
}

// RegionResult is the finished output of one region.
type RegionResult struct {
	Name   string
	Params *sim.SimulationParameters
	Times  []float64
	Series []sim.StateVector
}

package sim

import (
	"fmt"
	"math"
)

// Derivative returns the SEIRDS rate of change of one region already
// multiplied by the step size h, together with the per-measure reduction
// parts. Callers combine these deltas without scaling them by h again.
//
// hist holds finalized states only; the state being evaluated may be an
// intermediate RK4 estimate that is not part of the history.
func Derivative(p *SimulationParameters, s StateVector, hist *History, t, h float64) (StateVector, []float64, error) {
	pop := s[Population]
	if !(pop > 0) || math.IsInf(pop, 0) {
		return StateVector{}, nil, fmt.Errorf("%w: P=%v", ErrPopulationCollapsed, pop)
	}
	measuresChange, parts, err := EvaluateMeasures(p, s, hist, t, h)
	if err != nil {
		return StateVector{}, nil, err
	}

	var (
		recovery   = p.RecoveryRate()
		incubation = p.IncubationRate()
		waning     = p.WaningRate()
		beta       = p.InfectionRate() * (1 - measuresChange)

		sus, exp, inf, rec = s[Susceptible], s[Exposed], s[Infectious], s[Recovered]

		infections = beta * sus * inf / pop
		onset      = incubation * exp
		resolved   = recovery * inf
		deaths     = resolved * p.MortalityRate
	)

	var d StateVector
	d[Susceptible] = p.BirthRate*pop - p.DeathRate*sus - infections + waning*rec
	d[Exposed] = infections - onset - p.DeathRate*exp
	d[Infectious] = onset - resolved - p.DeathRate*inf
	d[Recovered] = resolved*(1-p.MortalityRate) - p.DeathRate*rec - waning*rec
	d[Dead] = deaths + p.DeathRate*(sus+exp+inf+rec)
	d[Population] = p.BirthRate*pop - p.DeathRate*pop - deaths
	d[Hospitalized] = (onset - resolved - p.DeathRate*inf) * p.HospitalizationRate

	d = d.Scale(h)
	if !d.IsFinite() {
		return StateVector{}, nil, fmt.Errorf("%w: derivative %v", ErrInvalidState, d)
	}
	return d, parts, nil
}

package sim

import "math"

// Compartment indices into a StateVector.
const (
	Susceptible = iota
	Exposed
	Infectious
	Recovered
	Dead
	Population
	Hospitalized

	NumCompartments
)

// CompartmentNames labels StateVector entries in index order.
var CompartmentNames = [NumCompartments]string{
	"susceptible", "exposed", "infectious", "recovered", "dead", "population", "hospitalized",
}

// StateVector is the [S, E, I, R, D, P, H] tuple of one region at one step.
// Population is integrated by its own equation and is not derived from the
// other compartments; see PopulationDrift.
type StateVector [NumCompartments]float64

// Add returns s + o.
func (s StateVector) Add(o StateVector) StateVector {
	for i := range s {
		s[i] += o[i]
	}
	return s
}

// Scale returns f·s.
func (s StateVector) Scale(f float64) StateVector {
	for i := range s {
		s[i] *= f
	}
	return s
}

// IsFinite reports whether no entry is NaN or ±Inf.
func (s StateVector) IsFinite() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Living returns S+E+I+R, the disease bookkeeping view of the population.
func (s StateVector) Living() float64 {
	return s[Susceptible] + s[Exposed] + s[Infectious] + s[Recovered]
}

// PopulationDrift returns P - (S+E+I+R). The two are advanced independently
// and may diverge over long runs; callers report the drift, they do not fix it.
func (s StateVector) PopulationDrift() float64 {
	return s[Population] - s.Living()
}

// TimeGrid returns n time points 0, h, 2h, ... for a series of length n.
func TimeGrid(n int, h float64) []float64 {
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * h
	}
	return times
}

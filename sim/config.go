package sim

import (
	"fmt"
	"math"
)

// SimulationParameters holds the rate constants, horizons and measure
// policies of one region. Built once before a run and never mutated during it.
type SimulationParameters struct {
	TimeSpanDays         float64 // simulated horizon (days, > 0)
	InitialPopulation    float64 // P at t=0 (> 0)
	InitialSpreaders     float64 // I at t=0 (0 <= spreaders <= population)
	BirthRate            float64 // natural births per capita per day
	DeathRate            float64 // natural deaths per capita per day
	DiseasePeriodDays    float64 // mean infectious period (> 0)
	IncubationPeriodDays float64 // mean latent period (> 0), also the measure detection lag
	ImmunityWaningDays   float64 // mean immunity duration; 0 = permanent immunity
	MortalityRate        float64 // fraction of resolved infections that die, [0,1]
	RNaught              float64 // basic reproduction number (>= 0)
	HospitalizationRate  float64 // fraction of net infectious inflow hospitalized, [0,1]
	MaxHospitalCapacity  float64 // beds; lockdown tiers fire on a fraction of this
	TrafficRate          float64 // per-day fraction of Exposed exported to neighbors (>= 0)
	Measures             []MeasurePolicy
}

// RecoveryRate is 1/DiseasePeriodDays.
func (p *SimulationParameters) RecoveryRate() float64 {
	return 1 / p.DiseasePeriodDays
}

// IncubationRate is 1/IncubationPeriodDays.
func (p *SimulationParameters) IncubationRate() float64 {
	return 1 / p.IncubationPeriodDays
}

// WaningRate is 1/ImmunityWaningDays, or 0 when immunity is permanent.
func (p *SimulationParameters) WaningRate() float64 {
	if p.ImmunityWaningDays <= 0 {
		return 0
	}
	return 1 / p.ImmunityWaningDays
}

// InfectionRate is the unmitigated transmission rate R0·RecoveryRate.
func (p *SimulationParameters) InfectionRate() float64 {
	return p.RNaught * p.RecoveryRate()
}

// InitialState seeds the region: everyone susceptible except the spreaders.
// Hospitalized tracks HospitalizationRate·I, so it starts at that share of
// the spreaders.
func (p *SimulationParameters) InitialState() StateVector {
	var s StateVector
	s[Susceptible] = p.InitialPopulation - p.InitialSpreaders
	s[Infectious] = p.InitialSpreaders
	s[Population] = p.InitialPopulation
	s[Hospitalized] = p.HospitalizationRate * p.InitialSpreaders
	return s
}

// SusceptibleState is the infection-free population, used to pad history
// before t=0 when the outbreak is assumed to start at t=0.
func (p *SimulationParameters) SusceptibleState() StateVector {
	var s StateVector
	s[Susceptible] = p.InitialPopulation
	s[Population] = p.InitialPopulation
	return s
}

// MaxDelay is the furthest any derivative evaluation looks back in history.
func (p *SimulationParameters) MaxDelay() float64 {
	d := p.IncubationPeriodDays
	for _, m := range p.Measures {
		d = math.Max(d, m.Lookback(p))
	}
	return d
}

// Clone returns a shallow copy; the measure slice is copied, policies are shared.
func (p *SimulationParameters) Clone() *SimulationParameters {
	c := *p
	c.Measures = append([]MeasurePolicy(nil), p.Measures...)
	return &c
}

// Validate checks that all parameter values are usable by the integrator.
func (p *SimulationParameters) Validate() error {
	positive := map[string]float64{
		"time_span_days":         p.TimeSpanDays,
		"initial_population":     p.InitialPopulation,
		"disease_period_days":    p.DiseasePeriodDays,
		"incubation_period_days": p.IncubationPeriodDays,
	}
	for name, v := range positive {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParameters, name, v)
		}
	}
	nonNegative := map[string]float64{
		"initial_spreaders":     p.InitialSpreaders,
		"birth_rate":            p.BirthRate,
		"death_rate":            p.DeathRate,
		"immunity_waning_days":  p.ImmunityWaningDays,
		"r_naught":              p.RNaught,
		"max_hospital_capacity": p.MaxHospitalCapacity,
		"traffic_rate":          p.TrafficRate,
	}
	for name, v := range nonNegative {
		if !(v >= 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidParameters, name, v)
		}
	}
	fractions := map[string]float64{
		"mortality_rate":       p.MortalityRate,
		"hospitalization_rate": p.HospitalizationRate,
	}
	for name, v := range fractions {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidParameters, name, v)
		}
	}
	if p.InitialSpreaders > p.InitialPopulation {
		return fmt.Errorf("%w: initial_spreaders %v exceeds initial_population %v",
			ErrInvalidParameters, p.InitialSpreaders, p.InitialPopulation)
	}
	for i, m := range p.Measures {
		if m == nil {
			return fmt.Errorf("%w: measure %d is nil", ErrInvalidParameters, i)
		}
	}
	return nil
}

package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// MeasurePolicy computes a transmission-reduction contribution for one
// region. Contributions of all policies attached to a region are summed
// into measuresChange, and the effective transmission rate becomes
// InfectionRate·(1 - measuresChange).
//
// Policies react to history one detection lag in the past rather than to the
// current state, which is not observable at the time the decision is made.
type MeasurePolicy interface {
	// Name identifies the policy in traces and logs.
	Name() string
	// Lookback is how many days before t the policy reads history.
	Lookback(p *SimulationParameters) float64
	// Reduction returns a non-negative contribution to measuresChange.
	Reduction(p *SimulationParameters, current StateVector, hist *History, t, h float64) (float64, error)
}

// EvaluateMeasures sums all policy contributions, clamped to [0,1], and
// returns the individual parts in policy order.
func EvaluateMeasures(p *SimulationParameters, current StateVector, hist *History, t, h float64) (float64, []float64, error) {
	if len(p.Measures) == 0 {
		return 0, nil, nil
	}
	parts := make([]float64, len(p.Measures))
	total := 0.0
	for i, m := range p.Measures {
		r, err := m.Reduction(p, current, hist, t, h)
		if err != nil {
			return 0, nil, fmt.Errorf("measure %s: %w", m.Name(), err)
		}
		parts[i] = math.Max(0, r)
		total += parts[i]
	}
	if total > 1 {
		logrus.Debugf("[day %08.2f] measures total %.3f clamped to 1", t, total)
		total = 1
	}
	return total, parts, nil
}

// HandWashing fires once delayed Infectious exceeds Threshold of delayed Population.
type HandWashing struct {
	Threshold float64 // fraction of population, default 0.01
	Severity  float64 // contribution when active, default 0.1
}

// NewHandWashing returns the canonical 1% / 0.1 hand-washing policy.
func NewHandWashing() *HandWashing {
	return &HandWashing{Threshold: 0.01, Severity: 0.1}
}

func (m *HandWashing) Name() string { return "hand-washing" }

func (m *HandWashing) Lookback(p *SimulationParameters) float64 { return p.IncubationPeriodDays }

func (m *HandWashing) Reduction(p *SimulationParameters, _ StateVector, hist *History, t, _ float64) (float64, error) {
	delayed, err := hist.Delayed(t, p.IncubationPeriodDays)
	if err != nil {
		return 0, err
	}
	if delayed[Infectious] > delayed[Population]*m.Threshold {
		return m.Severity, nil
	}
	return 0, nil
}

// LockdownTier fires once delayed Hospitalized exceeds CapacityFraction of
// the region's hospital capacity. Stacking tiers with increasing fractions
// models escalating lockdowns.
type LockdownTier struct {
	CapacityFraction float64
	Severity         float64
}

// DefaultLockdownTiers returns tiers at 40%, 60% and 80% of hospital capacity.
func DefaultLockdownTiers() []MeasurePolicy {
	return []MeasurePolicy{
		&LockdownTier{CapacityFraction: 0.4, Severity: 0.2},
		&LockdownTier{CapacityFraction: 0.6, Severity: 0.3},
		&LockdownTier{CapacityFraction: 0.8, Severity: 0.3},
	}
}

func (m *LockdownTier) Name() string {
	return fmt.Sprintf("lockdown-%.0f%%", m.CapacityFraction*100)
}

func (m *LockdownTier) Lookback(p *SimulationParameters) float64 { return p.IncubationPeriodDays }

func (m *LockdownTier) Reduction(p *SimulationParameters, _ StateVector, hist *History, t, _ float64) (float64, error) {
	delayed, err := hist.Delayed(t, p.IncubationPeriodDays)
	if err != nil {
		return 0, err
	}
	if delayed[Hospitalized] > p.MaxHospitalCapacity*m.CapacityFraction {
		return m.Severity, nil
	}
	return 0, nil
}

// SocialDistancing applies a fixed reduction during [StartDay, EndDay).
// EndDay <= 0 means the measure never ends.
type SocialDistancing struct {
	StartDay float64
	EndDay   float64
	Severity float64
}

func (m *SocialDistancing) Name() string { return "social-distancing" }

func (m *SocialDistancing) Lookback(*SimulationParameters) float64 { return 0 }

func (m *SocialDistancing) Reduction(_ *SimulationParameters, _ StateVector, _ *History, t, _ float64) (float64, error) {
	if t < m.StartDay || (m.EndDay > 0 && t >= m.EndDay) {
		return 0, nil
	}
	return m.Severity, nil
}

// MeasureConfig is the serialized form of one measure policy.
type MeasureConfig struct {
	Policy           string   `yaml:"policy"`
	Threshold        *float64 `yaml:"threshold"`
	CapacityFraction *float64 `yaml:"capacity_fraction"`
	Severity         *float64 `yaml:"severity"`
	StartDay         *float64 `yaml:"start_day"`
	EndDay           *float64 `yaml:"end_day"`
}

// ValidMeasurePolicies is the set of recognized measure policy names.
var ValidMeasurePolicies = map[string]bool{"hand-washing": true, "lockdown": true, "social-distancing": true}

// NewMeasurePolicy creates a measure policy from its configuration.
// Unset numeric fields take the policy's defaults.
func NewMeasurePolicy(cfg MeasureConfig) (MeasurePolicy, error) {
	if !ValidMeasurePolicies[cfg.Policy] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMeasure, cfg.Policy)
	}
	switch cfg.Policy {
	case "hand-washing":
		m := NewHandWashing()
		m.Threshold = valueOr(cfg.Threshold, m.Threshold)
		m.Severity = valueOr(cfg.Severity, m.Severity)
		return m, nil
	case "lockdown":
		if cfg.CapacityFraction == nil {
			return nil, fmt.Errorf("%w: lockdown requires capacity_fraction", ErrInvalidParameters)
		}
		return &LockdownTier{
			CapacityFraction: *cfg.CapacityFraction,
			Severity:         valueOr(cfg.Severity, 0.2),
		}, nil
	case "social-distancing":
		return &SocialDistancing{
			StartDay: valueOr(cfg.StartDay, 0),
			EndDay:   valueOr(cfg.EndDay, 0),
			Severity: valueOr(cfg.Severity, 0.25),
		}, nil
	default:
		panic(fmt.Sprintf("unhandled measure policy %q", cfg.Policy))
	}
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

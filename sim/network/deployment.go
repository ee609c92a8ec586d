package network

import (
	"fmt"

	"github.com/epidemic-sim/epidemic-sim/sim"
	"github.com/epidemic-sim/epidemic-sim/sim/trace"
)

// Config describes a multi-region run. All regions advance on one shared
// time grid of StepSize days.
type Config struct {
	StepSize float64 // days per step (> 0)
	Days     float64 // horizon; 0 = use the regions' TimeSpanDays (which must agree)
	Workers  int     // regions stepped in parallel per time index; <= 1 is serial

	// Prefill selects the repeating-before value that pads each region's
	// history: PrefillInitial (or empty) or PrefillSusceptible.
	Prefill string

	// DriftTolerance is the relative |P - (S+E+I+R)| / P above which a
	// warning is logged once per region. 0 disables the check.
	DriftTolerance float64

	Trace trace.TraceConfig
}

// History padding modes.
const (
	PrefillInitial     = "initial"
	PrefillSusceptible = "susceptible"
)

// ConfigFromScenario maps the run-wide section of a scenario onto a Config.
func ConfigFromScenario(sc sim.SimulationConfig) Config {
	return Config{
		StepSize:       sc.StepSize,
		Days:           sc.Days,
		Workers:        sc.Workers,
		Prefill:        sc.Prefill,
		DriftTolerance: 1e-6,
		Trace: trace.TraceConfig{
			Level:           trace.TraceLevel(sc.TraceLevel),
			RecordTransfers: sc.RecordTransfers,
		},
	}
}

func (c Config) validate() error {
	if !(c.StepSize > 0) {
		return fmt.Errorf("%w: %v", sim.ErrInvalidStepSize, c.StepSize)
	}
	if c.Days < 0 {
		return fmt.Errorf("%w: days must be non-negative, got %v", sim.ErrInvalidParameters, c.Days)
	}
	if !sim.ValidPrefills[c.Prefill] {
		return fmt.Errorf("%w: unknown prefill %q", sim.ErrInvalidParameters, c.Prefill)
	}
	if !trace.IsValidTraceLevel(string(c.Trace.Level)) {
		return fmt.Errorf("%w: unknown trace level %q", sim.ErrInvalidParameters, c.Trace.Level)
	}
	return nil
}

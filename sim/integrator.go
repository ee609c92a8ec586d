package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// DerivativeFunc returns the step-scaled delta of y at time t.
type DerivativeFunc func(y StateVector, t float64) (StateVector, error)

// StepRK4 advances y by one classical Runge-Kutta step of size h.
// f must return deltas already multiplied by h, so the weighted sum is
// added to y unscaled. With h = 0 every sample is zero and y is returned as is.
func StepRK4(f DerivativeFunc, y StateVector, t, h float64) (StateVector, error) {
	k1, err := f(y, t)
	if err != nil {
		return y, err
	}
	k2, err := f(axpy(y, 0.5, k1), t+h/2)
	if err != nil {
		return y, err
	}
	k3, err := f(axpy(y, 0.5, k2), t+h/2)
	if err != nil {
		return y, err
	}
	k4, err := f(axpy(y, 1, k3), t+h)
	if err != nil {
		return y, err
	}

	next := y
	floats.AddScaled(next[:], 1.0/6, k1[:])
	floats.AddScaled(next[:], 2.0/6, k2[:])
	floats.AddScaled(next[:], 2.0/6, k3[:])
	floats.AddScaled(next[:], 1.0/6, k4[:])
	if !next.IsFinite() {
		return y, fmt.Errorf("%w: %v", ErrInvalidState, next)
	}
	return next, nil
}

// axpy returns y + a·k.
func axpy(y StateVector, a float64, k StateVector) StateVector {
	var out StateVector
	floats.AddScaledTo(out[:], y[:], a, k[:])
	return out
}

// IntegratorOption configures an Integrator.
type IntegratorOption func(*integratorOptions)

type integratorOptions struct {
	name    string
	prefill *StateVector
	initial *StateVector
}

// WithPrefill sets the repeating-before value that pads history ahead of
// t=0. The default is the initial state.
func WithPrefill(s StateVector) IntegratorOption {
	return func(o *integratorOptions) { o.prefill = &s }
}

// WithInitialState overrides SimulationParameters.InitialState.
func WithInitialState(s StateVector) IntegratorOption {
	return func(o *integratorOptions) { o.initial = &s }
}

// WithName labels the integrator in logs and errors.
func WithName(name string) IntegratorOption {
	return func(o *integratorOptions) { o.name = name }
}

// Integrator drives delay-aware RK4 for a single region. It exclusively
// owns the region's History for the duration of a run.
//
// Thread-safety: NOT thread-safe. Distinct integrators may be stepped concurrently.
type Integrator struct {
	name         string
	params       *SimulationParameters
	h            float64
	history      *History
	steps        int
	lastMeasures []float64
}

// NewIntegrator validates p and h and allocates the padded history.
func NewIntegrator(p *SimulationParameters, h float64, opts ...IntegratorOption) (*Integrator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	o := integratorOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	initial := p.InitialState()
	if o.initial != nil {
		initial = *o.initial
	}
	before := initial
	if o.prefill != nil {
		before = *o.prefill
	}
	hist, err := NewHistory(p.MaxDelay(), h, before, initial)
	if err != nil {
		return nil, err
	}
	return &Integrator{
		name:    o.name,
		params:  p,
		h:       h,
		history: hist,
	}, nil
}

// Params returns the parameters the integrator was built with.
func (in *Integrator) Params() *SimulationParameters { return in.params }

// StepSize returns h.
func (in *Integrator) StepSize() float64 { return in.h }

// StepIndex returns the number of completed steps.
func (in *Integrator) StepIndex() int { return in.steps }

// Time returns the simulation time of the current state.
func (in *Integrator) Time() float64 { return float64(in.steps) * in.h }

// Current returns the latest finalized state.
func (in *Integrator) Current() StateVector { return in.history.Last() }

// History exposes the buffer read-only for delayed lookups in tests and traces.
func (in *Integrator) History() *History { return in.history }

// LastMeasures returns the per-policy reductions seen at the start of the
// most recent step, in policy order.
func (in *Integrator) LastMeasures() []float64 { return in.lastMeasures }

// Step advances the region by one RK4 step and appends the result.
func (in *Integrator) Step() (StateVector, error) {
	t := in.Time()
	first := true
	f := func(y StateVector, at float64) (StateVector, error) {
		d, parts, err := Derivative(in.params, y, in.history, at, in.h)
		if first && err == nil {
			in.lastMeasures = parts
			first = false
		}
		return d, err
	}
	next, err := StepRK4(f, in.history.Last(), t, in.h)
	if err != nil {
		return next, &SimulationError{Region: in.name, Step: in.steps, Time: t, Wrapped: err}
	}
	in.history.Append(next)
	in.steps++
	logrus.Debugf("[day %08.2f] %s stepped: %v", in.Time(), in.name, next)
	return next, nil
}

// ApplyCoupling replaces the latest finalized state with s. Used by the
// inter-region coupling step between global time indices.
func (in *Integrator) ApplyCoupling(s StateVector) {
	in.history.ReplaceLast(s)
}

// Run performs n steps on an isolated region.
func (in *Integrator) Run(n int) error {
	for i := 0; i < n; i++ {
		if _, err := in.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Steps returns the number of steps needed to cover days at step size h.
func Steps(days, h float64) int {
	return int(math.Ceil(days/h - indexEpsilon))
}

// Series returns the padding-stripped trajectory.
func (in *Integrator) Series() []StateVector {
	return in.history.Series()
}

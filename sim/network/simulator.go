package network

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/epidemic-sim/epidemic-sim/sim"
	"github.com/epidemic-sim/epidemic-sim/sim/trace"
)

// Simulator advances N regions on a shared time grid. At every time index
// each region takes one RK4 step, then a single coupling step exchanges
// Exposed mass between neighbors.
type Simulator struct {
	config  Config
	graph   *sim.RegionGraph
	params  []*sim.SimulationParameters
	regions []*RegionSimulator
	steps   int
	step    int
	trace   *trace.SimulationTrace
	drifted []bool
	hasRun  bool
}

// NewSimulator validates the configuration and builds one RegionSimulator
// per region. params must hold one entry per region in graph order.
func NewSimulator(g *sim.RegionGraph, params []*sim.SimulationParameters, config Config) (*Simulator, error) {
	if g == nil || g.Len() == 0 {
		return nil, sim.ErrEmptyGraph
	}
	if len(params) != g.Len() {
		return nil, fmt.Errorf("%w: %d parameter sets for %d regions", sim.ErrInvalidParameters, len(params), g.Len())
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	days := config.Days
	if days == 0 {
		days = params[0].TimeSpanDays
		for i, p := range params {
			if p.TimeSpanDays != days {
				return nil, fmt.Errorf("%w: region %q spans %v days, expected %v",
					sim.ErrInvalidParameters, g.Region(i).Name, p.TimeSpanDays, days)
			}
		}
	}
	regions := make([]*RegionSimulator, g.Len())
	for i := range regions {
		name := g.Region(i).Name
		r, err := NewRegionSimulator(i, name, params[i], config.StepSize, config.Prefill)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", name, err)
		}
		regions[i] = r
	}
	s := &Simulator{
		config:  config,
		graph:   g,
		params:  params,
		regions: regions,
		steps:   sim.Steps(days, config.StepSize),
		drifted: make([]bool, g.Len()),
	}
	if config.Trace.Enabled() {
		s.trace = trace.NewSimulationTrace(config.Trace)
	}
	return s, nil
}

// Run executes all steps. Panics if called more than once.
func (s *Simulator) Run() error {
	if s.hasRun {
		panic("network.Simulator.Run() called more than once")
	}
	s.hasRun = true

	logrus.Infof("[day %08.2f] Starting %d regions, %d steps of %v days", 0.0, len(s.regions), s.steps, s.config.StepSize)
	for s.step < s.steps {
		if err := s.advance(); err != nil {
			return err
		}
		s.step++
		day := float64(s.step) * s.config.StepSize
		s.observe(day)
		s.couple(day)
		s.checkDrift(day)
	}
	logrus.Infof("[day %08.2f] Simulation ended", float64(s.step)*s.config.StepSize)
	return nil
}

// advance steps every region once, in parallel when Workers > 1.
func (s *Simulator) advance() error {
	if s.config.Workers <= 1 {
		for _, r := range s.regions {
			if err := r.Step(); err != nil {
				return err
			}
		}
		return nil
	}
	var g errgroup.Group
	g.SetLimit(s.config.Workers)
	for _, r := range s.regions {
		g.Go(r.Step)
	}
	return g.Wait()
}

// couple runs the traffic exchange on the just-finalized states.
func (s *Simulator) couple(day float64) {
	states := make([]sim.StateVector, len(s.regions))
	for i, r := range s.regions {
		states[i] = r.State()
	}
	records := Couple(s.graph, s.params, states, s.config.StepSize)
	for i, r := range s.regions {
		r.SetState(states[i])
	}
	for _, rec := range records {
		if rec.Skipped {
			logrus.Debugf("[day %08.2f] coupling %s -> %s skipped: %.4f exposed exceeds susceptibles", day, rec.From, rec.To, rec.Amount)
		}
		if s.trace != nil {
			rec.Step = s.step
			rec.Day = day
			s.trace.RecordCoupling(rec)
		}
	}
}

// observe logs and traces measure policies switching on or off.
func (s *Simulator) observe(day float64) {
	for _, r := range s.regions {
		changed := r.measureTransitions()
		if len(changed) == 0 {
			continue
		}
		parts := r.integ.LastMeasures()
		for _, i := range changed {
			m := r.Params().Measures[i]
			logrus.Debugf("[day %08.2f] %s: measure %s active=%v", day, r.Name(), m.Name(), parts[i] > 0)
			if s.trace != nil {
				s.trace.RecordMeasure(trace.MeasureRecord{
					Region:    r.Name(),
					Step:      s.step,
					Day:       day,
					Policy:    m.Name(),
					Reduction: parts[i],
					Active:    parts[i] > 0,
				})
			}
		}
	}
}

// checkDrift warns once per region when P and S+E+I+R diverge.
func (s *Simulator) checkDrift(day float64) {
	if s.config.DriftTolerance <= 0 {
		return
	}
	for i, r := range s.regions {
		if s.drifted[i] {
			continue
		}
		st := r.State()
		if rel := math.Abs(st.PopulationDrift()) / st[sim.Population]; rel > s.config.DriftTolerance {
			s.drifted[i] = true
			logrus.Warnf("[day %08.2f] %s: population drift %.3g exceeds tolerance %.3g", day, r.Name(), rel, s.config.DriftTolerance)
		}
	}
}

// Steps returns the number of time indices the run covers.
func (s *Simulator) Steps() int { return s.steps }

// Regions returns the slice of RegionSimulators.
func (s *Simulator) Regions() []*RegionSimulator { return s.regions }

// Graph returns the region graph.
func (s *Simulator) Graph() *sim.RegionGraph { return s.graph }

// Trace returns the decision trace, or nil when tracing is disabled.
func (s *Simulator) Trace() *trace.SimulationTrace { return s.trace }

// Results returns every region's trajectory in graph order.
// Panics if called before Run().
func (s *Simulator) Results() []RegionResult {
	if !s.hasRun {
		panic("network.Simulator.Results() called before Run()")
	}
	results := make([]RegionResult, len(s.regions))
	for i, r := range s.regions {
		results[i] = r.Result()
	}
	return results
}

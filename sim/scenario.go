package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a complete run configuration, loadable from a YAML file.
// Nil pointer fields mean "not set in YAML" and fall back to the layer below:
// region override -> defaults -> built-in defaults.
type Scenario struct {
	Simulation SimulationConfig           `yaml:"simulation"`
	Defaults   ParameterConfig            `yaml:"defaults"`
	Measures   []MeasureConfig            `yaml:"measures"`
	Overrides  map[string]ParameterConfig `yaml:"overrides"`
}

// SimulationConfig holds run-wide settings shared by all regions.
type SimulationConfig struct {
	StepSize           float64 `yaml:"step_size"`
	Days               float64 `yaml:"days"`
	Workers            int     `yaml:"workers"`
	DensitySensitivity float64 `yaml:"density_sensitivity"`
	TraceLevel         string  `yaml:"trace_level"`
	RecordTransfers    bool    `yaml:"record_transfers"`
	Prefill            string  `yaml:"prefill"`
}

// ParameterConfig is the serialized, partially specified form of
// SimulationParameters. Population defaults to the region's dataset value.
type ParameterConfig struct {
	InitialPopulation    *float64        `yaml:"initial_population"`
	InitialSpreaders     *float64        `yaml:"initial_spreaders"`
	BirthRate            *float64        `yaml:"birth_rate"`
	DeathRate            *float64        `yaml:"death_rate"`
	DiseasePeriodDays    *float64        `yaml:"disease_period_days"`
	IncubationPeriodDays *float64        `yaml:"incubation_period_days"`
	ImmunityWaningDays   *float64        `yaml:"immunity_waning_days"`
	MortalityRate        *float64        `yaml:"mortality_rate"`
	RNaught              *float64        `yaml:"r_naught"`
	HospitalizationRate  *float64        `yaml:"hospitalization_rate"`
	MaxHospitalCapacity  *float64        `yaml:"max_hospital_capacity"`
	TrafficRate          *float64        `yaml:"traffic_rate"`
	Measures             []MeasureConfig `yaml:"measures"`
}

// BaseParameters are the built-in defaults under every scenario.
func BaseParameters() SimulationParameters {
	return SimulationParameters{
		TimeSpanDays:         365,
		InitialPopulation:    1000,
		InitialSpreaders:     1,
		BirthRate:            0,
		DeathRate:            0,
		DiseasePeriodDays:    7,
		IncubationPeriodDays: 7,
		ImmunityWaningDays:   0,
		MortalityRate:        0.03,
		RNaught:              2.5,
		HospitalizationRate:  0.1,
		MaxHospitalCapacity:  1000,
		TrafficRate:          0,
	}
}

// LoadScenario reads and strictly parses a YAML scenario file.
// Unknown keys are rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario strictly parses scenario YAML and fills run-wide defaults.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if sc.Simulation.StepSize == 0 {
		sc.Simulation.StepSize = 0.1
	}
	if sc.Simulation.Days == 0 {
		sc.Simulation.Days = BaseParameters().TimeSpanDays
	}
	if sc.Simulation.Workers == 0 {
		sc.Simulation.Workers = 1
	}
	return &sc, nil
}

// ValidTraceLevels mirrors trace.TraceLevel values accepted in scenarios.
var ValidTraceLevels = map[string]bool{"": true, "none": true, "decisions": true}

// ValidPrefills lists the accepted history padding modes. "initial" (the
// default) repeats the t=0 state before the start; "susceptible" pads with
// an infection-free population.
var ValidPrefills = map[string]bool{"": true, "initial": true, "susceptible": true}

// Validate checks run settings, measure names and parameter ranges. Region
// overrides are checked against the graph in Build.
func (sc *Scenario) Validate() error {
	if !(sc.Simulation.StepSize > 0) {
		return fmt.Errorf("%w: step_size must be positive, got %v", ErrInvalidStepSize, sc.Simulation.StepSize)
	}
	if !(sc.Simulation.Days > 0) {
		return fmt.Errorf("%w: days must be positive, got %v", ErrInvalidParameters, sc.Simulation.Days)
	}
	if sc.Simulation.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidParameters, sc.Simulation.Workers)
	}
	if sc.Simulation.DensitySensitivity < 0 {
		return fmt.Errorf("%w: density_sensitivity must be non-negative, got %v",
			ErrInvalidParameters, sc.Simulation.DensitySensitivity)
	}
	if !ValidTraceLevels[sc.Simulation.TraceLevel] {
		return fmt.Errorf("%w: unknown trace level %q", ErrInvalidParameters, sc.Simulation.TraceLevel)
	}
	if !ValidPrefills[sc.Simulation.Prefill] {
		return fmt.Errorf("%w: unknown prefill %q", ErrInvalidParameters, sc.Simulation.Prefill)
	}
	if err := validateMeasures(sc.Measures); err != nil {
		return err
	}
	for name, o := range sc.Overrides {
		if err := validateMeasures(o.Measures); err != nil {
			return fmt.Errorf("override %q: %w", name, err)
		}
	}
	p := BaseParameters()
	sc.Defaults.apply(&p)
	p.TimeSpanDays = sc.Simulation.Days
	// Populations come from the dataset; Build checks spreaders per region.
	if p.InitialSpreaders > p.InitialPopulation {
		p.InitialPopulation = p.InitialSpreaders
	}
	return p.Validate()
}

func validateMeasures(cfgs []MeasureConfig) error {
	for _, m := range cfgs {
		if !ValidMeasurePolicies[m.Policy] {
			return fmt.Errorf("%w: %q", ErrUnknownMeasure, m.Policy)
		}
		if m.Severity != nil && (*m.Severity < 0 || *m.Severity > 1) {
			return fmt.Errorf("%w: %s severity must be in [0,1], got %v", ErrInvalidParameters, m.Policy, *m.Severity)
		}
		if m.Threshold != nil && *m.Threshold < 0 {
			return fmt.Errorf("%w: %s threshold must be non-negative, got %v", ErrInvalidParameters, m.Policy, *m.Threshold)
		}
	}
	return nil
}

// Build resolves one SimulationParameters per region of g, in graph order.
// Every region gets its own measure policy instances.
func (sc *Scenario) Build(g *RegionGraph) ([]*SimulationParameters, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	for name := range sc.Overrides {
		if _, ok := g.Index(name); !ok {
			return nil, fmt.Errorf("%w: override for unknown region %q", ErrInvalidParameters, name)
		}
	}
	params := make([]*SimulationParameters, g.Len())
	var buildErr error
	g.ForEach(func(i int, r Region) {
		if buildErr != nil {
			return
		}
		p := BaseParameters()
		if r.Population > 0 {
			p.InitialPopulation = r.Population
		}
		measures := sc.Measures
		sc.Defaults.apply(&p)
		if sc.Defaults.Measures != nil {
			measures = sc.Defaults.Measures
		}
		if o, ok := sc.Overrides[r.Name]; ok {
			o.apply(&p)
			if o.Measures != nil {
				measures = o.Measures
			}
		}
		p.TimeSpanDays = sc.Simulation.Days
		for _, cfg := range measures {
			m, err := NewMeasurePolicy(cfg)
			if err != nil {
				buildErr = fmt.Errorf("region %q: %w", r.Name, err)
				return
			}
			p.Measures = append(p.Measures, m)
		}
		if err := p.Validate(); err != nil {
			buildErr = fmt.Errorf("region %q: %w", r.Name, err)
			return
		}
		params[i] = &p
	})
	if buildErr != nil {
		return nil, buildErr
	}
	return params, nil
}

func (c ParameterConfig) apply(p *SimulationParameters) {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.InitialPopulation, c.InitialPopulation)
	set(&p.InitialSpreaders, c.InitialSpreaders)
	set(&p.BirthRate, c.BirthRate)
	set(&p.DeathRate, c.DeathRate)
	set(&p.DiseasePeriodDays, c.DiseasePeriodDays)
	set(&p.IncubationPeriodDays, c.IncubationPeriodDays)
	set(&p.ImmunityWaningDays, c.ImmunityWaningDays)
	set(&p.MortalityRate, c.MortalityRate)
	set(&p.RNaught, c.RNaught)
	set(&p.HospitalizationRate, c.HospitalizationRate)
	set(&p.MaxHospitalCapacity, c.MaxHospitalCapacity)
	set(&p.TrafficRate, c.TrafficRate)
}

package sim

// isolatedRegion returns the reference single-region parameters: population
// 1000, one spreader, R0 2.5, 7-day disease and incubation periods, 3%
// mortality, no births, deaths, waning, measures or traffic.
func isolatedRegion() *SimulationParameters {
	return &SimulationParameters{
		TimeSpanDays:         365,
		InitialPopulation:    1000,
		InitialSpreaders:     1,
		DiseasePeriodDays:    7,
		IncubationPeriodDays: 7,
		MortalityRate:        0.03,
		RNaught:              2.5,
		HospitalizationRate:  0.1,
		MaxHospitalCapacity:  100,
	}
}

// recordingPolicy records every delayed lookup it performs and never
// reduces transmission.
type recordingPolicy struct {
	delay   float64
	lookups []delayedLookup
}

type delayedLookup struct {
	t     float64
	value StateVector
}

func (r *recordingPolicy) Name() string { return "recording" }

func (r *recordingPolicy) Lookback(*SimulationParameters) float64 { return r.delay }

func (r *recordingPolicy) Reduction(_ *SimulationParameters, _ StateVector, hist *History, t, _ float64) (float64, error) {
	v, err := hist.Delayed(t, r.delay)
	if err != nil {
		return 0, err
	}
	r.lookups = append(r.lookups, delayedLookup{t: t, value: v})
	return 0, nil
}

// constantPolicy always contributes the same reduction.
type constantPolicy float64

func (c constantPolicy) Name() string { return "constant" }

func (c constantPolicy) Lookback(*SimulationParameters) float64 { return 0 }

func (c constantPolicy) Reduction(*SimulationParameters, StateVector, *History, float64, float64) (float64, error) {
	return float64(c), nil
}

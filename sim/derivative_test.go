package sim

import (
	"math"
	"testing"

	"github.com/epidemic-sim/epidemic-sim/sim/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivative_MatchesHandComputedRates(t *testing.T) {
	// GIVEN every term of the model active and no measures
	p := &SimulationParameters{
		BirthRate:            0.01,
		DeathRate:            0.005,
		DiseasePeriodDays:    5,
		IncubationPeriodDays: 4,
		ImmunityWaningDays:   100,
		MortalityRate:        0.1,
		RNaught:              2,
		HospitalizationRate:  0.5,
	}
	s := StateVector{900, 50, 40, 10, 0, 1000, 0}

	// WHEN the derivative is evaluated with h = 0.5
	d, parts, err := Derivative(p, s, nil, 0, 0.5)

	// THEN each compartment equals its rate equation times h
	require.NoError(t, err)
	assert.Nil(t, parts)
	want := StateVector{-4.4, 0.825, 2.15, 3.525, 2.9, 2.1, 1.075}
	testutil.AssertStateEqual(t, "delta", want, d, 1e-12)
}

func TestDerivative_ScalesLinearlyWithStep(t *testing.T) {
	p := isolatedRegion()
	s := StateVector{800, 50, 100, 50, 0, 1000, 10}

	d1, _, err := Derivative(p, s, nil, 0, 1)
	require.NoError(t, err)
	d2, _, err := Derivative(p, s, nil, 0, 0.25)
	require.NoError(t, err)

	testutil.AssertStateEqual(t, "scaled", d1.Scale(0.25), d2, 1e-12)
}

func TestDerivative_MeasuresReduceInfections(t *testing.T) {
	p := isolatedRegion()
	s := StateVector{800, 50, 100, 50, 0, 1000, 10}
	hs, err := NewHistory(p.MaxDelay(), 0.1, s, s)
	require.NoError(t, err)

	free, _, err := Derivative(p, s, hs, 0, 0.1)
	require.NoError(t, err)

	p.Measures = []MeasurePolicy{constantPolicy(0.5)}
	halved, parts, err := Derivative(p, s, hs, 0, 0.1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, parts)

	// infections = beta*S*I/P enter dE; onset and deaths are unchanged
	freeInfections := free[Exposed] + p.IncubationRate()*s[Exposed]*0.1
	halvedInfections := halved[Exposed] + p.IncubationRate()*s[Exposed]*0.1
	testutil.AssertFloat64Equal(t, "infections", freeInfections/2, halvedInfections, 1e-12)
	assert.Equal(t, free[Infectious], halved[Infectious])
}

func TestDerivative_FullMeasuresStopTransmission(t *testing.T) {
	p := isolatedRegion()
	p.Measures = []MeasurePolicy{constantPolicy(0.7), constantPolicy(0.6)}
	s := StateVector{990, 0, 10, 0, 0, 1000, 0}
	hs, err := NewHistory(p.MaxDelay(), 1, s, s)
	require.NoError(t, err)

	d, _, err := Derivative(p, s, hs, 0, 1)

	require.NoError(t, err)
	assert.Equal(t, 0.0, d[Susceptible])
	assert.Equal(t, 0.0, d[Exposed])
}

func TestDerivative_CollapsedPopulation(t *testing.T) {
	p := isolatedRegion()
	for _, pop := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, _, err := Derivative(p, StateVector{Population: pop}, nil, 0, 0.1)
		assert.ErrorIs(t, err, ErrPopulationCollapsed, "P=%v", pop)
	}
}

func TestDerivative_NonFiniteStateIsRejected(t *testing.T) {
	p := isolatedRegion()
	s := StateVector{math.Inf(1), 0, 1, 0, 0, 1000, 0}

	_, _, err := Derivative(p, s, nil, 0, 0.1)

	assert.ErrorIs(t, err, ErrInvalidState)
}

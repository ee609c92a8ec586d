package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistory_PadsCeilDelayOverStepPlusOne(t *testing.T) {
	tests := []struct {
		maxDelay, h float64
		padding     int
	}{
		{7, 0.1, 71},
		{7, 1, 8},
		{5, 0.3, 18},
		{0, 0.1, 1},
		{2, 0.5, 5},
	}
	before := StateVector{1, 1, 1, 1, 1, 1, 1}
	initial := StateVector{2, 2, 2, 2, 2, 2, 2}
	for _, tc := range tests {
		hs, err := NewHistory(tc.maxDelay, tc.h, before, initial)
		require.NoError(t, err)

		assert.Equal(t, tc.padding, hs.Padding(), "delay=%v h=%v", tc.maxDelay, tc.h)
		assert.Equal(t, tc.padding+1, hs.Len())
		assert.Equal(t, initial, hs.Last())
		first, err := hs.At(0)
		require.NoError(t, err)
		assert.Equal(t, before, first)
	}
}

func TestHistory_LookupAtMaxDelayBeforeStart_StaysInRange(t *testing.T) {
	// GIVEN any delay horizon and step
	for _, maxDelay := range []float64{0.1, 1, 5, 7, 14, 21.3} {
		for _, h := range []float64{0.01, 0.1, 0.25, 0.3, 1} {
			hs, err := NewHistory(maxDelay, h, StateVector{}, StateVector{})
			require.NoError(t, err)

			// WHEN the earliest possible delayed lookup is made at t=0
			_, err = hs.Delayed(0, maxDelay)

			// THEN it resolves inside the padding
			assert.NoError(t, err, "delay=%v h=%v", maxDelay, h)
			assert.GreaterOrEqual(t, hs.IndexAt(-maxDelay), 0)
		}
	}
}

func TestHistory_Delayed_ClampsToLastFinalizedEntry(t *testing.T) {
	hs, err := NewHistory(1, 1, StateVector{}, StateVector{Population: 1})
	require.NoError(t, err)
	hs.Append(StateVector{Population: 2})

	// t=5 with zero delay would read a step that does not exist yet
	got, err := hs.Delayed(5, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got[Population])
}

func TestHistory_At_OutOfRange(t *testing.T) {
	hs, err := NewHistory(1, 1, StateVector{}, StateVector{})
	require.NoError(t, err)

	_, err = hs.At(-1)
	assert.ErrorIs(t, err, ErrDelayOutOfRange)
	_, err = hs.At(hs.Len())
	assert.ErrorIs(t, err, ErrDelayOutOfRange)
}

func TestHistory_Series_StripsPadding(t *testing.T) {
	before := StateVector{Population: -1}
	hs, err := NewHistory(3, 1, before, StateVector{Population: 10})
	require.NoError(t, err)
	hs.Append(StateVector{Population: 11})
	hs.Append(StateVector{Population: 12})

	series := hs.Series()

	require.Len(t, series, 3)
	assert.Equal(t, 10.0, series[0][Population])
	assert.Equal(t, 12.0, series[2][Population])

	// the returned series is a copy
	series[0][Population] = 0
	first, _ := hs.At(hs.Padding())
	assert.Equal(t, 10.0, first[Population])
}

func TestHistory_ReplaceLast_NeverTouchesInitialState(t *testing.T) {
	hs, err := NewHistory(1, 1, StateVector{}, StateVector{Population: 10})
	require.NoError(t, err)

	hs.ReplaceLast(StateVector{Population: 99})
	assert.Equal(t, 10.0, hs.Last()[Population])

	hs.Append(StateVector{Population: 11})
	hs.ReplaceLast(StateVector{Population: 12})
	assert.Equal(t, 12.0, hs.Last()[Population])
	assert.Equal(t, hs.Padding()+2, hs.Len())
}

func TestNewHistory_RejectsBadStep(t *testing.T) {
	for _, h := range []float64{0, -0.1} {
		_, err := NewHistory(1, h, StateVector{}, StateVector{})
		assert.ErrorIs(t, err, ErrInvalidStepSize)
	}
}

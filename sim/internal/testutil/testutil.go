// Package testutil provides shared test infrastructure for the simulator.
// It consolidates float assertion helpers used across sim/ and sim/network/
// test packages. It must not import sim so that package sim tests can use it.
package testutil

import (
	"fmt"
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertStateEqual compares every compartment of two state vectors with
// relative tolerance. sim.StateVector values are assignable to [7]float64.
func AssertStateEqual(t *testing.T, name string, want, got [7]float64, relTol float64) {
	t.Helper()
	for i := range want {
		AssertFloat64Equal(t, fmt.Sprintf("%s[%d]", name, i), want[i], got[i], relTol)
	}
}

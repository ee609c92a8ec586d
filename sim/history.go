package sim

import (
	"fmt"
	"math"
)

// indexEpsilon absorbs float error when converting times to step indices,
// e.g. 70*0.1 landing just below 7.0.
const indexEpsilon = 1e-9

// History is the per-region trajectory buffer read by delayed lookups.
//
// The first Padding() entries hold the repeating-before value so that a
// lookup up to maxDelay before t=0 never reads out of range. The entry at
// index Padding() is the state at t=0; entry Padding()+n is the state at n·h.
type History struct {
	entries []StateVector
	padding int
	step    float64
}

// NewHistory allocates a history padded for lookups up to maxDelay days back.
func NewHistory(maxDelay, h float64, before, initial StateVector) (*History, error) {
	if !(h > 0) || math.IsInf(h, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStepSize, h)
	}
	if maxDelay < 0 || math.IsNaN(maxDelay) || math.IsInf(maxDelay, 0) {
		return nil, fmt.Errorf("%w: max delay %v", ErrInvalidParameters, maxDelay)
	}
	padding := int(math.Ceil(maxDelay/h-indexEpsilon)) + 1
	entries := make([]StateVector, padding, padding+1)
	for i := range entries {
		entries[i] = before
	}
	entries = append(entries, initial)
	return &History{entries: entries, padding: padding, step: h}, nil
}

// Len returns the number of entries including padding.
func (hs *History) Len() int { return len(hs.entries) }

// Padding returns the number of leading repeating-before entries.
func (hs *History) Padding() int { return hs.padding }

// StepSize returns the step the buffer was built for.
func (hs *History) StepSize() float64 { return hs.step }

// Last returns the most recent finalized state.
func (hs *History) Last() StateVector { return hs.entries[len(hs.entries)-1] }

// At returns entry i (padding included).
func (hs *History) At(i int) (StateVector, error) {
	if i < 0 || i >= len(hs.entries) {
		return StateVector{}, fmt.Errorf("%w: index %d of %d", ErrDelayOutOfRange, i, len(hs.entries))
	}
	return hs.entries[i], nil
}

// IndexAt converts a simulation time to a buffer index by floor division.
func (hs *History) IndexAt(t float64) int {
	return hs.padding + int(math.Floor(t/hs.step+indexEpsilon))
}

// Delayed returns the state at t-delay. Lookups that land on or after the
// in-progress step resolve to the last finalized entry.
func (hs *History) Delayed(t, delay float64) (StateVector, error) {
	i := hs.IndexAt(t - delay)
	if last := len(hs.entries) - 1; i > last {
		i = last
	}
	return hs.At(i)
}

// Append adds a finalized state.
func (hs *History) Append(s StateVector) {
	hs.entries = append(hs.entries, s)
}

// ReplaceLast overwrites the most recent finalized state. The padding and
// the t=0 entry are never replaced.
func (hs *History) ReplaceLast(s StateVector) {
	if len(hs.entries) > hs.padding+1 {
		hs.entries[len(hs.entries)-1] = s
	}
}

// Series returns a copy of the trajectory with padding stripped.
func (hs *History) Series() []StateVector {
	return append([]StateVector(nil), hs.entries[hs.padding:]...)
}

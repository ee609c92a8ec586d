// Package trace provides decision-trace recording for multi-region runs.
// It stores pure data types and does not import sim or sim/network.
package trace

// MeasureRecord captures a measure policy switching on or off in a region.
type MeasureRecord struct {
	Region    string
	Step      int
	Day       float64
	Policy    string
	Reduction float64 // contribution after the transition; 0 when switched off
	Active    bool
}

// CouplingRecord captures one traffic transfer from a region to a neighbor.
type CouplingRecord struct {
	Step    int
	Day     float64
	From    string
	To      string
	Amount  float64 // Exposed mass moved into To (and Susceptible removed from To)
	Skipped bool    // true when To had too few susceptibles to absorb Amount
}

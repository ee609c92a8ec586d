package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	MeasureTransitions int
	Activations        map[string]int // policy name → number of times switched on
	FirstActivationDay map[string]float64
	TransfersRecorded  int
	SkippedTransfers   int
	TransferredExposed float64
	SkippedByRegion    map[string]int // receiving region → skipped transfers
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		Activations:        make(map[string]int),
		FirstActivationDay: make(map[string]float64),
		SkippedByRegion:    make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.MeasureTransitions = len(st.Measures)
	for _, m := range st.Measures {
		if !m.Active {
			continue
		}
		summary.Activations[m.Policy]++
		if day, seen := summary.FirstActivationDay[m.Policy]; !seen || m.Day < day {
			summary.FirstActivationDay[m.Policy] = m.Day
		}
	}

	for _, c := range st.Couplings {
		summary.TransfersRecorded++
		if c.Skipped {
			summary.SkippedTransfers++
			summary.SkippedByRegion[c.To]++
			continue
		}
		summary.TransferredExposed += c.Amount
	}

	return summary
}

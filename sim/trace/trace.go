package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures measure transitions and coupling transfers.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
	// RecordTransfers keeps every successful coupling transfer, not only skipped ones.
	RecordTransfers bool
}

// Enabled reports whether anything should be recorded.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelDecisions
}

// SimulationTrace collects decision records during a multi-region run.
type SimulationTrace struct {
	Config    TraceConfig
	Measures  []MeasureRecord
	Couplings []CouplingRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:    config,
		Measures:  make([]MeasureRecord, 0),
		Couplings: make([]CouplingRecord, 0),
	}
}

// RecordMeasure appends a measure transition record.
func (st *SimulationTrace) RecordMeasure(record MeasureRecord) {
	st.Measures = append(st.Measures, record)
}

// RecordCoupling appends a coupling transfer record. Successful transfers
// are dropped unless Config.RecordTransfers is set.
func (st *SimulationTrace) RecordCoupling(record CouplingRecord) {
	if !record.Skipped && !st.Config.RecordTransfers {
		return
	}
	st.Couplings = append(st.Couplings, record)
}

package trace

import (
	"testing"
)

func TestSimulationTrace_RecordMeasure_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN a measure transition is recorded
	st.RecordMeasure(MeasureRecord{
		Region:    "Utrecht",
		Step:      120,
		Day:       12,
		Policy:    "hand-washing",
		Reduction: 0.1,
		Active:    true,
	})

	// THEN the trace contains one measure record with correct data
	if len(st.Measures) != 1 {
		t.Fatalf("expected 1 measure record, got %d", len(st.Measures))
	}
	rec := st.Measures[0]
	if rec.Region != "Utrecht" || rec.Step != 120 || !rec.Active || rec.Reduction != 0.1 {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestSimulationTrace_RecordCoupling_DropsSuccessfulTransfersByDefault(t *testing.T) {
	// GIVEN a trace that does not keep successful transfers
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN one successful and one skipped transfer are recorded
	st.RecordCoupling(CouplingRecord{From: "A", To: "B", Amount: 0.5})
	st.RecordCoupling(CouplingRecord{From: "B", To: "A", Amount: 0.5, Skipped: true})

	// THEN only the skipped transfer is kept
	if len(st.Couplings) != 1 {
		t.Fatalf("expected 1 coupling record, got %d", len(st.Couplings))
	}
	if !st.Couplings[0].Skipped {
		t.Error("expected the kept record to be the skipped transfer")
	}
}

func TestSimulationTrace_RecordCoupling_KeepsTransfersWhenConfigured(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions, RecordTransfers: true})

	st.RecordCoupling(CouplingRecord{From: "A", To: "B", Amount: 0.5})
	st.RecordCoupling(CouplingRecord{From: "B", To: "A", Amount: 0.25})

	if len(st.Couplings) != 2 {
		t.Fatalf("expected 2 coupling records, got %d", len(st.Couplings))
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"", true},
		{"none", true},
		{"decisions", true},
		{"verbose", false},
	}
	for _, tc := range tests {
		if got := IsValidTraceLevel(tc.level); got != tc.valid {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tc.level, got, tc.valid)
		}
	}
}

func TestTraceConfig_Enabled(t *testing.T) {
	if (TraceConfig{Level: TraceLevelNone}).Enabled() {
		t.Error("none level must be disabled")
	}
	if (TraceConfig{}).Enabled() {
		t.Error("empty level must be disabled")
	}
	if !(TraceConfig{Level: TraceLevelDecisions}).Enabled() {
		t.Error("decisions level must be enabled")
	}
}

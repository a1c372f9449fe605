package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalDecisions != 0 {
		t.Errorf("expected 0 total decisions, got %d", summary.TotalDecisions)
	}
	if summary.Loads != 0 || summary.Unloads != 0 || summary.Failures != 0 {
		t.Error("expected no cargo transitions or failures")
	}
	if summary.MeanWait != 0 || summary.MaxWait != 0 {
		t.Error("expected 0 wait values")
	}
	if len(summary.Pickups) != 0 || len(summary.Dropoffs) != 0 {
		t.Error("expected empty station distributions")
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary == nil || summary.TotalDecisions != 0 || summary.Pickups == nil {
		t.Errorf("expected zero-value summary with initialized maps, got %+v", summary)
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with admissions, cargo transitions and hops
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelMoves})
	st.RecordAdmission(AdmissionRecord{RequestID: "r1", Admitted: true})
	st.RecordAdmission(AdmissionRecord{RequestID: "r2", Admitted: false, Reason: "conflict"})
	st.RecordAdmission(AdmissionRecord{RequestID: "r3", Admitted: true})
	st.RecordCargo(CargoRecord{RequestID: "r1", Kind: CargoLoad, Station: "A", Waited: 10})
	st.RecordCargo(CargoRecord{RequestID: "r3", Kind: CargoEscalate, Station: "C"})
	st.RecordCargo(CargoRecord{RequestID: "r3", Kind: CargoLoad, Station: "A", Waited: 70})
	st.RecordCargo(CargoRecord{RequestID: "r1", Kind: CargoUnload, Station: "B"})
	st.RecordMove(MoveRecord{From: "A", To: "B", Travel: 20})
	st.RecordMove(MoveRecord{From: "B", To: "C", Travel: 20})
	st.RecordFailure(FailureRecord{RequestID: "r2", Kind: "conflict"})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts match
	if summary.TotalDecisions != 3 || summary.AdmittedCount != 2 || summary.RejectedCount != 1 {
		t.Errorf("admission counts wrong: %+v", summary)
	}
	if summary.Loads != 2 || summary.Unloads != 1 || summary.Escalations != 1 {
		t.Errorf("cargo counts wrong: %+v", summary)
	}
	if summary.Pickups["A"] != 2 || summary.Dropoffs["B"] != 1 {
		t.Errorf("station distribution wrong: pickups=%v dropoffs=%v", summary.Pickups, summary.Dropoffs)
	}
	if summary.MeanWait != 40 || summary.MaxWait != 70 {
		t.Errorf("expected mean wait 40 and max 70, got %v and %d", summary.MeanWait, summary.MaxWait)
	}
	if summary.Hops != 2 || summary.TotalTravel != 40 {
		t.Errorf("expected 2 hops over 40 ticks, got %d over %d", summary.Hops, summary.TotalTravel)
	}
	if summary.Failures != 1 {
		t.Errorf("expected 1 failure, got %d", summary.Failures)
	}
}

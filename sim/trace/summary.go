package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions int
	AdmittedCount  int
	RejectedCount  int
	Loads          int
	Unloads        int
	Escalations    int
	Discards       int
	Hops           int
	TotalTravel    int64
	Failures       int
	MeanWait       float64 // mean ticks from submission to load
	MaxWait        int64
	Pickups        map[string]int // station → loads there
	Dropoffs       map[string]int // station → unloads there
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		Pickups:  make(map[string]int),
		Dropoffs: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Admissions)
	for _, a := range st.Admissions {
		if a.Admitted {
			summary.AdmittedCount++
		} else {
			summary.RejectedCount++
		}
	}

	var totalWait int64
	for _, c := range st.Cargo {
		switch c.Kind {
		case CargoLoad:
			summary.Loads++
			summary.Pickups[c.Station]++
			totalWait += c.Waited
			if c.Waited > summary.MaxWait {
				summary.MaxWait = c.Waited
			}
		case CargoUnload:
			summary.Unloads++
			summary.Dropoffs[c.Station]++
		case CargoEscalate:
			summary.Escalations++
		case CargoDiscard:
			summary.Discards++
		}
	}
	if summary.Loads > 0 {
		summary.MeanWait = float64(totalWait) / float64(summary.Loads)
	}

	summary.Hops = len(st.Moves)
	for _, m := range st.Moves {
		summary.TotalTravel += m.Travel
	}
	summary.Failures = len(st.Failures)

	return summary
}

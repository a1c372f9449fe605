package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures admissions, cargo transitions and failures.
	TraceLevelDecisions TraceLevel = "decisions"
	// TraceLevelMoves additionally captures every hop decision.
	TraceLevelMoves TraceLevel = "moves"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	TraceLevelMoves:     true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
	RunID string
}

// SimulationTrace collects decision records during a simulation.
type SimulationTrace struct {
	Config     TraceConfig
	Admissions []AdmissionRecord
	Cargo      []CargoRecord
	Moves      []MoveRecord
	Failures   []FailureRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:     config,
		Admissions: make([]AdmissionRecord, 0),
		Cargo:      make([]CargoRecord, 0),
		Moves:      make([]MoveRecord, 0),
		Failures:   make([]FailureRecord, 0),
	}
}

// Enabled reports whether st records anything. Safe on nil.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level != TraceLevelNone && st.Config.Level != ""
}

// RecordAdmission appends an admission decision record.
func (st *SimulationTrace) RecordAdmission(record AdmissionRecord) {
	if !st.Enabled() {
		return
	}
	st.Admissions = append(st.Admissions, record)
}

// RecordCargo appends a cargo transition record.
func (st *SimulationTrace) RecordCargo(record CargoRecord) {
	if !st.Enabled() {
		return
	}
	st.Cargo = append(st.Cargo, record)
}

// RecordMove appends a hop record. Only kept at TraceLevelMoves.
func (st *SimulationTrace) RecordMove(record MoveRecord) {
	if !st.Enabled() || st.Config.Level != TraceLevelMoves {
		return
	}
	st.Moves = append(st.Moves, record)
}

// RecordFailure appends a fatal error record.
func (st *SimulationTrace) RecordFailure(record FailureRecord) {
	if !st.Enabled() {
		return
	}
	st.Failures = append(st.Failures, record)
}

// Package trace provides decision-trace recording for cart controller analysis.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// AdmissionRecord captures a single admission decision.
type AdmissionRecord struct {
	RequestID string
	Clock     int64
	Src       string
	Dst       string
	Weight    float64
	Admitted  bool
	Reason    string
}

// CargoEventKind names a lifecycle transition of an admitted request.
type CargoEventKind string

const (
	CargoLoad     CargoEventKind = "load"
	CargoUnload   CargoEventKind = "unload"
	CargoEscalate CargoEventKind = "escalate"
	CargoDiscard  CargoEventKind = "discard"
)

// CargoRecord captures a load, unload, escalation or discard.
type CargoRecord struct {
	RequestID string
	Clock     int64
	Kind      CargoEventKind
	Station   string // cart position when the transition happened
	Waited    int64  // ticks since submission
}

// MoveRecord captures one hop decision: where the controller was heading and
// which adjacent station it moved to.
type MoveRecord struct {
	Clock  int64
	From   string
	To     string
	Target string
	Travel int64
	Reason string
}

// FailureRecord captures a fatal controller error.
type FailureRecord struct {
	RequestID string
	Clock     int64
	Kind      string // "conflict" or "deadline"
	Message   string
}

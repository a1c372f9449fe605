package sim

// Callback is the unit of work the Scheduler dispatches.
// A non-nil error halts the simulation run.
type Callback func() error

// Clock is the view of the Scheduler that simulation components depend on.
// Components plan work relative to the current time and never advance time themselves.
type Clock interface {
	// Time returns the current logical time in ticks.
	Time() int64
	// Plan registers fn to fire delay ticks from now.
	Plan(delay int64, fn Callback)
}

// Event is a callback bound to its firing time.
// seq records scheduling order and breaks ties between same-time events (FIFO).
type Event struct {
	time int64
	seq  uint64
	fn   Callback
}

// Timestamp returns the scheduled firing time of the event.
func (e *Event) Timestamp() int64 {
	return e.time
}

// Seq returns the event's scheduling order.
func (e *Event) Seq() uint64 {
	return e.seq
}

// Execute runs the callback.
func (e *Event) Execute() error {
	return e.fn()
}

// sim/simulator.go
package sim

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// EventQueue implements heap.Interface and orders events by timestamp,
// then by scheduling order so that same-time events fire FIFO.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []*Event

func (eq EventQueue) Len() int { return len(eq) }
func (eq EventQueue) Less(i, j int) bool {
	if eq[i].time != eq[j].time {
		return eq[i].time < eq[j].time
	}
	return eq[i].seq < eq[j].seq
}
func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(*Event))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*eq = old[0 : n-1]
	return item
}

// Scheduler is the discrete-event core: it holds the logical clock and the
// queue of planned callbacks. It is not safe for concurrent use.
type Scheduler struct {
	clock  int64
	nextID uint64
	queue  EventQueue
	// executed counts dispatched callbacks across runs.
	executed int
}

// NewScheduler creates a Scheduler at time zero with an empty queue.
func NewScheduler() *Scheduler {
	return &Scheduler{queue: make(EventQueue, 0)}
}

// Time returns the current logical time in ticks.
func (s *Scheduler) Time() int64 {
	return s.clock
}

// Plan registers fn to fire delay ticks from now.
// Panics on a negative delay or nil callback: both are programming errors.
func (s *Scheduler) Plan(delay int64, fn Callback) {
	if delay < 0 {
		panic(fmt.Sprintf("Plan: negative delay %d", delay))
	}
	s.PlanAt(s.clock+delay, fn)
}

// PlanAt registers fn to fire at the absolute time at.
func (s *Scheduler) PlanAt(at int64, fn Callback) {
	if fn == nil {
		panic("PlanAt: fn must not be nil")
	}
	if at < s.clock {
		panic(fmt.Sprintf("PlanAt: time %d is before current clock %d", at, s.clock))
	}
	s.nextID++
	heap.Push(&s.queue, &Event{time: at, seq: s.nextID, fn: fn})
}

// Pending returns the number of callbacks still queued.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// Executed returns the number of callbacks dispatched so far.
func (s *Scheduler) Executed() int {
	return s.executed
}

// Run dispatches callbacks until the queue drains or a callback fails.
// The failing callback's error is returned; later callbacks stay queued.
func (s *Scheduler) Run() error {
	return s.RunUntil(math.MaxInt64)
}

// RunUntil is Run bounded by a horizon: callbacks planned after horizon are
// left queued and the clock stops at the last dispatched event.
func (s *Scheduler) RunUntil(horizon int64) error {
	for len(s.queue) > 0 {
		if s.queue[0].time > horizon {
			logrus.Infof("[tick %07d] Horizon %d reached with %d pending events", s.clock, horizon, len(s.queue))
			return nil
		}
		ev := heap.Pop(&s.queue).(*Event)
		if ev.time < s.clock {
			panic(fmt.Sprintf("scheduler clock went backwards: %d -> %d", s.clock, ev.time))
		}
		s.clock = ev.time
		s.executed++
		logrus.Debugf("[tick %07d] Executing event #%d", s.clock, ev.seq)
		if err := ev.Execute(); err != nil {
			logrus.Errorf("[tick %07d] Simulation halted: %v", s.clock, err)
			return err
		}
	}
	logrus.Infof("[tick %07d] Simulation ended", s.clock)
	return nil
}

// Reset discards all pending callbacks and rewinds the clock to zero.
func (s *Scheduler) Reset() {
	s.clock = 0
	s.nextID = 0
	s.executed = 0
	s.queue = make(EventQueue, 0)
}

// Implements the Backlog, which holds every request the controller has admitted
// and not yet delivered or discarded. Requests are enqueued on admission.

package sim

import (
	"fmt"
	"strings"
)

// Backlog is the controller's ordered queue of unserved requests: pending
// pickups and requests already on board. Only the controller mutates it.
type Backlog struct {
	queue []*CargoReq
}

// Enqueue adds a request to the back of the backlog.
func (b *Backlog) Enqueue(r *CargoReq) {
	if r == nil {
		panic("Enqueue: req must not be nil")
	}
	b.queue = append(b.queue, r)
}

func (b *Backlog) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range b.queue {
		sb.WriteString(fmt.Sprint(val))
		if i < len(b.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of requests in the backlog.
func (b *Backlog) Len() int {
	return len(b.queue)
}

// Peek returns the request at the head of the backlog without removing it.
// Returns nil if the backlog is empty.
func (b *Backlog) Peek() *CargoReq {
	if len(b.queue) == 0 {
		return nil
	}
	return b.queue[0]
}

// Items returns the backlog contents for iteration.
// The returned slice is the backlog's internal storage -- callers within the
// sim package may iterate over it but MUST NOT append to or reslice it.
func (b *Backlog) Items() []*CargoReq {
	return b.queue
}

// Snapshot returns a copy of the backlog safe to hand out of the package.
func (b *Backlog) Snapshot() []*CargoReq {
	return append([]*CargoReq(nil), b.queue...)
}

// Remove deletes r from the backlog, preserving the order of the rest.
// Returns false when r is not queued.
func (b *Backlog) Remove(r *CargoReq) bool {
	for i, q := range b.queue {
		if q == r {
			b.queue = append(b.queue[:i], b.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Reorder applies fn to the backlog contents, allowing in-place reordering:
//
//	b.Reorder(OrderBacklog)
//
// fn MUST NOT change the slice length (no append/delete).
func (b *Backlog) Reorder(fn func([]*CargoReq)) {
	if fn == nil {
		panic("Reorder: fn must not be nil")
	}
	n := len(b.queue)
	fn(b.queue)
	if len(b.queue) != n {
		panic(fmt.Sprintf("Reorder: fn changed backlog length from %d to %d", n, len(b.queue)))
	}
}

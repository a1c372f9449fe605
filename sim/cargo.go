// Defines the CargoReq struct that models a single pickup/delivery job.
// Tracks submission, load and unload times plus the priority flag owned by the controller.

package sim

import (
	"fmt"

	"github.com/google/uuid"
)

// CargoState represents the lifecycle state of a cargo request.
type CargoState string

const (
	CargoNew       CargoState = "new"       // constructed, not yet submitted
	CargoPending   CargoState = "pending"   // admitted, waiting for pickup
	CargoLoaded    CargoState = "loaded"    // on board the cart
	CargoDelivered CargoState = "delivered" // unloaded at its destination
	CargoDiscarded CargoState = "discarded" // heavier than the cart can ever carry
	CargoRejected  CargoState = "rejected"  // refused at admission
)

// Hook observes a cargo lifecycle transition. It runs synchronously inside
// Cart.Load / Cart.Unload after the slot change.
type Hook func(cart *Cart, req *CargoReq)

// CargoReq is a request to move one piece of cargo from Src to Dst.
//
// Callers own ID, Content, Context and the hooks. Priority, timestamps and
// state belong to the controller and are read-only outside the package.
type CargoReq struct {
	ID      string
	Src     Station
	Dst     Station
	Weight  float64
	Content any // opaque payload label
	Context any // caller-owned scratch value, never touched by the simulation

	OnLoad   Hook
	OnUnload Hook

	prio        bool
	state       CargoState
	seq         uint64
	submittedAt int64
	escalatedAt int64
	loadedAt    int64
	unloadedAt  int64

	// set while escalated if the cart lacked a slot or weight for the request
	noSlot   bool
	noWeight bool
}

// NewCargoReq creates a request with a fresh random ID.
func NewCargoReq(src, dst Station, weight float64, content any) *CargoReq {
	return &CargoReq{
		ID:      uuid.NewString(),
		Src:     src,
		Dst:     dst,
		Weight:  weight,
		Content: content,
		state:   CargoNew,
	}
}

// Prio reports whether the controller has escalated the request.
func (r *CargoReq) Prio() bool { return r.prio }

// State returns the lifecycle state.
func (r *CargoReq) State() CargoState {
	if r.state == "" {
		return CargoNew
	}
	return r.state
}

// SubmittedAt returns the admission time, or -1 before admission.
func (r *CargoReq) SubmittedAt() int64 {
	if r.State() == CargoNew {
		return -1
	}
	return r.submittedAt
}

// EscalatedAt returns the time priority was granted, or -1.
func (r *CargoReq) EscalatedAt() int64 {
	if !r.prio {
		return -1
	}
	return r.escalatedAt
}

// LoadedAt returns the pickup time, or -1 if never loaded.
func (r *CargoReq) LoadedAt() int64 {
	switch r.State() {
	case CargoLoaded, CargoDelivered:
		return r.loadedAt
	}
	return -1
}

// UnloadedAt returns the delivery time, or -1 if not delivered.
func (r *CargoReq) UnloadedAt() int64 {
	if r.State() != CargoDelivered {
		return -1
	}
	return r.unloadedAt
}

func (r *CargoReq) String() string {
	label := r.ID
	if r.Content != nil {
		label = fmt.Sprint(r.Content)
	}
	prio := ""
	if r.prio {
		prio = "!"
	}
	return fmt.Sprintf("%s%s(%s->%s, %g)", prio, label, r.Src, r.Dst, r.Weight)
}

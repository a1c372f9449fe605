package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrCartMoving is returned when an operation needs a stationary cart.
	ErrCartMoving = errors.New("cart is moving")
	// ErrAlreadyLoaded is returned when a request already occupies a slot.
	ErrAlreadyLoaded = errors.New("request is already loaded")
	// ErrAlreadySubmitted is returned when a request is handed to the controller twice.
	ErrAlreadySubmitted = errors.New("request was already submitted")
)

// CapacityError reports a load that would exceed the cart's slot count or
// weight capacity. A correct controller never triggers it.
type CapacityError struct {
	Req            *CargoReq
	FreeSlots      int
	LoadedWeight   float64
	WeightCapacity float64
}

func (e *CapacityError) Error() string {
	if e.FreeSlots == 0 {
		return fmt.Sprintf("cannot load %s: no free slot", e.Req)
	}
	return fmt.Sprintf("cannot load %s: weight %g + %g exceeds capacity %g",
		e.Req, e.LoadedWeight, e.Req.Weight, e.WeightCapacity)
}

// NotLoadedError reports an unload of a request that is not on the cart.
type NotLoadedError struct {
	Req *CargoReq
}

func (e *NotLoadedError) Error() string {
	return fmt.Sprintf("cannot unload %s: not on the cart", e.Req)
}

// LongPrioRequestError is the fatal condition raised when an escalated request
// is still waiting for pickup when its deadline expires and the cart ran out
// of slots or weight capacity for it while it was escalated.
type LongPrioRequestError struct {
	Req         *CargoReq
	EscalatedAt int64
	Deadline    int64
	// NoSlot and NoWeight record which limit blocked the request since escalation.
	NoSlot   bool
	NoWeight bool
}

func (e *LongPrioRequestError) Error() string {
	reason := "cart did not reach the pickup"
	switch {
	case e.NoSlot:
		reason = "no free slot"
	case e.NoWeight:
		reason = "insufficient weight capacity"
	}
	return fmt.Sprintf("priority request %s at %s not loaded by deadline %d (escalated at %d): %s",
		e.Req, e.Req.Src, e.Deadline, e.EscalatedAt, reason)
}

// CartError is the fatal condition raised when two requests admitted at the
// same instant cannot be combined into one deterministic pickup order.
type CartError struct {
	Req   *CargoReq
	Other *CargoReq
	Time  int64
}

func (e *CartError) Error() string {
	return fmt.Sprintf("request %s conflicts with %s submitted at tick %d", e.Req, e.Other, e.Time)
}

package sim

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// CartStatus represents the motion state of the cart.
type CartStatus string

const (
	CartIdle   CartStatus = "idle"
	CartMoving CartStatus = "moving"
)

// Cart models the transport vehicle: a fixed number of slots, a weight
// capacity, and a position on the layout. Movement is decomposed into hops
// between adjacent stations; each hop takes the edge's travel time.
type Cart struct {
	clock          Clock
	layout         *Layout
	slots          []*CargoReq // nil entry = free slot
	weightCapacity float64

	pos    Station
	target Station // hop end while moving
	status CartStatus

	// OnMove fires once per hop, after the cart has switched to CartMoving.
	OnMove func(*Cart)

	hops      int
	travelled int64
}

// NewCart places a cart at the layout station with the given index.
func NewCart(clock Clock, layout *Layout, slotCount int, weightCapacity float64, initialStation int) (*Cart, error) {
	if clock == nil {
		return nil, fmt.Errorf("cart needs a clock")
	}
	if layout == nil {
		return nil, fmt.Errorf("cart needs a layout")
	}
	if slotCount < 1 {
		return nil, fmt.Errorf("slot count must be at least 1, got %d", slotCount)
	}
	if weightCapacity <= 0 {
		return nil, fmt.Errorf("weight capacity must be positive, got %g", weightCapacity)
	}
	pos, err := layout.Station(initialStation)
	if err != nil {
		return nil, fmt.Errorf("initial station: %w", err)
	}
	return &Cart{
		clock:          clock,
		layout:         layout,
		slots:          make([]*CargoReq, slotCount),
		weightCapacity: weightCapacity,
		pos:            pos,
		status:         CartIdle,
	}, nil
}

// Capacity returns the number of slots.
func (c *Cart) Capacity() int { return len(c.slots) }

// WeightCapacity returns the maximum total weight on board.
func (c *Cart) WeightCapacity() float64 { return c.weightCapacity }

// Position returns the last station the cart reached.
func (c *Cart) Position() Station { return c.pos }

// Target returns the station the current hop ends at, or "" when idle.
func (c *Cart) Target() Station { return c.target }

// Status returns the motion state.
func (c *Cart) Status() CartStatus { return c.status }

// Layout returns the station graph the cart moves on.
func (c *Cart) Layout() *Layout { return c.layout }

// Hops returns the number of completed hops.
func (c *Cart) Hops() int { return c.hops }

// Travelled returns the total travel time of completed hops.
func (c *Cart) Travelled() int64 { return c.travelled }

// Slots returns a copy of the slot table; free slots are nil.
func (c *Cart) Slots() []*CargoReq {
	return append([]*CargoReq(nil), c.slots...)
}

// FreeSlots returns the number of empty slots.
func (c *Cart) FreeSlots() int {
	free := 0
	for _, s := range c.slots {
		if s == nil {
			free++
		}
	}
	return free
}

// LoadedWeight returns the total weight currently on board.
func (c *Cart) LoadedWeight() float64 {
	w := 0.0
	for _, s := range c.slots {
		if s != nil {
			w += s.Weight
		}
	}
	return w
}

// Empty reports whether every slot is free.
func (c *Cart) Empty() bool {
	return c.FreeSlots() == len(c.slots)
}

// Holds reports whether req occupies a slot.
func (c *Cart) Holds(req *CargoReq) bool {
	return c.slotOf(req) >= 0
}

// CanLoad reports whether req fits into the cart right now: a slot is free
// and the weight stays within capacity.
func (c *Cart) CanLoad(req *CargoReq) bool {
	return c.FreeSlots() > 0 && c.LoadedWeight()+req.Weight <= c.weightCapacity
}

func (c *Cart) slotOf(req *CargoReq) int {
	for i, s := range c.slots {
		if s == req {
			return i
		}
	}
	return -1
}

// Load puts req into the first free slot and then invokes req.OnLoad.
func (c *Cart) Load(req *CargoReq) error {
	if req == nil {
		return fmt.Errorf("load: nil request")
	}
	if c.status == CartMoving {
		return fmt.Errorf("load %s: %w", req, ErrCartMoving)
	}
	if c.Holds(req) {
		return fmt.Errorf("load %s: %w", req, ErrAlreadyLoaded)
	}
	if !c.CanLoad(req) {
		return &CapacityError{
			Req:            req,
			FreeSlots:      c.FreeSlots(),
			LoadedWeight:   c.LoadedWeight(),
			WeightCapacity: c.weightCapacity,
		}
	}
	c.slots[c.slotOf(nil)] = req
	logrus.Debugf("[tick %07d] Cart at %s loaded %s %s", c.clock.Time(), c.pos, req, c)
	if req.OnLoad != nil {
		req.OnLoad(c, req)
	}
	return nil
}

// Unload frees req's slot and then invokes req.OnUnload.
func (c *Cart) Unload(req *CargoReq) error {
	if req == nil {
		return &NotLoadedError{}
	}
	i := c.slotOf(req)
	if i < 0 {
		return &NotLoadedError{Req: req}
	}
	c.slots[i] = nil
	logrus.Debugf("[tick %07d] Cart at %s unloaded %s %s", c.clock.Time(), c.pos, req, c)
	if req.OnUnload != nil {
		req.OnUnload(c, req)
	}
	return nil
}

// MoveTo drives the cart along the shortest path to target, one hop at a
// time, and runs done after the final arrival. Moving to the current
// position is a no-op that runs done immediately without advancing time.
// A trip in progress is never interrupted.
func (c *Cart) MoveTo(target Station, done Callback) error {
	if c.status == CartMoving {
		return fmt.Errorf("move to %s: %w", target, ErrCartMoving)
	}
	path, err := c.layout.Path(c.pos, target)
	if err != nil {
		return fmt.Errorf("move to %s: %w", target, err)
	}
	if len(path) == 0 {
		if done != nil {
			return done()
		}
		return nil
	}
	return c.travel(path, done)
}

func (c *Cart) travel(path []Station, done Callback) error {
	hop := path[0]
	cost, err := c.layout.TravelTime(c.pos, hop)
	if err != nil {
		return err
	}
	c.status = CartMoving
	c.target = hop
	logrus.Debugf("[tick %07d] Cart moving %s -> %s (%d ticks)", c.clock.Time(), c.pos, hop, cost)
	if c.OnMove != nil {
		c.OnMove(c)
	}
	c.clock.Plan(cost, func() error {
		c.pos = hop
		c.hops++
		c.travelled += cost
		if len(path) > 1 {
			return c.travel(path[1:], done)
		}
		c.status = CartIdle
		c.target = ""
		if done != nil {
			return done()
		}
		return nil
	})
	return nil
}

func (c *Cart) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Cart{%s at %s", c.status, c.pos)
	if c.status == CartMoving {
		fmt.Fprintf(&sb, " -> %s", c.target)
	}
	fmt.Fprintf(&sb, ", %g/%g, [", c.LoadedWeight(), c.weightCapacity)
	for i, s := range c.slots {
		if i > 0 {
			sb.WriteString(" ")
		}
		if s == nil {
			sb.WriteString("-")
		} else {
			sb.WriteString(s.String())
		}
	}
	sb.WriteString("]}")
	return sb.String()
}

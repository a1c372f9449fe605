package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/robofactory/cartsim/sim/trace"
)

// CtlStatus is the externally observable mode of the controller.
type CtlStatus string

const (
	// CtlIdle: nothing in the backlog.
	CtlIdle CtlStatus = "idle"
	// CtlNormal: serving a backlog without escalated requests.
	CtlNormal CtlStatus = "normal"
	// CtlUnloadOnly: an escalated request is outstanding; only escalated
	// requests may be picked up until it is delivered.
	CtlUnloadOnly CtlStatus = "unload-only"
)

// Observer receives controller lifecycle notifications.
// Implementations must not call back into the controller.
type Observer interface {
	RequestAdmitted(req *CargoReq, backlog int)
	RequestLoaded(req *CargoReq, waited int64)
	RequestUnloaded(req *CargoReq, transit int64)
	RequestEscalated(req *CargoReq)
	RequestDiscarded(req *CargoReq)
	CartMoved(from, to Station, travel int64)
}

// ControllerConfig holds the escalation thresholds and optional sinks.
type ControllerConfig struct {
	// PriorityAfter is how long a request may wait for pickup before it is escalated.
	PriorityAfter int64
	// PriorityDeadline is how long an escalated request may wait before the run fails.
	PriorityDeadline int64

	Trace    *trace.SimulationTrace // nil disables tracing
	Observer Observer               // nil disables notifications
}

// DefaultControllerConfig returns the factory defaults: escalate after 60
// ticks, fail 60 ticks after escalation.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{PriorityAfter: 60, PriorityDeadline: 60}
}

// CartCtl drives a single cart from a backlog of cargo requests.
//
// The controller decides only while the cart stands at a station: it serves
// the station, then moves one hop toward the nearest useful station and
// decides again on arrival.
type CartCtl struct {
	cart    *Cart
	clock   Clock
	cfg     ControllerConfig
	backlog *Backlog
	status  CtlStatus
	metrics *Metrics

	seq      uint64
	deciding bool // a decision is planned but has not run yet
	err      error
}

// NewCartCtl attaches a controller to cart. Zero thresholds in cfg fall back
// to DefaultControllerConfig.
func NewCartCtl(cart *Cart, clock Clock, cfg ControllerConfig) *CartCtl {
	def := DefaultControllerConfig()
	if cfg.PriorityAfter <= 0 {
		cfg.PriorityAfter = def.PriorityAfter
	}
	if cfg.PriorityDeadline <= 0 {
		cfg.PriorityDeadline = def.PriorityDeadline
	}
	return &CartCtl{
		cart:    cart,
		clock:   clock,
		cfg:     cfg,
		backlog: &Backlog{},
		status:  CtlIdle,
		metrics: NewMetrics(),
	}
}

// Status returns the controller mode.
func (c *CartCtl) Status() CtlStatus { return c.status }

// Requests returns a snapshot of the backlog, most urgent first.
func (c *CartCtl) Requests() []*CargoReq { return c.backlog.Snapshot() }

// Cart returns the controlled cart.
func (c *CartCtl) Cart() *Cart { return c.cart }

// Metrics returns the controller's running statistics.
func (c *CartCtl) Metrics() *Metrics {
	c.metrics.Hops = c.cart.Hops()
	c.metrics.TravelTime = c.cart.Travelled()
	c.metrics.SimEndedTime = c.clock.Time()
	return c.metrics
}

// Err returns the first fatal error raised by the controller, if any.
func (c *CartCtl) Err() error { return c.err }

// Request admits req into the backlog. Invalid requests are refused with a
// plain error. A request that cannot be combined with another one admitted
// at the same instant fails with *CartError; that error is also planned on
// the clock so the run halts even if the caller ignores it. A request heavier
// than the cart's weight capacity is admitted and discarded at once.
func (c *CartCtl) Request(req *CargoReq) error {
	now := c.clock.Time()
	if err := c.validate(req); err != nil {
		c.metrics.Rejected++
		if req != nil {
			c.cfg.Trace.RecordAdmission(trace.AdmissionRecord{
				RequestID: req.ID, Clock: now, Src: string(req.Src), Dst: string(req.Dst),
				Weight: req.Weight, Admitted: false, Reason: err.Error(),
			})
		}
		return err
	}

	c.seq++
	req.seq = c.seq
	req.submittedAt = now
	req.state = CargoPending

	if other := c.conflicting(req); other != nil {
		req.state = CargoRejected
		c.metrics.Rejected++
		c.cfg.Trace.RecordAdmission(trace.AdmissionRecord{
			RequestID: req.ID, Clock: now, Src: string(req.Src), Dst: string(req.Dst),
			Weight: req.Weight, Admitted: false, Reason: "conflict",
		})
		return c.fail(&CartError{Req: req, Other: other, Time: now}, req, "conflict")
	}

	c.backlog.Enqueue(req)
	c.backlog.Reorder(OrderBacklog)
	c.updateStatus()
	c.metrics.Admitted++
	logrus.Infof("[tick %07d] Admitted %s, backlog %d", now, req, c.backlog.Len())
	c.cfg.Trace.RecordAdmission(trace.AdmissionRecord{
		RequestID: req.ID, Clock: now, Src: string(req.Src), Dst: string(req.Dst),
		Weight: req.Weight, Admitted: true,
	})
	if c.cfg.Observer != nil {
		c.cfg.Observer.RequestAdmitted(req, c.backlog.Len())
	}

	if req.Weight > c.cart.WeightCapacity() {
		c.discard(req)
		return nil
	}

	c.clock.Plan(c.cfg.PriorityAfter, func() error { return c.escalate(req) })
	c.kick()
	return nil
}

func (c *CartCtl) validate(req *CargoReq) error {
	if req == nil {
		return fmt.Errorf("request must not be nil")
	}
	if req.State() != CargoNew {
		return fmt.Errorf("request %s: %w", req, ErrAlreadySubmitted)
	}
	layout := c.cart.Layout()
	if !layout.Has(req.Src) {
		return fmt.Errorf("request %s source: %w %q", req, ErrUnknownStation, req.Src)
	}
	if !layout.Has(req.Dst) {
		return fmt.Errorf("request %s destination: %w %q", req, ErrUnknownStation, req.Dst)
	}
	if math.IsNaN(req.Weight) || math.IsInf(req.Weight, 0) {
		return fmt.Errorf("request %s: weight must be a finite number, got %g", req, req.Weight)
	}
	if req.Weight <= 0 {
		return fmt.Errorf("request %s: weight must be positive, got %g", req, req.Weight)
	}
	return nil
}

// conflicting returns a pending request admitted at the same instant that
// cannot share a batch with req, or nil.
func (c *CartCtl) conflicting(req *CargoReq) *CargoReq {
	for _, other := range c.backlog.Items() {
		if other.state != CargoPending || other.submittedAt != req.submittedAt {
			continue
		}
		if Conflicts(other, req) {
			return other
		}
	}
	return nil
}

// fail records a fatal error and plans it so the run halts.
func (c *CartCtl) fail(err error, req *CargoReq, kind string) error {
	now := c.clock.Time()
	if c.err == nil {
		c.err = err
	}
	logrus.Errorf("[tick %07d] %v", now, err)
	c.cfg.Trace.RecordFailure(trace.FailureRecord{RequestID: req.ID, Clock: now, Kind: kind, Message: err.Error()})
	c.clock.Plan(0, func() error { return err })
	return err
}

// kick plans a decision at the current instant unless the cart is on its
// way somewhere or a decision is already planned. Same-instant admissions
// queued before the decision are all visible to it.
func (c *CartCtl) kick() {
	if c.cart.Status() == CartMoving || c.deciding {
		return
	}
	c.deciding = true
	c.clock.Plan(0, func() error {
		c.deciding = false
		return c.step()
	})
}

// escalate grants priority to a request still waiting for pickup and arms
// its deadline.
func (c *CartCtl) escalate(req *CargoReq) error {
	if req.state != CargoPending || req.prio {
		return nil
	}
	now := c.clock.Time()
	req.prio = true
	req.escalatedAt = now
	c.noteBlocked(req)
	c.backlog.Reorder(OrderBacklog)
	c.updateStatus()
	c.metrics.Escalated++
	logrus.Infof("[tick %07d] Escalated %s waiting since %d", now, req, req.submittedAt)
	c.cfg.Trace.RecordCargo(trace.CargoRecord{
		RequestID: req.ID, Clock: now, Kind: trace.CargoEscalate,
		Station: string(c.cart.Position()), Waited: now - req.submittedAt,
	})
	if c.cfg.Observer != nil {
		c.cfg.Observer.RequestEscalated(req)
	}
	c.clock.Plan(c.cfg.PriorityDeadline, func() error { return c.checkDeadline(req, false) })
	c.kick()
	return nil
}

// checkDeadline fails the run when an escalated request is still waiting
// and the cart lacked a free slot or weight capacity for it at some point
// since escalation. The first check defers once at the same instant so
// arrivals already due at this tick can still pick the request up. A request
// that only waits on travel gets a fresh deadline instead.
func (c *CartCtl) checkDeadline(req *CargoReq, final bool) error {
	if req.state != CargoPending {
		return nil
	}
	if !final {
		c.clock.Plan(0, func() error { return c.checkDeadline(req, true) })
		return nil
	}
	now := c.clock.Time()
	if !req.noSlot && !req.noWeight {
		logrus.Infof("[tick %07d] %s still travelling to %s, deadline extended by %d", now, req, req.Src, c.cfg.PriorityDeadline)
		c.clock.Plan(c.cfg.PriorityDeadline, func() error { return c.checkDeadline(req, false) })
		return nil
	}
	err := &LongPrioRequestError{
		Req:         req,
		EscalatedAt: req.escalatedAt,
		Deadline:    now,
		NoSlot:      req.noSlot,
		NoWeight:    req.noWeight,
	}
	if c.err == nil {
		c.err = err
	}
	logrus.Errorf("[tick %07d] %v", now, err)
	c.cfg.Trace.RecordFailure(trace.FailureRecord{
		RequestID: req.ID, Clock: now, Kind: "deadline", Message: err.Error(),
	})
	return err
}

// noteBlocked records whether the cart, as currently loaded, lacks a slot or
// the weight capacity for the escalated request req.
func (c *CartCtl) noteBlocked(req *CargoReq) {
	if c.cart.FreeSlots() == 0 {
		req.noSlot = true
	}
	if c.cart.LoadedWeight()+req.Weight > c.cart.WeightCapacity() {
		req.noWeight = true
	}
}

func (c *CartCtl) updateStatus() {
	next := CtlNormal
	if c.backlog.Len() == 0 {
		next = CtlIdle
	} else {
		for _, r := range c.backlog.Items() {
			if r.prio {
				next = CtlUnloadOnly
				break
			}
		}
	}
	if next != c.status {
		logrus.Debugf("[tick %07d] Controller %s -> %s", c.clock.Time(), c.status, next)
		c.status = next
	}
}

// eligible reports whether a pending request may be picked up in the current mode.
func (c *CartCtl) eligible(req *CargoReq) bool {
	return c.status != CtlUnloadOnly || req.prio
}

// step is the decision point, run whenever the cart stands at a station.
func (c *CartCtl) step() error {
	if c.cart.Status() == CartMoving {
		return nil
	}
	if err := c.serve(); err != nil {
		return err
	}
	c.updateStatus()

	pos := c.cart.Position()
	target, reason, ok := c.nextTarget()
	if !ok {
		logrus.Debugf("[tick %07d] Nothing to do at %s", c.clock.Time(), pos)
		return nil
	}
	layout := c.cart.Layout()
	hop, err := layout.NextHop(pos, target)
	if err != nil {
		return err
	}
	travel, err := layout.TravelTime(pos, hop)
	if err != nil {
		return err
	}
	c.cfg.Trace.RecordMove(trace.MoveRecord{
		Clock: c.clock.Time(), From: string(pos), To: string(hop), Target: string(target),
		Travel: travel, Reason: reason,
	})
	if c.cfg.Observer != nil {
		c.cfg.Observer.CartMoved(pos, hop, travel)
	}
	return c.cart.MoveTo(hop, c.step)
}

// discard drops an admitted request the cart could not carry even empty.
// No hook fires for it.
func (c *CartCtl) discard(req *CargoReq) {
	capacity := c.cart.WeightCapacity()
	c.backlog.Remove(req)
	req.state = CargoDiscarded
	c.metrics.Discarded++
	now := c.clock.Time()
	logrus.Warnf("[tick %07d] Discarding %s: weight exceeds cart capacity %g", now, req, capacity)
	c.cfg.Trace.RecordCargo(trace.CargoRecord{
		RequestID: req.ID, Clock: now, Kind: trace.CargoDiscard,
		Station: string(c.cart.Position()), Waited: now - req.submittedAt,
	})
	if c.cfg.Observer != nil {
		c.cfg.Observer.RequestDiscarded(req)
	}
	c.updateStatus()
}

// serve unloads and loads at the current station until nothing changes.
// The backlog is rescanned after every transition because hooks may admit
// new requests.
func (c *CartCtl) serve() error {
	pos := c.cart.Position()
	for {
		c.updateStatus()
		if req := c.find(func(r *CargoReq) bool { return r.state == CargoLoaded && r.Dst == pos }); req != nil {
			if err := c.unload(req); err != nil {
				return err
			}
			continue
		}
		if req := c.find(func(r *CargoReq) bool {
			return r.state == CargoPending && r.Src == pos && c.eligible(r) && c.cart.CanLoad(r)
		}); req != nil {
			if err := c.load(req); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

func (c *CartCtl) find(match func(*CargoReq) bool) *CargoReq {
	for _, r := range c.backlog.Items() {
		if match(r) {
			return r
		}
	}
	return nil
}

func (c *CartCtl) load(req *CargoReq) error {
	now := c.clock.Time()
	req.state = CargoLoaded
	req.loadedAt = now
	if err := c.cart.Load(req); err != nil {
		req.state = CargoPending
		return fmt.Errorf("loading %s: %w", req, err)
	}
	for _, r := range c.backlog.Items() {
		if r.state == CargoPending && r.prio {
			c.noteBlocked(r)
		}
	}
	waited := now - req.submittedAt
	c.metrics.Loaded++
	c.metrics.WaitTimes = append(c.metrics.WaitTimes, float64(waited))
	if onCart := c.cart.Capacity() - c.cart.FreeSlots(); onCart > c.metrics.PeakOnCart {
		c.metrics.PeakOnCart = onCart
	}
	logrus.Infof("[tick %07d] Loaded %s at %s after %d ticks", now, req, c.cart.Position(), waited)
	c.cfg.Trace.RecordCargo(trace.CargoRecord{
		RequestID: req.ID, Clock: now, Kind: trace.CargoLoad,
		Station: string(c.cart.Position()), Waited: waited,
	})
	if c.cfg.Observer != nil {
		c.cfg.Observer.RequestLoaded(req, waited)
	}
	return nil
}

func (c *CartCtl) unload(req *CargoReq) error {
	now := c.clock.Time()
	if !c.cart.Holds(req) {
		logrus.Errorf("[tick %07d] Backlog and cart disagree about %s", now, req)
		return fmt.Errorf("unloading %s: %w", req, &NotLoadedError{Req: req})
	}
	c.backlog.Remove(req)
	req.state = CargoDelivered
	req.unloadedAt = now
	if err := c.cart.Unload(req); err != nil {
		req.state = CargoLoaded
		c.backlog.Enqueue(req)
		c.backlog.Reorder(OrderBacklog)
		return fmt.Errorf("unloading %s: %w", req, err)
	}
	transit := now - req.loadedAt
	c.metrics.Delivered++
	c.metrics.TransitTimes = append(c.metrics.TransitTimes, float64(transit))
	logrus.Infof("[tick %07d] Unloaded %s at %s after %d ticks on board", now, req, c.cart.Position(), transit)
	c.cfg.Trace.RecordCargo(trace.CargoRecord{
		RequestID: req.ID, Clock: now, Kind: trace.CargoUnload,
		Station: string(c.cart.Position()), Waited: now - req.submittedAt,
	})
	if c.cfg.Observer != nil {
		c.cfg.Observer.RequestUnloaded(req, transit)
	}
	c.updateStatus()
	return nil
}

// nextTarget picks the nearest station where work waits: the destination of
// a request on board, or the source of a pending request that is eligible and
// fits right now. Ties go to the more urgent request.
func (c *CartCtl) nextTarget() (Station, string, bool) {
	pos := c.cart.Position()
	layout := c.cart.Layout()
	var (
		best     Station
		reason   string
		bestCost int64 = -1
	)
	for _, r := range c.backlog.Items() {
		var st Station
		var why string
		switch r.state {
		case CargoLoaded:
			st, why = r.Dst, "deliver "+r.String()
		case CargoPending:
			if !c.eligible(r) || !c.cart.CanLoad(r) {
				continue
			}
			st, why = r.Src, "pick up "+r.String()
		default:
			continue
		}
		if st == pos {
			continue
		}
		cost, err := layout.TravelTime(pos, st)
		if err != nil {
			continue
		}
		if bestCost < 0 || cost < bestCost {
			best, reason, bestCost = st, why, cost
		}
	}
	return best, reason, bestCost >= 0
}

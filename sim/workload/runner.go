package workload

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/robofactory/cartsim/sim"
	"github.com/robofactory/cartsim/sim/trace"
)

// RunOptions override scenario settings for a single run.
type RunOptions struct {
	Horizon  int64            // > 0 overrides ScenarioSpec.Horizon
	Trace    trace.TraceLevel // non-empty overrides ScenarioSpec.Trace
	Observer sim.Observer     // optional controller observer
}

// Outcome is the result of one scenario run.
type Outcome struct {
	RunID      string
	Requests   []TimedRequest
	Metrics    *sim.Metrics
	Trace      *trace.SimulationTrace // nil when tracing is off
	Cart       *sim.Cart
	Controller *sim.CartCtl
	Pending    int   // events left in the queue when the run stopped
	Err        error // error that halted the simulation, if any
}

// Run builds a scheduler, cart and controller from spec, plans every request
// admission and runs the simulation. The returned error reports scenario
// problems only; a failure inside the simulation is returned in Outcome.Err.
func Run(spec *ScenarioSpec, opts RunOptions) (*Outcome, error) {
	layout, err := spec.BuildLayout()
	if err != nil {
		return nil, err
	}
	start, err := spec.startIndex(layout)
	if err != nil {
		return nil, err
	}
	requests, err := GenerateRequests(spec, layout)
	if err != nil {
		return nil, err
	}

	sched := sim.NewScheduler()
	cart, err := sim.NewCart(sched, layout, spec.Cart.Slots, spec.Cart.WeightCapacity, start)
	if err != nil {
		return nil, fmt.Errorf("cart: %w", err)
	}

	out := &Outcome{RunID: uuid.NewString(), Requests: requests, Cart: cart}

	level := trace.TraceLevel(spec.Trace)
	if opts.Trace != "" {
		level = opts.Trace
	}
	cfg := sim.DefaultControllerConfig()
	if spec.Controller.PriorityAfter > 0 {
		cfg.PriorityAfter = spec.Controller.PriorityAfter
	}
	if spec.Controller.PriorityDeadline > 0 {
		cfg.PriorityDeadline = spec.Controller.PriorityDeadline
	}
	if level != "" && level != trace.TraceLevelNone {
		out.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: level, RunID: out.RunID})
		cfg.Trace = out.Trace
	}
	cfg.Observer = opts.Observer
	ctl := sim.NewCartCtl(cart, sched, cfg)
	out.Controller = ctl

	for _, tr := range requests {
		req := tr.Req
		sched.PlanAt(tr.At, func() error { return ctl.Request(req) })
	}

	horizon := spec.Horizon
	if opts.Horizon > 0 {
		horizon = opts.Horizon
	}
	logrus.Infof("run %s: %d requests, %d slots, capacity %g, start %s",
		out.RunID, len(requests), cart.Capacity(), cart.WeightCapacity(), cart.Position())
	if horizon > 0 {
		out.Err = sched.RunUntil(horizon)
	} else {
		out.Err = sched.Run()
	}

	out.Pending = sched.Pending()
	out.Metrics = ctl.Metrics()
	return out, nil
}

package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestCart places a cart at station A of the default ring.
func newTestCart(t *testing.T, clock Clock, slots int, capacity float64) *Cart {
	t.Helper()
	c, err := NewCart(clock, DefaultLayout(), slots, capacity, 0)
	require.NoError(t, err)
	return c
}

// world wires a scheduler, default-ring cart and controller the way the
// scenario runner does, and records every hook invocation.
type world struct {
	t     *testing.T
	sched *Scheduler
	cart  *Cart
	ctl   *CartCtl
	log   []string
}

func newWorld(t *testing.T, slots int, capacity float64) *world {
	t.Helper()
	return newWorldOn(t, DefaultLayout(), slots, capacity)
}

// newWorldOn is newWorld on a custom layout, starting at its first station.
func newWorldOn(t *testing.T, layout *Layout, slots int, capacity float64) *world {
	t.Helper()
	w := &world{t: t, sched: NewScheduler()}
	cart, err := NewCart(w.sched, layout, slots, capacity, 0)
	require.NoError(t, err)
	w.cart = cart
	w.ctl = NewCartCtl(w.cart, w.sched, DefaultControllerConfig())
	w.cart.OnMove = func(c *Cart) {
		if c.Status() != CartMoving {
			t.Errorf("OnMove fired with status %s", c.Status())
		}
		w.log = append(w.log, fmt.Sprintf("%d move %s->%s", w.sched.Time(), c.Position(), c.Target()))
	}
	return w
}

// cargo builds a request whose hooks keep the Context field in sync with
// its lifecycle and check the cart invariants.
func (w *world) cargo(src, dst Station, weight float64, content string) *CargoReq {
	req := NewCargoReq(src, dst, weight, content)
	req.OnLoad = func(c *Cart, r *CargoReq) {
		if c.Status() != CartIdle || !c.Holds(r) {
			w.t.Errorf("%s: onload with status %s, held=%v", content, c.Status(), c.Holds(r))
		}
		if r.Context != nil {
			w.t.Errorf("%s: loaded twice", content)
		}
		r.Context = "loaded"
		w.log = append(w.log, fmt.Sprintf("%d load %s at %s", w.sched.Time(), content, c.Position()))
	}
	req.OnUnload = func(c *Cart, r *CargoReq) {
		if c.Holds(r) {
			w.t.Errorf("%s: still held during onunload", content)
		}
		if r.Context != "loaded" {
			w.t.Errorf("%s: unloaded before being loaded", content)
		}
		r.Context = "unloaded"
		w.log = append(w.log, fmt.Sprintf("%d unload %s at %s", w.sched.Time(), content, c.Position()))
	}
	return req
}

// submitAt plans the admission of req at the absolute time at.
func (w *world) submitAt(at int64, req *CargoReq) {
	w.sched.PlanAt(at, func() error { return w.ctl.Request(req) })
}

// checkAt plans an assertion callback at the absolute time at.
func (w *world) checkAt(at int64, fn func()) {
	w.sched.PlanAt(at, func() error {
		fn()
		return nil
	})
}

// twoStationLayout links A and B both ways with the given travel time.
func twoStationLayout(t *testing.T, edgeTime int64) *Layout {
	t.Helper()
	l, err := NewLayout([]Station{"A", "B"}, []Edge{
		{From: "A", To: "B", Time: edgeTime},
		{From: "B", To: "A", Time: edgeTime},
	})
	require.NoError(t, err)
	return l
}

// Package observability exposes controller activity as Prometheus metrics.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/robofactory/cartsim/sim"
)

// Cargo event label values for CartCollector.CargoEvents.
const (
	EventAdmitted  = "admitted"
	EventLoaded    = "loaded"
	EventUnloaded  = "unloaded"
	EventEscalated = "escalated"
	EventDiscarded = "discarded"
)

// tickBuckets covers waits from immediate pickup up to a few escalation periods.
var tickBuckets = []float64{0, 10, 20, 40, 60, 90, 120, 180, 240, 360}

// CartCollector exposes controller-specific Prometheus metrics. It
// implements sim.Observer so it can be plugged straight into a controller.
type CartCollector struct {
	gatherer prometheus.Gatherer

	CargoEvents  *prometheus.CounterVec
	Backlog      prometheus.Gauge
	OnCart       prometheus.Gauge
	WaitTicks    prometheus.Histogram
	TransitTicks prometheus.Histogram
	HopTicks     *prometheus.CounterVec

	onCart int
}

var _ sim.Observer = (*CartCollector)(nil)

// NewCartCollector registers cart metrics against the provided registerer.
func NewCartCollector(reg prometheus.Registerer) (*CartCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cartsim_cargo_events_total",
		Help: "Cargo request lifecycle transitions by event.",
	}, []string{"event"})
	events, err := registerCounterVec(reg, events, "cartsim_cargo_events_total")
	if err != nil {
		return nil, err
	}

	backlog := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cartsim_backlog_requests",
		Help: "Requests admitted but not yet delivered or discarded.",
	})
	backlog, err = registerGauge(reg, backlog, "cartsim_backlog_requests")
	if err != nil {
		return nil, err
	}

	onCart := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cartsim_cart_loaded_requests",
		Help: "Requests currently on board the cart.",
	})
	onCart, err = registerGauge(reg, onCart, "cartsim_cart_loaded_requests")
	if err != nil {
		return nil, err
	}

	wait := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cartsim_wait_to_load_ticks",
		Help:    "Simulated ticks between admission and pickup.",
		Buckets: tickBuckets,
	})
	wait, err = registerHistogram(reg, wait, "cartsim_wait_to_load_ticks")
	if err != nil {
		return nil, err
	}

	transit := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cartsim_transit_ticks",
		Help:    "Simulated ticks between pickup and delivery.",
		Buckets: tickBuckets,
	})
	transit, err = registerHistogram(reg, transit, "cartsim_transit_ticks")
	if err != nil {
		return nil, err
	}

	hops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cartsim_hop_travel_ticks_total",
		Help: "Simulated travel ticks per traversed edge.",
	}, []string{"from", "to"})
	hops, err = registerCounterVec(reg, hops, "cartsim_hop_travel_ticks_total")
	if err != nil {
		return nil, err
	}

	return &CartCollector{
		gatherer:     gatherer,
		CargoEvents:  events,
		Backlog:      backlog,
		OnCart:       onCart,
		WaitTicks:    wait,
		TransitTicks: transit,
		HopTicks:     hops,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *CartCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

func (c *CartCollector) inc(event string) {
	if c == nil || c.CargoEvents == nil {
		return
	}
	c.CargoEvents.WithLabelValues(event).Inc()
}

func (c *CartCollector) addBacklog(delta float64) {
	if c == nil || c.Backlog == nil {
		return
	}
	c.Backlog.Add(delta)
}

func (c *CartCollector) setOnCart(delta int) {
	if c == nil {
		return
	}
	c.onCart += delta
	if c.OnCart != nil {
		c.OnCart.Set(float64(c.onCart))
	}
}

// RequestAdmitted records an admission and the resulting backlog length.
func (c *CartCollector) RequestAdmitted(_ *sim.CargoReq, backlog int) {
	if c == nil {
		return
	}
	c.inc(EventAdmitted)
	if c.Backlog != nil {
		c.Backlog.Set(float64(backlog))
	}
}

// RequestLoaded records a pickup and its wait time.
func (c *CartCollector) RequestLoaded(_ *sim.CargoReq, waited int64) {
	if c == nil {
		return
	}
	c.inc(EventLoaded)
	c.setOnCart(1)
	if c.WaitTicks != nil {
		c.WaitTicks.Observe(float64(waited))
	}
}

// RequestUnloaded records a delivery and its time on board.
func (c *CartCollector) RequestUnloaded(_ *sim.CargoReq, transit int64) {
	if c == nil {
		return
	}
	c.inc(EventUnloaded)
	c.setOnCart(-1)
	c.addBacklog(-1)
	if c.TransitTicks != nil {
		c.TransitTicks.Observe(float64(transit))
	}
}

// RequestEscalated records a priority escalation.
func (c *CartCollector) RequestEscalated(_ *sim.CargoReq) {
	c.inc(EventEscalated)
}

// RequestDiscarded records a request dropped for exceeding the cart's capacity.
func (c *CartCollector) RequestDiscarded(_ *sim.CargoReq) {
	c.inc(EventDiscarded)
	c.addBacklog(-1)
}

// CartMoved records one hop.
func (c *CartCollector) CartMoved(from, to sim.Station, travel int64) {
	if c == nil || c.HopTicks == nil {
		return
	}
	c.HopTicks.WithLabelValues(string(from), string(to)).Add(float64(travel))
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

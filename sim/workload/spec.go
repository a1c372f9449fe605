// Package workload loads cart scenarios and turns them into timed cargo
// requests for a controller run.
package workload

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robofactory/cartsim/sim"
	"github.com/robofactory/cartsim/sim/trace"
)

// ScenarioSpec is the top-level scenario configuration.
// Loaded from YAML via LoadScenario or constructed programmatically.
type ScenarioSpec struct {
	Version    string          `yaml:"version"`
	Seed       int64           `yaml:"seed"`
	Horizon    int64           `yaml:"horizon,omitempty"` // 0 runs until the event queue drains
	Trace      string          `yaml:"trace,omitempty"`   // none, decisions, moves
	Layout     *LayoutSpec     `yaml:"layout,omitempty"`  // nil selects the default four-station ring
	Cart       CartSpec        `yaml:"cart"`
	Controller ControllerSpec  `yaml:"controller,omitempty"`
	Requests   []RequestSpec   `yaml:"requests,omitempty"`
	Generators []GeneratorSpec `yaml:"generators,omitempty"`
}

// LayoutSpec lists stations and directed edges.
type LayoutSpec struct {
	Stations []sim.Station `yaml:"stations"`
	Edges    []sim.Edge    `yaml:"edges"`
}

// CartSpec configures the single cart.
type CartSpec struct {
	Slots          int         `yaml:"slots"`
	WeightCapacity float64     `yaml:"weight_capacity"`
	Start          sim.Station `yaml:"start,omitempty"` // empty starts at the first station
}

// ControllerSpec overrides the escalation thresholds. Zero keeps the default.
type ControllerSpec struct {
	PriorityAfter    int64 `yaml:"priority_after,omitempty"`
	PriorityDeadline int64 `yaml:"priority_deadline,omitempty"`
}

// RequestSpec is one explicitly timed cargo request.
type RequestSpec struct {
	At      int64       `yaml:"at"`
	ID      string      `yaml:"id,omitempty"`
	Src     sim.Station `yaml:"src"`
	Dst     sim.Station `yaml:"dst"`
	Weight  float64     `yaml:"weight"`
	Content string      `yaml:"content,omitempty"`
}

// GeneratorSpec produces Count random requests.
type GeneratorSpec struct {
	ID       string        `yaml:"id"`
	Count    int           `yaml:"count"`
	Start    int64         `yaml:"start,omitempty"`
	Arrival  ArrivalSpec   `yaml:"arrival"`
	Weight   WeightSpec    `yaml:"weight"`
	Stations []sim.Station `yaml:"stations,omitempty"` // empty draws from every layout station
}

// ArrivalSpec configures the gap between generated requests.
type ArrivalSpec struct {
	Process string  `yaml:"process"` // poisson, constant
	MeanGap float64 `yaml:"mean_gap"`
}

// WeightSpec bounds generated weights; weights are drawn uniformly in [Min, Max].
type WeightSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

var validArrivalProcesses = map[string]bool{
	"poisson":  true,
	"constant": true,
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys are errors.
func LoadScenario(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes a YAML scenario document with strict field checking
// and validates it.
func ParseScenario(data []byte) (*ScenarioSpec, error) {
	var spec ScenarioSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}
	return &spec, nil
}

// Validate checks the scenario for values that would make a run meaningless.
// Station names are checked against the layout by BuildLayout and Run.
func (s *ScenarioSpec) Validate() error {
	if s.Horizon < 0 {
		return fmt.Errorf("horizon must be non-negative, got %d", s.Horizon)
	}
	if !trace.IsValidTraceLevel(s.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, decisions, moves", s.Trace)
	}
	if s.Cart.Slots < 1 {
		return fmt.Errorf("cart.slots must be at least 1, got %d", s.Cart.Slots)
	}
	if err := validateFinitePositive("cart.weight_capacity", s.Cart.WeightCapacity); err != nil {
		return err
	}
	if s.Controller.PriorityAfter < 0 {
		return fmt.Errorf("controller.priority_after must be non-negative, got %d", s.Controller.PriorityAfter)
	}
	if s.Controller.PriorityDeadline < 0 {
		return fmt.Errorf("controller.priority_deadline must be non-negative, got %d", s.Controller.PriorityDeadline)
	}
	if len(s.Requests) == 0 && len(s.Generators) == 0 {
		return fmt.Errorf("at least one request or generator required")
	}
	for i := range s.Requests {
		if err := validateRequest(&s.Requests[i], i); err != nil {
			return err
		}
	}
	seen := make(map[string]bool, len(s.Generators))
	for i := range s.Generators {
		g := &s.Generators[i]
		if err := validateGenerator(g, i); err != nil {
			return err
		}
		if seen[g.ID] {
			return fmt.Errorf("generator[%d]: duplicate id %q", i, g.ID)
		}
		seen[g.ID] = true
	}
	return nil
}

func validateRequest(r *RequestSpec, idx int) error {
	prefix := fmt.Sprintf("request[%d]", idx)
	if r.At < 0 {
		return fmt.Errorf("%s: at must be non-negative, got %d", prefix, r.At)
	}
	if r.Src == "" || r.Dst == "" {
		return fmt.Errorf("%s: src and dst are required", prefix)
	}
	return validateFinitePositive(prefix+".weight", r.Weight)
}

func validateGenerator(g *GeneratorSpec, idx int) error {
	prefix := fmt.Sprintf("generator[%d]", idx)
	if g.ID == "" {
		return fmt.Errorf("%s: id is required", prefix)
	}
	if g.Count < 1 {
		return fmt.Errorf("%s: count must be at least 1, got %d", prefix, g.Count)
	}
	if g.Start < 0 {
		return fmt.Errorf("%s: start must be non-negative, got %d", prefix, g.Start)
	}
	if !validArrivalProcesses[g.Arrival.Process] {
		return fmt.Errorf("%s: unknown arrival process %q; valid: poisson, constant", prefix, g.Arrival.Process)
	}
	if err := validateFinitePositive(prefix+".arrival.mean_gap", g.Arrival.MeanGap); err != nil {
		return err
	}
	if g.Arrival.MeanGap < 1 {
		return fmt.Errorf("%s.arrival.mean_gap must be at least 1 tick, got %f", prefix, g.Arrival.MeanGap)
	}
	if err := validateFinitePositive(prefix+".weight.min", g.Weight.Min); err != nil {
		return err
	}
	if err := validateFinitePositive(prefix+".weight.max", g.Weight.Max); err != nil {
		return err
	}
	if g.Weight.Max < g.Weight.Min {
		return fmt.Errorf("%s: weight.max %g below weight.min %g", prefix, g.Weight.Max, g.Weight.Min)
	}
	return nil
}

func validateFinitePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, v)
	}
	if v <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, v)
	}
	return nil
}

// BuildLayout returns the scenario's layout, or the default ring when none is
// configured.
func (s *ScenarioSpec) BuildLayout() (*sim.Layout, error) {
	if s.Layout == nil {
		return sim.DefaultLayout(), nil
	}
	layout, err := sim.NewLayout(s.Layout.Stations, s.Layout.Edges)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return layout, nil
}

// startIndex resolves Cart.Start to a station index of layout.
func (s *ScenarioSpec) startIndex(layout *sim.Layout) (int, error) {
	if s.Cart.Start == "" {
		return 0, nil
	}
	for i, st := range layout.Stations() {
		if st == s.Cart.Start {
			return i, nil
		}
	}
	return 0, fmt.Errorf("cart.start %q: %w", s.Cart.Start, sim.ErrUnknownStation)
}

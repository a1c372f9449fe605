package workload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robofactory/cartsim/sim"
)

const happyYAML = `
version: "1"
seed: 7
cart:
  slots: 4
  weight_capacity: 150
requests:
  - {at: 10, src: A, dst: B, weight: 20, content: helmet}
  - {at: 25, src: D, dst: C, weight: 40, content: braceletL}
  - {at: 40, src: D, dst: A, weight: 40, content: braceletR}
  - {at: 45, src: C, dst: A, weight: 40, content: heart}
`

func TestLoadScenario_ValidYAML_RoundTrips(t *testing.T) {
	// GIVEN a scenario file on disk
	path := filepath.Join(t.TempDir(), "happy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(happyYAML), 0o644))

	// WHEN it is loaded
	spec, err := LoadScenario(path)

	// THEN every field is decoded
	require.NoError(t, err)
	assert.Equal(t, int64(7), spec.Seed)
	assert.Equal(t, 4, spec.Cart.Slots)
	assert.Equal(t, 150.0, spec.Cart.WeightCapacity)
	assert.Nil(t, spec.Layout)
	require.Len(t, spec.Requests, 4)
	assert.Equal(t, RequestSpec{At: 25, Src: "D", Dst: "C", Weight: 40, Content: "braceletL"}, spec.Requests[1])
}

func TestLoadScenario_MissingFile_ReturnsError(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading scenario")
}

func TestParseScenario_UnknownField_Rejected(t *testing.T) {
	// GIVEN a typo in a cart key
	doc := strings.Replace(happyYAML, "weight_capacity", "weight_capcity", 1)

	// WHEN parsed
	_, err := ParseScenario([]byte(doc))

	// THEN strict decoding refuses it
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing scenario")
}

func TestParseScenario_LayoutAndGenerators(t *testing.T) {
	doc := `
version: "1"
seed: 3
trace: moves
layout:
  stations: [X, Y]
  edges:
    - {from: X, to: Y, time: 5}
    - {from: Y, to: X, time: 7}
cart: {slots: 1, weight_capacity: 10, start: Y}
controller: {priority_after: 30, priority_deadline: 90}
generators:
  - id: g
    count: 5
    arrival: {process: constant, mean_gap: 12}
    weight: {min: 1, max: 4}
`
	spec, err := ParseScenario([]byte(doc))
	require.NoError(t, err)
	require.NotNil(t, spec.Layout)
	assert.Equal(t, []sim.Station{"X", "Y"}, spec.Layout.Stations)
	assert.Equal(t, sim.Edge{From: "Y", To: "X", Time: 7}, spec.Layout.Edges[1])
	assert.Equal(t, sim.Station("Y"), spec.Cart.Start)
	assert.Equal(t, ControllerSpec{PriorityAfter: 30, PriorityDeadline: 90}, spec.Controller)
	require.Len(t, spec.Generators, 1)
	assert.Equal(t, ArrivalSpec{Process: "constant", MeanGap: 12}, spec.Generators[0].Arrival)

	layout, err := spec.BuildLayout()
	require.NoError(t, err)
	start, err := spec.startIndex(layout)
	require.NoError(t, err)
	assert.Equal(t, 1, start)
}

func TestScenarioSpec_Validate_Errors(t *testing.T) {
	valid := func() *ScenarioSpec { return ScenarioHappyPath() }
	tests := []struct {
		name    string
		mutate  func(*ScenarioSpec)
		wantErr string
	}{
		{"negative horizon", func(s *ScenarioSpec) { s.Horizon = -1 }, "horizon"},
		{"bad trace", func(s *ScenarioSpec) { s.Trace = "verbose" }, "trace level"},
		{"no slots", func(s *ScenarioSpec) { s.Cart.Slots = 0 }, "cart.slots"},
		{"zero capacity", func(s *ScenarioSpec) { s.Cart.WeightCapacity = 0 }, "cart.weight_capacity"},
		{"negative aging", func(s *ScenarioSpec) { s.Controller.PriorityAfter = -5 }, "priority_after"},
		{"negative deadline", func(s *ScenarioSpec) { s.Controller.PriorityDeadline = -5 }, "priority_deadline"},
		{"nothing to do", func(s *ScenarioSpec) { s.Requests = nil }, "at least one request"},
		{"negative at", func(s *ScenarioSpec) { s.Requests[0].At = -1 }, "request[0]: at"},
		{"missing dst", func(s *ScenarioSpec) { s.Requests[1].Dst = "" }, "request[1]: src and dst"},
		{"zero weight", func(s *ScenarioSpec) { s.Requests[2].Weight = 0 }, "request[2].weight"},
		{"generator without id", func(s *ScenarioSpec) {
			s.Generators = []GeneratorSpec{{Count: 1, Arrival: ArrivalSpec{Process: "poisson", MeanGap: 5}, Weight: WeightSpec{Min: 1, Max: 2}}}
		}, "id is required"},
		{"generator unknown process", func(s *ScenarioSpec) {
			s.Generators = []GeneratorSpec{{ID: "g", Count: 1, Arrival: ArrivalSpec{Process: "gamma", MeanGap: 5}, Weight: WeightSpec{Min: 1, Max: 2}}}
		}, "unknown arrival process"},
		{"generator sub-tick gap", func(s *ScenarioSpec) {
			s.Generators = []GeneratorSpec{{ID: "g", Count: 1, Arrival: ArrivalSpec{Process: "poisson", MeanGap: 0.5}, Weight: WeightSpec{Min: 1, Max: 2}}}
		}, "at least 1 tick"},
		{"generator inverted weights", func(s *ScenarioSpec) {
			s.Generators = []GeneratorSpec{{ID: "g", Count: 1, Arrival: ArrivalSpec{Process: "poisson", MeanGap: 5}, Weight: WeightSpec{Min: 5, Max: 2}}}
		}, "below weight.min"},
		{"duplicate generator ids", func(s *ScenarioSpec) {
			g := GeneratorSpec{ID: "g", Count: 1, Arrival: ArrivalSpec{Process: "poisson", MeanGap: 5}, Weight: WeightSpec{Min: 1, Max: 2}}
			s.Generators = []GeneratorSpec{g, g}
		}, "duplicate id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := valid()
			tt.mutate(spec)
			err := spec.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScenarioSpec_BuildLayout_InvalidLayout(t *testing.T) {
	spec := ScenarioHappyPath()
	spec.Layout = &LayoutSpec{
		Stations: []sim.Station{"X", "Y"},
		Edges:    []sim.Edge{{From: "X", To: "Y", Time: 5}},
	}
	_, err := spec.BuildLayout()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layout")
}

func TestScenarioSpec_StartIndex_UnknownStation(t *testing.T) {
	spec := ScenarioHappyPath()
	spec.Cart.Start = "Q"
	_, err := spec.startIndex(sim.DefaultLayout())
	assert.ErrorIs(t, err, sim.ErrUnknownStation)
}

package workload

import "github.com/robofactory/cartsim/sim"

// Built-in scenario presets.
// Each returns a valid ScenarioSpec ready for use with Run.

// ScenarioHappyPath is the reference day on the default ring: a 4-slot cart
// at A collects a helmet, a heart and two bracelets, batching both bracelet
// pickups at D.
func ScenarioHappyPath() *ScenarioSpec {
	return &ScenarioSpec{
		Version: "1",
		Cart:    CartSpec{Slots: 4, WeightCapacity: 150},
		Requests: []RequestSpec{
			{At: 10, Src: "A", Dst: "B", Weight: 20, Content: "helmet"},
			{At: 25, Src: "D", Dst: "C", Weight: 40, Content: "braceletL"},
			{At: 40, Src: "D", Dst: "A", Weight: 40, Content: "braceletR"},
			{At: 45, Src: "C", Dst: "A", Weight: 40, Content: "heart"},
		},
	}
}

// ScenarioRushHour drives a small cart with a steady random stream across
// the ring. Long waits escalate requests, so runs exercise unload-only mode.
func ScenarioRushHour(seed int64, count int) *ScenarioSpec {
	return &ScenarioSpec{
		Version: "1", Seed: seed,
		Cart: CartSpec{Slots: 2, WeightCapacity: 100},
		Generators: []GeneratorSpec{{
			ID: "rush", Count: count,
			Arrival: ArrivalSpec{Process: "poisson", MeanGap: 15},
			Weight:  WeightSpec{Min: 5, Max: 60},
		}},
	}
}

// ScenarioHeavyFreight mixes light parcels with occasional loads heavier
// than the cart can carry; the latter are discarded at the next decision.
func ScenarioHeavyFreight(seed int64, count int) *ScenarioSpec {
	return &ScenarioSpec{
		Version: "1", Seed: seed,
		Cart: CartSpec{Slots: 3, WeightCapacity: 120},
		Generators: []GeneratorSpec{
			{ID: "parcels", Count: count,
				Arrival: ArrivalSpec{Process: "poisson", MeanGap: 30},
				Weight:  WeightSpec{Min: 1, Max: 20},
			},
			{ID: "freight", Count: count/4 + 1, Start: 5,
				Arrival: ArrivalSpec{Process: "constant", MeanGap: 120},
				Weight:  WeightSpec{Min: 80, Max: 200},
			},
		},
	}
}

// ScenarioLine runs a shuttle on a bidirectional line X <-> Y <-> Z with
// uneven edge times, starting at the far end.
func ScenarioLine(seed int64, count int) *ScenarioSpec {
	return &ScenarioSpec{
		Version: "1", Seed: seed,
		Layout: &LayoutSpec{
			Stations: []sim.Station{"X", "Y", "Z"},
			Edges: []sim.Edge{
				{From: "X", To: "Y", Time: 10}, {From: "Y", To: "X", Time: 10},
				{From: "Y", To: "Z", Time: 30}, {From: "Z", To: "Y", Time: 30},
			},
		},
		Cart: CartSpec{Slots: 2, WeightCapacity: 50, Start: "Z"},
		Generators: []GeneratorSpec{{
			ID: "shuttle", Count: count,
			Arrival: ArrivalSpec{Process: "poisson", MeanGap: 40},
			Weight:  WeightSpec{Min: 5, Max: 25},
		}},
	}
}

// Presets maps preset names accepted by the CLI to their constructors.
var Presets = map[string]func(seed int64) *ScenarioSpec{
	"happy":   func(int64) *ScenarioSpec { return ScenarioHappyPath() },
	"rush":    func(seed int64) *ScenarioSpec { return ScenarioRushHour(seed, 40) },
	"freight": func(seed int64) *ScenarioSpec { return ScenarioHeavyFreight(seed, 20) },
	"line":    func(seed int64) *ScenarioSpec { return ScenarioLine(seed, 20) },
}

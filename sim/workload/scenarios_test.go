package workload

import (
	"testing"
)

func TestPresets_AllValid(t *testing.T) {
	for name, preset := range Presets {
		t.Run(name, func(t *testing.T) {
			spec := preset(42)
			if err := spec.Validate(); err != nil {
				t.Fatalf("preset %s invalid: %v", name, err)
			}
			if _, err := spec.BuildLayout(); err != nil {
				t.Fatalf("preset %s layout: %v", name, err)
			}
		})
	}
}

func TestScenarioLine_StartsAtFarEnd(t *testing.T) {
	spec := ScenarioLine(1, 5)
	layout, err := spec.BuildLayout()
	if err != nil {
		t.Fatal(err)
	}
	idx, err := spec.startIndex(layout)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 2 {
		t.Errorf("start index = %d, want 2", idx)
	}
	if tt, _ := layout.TravelTime("X", "Z"); tt != 40 {
		t.Errorf("X->Z travel = %d, want 40", tt)
	}
}

func TestScenarioHappyPath_SeedIgnored(t *testing.T) {
	a, b := Presets["happy"](1), Presets["happy"](2)
	if len(a.Requests) != len(b.Requests) || a.Requests[3] != b.Requests[3] {
		t.Error("happy preset must not depend on the seed")
	}
}

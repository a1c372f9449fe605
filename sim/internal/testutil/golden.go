// Package testutil provides shared test infrastructure for the cart simulator.
// It holds the golden dataset types and assertion helpers used by the
// scenario tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one scenario file and the metrics its run must produce.
type GoldenTestCase struct {
	Name     string        `json:"name"`
	Scenario string        `json:"scenario"` // file name under testdata/scenarios/
	Metrics  GoldenMetrics `json:"metrics"`
}

// GoldenMetrics represents the expected metrics from a golden test case.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	Admitted     int   `json:"admitted"`
	Delivered    int   `json:"delivered"`
	Discarded    int   `json:"discarded"`
	Escalated    int   `json:"escalated"`
	PeakOnCart   int   `json:"peak_on_cart"`
	Hops         int   `json:"hops"`
	TravelTime   int64 `json:"travel_time"`
	SimEndedTime int64 `json:"sim_ended_time"`

	// Means over per-request samples, in ticks
	WaitMean    float64 `json:"wait_mean"`
	TransitMean float64 `json:"transit_mean"`
}

// TestdataPath resolves elems under the repository's testdata/ directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func TestdataPath(t *testing.T, elems ...string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	parts := append([]string{filepath.Dir(thisFile), "..", "..", "..", "testdata"}, elems...)
	return filepath.Join(parts...)
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	data, err := os.ReadFile(TestdataPath(t, "goldendataset.json"))
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

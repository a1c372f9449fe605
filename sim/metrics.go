// Tracks simulation-wide and per-request cart metrics such as:
// wait-to-load and in-transit times, escalations, discards and travel.

package sim

import (
	"fmt"
	"io"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates statistics about the simulation
// for final reporting.
type Metrics struct {
	Admitted   int // Requests accepted into the backlog
	Rejected   int // Requests refused at admission (validation or conflict)
	Loaded     int // Requests picked up
	Delivered  int // Requests unloaded at their destination
	Discarded  int // Requests heavier than the cart's capacity
	Escalated  int // Requests that became priority
	PeakOnCart int // Max number of simultaneously loaded requests

	Hops       int   // Completed hops
	TravelTime int64 // Sum of hop travel times

	WaitTimes    []float64 // submission → load, per loaded request
	TransitTimes []float64 // load → unload, per delivered request

	SimEndedTime int64
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		WaitTimes:    make([]float64, 0),
		TransitTimes: make([]float64, 0),
	}
}

// Distribution summarizes a sample of tick durations.
type Distribution struct {
	Count int
	Mean  float64
	P50   float64
	P90   float64
	Max   float64
}

// Summarize computes the distribution of values. Returns zero values for an empty sample.
func Summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return Distribution{
		Count: len(sorted),
		Mean:  stat.Mean(sorted, nil),
		P50:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:   stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Max:   sorted[len(sorted)-1],
	}
}

// Wait returns the wait-to-load distribution.
func (m *Metrics) Wait() Distribution { return Summarize(m.WaitTimes) }

// Transit returns the in-transit distribution.
func (m *Metrics) Transit() Distribution { return Summarize(m.TransitTimes) }

// Print writes aggregated metrics at the end of the simulation.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Simulation Ended     : %d ticks\n", m.SimEndedTime)
	fmt.Fprintf(w, "Admitted Requests    : %d\n", m.Admitted)
	fmt.Fprintf(w, "Rejected Requests    : %d\n", m.Rejected)
	fmt.Fprintf(w, "Delivered Requests   : %d\n", m.Delivered)
	fmt.Fprintf(w, "Discarded Requests   : %d\n", m.Discarded)
	fmt.Fprintf(w, "Escalated Requests   : %d\n", m.Escalated)
	fmt.Fprintf(w, "Peak Cargo On Cart   : %d\n", m.PeakOnCart)
	fmt.Fprintf(w, "Hops                 : %d (%d ticks)\n", m.Hops, m.TravelTime)
	if wait := m.Wait(); wait.Count > 0 {
		fmt.Fprintf(w, "Wait To Load         : mean %.2f, p50 %.0f, p90 %.0f, max %.0f ticks\n",
			wait.Mean, wait.P50, wait.P90, wait.Max)
	}
	if transit := m.Transit(); transit.Count > 0 {
		fmt.Fprintf(w, "Time In Transit      : mean %.2f, p50 %.0f, p90 %.0f, max %.0f ticks\n",
			transit.Mean, transit.P50, transit.P90, transit.Max)
	}
}

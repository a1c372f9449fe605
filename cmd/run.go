package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robofactory/cartsim/sim/observability"
	"github.com/robofactory/cartsim/sim/trace"
	"github.com/robofactory/cartsim/sim/workload"
)

// runCmd executes a scenario and prints its metrics
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a cart scenario",
	Run: func(cmd *cobra.Command, args []string) {
		opts := runConfig{
			ScenarioPath: scenarioPath,
			Preset:       presetName,
			Horizon:      simulationHorizon,
			Trace:        traceLevel,
			Prometheus:   showPrometheus,
		}
		if cmd.Flags().Changed("seed") {
			opts.Seed = &seed
		}
		if err := runScenario(os.Stdout, opts); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// runConfig carries the resolved flags of one run invocation.
type runConfig struct {
	ScenarioPath string
	Preset       string
	Seed         *int64 // nil keeps the scenario seed
	Horizon      int64
	Trace        string
	Prometheus   bool
}

// resolveScenario loads the scenario file, or builds a preset. With neither
// set the happy-path preset is used.
func resolveScenario(path, preset string, seed *int64) (*workload.ScenarioSpec, error) {
	if path != "" && preset != "" {
		return nil, fmt.Errorf("--scenario and --preset are mutually exclusive")
	}
	var spec *workload.ScenarioSpec
	switch {
	case path != "":
		s, err := workload.LoadScenario(path)
		if err != nil {
			return nil, err
		}
		spec = s
	default:
		name := preset
		if name == "" {
			name = "happy"
		}
		build, ok := workload.Presets[name]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q; valid: %s", name, presetNames())
		}
		var s int64
		if seed != nil {
			s = *seed
		}
		spec = build(s)
	}
	if seed != nil {
		spec.Seed = *seed
	}
	return spec, nil
}

func presetNames() string {
	names := make([]string, 0, len(workload.Presets))
	for name := range workload.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// runScenario runs one scenario and writes the report to w. A simulation
// failure is returned after the report so partial metrics are still shown.
func runScenario(w io.Writer, cfg runConfig) error {
	if !trace.IsValidTraceLevel(cfg.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, decisions, moves", cfg.Trace)
	}
	spec, err := resolveScenario(cfg.ScenarioPath, cfg.Preset, cfg.Seed)
	if err != nil {
		return err
	}

	opts := workload.RunOptions{Horizon: cfg.Horizon, Trace: trace.TraceLevel(cfg.Trace)}
	var collector *observability.CartCollector
	if cfg.Prometheus {
		collector, err = observability.NewCartCollector(prometheus.NewRegistry())
		if err != nil {
			return fmt.Errorf("prometheus collector: %w", err)
		}
		opts.Observer = collector
	}

	out, err := workload.Run(spec, opts)
	if err != nil {
		return fmt.Errorf("scenario: %w", err)
	}

	fmt.Fprintf(w, "Run %s\n", out.RunID)
	out.Metrics.Print(w)
	fmt.Fprintf(w, "Final Cart           : %s\n", out.Cart)
	if out.Pending > 0 {
		fmt.Fprintf(w, "Pending Events       : %d\n", out.Pending)
	}
	if out.Trace != nil {
		printTraceSummary(w, trace.Summarize(out.Trace))
	}
	if collector != nil {
		fmt.Fprintln(w, "=== Prometheus Metrics ===")
		if err := observability.WriteText(w, collector.Gatherer()); err != nil {
			return err
		}
	}
	if out.Err != nil {
		return fmt.Errorf("simulation halted: %w", out.Err)
	}
	return nil
}

func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Trace Summary ===")
	fmt.Fprintf(w, "Decisions            : %d\n", s.TotalDecisions)
	fmt.Fprintf(w, "Admitted / Rejected  : %d / %d\n", s.AdmittedCount, s.RejectedCount)
	fmt.Fprintf(w, "Loads / Unloads      : %d / %d\n", s.Loads, s.Unloads)
	fmt.Fprintf(w, "Escalations          : %d\n", s.Escalations)
	fmt.Fprintf(w, "Discards             : %d\n", s.Discards)
	if s.Hops > 0 {
		fmt.Fprintf(w, "Traced Hops          : %d (%d ticks)\n", s.Hops, s.TotalTravel)
	}
	fmt.Fprintf(w, "Failures             : %d\n", s.Failures)
	fmt.Fprintf(w, "Mean / Max Wait      : %.2f / %d ticks\n", s.MeanWait, s.MaxWait)
	printStationCounts(w, "Pickups", s.Pickups)
	printStationCounts(w, "Drop-offs", s.Dropoffs)
}

func printStationCounts(w io.Writer, label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	stations := make([]string, 0, len(counts))
	for st := range counts {
		stations = append(stations, st)
	}
	sort.Strings(stations)
	parts := make([]string, 0, len(stations))
	for _, st := range stations {
		parts = append(parts, fmt.Sprintf("%s=%d", st, counts[st]))
	}
	fmt.Fprintf(w, "%-21s: %s\n", label, strings.Join(parts, " "))
}

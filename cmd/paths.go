package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robofactory/cartsim/sim"
)

// pathsCmd prints the shortest travel times of a scenario's layout
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the travel-time matrix and routes of a layout",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := resolveScenario(scenarioPath, presetName, nil)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		layout, err := spec.BuildLayout()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := writePaths(os.Stdout, layout); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// writePaths writes the all-pairs travel-time matrix of layout followed by
// the route taken between every ordered pair of distinct stations.
func writePaths(w io.Writer, layout *sim.Layout) error {
	stations := layout.Stations()

	fmt.Fprintf(w, "%6s", "")
	for _, to := range stations {
		fmt.Fprintf(w, " %6s", to)
	}
	fmt.Fprintln(w)
	for _, from := range stations {
		fmt.Fprintf(w, "%6s", from)
		for _, to := range stations {
			t, err := layout.TravelTime(from, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, " %6d", t)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	for _, from := range stations {
		for _, to := range stations {
			if from == to {
				continue
			}
			path, err := layout.Path(from, to)
			if err != nil {
				return err
			}
			hops := []string{string(from)}
			for _, s := range path {
				hops = append(hops, string(s))
			}
			fmt.Fprintf(w, "%s->%s: %s\n", from, to, strings.Join(hops, " "))
		}
	}
	return nil
}

package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Environment variables consulted when the matching flag is not set.
const (
	envLogLevel = "CARTSIM_LOG"
	envScenario = "CARTSIM_SCENARIO"
)

var (
	// CLI flags shared by run and paths
	scenarioPath string // Scenario YAML file
	presetName   string // Built-in scenario preset
	logLevel     string // Log verbosity level

	// CLI flags for run
	seed              int64  // Seed override for generated requests
	simulationHorizon int64  // Simulation horizon (in ticks), 0 = until the queue drains
	traceLevel        string // Decision trace level
	showPrometheus    bool   // Dump the Prometheus collector after the run
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cartsim",
	Short: "Discrete-event simulator for a factory transport cart",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		applyEnvDefaults(cmd)
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	},
	SilenceUsage: true,
}

// loadEnv reads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func loadEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("Ignoring .env: %v", err)
	}
}

// applyEnvDefaults fills flags the user did not pass from CARTSIM_* variables.
func applyEnvDefaults(cmd *cobra.Command) {
	if !cmd.Flags().Changed("log") {
		if v := os.Getenv(envLogLevel); v != "" {
			logLevel = v
		}
	}
	if !cmd.Flags().Changed("scenario") && !cmd.Flags().Changed("preset") {
		if v := os.Getenv(envScenario); v != "" {
			scenarioPath = v
		}
	}
}

// Execute runs the CLI root command
func Execute() {
	loadEnv()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&scenarioPath, "scenario", "", "Path to a scenario YAML file (env "+envScenario+")")
	rootCmd.PersistentFlags().StringVar(&presetName, "preset", "", "Built-in scenario: happy, rush, freight, line")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic) (env "+envLogLevel+")")

	runCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for generated requests (0 keeps the scenario seed)")
	runCmd.Flags().Int64Var(&simulationHorizon, "horizon", 0, "Simulation horizon in ticks (0 keeps the scenario horizon)")
	runCmd.Flags().StringVar(&traceLevel, "trace", "", "Decision trace level: none, decisions, moves")
	runCmd.Flags().BoolVar(&showPrometheus, "prometheus", false, "Print the Prometheus metrics gathered during the run")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pathsCmd)
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/epidemic-sim/epidemic-sim/sim"
	"github.com/epidemic-sim/epidemic-sim/sim/dataset"
	"github.com/epidemic-sim/epidemic-sim/sim/network"
	"github.com/epidemic-sim/epidemic-sim/sim/render"
	"github.com/epidemic-sim/epidemic-sim/sim/store"
	"github.com/epidemic-sim/epidemic-sim/sim/trace"
)

var (
	// CLI flags
	regionsPath        string  // Region topology file (JSON or YAML)
	scenarioPath       string  // Scenario YAML
	logLevel           string  // Log verbosity level
	stepSize           float64 // Integration step in days
	days               float64 // Simulated horizon in days
	workers            int     // Regions stepped in parallel
	densitySensitivity float64 // R0 scaling by relative density deviation
	traceLevel         string  // Decision trace verbosity
	chartDir           string  // Directory for PNG charts (empty = none)
	animationPath      string  // MJPEG AVI of infectious share per region (empty = none)
	dbPath             string  // SQLite database for run persistence (empty = none)
	runLabel           string  // Label stored with the run
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "epidemic-sim",
	Short: "Multi-region SEIRDS epidemic simulator",
}

// setupLogging applies the --log flag.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// prepare loads the region graph and scenario and resolves per-region parameters.
func prepare(cmd *cobra.Command) (*sim.RegionGraph, *sim.Scenario, []*sim.SimulationParameters, error) {
	if regionsPath == "" {
		return nil, nil, nil, fmt.Errorf("--regions is required")
	}
	g, err := dataset.LoadGraph(regionsPath)
	if err != nil {
		return nil, nil, nil, err
	}
	sc, err := loadScenario(scenarioPath)
	if err != nil {
		return nil, nil, nil, err
	}
	applyOverrides(sc, cmd.Flags().Changed)
	params, err := sc.Build(g)
	if err != nil {
		return nil, nil, nil, err
	}
	params, err = network.ScaleByDensity(g, params, sc.Simulation.DensitySensitivity)
	if err != nil {
		return nil, nil, nil, err
	}
	return g, sc, params, nil
}

// runCmd executes the simulation using the region file, scenario and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the epidemic simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		g, sc, params, err := prepare(cmd)
		if err != nil {
			logrus.Fatalf("Unable to prepare simulation: %v", err)
		}

		logrus.Infof("Starting simulation with %d regions, step=%v days, horizon=%v days, workers=%d",
			g.Len(), sc.Simulation.StepSize, sc.Simulation.Days, sc.Simulation.Workers)
		startTime := time.Now()

		s, err := network.NewSimulator(g, params, network.ConfigFromScenario(sc.Simulation))
		if err != nil {
			logrus.Fatalf("Unable to build simulator: %v", err)
		}
		if err := s.Run(); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		results := s.Results()

		network.CollectMetrics(results).Print(os.Stdout)
		if st := s.Trace(); st != nil {
			printTraceSummary(trace.Summarize(st))
		}

		if chartDir != "" {
			paths, err := render.WriteAll(chartDir, results, render.DefaultOptions())
			if err != nil {
				logrus.Fatalf("Unable to render charts: %v", err)
			}
			logrus.Infof("Wrote %d charts to %s", len(paths), chartDir)
		}

		if animationPath != "" {
			frames, err := render.WriteAnimation(animationPath, results, render.DefaultAnimationOptions())
			if err != nil {
				logrus.Fatalf("Unable to write animation: %v", err)
			}
			logrus.Infof("Wrote %d frames to %s", frames, animationPath)
		}

		if dbPath != "" {
			id, err := saveRun(context.Background(), dbPath, sc.Simulation, results)
			if err != nil {
				logrus.Fatalf("Unable to save run: %v", err)
			}
			logrus.Infof("Saved run %d to %s", id, dbPath)
		}

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// validateCmd checks the region file and scenario without running
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the region topology and scenario",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		g, _, params, err := prepare(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		mean, err := sim.MeanDensity(g)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		fmt.Printf("OK: %d regions, mean density %.1f/km², %d measure policies in first region\n",
			g.Len(), mean, len(params[0].Measures))
	},
}

// saveRun persists results into the SQLite database at path. The store is
// closed before returning.
func saveRun(ctx context.Context, path string, cfg sim.SimulationConfig, results []network.RegionResult) (int64, error) {
	rs, err := store.Open(ctx, path)
	if err != nil {
		return 0, err
	}
	id, err := rs.SaveRun(ctx, runLabel, cfg.StepSize, cfg.Days, results)
	if closeErr := rs.Close(); err == nil && closeErr != nil {
		return 0, closeErr
	}
	return id, err
}

func printTraceSummary(ts *trace.TraceSummary) {
	fmt.Println("=== Decision Trace ===")
	fmt.Printf("Measure transitions  : %d\n", ts.MeasureTransitions)
	for policy, n := range ts.Activations {
		fmt.Printf("  %-20s activated %d times, first on day %.1f\n", policy, n, ts.FirstActivationDay[policy])
	}
	fmt.Printf("Skipped transfers    : %d\n", ts.SkippedTransfers)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, validateCmd} {
		c.Flags().StringVar(&regionsPath, "regions", "", "Region topology file (JSON or YAML)")
		c.Flags().StringVar(&scenarioPath, "scenario", defaultsFilePath, "Scenario YAML file")
		c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().Float64Var(&stepSize, "step", 0.1, "Integration step size in days")
		c.Flags().Float64Var(&days, "days", 365, "Simulated horizon in days")
		c.Flags().IntVar(&workers, "workers", 1, "Regions stepped in parallel per time index")
		c.Flags().Float64Var(&densitySensitivity, "density-sensitivity", 0, "Scale R0 by relative density deviation (0 = off)")
		c.Flags().StringVar(&traceLevel, "trace-level", "none", "Decision trace level (none, decisions)")
	}

	runCmd.Flags().StringVar(&chartDir, "chart-dir", "", "Write one PNG chart per region into this directory")
	runCmd.Flags().StringVar(&animationPath, "animation", "", "Write an MJPEG AVI of the infectious share per region to this file")
	runCmd.Flags().StringVar(&dbPath, "db", "", "Persist the run into this SQLite database")
	runCmd.Flags().StringVar(&runLabel, "label", "run", "Label stored with the persisted run")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}

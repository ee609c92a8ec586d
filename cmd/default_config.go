package cmd

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/epidemic-sim/epidemic-sim/sim"
)

// defaultsFilePath is the scenario used when --scenario is not given.
var defaultsFilePath = "defaults.yaml"

// loadScenario reads the scenario at path, falling back to the built-in
// defaults when path is the default file and it does not exist.
func loadScenario(path string) (*sim.Scenario, error) {
	if path == defaultsFilePath {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			logrus.Warnf("%s not found, using built-in defaults", path)
			return sim.ParseScenario(nil)
		}
	}
	return sim.LoadScenario(path)
}

// applyOverrides lets explicitly set CLI flags win over scenario values.
// Callers pass only flags the user actually changed (cmd.Flags().Changed).
func applyOverrides(sc *sim.Scenario, changed func(string) bool) {
	if changed("step") {
		sc.Simulation.StepSize = stepSize
	}
	if changed("days") {
		sc.Simulation.Days = days
	}
	if changed("workers") {
		sc.Simulation.Workers = workers
	}
	if changed("density-sensitivity") {
		sc.Simulation.DensitySensitivity = densitySensitivity
	}
	if changed("trace-level") {
		sc.Simulation.TraceLevel = traceLevel
	}
}

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epidemic-sim/epidemic-sim/sim"
	"github.com/epidemic-sim/epidemic-sim/sim/dataset"
)

// repoFile resolves a file at the repository root from cmd/.
func repoFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("..", name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skipf("%s not found, skipping integration test", name)
	}
	return path
}

func TestDefaultsYAML_BuildsForNetherlands(t *testing.T) {
	// GIVEN the shipped scenario and the province dataset
	sc, err := sim.LoadScenario(repoFile(t, "defaults.yaml"))
	require.NoError(t, err)
	g, err := dataset.LoadGraph(repoFile(t, filepath.Join("testdata", "netherlands.json")))
	require.NoError(t, err)

	// WHEN parameters are built
	params, err := sc.Build(g)

	// THEN every province gets the four configured measures and the seeded
	// provinces carry their spreaders
	require.NoError(t, err)
	require.Len(t, params, g.Len())
	for _, p := range params {
		assert.Len(t, p.Measures, 4)
	}
	zh, ok := g.Index("Zuid-Holland")
	require.True(t, ok)
	assert.Equal(t, 20.0, params[zh].InitialSpreaders)
	gr, _ := g.Index("Groningen")
	assert.Equal(t, 0.0, params[gr].InitialSpreaders)
}

func TestLoadScenario_MissingDefaultFallsBackToBuiltIns(t *testing.T) {
	old := defaultsFilePath
	defaultsFilePath = filepath.Join(t.TempDir(), "defaults.yaml")
	t.Cleanup(func() { defaultsFilePath = old })

	sc, err := loadScenario(defaultsFilePath)

	require.NoError(t, err)
	assert.Equal(t, 0.1, sc.Simulation.StepSize)
	assert.Empty(t, sc.Measures)
}

func TestLoadScenario_MissingExplicitFileFails(t *testing.T) {
	_, err := loadScenario(filepath.Join(t.TempDir(), "custom.yaml"))
	assert.Error(t, err)
}

func TestApplyOverrides_OnlyChangedFlagsWin(t *testing.T) {
	// GIVEN scenario values and different flag values
	sc, err := sim.ParseScenario([]byte("simulation:\n  step_size: 0.5\n  days: 100\n  workers: 2\n"))
	require.NoError(t, err)
	oldStep, oldDays, oldWorkers := stepSize, days, workers
	t.Cleanup(func() { stepSize, days, workers = oldStep, oldDays, oldWorkers })
	stepSize, days, workers = 0.25, 30, 8

	// WHEN only --days was set by the user
	applyOverrides(sc, func(name string) bool { return name == "days" })

	// THEN days comes from the flag and everything else from the scenario
	assert.Equal(t, 30.0, sc.Simulation.Days)
	assert.Equal(t, 0.5, sc.Simulation.StepSize)
	assert.Equal(t, 2, sc.Simulation.Workers)
}

package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epidemic-sim/epidemic-sim/sim"
	"github.com/epidemic-sim/epidemic-sim/sim/network"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func testResult(name string) network.RegionResult {
	series := []sim.StateVector{
		{999, 0, 1, 0, 0, 1000, 0},
		{990, 6, 3, 1, 0, 1000, 0.3},
		{960, 20, 15, 5, 0.1, 999.9, 1.5},
		{900, 40, 45, 14, 0.4, 999.6, 4.5},
	}
	return network.RegionResult{
		Name:   name,
		Times:  sim.TimeGrid(len(series), 10),
		Series: series,
	}
}

func TestGenerateTicks(t *testing.T) {
	ticks := generateTicks(95, 30)

	require.Len(t, ticks, 4)
	assert.Equal(t, 0.0, ticks[0].Value)
	assert.Equal(t, "90", ticks[3].Label)
	assert.Empty(t, generateTicks(95, 0))
}

func TestChart_OneSeriesPerCompartment(t *testing.T) {
	opts := DefaultOptions()
	opts.Compartments = []int{sim.Infectious, sim.Hospitalized}

	c, err := Chart(testResult("Utrecht"), opts)

	require.NoError(t, err)
	assert.Equal(t, "Utrecht", c.Title)
	require.Len(t, c.Series, 2)
	assert.Equal(t, "infectious", c.Series[0].GetName())
	assert.Equal(t, "hospitalized", c.Series[1].GetName())
}

func TestChart_Errors(t *testing.T) {
	short := testResult("short")
	short.Series = short.Series[:1]
	short.Times = short.Times[:1]
	_, err := Chart(short, DefaultOptions())
	assert.Error(t, err)

	opts := DefaultOptions()
	opts.Compartments = []int{sim.NumCompartments}
	_, err = Chart(testResult("bad"), opts)
	assert.Error(t, err)
}

func TestRenderPNG_WritesPNG(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, RenderPNG(&buf, testResult("Zeeland"), DefaultOptions()))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")

	paths, err := WriteAll(dir, []network.RegionResult{testResult("Noord-Holland"), testResult("Zuid Holland")}, DefaultOptions())

	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "noord-holland.png"),
		filepath.Join(dir, "zuid_holland.png"),
	}, paths)
	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, pngMagic), p)
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "friesland.png", FileName("Friesland"))
	assert.Equal(t, "s-hertogenbosch_.png", FileName("s-Hertogenbosch?"))
	assert.Equal(t, "a_b.png", FileName("a/b"))
}

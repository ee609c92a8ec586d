package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epidemic-sim/epidemic-sim/sim"
)

func testdataPath(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regions.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadGraph_Netherlands(t *testing.T) {
	g, err := LoadGraph(testdataPath("netherlands.json"))
	require.NoError(t, err)

	assert.Equal(t, 12, g.Len())
	i, ok := g.Index("Zeeland")
	require.True(t, ok)
	r := g.Region(i)
	assert.Equal(t, 383488.0, r.Population)
	assert.Equal(t, 215.0, r.Density)

	var names []string
	for _, n := range g.Neighbors(i) {
		names = append(names, g.Region(n).Name)
	}
	assert.ElementsMatch(t, []string{"Zuid-Holland", "Noord-Brabant"}, names)
}

func TestLoadRegions_Pair(t *testing.T) {
	specs, err := LoadRegions(testdataPath("pair.json"))
	require.NoError(t, err)

	assert.Equal(t, []sim.RegionSpec{
		{Name: "A", Population: 1000, Density: 100, Neighbors: []string{"B"}},
		{Name: "B", Population: 1000, Density: 300, Neighbors: []string{"A"}},
	}, specs)
}

func TestParseRegions_YAML(t *testing.T) {
	specs, err := ParseRegions([]byte(`
- name: North
  population: 10
  density_per_square_km: 1
  connected_provinces: [South]
- name: South
  population: 20
`))
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "South", specs[1].Name)
	assert.Empty(t, specs[1].Neighbors)
}

func TestParseRegions_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown field", `[{"name": "A", "populaton": 10}]`},
		{"missing name", `[{"population": 10}]`},
		{"negative population", `[{"name": "A", "population": -1}]`},
		{"negative density", `[{"name": "A", "density_per_square_km": -3}]`},
		{"not a list", `{"name": "A"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRegions([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadGraph_UnknownNeighbor(t *testing.T) {
	path := writeTemp(t, `[{"name": "A", "connected_provinces": ["Atlantis"]}]`)

	g, err := LoadGraph(path)

	assert.ErrorIs(t, err, sim.ErrUnknownNeighbor)
	assert.Nil(t, g)
}

func TestLoadRegions_MissingFile(t *testing.T) {
	_, err := LoadRegions(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}

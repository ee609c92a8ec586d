// Package render draws region time series as PNG line charts.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/epidemic-sim/epidemic-sim/sim"
	"github.com/epidemic-sim/epidemic-sim/sim/network"
)

// compartmentColors assigns a stroke color to each plotted compartment.
var compartmentColors = map[int]drawing.Color{
	sim.Susceptible:  chart.ColorBlue,
	sim.Exposed:      drawing.Color{R: 255, G: 165, B: 0, A: 255},
	sim.Infectious:   chart.ColorRed,
	sim.Recovered:    chart.ColorGreen,
	sim.Dead:         chart.ColorBlack,
	sim.Hospitalized: drawing.Color{R: 128, G: 0, B: 128, A: 255},
}

// Options controls chart layout.
type Options struct {
	Width        int
	Height       int
	Compartments []int // indices into sim.StateVector; nil = S, E, I, R, D, H
	TickInterval float64
}

// DefaultOptions returns a 1024x512 chart of every disease compartment.
func DefaultOptions() Options {
	return Options{
		Width:        1024,
		Height:       512,
		Compartments: []int{sim.Susceptible, sim.Exposed, sim.Infectious, sim.Recovered, sim.Dead, sim.Hospitalized},
		TickInterval: 30,
	}
}

// generateTicks places a labeled tick every interval days up to xMax.
func generateTicks(xMax, interval float64) []chart.Tick {
	var ticks []chart.Tick
	if interval <= 0 {
		return ticks
	}
	for value := 0.0; value <= xMax; value += interval {
		ticks = append(ticks, chart.Tick{Value: value, Label: fmt.Sprintf("%.0f", value)})
	}
	return ticks
}

// Chart builds the chart for one region result.
func Chart(res network.RegionResult, opts Options) (*chart.Chart, error) {
	if len(res.Series) < 2 {
		return nil, fmt.Errorf("region %q: need at least 2 points to draw, got %d", res.Name, len(res.Series))
	}
	compartments := opts.Compartments
	if compartments == nil {
		compartments = DefaultOptions().Compartments
	}
	xMax := res.Times[len(res.Times)-1]

	series := make([]chart.Series, 0, len(compartments))
	for _, c := range compartments {
		if c < 0 || c >= sim.NumCompartments {
			return nil, fmt.Errorf("compartment index %d out of range", c)
		}
		ys := make([]float64, len(res.Series))
		for i, s := range res.Series {
			ys[i] = s[c]
		}
		series = append(series, chart.ContinuousSeries{
			Name:    sim.CompartmentNames[c],
			XValues: res.Times,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: compartmentColors[c],
				StrokeWidth: 2.0,
			},
		})
	}

	graph := &chart.Chart{
		Title:  res.Name,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "day",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			Ticks: generateTicks(xMax, opts.TickInterval),
		},
		YAxis: chart.YAxis{
			Name:  "people",
			Style: chart.Style{FontSize: 10.0},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

// RenderPNG writes one region's chart as PNG to w.
func RenderPNG(w io.Writer, res network.RegionResult, opts Options) error {
	graph, err := Chart(res, opts)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering %q: %w", res.Name, err)
	}
	return nil
}

// WriteAll renders every result into dir as <region>.png and returns the paths.
func WriteAll(dir string, results []network.RegionResult, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating chart directory: %w", err)
	}
	paths := make([]string, 0, len(results))
	for _, res := range results {
		path := filepath.Join(dir, FileName(res.Name))
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("creating chart file: %w", err)
		}
		err = RenderPNG(f, res, opts)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// FileName maps a region name to a safe PNG file name.
func FileName(region string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, region)
	return strings.ToLower(clean) + ".png"
}

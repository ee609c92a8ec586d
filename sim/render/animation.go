package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png" // frame decoding
	"math"

	"github.com/icza/mjpeg"
	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/epidemic-sim/epidemic-sim/sim"
	"github.com/epidemic-sim/epidemic-sim/sim/network"
)

// AnimationOptions controls the infectious-share animation.
type AnimationOptions struct {
	Width      int
	Height     int
	FPS        int
	FrameEvery float64 // days between frames
	Quality    int     // JPEG quality, 1-100
}

// DefaultAnimationOptions returns an 800x400 animation at 10 frames per
// second with one frame per simulated day.
func DefaultAnimationOptions() AnimationOptions {
	return AnimationOptions{Width: 800, Height: 400, FPS: 10, FrameEvery: 1, Quality: 90}
}

// infectiousShare returns I/P, or 0 for an empty region.
func infectiousShare(s sim.StateVector) float64 {
	if s[sim.Population] <= 0 {
		return 0
	}
	return s[sim.Infectious] / s[sim.Population]
}

// frameSteps returns the series indices to draw, always ending on the last step.
func frameSteps(times []float64, every float64) []int {
	stride := 1
	if len(times) > 1 && every > 0 {
		stride = max(1, int(math.Round(every/(times[1]-times[0]))))
	}
	var steps []int
	for i := 0; i < len(times); i += stride {
		steps = append(steps, i)
	}
	if last := len(times) - 1; steps[len(steps)-1] != last {
		steps = append(steps, last)
	}
	return steps
}

// Frame draws one bar per region showing its infectious share at series index step.
// yMax fixes the vertical axis so consecutive frames are comparable.
func Frame(results []network.RegionResult, step int, yMax float64, opts AnimationOptions) (*image.RGBA, error) {
	bars := make([]chart.Value, len(results))
	for i, r := range results {
		if step >= len(r.Series) {
			return nil, fmt.Errorf("region %q: step %d beyond %d points", r.Name, step, len(r.Series))
		}
		bars[i] = chart.Value{
			Label: r.Name,
			Value: infectiousShare(r.Series[step]),
			Style: chart.Style{
				FillColor:   compartmentColors[sim.Infectious],
				StrokeColor: compartmentColors[sim.Infectious],
			},
		}
	}
	barWidth := max(4, (opts.Width-80)/(2*len(results)))
	bc := chart.BarChart{
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   barWidth,
		BarSpacing: barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 30, Left: 10, Right: 10, Bottom: 10}},
		XAxis:      chart.Style{FontSize: 8.0, TextRotationDegrees: 45.0},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontSize: 8.0},
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax},
			ValueFormatter: chart.PercentValueFormatter,
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering frame %d: %w", step, err)
	}
	img, _, err := image.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decoding frame %d: %w", step, err)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(rgba, rgba.Bounds(), img, image.Point{}, draw.Src)

	addLabel(rgba, 10, 18, fmt.Sprintf("infectious share, day %.1f", results[0].Times[step]), color.Black)
	return rgba, nil
}

// addLabel draws a text label onto an image at the specified position.
func addLabel(img *image.RGBA, x, y int, label string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}

// WriteAnimation writes an MJPEG AVI with one frame every opts.FrameEvery
// days and returns the number of frames written. All results must share
// one time grid.
func WriteAnimation(path string, results []network.RegionResult, opts AnimationOptions) (int, error) {
	if len(results) == 0 {
		return 0, fmt.Errorf("no regions to animate")
	}
	n := len(results[0].Series)
	if n == 0 {
		return 0, fmt.Errorf("region %q has no points", results[0].Name)
	}
	yMax := 0.0
	for _, r := range results {
		if len(r.Series) != n {
			return 0, fmt.Errorf("region %q has %d points, expected %d", r.Name, len(r.Series), n)
		}
		for _, s := range r.Series {
			yMax = math.Max(yMax, infectiousShare(s))
		}
	}
	if yMax == 0 {
		yMax = 1
	}

	aw, err := mjpeg.New(path, int32(opts.Width), int32(opts.Height), int32(opts.FPS))
	if err != nil {
		return 0, fmt.Errorf("creating animation: %w", err)
	}
	frames := 0
	var buf bytes.Buffer
	for _, step := range frameSteps(results[0].Times, opts.FrameEvery) {
		img, err := Frame(results, step, yMax, opts)
		if err != nil {
			aw.Close()
			return frames, err
		}
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.Quality}); err != nil {
			aw.Close()
			return frames, fmt.Errorf("encoding frame %d: %w", step, err)
		}
		if err := aw.AddFrame(buf.Bytes()); err != nil {
			aw.Close()
			return frames, fmt.Errorf("adding frame %d: %w", step, err)
		}
		frames++
	}
	if err := aw.Close(); err != nil {
		return frames, fmt.Errorf("closing animation: %w", err)
	}
	return frames, nil
}

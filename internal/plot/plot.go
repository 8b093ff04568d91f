// Package plot renders per-round diagnostic scatter plots: the round's data
// in black, flagged outliers in red, and the fitted line dashed.
package plot

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/montanaflynn/stats"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/fencelab/iqrfence/core"
	"github.com/fencelab/iqrfence/schema"
)

// linePoints is the sample count of the rendered fit line.
const linePoints = 100

// PNGPlotter writes one PNG per detector invocation into a directory.
// It satisfies core.Plotter.
type PNGPlotter struct {
	Dir string
}

var _ core.Plotter = (*PNGPlotter)(nil) // Compile-time check

// NewPNGPlotter creates the output directory if needed and returns a plotter
// rooted there.
func NewPNGPlotter(dir string) (*PNGPlotter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create plot directory %q: %w", dir, err)
	}
	return &PNGPlotter{Dir: dir}, nil
}

// PlotRound renders the round's dataset once per orientation. The conventional
// orientation is written as roundN.png; the swapped orientation, when present,
// as roundN_swapped.png with the axes exchanged, mirroring the fit it shows.
func (p *PNGPlotter) PlotRound(round int, ds *schema.Dataset, results []core.DetectResult, _ []string) error {
	for _, res := range results {
		flagged, err := ds.Subset(res.OutlierIDs)
		if err != nil {
			return err
		}

		name := fmt.Sprintf("round%d.png", round)
		indep, dep := ds.Xs(), ds.Ys()
		outIndep, outDep := recordAxes(flagged)
		if res.Orientation == schema.OrientationYX {
			name = fmt.Sprintf("round%d_swapped.png", round)
			indep, dep = ds.Ys(), ds.Xs()
			outDep, outIndep = outIndep, outDep
		}

		if err := renderScatter(filepath.Join(p.Dir, name), indep, dep, outIndep, outDep, res.Fit); err != nil {
			return fmt.Errorf("plot %s: %w", name, err)
		}
	}
	return nil
}

// recordAxes splits records into parallel x/y slices.
func recordAxes(records []schema.Record) ([]float64, []float64) {
	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	for i, r := range records {
		xs[i] = r.X
		ys[i] = r.Y
	}
	return xs, ys
}

// renderScatter draws the data points, the dashed fit line spanning the
// independent-axis range, and the flagged points in red, then writes PNG.
func renderScatter(path string, indep, dep, outIndep, outDep []float64, fit schema.FitResult) error {
	lo, err := stats.Min(indep)
	if err != nil {
		return fmt.Errorf("axis range: %w", err)
	}
	hi, err := stats.Max(indep)
	if err != nil {
		return fmt.Errorf("axis range: %w", err)
	}

	lineXs := make([]float64, linePoints)
	lineYs := make([]float64, linePoints)
	step := (hi - lo) / float64(linePoints-1)
	for i := range lineXs {
		x := lo + float64(i)*step
		lineXs[i] = x
		lineYs[i] = fit.Predict(x)
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "data",
			XValues: indep,
			YValues: dep,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
				DotColor:    chart.ColorBlack,
			},
		},
		chart.ContinuousSeries{
			Name:    "fit",
			XValues: lineXs,
			YValues: lineYs,
			Style: chart.Style{
				StrokeColor:     chart.ColorBlack,
				StrokeWidth:     2,
				StrokeDashArray: []float64{6.0, 4.0},
			},
		},
	}
	// go-chart rejects empty series, so only add outliers when some exist
	if len(outIndep) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "outliers",
			XValues: outIndep,
			YValues: outDep,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
				DotColor:    chart.ColorRed,
			},
		})
	}

	graph := chart.Chart{
		Width:  640,
		Height: 480,
		XAxis:  chart.XAxis{Name: "Independent Variables"},
		YAxis:  chart.YAxis{Name: "Dependent Variables"},
		Series: series,
	}

	buffer := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return err
	}

	outFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = outFile.Close() }()
	if _, err := buffer.WriteTo(outFile); err != nil {
		return err
	}
	return nil
}

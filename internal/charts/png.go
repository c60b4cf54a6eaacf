package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ZanzyTHEbar/delivery-eta/internal/prediction"
)

var (
	pngWidth  = 6 * vg.Inch
	pngHeight = 4 * vg.Inch
)

// WriteSensitivityPNG draws the sweep as a line with its uncertainty band
// edges and writes a PNG image to w
func WriteSensitivityPNG(w io.Writer, set prediction.ScenarioSet) error {
	if len(set.Scenarios) == 0 {
		return errors.New("no scenarios to plot")
	}

	points := make(plotter.XYs, len(set.Scenarios))
	lower := make(plotter.XYs, len(set.Scenarios))
	upper := make(plotter.XYs, len(set.Scenarios))
	for i, sc := range set.Scenarios {
		points[i] = plotter.XY{X: sc.DistanceKm, Y: sc.Result.PointEstimate}
		lower[i] = plotter.XY{X: sc.DistanceKm, Y: sc.Result.LowerBound}
		upper[i] = plotter.XY{X: sc.DistanceKm, Y: sc.Result.UpperBound}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distance Sensitivity (impact %.1f min)", set.Impact)
	p.X.Label.Text = "Distance (km)"
	p.Y.Label.Text = "ETA (min)"

	line, marks, err := plotter.NewLinePoints(points)
	if err != nil {
		return fmt.Errorf("failed to build estimate line: %w", err)
	}
	line.Width = vg.Points(2)
	line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	marks.Color = line.Color

	bandColor := color.RGBA{R: 150, G: 150, B: 150, A: 255}
	lo, err := plotter.NewLine(lower)
	if err != nil {
		return fmt.Errorf("failed to build lower bound: %w", err)
	}
	lo.Color = bandColor
	lo.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	hi, err := plotter.NewLine(upper)
	if err != nil {
		return fmt.Errorf("failed to build upper bound: %w", err)
	}
	hi.Color = bandColor
	hi.Dashes = lo.Dashes

	p.Add(plotter.NewGrid(), lo, hi, line, marks)
	p.Legend.Add("estimate", line)
	p.Legend.Add("band", lo)
	p.Legend.Top = true

	wt, err := p.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return fmt.Errorf("failed to encode plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

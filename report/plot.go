package report

import (
	"fmt"
	"image/color"
	"math"

	log "github.com/sirupsen/logrus"
	"github.com/wiless/beamforming/antenna"
	"github.com/wiless/beamforming/simulation"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Display range of both plots, in dB.
const (
	MinDisplayDb = -40.0
	MaxDisplayDb = 0.0
)

var lineColors = []color.Color{
	color.RGBA{R: 70, G: 130, B: 180, A: 255},
	color.RGBA{R: 255, G: 105, B: 180, A: 255},
	color.RGBA{R: 60, G: 179, B: 113, A: 255},
}

func clip(v float64) float64 {
	return math.Min(math.Max(v, MinDisplayDb), MaxDisplayDb)
}

// PlotFiles returns the polar and cartesian file names used for base.
func PlotFiles(base string) (polar, cartesian string) {
	return base + "_polar.png", base + "_cartesian.png"
}

// WritePlots saves the polar and cartesian views of results as PNG files
// next to base.
func WritePlots(base string, results ...*simulation.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("report: no results to plot")
	}
	polarFile, cartFile := PlotFiles(base)

	polar, err := polarPlot(results)
	if err != nil {
		return err
	}
	if err := polar.Save(6*vg.Inch, 6*vg.Inch, polarFile); err != nil {
		return fmt.Errorf("report: %s: %w", polarFile, err)
	}
	cart, err := cartesianPlot(results)
	if err != nil {
		return err
	}
	if err := cart.Save(8*vg.Inch, 4*vg.Inch, cartFile); err != nil {
		return fmt.Errorf("report: %s: %w", cartFile, err)
	}
	log.WithFields(log.Fields{"polar": polarFile, "cartesian": cartFile}).Debug("plots written")
	return nil
}

func title(results []*simulation.Result) string {
	if len(results) == 1 {
		return results[0].Title
	}
	return "Beam patterns"
}

func cartesianPlot(results []*simulation.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title(results) + " - Cartesian Plot"
	p.X.Label.Text = "Angle (degrees)"
	p.Y.Label.Text = "Magnitude (dB)"
	p.X.Min, p.X.Max = -90, 90
	p.Y.Min, p.Y.Max = MinDisplayDb, MaxDisplayDb
	p.Add(plotter.NewGrid())

	for i, res := range results {
		points := make(plotter.XYs, len(res.Pattern))
		for j, v := range res.Pattern {
			points[j].X = res.Angles[j]
			points[j].Y = clip(v)
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return nil, err
		}
		line.Color = lineColors[i%len(lineColors)]
		line.Width = vg.Points(1)
		p.Add(line)
		if len(results) > 1 {
			p.Legend.Add(res.Technique.String(), line)
		}
	}
	return p, nil
}

// polarPlot draws the pattern with broadside pointing up and angles growing
// clockwise. The radius is the clipped level above MinDisplayDb.
func polarPlot(results []*simulation.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title(results) + " - Polar Plot"
	p.HideAxes()
	span := MaxDisplayDb - MinDisplayDb
	p.X.Min, p.X.Max = -span, span
	p.Y.Min, p.Y.Max = -span, span

	for level := 10.0; level <= span; level += 10 {
		ring := make(plotter.XYs, 361)
		for d := range ring {
			theta := antenna.Radian(float64(d))
			ring[d].X = level * math.Sin(theta)
			ring[d].Y = level * math.Cos(theta)
		}
		grid, err := plotter.NewLine(ring)
		if err != nil {
			return nil, err
		}
		grid.Color = color.Gray{Y: 200}
		grid.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		p.Add(grid)
	}

	for i, res := range results {
		points := make(plotter.XYs, len(res.Pattern))
		for j, v := range res.Pattern {
			r := clip(v) - MinDisplayDb
			theta := antenna.Radian(res.Angles[j])
			points[j].X = r * math.Sin(theta)
			points[j].Y = r * math.Cos(theta)
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return nil, err
		}
		line.Color = lineColors[i%len(lineColors)]
		line.Width = vg.Points(1)
		p.Add(line)
		if len(results) > 1 {
			p.Legend.Add(res.Technique.String(), line)
		}
	}
	return p, nil
}

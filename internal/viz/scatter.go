// Package viz renders per-fixation mean diameters as scatter charts: a
// static PNG via gonum/plot and an interactive HTML page via go-echarts.
// Fixations with an undefined mean have no y value and are left out of both
// renderings; callers surface the omission through the chart subtitle.
package viz

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/WeiFangping/pupil-tutorials/internal/gaze"
	"github.com/WeiFangping/pupil-tutorials/internal/units"
)

// ScatterPNG writes a fixation-id vs mean-diameter scatter to path.
func ScatterPNG(path string, summaries []gaze.FixationSummary, diameterUnits string) error {
	pts := make(plotter.XYs, 0, len(summaries))
	for _, s := range summaries {
		if v, ok := s.Mean(); ok {
			pts = append(pts, plotter.XY{X: float64(s.FixationID), Y: v})
		}
	}

	p := plot.New()
	p.Title.Text = "Mean pupil diameter by fixation"
	p.X.Label.Text = "fixation id"
	p.Y.Label.Text = units.Label(diameterUnits)

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.Radius = vg.Points(2)
	p.Add(scatter)
	p.Add(plotter.NewGrid())

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save scatter plot: %w", err)
	}
	return nil
}

// RenderScatterHTML writes the interactive echarts scatter page to w.
// The subtitle string typically carries the run counts so omitted
// undefined-mean fixations stay visible.
func RenderScatterHTML(w io.Writer, summaries []gaze.FixationSummary, diameterUnits, subtitle string) error {
	data := make([]opts.ScatterData, 0, len(summaries))
	for _, s := range summaries {
		if v, ok := s.Mean(); ok {
			data = append(data, opts.ScatterData{Value: []interface{}{s.FixationID, v, s.SampleCount}})
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Pupil Diameter by Fixation", Width: "1100px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Mean pupil diameter by fixation", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "fixation id", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: units.Label(diameterUnits), NameLocation: "middle", NameGap: 40}),
	)
	scatter.AddSeries("mean diameter", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render scatter chart: %w", err)
	}
	return nil
}

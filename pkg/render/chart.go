// Package render draws a monitor view as a line chart.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/ericogr/serial-flow-plot/pkg/config"
	"github.com/ericogr/serial-flow-plot/pkg/monitor"
	"github.com/ericogr/serial-flow-plot/pkg/stats"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type Chart struct {
	cfg config.ChartConfig
}

func NewChart(cfg config.ChartConfig) *Chart {
	return &Chart{cfg: cfg}
}

func (c *Chart) Size() (int, int) { return c.cfg.Width, c.cfg.Height }

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
	}
}

// Build returns the chart for view with fixed axis ranges. An empty view
// gets an invisible baseline so the axes still render.
func (c *Chart) Build(view monitor.View) chart.Chart {
	xs := make([]float64, len(view.Samples))
	ys := make([]float64, len(view.Samples))
	for i, s := range view.Samples {
		xs[i] = s.Elapsed
		ys[i] = s.Value
	}

	title := c.cfg.Title
	if sum, err := stats.Summarize(ys); err == nil {
		title = fmt.Sprintf("%s  (%s)", c.cfg.Title, sum)
	}

	ch := chart.Chart{
		Title:  title,
		Width:  c.cfg.Width,
		Height: c.cfg.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:           c.cfg.XLabel,
			Range:          &chart.ContinuousRange{Min: view.XMin, Max: view.XMax},
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.1f", v) },
		},
		YAxis: chart.YAxis{
			Name:  c.cfg.YLabel,
			Range: &chart.ContinuousRange{Min: view.YMin, Max: view.YMax},
		},
	}

	if len(xs) == 0 {
		ch.Series = []chart.Series{chart.ContinuousSeries{
			XValues: []float64{view.XMin, view.XMax},
			YValues: []float64{view.YMin, view.YMin},
			Style:   lineStyle(drawing.ColorTransparent),
		}}
		return ch
	}
	if len(xs) == 1 {
		// a single point still needs a segment to be visible
		xs = append(xs, xs[0])
		ys = append(ys, ys[0])
	}
	ch.Series = []chart.Series{chart.ContinuousSeries{
		Name:    c.cfg.SeriesLabel,
		XValues: xs,
		YValues: ys,
		Style:   lineStyle(chart.ColorRed),
	}}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// RenderPNG writes the chart for view as PNG.
func (c *Chart) RenderPNG(w io.Writer, view monitor.View) error {
	ch := c.Build(view)
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// Image rasterises the chart for view.
func (c *Chart) Image(view monitor.View) (image.Image, error) {
	var buf bytes.Buffer
	if err := c.RenderPNG(&buf, view); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return img, nil
}

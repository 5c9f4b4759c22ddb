package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"VolDash/internal/domain/models"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToRender is returned for a spec without any point.
var ErrNothingToRender = errors.New("chart has no points")

var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
}

// PNGRenderer draws chart specs as PNG images.
type PNGRenderer struct{}

func NewPNGRenderer() *PNGRenderer { return &PNGRenderer{} }

// PNG renders spec at the given pixel size.
func (r *PNGRenderer) PNG(spec *models.ChartSpec, width, height int) ([]byte, error) {
	if spec == nil || spec.Empty() {
		return nil, ErrNothingToRender
	}
	switch spec.Mode {
	case models.ModeGroupedBars:
		return renderBars(spec, width, height)
	default:
		return renderLines(spec, width, height)
	}
}

func renderLines(spec *models.ChartSpec, width, height int) ([]byte, error) {
	var xs, ys []float64
	series := make([]chart.Series, 0, len(spec.Series))
	for i, s := range spec.Series {
		if s.Len() == 0 {
			continue
		}
		x, y := s.X, s.Y
		// go-chart needs at least two values per series
		if len(x) == 1 {
			x = []float64{x[0], x[0]}
			y = []float64{y[0], y[0]}
		}
		col := palette[i%len(palette)]
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: x,
			YValues: y,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    4,
			},
		})
		xs = append(xs, x...)
		ys = append(ys, y...)
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: spec.XAxis.Label, Range: paddedRange(xs)},
		YAxis:      chart.YAxis{Name: spec.YAxis.Label, Range: paddedRange(ys)},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", spec.Title, err)
	}
	return buf.Bytes(), nil
}

// renderBars lays grouped bars out category by category, one bar per series.
func renderBars(spec *models.ChartSpec, width, height int) ([]byte, error) {
	var bars []chart.Value
	maxY := 0.0
	n := 0
	for _, s := range spec.Series {
		n = max(n, s.Len())
	}
	for c := 0; c < n; c++ {
		for i, s := range spec.Series {
			if c >= s.Len() {
				continue
			}
			label := s.Name
			if c < len(s.Categories) {
				label = s.Categories[c] + " " + s.Name
			}
			col := palette[i%len(palette)]
			bars = append(bars, chart.Value{
				Label: label,
				Value: s.Y[c],
				Style: chart.Style{FillColor: col, StrokeColor: col},
			})
			maxY = math.Max(maxY, s.Y[c])
		}
	}
	if maxY <= 0 {
		maxY = 1
	}

	slot := (width - 120) / max(len(bars), 1)
	bc := chart.BarChart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		BarWidth:   max(slot*3/5, 4),
		BarSpacing: max(slot*2/5, 2),
		YAxis: chart.YAxis{
			Name:  spec.YAxis.Label,
			Range: &chart.ContinuousRange{Min: 0, Max: maxY * 1.1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", spec.Title, err)
	}
	return buf.Bytes(), nil
}

// paddedRange returns an explicit axis range when all values coincide, which
// go-chart rejects as a zero-width domain. Otherwise the axis autoscales.
func paddedRange(vals []float64) chart.Range {
	if len(vals) == 0 {
		return nil
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if hi > lo {
		return nil
	}
	pad := math.Max(math.Abs(lo)*0.05, 0.05)
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

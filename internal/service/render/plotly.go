package render

import (
	"encoding/json"

	"VolDash/internal/domain/models"
)

// Figure is the subset of a Plotly figure the dashboard pages use.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one Plotly trace. X holds numbers or category labels.
type Trace struct {
	Type string      `json:"type"`
	Mode string      `json:"mode,omitempty"`
	Name string      `json:"name"`
	X    interface{} `json:"x"`
	Y    []float64   `json:"y"`
}

type Layout struct {
	Title   Title  `json:"title"`
	BarMode string `json:"barmode,omitempty"`
	XAxis   Axis   `json:"xaxis"`
	YAxis   Axis   `json:"yaxis"`
}

type Title struct {
	Text string `json:"text"`
}

type Axis struct {
	Title Title  `json:"title"`
	Type  string `json:"type,omitempty"`
}

// PlotlyFigure converts a chart spec into a Plotly figure. Line charts become
// scatter traces, grouped bar charts become bar traces with barmode "group".
func PlotlyFigure(spec *models.ChartSpec) Figure {
	fig := Figure{
		Data: make([]Trace, 0, len(spec.Series)),
		Layout: Layout{
			Title: Title{Text: spec.Title},
			XAxis: Axis{Title: Title{Text: spec.XAxis.Label}},
			YAxis: Axis{Title: Title{Text: spec.YAxis.Label}},
		},
	}
	if spec.XAxis.Kind == models.AxisCategory {
		fig.Layout.XAxis.Type = "category"
	}
	if spec.Mode == models.ModeGroupedBars {
		fig.Layout.BarMode = string(models.ModeGroupedBars)
	}

	for _, s := range spec.Series {
		tr := Trace{Name: s.Name, Y: nonNil(s.Y)}
		if spec.Mode == models.ModeGroupedBars {
			tr.Type = "bar"
		} else {
			tr.Type = "scatter"
			tr.Mode = string(spec.Mode)
		}
		if spec.XAxis.Kind == models.AxisCategory {
			cats := s.Categories
			if cats == nil {
				cats = []string{}
			}
			tr.X = cats
		} else {
			tr.X = nonNil(s.X)
		}
		fig.Data = append(fig.Data, tr)
	}
	return fig
}

// PlotlyJSON is PlotlyFigure encoded as JSON, ready to embed in a page.
func PlotlyJSON(spec *models.ChartSpec) ([]byte, error) {
	return json.Marshal(PlotlyFigure(spec))
}

func nonNil(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}

package models

// DisplayMode tells the plotting collaborator how to draw a chart.
type DisplayMode string

const (
	ModeLinesMarkers DisplayMode = "lines+markers"
	ModeGroupedBars  DisplayMode = "group"
)

// AxisKind distinguishes numeric x values from category labels.
type AxisKind string

const (
	AxisNumeric  AxisKind = "numeric"
	AxisCategory AxisKind = "category"
)

// Axis describes one chart axis.
type Axis struct {
	Kind  AxisKind `json:"kind"`
	Label string   `json:"label"`
}

// Series is one named trace. Exactly one of X or Categories is used,
// depending on the chart's x-axis kind; Y is parallel to it.
type Series struct {
	Name       string    `json:"name"`
	X          []float64 `json:"x,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Y          []float64 `json:"y"`
}

// Len returns the number of points in the series.
func (s Series) Len() int { return len(s.Y) }

// ChartSpec is a renderer-agnostic chart description.
type ChartSpec struct {
	Title  string      `json:"title"`
	Mode   DisplayMode `json:"mode"`
	XAxis  Axis        `json:"x_axis"`
	YAxis  Axis        `json:"y_axis"`
	Series []Series    `json:"series"`
}

// Empty reports whether no series carries any point.
func (c *ChartSpec) Empty() bool {
	for _, s := range c.Series {
		if s.Len() > 0 {
			return false
		}
	}
	return true
}

// ChartKind names the charts the dashboard can build.
type ChartKind string

const (
	ChartSmile ChartKind = "smile"
	ChartCrash ChartKind = "crash"
)

// DashboardView is everything the dashboard page needs for one selection.
type DashboardView struct {
	Selection Selection `json:"selection"`
	Domains   Domains   `json:"domains"`
	Smile     ChartSpec `json:"smile"`
	Crash     ChartSpec `json:"crash"`
	SmileRows int       `json:"smile_rows"`
	CrashRows int       `json:"crash_rows"`
}

package usecase

import (
	"errors"
	"sort"

	"VolDash/internal/domain/models"
)

const (
	SmileTitle      = "IV Smile"
	SmileSeriesName = "value"
	CrashTitle      = "Crash probabilities"
	CrashRNDSeries  = "RND"
	CrashMNDSeries  = "MND"
)

// ChartOption configures ChartBuilder.
type ChartOption func(*ChartBuilder)

// WithMoneynessSort makes BuildSmile order points by ascending moneyness
// instead of table order.
func WithMoneynessSort(enabled bool) ChartOption {
	return func(b *ChartBuilder) { b.sortSmile = enabled }
}

// ChartBuilder turns resolved rows into chart specifications. It either
// returns a complete spec or an error, never a partial spec.
type ChartBuilder struct {
	sortSmile bool
}

func NewChartBuilder(opts ...ChartOption) *ChartBuilder {
	b := &ChartBuilder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildSmile plots IV against moneyness, one point per row.
func (b *ChartBuilder) BuildSmile(rows []models.Record) (*models.ChartSpec, error) {
	type point struct{ x, y float64 }
	pts := make([]point, 0, len(rows))
	for i, r := range rows {
		x, err := r.Float(models.ColMoneyness)
		if err != nil {
			return nil, annotate(err, models.TableIV, i)
		}
		y, err := r.Float(models.ColIV)
		if err != nil {
			return nil, annotate(err, models.TableIV, i)
		}
		pts = append(pts, point{x, y})
	}
	if b.sortSmile {
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].x < pts[j].x })
	}

	s := models.Series{
		Name: SmileSeriesName,
		X:    make([]float64, len(pts)),
		Y:    make([]float64, len(pts)),
	}
	for i, p := range pts {
		s.X[i], s.Y[i] = p.x, p.y
	}
	return &models.ChartSpec{
		Title:  SmileTitle,
		Mode:   models.ModeLinesMarkers,
		XAxis:  models.Axis{Kind: models.AxisNumeric, Label: models.ColMoneyness},
		YAxis:  models.Axis{Kind: models.AxisNumeric, Label: models.ColIV},
		Series: []models.Series{s},
	}, nil
}

// BuildCrash plots both crash probabilities per model as grouped bars. Each
// row carries both values, so one row yields one category with two bars.
func (b *ChartBuilder) BuildCrash(rows []models.Record) (*models.ChartSpec, error) {
	cats := make([]string, len(rows))
	rnd := make([]float64, len(rows))
	mnd := make([]float64, len(rows))
	for i, r := range rows {
		m, err := r.Get(models.ColModello)
		if err != nil {
			return nil, annotate(err, models.TableCrash, i)
		}
		q, err := r.Float(models.ColPCrashQ)
		if err != nil {
			return nil, annotate(err, models.TableCrash, i)
		}
		p, err := r.Float(models.ColPCrashP)
		if err != nil {
			return nil, annotate(err, models.TableCrash, i)
		}
		cats[i], rnd[i], mnd[i] = m, q, p
	}
	return &models.ChartSpec{
		Title: CrashTitle,
		Mode:  models.ModeGroupedBars,
		XAxis: models.Axis{Kind: models.AxisCategory, Label: models.ColModello},
		YAxis: models.Axis{Kind: models.AxisNumeric, Label: "P(crash)"},
		Series: []models.Series{
			{Name: CrashRNDSeries, Categories: cats, Y: rnd},
			{Name: CrashMNDSeries, Categories: cats, Y: mnd},
		},
	}, nil
}

// annotate fills in the table and row position of a column error.
func annotate(err error, table models.TableName, row int) error {
	var mre *models.MalformedRowError
	if errors.As(err, &mre) {
		mre.Table, mre.Row = table, row
		return mre
	}
	var mce *models.MissingColumnError
	if errors.As(err, &mce) {
		mce.Table = table
		return mce
	}
	return err
}

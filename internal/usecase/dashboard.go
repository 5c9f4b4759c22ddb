package usecase

import (
	"context"
	"errors"
	"time"

	"VolDash/internal/domain/models"
	domrepo "VolDash/internal/domain/repository"
	"VolDash/internal/domain/service"
	"VolDash/pkg/cache"
	applogger "VolDash/pkg/logger"
)

// Dashboard ties the filter index, the resolver and the chart builder
// together for the presentation layer. It holds no per-request state.
type Dashboard struct {
	index    *FilterIndex
	resolver *SelectionResolver
	builder  *ChartBuilder

	cache    cache.Service
	cacheTTL time.Duration
	cacheGen string
	metrics  domrepo.Metrics
	l        *applogger.Logger
}

func NewDashboard(index *FilterIndex, resolver *SelectionResolver, builder *ChartBuilder) *Dashboard {
	return &Dashboard{
		index:    index,
		resolver: resolver,
		builder:  builder,
		l:        applogger.Nop(),
	}
}

// SetCache enables memoization of built charts.
func (d *Dashboard) SetCache(c cache.Service, ttl time.Duration) {
	d.cache = c
	d.cacheTTL = ttl
}

// SetCacheGeneration namespaces chart keys, normally with
// models.Tables.Fingerprint, so a shared cache never serves charts built
// from other table contents.
func (d *Dashboard) SetCacheGeneration(gen string) { d.cacheGen = gen }

// SetMetrics injects a metrics recorder.
func (d *Dashboard) SetMetrics(m domrepo.Metrics) { d.metrics = m }

// SetLogger injects a structured logger.
func (d *Dashboard) SetLogger(l *applogger.Logger) {
	if l != nil {
		d.l = l
	}
}

// Domains returns the tickers, the expiries of ticker and the dates of
// (ticker, expiry). Unknown values give empty domains.
func (d *Dashboard) Domains(ticker, expiry string) models.Domains {
	return models.Domains{
		Tickers:  d.index.Tickers(),
		Expiries: d.index.Expiries(ticker),
		Dates:    d.index.Dates(ticker, expiry),
	}
}

// DefaultSelection picks the first ticker, its first expiry and the first
// date of that pair. ok is false when any of those domains is empty.
func (d *Dashboard) DefaultSelection() (sel models.Selection, ok bool) {
	tickers := d.index.Tickers()
	if len(tickers) == 0 {
		return models.Selection{}, false
	}
	expiries := d.index.Expiries(tickers[0])
	if len(expiries) == 0 {
		return models.Selection{}, false
	}
	dates := d.index.Dates(tickers[0], expiries[0])
	if len(dates) == 0 {
		return models.Selection{}, false
	}
	return models.Selection{Ticker: tickers[0], Expiry: expiries[0], Data: dates[0]}, true
}

// cachedChart is the cache payload for one built chart.
type cachedChart struct {
	Spec models.ChartSpec `json:"spec"`
	Rows int              `json:"rows"`
}

// Smile builds the IV smile of sel.
func (d *Dashboard) Smile(ctx context.Context, sel models.Selection) (*models.ChartSpec, int, error) {
	return d.chart(ctx, models.ChartSmile, sel, d.resolver.ResolveSmile, d.builder.BuildSmile)
}

// Crash builds the crash probability bars of sel. sel.Expiry is ignored.
func (d *Dashboard) Crash(ctx context.Context, sel models.Selection) (*models.ChartSpec, int, error) {
	sel.Expiry = ""
	return d.chart(ctx, models.ChartCrash, sel, d.resolver.ResolveCrash, d.builder.BuildCrash)
}

// Chart dispatches on kind.
func (d *Dashboard) Chart(ctx context.Context, kind models.ChartKind, sel models.Selection) (*models.ChartSpec, int, error) {
	switch kind {
	case models.ChartSmile:
		return d.Smile(ctx, sel)
	case models.ChartCrash:
		return d.Crash(ctx, sel)
	default:
		return nil, 0, ErrUnknownChart
	}
}

// ErrUnknownChart is returned by Chart for an unsupported kind.
var ErrUnknownChart = errors.New("unknown chart kind")

// Build assembles the full dashboard for sel.
func (d *Dashboard) Build(ctx context.Context, sel models.Selection) (*models.DashboardView, error) {
	smile, smileRows, err := d.Smile(ctx, sel)
	if err != nil {
		return nil, err
	}
	crash, crashRows, err := d.Crash(ctx, sel)
	if err != nil {
		return nil, err
	}
	return &models.DashboardView{
		Selection: sel,
		Domains:   d.Domains(sel.Ticker, sel.Expiry),
		Smile:     *smile,
		Crash:     *crash,
		SmileRows: smileRows,
		CrashRows: crashRows,
	}, nil
}

// Rows returns up to limit rows of a table matching sel. limit <= 0 means
// no limit. The second return value is the total match count.
func (d *Dashboard) Rows(name models.TableName, sel models.Selection, limit int) (*models.Table, []models.Record, int, error) {
	t, rows, err := d.resolver.ResolveTable(name, sel)
	if err != nil {
		return nil, nil, 0, err
	}
	total := len(rows)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	d.recordRows(string(name), total)
	return t, rows, total, nil
}

// Sections collects the rows of every table matching sel, in table order,
// for export.
func (d *Dashboard) Sections(sel models.Selection) ([]service.SheetSection, error) {
	out := make([]service.SheetSection, 0, len(models.AllTables))
	for _, name := range models.AllTables {
		t, rows, _, err := d.Rows(name, sel, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, service.SheetSection{Table: name, Columns: t.Columns, Rows: rows})
	}
	return out, nil
}

func (d *Dashboard) chart(
	ctx context.Context,
	kind models.ChartKind,
	sel models.Selection,
	resolve func(models.Selection) []models.Record,
	build func([]models.Record) (*models.ChartSpec, error),
) (*models.ChartSpec, int, error) {
	key := d.chartCacheKey(kind, sel)
	if d.cache != nil {
		cc, err := cache.GetJSON[cachedChart](ctx, d.cache, key)
		switch {
		case err == nil:
			d.recordCache(kind, true)
			return &cc.Spec, cc.Rows, nil
		case errors.Is(err, cache.ErrCacheMiss):
			d.recordCache(kind, false)
		default:
			d.l.Warn("chart cache get error", applogger.String("key", key), applogger.Error(err))
		}
	}

	rows := resolve(sel)
	d.recordRows(string(kind), len(rows))

	spec, err := build(rows)
	if err != nil {
		d.recordBuild(kind, "error")
		d.l.Error("chart build failed",
			applogger.String("kind", string(kind)),
			applogger.String("ticker", sel.Ticker),
			applogger.String("expiry", sel.Expiry),
			applogger.String("data", sel.Data),
			applogger.Error(err),
		)
		return nil, 0, err
	}
	if len(rows) == 0 {
		d.recordBuild(kind, "empty")
	} else {
		d.recordBuild(kind, "ok")
	}

	if d.cache != nil {
		if err := cache.SetJSON(ctx, d.cache, key, cachedChart{Spec: *spec, Rows: len(rows)}, d.cacheTTL); err != nil {
			d.l.Warn("chart cache set error", applogger.String("key", key), applogger.Error(err))
		}
	}
	return spec, len(rows), nil
}

func (d *Dashboard) chartCacheKey(kind models.ChartKind, sel models.Selection) string {
	digest := cache.Digest(sel.Ticker, sel.Expiry, sel.Data)
	if d.cacheGen == "" {
		return cache.Key("chart", string(kind), digest)
	}
	return cache.Key("chart", d.cacheGen, string(kind), digest)
}

func (d *Dashboard) recordCache(kind models.ChartKind, hit bool) {
	if d.metrics != nil {
		d.metrics.RecordCacheResult(string(kind), hit)
	}
}

func (d *Dashboard) recordRows(kind string, n int) {
	if d.metrics != nil {
		d.metrics.RecordSelectionRows(kind, n)
	}
}

func (d *Dashboard) recordBuild(kind models.ChartKind, outcome string) {
	if d.metrics != nil {
		d.metrics.RecordChartBuild(string(kind), outcome)
		if outcome == "error" {
			d.metrics.RecordError("chart_" + string(kind))
		}
	}
}

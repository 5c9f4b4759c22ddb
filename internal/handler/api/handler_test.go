package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"VolDash/internal/domain/models"
	"VolDash/internal/service/export"
	"VolDash/internal/service/ratelimit"
	"VolDash/internal/service/render"
	"VolDash/internal/usecase"
	xhttp "VolDash/pkg/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testTables() *models.Tables {
	iv := &models.Table{
		Name:    models.TableIV,
		Columns: []string{"Ticker", "Expiry", "Data", "Moneyness", "IV"},
		Rows: []models.Record{
			{"Ticker": "SPX", "Expiry": "2024-03-15", "Data": "2024-01-02", "Moneyness": "0.9", "IV": "0.25"},
			{"Ticker": "SPX", "Expiry": "2024-03-15", "Data": "2024-01-02", "Moneyness": "1.0", "IV": "0.22"},
			{"Ticker": "SPX", "Expiry": "2024-06-21", "Data": "2024-01-02", "Moneyness": "1.0", "IV": "0.20"},
			{"Ticker": "SPX", "Expiry": "2024-06-21", "Data": "2024-01-05", "Moneyness": "1.0", "IV": "bad"},
		},
	}
	crash := &models.Table{
		Name:    models.TableCrash,
		Columns: []string{"Ticker", "Data", "Modello", "P_crash_Q (RND)", "P_crash_P (MND)"},
		Rows: []models.Record{
			{"Ticker": "SPX", "Data": "2024-01-02", "Modello": "BS", "P_crash_Q (RND)": "0.1", "P_crash_P (MND)": "0.12"},
			{"Ticker": "SPX", "Data": "2024-01-02", "Modello": "Heston", "P_crash_Q (RND)": "0.15", "P_crash_P (MND)": "0.18"},
		},
	}
	return models.NewTables(iv, crash)
}

func newTestServer(t *testing.T, tables *models.Tables, limiter *ratelimit.Limiter) *xhttp.Server {
	t.Helper()
	dash := usecase.NewDashboard(
		usecase.NewFilterIndex(tables),
		usecase.NewSelectionResolver(tables),
		usecase.NewChartBuilder(),
	)
	tpl, err := NewTemplates()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	return xhttp.NewServer(
		xhttp.Handlers{
			NewPagesHandler(nil, dash),
			NewDashboardEchoHandler(nil, dash, render.NewPNGRenderer(), export.NewXLSXExporter(), limiter),
		},
		xhttp.WithMetrics("", reg, reg),
		xhttp.WithRenderer(tpl),
	)
}

func get(s *xhttp.Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestDomains(t *testing.T) {
	s := newTestServer(t, testTables(), nil)

	rec := get(s, "/api/domains?ticker=SPX&expiry=2024-06-21")
	require.Equal(t, http.StatusOK, rec.Code)

	var dom models.Domains
	decodeEnvelope(t, rec, &dom)
	assert.Equal(t, []string{"SPX"}, dom.Tickers)
	assert.Equal(t, []string{"2024-03-15", "2024-06-21"}, dom.Expiries)
	assert.Equal(t, []string{"2024-01-02", "2024-01-05"}, dom.Dates)

	rec = get(s, "/api/domains?ticker=QQQ")
	decodeEnvelope(t, rec, &dom)
	assert.Empty(t, dom.Expiries)
	assert.Empty(t, dom.Dates)
}

func TestDefaultSelection(t *testing.T) {
	rec := get(newTestServer(t, testTables(), nil), "/api/selection/default")
	require.Equal(t, http.StatusOK, rec.Code)

	var sel models.Selection
	decodeEnvelope(t, rec, &sel)
	assert.Equal(t, models.Selection{Ticker: "SPX", Expiry: "2024-03-15", Data: "2024-01-02"}, sel)

	rec = get(newTestServer(t, models.NewTables(), nil), "/api/selection/default")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSmile(t *testing.T) {
	s := newTestServer(t, testTables(), nil)

	rec := get(s, "/api/charts/smile?ticker=SPX&expiry=2024-03-15&data=2024-01-02")
	require.Equal(t, http.StatusOK, rec.Code)
	var spec models.ChartSpec
	decodeEnvelope(t, rec, &spec)
	require.Len(t, spec.Series, 1)
	assert.Equal(t, []float64{0.9, 1.0}, spec.Series[0].X)
	assert.Equal(t, []float64{0.25, 0.22}, spec.Series[0].Y)

	t.Run("missing expiry", func(t *testing.T) {
		rec := get(s, "/api/charts/smile?ticker=SPX&data=2024-01-02")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var errs []xhttp.ValidationError
		decodeEnvelope(t, rec, &errs)
		require.Len(t, errs, 1)
		assert.Equal(t, "expiry", errs[0].Field)
		assert.Equal(t, "ERR_REQUIRED", errs[0].Code)
	})

	t.Run("empty selection", func(t *testing.T) {
		rec := get(s, "/api/charts/smile?ticker=SPX&expiry=2024-03-15&data=1999-01-01")
		require.Equal(t, http.StatusOK, rec.Code)
		var spec models.ChartSpec
		decodeEnvelope(t, rec, &spec)
		assert.True(t, spec.Empty())
	})

	t.Run("malformed cell", func(t *testing.T) {
		rec := get(s, "/api/charts/smile?ticker=SPX&expiry=2024-06-21&data=2024-01-05")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		var errs []xhttp.AppError
		decodeEnvelope(t, rec, &errs)
		require.Len(t, errs, 1)
		assert.Equal(t, "ERR_MALFORMED_ROW", errs[0].Code)
		assert.Equal(t, "IV", errs[0].Field)
		assert.Equal(t, "bad", errs[0].Params["value"])
	})
}

func TestNonFiniteCells(t *testing.T) {
	tables := models.NewTables(
		&models.Table{
			Name:    models.TableIV,
			Columns: []string{"Ticker", "Expiry", "Data", "Moneyness", "IV"},
			Rows: []models.Record{
				{"Ticker": "SPX", "Expiry": "2024-03-15", "Data": "2024-01-02", "Moneyness": "0.9", "IV": "NaN"},
				{"Ticker": "SPX", "Expiry": "2024-03-15", "Data": "2024-01-02", "Moneyness": "Inf", "IV": "0.2"},
			},
		},
		&models.Table{
			Name:    models.TableCrash,
			Columns: []string{"Ticker", "Data", "Modello", "P_crash_Q", "P_crash_P"},
			Rows: []models.Record{
				{"Ticker": "SPX", "Data": "2024-01-02", "Modello": "BS", "P_crash_Q": "0.1", "P_crash_P": "-Inf"},
			},
		},
	)
	s := newTestServer(t, tables, nil)

	for _, target := range []string{
		"/api/charts/smile?ticker=SPX&expiry=2024-03-15&data=2024-01-02",
		"/api/charts/crash?ticker=SPX&data=2024-01-02",
	} {
		rec := get(s, target)
		require.Equal(t, http.StatusInternalServerError, rec.Code, target)
		var errs []xhttp.AppError
		env := decodeEnvelope(t, rec, &errs)
		assert.Equal(t, http.StatusInternalServerError, env.Status)
		require.Len(t, errs, 1)
		assert.Equal(t, "ERR_MALFORMED_ROW", errs[0].Code)
	}

	rec := get(s, "/dashboard?ticker=SPX&expiry=2024-03-15&data=2024-01-02")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot parse")
}

func TestCrash(t *testing.T) {
	rec := get(newTestServer(t, testTables(), nil), "/api/charts/crash?ticker=SPX&data=2024-01-02&expiry=ignored")
	require.Equal(t, http.StatusOK, rec.Code)

	var spec models.ChartSpec
	decodeEnvelope(t, rec, &spec)
	require.Len(t, spec.Series, 2)
	assert.Equal(t, "RND", spec.Series[0].Name)
	assert.Equal(t, []string{"BS", "Heston"}, spec.Series[0].Categories)
	assert.Equal(t, []float64{0.12, 0.18}, spec.Series[1].Y)
}

func TestRows(t *testing.T) {
	s := newTestServer(t, testTables(), nil)

	rec := get(s, "/api/tables/iv/rows?ticker=SPX&limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Rows  []models.Record `json:"rows"`
		Total int             `json:"total"`
	}
	decodeEnvelope(t, rec, &list)
	assert.Equal(t, 4, list.Total)
	assert.Len(t, list.Rows, 2)

	rec = get(s, "/api/tables/fx/rows")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(s, "/api/tables/iv/rows?limit=0")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(s, "/api/tables/iv/rows?limit=-5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPNG(t *testing.T) {
	s := newTestServer(t, testTables(), nil)

	rec := get(s, "/api/charts/smile/png?ticker=SPX&expiry=2024-03-15&data=2024-01-02&w=400&h=300")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = get(s, "/api/charts/crash/png?ticker=SPX&data=2024-01-02")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(s, "/api/charts/smile/png?ticker=SPX&data=2024-01-02")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(s, "/api/charts/surface/png?ticker=SPX&data=2024-01-02")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(s, "/api/charts/crash/png?ticker=SPX&data=1999-01-01")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExport(t *testing.T) {
	s := newTestServer(t, testTables(), nil)

	rec := get(s, "/api/export.xlsx?ticker=SPX&expiry=2024-03-15&data=2024-01-02")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename*=UTF-8''voldash_SPX_2024-01-02.xlsx", rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"iv", "crash", "rnd", "mnd", "opt"}, f.GetSheetList())

	rows, err := f.GetRows("iv")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	rows, err = f.GetRows("crash")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rec = get(s, "/api/export.xlsx?ticker=SPX")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, testTables(), ratelimit.New(1, 0.001))

	target := "/api/export.xlsx?ticker=SPX&data=2024-01-02"
	assert.Equal(t, http.StatusOK, get(s, target).Code)

	rec := get(s, target)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	var errs []xhttp.AppError
	decodeEnvelope(t, rec, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_RATE_LIMITED", errs[0].Code)

	// JSON routes are not limited
	assert.Equal(t, http.StatusOK, get(s, "/api/domains").Code)
}

func TestPages(t *testing.T) {
	s := newTestServer(t, testTables(), nil)

	rec := get(s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Dashboard Tesi – IV / RND / MND</title>")
	assert.Contains(t, rec.Body.String(), `<option value="SPX" selected>SPX</option>`)

	rec = get(s, "/ppt")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard?data=2024-01-02&expiry=2024-03-15&ticker=SPX", rec.Header().Get("Location"))

	rec = get(s, "/dashboard?ticker=SPX&expiry=2024-03-15&data=2024-01-02")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Dashboard – SPX</title>")
	assert.Contains(t, body, `Plotly.newPlot("smile"`)
	assert.Contains(t, body, `"barmode":"group"`)
	assert.NotContains(t, body, "No IV rows")

	rec = get(s, "/dashboard?ticker=SPX")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "expiry is required")
}

func TestPagesWithoutData(t *testing.T) {
	s := newTestServer(t, models.NewTables(), nil)

	rec := get(s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data")

	rec = get(s, "/ppt")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

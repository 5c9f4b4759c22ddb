package api

import (
	"html/template"
	"net/http"
	"net/url"

	"VolDash/internal/domain/models"
	"VolDash/internal/service/render"
	"VolDash/internal/usecase"
	xhttp "VolDash/pkg/http"
	xlogger "VolDash/pkg/logger"

	"github.com/labstack/echo/v4"
)

const indexTitle = "Dashboard Tesi – IV / RND / MND"

// pageData feeds the HTML templates.
type pageData struct {
	Title     string
	Domains   models.Domains
	Selection models.Selection
	NoData    bool

	SmileFigure template.JS
	CrashFigure template.JS
	SmileRows   int
	CrashRows   int

	Status  int
	Message string
}

// PagesHandler serves the HTML dashboard. It needs a renderer built by
// NewTemplates installed on the Echo instance.
type PagesHandler struct {
	logger *xlogger.Logger
	dash   *usecase.Dashboard
}

func NewPagesHandler(logger *xlogger.Logger, dash *usecase.Dashboard) *PagesHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &PagesHandler{logger: logger, dash: dash}
}

func (h *PagesHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/ppt", h.Presentation)
	e.GET("/dashboard", h.Dashboard)
}

// Index shows the selection widgets preset to the default selection.
func (h *PagesHandler) Index(c echo.Context) error {
	sel, ok := h.dash.DefaultSelection()
	if !ok {
		return c.Render(http.StatusOK, "index.html", pageData{Title: indexTitle, NoData: true})
	}
	return c.Render(http.StatusOK, "index.html", pageData{
		Title:     indexTitle,
		Domains:   h.dash.Domains(sel.Ticker, sel.Expiry),
		Selection: sel,
	})
}

// Presentation redirects to the dashboard of the default selection.
func (h *PagesHandler) Presentation(c echo.Context) error {
	sel, ok := h.dash.DefaultSelection()
	if !ok {
		return h.errorPage(c, noDataError())
	}
	q := url.Values{}
	q.Set("ticker", sel.Ticker)
	q.Set("expiry", sel.Expiry)
	q.Set("data", sel.Data)
	return c.Redirect(http.StatusFound, "/dashboard?"+q.Encode())
}

// Dashboard renders both charts for the requested selection.
func (h *PagesHandler) Dashboard(c echo.Context) error {
	req := &models.SmileRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); len(verr) > 0 {
		return h.errorPage(c, xhttp.BadRequestError(verr[0].Message))
	}

	view, err := h.dash.Build(c.Request().Context(), req.Selection())
	if err != nil {
		appErr := toAppError(err)
		h.logger.Error("dashboard build error", xlogger.Error(err))
		return h.errorPage(c, appErr)
	}
	smile, err := render.PlotlyJSON(&view.Smile)
	if err != nil {
		return h.errorPage(c, toAppError(err))
	}
	crash, err := render.PlotlyJSON(&view.Crash)
	if err != nil {
		return h.errorPage(c, toAppError(err))
	}

	return c.Render(http.StatusOK, "dashboard.html", pageData{
		Title:       "Dashboard – " + view.Selection.Ticker,
		Domains:     view.Domains,
		Selection:   view.Selection,
		SmileFigure: template.JS(smile),
		CrashFigure: template.JS(crash),
		SmileRows:   view.SmileRows,
		CrashRows:   view.CrashRows,
	})
}

func (h *PagesHandler) errorPage(c echo.Context, appErr *xhttp.AppError) error {
	return c.Render(appErr.Status, "error.html", pageData{
		Title:   http.StatusText(appErr.Status),
		Status:  appErr.Status,
		Message: appErr.Message,
	})
}

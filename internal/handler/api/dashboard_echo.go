package api

import (
	"fmt"
	"net/http"
	"net/url"

	"VolDash/internal/domain/models"
	"VolDash/internal/domain/service"
	"VolDash/internal/service/ratelimit"
	"VolDash/internal/usecase"
	xhttp "VolDash/pkg/http"
	xlogger "VolDash/pkg/logger"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DashboardEchoHandler serves the JSON, image and export API.
type DashboardEchoHandler struct {
	logger   *xlogger.Logger
	dash     *usecase.Dashboard
	renderer service.ImageRenderer
	exporter service.Exporter
	limiter  *ratelimit.Limiter
}

func NewDashboardEchoHandler(
	logger *xlogger.Logger,
	dash *usecase.Dashboard,
	renderer service.ImageRenderer,
	exporter service.Exporter,
	limiter *ratelimit.Limiter,
) *DashboardEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &DashboardEchoHandler{
		logger:   logger,
		dash:     dash,
		renderer: renderer,
		exporter: exporter,
		limiter:  limiter,
	}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/domains", h.Domains)
	g.GET("/selection/default", h.DefaultSelection)
	g.GET("/charts/smile", h.Smile)
	g.GET("/charts/crash", h.Crash)
	g.GET("/charts/:kind/png", h.PNG, rateLimited(h.limiter))
	g.GET("/tables/:name/rows", h.Rows)
	g.GET("/export.xlsx", h.Export, rateLimited(h.limiter))
}

func (h *DashboardEchoHandler) Domains(c echo.Context) error {
	req := &models.DomainsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.dash.Domains(req.Ticker, req.Expiry))
}

func (h *DashboardEchoHandler) DefaultSelection(c echo.Context) error {
	sel, ok := h.dash.DefaultSelection()
	if !ok {
		return xhttp.AppErrorResponse(c, noDataError())
	}
	return xhttp.SuccessResponse(c, sel)
}

func (h *DashboardEchoHandler) Smile(c echo.Context) error {
	req := &models.SmileRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	spec, _, err := h.dash.Smile(c.Request().Context(), req.Selection())
	if err != nil {
		return h.fail(c, "smile usecase error", err)
	}
	return xhttp.SuccessResponse(c, spec)
}

func (h *DashboardEchoHandler) Crash(c echo.Context) error {
	req := &models.CrashRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	spec, _, err := h.dash.Crash(c.Request().Context(), req.Selection())
	if err != nil {
		return h.fail(c, "crash usecase error", err)
	}
	return xhttp.SuccessResponse(c, spec)
}

func (h *DashboardEchoHandler) PNG(c echo.Context) error {
	req := &models.PNGRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	kind := models.ChartKind(req.Kind)
	if kind == models.ChartSmile && req.Expiry == "" {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_REQUIRED",
			Field:   "expiry",
			Message: "expiry is required",
		}})
	}

	spec, _, err := h.dash.Chart(c.Request().Context(), kind, req.Selection())
	if err != nil {
		return h.fail(c, "chart usecase error", err)
	}
	img, err := h.renderer.PNG(spec, req.Width, req.Height)
	if err != nil {
		return h.fail(c, "chart render error", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return c.Blob(http.StatusOK, "image/png", img)
}

func (h *DashboardEchoHandler) Rows(c echo.Context) error {
	req := &models.RowsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	name, err := models.ParseTableName(req.Table)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	_, rows, total, err := h.dash.Rows(name, req.Selection(), req.Limit)
	if err != nil {
		return h.fail(c, "rows usecase error", err)
	}
	return xhttp.ListResponse(c, rows, int64(total))
}

func (h *DashboardEchoHandler) Export(c echo.Context) error {
	req := &models.ExportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	sections, err := h.dash.Sections(req.Selection())
	if err != nil {
		return h.fail(c, "export usecase error", err)
	}
	book, err := h.exporter.Workbook(sections)
	if err != nil {
		return h.fail(c, "export workbook error", err)
	}

	filename := fmt.Sprintf("voldash_%s_%s.xlsx", req.Ticker, req.Data)
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
	return c.Blob(http.StatusOK, xlsxContentType, book)
}

// fail logs err and writes its mapped error response.
func (h *DashboardEchoHandler) fail(c echo.Context, msg string, err error) error {
	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(msg, xlogger.String("route", c.Path()), xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

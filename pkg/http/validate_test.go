package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listRequest struct {
	Name   string `param:"name" validate:"required"`
	Ticker string `query:"ticker" validate:"required"`
	Kind   string `query:"kind" default:"smile" validate:"oneof=smile crash"`
	Limit  int    `query:"limit" default:"50" validate:"gte=1,lte=100"`
}

func newContext(target string, params ...string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if len(params) > 0 {
		c.SetParamNames("name")
		c.SetParamValues(params...)
	}
	return c
}

func TestReadAndValidateRequest(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		req := &listRequest{}
		verr := ReadAndValidateRequest(newContext("/x?ticker=NDX", "iv"), req)
		require.Nil(t, verr)
		assert.Equal(t, "iv", req.Name)
		assert.Equal(t, "NDX", req.Ticker)
		assert.Equal(t, "smile", req.Kind)
		assert.Equal(t, 50, req.Limit)
	})

	t.Run("required field", func(t *testing.T) {
		errs := ReadAndValidateRequest(newContext("/x", "iv"), &listRequest{})
		require.Len(t, errs, 1)
		assert.Equal(t, "ERR_REQUIRED", errs[0].Code)
		assert.Equal(t, "ticker", errs[0].Field)
		assert.Equal(t, "ticker is required", errs[0].Message)
	})

	t.Run("oneof and range", func(t *testing.T) {
		errs := ReadAndValidateRequest(newContext("/x?ticker=NDX&kind=bars&limit=500", "iv"), &listRequest{})
		require.Len(t, errs, 2)

		assert.Equal(t, "ERR_ONEOF", errs[0].Code)
		assert.Equal(t, "kind must be one of: smile, crash", errs[0].Message)
		assert.Equal(t, []string{"smile", "crash"}, errs[0].Params["options"])

		assert.Equal(t, "ERR_LTE", errs[1].Code)
		assert.Equal(t, "limit", errs[1].Field)
		assert.Equal(t, "100", errs[1].Params["max"])
	})

	t.Run("bind error", func(t *testing.T) {
		errs := ReadAndValidateRequest(newContext("/x?ticker=NDX&limit=many", "iv"), &listRequest{})
		require.Len(t, errs, 1)
		assert.Equal(t, "ERR_BIND", errs[0].Code)
	})
}

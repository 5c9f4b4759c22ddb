package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAppErrorResponse(t *testing.T) {
	e := echo.New()

	t.Run("app error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		err := NotFoundErrorf("table %q not found", "fx").WithParam("table", "fx")
		require.NoError(t, AppErrorResponse(c, err))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decode(t, rec)
		assert.EqualValues(t, 404, body["status"])
		assert.Equal(t, "Not Found", body["message"])
		data := body["data"].([]interface{})
		require.Len(t, data, 1)
		first := data[0].(map[string]interface{})
		assert.Equal(t, "ERR_NOT_FOUND", first["code"])
		assert.Equal(t, `table "fx" not found`, first["message"])
		assert.Equal(t, "fx", first["params"].(map[string]interface{})["table"])
	})

	t.Run("plain error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		require.NoError(t, AppErrorResponse(c, errors.New("boom")))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Something went wrong", decode(t, rec)["data"])
	})
}

func TestListResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, ListResponse(c, []string{"a", "b"}, 7))

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]interface{})
	assert.EqualValues(t, 7, data["total"])
	assert.Len(t, data["rows"], 2)
}

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("disk")
	err := InternalError("Something went wrong").WithError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Something went wrong: disk", err.Error())
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, http.StatusTooManyRequests, TooManyRequestsError("slow down").Status)
	assert.Equal(t, "ERR_MALFORMED_ROW", DataError("ERR_MALFORMED_ROW", "IV", "bad").Code)
}

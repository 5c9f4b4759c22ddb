package api

import (
	"errors"

	"VolDash/internal/domain/models"
	"VolDash/internal/service/render"
	"VolDash/internal/usecase"
	xhttp "VolDash/pkg/http"
)

// toAppError maps domain errors onto transport errors. Anything unknown is
// reported as an internal error without leaking its text.
func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var mre *models.MalformedRowError
	if errors.As(err, &mre) {
		return xhttp.DataError("ERR_MALFORMED_ROW", mre.Column, mre.Error()).
			WithParam("table", string(mre.Table)).
			WithParam("row", mre.Row).
			WithParam("value", mre.Value).
			WithError(err)
	}
	var mce *models.MissingColumnError
	if errors.As(err, &mce) {
		return xhttp.DataError("ERR_MISSING_COLUMN", mce.Column, mce.Error()).
			WithParam("table", string(mce.Table)).
			WithError(err)
	}

	switch {
	case errors.Is(err, models.ErrUnknownTable):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, usecase.ErrUnknownChart):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, render.ErrNothingToRender):
		return xhttp.NotFoundError("no data for selection").WithError(err)
	}
	return xhttp.InternalError("Something went wrong").WithError(err)
}

func noDataError() *xhttp.AppError {
	return xhttp.NotFoundError("no data")
}

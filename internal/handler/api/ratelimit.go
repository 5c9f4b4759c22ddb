package api

import (
	"VolDash/internal/service/ratelimit"
	xhttp "VolDash/pkg/http"

	"github.com/labstack/echo/v4"
)

// rateLimited rejects requests once the caller's bucket is empty. Callers are
// keyed by route and client address.
func rateLimited(l *ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if l == nil || l.Allow(c.Path()+"|"+c.RealIP()) {
				return next(c)
			}
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limit exceeded"))
		}
	}
}

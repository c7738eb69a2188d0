// Package middleware provides reusable HTTP middleware: request tracing,
// bearer-token authentication, role enforcement and rate limiting.
package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-admin/internal/trace"
)

// RequestTrace assigns every request its correlation id. The inbound
// X-Request-Id header is reused when present and non-blank, otherwise a fresh
// id is generated. The id is stored on the request context (never globally)
// and mirrored on the response header before the handler runs, so even
// responses written mid-failure carry it.
func RequestTrace() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(trace.HeaderRequestID))
			if id == "" {
				id = trace.NewID()
			}
			req := c.Request()
			c.SetRequest(req.WithContext(trace.With(req.Context(), id)))
			c.Response().Header().Set(trace.HeaderRequestID, id)
			return next(c)
		}
	}
}

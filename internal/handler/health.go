package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-admin/internal/apperr"
	"github.com/iliyamo/hr-admin/internal/response"
)

// Health reports liveness inside the standard envelope so load balancers and
// humans read the same shape everywhere.
func Health(c echo.Context) error {
	return response.OK(c, map[string]any{"status": "UP"})
}

// NotFound is the authenticated fallback for unmatched routes: unknown paths
// still require a valid token and answer with an envelope, never a bare 404.
func NotFound(c echo.Context) error {
	return response.Error(c, apperr.New(apperr.ResourceNotFound, "request", "resource not found"))
}

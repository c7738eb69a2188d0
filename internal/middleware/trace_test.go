package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hr-admin/internal/response"
	"github.com/iliyamo/hr-admin/internal/trace"
)

func runTraced(t *testing.T, inboundID string) (*httptest.ResponseRecorder, response.Success) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if inboundID != "" {
		req.Header.Set(trace.HeaderRequestID, inboundID)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestTrace()(func(c echo.Context) error {
		return response.OK(c, "pong")
	})
	require.NoError(t, h(c))

	var env response.Success
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestRequestTrace_ReusesInboundID(t *testing.T) {
	t.Parallel()

	rec, env := runTraced(t, "client-supplied-id")
	require.Equal(t, "client-supplied-id", rec.Header().Get(trace.HeaderRequestID))
	require.Equal(t, "client-supplied-id", env.TraceID)
}

func TestRequestTrace_GeneratesID(t *testing.T) {
	t.Parallel()

	rec, env := runTraced(t, "")
	id := rec.Header().Get(trace.HeaderRequestID)
	require.NotEmpty(t, id)
	require.Equal(t, id, env.TraceID)
}

func TestRequestTrace_BlankHeaderReplaced(t *testing.T) {
	t.Parallel()

	rec, _ := runTraced(t, "   ")
	require.NotEmpty(t, rec.Header().Get(trace.HeaderRequestID))
	require.NotEqual(t, "   ", rec.Header().Get(trace.HeaderRequestID))
}

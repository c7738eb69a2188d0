package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hr-admin/internal/apperr"
	"github.com/iliyamo/hr-admin/internal/trace"
)

func testContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(trace.With(req.Context(), "trace-123"))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestOK_EnvelopeShape(t *testing.T) {
	t.Parallel()

	c, rec := testContext(t)
	require.NoError(t, OK(c, map[string]string{"k": "v"}))
	require.Equal(t, http.StatusOK, rec.Code)

	var env Success
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "Success", env.OperationType)
	require.Equal(t, "success", env.Message)
	require.Equal(t, "OK", env.Code)
	require.Equal(t, "trace-123", env.TraceID)
	require.Nil(t, env.TotalElements)

	_, err := time.Parse(timestampLayout, env.Timestamp)
	require.NoError(t, err)
}

func TestSizeOf_CollectionsOnly(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, sizeOf(nil))
	require.Equal(t, 0, sizeOf("scalar"))
	require.Equal(t, 0, sizeOf(struct{}{}))
	require.Equal(t, 3, sizeOf([]int{1, 2, 3}))
	require.Equal(t, 2, sizeOf(map[string]int{"a": 1, "b": 2}))
}

func TestPaged_PopulatesTotals(t *testing.T) {
	t.Parallel()

	c, rec := testContext(t)
	require.NoError(t, Paged(c, PagedResult[string]{
		Content:       []string{"a", "b"},
		TotalElements: 7,
		TotalPages:    4,
		Page:          1,
		PageSize:      2,
	}))

	var env Success
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, 2, env.Size)
	require.Equal(t, 7, *env.TotalElements)
	require.Equal(t, 4, *env.TotalPages)
	require.Equal(t, 1, *env.Page)
	require.Equal(t, 2, *env.PageSize)
}

func TestError_StatusPerKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.InvalidCredentials, http.StatusUnauthorized},
		{apperr.AccountDisabled, http.StatusUnauthorized},
		{apperr.TokenExpired, http.StatusUnauthorized},
		{apperr.TokenInvalid, http.StatusUnauthorized},
		{apperr.TokenRevoked, http.StatusUnauthorized},
		{apperr.InsufficientRole, http.StatusForbidden},
		{apperr.ResourceNotFound, http.StatusNotFound},
		{apperr.DuplicateResource, http.StatusConflict},
		{apperr.ValidationFailed, http.StatusBadRequest},
		{apperr.UpstreamUnavailable, http.StatusServiceUnavailable},
		{apperr.Internal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, rec := testContext(t)
		require.NoError(t, Error(c, apperr.New(tc.kind, "test", "boom")))
		require.Equal(t, tc.want, rec.Code, string(tc.kind))

		var env Failure
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		require.Equal(t, "Failure", env.OperationType)
		require.Equal(t, string(tc.kind), env.Code)
		require.Equal(t, "trace-123", env.TraceID)
	}
}

// Errors outside the taxonomy collapse to a fixed 500 so internal detail
// never reaches the wire.
func TestError_OpaqueInternal(t *testing.T) {
	t.Parallel()

	c, rec := testContext(t)
	require.NoError(t, Error(c, errors.New("dial tcp 10.0.0.5: connection refused")))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var env Failure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "internal server error", env.Message)
	require.Equal(t, string(apperr.Internal), env.Code)
	require.Equal(t, "system", env.Domain)
	require.NotContains(t, rec.Body.String(), "connection refused")
}

func TestFail_ExplicitStatus(t *testing.T) {
	t.Parallel()

	c, rec := testContext(t)
	require.NoError(t, Fail(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS",
		"ratelimit", "rate limit exceeded", map[string]any{"retryAfterSeconds": 3}))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var env Failure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "TOO_MANY_REQUESTS", env.Code)
	require.EqualValues(t, 3, env.Details["retryAfterSeconds"])
}

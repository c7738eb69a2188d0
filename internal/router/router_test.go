package router

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hr-admin/internal/apperr"
	"github.com/iliyamo/hr-admin/internal/auth"
	"github.com/iliyamo/hr-admin/internal/handler"
	"github.com/iliyamo/hr-admin/internal/response"
)

// policyFixture spins up the full route table against a stub upstream. The
// database-backed handlers are wired with nil repositories on purpose: every
// request in these tests must be decided by the middleware chain before any
// handler body runs, except the proxy and health which need no database.
type policyFixture struct {
	e     *echo.Echo
	codec *auth.Codec
}

func newPolicyFixture(t *testing.T) *policyFixture {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"proxied":true}`))
	}))
	t.Cleanup(upstream.Close)

	secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	codec, err := auth.NewCodec(secret, 600)
	require.NoError(t, err)

	e := echo.New()
	Register(e, Deps{
		Codec:     codec,
		Blacklist: auth.NewBlacklist(),
		Auth:      &handler.AuthHandler{},
		Users:     &handler.UserHandler{},
		Roles:     &handler.RoleHandler{},
		Profile:   &handler.ProfileHandler{},
		Proxy:     handler.NewProxyHandler(upstream.URL, 5*time.Second),
	})
	return &policyFixture{e: e, codec: codec}
}

func (f *policyFixture) tokenFor(t *testing.T, roles ...string) string {
	t.Helper()
	auths := make([]string, 0, len(roles))
	for _, r := range roles {
		auths = append(auths, auth.AuthorityPrefix+r)
	}
	tok, _, err := f.codec.Issue(auth.Principal{
		Username:    "tester",
		Roles:       roles,
		Authorities: auths,
	})
	require.NoError(t, err)
	return tok
}

func (f *policyFixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func failureCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var fail response.Failure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fail))
	return fail.Code
}

func TestPolicy_HealthIsPublic(t *testing.T) {
	f := newPolicyFixture(t)
	rec := f.do(http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPolicy_UsersRequiresToken(t *testing.T) {
	f := newPolicyFixture(t)
	rec := f.do(http.MethodGet, "/users", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, string(apperr.TokenInvalid), failureCode(t, rec))
}

func TestPolicy_UsersRejectsNonAdmin(t *testing.T) {
	f := newPolicyFixture(t)
	rec := f.do(http.MethodGet, "/users", f.tokenFor(t, RoleHRManager))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, string(apperr.InsufficientRole), failureCode(t, rec))
}

func TestPolicy_PayrollPrefixes(t *testing.T) {
	f := newPolicyFixture(t)

	for _, path := range []string{
		"/api/python/salaries",
		"/api/python/dividends/2026",
		"/api/python/reports/monthly",
	} {
		rec := f.do(http.MethodGet, path, f.tokenFor(t, RolePayrollManager))
		require.Equal(t, http.StatusOK, rec.Code, path)

		rec = f.do(http.MethodGet, path, f.tokenFor(t, RoleHRManager))
		require.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestPolicy_HRPrefixes(t *testing.T) {
	f := newPolicyFixture(t)

	for _, path := range []string{
		"/api/python/employees",
		"/api/python/attendance/today",
		"/api/python/departments",
		"/api/python/positions/3",
	} {
		rec := f.do(http.MethodGet, path, f.tokenFor(t, RoleHRManager))
		require.Equal(t, http.StatusOK, rec.Code, path)

		rec = f.do(http.MethodGet, path, f.tokenFor(t, RolePayrollManager))
		require.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestPolicy_DashboardAdmitsAllThreeRoles(t *testing.T) {
	f := newPolicyFixture(t)

	for _, role := range []string{RoleAdmin, RoleHRManager, RolePayrollManager} {
		rec := f.do(http.MethodGet, "/api/python/dashboard", f.tokenFor(t, role))
		require.Equal(t, http.StatusOK, rec.Code, role)
	}
}

// Named prefixes carry their own role sets; anything else under /api/python
// falls to the ADMIN-only catch-all.
func TestPolicy_PythonCatchAllIsAdminOnly(t *testing.T) {
	f := newPolicyFixture(t)

	rec := f.do(http.MethodGet, "/api/python/benefits", f.tokenFor(t, RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/python/benefits", f.tokenFor(t, RoleHRManager, RolePayrollManager))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

// The profile family admits payroll managers, but every registered operation
// carries a stricter ADMIN/HR_MANAGER check that wins.
func TestPolicy_ProfileOpsExcludePayroll(t *testing.T) {
	f := newPolicyFixture(t)

	rec := f.do(http.MethodGet, "/profile", f.tokenFor(t, RolePayrollManager))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, string(apperr.InsufficientRole), failureCode(t, rec))
}

func TestPolicy_UnmatchedRouteNeedsAuth(t *testing.T) {
	f := newPolicyFixture(t)

	rec := f.do(http.MethodGet, "/no/such/route", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/no/such/route", f.tokenFor(t, RolePayrollManager))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, string(apperr.ResourceNotFound), failureCode(t, rec))
}

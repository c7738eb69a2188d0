package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hr-admin/internal/apperr"
	"github.com/iliyamo/hr-admin/internal/auth"
	"github.com/iliyamo/hr-admin/internal/response"
)

func newTestCodec(t *testing.T, ttlSeconds int64) *auth.Codec {
	t.Helper()
	secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	codec, err := auth.NewCodec(secret, ttlSeconds)
	require.NoError(t, err)
	return codec
}

func issueFor(t *testing.T, codec *auth.Codec, p auth.Principal) string {
	t.Helper()
	tok, _, err := codec.Issue(p)
	require.NoError(t, err)
	return tok
}

// callJWT runs the request through JWTAuth plus optional extra middleware and
// returns the recorder and the decoded failure envelope (zero when 200).
func callJWT(t *testing.T, codec *auth.Codec, bl *auth.Blacklist, authz string, extra ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, response.Failure) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := echo.HandlerFunc(func(c echo.Context) error {
		return response.OK(c, Username(c))
	})
	for i := len(extra) - 1; i >= 0; i-- {
		h = extra[i](h)
	}
	h = JWTAuth(codec, bl)(h)
	require.NoError(t, h(c))

	var fail response.Failure
	if rec.Code != http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fail))
	}
	return rec, fail
}

func TestJWTAuth_MissingToken(t *testing.T) {
	t.Parallel()

	rec, fail := callJWT(t, newTestCodec(t, 600), auth.NewBlacklist(), "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, string(apperr.TokenInvalid), fail.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, -10)
	tok := issueFor(t, codec, auth.Principal{Username: "jdoe"})
	rec, fail := callJWT(t, codec, auth.NewBlacklist(), "Bearer "+tok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, string(apperr.TokenExpired), fail.Code)
}

func TestJWTAuth_RevokedToken(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, 600)
	tok := issueFor(t, codec, auth.Principal{Username: "jdoe"})
	bl := auth.NewBlacklist()
	bl.Add(tok)

	rec, fail := callJWT(t, codec, bl, "Bearer "+tok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, string(apperr.TokenRevoked), fail.Code)
}

func TestJWTAuth_InjectsClaims(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, 600)
	tok := issueFor(t, codec, auth.Principal{
		Username:    "jdoe",
		Roles:       []string{"ADMIN"},
		Authorities: []string{"ROLE_ADMIN"},
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(codec, auth.NewBlacklist())(func(c echo.Context) error {
		require.Equal(t, "jdoe", Username(c))
		require.Equal(t, []string{"ROLE_ADMIN"}, Authorities(c))
		require.Equal(t, tok, c.Get(CtxToken))
		return response.OK(c, nil)
	})
	require.NoError(t, h(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAnyRole_Allows(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, 600)
	tok := issueFor(t, codec, auth.Principal{
		Username:    "manager",
		Roles:       []string{"HR_MANAGER"},
		Authorities: []string{"ROLE_HR_MANAGER"},
	})

	rec, _ := callJWT(t, codec, auth.NewBlacklist(), "Bearer "+tok,
		RequireAnyRole("ADMIN", "HR_MANAGER"))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAnyRole_Denies(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, 600)
	tok := issueFor(t, codec, auth.Principal{
		Username:    "payroll",
		Roles:       []string{"PAYROLL_MANAGER"},
		Authorities: []string{"ROLE_PAYROLL_MANAGER"},
	})

	rec, fail := callJWT(t, codec, auth.NewBlacklist(), "Bearer "+tok,
		RequireAnyRole("ADMIN", "HR_MANAGER"))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, string(apperr.InsufficientRole), fail.Code)
}

// A token with zero roles is still a valid token: it clears JWTAuth but then
// fails every role gate.
func TestRequireAnyRole_ZeroRolePrincipal(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, 600)
	tok := issueFor(t, codec, auth.Principal{Username: "intern"})

	rec, _ := callJWT(t, codec, auth.NewBlacklist(), "Bearer "+tok)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, fail := callJWT(t, codec, auth.NewBlacklist(), "Bearer "+tok,
		RequireAnyRole("ADMIN"))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, string(apperr.InsufficientRole), fail.Code)
}

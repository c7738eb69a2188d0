package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hr-admin/internal/apperr"
	"github.com/iliyamo/hr-admin/internal/auth"
	"github.com/iliyamo/hr-admin/internal/response"
)

func newAuthFixture(t *testing.T) *AuthHandler {
	t.Helper()
	secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	codec, err := auth.NewCodec(secret, 600)
	require.NoError(t, err)
	return &AuthHandler{Codec: codec, Blacklist: auth.NewBlacklist()}
}

func postJSON(t *testing.T, path, body, authz string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestSignIn_MissingFieldsAggregated(t *testing.T) {
	t.Parallel()

	h := newAuthFixture(t)
	rec := postJSON(t, "/auth/signIn", `{}`, "", h.SignIn)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var fail response.Failure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fail))
	require.Equal(t, string(apperr.ValidationFailed), fail.Code)
	require.Contains(t, fail.Details, "userName")
	require.Contains(t, fail.Details, "password")
}

// Logout acknowledges success with or without a token; there is nothing
// useful to reveal to a caller holding no token.
func TestLogout_NoTokenIsNoOp(t *testing.T) {
	t.Parallel()

	h := newAuthFixture(t)
	rec := postJSON(t, "/auth/logout", "", "", h.Logout)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Logout successful")
	require.Equal(t, 0, h.Blacklist.Len())
}

func TestLogout_RevokesAndStaysIdempotent(t *testing.T) {
	t.Parallel()

	h := newAuthFixture(t)
	// An unparseable token is still revoked; revocation must not depend on
	// the token verifying.
	rec := postJSON(t, "/auth/logout", "", "Bearer opaque-token", h.Logout)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, h.Blacklist.Contains("opaque-token"))

	rec = postJSON(t, "/auth/logout", "", "Bearer opaque-token", h.Logout)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, h.Blacklist.Len())
}

package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-admin/internal/apperr"
	"github.com/iliyamo/hr-admin/internal/auth"
	"github.com/iliyamo/hr-admin/internal/response"
)

// Context keys set by JWTAuth for downstream middleware and handlers.
const (
	CtxUsername    = "username"
	CtxAuthorities = "authorities"
	CtxRoles       = "roles"
	CtxToken       = "token"
)

// JWTAuth validates the Bearer access token and injects the subject, role and
// authority claims into the request context. Rejections cover a missing
// token, a bad signature or structure, an expired token and a blacklisted
// token, each with its own taxonomy code; none of them leaks parser detail.
func JWTAuth(codec *auth.Codec, blacklist *auth.Blacklist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return response.Error(c, apperr.New(apperr.TokenInvalid, "auth", "missing bearer token"))
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := codec.Verify(raw)
			if err != nil {
				return response.Error(c, err)
			}
			// Signature and expiry alone are not enough: a logged-out token
			// verifies fine and must still be rejected.
			if blacklist.Contains(raw) {
				return response.Error(c, apperr.New(apperr.TokenRevoked, "auth", "token has been revoked"))
			}

			c.Set(CtxUsername, auth.Subject(claims))
			c.Set(CtxAuthorities, claims.Authorities)
			c.Set(CtxRoles, claims.Roles)
			c.Set(CtxToken, raw)
			return next(c)
		}
	}
}

// Username returns the authenticated subject stored by JWTAuth, or "" when
// the request is unauthenticated.
func Username(c echo.Context) string {
	if v, ok := c.Get(CtxUsername).(string); ok {
		return v
	}
	return ""
}

// Authorities returns the authority strings stored by JWTAuth.
func Authorities(c echo.Context) []string {
	if v, ok := c.Get(CtxAuthorities).([]string); ok {
		return v
	}
	return nil
}

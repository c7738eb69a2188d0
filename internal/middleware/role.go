package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-admin/internal/apperr"
	"github.com/iliyamo/hr-admin/internal/auth"
	"github.com/iliyamo/hr-admin/internal/response"
)

// RequireAnyRole enforces that the authenticated principal holds at least one
// of the given roles (ANY-of semantics). It matches against the authority
// strings JWTAuth stored in the context, so a principal with zero roles fails
// every check while still passing plain JWTAuth. Assumes JWTAuth ran earlier
// in the chain.
func RequireAnyRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[auth.AuthorityPrefix+r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, authority := range Authorities(c) {
				if allowed[authority] {
					return next(c)
				}
			}
			return response.Error(c, apperr.New(apperr.InsufficientRole, "auth", "access denied"))
		}
	}
}

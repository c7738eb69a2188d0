// Package router wires every route to its handler and access policy. The
// policy table lives here in one place: which prefixes are public, which
// require authentication only, and which role sets gate the rest.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hr-admin/internal/auth"
	"github.com/iliyamo/hr-admin/internal/config"
	"github.com/iliyamo/hr-admin/internal/handler"
	"github.com/iliyamo/hr-admin/internal/middleware"
)

// Role names used by the access policy.
const (
	RoleAdmin          = "ADMIN"
	RoleHRManager      = "HR_MANAGER"
	RolePayrollManager = "PAYROLL_MANAGER"
)

// Deps bundles everything route registration needs.
type Deps struct {
	Cfg       config.Config
	Codec     *auth.Codec
	Blacklist *auth.Blacklist
	Redis     *redis.Client
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Roles     *handler.RoleHandler
	Profile   *handler.ProfileHandler
	Proxy     *handler.ProxyHandler
}

// Register sets up all routes and their middleware chains.
func Register(e *echo.Echo, d Deps) {
	// Trace runs first so every response, including middleware rejections,
	// carries the correlation id.
	e.Use(middleware.RequestTrace())

	jwtAuth := middleware.JWTAuth(d.Codec, d.Blacklist)

	// Public auth endpoints, rate limited against credential stuffing.
	authGroup := e.Group("/auth", middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis))
	authGroup.POST("/signIn", d.Auth.SignIn)
	authGroup.POST("/logout", d.Auth.Logout)

	// Public health check.
	e.GET("/api/v1/health", handler.Health)

	// User management: ADMIN only.
	users := e.Group("/users", jwtAuth, middleware.RequireAnyRole(RoleAdmin))
	users.GET("", d.Users.List)
	users.POST("", d.Users.Create)
	users.PUT("/:id", d.Users.Update)
	users.PUT("/:id/status", d.Users.UpdateStatus)
	users.PUT("/:id/reset-password", d.Users.ResetPassword)
	users.DELETE("/:id", d.Users.Delete)

	// Role management: authenticated, any role.
	roles := e.Group("/api/roles", jwtAuth)
	roles.GET("", d.Roles.List)
	roles.POST("", d.Roles.Create)

	// Profile: the route family admits PAYROLL_MANAGER, but every operation
	// inside carries the stricter ADMIN/HR_MANAGER check. The most specific
	// rule wins, so payroll managers reach the family and stop there.
	profileFamily := middleware.RequireAnyRole(RoleAdmin, RoleHRManager, RolePayrollManager)
	profileOps := middleware.RequireAnyRole(RoleAdmin, RoleHRManager)
	profile := e.Group("/profile", jwtAuth, profileFamily)
	profile.GET("", d.Profile.Get, profileOps)
	profile.PUT("", d.Profile.Update, profileOps)
	profile.PUT("/change-password", d.Profile.ChangePassword, profileOps)

	// Upstream passthrough. Named prefixes carry their own role sets; the
	// catch-all below them is ADMIN only. Echo prefers the most specific
	// route, which implements "most specific rule wins".
	python := e.Group("/api/python", jwtAuth)
	payroll := middleware.RequireAnyRole(RoleAdmin, RolePayrollManager)
	hr := middleware.RequireAnyRole(RoleAdmin, RoleHRManager)
	dashboard := middleware.RequireAnyRole(RoleAdmin, RoleHRManager, RolePayrollManager)

	proxyPrefix(python, "/salaries", d.Proxy.Forward, payroll)
	proxyPrefix(python, "/dividends", d.Proxy.Forward, payroll)
	proxyPrefix(python, "/reports", d.Proxy.Forward, payroll)
	proxyPrefix(python, "/employees", d.Proxy.Forward, hr)
	proxyPrefix(python, "/attendance", d.Proxy.Forward, hr)
	proxyPrefix(python, "/departments", d.Proxy.Forward, hr)
	proxyPrefix(python, "/positions", d.Proxy.Forward, hr)
	proxyPrefix(python, "/dashboard", d.Proxy.Forward, dashboard)
	python.Any("/*", d.Proxy.Forward, middleware.RequireAnyRole(RoleAdmin))

	// Anything unmatched: authenticated, any role, enveloped 404.
	e.Any("/*", handler.NotFound, jwtAuth)
}

// proxyPrefix registers a prefix and everything under it for all methods.
func proxyPrefix(g *echo.Group, prefix string, h echo.HandlerFunc, mw ...echo.MiddlewareFunc) {
	g.Any(prefix, h, mw...)
	g.Any(prefix+"/*", h, mw...)
}

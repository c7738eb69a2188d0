package handler

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-admin/internal/apperr"
	"github.com/iliyamo/hr-admin/internal/auth"
	"github.com/iliyamo/hr-admin/internal/queue"
	"github.com/iliyamo/hr-admin/internal/repository"
	"github.com/iliyamo/hr-admin/internal/response"
	queue_publisher "github.com/iliyamo/hr-admin/internal/service"
	"github.com/iliyamo/hr-admin/internal/trace"
)

// AuthHandler bundles the authentication core for the sign-in and logout
// endpoints.
type AuthHandler struct {
	Authenticator *auth.Authenticator
	Codec         *auth.Codec
	Blacklist     *auth.Blacklist
	Users         *repository.UserRepo
}

func NewAuthHandler(a *auth.Authenticator, codec *auth.Codec, bl *auth.Blacklist, users *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Authenticator: a, Codec: codec, Blacklist: bl, Users: users}
}

type signInRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token       string       `json:"token"`
	ExpiredDate time.Time    `json:"expiredDate"`
	User        userResponse `json:"user"`
}

// SignIn authenticates the submitted credentials and issues an access token.
// The response never includes the password hash; role names ride inside the
// token claims and the sanitized user payload.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, apperr.New(apperr.ValidationFailed, "request", "invalid body"))
	}
	details := map[string]any{}
	if strings.TrimSpace(req.UserName) == "" {
		details["userName"] = "username is required"
	}
	if req.Password == "" {
		details["password"] = "password is required"
	}
	if len(details) > 0 {
		return response.Error(c, apperr.WithDetails(apperr.ValidationFailed, "request", "validation failed", details))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	principal, err := h.Authenticator.Authenticate(ctx, req.UserName, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	token, exp, err := h.Codec.Issue(principal)
	if err != nil {
		return response.Error(c, err)
	}
	u, err := h.Users.FindByUserName(ctx, principal.Username)
	if err != nil {
		return response.Error(c, err)
	}

	h.audit(c, queue.ActionSignIn, principal.Username, "sign-in succeeded")
	return response.OK(c, signInResponse{Token: token, ExpiredDate: exp, User: toUserResponse(u)})
}

// Logout revokes the presented bearer token. It always acknowledges success:
// a request without a token has nothing to revoke and is a no-op, and
// revoking the same token twice leaves it blacklisted exactly once.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := bearerToken(c.Request().Header.Get("Authorization"))
	if token != "" {
		h.Blacklist.Add(token)
		if claims, err := h.Codec.Verify(token); err == nil {
			h.audit(c, queue.ActionLogout, auth.Subject(claims), "token revoked")
		}
	}
	return response.OK(c, "Logout successful")
}

func bearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// audit publishes a best-effort audit event off the request path.
func (h *AuthHandler) audit(c echo.Context, action, username, detail string) {
	ev := queue.AuditEvent{
		Action:     action,
		Username:   username,
		Detail:     detail,
		TraceID:    trace.FromContext(c.Request().Context()),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() { _ = queue_publisher.PublishAudit(context.Background(), ev) }()
}

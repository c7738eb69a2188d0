package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-admin/internal/apperr"
	"github.com/iliyamo/hr-admin/internal/config"
	"github.com/iliyamo/hr-admin/internal/middleware"
	"github.com/iliyamo/hr-admin/internal/repository"
	"github.com/iliyamo/hr-admin/internal/response"
	"github.com/iliyamo/hr-admin/internal/utils"
)

// ProfileHandler implements the self-service profile endpoints. The acting
// user is whoever the JWT middleware authenticated.
type ProfileHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewProfileHandler(cfg config.Config, users *repository.UserRepo) *ProfileHandler {
	return &ProfileHandler{Cfg: cfg, Users: users}
}

// Get returns the authenticated user's own profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByUserName(ctx, middleware.Username(c))
	if err != nil {
		return response.Error(c, translateUserErr(err))
	}
	return response.OK(c, toUserResponse(u))
}

// Update changes the authenticated user's own profile fields. Roles cannot be
// changed here.
func (h *ProfileHandler) Update(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, apperr.New(apperr.ValidationFailed, "request", "invalid body"))
	}
	if details := req.validate(); len(details) > 0 {
		return response.Error(c, apperr.WithDetails(apperr.ValidationFailed, "request", "validation failed", details))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByUserName(ctx, middleware.Username(c))
	if err != nil {
		return response.Error(c, translateUserErr(err))
	}
	if req.Email != nil && *req.Email != "" && *req.Email != u.Email {
		taken, err := h.Users.EmailTaken(ctx, *req.Email, u.ID)
		if err != nil {
			return response.Error(c, err)
		}
		if taken {
			return response.Error(c, apperr.WithDetails(apperr.DuplicateResource, "user",
				"email already exists", map[string]any{"field": "email"}))
		}
	}

	applyProfilePatch(u, req.FullName, req.Email, req.Phone, req.Address, req.dob)
	if err := h.Users.UpdateProfile(ctx, u); err != nil {
		return response.Error(c, translateUserErr(err))
	}

	updated, err := h.Users.FindByUserName(ctx, u.UserName)
	if err != nil {
		return response.Error(c, translateUserErr(err))
	}
	return response.OK(c, toUserResponse(updated))
}

// ChangePassword verifies the old password before storing a new hash. The
// mismatch error deliberately names the old password, not the account state.
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, apperr.New(apperr.ValidationFailed, "request", "invalid body"))
	}
	if details := req.validate(); len(details) > 0 {
		return response.Error(c, apperr.WithDetails(apperr.ValidationFailed, "request", "validation failed", details))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByUserName(ctx, middleware.Username(c))
	if err != nil {
		return response.Error(c, translateUserErr(err))
	}
	if !utils.VerifyPassword(u.PasswordHash, req.OldPassword) {
		return response.Error(c, apperr.WithDetails(apperr.ValidationFailed, "request", "validation failed",
			map[string]any{"oldPassword": "old password is incorrect"}))
	}
	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return response.Error(c, err)
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, toUserResponse(u))
}

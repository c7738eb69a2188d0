package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-admin/internal/apperr"
	"github.com/iliyamo/hr-admin/internal/config"
	"github.com/iliyamo/hr-admin/internal/model"
	"github.com/iliyamo/hr-admin/internal/queue"
	"github.com/iliyamo/hr-admin/internal/repository"
	"github.com/iliyamo/hr-admin/internal/response"
	queue_publisher "github.com/iliyamo/hr-admin/internal/service"
	"github.com/iliyamo/hr-admin/internal/trace"
	"github.com/iliyamo/hr-admin/internal/utils"
)

// UserHandler implements the admin-only user management endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users}
}

// List returns one page of users inside the paginated envelope.
// Query params: page (0-based, default 0) and size (default 10).
func (h *UserHandler) List(c echo.Context) error {
	page := atoiParam(c.QueryParam("page"), 0)
	size := atoiParam(c.QueryParam("size"), 10)
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 10
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, total, err := h.Users.List(ctx, page, size)
	if err != nil {
		return response.Error(c, err)
	}
	content := make([]userResponse, 0, len(users))
	for _, u := range users {
		content = append(content, toUserResponse(u))
	}
	totalPages := 0
	if size > 0 {
		totalPages = (total + size - 1) / size
	}
	return response.Paged(c, response.PagedResult[userResponse]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Page:          page,
		PageSize:      size,
	})
}

// Create registers a new user with its role assignments.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, apperr.New(apperr.ValidationFailed, "request", "invalid body"))
	}
	details, dob := req.validate()
	if len(details) > 0 {
		return response.Error(c, apperr.WithDetails(apperr.ValidationFailed, "request", "validation failed", details))
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u := &model.User{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		UserName:     req.UserName,
		PasswordHash: hash,
		Address:      req.Address,
		DateOfBirth:  dob,
	}
	created, err := h.Users.Create(ctx, u, req.Roles)
	if err != nil {
		return response.Error(c, translateUserErr(err))
	}

	h.audit(c, queue.ActionUserCreated, created.UserName, "created by admin")
	return response.OK(c, toUserResponse(created))
}

// Update applies a partial admin update: any subset of profile fields plus an
// optional replacement of the whole role set.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req adminUpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, apperr.New(apperr.ValidationFailed, "request", "invalid body"))
	}
	if details := req.validate(); len(details) > 0 {
		return response.Error(c, apperr.WithDetails(apperr.ValidationFailed, "request", "validation failed", details))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByID(ctx, id)
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
	if req.RoleIDs != nil {
		if err := h.Users.ReplaceRoles(ctx, u.ID, req.RoleIDs); err != nil {
			return response.Error(c, translateUserErr(err))
		}
	}

	updated, err := h.Users.FindByID(ctx, id)
	if err != nil {
		return response.Error(c, translateUserErr(err))
	}
	return response.OK(c, toUserResponse(updated))
}

// UpdateStatus writes the stored is_active flag as submitted. Under the
// inverted-flag convention, active=true deactivates the account.
func (h *UserHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil || req.Active == nil {
		return response.Error(c, apperr.WithDetails(apperr.ValidationFailed, "request", "validation failed",
			map[string]any{"active": "active status is required"}))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.FindByID(ctx, id); err != nil {
		return response.Error(c, translateUserErr(err))
	}
	if err := h.Users.UpdateStatus(ctx, id, *req.Active); err != nil {
		return response.Error(c, err)
	}
	u, err := h.Users.FindByID(ctx, id)
	if err != nil {
		return response.Error(c, translateUserErr(err))
	}
	return response.OK(c, toUserResponse(u))
}

// Delete removes a user; role assignments cascade with it.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByID(ctx, id)
	if err != nil {
		return response.Error(c, translateUserErr(err))
	}
	if err := h.Users.Delete(ctx, id); err != nil {
		return response.Error(c, translateUserErr(err))
	}

	h.audit(c, queue.ActionUserDeleted, u.UserName, "deleted by admin")
	return response.OK(c, "deleted user with id: "+strconv.FormatInt(id, 10))
}

// ResetPassword sets a new password for the user without requiring the old
// one; this is the admin-side reset.
func (h *UserHandler) ResetPassword(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return response.Error(c, apperr.WithDetails(apperr.ValidationFailed, "request", "validation failed",
			map[string]any{"password": "password is required"}))
	}
	if !passwordOK(req.Password) {
		return response.Error(c, apperr.WithDetails(apperr.ValidationFailed, "request", "validation failed",
			map[string]any{"password": "password must be 6-50 characters with at least one uppercase letter and one number"}))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByID(ctx, id)
	if err != nil {
		return response.Error(c, translateUserErr(err))
	}
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return response.Error(c, err)
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return response.Error(c, err)
	}
	updated, err := h.Users.FindByID(ctx, id)
	if err != nil {
		return response.Error(c, translateUserErr(err))
	}
	return response.OK(c, toUserResponse(updated))
}

func (h *UserHandler) audit(c echo.Context, action, username, detail string) {
	ev := queue.AuditEvent{
		Action:     action,
		Username:   username,
		Detail:     detail,
		TraceID:    trace.FromContext(c.Request().Context()),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() { _ = queue_publisher.PublishAudit(context.Background(), ev) }()
}

// ----- shared handler helpers -----

// reqCtx bounds database work to five seconds per request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.New(apperr.ValidationFailed, "request", "invalid id")
	}
	return id, nil
}

func atoiParam(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// translateUserErr maps repository sentinels onto the error taxonomy.
func translateUserErr(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperr.New(apperr.ResourceNotFound, "user", "user not found")
	case errors.Is(err, repository.ErrUserNameExists):
		return apperr.WithDetails(apperr.DuplicateResource, "user",
			"username already exists", map[string]any{"field": "userName"})
	case errors.Is(err, repository.ErrEmailExists):
		return apperr.WithDetails(apperr.DuplicateResource, "user",
			"email already exists", map[string]any{"field": "email"})
	case errors.Is(err, repository.ErrRoleNotFound):
		return apperr.New(apperr.ResourceNotFound, "role", "one or more roles do not exist")
	default:
		return err
	}
}

// applyProfilePatch copies the non-nil patch fields onto the user. Empty
// strings are skipped for every field except address, which may be cleared.
func applyProfilePatch(u *model.User, fullName, email, phone, address *string, dob *time.Time) {
	if fullName != nil && *fullName != "" {
		u.FullName = *fullName
	}
	if email != nil && *email != "" {
		u.Email = *email
	}
	if phone != nil && *phone != "" {
		u.Phone = *phone
	}
	if address != nil {
		u.Address = *address
	}
	if dob != nil {
		u.DateOfBirth = dob
	}
}

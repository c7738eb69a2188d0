package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-admin/internal/apperr"
	"github.com/iliyamo/hr-admin/internal/repository"
	"github.com/iliyamo/hr-admin/internal/response"
)

// RoleHandler implements role listing and creation.
type RoleHandler struct {
	Roles *repository.RoleRepo
}

func NewRoleHandler(roles *repository.RoleRepo) *RoleHandler {
	return &RoleHandler{Roles: roles}
}

// List returns every role.
func (h *RoleHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	roles, err := h.Roles.All(ctx)
	if err != nil {
		return response.Error(c, err)
	}
	out := make([]roleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResponse(r))
	}
	return response.OK(c, out)
}

// Create inserts a new role. Role names are not required to be unique;
// duplicate names are permitted by the schema.
func (h *RoleHandler) Create(c echo.Context) error {
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, apperr.New(apperr.ValidationFailed, "request", "invalid body"))
	}
	if details := req.validate(); len(details) > 0 {
		return response.Error(c, apperr.WithDetails(apperr.ValidationFailed, "request", "validation failed", details))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	role, err := h.Roles.Create(ctx, strings.TrimSpace(req.Name), req.Description)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, toRoleResponse(*role))
}

// Package bootstrap seeds the base roles and the default admin account on
// startup so a fresh database is immediately usable.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/iliyamo/hr-admin/internal/config"
	"github.com/iliyamo/hr-admin/internal/model"
	"github.com/iliyamo/hr-admin/internal/repository"
	"github.com/iliyamo/hr-admin/internal/utils"
)

// Seed creates the ADMIN, HR_MANAGER and PAYROLL_MANAGER roles and the
// default admin user when they do not exist yet. The admin is created with
// is_active=false, which under the inverted-flag convention means the account
// is usable. Runs are idempotent.
func Seed(ctx context.Context, cfg config.Config, users *repository.UserRepo, roles *repository.RoleRepo) error {
	adminRole, err := ensureRole(ctx, roles, "ADMIN", "Administrator role")
	if err != nil {
		return err
	}
	if _, err := ensureRole(ctx, roles, "HR_MANAGER", "Human resources manager role"); err != nil {
		return err
	}
	if _, err := ensureRole(ctx, roles, "PAYROLL_MANAGER", "Payroll manager role"); err != nil {
		return err
	}

	_, err = users.FindByUserName(ctx, cfg.AdminUserName)
	if err == nil {
		log.Printf("bootstrap: admin user %q already exists", cfg.AdminUserName)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}
	admin := &model.User{
		FullName:     "System Administrator",
		Email:        cfg.AdminEmail,
		Phone:        "0000000000",
		UserName:     cfg.AdminUserName,
		PasswordHash: hash,
		IsActive:     false, // false = account in use
	}
	if _, err := users.Create(ctx, admin, []int64{adminRole.ID}); err != nil {
		return err
	}
	log.Printf("bootstrap: created admin user %q", cfg.AdminUserName)
	return nil
}

func ensureRole(ctx context.Context, roles *repository.RoleRepo, name, description string) (*model.Role, error) {
	role, err := roles.FindByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	role, err = roles.Create(ctx, name, description)
	if err != nil {
		return nil, err
	}
	log.Printf("bootstrap: created role %s", name)
	return role, nil
}

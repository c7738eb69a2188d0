package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hr-admin/internal/model"
)

// RoleRepo persists roles. Role names carry no uniqueness constraint;
// creating two roles with the same name is permitted, matching the stored
// schema.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// All returns every role ordered by id.
func (r *RoleRepo) All(ctx context.Context) ([]model.Role, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, description FROM roles ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Create inserts a role and returns it with its id populated.
func (r *RoleRepo) Create(ctx context.Context, name, description string) (*model.Role, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO roles (name, description) VALUES (?,?)", name, description)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Role{ID: id, Name: name, Description: description}, nil
}

// FindByName returns the first role with the given name, or sql.ErrNoRows.
func (r *RoleRepo) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, description FROM roles WHERE name=? LIMIT 1", name).
		Scan(&role.ID, &role.Name, &role.Description)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

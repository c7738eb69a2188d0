package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/hr-admin/internal/model"
)

// UserRepo persists users and their role assignments.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, full_name, email, phone, user_name, password, address, date_of_birth, created_at, is_active"

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var (
		u   model.User
		dob sql.NullTime
	)
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Phone, &u.UserName,
		&u.PasswordHash, &u.Address, &dob, &u.CreatedAt, &u.IsActive)
	if err != nil {
		return nil, err
	}
	if dob.Valid {
		t := dob.Time
		u.DateOfBirth = &t
	}
	return &u, nil
}

// isDuplicate reports whether err is a MySQL duplicate-key violation (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// FindByUserName fetches a user by username with roles resolved. Returns
// sql.ErrNoRows when absent.
func (r *UserRepo) FindByUserName(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE user_name=? LIMIT 1", username))
	if err != nil {
		return nil, err
	}
	if err := r.loadRoles(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// FindByID fetches a user by id with roles resolved.
func (r *UserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if err != nil {
		return nil, err
	}
	if err := r.loadRoles(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// emailTaken reports whether another user already owns the email.
func (r *UserRepo) emailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM users WHERE email=? AND id<>? LIMIT 1", email, excludeID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns one page of users, ordered by id, with roles resolved.
func (r *UserRepo) List(ctx context.Context, page, size int) ([]*model.User, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id LIMIT ? OFFSET ?", size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, u := range users {
		if err := r.loadRoles(ctx, u); err != nil {
			return nil, 0, err
		}
	}
	return users, total, nil
}

// Create inserts a user and its role assignments inside one transaction.
// Username and email collisions surface as ErrUserNameExists / ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User, roleIDs []int64) (*model.User, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (full_name, email, phone, user_name, password, address, date_of_birth, created_at, is_active) VALUES (?,?,?,?,?,?,?,?,?)",
		u.FullName, u.Email, u.Phone, u.UserName, u.PasswordHash, u.Address, u.DateOfBirth, time.Now().UTC(), u.IsActive)
	if err != nil {
		if isDuplicate(err) {
			if strings.Contains(err.Error(), "uq_users_email") {
				return nil, ErrEmailExists
			}
			return nil, ErrUserNameExists
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := assignRolesTx(ctx, tx, id, roleIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// ReplaceRoles swaps a user's whole role set. An empty list clears every
// assignment.
func (r *UserRepo) ReplaceRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_roles WHERE user_id=?", userID); err != nil {
		return err
	}
	if err := assignRolesTx(ctx, tx, userID, roleIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// assignRolesTx inserts assignments, verifying every role id exists first.
// INSERT IGNORE makes a duplicate (user, role) pair a no-op against the
// unique key instead of an error.
func assignRolesTx(ctx context.Context, tx *sql.Tx, userID int64, roleIDs []int64) error {
	if len(roleIDs) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(roleIDs)), ",")
	args := make([]any, len(roleIDs))
	for i, id := range roleIDs {
		args[i] = id
	}
	var count int
	q := fmt.Sprintf("SELECT COUNT(*) FROM roles WHERE id IN (%s)", placeholders)
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&count); err != nil {
		return err
	}
	if count != len(roleIDs) {
		return ErrRoleNotFound
	}
	now := time.Now().UTC()
	for _, roleID := range roleIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT IGNORE INTO user_roles (user_id, role_id, assigned_at) VALUES (?,?,?)",
			userID, roleID, now); err != nil {
			return err
		}
	}
	return nil
}

// UpdateProfile writes the mutable profile fields of a user.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, email=?, phone=?, address=?, date_of_birth=? WHERE id=?",
		u.FullName, u.Email, u.Phone, u.Address, u.DateOfBirth, u.ID)
	if err != nil && isDuplicate(err) {
		return ErrEmailExists
	}
	return err
}

// UpdateStatus sets the stored is_active flag directly; no inversion happens
// here.
func (r *UserRepo) UpdateStatus(ctx context.Context, id int64, active bool) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET is_active=? WHERE id=?", active, id)
	return err
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET password=? WHERE id=?", hash, id)
	return err
}

// Delete removes a user; the foreign key cascades its role assignments.
// Returns sql.ErrNoRows when no row matched.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// EmailTaken is the exported duplicate-email probe used by handlers before
// profile and admin updates.
func (r *UserRepo) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.emailTaken(ctx, email, excludeID)
}

func (r *UserRepo) loadRoles(ctx context.Context, u *model.User) error {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.name, r.description
		 FROM roles r JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = ? ORDER BY r.id`, u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	u.Roles = u.Roles[:0]
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return err
		}
		u.Roles = append(u.Roles, role)
	}
	return rows.Err()
}

package model

import "time"

// User mirrors the `users` table. IsActive keeps the stored convention:
// 0 (false) means the account is in use, 1 (true) means it has been
// deactivated. The inversion happens once, at authentication.
type User struct {
	ID           int64      // users.id
	FullName     string     // users.full_name
	Email        string     // users.email (unique)
	Phone        string     // users.phone
	UserName     string     // users.user_name (unique)
	PasswordHash string     // users.password
	Address      string     // users.address
	DateOfBirth  *time.Time // users.date_of_birth (nullable)
	CreatedAt    time.Time  // users.created_at
	IsActive     bool       // users.is_active (true = deactivated)
	Roles        []Role     // resolved through user_roles
}

// Role mirrors the `roles` table.
type Role struct {
	ID          int64  // roles.id
	Name        string // roles.name (no unique key, duplicates allowed)
	Description string // roles.description
}

// UserRole mirrors the `user_roles` join table. Rows are owned by the user:
// deleting a user removes its assignments, and an admin role update replaces
// the whole set.
type UserRole struct {
	UserID     int64     // user_roles.user_id
	RoleID     int64     // user_roles.role_id
	AssignedAt time.Time // user_roles.assigned_at
}

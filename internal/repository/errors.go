// Package repository implements data access over database/sql. Sentinel
// errors let handlers distinguish failure scenarios without inspecting
// driver-specific error text themselves.
package repository

import "errors"

// ErrUserNameExists is returned when an insert or update collides with the
// unique user_name key.
var ErrUserNameExists = errors.New("username already exists")

// ErrEmailExists is returned when an insert or update collides with the
// unique email key.
var ErrEmailExists = errors.New("email already exists")

// ErrRoleNotFound is returned when one or more referenced role ids do not
// exist.
var ErrRoleNotFound = errors.New("role not found")

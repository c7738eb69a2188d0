package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hr-admin/internal/apperr"
	"github.com/iliyamo/hr-admin/internal/model"
	"github.com/iliyamo/hr-admin/internal/utils"
)

// UserStore is the slice of the user repository the authenticator needs: a
// username lookup that returns the user with its role assignments resolved.
type UserStore interface {
	FindByUserName(ctx context.Context, username string) (*model.User, error)
}

// Authenticator validates submitted credentials against the stored hash and
// produces a Principal with resolved roles.
type Authenticator struct {
	users UserStore
}

// NewAuthenticator wires the authenticator to its user store.
func NewAuthenticator(users UserStore) *Authenticator {
	return &Authenticator{users: users}
}

// Authenticate checks username/password and returns the Principal.
//
// Unknown usernames and wrong passwords share one InvalidCredentials message
// so callers cannot probe which usernames exist. A correct password for a
// disabled account fails with AccountDisabled; disabled state is not secret,
// so the distinct message is acceptable.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (Principal, error) {
	u, err := a.users.FindByUserName(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Principal{}, apperr.New(apperr.InvalidCredentials, "auth", "username or password is incorrect")
		}
		return Principal{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return Principal{}, apperr.New(apperr.InvalidCredentials, "auth", "username or password is incorrect")
	}
	p := NewPrincipal(u)
	if !p.Enabled {
		return Principal{}, apperr.New(apperr.AccountDisabled, "auth", "user account is disabled")
	}
	return p, nil
}

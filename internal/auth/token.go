// Package auth implements the authentication core: the token codec, the
// revocation blacklist, the principal model and the credential authenticator.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/hr-admin/internal/apperr"
)

// minKeyBytes is the smallest decoded secret HS256 accepts safely. A shorter
// secret is a deployment mistake and must stop the process at startup.
const minKeyBytes = 32

// Claims is the payload embedded in every issued token. Subject carries the
// username; Roles and Authorities are resolved once at sign-in and stay fixed
// for the token's lifetime, so role changes only take effect after the user
// authenticates again.
type Claims struct {
	Authorities []string `json:"authorities"`
	Roles       []string `json:"roles"`
	jwt.RegisteredClaims
}

// Codec signs and verifies access tokens. It holds no mutable state and is
// safe for unlimited concurrent use.
type Codec struct {
	key []byte
	ttl time.Duration
}

// NewCodec decodes the base64 signing secret and validates its length.
// ttlSeconds is the lifetime applied to every issued token.
func NewCodec(base64Secret string, ttlSeconds int64) (*Codec, error) {
	key, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("jwt secret is not valid base64: %w", err)
	}
	if len(key) < minKeyBytes {
		return nil, fmt.Errorf("jwt secret too short: %d bytes, need at least %d", len(key), minKeyBytes)
	}
	return &Codec{key: key, ttl: time.Duration(ttlSeconds) * time.Second}, nil
}

// Issue signs an HS256 token for the principal and returns it together with
// its expiry instant.
func (c *Codec) Issue(p Principal) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(c.ttl)
	claims := Claims{
		Authorities: p.Authorities,
		Roles:       p.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses the token and checks its signature and expiry. Callers must
// additionally consult the blacklist; a verified token may still be revoked.
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.New(apperr.TokenExpired, "auth", "token has expired")
		}
		return nil, apperr.New(apperr.TokenInvalid, "auth", "token is invalid")
	}
	if !tok.Valid {
		return nil, apperr.New(apperr.TokenInvalid, "auth", "token is invalid")
	}
	return claims, nil
}

// Subject returns the username a set of claims was issued for.
func Subject(claims *Claims) string { return claims.Subject }

// Expiry returns the expiry instant of a set of claims. The zero time is
// returned when the claim is absent, which Verify already rejects.
func Expiry(claims *Claims) time.Time {
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

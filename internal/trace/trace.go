// Package trace carries the per-request correlation id through the request
// context. The id is never stored globally; it lives and dies with the
// request's context.Context, so concurrent requests cannot observe each
// other's id and nothing has to be cleared when a worker is reused.
package trace

import (
	"context"

	"github.com/google/uuid"
)

// HeaderRequestID is the header the id is read from and mirrored back on.
const HeaderRequestID = "X-Request-Id"

type ctxKey struct{}

// With returns a child context carrying the trace id.
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the trace id stored in ctx, or "" when absent.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// NewID generates a fresh random correlation id for requests that arrive
// without one.
func NewID() string {
	return uuid.NewString()
}

package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, ResourceNotFound, KindOf(New(ResourceNotFound, "user", "user not found")))
	require.Equal(t, Internal, KindOf(errors.New("driver: bad connection")))
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := WithDetails(ValidationFailed, "user", "validation failed",
		map[string]any{"email": "email must be valid"})
	require.Equal(t, ValidationFailed, err.Kind)
	require.Equal(t, "email must be valid", err.Details["email"])
	require.Contains(t, err.Error(), "VALIDATION_FAILED")
}

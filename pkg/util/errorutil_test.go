package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	t.Parallel()

	original := NewDuplicateEmail("joana@example.com")
	mapped := ToDomainError(original)
	require.Equal(t, "DUPLICATE_EMAIL", mapped.Code)
	require.Equal(t, http.StatusConflict, mapped.HTTPStatus)
	require.Equal(t, "joana@example.com", mapped.Details["email"])
}

func TestToDomainErrorWrapped(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("register: %w", NewInvalidCredentials())
	mapped := ToDomainError(wrapped)
	require.Equal(t, "INVALID_CREDENTIALS", mapped.Code)
	require.Equal(t, "invalid credentials", mapped.Message)
	require.Equal(t, http.StatusUnauthorized, mapped.HTTPStatus)
}

func TestToDomainErrorNoRows(t *testing.T) {
	t.Parallel()

	mapped := ToDomainError(sql.ErrNoRows)
	require.Equal(t, "NOT_FOUND", mapped.Code)
	require.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorUnknown(t *testing.T) {
	t.Parallel()

	mapped := ToDomainError(errors.New("boom"))
	require.Equal(t, "INTERNAL_ERROR", mapped.Code)
	require.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	require.Equal(t, "internal server error", mapped.Message)
}

func TestToDomainErrorNil(t *testing.T) {
	t.Parallel()

	require.Nil(t, ToDomainError(nil))
}

func TestDomainErrorMessageIncludesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("pool exhausted")
	err := NewInternalError(cause)
	require.Contains(t, err.Error(), "pool exhausted")
	require.ErrorIs(t, err, cause)
}

package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewNotFound("ticket not found", "no ticket with uid \"x\"")
	mapped := ToDomainError(original)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading ticket: %w", NewForbidden("insufficient permissions", ""))
	mapped := ToDomainError(wrapped)
	assert.Equal(t, "FORBIDDEN", mapped.Code)
}

func TestToDomainErrorNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)

	mapped = ToDomainError(fmt.Errorf("query: %w", pgx.ErrNoRows))
	assert.Equal(t, "NOT_FOUND", mapped.Code)
}

func TestToDomainErrorUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	assert.Equal(t, "boom", mapped.Info)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternalError("error saving file", cause)
	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.ErrorIs(t, err, cause)
}

func TestStoreInconsistencyIsServerFault(t *testing.T) {
	mapped := ToDomainError(NewStoreInconsistency("attachment file missing from storage", ""))
	assert.Equal(t, "STORE_INCONSISTENT", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

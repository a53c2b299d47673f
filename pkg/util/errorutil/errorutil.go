package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors. Message is the short
// human-readable part of the response; Info carries optional technical detail.
type DomainError struct {
	Code       string
	Message    string
	Info       string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Info != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Info)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewInvalidFilter flags a rejected filter/order/search expression.
func NewInvalidFilter(message, info string) error {
	return &DomainError{Code: "INVALID_FILTER", Message: message, Info: info, HTTPStatus: http.StatusBadRequest}
}

// NewValidationError flags malformed client input.
func NewValidationError(message, info string) error {
	return &DomainError{Code: "VALIDATION_FAILED", Message: message, Info: info, HTTPStatus: http.StatusBadRequest}
}

// NewNotFound reports a missing resource.
func NewNotFound(message, info string) error {
	return &DomainError{Code: "NOT_FOUND", Message: message, Info: info, HTTPStatus: http.StatusNotFound}
}

// NewConflict reports a uniqueness violation.
func NewConflict(message, info string) error {
	return &DomainError{Code: "CONFLICT", Message: message, Info: info, HTTPStatus: http.StatusConflict}
}

// NewUnauthorized reports a missing or invalid credential.
func NewUnauthorized(message string) error {
	return &DomainError{Code: "UNAUTHORIZED", Message: message, HTTPStatus: http.StatusUnauthorized}
}

// NewForbidden reports an actor lacking permission.
func NewForbidden(message, info string) error {
	return &DomainError{Code: "FORBIDDEN", Message: message, Info: info, HTTPStatus: http.StatusForbidden}
}

// NewInternalError wraps an unexpected failure. The original error is kept as
// diagnostic detail and never leaks to the client beyond the info string.
func NewInternalError(message string, err error) error {
	info := ""
	if err != nil {
		info = err.Error()
	}
	return &DomainError{Code: "INTERNAL_ERROR", Message: message, Info: info, HTTPStatus: http.StatusInternalServerError, Err: err}
}

// NewStoreInconsistency reports a file missing from disk despite its database
// record. Always a server fault, never a client error.
func NewStoreInconsistency(message, info string) error {
	return &DomainError{Code: "STORE_INCONSISTENT", Message: message, Info: info, HTTPStatus: http.StatusInternalServerError}
}

// ToDomainError converts generic errors to DomainError, mapping the driver's
// no-rows sentinel to 404 and everything else unexpected to 500.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &DomainError{Code: "NOT_FOUND", Message: "resource not found", HTTPStatus: http.StatusNotFound, Err: err}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		Info:       err.Error(),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

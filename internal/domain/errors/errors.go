package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInternal     = errors.New("internal server error")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource already exists")
	ErrForbidden    = errors.New("access denied")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("invalid input")

	// Authentication failures. Login and refresh deliberately collapse every
	// sub-failure into these so callers cannot enumerate account or token state.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrRevokedToken        = errors.New("token has been revoked")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrResetTokenNotFound = errors.New("password reset token not found")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
)

// DuplicateKeyError is returned by the store layer when a unique constraint
// is violated. The conflicting field is carried explicitly instead of being
// sniffed out of an error message.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

// Is makes every DuplicateKeyError match ErrConflict under errors.Is.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrConflict
}

// NewDuplicateKeyError creates a DuplicateKeyError for the given field.
func NewDuplicateKeyError(field string) *DuplicateKeyError {
	return &DuplicateKeyError{Field: field}
}

// IsNotFound reports whether err is a "not found" class error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrRoleNotFound) ||
		errors.Is(err, ErrPermissionNotFound) ||
		errors.Is(err, ErrResetTokenNotFound)
}

// IsConflict reports whether err is a duplicate/conflict class error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsUnauthorized reports whether err is an authentication class error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrRevokedToken) ||
		errors.Is(err, ErrInvalidRefreshToken)
}

// IsForbidden reports whether err is an authorization class error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsValidation reports whether err is a malformed-input class error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrPasswordTooShort)
}

package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per failure class the API distinguishes.
// Handlers map them to HTTP statuses via StatusCode.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrAuthorization  = errors.New("authorization error")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func RequiredError(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Resource, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

func NewConflictError(resource, reason string) error {
	return &ConflictError{Resource: resource, Reason: reason}
}

type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string { return e.Reason }

func (e *AuthenticationError) Unwrap() error { return ErrAuthentication }

func NewAuthenticationError(reason string) error {
	return &AuthenticationError{Reason: reason}
}

type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return e.Reason }

func (e *AuthorizationError) Unwrap() error { return ErrAuthorization }

func NewAuthorizationError(reason string) error {
	return &AuthorizationError{Reason: reason}
}

func IsValidation(err error) bool     { return errors.Is(err, ErrValidation) }
func IsAuthentication(err error) bool { return errors.Is(err, ErrAuthentication) }
func IsAuthorization(err error) bool  { return errors.Is(err, ErrAuthorization) }
func IsNotFound(err error) bool       { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool       { return errors.Is(err, ErrConflict) }

// StatusCode maps an error to the HTTP status the API surfaces.
// Anything unrecognized is a 500; callers log it and return a generic message.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return 400
	case errors.Is(err, ErrAuthentication):
		return 401
	case errors.Is(err, ErrAuthorization):
		return 403
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrConflict):
		return 409
	default:
		return 500
	}
}

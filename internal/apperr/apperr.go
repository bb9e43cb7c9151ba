package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain taxonomy. Handlers map these onto HTTP
// status codes; everything else is treated as an upstream store failure.
var (
	ErrNotFound        = errors.New("not found")
	ErrExpired         = errors.New("expired")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrValidation      = errors.New("validation failed")
	ErrUpstream        = errors.New("upstream failure")
)

func NotFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

func Expired(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrExpired)
}

func Forbidden(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrForbidden)
}

func Validation(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrValidation)
}

// Upstream wraps an external store or network error so callers can
// distinguish it from domain failures without inspecting the cause.
func Upstream(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}

func IsNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
func IsExpired(err error) bool         { return errors.Is(err, ErrExpired) }
func IsForbidden(err error) bool       { return errors.Is(err, ErrForbidden) }
func IsUnauthenticated(err error) bool { return errors.Is(err, ErrUnauthenticated) }
func IsValidation(err error) bool      { return errors.Is(err, ErrValidation) }

package domain

import (
	"errors"
	"fmt"
)

// UnauthorizedError indicates the actor failed a permission predicate. It is
// always raised before any write in the enclosing mutator.
type UnauthorizedError struct {
	Reason string
}

func (e UnauthorizedError) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}
	return "unauthorized: " + e.Reason
}

// NotFoundError indicates a referenced row did not exist at read time.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ValidationError indicates a structural or business-rule violation caught
// before any write.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// UpstreamError wraps a failure from an external collaborator (identity
// provider, asset store) after best-effort compensation.
type UpstreamError struct {
	System string
	Err    error
}

func (e UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.System, e.Err)
}

func (e UpstreamError) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err is (or wraps) an UnauthorizedError.
func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

// IsUpstream reports whether err is (or wraps) an UpstreamError.
func IsUpstream(err error) bool {
	var target UpstreamError
	return errors.As(err, &target)
}

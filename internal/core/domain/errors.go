package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTokenMissing       = errors.New("token missing")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidID          = errors.New("invalid id format")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("access forbidden")
)

// ValidationError carries every violated rule of a schema check.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// NotFoundError is returned both for absent records and for records outside the
// caller's scope. The two cases are deliberately indistinguishable.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found or access denied"
}

// RuleError is a business-rule rejection whose message is safe to show.
type RuleError struct {
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

// DuplicateError reports a unique-key collision on Field.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// Rule returns a RuleError carrying message verbatim.
func Rule(message string) error {
	return &RuleError{Message: message}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

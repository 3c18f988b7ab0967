package domain

import "errors"

// ErrNotFound is matched by every NotFoundError so callers can use errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError indicates the addressed entity does not exist.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound builds a NotFoundError for the given entity name and id.
func NotFound(entity string, id int) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ReferenceError indicates a supplied foreign key does not resolve. The store
// is left untouched when it is returned.
type ReferenceError struct {
	Entity string
	ID     int
}

func (e *ReferenceError) Error() string { return e.Entity + " not found" }

// ValidationError reports a request that is missing required input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid builds a ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

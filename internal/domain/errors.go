// Package domain defines core types, interfaces, and errors for the vault.
package domain

import "fmt"

// NotFoundError indicates a workspace, artifact, or revision was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AccessDeniedError indicates the ACL gate rejected the caller. It never
// implies the artifact does not exist.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a duplicate resource or a concurrent update that
// could not be retried to completion.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// LockedError indicates the artifact is checked out by another user.
type LockedError struct {
	Message string
	Holder  string
}

func (e *LockedError) Error() string { return e.Message }

// NotLockHolderError indicates the caller does not hold the checkout lock
// required for the operation.
type NotLockHolderError struct {
	Message string
}

func (e *NotLockHolderError) Error() string { return e.Message }

// IntegrityError indicates ledger corruption, e.g. a broken version label
// chain. It is never retried.
type IntegrityError struct {
	Message string
}

func (e *IntegrityError) Error() string { return e.Message }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrAccessDenied creates an AccessDeniedError with a formatted message.
func ErrAccessDenied(format string, args ...interface{}) *AccessDeniedError {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrLocked creates a LockedError naming the current lock holder.
func ErrLocked(holder string, format string, args ...interface{}) *LockedError {
	return &LockedError{Message: fmt.Sprintf(format, args...), Holder: holder}
}

// ErrNotLockHolder creates a NotLockHolderError with a formatted message.
func ErrNotLockHolder(format string, args ...interface{}) *NotLockHolderError {
	return &NotLockHolderError{Message: fmt.Sprintf(format, args...)}
}

// ErrIntegrity creates an IntegrityError with a formatted message.
func ErrIntegrity(format string, args ...interface{}) *IntegrityError {
	return &IntegrityError{Message: fmt.Sprintf(format, args...)}
}

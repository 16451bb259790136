package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of store error.
type ErrorType int

const (
	// ErrorTypeNotFound indicates no view matched the given ID or name.
	ErrorTypeNotFound ErrorType = iota
	// ErrorTypeInvalidData indicates a stored record could not be decoded.
	ErrorTypeInvalidData
	// ErrorTypeDatabase indicates a bbolt operation failed.
	ErrorTypeDatabase
	// ErrorTypeConfiguration indicates the store could not be set up.
	ErrorTypeConfiguration
	// ErrorTypeValidation indicates a view was rejected before being written.
	ErrorTypeValidation
)

// Error represents a store-specific error.
type Error struct {
	Type    ErrorType
	Op      string
	Key     string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("operation: %s", e.Op))
	}
	if e.Key != "" {
		parts = append(parts, fmt.Sprintf("key: %s", e.Key))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Err != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Err))
	}

	return fmt.Sprintf("store error [%s]: %s", e.Type, strings.Join(parts, ", "))
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeInvalidData:
		return "invalid_data"
	case ErrorTypeDatabase:
		return "database"
	case ErrorTypeConfiguration:
		return "configuration"
	case ErrorTypeValidation:
		return "validation"
	default:
		return "unknown"
	}
}

func newNotFoundError(op, key string) *Error {
	return &Error{
		Type:    ErrorTypeNotFound,
		Op:      op,
		Key:     key,
		Message: "view not found",
	}
}

func newInvalidDataError(op, key string, err error) *Error {
	return &Error{
		Type:    ErrorTypeInvalidData,
		Op:      op,
		Key:     key,
		Message: "corrupt view record",
		Err:     err,
	}
}

func newDatabaseError(op, key string, err error) *Error {
	return &Error{
		Type:    ErrorTypeDatabase,
		Op:      op,
		Key:     key,
		Message: "database operation failed",
		Err:     err,
	}
}

func newConfigurationError(message string, err error) *Error {
	return &Error{
		Type:    ErrorTypeConfiguration,
		Message: message,
		Err:     err,
	}
}

func newValidationError(op, key, message string, err error) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Op:      op,
		Key:     key,
		Message: message,
		Err:     err,
	}
}

func hasType(err error, typ ErrorType) bool {
	var storeErr *Error
	return errors.As(err, &storeErr) && storeErr.Type == typ
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool {
	return hasType(err, ErrorTypeNotFound)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsDatabaseError reports whether err is a database error.
func IsDatabaseError(err error) bool {
	return hasType(err, ErrorTypeDatabase)
}

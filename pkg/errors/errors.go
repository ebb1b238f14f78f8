// Package errors defines error types and utilities for criteria compilation
package errors

import (
	"errors"
	"fmt"
)

// Common errors that can occur while parsing or compiling criteria
var (
	// ErrInvalidCriteria is returned when a value does not satisfy the criteria contract
	ErrInvalidCriteria = errors.New("invalid criteria")

	// ErrInvalidDescriptor is returned when a criteria type declares an invalid descriptor table
	ErrInvalidDescriptor = errors.New("invalid criteria descriptor")

	// ErrUnknownProperty is returned when a changed field has no matching descriptor property
	ErrUnknownProperty = errors.New("unknown criteria property")

	// ErrUnresolvedPath is returned when an expression path cannot be resolved against a criteria type
	ErrUnresolvedPath = errors.New("unresolved criteria path")

	// ErrConversion is returned when text cannot be converted to the declared type
	ErrConversion = errors.New("value conversion failed")

	// ErrUnsupportedType is returned when a declared type has no text conversion
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidOperator is returned when an unknown condition operator is used
	ErrInvalidOperator = errors.New("invalid condition operator")

	// ErrInvalidRange is returned when range text is malformed
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidMixture is returned when mixture text is malformed
	ErrInvalidMixture = errors.New("invalid mixture")

	// ErrInvalidPaging is returned when paging text is malformed
	ErrInvalidPaging = errors.New("invalid paging")

	// ErrInvalidSorting is returned when sorting text is malformed
	ErrInvalidSorting = errors.New("invalid sorting")

	// ErrInvalidExpression is returned when a criteria expression cannot be tokenized
	ErrInvalidExpression = errors.New("invalid criteria expression")

	// ErrExpressionTooLong is returned when a criteria expression exceeds the configured limit
	ErrExpressionTooLong = errors.New("criteria expression too long")

	// ErrInvalidSchema is returned when a criteria schema document is invalid
	ErrInvalidSchema = errors.New("invalid criteria schema")

	// ErrInvalidConfig is returned when configuration values are out of range
	ErrInvalidConfig = errors.New("invalid configuration")
)

// CriteriaError represents a detailed error with context
type CriteriaError struct {
	Op   string // Operation that failed
	Type string // Criteria type name
	Err  error  // Underlying error
}

// Error implements the error interface
func (e *CriteriaError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("criteria: %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("criteria: %s %s failed: %v", e.Op, e.Type, e.Err)
}

// Unwrap returns the underlying error
func (e *CriteriaError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *CriteriaError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new CriteriaError
func NewError(op, typeName string, err error) *CriteriaError {
	return &CriteriaError{
		Op:   op,
		Type: typeName,
		Err:  err,
	}
}

// PathError reports a criteria expression pair that could not be applied.
type PathError struct {
	Path string // Dot-delimited member path from the expression
	Type string // Criteria type the path was resolved against
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("criteria: cannot populate %q on %s: %v", e.Path, e.Type, e.Err)
}

// Unwrap returns the underlying error
func (e *PathError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *PathError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewPathError creates a new PathError
func NewPathError(path, typeName string, err error) *PathError {
	return &PathError{
		Path: path,
		Type: typeName,
		Err:  err,
	}
}

// IsUnresolvedPath checks if an error indicates an expression path did not resolve
func IsUnresolvedPath(err error) bool {
	return errors.Is(err, ErrUnresolvedPath)
}

// IsConversion checks if an error indicates a text conversion failure
func IsConversion(err error) bool {
	return errors.Is(err, ErrConversion)
}

// IsInvalidDescriptor checks if an error indicates a broken descriptor table
func IsInvalidDescriptor(err error) bool {
	return errors.Is(err, ErrInvalidDescriptor)
}

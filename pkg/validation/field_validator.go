// Package validation bounds untrusted criteria expressions before they reach
// the populator.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
)

// SecurityError represents a rejected expression, path or value
type SecurityError struct {
	Type   string
	Field  string
	Detail string
	Err    error
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("security validation failed [%s]: %s - %s", e.Type, e.Field, e.Detail)
}

// Unwrap returns the criteria sentinel the rejection maps to
func (e *SecurityError) Unwrap() error {
	return e.Err
}

// Default limits
const (
	MaxSegmentLength    = 255
	MaxPathDepth        = 8
	MaxExpressionLength = 4096
	MaxValueLength      = 1024
	MaxListItems        = 100
)

var segmentPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Limits bounds the size and shape of criteria expressions. A zero field
// means the default for that limit.
type Limits struct {
	MaxExpressionLength int
	MaxPathDepth        int
	MaxValueLength      int
	MaxListItems        int
}

// DefaultLimits returns the default limits
func DefaultLimits() Limits {
	return Limits{
		MaxExpressionLength: MaxExpressionLength,
		MaxPathDepth:        MaxPathDepth,
		MaxValueLength:      MaxValueLength,
		MaxListItems:        MaxListItems,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxExpressionLength <= 0 {
		l.MaxExpressionLength = d.MaxExpressionLength
	}
	if l.MaxPathDepth <= 0 {
		l.MaxPathDepth = d.MaxPathDepth
	}
	if l.MaxValueLength <= 0 {
		l.MaxValueLength = d.MaxValueLength
	}
	if l.MaxListItems <= 0 {
		l.MaxListItems = d.MaxListItems
	}
	return l
}

// ValidateExpression checks the overall length of an expression and rejects
// control characters
func (l Limits) ValidateExpression(expression string) error {
	l = l.withDefaults()

	if len(expression) > l.MaxExpressionLength {
		return &SecurityError{
			Type:   "InvalidExpression",
			Field:  "expression",
			Detail: fmt.Sprintf("expression exceeds maximum length of %d characters", l.MaxExpressionLength),
			Err:    criteriaErrors.ErrExpressionTooLong,
		}
	}

	for _, r := range expression {
		if unicode.IsControl(r) && r != '\t' {
			return &SecurityError{
				Type:   "InvalidExpression",
				Field:  "expression",
				Detail: "expression contains control characters",
				Err:    criteriaErrors.ErrInvalidExpression,
			}
		}
	}

	return nil
}

// ValidatePath checks a dot-delimited property path: depth and the
// identifier syntax of each segment
func (l Limits) ValidatePath(path string) error {
	l = l.withDefaults()

	if path == "" {
		return &SecurityError{
			Type:   "InvalidPath",
			Field:  path,
			Detail: "path cannot be empty",
			Err:    criteriaErrors.ErrUnresolvedPath,
		}
	}

	parts := strings.Split(path, ".")
	if len(parts) > l.MaxPathDepth {
		return &SecurityError{
			Type:   "InvalidPath",
			Field:  path,
			Detail: fmt.Sprintf("path depth exceeds maximum of %d", l.MaxPathDepth),
			Err:    criteriaErrors.ErrUnresolvedPath,
		}
	}

	for _, part := range parts {
		if err := validateSegment(part); err != nil {
			return &SecurityError{
				Type:   "InvalidPath",
				Field:  path,
				Detail: fmt.Sprintf("invalid segment '%s': %s", part, err.Error()),
				Err:    criteriaErrors.ErrUnresolvedPath,
			}
		}
	}

	return nil
}

// validateSegment validates a single part of a path
func validateSegment(part string) error {
	if part == "" {
		return fmt.Errorf("segment cannot be empty")
	}

	if len(part) > MaxSegmentLength {
		return fmt.Errorf("segment exceeds maximum length of %d characters", MaxSegmentLength)
	}

	if !segmentPattern.MatchString(part) {
		return fmt.Errorf("segment must start with letter or underscore and contain only alphanumeric characters and underscores")
	}

	return nil
}

// ValidateValue checks the raw text of one value
func (l Limits) ValidateValue(path, text string) error {
	l = l.withDefaults()

	if len(text) > l.MaxValueLength {
		return &SecurityError{
			Type:   "InvalidValue",
			Field:  path,
			Detail: fmt.Sprintf("value exceeds maximum length of %d characters", l.MaxValueLength),
			Err:    criteriaErrors.ErrConversion,
		}
	}

	return nil
}

// ValidateList checks the item count of a list value
func (l Limits) ValidateList(path string, items int) error {
	l = l.withDefaults()

	if items > l.MaxListItems {
		return &SecurityError{
			Type:   "InvalidValue",
			Field:  path,
			Detail: fmt.Sprintf("list value exceeds maximum of %d items", l.MaxListItems),
			Err:    criteriaErrors.ErrConversion,
		}
	}

	return nil
}

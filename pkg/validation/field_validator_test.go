package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
)

// TestPathValidation tests property path validation
func TestPathValidation(t *testing.T) {
	limits := DefaultLimits()

	t.Run("ValidPaths", func(t *testing.T) {
		validPaths := []string{
			"Name",
			"user_id",
			"_internal",
			"customer.email",
			"a.b.c.d.e.f.g.h",
		}

		for _, path := range validPaths {
			t.Run(path, func(t *testing.T) {
				assert.NoError(t, limits.ValidatePath(path), "Valid path should not error: %s", path)
			})
		}
	})

	t.Run("RejectInvalidPaths", func(t *testing.T) {
		invalidPaths := []string{
			"",
			"customer.",
			".email",
			"a..b",
			"1abc",
			"name; drop",
			"name-with-dash",
			strings.Repeat("a", MaxSegmentLength+1),
		}

		for _, path := range invalidPaths {
			t.Run(path, func(t *testing.T) {
				err := limits.ValidatePath(path)
				assert.Error(t, err, "Should reject path: %q", path)
				assert.ErrorIs(t, err, criteriaErrors.ErrUnresolvedPath)
			})
		}
	})

	t.Run("RejectDeepPaths", func(t *testing.T) {
		err := limits.ValidatePath("a.b.c.d.e.f.g.h.i")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "depth exceeds maximum of 8")

		shallow := Limits{MaxPathDepth: 2}
		assert.NoError(t, shallow.ValidatePath("a.b"))
		assert.Error(t, shallow.ValidatePath("a.b.c"))
	})
}

// TestExpressionValidation tests expression length and content limits
func TestExpressionValidation(t *testing.T) {
	t.Run("AcceptsOrdinaryExpression", func(t *testing.T) {
		assert.NoError(t, DefaultLimits().ValidateExpression("status=open;\tage=(18~65)"))
	})

	t.Run("RejectsLongExpression", func(t *testing.T) {
		limits := Limits{MaxExpressionLength: 10}
		err := limits.ValidateExpression(strings.Repeat("x", 11))
		assert.ErrorIs(t, err, criteriaErrors.ErrExpressionTooLong)

		var secErr *SecurityError
		assert.True(t, errors.As(err, &secErr))
		assert.Equal(t, "InvalidExpression", secErr.Type)
	})

	t.Run("RejectsControlCharacters", func(t *testing.T) {
		err := DefaultLimits().ValidateExpression("status=open\x00")
		assert.ErrorIs(t, err, criteriaErrors.ErrInvalidExpression)
		assert.Contains(t, err.Error(), "control characters")
	})
}

// TestValueValidation tests value size limits
func TestValueValidation(t *testing.T) {
	limits := Limits{MaxValueLength: 5, MaxListItems: 2}

	assert.NoError(t, limits.ValidateValue("name", "abcde"))
	err := limits.ValidateValue("name", "abcdef")
	assert.ErrorIs(t, err, criteriaErrors.ErrConversion)
	assert.Contains(t, err.Error(), "name")

	assert.NoError(t, limits.ValidateList("tags", 2))
	assert.ErrorIs(t, limits.ValidateList("tags", 3), criteriaErrors.ErrConversion)
}

func TestZeroLimitsUseDefaults(t *testing.T) {
	var limits Limits
	assert.NoError(t, limits.ValidateExpression(strings.Repeat("x", MaxExpressionLength)))
	assert.Error(t, limits.ValidateExpression(strings.Repeat("x", MaxExpressionLength+1)))
	assert.NoError(t, limits.ValidateList("tags", MaxListItems))
}

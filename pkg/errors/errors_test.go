package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
)

func TestCriteriaError(t *testing.T) {
	err := criteriaErrors.NewError("compile", "OrderCriteria", fmt.Errorf("%w: Status", criteriaErrors.ErrUnknownProperty))

	assert.Equal(t, "criteria: compile OrderCriteria failed: unknown criteria property: Status", err.Error())
	assert.ErrorIs(t, err, criteriaErrors.ErrUnknownProperty)
	assert.NotErrorIs(t, err, criteriaErrors.ErrConversion)

	untyped := criteriaErrors.NewError("populate", "", criteriaErrors.ErrInvalidExpression)
	assert.Equal(t, "criteria: populate failed: invalid criteria expression", untyped.Error())
}

func TestPathError(t *testing.T) {
	inner := fmt.Errorf("%w: %q as int", criteriaErrors.ErrConversion, "abc")
	var err error = criteriaErrors.NewPathError("customer.age", "OrderCriteria", inner)

	assert.Equal(t, `criteria: cannot populate "customer.age" on OrderCriteria: value conversion failed: "abc" as int`, err.Error())
	assert.True(t, criteriaErrors.IsConversion(err))
	assert.False(t, criteriaErrors.IsUnresolvedPath(err))

	var pathErr *criteriaErrors.PathError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &pathErr))
	assert.Equal(t, "customer.age", pathErr.Path)
}

func TestHelpers(t *testing.T) {
	assert.True(t, criteriaErrors.IsUnresolvedPath(fmt.Errorf("%w: a.b", criteriaErrors.ErrUnresolvedPath)))
	assert.True(t, criteriaErrors.IsInvalidDescriptor(criteriaErrors.NewError("describe", "X", criteriaErrors.ErrInvalidDescriptor)))
	assert.False(t, criteriaErrors.IsInvalidDescriptor(nil))
}

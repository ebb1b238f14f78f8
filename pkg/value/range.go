// Package value provides the composite filter values used by criteria:
// inclusive ranges with optional bounds and discrete-set-or-range mixtures.
package value

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/pay-theory/criteria/pkg/condition"
	"github.com/pay-theory/criteria/pkg/convert"
	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
)

// Conditioner is implemented by filter values that produce their own condition
type Conditioner interface {
	// IsEmpty reports whether the value carries nothing to filter on
	IsEmpty() bool
	// ToCondition returns the condition for name, or nil when empty
	ToCondition(name string) *condition.Condition
}

const (
	rangeSeparator = "~"
	rangeOpen      = "("
	rangeClose     = ")"
)

// Range is an inclusive interval whose ends may be unbounded. The minimum
// never exceeds the maximum: reversed bounds are swapped whenever they are
// supplied. Ranges are comparable with ==.
type Range[T cmp.Ordered] struct {
	minimum    T
	maximum    T
	hasMinimum bool
	hasMaximum bool
}

// NewRange creates a range with both bounds set
func NewRange[T cmp.Ordered](minimum, maximum T) Range[T] {
	if minimum > maximum {
		minimum, maximum = maximum, minimum
	}
	return Range[T]{
		minimum:    minimum,
		maximum:    maximum,
		hasMinimum: true,
		hasMaximum: true,
	}
}

// AtLeast creates a range with only a lower bound
func AtLeast[T cmp.Ordered](minimum T) Range[T] {
	return Range[T]{minimum: minimum, hasMinimum: true}
}

// AtMost creates a range with only an upper bound
func AtMost[T cmp.Ordered](maximum T) Range[T] {
	return Range[T]{maximum: maximum, hasMaximum: true}
}

// Minimum returns the lower bound and whether it is set
func (r Range[T]) Minimum() (T, bool) {
	return r.minimum, r.hasMinimum
}

// Maximum returns the upper bound and whether it is set
func (r Range[T]) Maximum() (T, bool) {
	return r.maximum, r.hasMaximum
}

// SetMinimum sets the lower bound, swapping with the upper bound if needed
func (r *Range[T]) SetMinimum(v T) {
	r.minimum, r.hasMinimum = v, true
	r.normalize()
}

// SetMaximum sets the upper bound, swapping with the lower bound if needed
func (r *Range[T]) SetMaximum(v T) {
	r.maximum, r.hasMaximum = v, true
	r.normalize()
}

// ClearMinimum makes the lower bound unbounded
func (r *Range[T]) ClearMinimum() {
	var zero T
	r.minimum, r.hasMinimum = zero, false
}

// ClearMaximum makes the upper bound unbounded
func (r *Range[T]) ClearMaximum() {
	var zero T
	r.maximum, r.hasMaximum = zero, false
}

func (r *Range[T]) normalize() {
	if r.hasMinimum && r.hasMaximum && r.minimum > r.maximum {
		r.minimum, r.maximum = r.maximum, r.minimum
	}
}

// IsEmpty reports whether both bounds are unset
func (r Range[T]) IsEmpty() bool {
	return !r.hasMinimum && !r.hasMaximum
}

// Contains reports whether v lies inside the range. An empty range contains everything.
func (r Range[T]) Contains(v T) bool {
	if r.hasMinimum && v < r.minimum {
		return false
	}
	if r.hasMaximum && v > r.maximum {
		return false
	}
	return true
}

// ToCondition converts the range to a condition on name:
// Equal when both bounds match, GreaterThanEqual or LessThanEqual when only
// one bound is set, Between otherwise. An empty range yields nil.
func (r Range[T]) ToCondition(name string) *condition.Condition {
	switch {
	case r.hasMinimum && r.hasMaximum:
		if r.minimum == r.maximum {
			return condition.New(name, condition.Equal, r.minimum)
		}
		return condition.New(name, condition.Between, r)
	case r.hasMinimum:
		return condition.New(name, condition.GreaterThanEqual, r.minimum)
	case r.hasMaximum:
		return condition.New(name, condition.LessThanEqual, r.maximum)
	default:
		return nil
	}
}

// String formats the range as "(min~max)" with unbounded ends left blank
func (r Range[T]) String() string {
	var b strings.Builder
	b.WriteString(rangeOpen)
	if r.hasMinimum {
		fmt.Fprint(&b, r.minimum)
	}
	b.WriteString(rangeSeparator)
	if r.hasMaximum {
		fmt.Fprint(&b, r.maximum)
	}
	b.WriteString(rangeClose)
	return b.String()
}

// MarshalText encodes the range in its text grammar
func (r Range[T]) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes the range text grammar
func (r *Range[T]) UnmarshalText(text []byte) error {
	parsed, err := ParseRange[T](string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRange parses "(min~max)". The parentheses are optional, exactly one
// "~" is required, and a blank, "*" or "?" side is unbounded. A side that is
// present but not convertible fails the whole parse.
func ParseRange[T cmp.Ordered](text string) (Range[T], error) {
	var r Range[T]

	body, err := unwrapRange(text)
	if err != nil {
		return Range[T]{}, err
	}

	left, right, _ := strings.Cut(body, rangeSeparator)

	if bound, ok, err := parseBound[T](left); err != nil {
		return Range[T]{}, fmt.Errorf("%w: %q: %v", criteriaErrors.ErrInvalidRange, text, err)
	} else if ok {
		r.minimum, r.hasMinimum = bound, true
	}

	if bound, ok, err := parseBound[T](right); err != nil {
		return Range[T]{}, fmt.Errorf("%w: %q: %v", criteriaErrors.ErrInvalidRange, text, err)
	} else if ok {
		r.maximum, r.hasMaximum = bound, true
	}

	r.normalize()
	return r, nil
}

// TryParseRange is ParseRange reporting failure as false with an empty range
func TryParseRange[T cmp.Ordered](text string) (Range[T], bool) {
	r, err := ParseRange[T](text)
	if err != nil {
		return Range[T]{}, false
	}
	return r, true
}

func unwrapRange(text string) (string, error) {
	body := strings.TrimSpace(text)

	opened := strings.HasPrefix(body, rangeOpen)
	closed := strings.HasSuffix(body, rangeClose)
	if opened != closed {
		return "", fmt.Errorf("%w: unbalanced parentheses in %q", criteriaErrors.ErrInvalidRange, text)
	}
	if opened {
		body = body[len(rangeOpen) : len(body)-len(rangeClose)]
	}

	if strings.Count(body, rangeSeparator) != 1 {
		return "", fmt.Errorf("%w: %q requires exactly one %q", criteriaErrors.ErrInvalidRange, text, rangeSeparator)
	}
	return body, nil
}

func parseBound[T cmp.Ordered](side string) (T, bool, error) {
	var zero T
	side = strings.TrimSpace(side)
	if side == "" || side == "*" || side == "?" {
		return zero, false, nil
	}
	v, err := convert.To[T](side)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

package value

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/pay-theory/criteria/pkg/condition"
	"github.com/pay-theory/criteria/pkg/convert"
	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
)

// Mixture is a filter value that is either a discrete set or a range.
// A non-empty Discrete set takes precedence over Range.
type Mixture[T cmp.Ordered] struct {
	Discrete []T
	Range    Range[T]
}

// Values creates a mixture holding a discrete set
func Values[T cmp.Ordered](values ...T) Mixture[T] {
	return Mixture[T]{Discrete: values}
}

// Ranged creates a mixture holding a range
func Ranged[T cmp.Ordered](r Range[T]) Mixture[T] {
	return Mixture[T]{Range: r}
}

// HasValue reports whether either the discrete set or the range is non-empty
func (m Mixture[T]) HasValue() bool {
	return len(m.Discrete) > 0 || !m.Range.IsEmpty()
}

// IsEmpty reports whether the mixture carries nothing to filter on
func (m Mixture[T]) IsEmpty() bool {
	return !m.HasValue()
}

// ToCondition returns In over the discrete set when it is non-empty,
// otherwise the range condition, otherwise nil.
func (m Mixture[T]) ToCondition(name string) *condition.Condition {
	if len(m.Discrete) > 0 {
		values := make([]T, len(m.Discrete))
		copy(values, m.Discrete)
		return condition.New(name, condition.In, values)
	}
	return m.Range.ToCondition(name)
}

func (m Mixture[T]) String() string {
	if len(m.Discrete) > 0 {
		parts := make([]string, len(m.Discrete))
		for i, v := range m.Discrete {
			parts[i] = fmt.Sprint(v)
		}
		return strings.Join(parts, ",")
	}
	if m.Range.IsEmpty() {
		return ""
	}
	return m.Range.String()
}

// MarshalText encodes the mixture as a comma list or a range
func (m Mixture[T]) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a comma list or a range
func (m *Mixture[T]) UnmarshalText(text []byte) error {
	parsed, err := ParseMixture[T](string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMixture parses text as a range first and falls back to a comma
// separated discrete set.
func ParseMixture[T cmp.Ordered](text string) (Mixture[T], error) {
	if r, ok := TryParseRange[T](text); ok {
		return Mixture[T]{Range: r}, nil
	}

	parts := convert.Split(text)
	values := make([]T, 0, len(parts))
	for _, part := range parts {
		v, err := convert.To[T](part)
		if err != nil {
			return Mixture[T]{}, fmt.Errorf("%w: %q: %v", criteriaErrors.ErrInvalidMixture, text, err)
		}
		values = append(values, v)
	}

	if len(values) == 0 {
		return Mixture[T]{}, nil
	}
	return Mixture[T]{Discrete: values}, nil
}

// TryParseMixture is ParseMixture reporting failure as false with an empty mixture
func TryParseMixture[T cmp.Ordered](text string) (Mixture[T], bool) {
	m, err := ParseMixture[T](text)
	if err != nil {
		return Mixture[T]{}, false
	}
	return m, true
}

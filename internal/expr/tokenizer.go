// Package expr tokenizes criteria expressions of the form
// name=value[;name2=value2...].
package expr

import (
	"fmt"
	"strings"

	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
)

const (
	// PairSeparator separates assignments
	PairSeparator = ';'
	// ValueSeparator separates a path from its value
	ValueSeparator = '='
)

// Pair is one path assignment of an expression
type Pair struct {
	Path  string
	Value string
	// HasValue is false for a bare path such as "active"
	HasValue bool
}

func (p Pair) String() string {
	if !p.HasValue {
		return p.Path
	}
	return p.Path + string(ValueSeparator) + p.Value
}

// Tokenize splits an expression into ordered pairs. Blank assignments are
// skipped, whitespace around paths and values is trimmed, and only the first
// '=' of an assignment separates the path from the value.
func Tokenize(text string) ([]Pair, error) {
	var pairs []Pair

	offset := 0
	for _, segment := range strings.Split(text, string(PairSeparator)) {
		position := offset
		offset += len(segment) + 1

		if strings.TrimSpace(segment) == "" {
			continue
		}

		path, raw, hasValue := strings.Cut(segment, string(ValueSeparator))
		path = strings.TrimSpace(path)
		if path == "" {
			return nil, fmt.Errorf("%w: missing path at offset %d", criteriaErrors.ErrInvalidExpression, position)
		}

		pairs = append(pairs, Pair{
			Path:     path,
			Value:    strings.TrimSpace(raw),
			HasValue: hasValue,
		})
	}

	return pairs, nil
}

// Join renders pairs back into expression text
func Join(pairs []Pair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.String()
	}
	return strings.Join(parts, string(PairSeparator))
}

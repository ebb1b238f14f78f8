package naming

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Convention controls how a criteria property name becomes a condition name
// when the descriptor does not list explicit names.
type Convention int

const (
	// Preserve uses the property name as is
	Preserve Convention = iota
	// CamelCase lowercases the leading word: CreatedAt -> createdAt
	CamelCase
	// SnakeCase joins lowercased words with underscores: CreatedAt -> created_at
	SnakeCase
)

var (
	camelCasePattern = regexp.MustCompile(`^[a-z][A-Za-z0-9]*$`)
	snakeCasePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)
)

func (c Convention) String() string {
	switch c {
	case CamelCase:
		return "camel"
	case SnakeCase:
		return "snake"
	default:
		return "preserve"
	}
}

// ParseConvention resolves "preserve", "camel" or "snake"
func ParseConvention(text string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "preserve", "none":
		return Preserve, nil
	case "camel", "camelcase":
		return CamelCase, nil
	case "snake", "snakecase", "snake_case":
		return SnakeCase, nil
	default:
		return Preserve, fmt.Errorf("unknown naming convention %q", text)
	}
}

// Apply converts a property name according to the convention
func (c Convention) Apply(name string) string {
	switch c {
	case CamelCase:
		return CamelName(name)
	case SnakeCase:
		return SnakeName(name)
	default:
		return name
	}
}

// CamelName converts a Go identifier to camelCase, keeping a leading
// acronym together: URLValue -> urlValue, ID -> id.
func CamelName(name string) string {
	if name == "" {
		return ""
	}

	runes := []rune(name)
	if len(runes) == 1 {
		return strings.ToLower(name)
	}

	boundary := 1
	for boundary < len(runes) {
		if !unicode.IsUpper(runes[boundary]) {
			break
		}

		if boundary+1 < len(runes) && !unicode.IsUpper(runes[boundary+1]) {
			break
		}

		boundary++
	}

	prefix := strings.ToLower(string(runes[:boundary]))
	return prefix + string(runes[boundary:])
}

// SnakeName converts a Go identifier to snake_case: HTTPCode -> http_code
func SnakeName(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1]) && runes[i-1] != '_'
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Validate checks that name follows the convention. Preserve accepts any
// non-empty name.
func Validate(name string, c Convention) error {
	if name == "" {
		return fmt.Errorf("condition name cannot be empty")
	}

	switch c {
	case CamelCase:
		if !camelCasePattern.MatchString(name) {
			return fmt.Errorf("condition name must be camelCase (got %q)", name)
		}
	case SnakeCase:
		if !snakeCasePattern.MatchString(name) {
			return fmt.Errorf("condition name must be snake_case (got %q)", name)
		}
	}
	return nil
}

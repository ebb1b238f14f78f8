package query

import (
	"fmt"
	"strings"
	"unicode"

	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
)

// SortingMode is the direction of a sort key
type SortingMode int

const (
	// SortAscending orders from low to high
	SortAscending SortingMode = iota
	// SortDescending orders from high to low
	SortDescending
)

func (m SortingMode) String() string {
	if m == SortDescending {
		return "desc"
	}
	return "asc"
}

// Sorting is one named sort key. Two sortings are equal (==) when both the
// name and the mode match.
type Sorting struct {
	Name string
	Mode SortingMode
}

// Ascending returns an ascending sort on name
func Ascending(name string) Sorting {
	return Sorting{Name: name, Mode: SortAscending}
}

// Descending returns a descending sort on name
func Descending(name string) Sorting {
	return Sorting{Name: name, Mode: SortDescending}
}

// String formats the sorting as "name" or "-name"
func (s Sorting) String() string {
	if s.Mode == SortDescending {
		return "-" + s.Name
	}
	return s.Name
}

// MarshalText encodes the sorting as "name" or "-name"
func (s Sorting) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes sorting text
func (s *Sorting) UnmarshalText(text []byte) error {
	parsed, err := ParseSorting(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type scanState int

const (
	scanNone       scanState = iota // nothing read yet
	scanGaps                        // direction read, name not started
	scanName                        // inside the name
	scanWhitespace                  // after the name
)

// ParseSorting parses "name", "+name", "-name" or "~name". Whitespace may
// surround the name and follow the sign; a name containing whitespace is
// rejected.
func ParseSorting(text string) (Sorting, error) {
	if s, ok := TryParseSorting(text); ok {
		return s, nil
	}
	return Sorting{}, fmt.Errorf("%w: %q", criteriaErrors.ErrInvalidSorting, text)
}

// TryParseSorting is ParseSorting returning the zero Sorting and false on
// failure
func TryParseSorting(text string) (Sorting, bool) {
	state := scanNone
	mode := SortAscending
	start, end := -1, -1

	for i, r := range text {
		space := unicode.IsSpace(r)

		switch state {
		case scanNone, scanGaps:
			switch {
			case space:
			case state == scanNone && r == '+':
				state = scanGaps
			case state == scanNone && (r == '-' || r == '~'):
				mode = SortDescending
				state = scanGaps
			case r == '+' || r == '-' || r == '~':
				return Sorting{}, false
			default:
				start = i
				state = scanName
			}
		case scanName:
			if space {
				end = i
				state = scanWhitespace
			}
		case scanWhitespace:
			if !space {
				return Sorting{}, false
			}
		}
	}

	switch state {
	case scanName:
		end = len(text)
	case scanWhitespace:
	default:
		return Sorting{}, false
	}

	return Sorting{Name: text[start:end], Mode: mode}, true
}

// Sortings is an ordered list of sort keys
type Sortings []Sorting

// ParseSortings parses a comma separated list such as "name,-created"
func ParseSortings(text string) (Sortings, error) {
	var out Sortings
	for _, part := range strings.Split(text, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		s, err := ParseSorting(part)
		if err != nil {
			return nil, err
		}
		out = out.Append(s)
	}
	return out, nil
}

// Contains reports whether a key with this name is present, ignoring case
// and direction
func (s Sortings) Contains(name string) bool {
	for _, existing := range s {
		if strings.EqualFold(existing.Name, name) {
			return true
		}
	}
	return false
}

// Append adds sorting unless a key with the same name is already present.
// Only the name is compared: appending "-name" to "name" is a no-op.
func (s Sortings) Append(sorting Sorting) Sortings {
	if s.Contains(sorting.Name) {
		return s
	}
	return append(s, sorting)
}

// String formats the list as comma separated sortings
func (s Sortings) String() string {
	parts := make([]string, len(s))
	for i, sorting := range s {
		parts[i] = sorting.String()
	}
	return strings.Join(parts, ",")
}

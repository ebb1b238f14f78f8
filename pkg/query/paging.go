// Package query bundles a compiled condition with the paging and sorting
// grammars of a query request.
package query

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
)

// DefaultPageSize is the page size used when the paging text names only an
// index
const DefaultPageSize = 20

var (
	pageIndexPattern = regexp.MustCompile(`^\d+$`)
	pageSizePattern  = regexp.MustCompile(`^(\d+)\s*\|\s*(\d+)$`)
	limitPattern     = regexp.MustCompile(`^(\d+)\s*@\s*(\d+)$`)
	pageCountPattern = regexp.MustCompile(`^(\d+)(?:\s*/\s*(\d+)(?:\s*\(\s*(\d+)\s*\))?)?$`)
)

// Paging describes a result window. Exactly one mode applies:
// paged (Index > 0 and Size > 0), limited (Index == 0 and Size > 0, starting
// at Offset) or disabled (Size == 0).
type Paging struct {
	Index  int   // 1-based page index
	Size   int   // Rows per page, or the row limit
	Total  int64 // Total rows, when known
	Offset int64 // First row of a limited window
}

// Page returns paged mode. The size defaults to DefaultPageSize.
func Page(index int, size ...int) Paging {
	s := DefaultPageSize
	if len(size) > 0 {
		s = size[0]
	}
	return Paging{Index: index, Size: s}
}

// Limit returns limited mode: count rows starting at offset
func Limit(count int, offset int64) Paging {
	return Paging{Size: count, Offset: offset}
}

// Disabled returns paging that selects every row
func Disabled() Paging {
	return Paging{}
}

// IsPaged reports page mode
func (p Paging) IsPaged() bool {
	return p.Index > 0 && p.Size > 0
}

// IsLimited reports limit/offset mode
func (p Paging) IsLimited() bool {
	return p.Index == 0 && p.Size > 0
}

// IsDisabled reports that no window applies
func (p Paging) IsDisabled() bool {
	return p.Size <= 0
}

// Skip returns the number of rows before the window
func (p Paging) Skip() int64 {
	switch {
	case p.IsPaged():
		return int64(p.Index-1) * int64(p.Size)
	case p.IsLimited():
		return p.Offset
	default:
		return 0
	}
}

// PageCount returns the number of pages needed for Total rows, or zero when
// the total is unknown or paging is disabled
func (p Paging) PageCount() int64 {
	if p.Size <= 0 || p.Total <= 0 {
		return 0
	}
	return ceilDiv(p.Total, int64(p.Size))
}

// ceilDiv returns n/d rounded up
func ceilDiv(n, d int64) int64 {
	q := n / d
	if n%d != 0 {
		q++
	}
	return q
}

// Next returns the window following p. Disabled paging has no next window.
func (p Paging) Next() (Paging, bool) {
	switch {
	case p.IsPaged():
		if count := p.PageCount(); count > 0 && int64(p.Index) >= count {
			return p, false
		}
		next := p
		next.Index++
		return next, true
	case p.IsLimited():
		next := p
		next.Offset += int64(p.Size)
		if p.Total > 0 && next.Offset >= p.Total {
			return p, false
		}
		return next, true
	default:
		return p, false
	}
}

// String formats p in the canonical grammar: "disabled", "index|size" or
// "limit@offset"
func (p Paging) String() string {
	switch {
	case p.IsPaged():
		return fmt.Sprintf("%d|%d", p.Index, p.Size)
	case p.IsLimited():
		return fmt.Sprintf("%d@%d", p.Size, p.Offset)
	default:
		return "disabled"
	}
}

// MarshalText encodes p in the canonical grammar
func (p Paging) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes paging text
func (p *Paging) UnmarshalText(text []byte) error {
	parsed, err := ParsePaging(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePaging parses paging text using DefaultPageSize
func ParsePaging(text string) (Paging, error) {
	if p, ok := TryParsePagingSize(text, DefaultPageSize); ok {
		return p, nil
	}
	return Paging{}, fmt.Errorf("%w: %q", criteriaErrors.ErrInvalidPaging, text)
}

// TryParsePaging parses paging text using DefaultPageSize
func TryParsePaging(text string) (Paging, bool) {
	return TryParsePagingSize(text, DefaultPageSize)
}

// TryParsePagingSize parses paging text. The forms are tried in order:
//
//	"", "*", "disabled"   disabled
//	"3"                   page 3 of defaultSize rows
//	"3|50"                page 3 of 50 rows
//	"10@100"              10 rows from offset 100
//	"2/5(100)"            page 2 of 5 pages over 100 rows
//	"2/5"                 page 2 of defaultSize rows
//
// On failure the zero Paging and false are returned.
func TryParsePagingSize(text string, defaultSize int) (Paging, bool) {
	text = strings.TrimSpace(text)

	if text == "" || text == "*" || strings.EqualFold(text, "disabled") {
		return Disabled(), true
	}

	if pageIndexPattern.MatchString(text) {
		index, ok := atoi(text)
		if !ok {
			return Paging{}, false
		}
		return Page(index, defaultSize), true
	}

	if m := pageSizePattern.FindStringSubmatch(text); m != nil {
		index, ok1 := atoi(m[1])
		size, ok2 := atoi(m[2])
		if !ok1 || !ok2 {
			return Paging{}, false
		}
		return Page(index, size), true
	}

	if m := limitPattern.FindStringSubmatch(text); m != nil {
		count, ok := atoi(m[1])
		offset, err := strconv.ParseInt(m[2], 10, 64)
		if !ok || err != nil {
			return Paging{}, false
		}
		return Limit(count, offset), true
	}

	if m := pageCountPattern.FindStringSubmatch(text); m != nil {
		index, ok := atoi(m[1])
		if !ok {
			return Paging{}, false
		}
		if m[3] == "" {
			return Page(index, defaultSize), true
		}

		count, ok := atoi(m[2])
		total, err := strconv.ParseInt(m[3], 10, 64)
		if !ok || err != nil || count == 0 {
			return Paging{}, false
		}

		size := ceilDiv(total, int64(count))
		if size > math.MaxInt {
			return Paging{}, false
		}
		p := Page(index, int(size))
		p.Total = total
		return p, true
	}

	return Paging{}, false
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

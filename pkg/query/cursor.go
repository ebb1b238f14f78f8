package query

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
)

// Cursor is an opaque continuation token for a request: the criteria
// expression it was built from, the next window and the ordering.
// Total travels beside the paging text, which does not carry it.
type Cursor struct {
	Expression string   `json:"expr,omitempty"`
	Paging     Paging   `json:"page"`
	Total      int64    `json:"total,omitempty"`
	Sortings   Sortings `json:"sort,omitempty"`
}

// NextCursor returns the cursor for the window after paging, or an empty
// string when there is no further window
func NextCursor(expression string, paging Paging, sortings Sortings) (string, error) {
	next, ok := paging.Next()
	if !ok {
		return "", nil
	}
	return EncodeCursor(&Cursor{
		Expression: expression,
		Paging:     next,
		Total:      next.Total,
		Sortings:   sortings,
	})
}

// EncodeCursor encodes a cursor into a base64 string
func EncodeCursor(cursor *Cursor) (string, error) {
	if cursor == nil {
		return "", nil
	}

	data, err := json.Marshal(cursor)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}

	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeCursor decodes a base64 cursor string into a Cursor
func DecodeCursor(encoded string) (*Cursor, error) {
	if encoded == "" {
		return nil, nil
	}

	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode cursor: %w", criteriaErrors.ErrInvalidPaging, err)
	}

	var cursor Cursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal cursor: %w", criteriaErrors.ErrInvalidPaging, err)
	}
	if cursor.Total < 0 {
		return nil, fmt.Errorf("%w: negative cursor total %d", criteriaErrors.ErrInvalidPaging, cursor.Total)
	}
	cursor.Paging.Total = cursor.Total

	return &cursor, nil
}

package query_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pay-theory/criteria/pkg/condition"
	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
	"github.com/pay-theory/criteria/pkg/query"
)

func TestTryParsePaging(t *testing.T) {
	tests := []struct {
		input    string
		expected query.Paging
	}{
		{"", query.Disabled()},
		{"*", query.Disabled()},
		{" DISABLED ", query.Disabled()},
		{"3", query.Page(3, query.DefaultPageSize)},
		{"3|50", query.Page(3, 50)},
		{"3 | 50", query.Page(3, 50)},
		{"10@100", query.Limit(10, 100)},
		{"2/5", query.Page(2, query.DefaultPageSize)},
		{"2/5(100)", query.Paging{Index: 2, Size: 20, Total: 100}},
		{"1/3(10)", query.Paging{Index: 1, Size: 4, Total: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, ok := query.TryParsePaging(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestTryParsePagingFailures(t *testing.T) {
	for _, input := range []string{"-1", "abc", "3|", "|5", "10@", "2/0(10)", "3|50|2", "1.5"} {
		t.Run(input, func(t *testing.T) {
			p, ok := query.TryParsePaging(input)
			assert.False(t, ok)
			assert.Equal(t, query.Paging{}, p)

			_, err := query.ParsePaging(input)
			assert.ErrorIs(t, err, criteriaErrors.ErrInvalidPaging)
		})
	}
}

func TestTryParsePagingSize(t *testing.T) {
	p, ok := query.TryParsePagingSize("4", 50)
	require.True(t, ok)
	assert.Equal(t, query.Page(4, 50), p)
}

func TestPagingModes(t *testing.T) {
	paged := query.Page(3, 10)
	assert.True(t, paged.IsPaged())
	assert.False(t, paged.IsLimited())
	assert.Equal(t, int64(20), paged.Skip())

	limited := query.Limit(10, 35)
	assert.True(t, limited.IsLimited())
	assert.False(t, limited.IsPaged())
	assert.Equal(t, int64(35), limited.Skip())

	disabled := query.Disabled()
	assert.True(t, disabled.IsDisabled())
	assert.False(t, disabled.IsPaged())
	assert.False(t, disabled.IsLimited())
	assert.Equal(t, int64(0), disabled.Skip())
}

func TestPagingNext(t *testing.T) {
	p := query.Paging{Index: 2, Size: 10, Total: 30}
	assert.Equal(t, int64(3), p.PageCount())

	next, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, 3, next.Index)

	_, ok = next.Next()
	assert.False(t, ok)

	limited, ok := query.Limit(10, 0).Next()
	require.True(t, ok)
	assert.Equal(t, int64(10), limited.Offset)

	_, ok = query.Disabled().Next()
	assert.False(t, ok)
}

func TestPagingText(t *testing.T) {
	for _, p := range []query.Paging{query.Page(3, 50), query.Limit(10, 100), query.Disabled()} {
		text, err := p.MarshalText()
		require.NoError(t, err)

		var decoded query.Paging
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, p, decoded, string(text))
	}

	assert.Equal(t, "3|50", query.Page(3, 50).String())
	assert.Equal(t, "10@100", query.Limit(10, 100).String())
	assert.Equal(t, "disabled", query.Disabled().String())
}

func TestTryParseSorting(t *testing.T) {
	tests := []struct {
		input    string
		expected query.Sorting
	}{
		{"name", query.Ascending("name")},
		{"-name", query.Descending("name")},
		{"~name", query.Descending("name")},
		{" +name ", query.Ascending("name")},
		{"- created_at", query.Descending("created_at")},
		{"first-name", query.Ascending("first-name")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, ok := query.TryParseSorting(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestTryParseSortingFailures(t *testing.T) {
	for _, input := range []string{"na me", "", "  ", "+", "-", "+-name", "name x"} {
		t.Run(input, func(t *testing.T) {
			s, ok := query.TryParseSorting(input)
			assert.False(t, ok)
			assert.Equal(t, query.Sorting{}, s)

			_, err := query.ParseSorting(input)
			assert.ErrorIs(t, err, criteriaErrors.ErrInvalidSorting)
		})
	}
}

func TestSortingEquality(t *testing.T) {
	assert.True(t, query.Ascending("name") == query.Ascending("name"))
	assert.False(t, query.Ascending("name") == query.Descending("name"))

	sortings := query.Sortings{query.Ascending("name")}
	sortings = sortings.Append(query.Descending("NAME"))
	assert.Len(t, sortings, 1)
	assert.Equal(t, query.SortAscending, sortings[0].Mode)

	sortings = sortings.Append(query.Descending("created"))
	assert.Equal(t, "name,-created", sortings.String())
	assert.True(t, sortings.Contains("Created"))
}

func TestParseSortings(t *testing.T) {
	sortings, err := query.ParseSortings("name, -created,,~name")
	require.NoError(t, err)
	assert.Equal(t, query.Sortings{query.Ascending("name"), query.Descending("created")}, sortings)

	_, err = query.ParseSortings("name,bad name")
	assert.ErrorIs(t, err, criteriaErrors.ErrInvalidSorting)
}

func TestRequestJSON(t *testing.T) {
	req := query.NewRequest(condition.New("status", condition.Equal, "open")).
		WithPaging(query.Page(2, 25)).
		OrderBy(query.Descending("created"), query.Ascending("created"))

	assert.True(t, req.HasCondition())
	assert.False(t, query.NewRequest(nil).HasCondition())

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"condition": {"name": "status", "operator": "Equal", "value": "open"},
		"paging": "2|25",
		"sortings": ["-created"]
	}`, string(data))
}

func TestCursor(t *testing.T) {
	token, err := query.NextCursor("status=open", query.Page(1, 10), query.Sortings{query.Descending("created")})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	cursor, err := query.DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "status=open", cursor.Expression)
	assert.Equal(t, query.Page(2, 10), cursor.Paging)
	assert.Equal(t, query.Sortings{query.Descending("created")}, cursor.Sortings)

	last, err := query.NextCursor("", query.Paging{Index: 1, Size: 10, Total: 5}, nil)
	require.NoError(t, err)
	assert.Empty(t, last)

	empty, err := query.DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = query.DecodeCursor("%%%")
	assert.ErrorIs(t, err, criteriaErrors.ErrInvalidPaging)
}

func TestCursorKeepsTotal(t *testing.T) {
	p, ok := query.TryParsePaging("1/2(40)")
	require.True(t, ok)

	token, err := query.NextCursor("status=open", p, nil)
	require.NoError(t, err)

	cursor, err := query.DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, query.Paging{Index: 2, Size: 20, Total: 40}, cursor.Paging)

	_, ok = cursor.Paging.Next()
	assert.False(t, ok, "page 2 of 2 is the last window")

	last, err := query.NextCursor("status=open", cursor.Paging, nil)
	require.NoError(t, err)
	assert.Empty(t, last)
}

func TestTryParsePagingLargeTotal(t *testing.T) {
	p, ok := query.TryParsePaging("1/2(9223372036854775807)")
	require.True(t, ok)
	assert.Equal(t, int64(9223372036854775807), p.Total)
	assert.Equal(t, int64(4611686018427387904), int64(p.Size))
	assert.Equal(t, int64(2), p.PageCount())

	_, ok = query.TryParsePaging("1/2(9223372036854775808)")
	assert.False(t, ok)

	big := query.Paging{Index: 1, Size: 10, Total: 9223372036854775807}
	assert.Equal(t, int64(922337203685477581), big.PageCount())
}

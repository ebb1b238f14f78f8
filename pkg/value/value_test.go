package value_test

import (
	"encoding/json"
	"testing"

	"github.com/pay-theory/criteria/pkg/condition"
	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
	"github.com/pay-theory/criteria/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeSwapsReversedBounds(t *testing.T) {
	assert.Equal(t, value.NewRange(1, 5), value.NewRange(5, 1))
	assert.True(t, value.NewRange(5, 1) == value.NewRange(1, 5))

	r := value.NewRange(1, 5)
	r.SetMinimum(9)
	minimum, _ := r.Minimum()
	maximum, _ := r.Maximum()
	assert.Equal(t, 5, minimum)
	assert.Equal(t, 9, maximum)

	r.SetMaximum(2)
	minimum, _ = r.Minimum()
	maximum, _ = r.Maximum()
	assert.Equal(t, 2, minimum)
	assert.Equal(t, 5, maximum)
}

func TestRangeIsEmpty(t *testing.T) {
	var r value.Range[int]
	assert.True(t, r.IsEmpty())
	assert.Nil(t, r.ToCondition("x"))

	r.SetMaximum(3)
	assert.False(t, r.IsEmpty())

	r.ClearMaximum()
	assert.True(t, r.IsEmpty())
}

func TestRangeContains(t *testing.T) {
	r := value.NewRange(1.5, 3.0)
	assert.True(t, r.Contains(1.5))
	assert.True(t, r.Contains(3.0))
	assert.False(t, r.Contains(3.1))
	assert.True(t, value.AtLeast(10).Contains(100))
	assert.False(t, value.AtMost(10).Contains(11))
}

func TestParseRangeToCondition(t *testing.T) {
	cases := []struct {
		text     string
		operator condition.Operator
		value    any
	}{
		{"(1~5)", condition.Between, value.NewRange(1, 5)},
		{"(5~5)", condition.Equal, 5},
		{"(~5)", condition.LessThanEqual, 5},
		{"(1~)", condition.GreaterThanEqual, 1},
		{"1~5", condition.Between, value.NewRange(1, 5)},
		{"( * ~ 7 )", condition.LessThanEqual, 7},
		{"(3~?)", condition.GreaterThanEqual, 3},
		{"(9~2)", condition.Between, value.NewRange(2, 9)},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			r, err := value.ParseRange[int](tc.text)
			require.NoError(t, err)

			c := r.ToCondition("x")
			require.NotNil(t, c)
			assert.Equal(t, "x", c.Name)
			assert.Equal(t, tc.operator, c.Operator)
			assert.Equal(t, tc.value, c.Value)
		})
	}
}

func TestParseRangeFailures(t *testing.T) {
	for _, text := range []string{"", "5", "(1~5", "1~5)", "(1~2~3)", "(a~5)", "(1~b)"} {
		t.Run(text, func(t *testing.T) {
			_, err := value.ParseRange[int](text)
			require.Error(t, err)
			assert.ErrorIs(t, err, criteriaErrors.ErrInvalidRange)

			r, ok := value.TryParseRange[int](text)
			assert.False(t, ok)
			assert.True(t, r.IsEmpty())
		})
	}
}

func TestParseRangeUnbounded(t *testing.T) {
	r, ok := value.TryParseRange[float64]("(~)")
	require.True(t, ok)
	assert.True(t, r.IsEmpty())
}

func TestRangeTextRoundTrip(t *testing.T) {
	for _, r := range []value.Range[int]{value.NewRange(1, 5), value.AtLeast(3), value.AtMost(4), {}} {
		text, err := r.MarshalText()
		require.NoError(t, err)

		var decoded value.Range[int]
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, r, decoded, string(text))
	}

	data, err := json.Marshal(struct {
		Age value.Range[int] `json:"age"`
	}{Age: value.NewRange(18, 65)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"age":"(18~65)"}`, string(data))
}

func TestMixtureTryParse(t *testing.T) {
	m, ok := value.TryParseMixture[int]("1,2,3")
	require.True(t, ok)
	assert.True(t, m.HasValue())

	c := m.ToCondition("id")
	require.NotNil(t, c)
	assert.Equal(t, condition.In, c.Operator)
	assert.Equal(t, []int{1, 2, 3}, c.Value)

	m, ok = value.TryParseMixture[int]("(1~9)")
	require.True(t, ok)
	c = m.ToCondition("id")
	require.NotNil(t, c)
	assert.Equal(t, condition.Between, c.Operator)
	assert.Equal(t, value.NewRange(1, 9), c.Value)

	m, ok = value.TryParseMixture[int]("")
	require.True(t, ok)
	assert.False(t, m.HasValue())
	assert.Nil(t, m.ToCondition("id"))

	_, ok = value.TryParseMixture[int]("1,x")
	assert.False(t, ok)
}

func TestMixtureDiscreteWins(t *testing.T) {
	m := value.Mixture[string]{
		Discrete: []string{"a"},
		Range:    value.NewRange("b", "c"),
	}
	c := m.ToCondition("code")
	require.NotNil(t, c)
	assert.Equal(t, condition.In, c.Operator)
	assert.Equal(t, "a", m.String())

	assert.Equal(t, "(b~c)", value.Ranged(value.NewRange("b", "c")).String())
	assert.Equal(t, "1,2", value.Values(1, 2).String())
}

func TestMixtureUnmarshalText(t *testing.T) {
	var m value.Mixture[int]
	require.NoError(t, m.UnmarshalText([]byte("4, 5")))
	assert.Equal(t, []int{4, 5}, m.Discrete)

	err := m.UnmarshalText([]byte("x"))
	assert.ErrorIs(t, err, criteriaErrors.ErrInvalidMixture)
}

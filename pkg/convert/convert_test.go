package convert_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pay-theory/criteria/pkg/convert"
	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type status string

func TestToScalars(t *testing.T) {
	n, err := convert.To[int](" 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	u, err := convert.To[uint8]("255")
	require.NoError(t, err)
	assert.Equal(t, uint8(255), u)

	f, err := convert.To[float64]("1.25")
	require.NoError(t, err)
	assert.Equal(t, 1.25, f)

	b, err := convert.To[bool]("true")
	require.NoError(t, err)
	assert.True(t, b)

	s, err := convert.To[status]("open")
	require.NoError(t, err)
	assert.Equal(t, status("open"), s)

	p, err := convert.To[*int]("7")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 7, *p)
}

func TestToWellKnownTypes(t *testing.T) {
	id := uuid.New()
	parsed, err := convert.To[uuid.UUID](id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	d, err := convert.To[time.Duration]("90s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	day, err := convert.To[time.Time]("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), day)

	stamp, err := convert.To[time.Time]("2024-02-29T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, stamp.Hour())
}

func TestToErrors(t *testing.T) {
	_, err := convert.To[int]("x")
	assert.ErrorIs(t, err, criteriaErrors.ErrConversion)
	assert.True(t, criteriaErrors.IsConversion(err))

	_, err = convert.To[int8]("300")
	assert.ErrorIs(t, err, criteriaErrors.ErrConversion)

	_, err = convert.To[uuid.UUID]("not-a-uuid")
	assert.ErrorIs(t, err, criteriaErrors.ErrConversion)

	_, err = convert.To[map[string]int]("a")
	assert.ErrorIs(t, err, criteriaErrors.ErrUnsupportedType)
}

func TestList(t *testing.T) {
	v, err := convert.List("[1, 2,3]", reflect.TypeFor[[]int]())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, v.Interface())

	v, err = convert.List("(a,b)", reflect.TypeFor[[]string]())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v.Interface())

	v, err = convert.List("", reflect.TypeFor[[]string]())
	require.NoError(t, err)
	assert.Equal(t, 0, v.Len())

	v, err = convert.List("1,2", reflect.TypeFor[[3]int]())
	require.NoError(t, err)
	assert.Equal(t, [3]int{1, 2, 0}, v.Interface())

	_, err = convert.List("1,2,3,4", reflect.TypeFor[[3]int]())
	assert.ErrorIs(t, err, criteriaErrors.ErrConversion)

	_, err = convert.List("1,x", reflect.TypeFor[[]int]())
	assert.ErrorIs(t, err, criteriaErrors.ErrConversion)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "1,2", convert.TrimBrackets(" [1,2] "))
	assert.Equal(t, "[1,2", convert.TrimBrackets("[1,2"))
	assert.Equal(t, []string{"a", "b"}, convert.Split(" a, ,b "))
	assert.Nil(t, convert.Split("  "))

	assert.True(t, convert.IsList(reflect.TypeFor[[]string]()))
	assert.False(t, convert.IsList(reflect.TypeFor[[]byte]()))
	assert.False(t, convert.IsList(reflect.TypeFor[string]()))
	assert.False(t, convert.IsList(nil))
}

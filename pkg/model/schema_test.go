package model_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pay-theory/criteria/pkg/condition"
	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
	"github.com/pay-theory/criteria/pkg/model"
	"github.com/pay-theory/criteria/pkg/value"
)

const orderSchema = `
name: order
properties:
  - name: Status
    type: string
    names: [status, state]
  - name: Total
    type: range<float>
  - name: Tags
    type: "[]string"
    ignore_empty: false
  - name: Reference
    type: uuid
  - name: Customer
    properties:
      - name: Email
        type: string
        operator: like
`

func TestParseSchema(t *testing.T) {
	s, err := model.ParseSchema([]byte(orderSchema))
	require.NoError(t, err)

	assert.Equal(t, "order", s.Name)
	require.Len(t, s.Properties, 5)

	status := s.Properties[0]
	assert.Equal(t, []string{"status", "state"}, status.Names)
	assert.Equal(t, reflect.TypeFor[string](), status.GoType())
	assert.True(t, status.IgnoreNull)
	assert.True(t, status.IgnoreEmpty)

	assert.Equal(t, reflect.TypeFor[value.Range[float64]](), s.Properties[1].GoType())
	assert.Equal(t, reflect.TypeFor[[]string](), s.Properties[2].GoType())
	assert.False(t, s.Properties[2].IgnoreEmpty)
	assert.Equal(t, reflect.TypeFor[uuid.UUID](), s.Properties[3].GoType())

	customer := s.Properties[4]
	assert.Equal(t, "object", customer.Type)
	require.NotNil(t, customer.Schema)
	assert.Equal(t, "order.Customer", customer.Schema.Name)
	require.NotNil(t, customer.Schema.Properties[0].Operator)
	assert.Equal(t, condition.Like, *customer.Schema.Properties[0].Operator)
}

func TestParseSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"missing name", "properties:\n  - name: A\n    type: string\n"},
		{"no properties", "name: x\n"},
		{"unknown key", "name: x\ncolour: red\nproperties:\n  - name: A\n    type: string\n"},
		{"unnamed property", "name: x\nproperties:\n  - type: string\n"},
		{"unknown type", "name: x\nproperties:\n  - name: A\n    type: decimal\n"},
		{"range of bool", "name: x\nproperties:\n  - name: A\n    type: range<bool>\n"},
		{"bad operator", "name: x\nproperties:\n  - name: A\n    type: string\n    operator: near\n"},
		{"typed nested", "name: x\nproperties:\n  - name: A\n    type: int\n    properties:\n      - name: B\n        type: int\n"},
		{"empty nested", "name: x\nproperties:\n  - name: A\n    type: object\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.ParseSchema([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, criteriaErrors.ErrInvalidSchema)
		})
	}
}

func TestResolveType(t *testing.T) {
	tests := map[string]reflect.Type{
		"string":          reflect.TypeFor[string](),
		"Int":             reflect.TypeFor[int](),
		"[]int64":         reflect.TypeFor[[]int64](),
		"[][]string":      reflect.TypeFor[[][]string](),
		"range<int>":      reflect.TypeFor[value.Range[int]](),
		"mixture<string>": reflect.TypeFor[value.Mixture[string]](),
	}
	for name, expected := range tests {
		got, err := model.ResolveType(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, got, name)
	}

	_, err := model.ResolveType("map")
	assert.ErrorIs(t, err, criteriaErrors.ErrUnsupportedType)
}

func TestLoadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.yaml")
	require.NoError(t, os.WriteFile(path, []byte(orderSchema), 0o600))

	s, err := model.LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "order", s.Name)

	_, err = model.LoadSchema(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSchemaRecordDescriptor(t *testing.T) {
	s, err := model.ParseSchema([]byte(orderSchema))
	require.NoError(t, err)

	registry := model.NewRegistry()
	record := s.New()
	assert.Same(t, s, record.Schema())

	d, err := registry.Get(record)
	require.NoError(t, err)
	assert.Equal(t, "order", d.Name)

	tags, ok := d.Property("Tags")
	require.True(t, ok)
	assert.Equal(t, model.IgnoreNull, tags.Behaviors)

	state, ok := d.Lookup("STATE")
	require.True(t, ok)
	assert.Equal(t, "Status", state.Name)

	customer, ok := d.Property("Customer")
	require.True(t, ok)
	assert.Equal(t, model.KindNested, customer.Kind)

	nested, ok := customer.Factory().(*model.Record)
	require.True(t, ok)
	nd, err := registry.Get(nested)
	require.NoError(t, err)
	assert.Equal(t, "order.Customer", nd.Name)
	assert.NotSame(t, d, nd)

	t.Run("each parsed schema has its own descriptor", func(t *testing.T) {
		other, err := model.ParseSchema([]byte("name: order\nproperties:\n  - name: Code\n    type: int\n"))
		require.NoError(t, err)

		od, err := registry.Get(other.New())
		require.NoError(t, err)
		_, ok := od.Property("Code")
		assert.True(t, ok)
		_, ok = od.Property("Status")
		assert.False(t, ok)
	})
}

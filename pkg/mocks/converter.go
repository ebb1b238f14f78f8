package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/pay-theory/criteria/pkg/condition"
	"github.com/pay-theory/criteria/pkg/model"
)

// MockConverter is a mock implementation of model.Converter.
type MockConverter struct {
	mock.Mock
}

// Convert records the call and returns the configured node and error.
// A nil first return value yields a nil node.
func (m *MockConverter) Convert(ctx *model.ConvertContext) (condition.Node, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(condition.Node), args.Error(1)
}

// MockDescriber is a mock implementation of model.Describer. Describe is
// only called when the registry builds a descriptor, so expectations also
// verify descriptor caching.
type MockDescriber struct {
	mock.Mock
	model.Tracker

	Key string
}

// Describe records the call and runs the function passed to Return, if any.
func (m *MockDescriber) Describe(b *model.Builder) {
	args := m.Called(b)
	if fn, ok := args.Get(0).(func(*model.Builder)); ok && fn != nil {
		fn(b)
	}
}

// DescriptorKey gives every MockDescriber its own descriptor.
func (m *MockDescriber) DescriptorKey() string {
	return "mock:" + m.Key
}

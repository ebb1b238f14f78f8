package mocks_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pay-theory/criteria/pkg/compiler"
	"github.com/pay-theory/criteria/pkg/condition"
	"github.com/pay-theory/criteria/pkg/mocks"
	"github.com/pay-theory/criteria/pkg/model"
)

func TestMockConverterDrivesCompile(t *testing.T) {
	conv := new(mocks.MockConverter)
	conv.On("Convert", mock.MatchedBy(func(ctx *model.ConvertContext) bool {
		return ctx.Property.Name == "Name" && ctx.Value == "ann" && ctx.Default != nil
	})).Return(condition.New("full_name", condition.Equal, "ANN"), nil).Twice()

	c := &mocks.MockDescriber{Key: "converter"}
	c.On("Describe", mock.Anything).Return(func(b *model.Builder) {
		model.Field[string](b, "Name").Converter(conv)
	}).Once()
	c.Set("Name", "ann")

	comp := compiler.New(compiler.WithRegistry(model.NewRegistry()))
	for i := 0; i < 2; i++ {
		node, err := comp.Compile(c)
		require.NoError(t, err)
		assert.True(t, condition.EqualTree(condition.New("full_name", condition.Equal, "ANN"), node))
	}

	conv.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestMockConverterNilAndError(t *testing.T) {
	boom := errors.New("boom")

	conv := new(mocks.MockConverter)
	conv.On("Convert", mock.Anything).Return(nil, nil).Once()
	conv.On("Convert", mock.Anything).Return(nil, boom).Once()

	node, err := conv.Convert(&model.ConvertContext{})
	assert.NoError(t, err)
	assert.Nil(t, node)

	_, err = conv.Convert(&model.ConvertContext{})
	assert.ErrorIs(t, err, boom)
}

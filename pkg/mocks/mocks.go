// Package mocks provides mock implementations of the criteria extension
// points for use with github.com/stretchr/testify/mock.
//
// # Basic Usage
//
// Custom converters are the usual thing to mock: they receive a
// ConvertContext and return the node to emit.
//
//	conv := new(mocks.MockConverter)
//	conv.On("Convert", mock.MatchedBy(func(ctx *model.ConvertContext) bool {
//	    return ctx.Path == "Customer"
//	})).Return(condition.New("x", condition.Equal, 1), nil)
//
//	// declare the converter in Describe
//	model.Field[string](b, "Name").Converter(conv)
//
//	conv.AssertExpectations(t)
//
// # Returning nil
//
// A converter that skips a property returns a nil node:
//
//	conv.On("Convert", mock.Anything).Return(nil, nil)
package mocks

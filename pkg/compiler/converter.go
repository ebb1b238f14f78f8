package compiler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pay-theory/criteria/pkg/condition"
	"github.com/pay-theory/criteria/pkg/convert"
	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
	"github.com/pay-theory/criteria/pkg/model"
	"github.com/pay-theory/criteria/pkg/value"
)

// LikeConverter compares string values with Like instead of Equal, wrapping
// them in the configured wildcard on both sides. Other values and properties
// with a fixed operator are handled by the default converter.
var LikeConverter model.Converter = model.ConverterFunc(convertLike)

func convertLike(ctx *model.ConvertContext) (condition.Node, error) {
	if ctx.Default == nil {
		return nil, fmt.Errorf("%w: like converter used outside a compiler", criteriaErrors.ErrInvalidCriteria)
	}

	if ctx.Operator == nil {
		if _, ok := stringValue(deref(ctx.Value)); ok {
			like := condition.Like
			upgraded := *ctx
			upgraded.Operator = &like
			upgraded.WildcardBoth = true
			return ctx.Default.Convert(&upgraded)
		}
	}
	return ctx.Default.Convert(ctx)
}

func (c *Compiler) convertDefault(ctx *model.ConvertContext) (condition.Node, error) {
	if ctx.Property != nil && ctx.Property.Kind == model.KindNested {
		return c.convertNested(ctx)
	}

	v := deref(ctx.Value)
	if v == nil {
		if ctx.Behaviors.Has(model.IgnoreNull) {
			return nil, nil
		}
		return c.emit(ctx, resolveOperator(ctx, nil), nil), nil
	}

	if ctx.Behaviors.Has(model.IgnoreEmpty) && isEmpty(v) {
		return nil, nil
	}

	if conditioner, ok := v.(value.Conditioner); ok {
		if conditioner.IsEmpty() {
			return nil, nil
		}
		names := ctx.FullNames()
		nodes := make([]condition.Node, 0, len(names))
		for _, name := range names {
			nodes = append(nodes, conditioner.ToCondition(name))
		}
		return anyOf(nodes), nil
	}

	op := resolveOperator(ctx, v)
	if op == condition.Like {
		v = c.applyWildcard(v, ctx.WildcardBoth)
	}
	return c.emit(ctx, op, v), nil
}

// convertNested compiles a nested criteria under the property's primary name.
// With an Exists or NotExists operator the subtree keeps relative names and
// becomes the value of one condition on the nested path.
func (c *Compiler) convertNested(ctx *model.ConvertContext) (condition.Node, error) {
	if isNil(ctx.Value) {
		return nil, nil
	}

	nested, ok := ctx.Value.(model.Criteria)
	if !ok {
		return nil, fmt.Errorf("%w: nested value %T does not implement criteria", criteriaErrors.ErrInvalidCriteria, ctx.Value)
	}

	name := primaryName(ctx)
	full := joinPath(ctx.Path, name)

	if ctx.Operator != nil && (*ctx.Operator == condition.Exists || *ctx.Operator == condition.NotExists) {
		sub, err := c.compile(nested, "")
		if err != nil {
			return nil, err
		}
		return condition.New(full, *ctx.Operator, sub), nil
	}

	return c.compile(nested, full)
}

func (c *Compiler) emit(ctx *model.ConvertContext, op condition.Operator, v any) condition.Node {
	names := ctx.FullNames()
	nodes := make([]condition.Node, 0, len(names))
	for _, name := range names {
		nodes = append(nodes, condition.New(name, op, v))
	}
	return anyOf(nodes)
}

// applyWildcard trims existing wildcards from the end, or both ends, and adds
// exactly one back
func (c *Compiler) applyWildcard(v any, both bool) any {
	s, ok := stringValue(v)
	if !ok || c.wildcard == 0 {
		return v
	}

	w := string(c.wildcard)
	if both || c.wildcardMode == WildcardBoth {
		s = w + strings.Trim(s, w) + w
	} else {
		s = strings.TrimRight(s, w) + w
	}
	return reflect.ValueOf(s).Convert(reflect.TypeOf(v)).Interface()
}

// stringValue returns the text of string kinds, named string types included
func stringValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

func resolveOperator(ctx *model.ConvertContext, v any) condition.Operator {
	if ctx.Operator != nil {
		return *ctx.Operator
	}
	if v != nil && convert.IsList(reflect.TypeOf(v)) {
		return condition.In
	}
	return condition.Equal
}

func primaryName(ctx *model.ConvertContext) string {
	if len(ctx.Names) > 0 {
		return ctx.Names[0]
	}
	if ctx.Property != nil {
		return ctx.Property.Name
	}
	return ""
}

func anyOf(nodes []condition.Node) condition.Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	default:
		return condition.Or(nodes[0], nodes[1:]...)
	}
}

// deref follows non-nil pointers; nil pointers become nil
func deref(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map) && rv.IsNil() {
		return nil
	}
	return rv.Interface()
}

func isEmpty(v any) bool {
	if s, ok := stringValue(v); ok {
		return strings.TrimSpace(s) == ""
	}
	if c, ok := v.(value.Conditioner); ok {
		return c.IsEmpty()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Array:
		return convert.IsList(rv.Type()) && rv.Len() == 0
	default:
		return false
	}
}

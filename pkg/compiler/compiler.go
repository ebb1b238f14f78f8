// Package compiler turns change-tracked criteria into condition trees, and
// populates criteria from name=value expressions.
package compiler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pay-theory/criteria/pkg/condition"
	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
	"github.com/pay-theory/criteria/pkg/model"
	"github.com/pay-theory/criteria/pkg/validation"
)

// WildcardMode controls where the Like wildcard is placed
type WildcardMode int

const (
	// WildcardTrailing appends one wildcard: "abc" -> "abc%"
	WildcardTrailing WildcardMode = iota
	// WildcardBoth wraps the value: "abc" -> "%abc%"
	WildcardBoth
)

func (m WildcardMode) String() string {
	if m == WildcardBoth {
		return "both"
	}
	return "trailing"
}

// ParseWildcardMode resolves "trailing" or "both"
func ParseWildcardMode(text string) (WildcardMode, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "trailing":
		return WildcardTrailing, nil
	case "both":
		return WildcardBoth, nil
	default:
		return WildcardTrailing, fmt.Errorf("unknown wildcard mode %q", text)
	}
}

// Compiler compiles criteria using descriptors from a registry. It holds no
// per-call state and is safe for concurrent use.
type Compiler struct {
	registry     *model.Registry
	logger       zerolog.Logger
	wildcard     rune
	wildcardMode WildcardMode
	limits       validation.Limits
	fallback     model.Converter
}

// Option configures a Compiler
type Option func(*Compiler)

// WithRegistry sets the descriptor registry, model.Default() otherwise
func WithRegistry(r *model.Registry) Option {
	return func(c *Compiler) {
		c.registry = r
	}
}

// WithLogger sets the logger for compile and populate events
func WithLogger(l zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = l
	}
}

// WithWildcard enables Like wildcard handling. A zero rune disables it.
func WithWildcard(wildcard rune, mode WildcardMode) Option {
	return func(c *Compiler) {
		c.wildcard = wildcard
		c.wildcardMode = mode
	}
}

// WithLimits bounds the expressions accepted by Populate
func WithLimits(l validation.Limits) Option {
	return func(c *Compiler) {
		c.limits = l
	}
}

// New creates a compiler
func New(opts ...Option) *Compiler {
	c := &Compiler{
		registry: model.Default(),
		logger:   zerolog.Nop(),
		limits:   validation.DefaultLimits(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.fallback = model.ConverterFunc(c.convertDefault)
	return c
}

// Registry returns the descriptor registry
func (c *Compiler) Registry() *model.Registry {
	return c.registry
}

// DefaultConverter returns the converter used for properties that do not
// declare one
func (c *Compiler) DefaultConverter() model.Converter {
	return c.fallback
}

// Compile turns the changed properties of criteria into a condition tree.
// Unchanged criteria compile to nil. The optional path prefixes every
// condition name, as for nested criteria.
func (c *Compiler) Compile(criteria model.Criteria, path ...string) (condition.Node, error) {
	if isNil(criteria) {
		return nil, nil
	}
	return c.compile(criteria, joinPath(path...))
}

func (c *Compiler) compile(criteria model.Criteria, path string) (condition.Node, error) {
	changes := criteria.Changes()
	if len(changes) == 0 {
		return nil, nil
	}

	d, err := c.registry.Get(criteria)
	if err != nil {
		return nil, err
	}

	nodes := make([]condition.Node, 0, len(changes))
	for _, change := range changes {
		p, ok := d.Property(change.Name)
		if !ok {
			p, ok = d.Lookup(change.Name)
		}
		if !ok {
			return nil, criteriaErrors.NewError("compile", d.Name,
				fmt.Errorf("%w: %s", criteriaErrors.ErrUnknownProperty, change.Name))
		}

		node, err := c.convertProperty(p, change.Value, path)
		if err != nil {
			return nil, criteriaErrors.NewError("compile", d.Name,
				fmt.Errorf("property %s: %w", p.Name, err))
		}
		if !condition.IsNil(node) {
			nodes = append(nodes, node)
		}
	}

	var result condition.Node
	switch len(nodes) {
	case 0:
	case 1:
		result = nodes[0]
	default:
		result = condition.And(nodes[0], nodes[1:]...)
	}

	c.logger.Debug().
		Str("criteria", d.Name).
		Str("path", path).
		Int("changes", len(changes)).
		Int("conditions", len(nodes)).
		Msg("criteria compiled")

	return result, nil
}

func (c *Compiler) convertProperty(p *model.Property, value any, path string) (condition.Node, error) {
	ctx := &model.ConvertContext{
		Property:  p,
		Behaviors: p.Behaviors,
		Path:      path,
		Names:     p.Names,
		Type:      p.Type,
		Value:     value,
		Operator:  p.Operator,
		Default:   c.fallback,
	}

	if p.Converter != nil {
		return p.Converter.Convert(ctx)
	}
	return c.fallback.Convert(ctx)
}

func joinPath(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, ".")
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

package model

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pay-theory/criteria/pkg/condition"
	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
)

// Kind tells whether a property holds a filter value or a nested criteria
type Kind int

const (
	// KindValue properties hold scalars, lists, ranges or mixtures
	KindValue Kind = iota
	// KindNested properties hold another Criteria
	KindNested
)

func (k Kind) String() string {
	if k == KindNested {
		return "nested"
	}
	return "value"
}

// Behaviors are per-property suppression rules
type Behaviors uint8

const (
	// IgnoreNull skips properties whose value is nil
	IgnoreNull Behaviors = 1 << iota
	// IgnoreEmpty skips blank strings and empty lists
	IgnoreEmpty

	// IgnoreNone emits a condition for every changed property
	IgnoreNone Behaviors = 0
	// DefaultBehaviors is IgnoreNull|IgnoreEmpty
	DefaultBehaviors = IgnoreNull | IgnoreEmpty
)

// Has reports whether every bit of flag is set
func (b Behaviors) Has(flag Behaviors) bool {
	return b&flag == flag
}

// Factory creates a fresh nested criteria instance
type Factory func() Criteria

// ConvertContext is what a Converter sees for one changed property
type ConvertContext struct {
	Property  *Property
	Behaviors Behaviors
	Path      string              // Dot-delimited prefix for nested criteria, empty at the root
	Names     []string            // Candidate condition names, without the path
	Type      reflect.Type        // Declared type of the property
	Value     any                 // Current value
	Operator  *condition.Operator // Fixed operator, nil when not declared

	// Default is the compiler's built-in converter; custom converters may
	// delegate to it
	Default Converter

	// WildcardBoth wraps Like values in the wildcard on both sides
	WildcardBoth bool
}

// FullNames returns the candidate names qualified with the path
func (ctx *ConvertContext) FullNames() []string {
	if ctx.Path == "" {
		return ctx.Names
	}
	names := make([]string, len(ctx.Names))
	for i, name := range ctx.Names {
		names[i] = ctx.Path + "." + name
	}
	return names
}

// Converter turns a changed property into a condition node. Returning a nil
// node means the property contributes no filter.
type Converter interface {
	Convert(ctx *ConvertContext) (condition.Node, error)
}

// ConverterFunc adapts a function to Converter
type ConverterFunc func(ctx *ConvertContext) (condition.Node, error)

// Convert calls f(ctx)
func (f ConverterFunc) Convert(ctx *ConvertContext) (condition.Node, error) {
	return f(ctx)
}

// Property holds the metadata of one criteria property. Published
// properties must not be modified.
type Property struct {
	Name      string
	Names     []string
	Type      reflect.Type
	Kind      Kind
	Operator  *condition.Operator
	Behaviors Behaviors
	Converter Converter
	Factory   Factory
}

// Descriptor is the immutable metadata table of a criteria type
type Descriptor struct {
	Name       string
	properties []*Property
	byName     map[string]*Property
	lookup     map[string]*Property
}

// Properties returns the properties in declaration order
func (d *Descriptor) Properties() []*Property {
	return d.properties
}

// Property returns the property declared with exactly this name
func (d *Descriptor) Property(name string) (*Property, bool) {
	p, ok := d.byName[name]
	return p, ok
}

// Lookup finds a property by its name or any candidate condition name,
// ignoring case
func (d *Descriptor) Lookup(name string) (*Property, bool) {
	p, ok := d.lookup[strings.ToLower(name)]
	return p, ok
}

// Builder collects property declarations inside Describe
type Builder struct {
	properties []*Property
	errs       []error
}

// PropertyBuilder refines a declared property
type PropertyBuilder struct {
	property *Property
	builder  *Builder
}

// Field declares a value property of type T
func Field[T any](b *Builder, name string) *PropertyBuilder {
	return b.Value(name, reflect.TypeFor[T]())
}

// Value declares a value property of the given type
func (b *Builder) Value(name string, typ reflect.Type) *PropertyBuilder {
	if typ == nil {
		b.errs = append(b.errs, fmt.Errorf("property %s: missing type", name))
	}
	return b.add(&Property{
		Name: name,
		Type: typ,
		Kind: KindValue,
	})
}

// Nested declares a property holding another criteria created by factory
func Nested(b *Builder, name string, factory Factory) *PropertyBuilder {
	p := &Property{
		Name:    name,
		Kind:    KindNested,
		Factory: factory,
	}
	if factory == nil {
		b.errs = append(b.errs, fmt.Errorf("property %s: nested property requires a factory", name))
	} else if sample := factory(); sample == nil {
		b.errs = append(b.errs, fmt.Errorf("property %s: factory returned nil", name))
	} else {
		p.Type = reflect.TypeOf(sample)
	}
	return b.add(p)
}

func (b *Builder) add(p *Property) *PropertyBuilder {
	if strings.TrimSpace(p.Name) == "" {
		b.errs = append(b.errs, fmt.Errorf("property name cannot be empty"))
	}
	p.Behaviors = DefaultBehaviors
	b.properties = append(b.properties, p)
	return &PropertyBuilder{property: p, builder: b}
}

// Names sets the candidate condition names; the first is the primary name
func (pb *PropertyBuilder) Names(names ...string) *PropertyBuilder {
	pb.property.Names = append([]string(nil), names...)
	return pb
}

// Operator fixes the operator used for this property
func (pb *PropertyBuilder) Operator(op condition.Operator) *PropertyBuilder {
	if !op.IsValid() {
		pb.builder.errs = append(pb.builder.errs, fmt.Errorf("property %s: %w: %d", pb.property.Name, criteriaErrors.ErrInvalidOperator, int(op)))
	}
	pb.property.Operator = &op
	return pb
}

// Behaviors replaces the default IgnoreNull|IgnoreEmpty behaviors
func (pb *PropertyBuilder) Behaviors(b Behaviors) *PropertyBuilder {
	pb.property.Behaviors = b
	return pb
}

// Converter installs a custom converter for this property
func (pb *PropertyBuilder) Converter(c Converter) *PropertyBuilder {
	pb.property.Converter = c
	return pb
}

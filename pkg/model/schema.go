package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pay-theory/criteria/pkg/condition"
	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
	"github.com/pay-theory/criteria/pkg/value"
)

// Schema declares a criteria type in YAML instead of Go code. Records created
// from a schema behave like any hand-written Criteria.
//
//	name: order
//	properties:
//	  - name: Status
//	    type: string
//	    names: [status]
//	  - name: Total
//	    type: range<float>
//	  - name: Customer
//	    properties:
//	      - name: Email
//	        type: string
//	        operator: Like
type Schema struct {
	Name       string
	Properties []*SchemaProperty

	key string
}

// SchemaProperty is one property of a Schema. A property with child
// properties is nested.
type SchemaProperty struct {
	Name        string
	Type        string
	Names       []string
	Operator    *condition.Operator
	IgnoreNull  bool
	IgnoreEmpty bool
	Schema      *Schema // Nested schema, nil for value properties

	goType reflect.Type
}

// schemaYAML is the document layout; unknown keys are rejected
type schemaYAML struct {
	Name       string               `yaml:"name"`
	Properties []schemaPropertyYAML `yaml:"properties"`
}

type schemaPropertyYAML struct {
	Name        string               `yaml:"name"`
	Type        string               `yaml:"type"`
	Names       []string             `yaml:"names"`
	Operator    string               `yaml:"operator"`
	IgnoreNull  *bool                `yaml:"ignore_null"`
	IgnoreEmpty *bool                `yaml:"ignore_empty"`
	Properties  []schemaPropertyYAML `yaml:"properties"`
}

var schemaSeq atomic.Uint64

var scalarTypes = map[string]reflect.Type{
	"string":   reflect.TypeFor[string](),
	"int":      reflect.TypeFor[int](),
	"int32":    reflect.TypeFor[int32](),
	"int64":    reflect.TypeFor[int64](),
	"uint":     reflect.TypeFor[uint](),
	"uint64":   reflect.TypeFor[uint64](),
	"float":    reflect.TypeFor[float64](),
	"float32":  reflect.TypeFor[float32](),
	"float64":  reflect.TypeFor[float64](),
	"bool":     reflect.TypeFor[bool](),
	"uuid":     reflect.TypeFor[uuid.UUID](),
	"time":     reflect.TypeFor[time.Time](),
	"duration": reflect.TypeFor[time.Duration](),
}

var rangeTypes = map[string]reflect.Type{
	"string":   reflect.TypeFor[value.Range[string]](),
	"int":      reflect.TypeFor[value.Range[int]](),
	"int64":    reflect.TypeFor[value.Range[int64]](),
	"float":    reflect.TypeFor[value.Range[float64]](),
	"float64":  reflect.TypeFor[value.Range[float64]](),
	"duration": reflect.TypeFor[value.Range[time.Duration]](),
}

var mixtureTypes = map[string]reflect.Type{
	"string":  reflect.TypeFor[value.Mixture[string]](),
	"int":     reflect.TypeFor[value.Mixture[int]](),
	"int64":   reflect.TypeFor[value.Mixture[int64]](),
	"float":   reflect.TypeFor[value.Mixture[float64]](),
	"float64": reflect.TypeFor[value.Mixture[float64]](),
}

// LoadSchema reads a schema from a YAML file
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema parses and validates a YAML schema document
func ParseSchema(data []byte) (*Schema, error) {
	var doc schemaYAML

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", criteriaErrors.ErrInvalidSchema)
		}
		return nil, fmt.Errorf("%w: %v", criteriaErrors.ErrInvalidSchema, err)
	}

	name := strings.TrimSpace(doc.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: schema name is required", criteriaErrors.ErrInvalidSchema)
	}

	return buildSchema(name, doc.Properties)
}

func buildSchema(name string, props []schemaPropertyYAML) (*Schema, error) {
	if len(props) == 0 {
		return nil, fmt.Errorf("%w: %s declares no properties", criteriaErrors.ErrInvalidSchema, name)
	}

	s := &Schema{
		Name:       name,
		Properties: make([]*SchemaProperty, 0, len(props)),
		key:        fmt.Sprintf("schema:%s#%d", name, schemaSeq.Add(1)),
	}

	for _, raw := range props {
		p, err := buildSchemaProperty(name, raw)
		if err != nil {
			return nil, err
		}
		s.Properties = append(s.Properties, p)
	}

	return s, nil
}

func buildSchemaProperty(parent string, raw schemaPropertyYAML) (*SchemaProperty, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: %s has a property without a name", criteriaErrors.ErrInvalidSchema, parent)
	}

	p := &SchemaProperty{
		Name:        name,
		Type:        strings.TrimSpace(raw.Type),
		Names:       raw.Names,
		IgnoreNull:  raw.IgnoreNull == nil || *raw.IgnoreNull,
		IgnoreEmpty: raw.IgnoreEmpty == nil || *raw.IgnoreEmpty,
	}

	if raw.Operator != "" {
		op, err := condition.ParseOperator(raw.Operator)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", criteriaErrors.ErrInvalidSchema, parent, name, err)
		}
		p.Operator = &op
	}

	if len(raw.Properties) > 0 || p.Type == "object" {
		if p.Type != "" && p.Type != "object" {
			return nil, fmt.Errorf("%w: %s.%s: nested property cannot have type %q", criteriaErrors.ErrInvalidSchema, parent, name, p.Type)
		}
		nested, err := buildSchema(parent+"."+name, raw.Properties)
		if err != nil {
			return nil, err
		}
		p.Type = "object"
		p.Schema = nested
		return p, nil
	}

	typ, err := ResolveType(p.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %s.%s: %v", criteriaErrors.ErrInvalidSchema, parent, name, err)
	}
	p.goType = typ

	return p, nil
}

// ResolveType maps a schema type name to its Go type: a scalar name such as
// "int" or "uuid", "[]T" for lists, "range<T>" and "mixture<T>".
func ResolveType(name string) (reflect.Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	switch {
	case name == "":
		return nil, fmt.Errorf("missing type")
	case strings.HasPrefix(name, "[]"):
		elem, err := ResolveType(name[2:])
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil
	case strings.HasPrefix(name, "range<") && strings.HasSuffix(name, ">"):
		if t, ok := rangeTypes[name[len("range<"):len(name)-1]]; ok {
			return t, nil
		}
	case strings.HasPrefix(name, "mixture<") && strings.HasSuffix(name, ">"):
		if t, ok := mixtureTypes[name[len("mixture<"):len(name)-1]]; ok {
			return t, nil
		}
	default:
		if t, ok := scalarTypes[name]; ok {
			return t, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", criteriaErrors.ErrUnsupportedType, name)
}

// GoType returns the resolved Go type of a value property
func (p *SchemaProperty) GoType() reflect.Type {
	return p.goType
}

// New creates an empty record of this schema
func (s *Schema) New() *Record {
	return &Record{schema: s}
}

func (s *Schema) describe(b *Builder) {
	for _, p := range s.Properties {
		var pb *PropertyBuilder
		if p.Schema != nil {
			nested := p.Schema
			pb = Nested(b, p.Name, func() Criteria { return nested.New() })
		} else {
			pb = b.Value(p.Name, p.goType)
		}

		if len(p.Names) > 0 {
			pb.Names(p.Names...)
		}
		if p.Operator != nil {
			pb.Operator(*p.Operator)
		}

		behaviors := IgnoreNone
		if p.IgnoreNull {
			behaviors |= IgnoreNull
		}
		if p.IgnoreEmpty {
			behaviors |= IgnoreEmpty
		}
		pb.Behaviors(behaviors)
	}
}

// Record is a criteria instance backed by a Schema
type Record struct {
	Tracker
	schema *Schema
}

// Describe declares the schema's properties
func (r *Record) Describe(b *Builder) {
	r.schema.describe(b)
}

// DescriptorKey keys the descriptor by schema rather than by Go type
func (r *Record) DescriptorKey() string {
	return r.schema.key
}

// CriteriaName returns the schema name
func (r *Record) CriteriaName() string {
	return r.schema.Name
}

// Schema returns the schema the record was created from
func (r *Record) Schema() *Schema {
	return r.schema
}

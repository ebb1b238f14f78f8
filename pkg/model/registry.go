package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/pay-theory/criteria/pkg/condition"
	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
	"github.com/pay-theory/criteria/pkg/naming"
)

// Registry caches criteria descriptors by type. Lookups are safe for
// concurrent use; a descriptor is stored only once it is fully built, and
// concurrent first uses of the same type share one build.
type Registry struct {
	descriptors sync.Map // map[any]*Descriptor
	builds      singleflight.Group
	convention  naming.Convention
	logger      zerolog.Logger
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithConvention sets the convention for default condition names
func WithConvention(c naming.Convention) RegistryOption {
	return func(r *Registry) {
		r.convention = c
	}
}

// WithLogger sets the logger used for descriptor build events
func WithLogger(l zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry creates a new descriptor registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		convention: naming.Preserve,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry
func Default() *Registry {
	return defaultRegistry
}

// Convention returns the naming convention applied to default names
func (r *Registry) Convention() naming.Convention {
	return r.convention
}

// Register builds and caches the descriptor of c ahead of first use
func (r *Registry) Register(c Describer) error {
	_, err := r.Get(c)
	return err
}

// Get returns the descriptor of c, building it on first use
func (r *Registry) Get(c Describer) (*Descriptor, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil criteria", criteriaErrors.ErrInvalidCriteria)
	}

	key, name := descriptorKey(c)
	if cached, ok := r.descriptors.Load(key); ok {
		return cached.(*Descriptor), nil
	}

	v, err, _ := r.builds.Do(name, func() (any, error) {
		if cached, ok := r.descriptors.Load(key); ok {
			return cached, nil
		}

		d, err := r.build(c, TypeName(c))
		if err != nil {
			return nil, err
		}

		actual, _ := r.descriptors.LoadOrStore(key, d)
		r.logger.Debug().
			Str("criteria", d.Name).
			Int("properties", len(d.properties)).
			Msg("criteria descriptor built")
		return actual, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Descriptor), nil
}

// TypeName returns the name used for c in errors and logs
func TypeName(c any) string {
	if n, ok := c.(interface{ CriteriaName() string }); ok {
		return n.CriteriaName()
	}
	t := reflect.TypeOf(c)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func descriptorKey(c Describer) (any, string) {
	if k, ok := c.(Keyer); ok {
		key := "key:" + k.DescriptorKey()
		return key, key
	}
	// type names are not unique (function-local types), the rtype pointer is
	t := reflect.TypeOf(c)
	return t, fmt.Sprintf("type:%s@%p", t, t)
}

func (r *Registry) build(c Describer, name string) (*Descriptor, error) {
	b := &Builder{}
	c.Describe(b)

	if len(b.errs) > 0 {
		return nil, criteriaErrors.NewError("describe", name,
			fmt.Errorf("%w: %w", criteriaErrors.ErrInvalidDescriptor, errors.Join(b.errs...)))
	}

	d := &Descriptor{
		Name:       name,
		properties: make([]*Property, 0, len(b.properties)),
		byName:     make(map[string]*Property, len(b.properties)),
		lookup:     make(map[string]*Property, len(b.properties)*2),
	}

	for _, p := range b.properties {
		if p.Kind == KindNested && p.Operator != nil &&
			*p.Operator != condition.Exists && *p.Operator != condition.NotExists {
			return nil, criteriaErrors.NewError("describe", name,
				fmt.Errorf("%w: nested property %s only accepts Exists or NotExists, got %s", criteriaErrors.ErrInvalidDescriptor, p.Name, p.Operator.Name()))
		}

		if len(p.Names) == 0 {
			p.Names = []string{r.convention.Apply(p.Name)}
		}

		for _, key := range append([]string{p.Name}, p.Names...) {
			lower := strings.ToLower(key)
			if other, exists := d.lookup[lower]; exists && other != p {
				return nil, criteriaErrors.NewError("describe", name,
					fmt.Errorf("%w: name %q declared by both %s and %s", criteriaErrors.ErrInvalidDescriptor, key, other.Name, p.Name))
			}
			d.lookup[lower] = p
		}

		d.byName[p.Name] = p
		d.properties = append(d.properties, p)
	}

	return d, nil
}

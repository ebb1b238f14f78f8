// Package model provides the criteria contract, per-type descriptor tables
// and the registry that caches them.
package model

// Describer declares the descriptor table of a criteria type. It is called
// once per type, the first time the type is compiled.
type Describer interface {
	Describe(b *Builder)
}

// Keyer is implemented by criteria whose descriptor is not determined by
// their Go type alone, such as schema-driven records.
type Keyer interface {
	DescriptorKey() string
}

// Criteria is a sparse, change-tracked filter model. Only the properties
// that were set contribute to the compiled condition.
type Criteria interface {
	Describer

	// Changes returns the changed properties in the order they were first set
	Changes() []Change
	// Get returns the value of a changed property
	Get(name string) (any, bool)
	// Set records a property change
	Set(name string, value any)
	// Reset forgets a property change
	Reset(name string)
}

// Change is one changed property and its current value
type Change struct {
	Name  string
	Value any
}

// Tracker implements the change tracking half of Criteria. Embed it in a
// criteria struct and add a Describe method.
//
//	type OrderCriteria struct {
//		model.Tracker
//	}
//
//	func (c *OrderCriteria) Describe(b *model.Builder) {
//		model.Field[string](b, "Status")
//	}
type Tracker struct {
	order  []string
	values map[string]any
}

// Set records a property change. Setting an already changed property keeps
// its original position.
func (t *Tracker) Set(name string, value any) {
	if t.values == nil {
		t.values = make(map[string]any)
	}
	if _, exists := t.values[name]; !exists {
		t.order = append(t.order, name)
	}
	t.values[name] = value
}

// Get returns the value of a changed property
func (t *Tracker) Get(name string) (any, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Reset forgets a property change
func (t *Tracker) Reset(name string) {
	if _, exists := t.values[name]; !exists {
		return
	}
	delete(t.values, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Changes returns the changed properties in the order they were first set
func (t *Tracker) Changes() []Change {
	changes := make([]Change, 0, len(t.order))
	for _, name := range t.order {
		changes = append(changes, Change{Name: name, Value: t.values[name]})
	}
	return changes
}

// HasChanges reports whether any property was set
func (t *Tracker) HasChanges() bool {
	return len(t.order) > 0
}

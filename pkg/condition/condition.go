// Package condition provides the boolean condition tree produced by criteria
// compilation: named leaf predicates grouped into AND/OR collections, together
// with the traversal and rewrite algorithms used by downstream translators.
package condition

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Node is either a *Condition or a *Collection
type Node interface {
	fmt.Stringer
	isNode()
}

// Condition represents a single named filter predicate
type Condition struct {
	Name     string
	Operator Operator
	Value    any
}

// New creates a new leaf condition
func New(name string, op Operator, value any) *Condition {
	return &Condition{
		Name:     name,
		Operator: op,
		Value:    value,
	}
}

// ExistsIn creates an Exists condition over a nested collection. The
// subtree's names are relative to name.
func ExistsIn(name string, sub Node) *Condition {
	return New(name, Exists, sub)
}

// NotExistsIn creates a NotExists condition over a nested collection
func NotExistsIn(name string, sub Node) *Condition {
	return New(name, NotExists, sub)
}

func (*Condition) isNode() {}

func (c *Condition) String() string {
	switch c.Operator {
	case Exists, NotExists:
		if sub, ok := c.Value.(Node); ok && !isNil(sub) {
			return fmt.Sprintf("%s %s %s", c.Operator, c.Name, sub)
		}
		return fmt.Sprintf("%s %s", c.Operator, c.Name)
	case Like:
		return fmt.Sprintf("%s %s %q", c.Name, c.Operator, fmt.Sprint(c.Value))
	default:
		return fmt.Sprintf("%s %s %v", c.Name, c.Operator, c.Value)
	}
}

// MarshalJSON encodes the condition as {"name", "operator", "value"}
func (c *Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name     string   `json:"name"`
		Operator Operator `json:"operator"`
		Value    any      `json:"value,omitempty"`
	}{
		Name:     c.Name,
		Operator: c.Operator,
		Value:    c.Value,
	})
}

// Collection is an ordered AND/OR group of nodes. The combination is fixed
// when the collection is created.
type Collection struct {
	combination Combination
	items       []Node
}

// NewCollection creates a collection; nil nodes are skipped
func NewCollection(combination Combination, nodes ...Node) *Collection {
	c := &Collection{
		combination: combination,
		items:       make([]Node, 0, len(nodes)),
	}
	return c.Add(nodes...)
}

func (*Collection) isNode() {}

// Combination returns how the children are joined
func (c *Collection) Combination() Combination {
	return c.combination
}

// Len returns the number of direct children
func (c *Collection) Len() int {
	return len(c.items)
}

// Items returns the direct children. The slice must not be modified.
func (c *Collection) Items() []Node {
	return c.items
}

// At returns the child at index i
func (c *Collection) At(i int) Node {
	return c.items[i]
}

// Add appends nodes, skipping nil ones
func (c *Collection) Add(nodes ...Node) *Collection {
	for _, n := range nodes {
		if !isNil(n) {
			c.items = append(c.items, n)
		}
	}
	return c
}

// RemoveAt removes the child at index i
func (c *Collection) RemoveAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}

func (c *Collection) String() string {
	parts := make([]string, len(c.items))
	for i, item := range c.items {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, " "+c.combination.String()+" ") + ")"
}

// MarshalJSON encodes the collection as {"combination", "items"}
func (c *Collection) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Combination Combination `json:"combination"`
		Items       []Node      `json:"items"`
	}{
		Combination: c.combination,
		Items:       c.items,
	})
}

// And groups the arguments into a conjunction. A collection argument stays a
// single nested child; use Flatten to splice.
func And(first Node, rest ...Node) *Collection {
	return NewCollection(Conjunction, append([]Node{first}, rest...)...)
}

// Or groups the arguments into a disjunction. A collection argument stays a
// single nested child; use Flatten to splice.
func Or(first Node, rest ...Node) *Collection {
	return NewCollection(Disjunction, append([]Node{first}, rest...)...)
}

// IsNil reports whether n is nil or a typed nil node
func IsNil(n Node) bool {
	return isNil(n)
}

func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Condition:
		return v == nil
	case *Collection:
		return v == nil
	default:
		return false
	}
}

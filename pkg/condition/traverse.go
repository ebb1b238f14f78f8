package condition

import (
	"reflect"
	"strings"
)

// walk visits the leaves of n in pre-order, left to right, until visit
// returns false. Subtrees carried as a condition value (Exists/NotExists)
// are opaque and not visited.
func walk(n Node, visit func(*Condition) bool) bool {
	switch v := n.(type) {
	case *Condition:
		if v == nil {
			return true
		}
		return visit(v)
	case *Collection:
		if v == nil {
			return true
		}
		for _, item := range v.items {
			if !walk(item, visit) {
				return false
			}
		}
	}
	return true
}

func nameMatches(c *Condition, name string) bool {
	return strings.EqualFold(c.Name, name)
}

// Contains reports whether any leaf at any depth is named name (case-insensitive)
func Contains(n Node, name string) bool {
	return Find(n, name) != nil
}

// Find returns the first leaf named name, or nil
func Find(n Node, name string) *Condition {
	var found *Condition
	walk(n, func(c *Condition) bool {
		if nameMatches(c, name) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every leaf named name in traversal order
func FindAll(n Node, name string) []*Condition {
	var found []*Condition
	walk(n, func(c *Condition) bool {
		if nameMatches(c, name) {
			found = append(found, c)
		}
		return true
	})
	return found
}

// Match invokes fn on the first leaf named name and reports whether one was found
func Match(n Node, name string, fn func(*Condition)) bool {
	c := Find(n, name)
	if c == nil {
		return false
	}
	if fn != nil {
		fn(c)
	}
	return true
}

// Matches invokes fn on every leaf named name and returns how many there were
func Matches(n Node, name string, fn func(*Condition)) int {
	count := 0
	walk(n, func(c *Condition) bool {
		if nameMatches(c, name) {
			count++
			if fn != nil {
				fn(c)
			}
		}
		return true
	})
	return count
}

// EqualTree reports whether two trees are structurally identical: same shape,
// combinations, names, operators and values.
func EqualTree(a, b Node) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}

	switch x := a.(type) {
	case *Condition:
		y, ok := b.(*Condition)
		if !ok {
			return false
		}
		return x.Name == y.Name && x.Operator == y.Operator && valueEqual(x.Value, y.Value)
	case *Collection:
		y, ok := b.(*Collection)
		if !ok || x.combination != y.combination || len(x.items) != len(y.items) {
			return false
		}
		for i := range x.items {
			if !EqualTree(x.items[i], y.items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func valueEqual(a, b any) bool {
	na, aok := a.(Node)
	nb, bok := b.(Node)
	if aok || bok {
		return aok && bok && EqualTree(na, nb)
	}
	return reflect.DeepEqual(a, b)
}

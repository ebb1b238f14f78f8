package condition

// ReplaceFunc produces the replacement for a matched leaf. depth counts the
// combination changes between the root and the leaf's collection. Returning
// nil removes the leaf.
type ReplaceFunc func(c *Condition, depth int) Node

// Replace rewrites every leaf named name (case-insensitive) with the result of
// fn and returns the new tree plus the number of leaves whose replacement is
// structurally different from the original. The input tree is not modified.
func Replace(n Node, name string, fn ReplaceFunc) (Node, int) {
	if fn == nil || isNil(n) {
		return n, 0
	}

	count := 0
	return replace(n, name, fn, 0, &count), count
}

func replace(n Node, name string, fn ReplaceFunc, depth int, count *int) Node {
	switch v := n.(type) {
	case *Condition:
		if !nameMatches(v, name) {
			return v
		}
		result := fn(v, depth)
		if !EqualTree(v, result) {
			*count++
		}
		return result
	case *Collection:
		out := &Collection{
			combination: v.combination,
			items:       make([]Node, 0, len(v.items)),
		}
		for _, item := range v.items {
			d := depth
			if child, ok := item.(*Collection); ok && child.combination != v.combination {
				d++
			}
			if r := replace(item, name, fn, d, count); !isNil(r) {
				out.items = append(out.items, r)
			}
		}
		return out
	}
	return n
}

// Flatten simplifies a tree associatively: a child collection holding at most
// one element, or sharing its parent's combination, is spliced into the
// parent in place. Children are flattened before they are examined, so
// Flatten(Flatten(n)) equals Flatten(n). A leaf is returned unchanged and the
// input tree is never modified.
func Flatten(n Node) Node {
	c, ok := n.(*Collection)
	if !ok || c == nil {
		return n
	}
	return flatten(c)
}

func flatten(c *Collection) *Collection {
	out := &Collection{
		combination: c.combination,
		items:       make([]Node, 0, len(c.items)),
	}
	for _, item := range c.items {
		out.items = appendFlat(out.items, c.combination, item)
	}
	return out
}

func appendFlat(dst []Node, parent Combination, n Node) []Node {
	child, ok := n.(*Collection)
	if !ok {
		return append(dst, n)
	}
	if child == nil {
		return dst
	}

	flat := flatten(child)
	if len(flat.items) > 1 && flat.combination != parent {
		return append(dst, flat)
	}

	// Spliced children are re-examined against the new parent: a grandchild
	// may now share its combination.
	for _, item := range flat.items {
		dst = appendFlat(dst, parent, item)
	}
	return dst
}

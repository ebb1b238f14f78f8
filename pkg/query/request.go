package query

import (
	"github.com/pay-theory/criteria/pkg/condition"
)

// Request is what a translator receives: the compiled filter plus the
// result window and ordering
type Request struct {
	Condition condition.Node `json:"condition,omitempty"`
	Paging    Paging         `json:"paging"`
	Sortings  Sortings       `json:"sortings,omitempty"`
}

// NewRequest creates a request with disabled paging
func NewRequest(cond condition.Node) *Request {
	return &Request{Condition: cond}
}

// WithPaging sets the paging
func (r *Request) WithPaging(p Paging) *Request {
	r.Paging = p
	return r
}

// OrderBy appends sortings, skipping names already present
func (r *Request) OrderBy(sortings ...Sorting) *Request {
	for _, s := range sortings {
		r.Sortings = r.Sortings.Append(s)
	}
	return r
}

// HasCondition reports whether the request filters at all
func (r *Request) HasCondition() bool {
	return !condition.IsNil(r.Condition)
}

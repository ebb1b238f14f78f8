package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pay-theory/criteria/pkg/condition"
	"github.com/pay-theory/criteria/pkg/config"
)

// Renderer writes command results as text tables or JSON.
type Renderer struct {
	w      io.Writer
	format string
}

// NewRenderer creates a renderer for the given output format.
func NewRenderer(w io.Writer, format string) *Renderer {
	return &Renderer{w: w, format: format}
}

// IsJSON reports whether results are written as JSON.
func (r *Renderer) IsJSON() bool {
	return r.format == config.FormatJSON
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes rows under header.
func (r *Renderer) Table(header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
}

// Properties writes a two column name/value table.
func (r *Renderer) Properties(pairs [][2]any) {
	rows := make([]table.Row, len(pairs))
	for i, p := range pairs {
		rows[i] = table.Row{p[0], p[1]}
	}
	r.Table(table.Row{"Property", "Value"}, rows)
}

// Tree writes a condition tree, one node per line.
func (r *Renderer) Tree(node condition.Node) {
	if condition.IsNil(node) {
		_, _ = fmt.Fprintln(r.w, "(no condition)")
		return
	}

	l := list.NewWriter()
	l.SetOutputMirror(r.w)
	l.SetStyle(list.StyleConnectedLight)
	appendNode(l, node)
	l.Render()
}

func appendNode(l list.Writer, node condition.Node) {
	switch n := node.(type) {
	case *condition.Collection:
		l.AppendItem(n.Combination().String())
		l.Indent()
		for _, child := range n.Items() {
			appendNode(l, child)
		}
		l.UnIndent()
	case *condition.Condition:
		sub, ok := n.Value.(condition.Node)
		if !ok || condition.IsNil(sub) {
			l.AppendItem(n.String())
			return
		}
		l.AppendItem(fmt.Sprintf("%s %s", n.Operator, n.Name))
		l.Indent()
		appendNode(l, sub)
		l.UnIndent()
	}
}

package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
	"github.com/pay-theory/criteria/pkg/query"
	"github.com/pay-theory/criteria/pkg/value"
)

type pagingView struct {
	Mode   string `json:"mode"`
	Text   string `json:"text"`
	Index  int    `json:"index,omitempty"`
	Size   int    `json:"size,omitempty"`
	Total  int64  `json:"total,omitempty"`
	Offset int64  `json:"offset,omitempty"`
	Skip   int64  `json:"skip"`
	Pages  int64  `json:"pages,omitempty"`
}

func newPagingView(p query.Paging) pagingView {
	v := pagingView{
		Text:   p.String(),
		Index:  p.Index,
		Size:   p.Size,
		Total:  p.Total,
		Offset: p.Offset,
		Skip:   p.Skip(),
		Pages:  p.PageCount(),
	}
	switch {
	case p.IsPaged():
		v.Mode = "paged"
	case p.IsLimited():
		v.Mode = "limited"
	default:
		v.Mode = "disabled"
	}
	return v
}

// NewPagingCommand creates the paging command.
func NewPagingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paging <text>",
		Short: "Parse a paging string",
		Long: `Parse a paging string and show the window it selects.

Accepted forms: "" or "*" (disabled), "3" (page 3 of the default size),
"3|50" (page 3 of 50), "10@100" (10 rows from offset 100) and "2/5(100)"
(page 2 of 5 pages over 100 rows).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) > 0 {
				text = args[0]
			}

			p, err := GetEngine(cmd.Context()).ParsePaging(text)
			if err != nil {
				return err
			}

			view := newPagingView(p)
			r := GetRenderer(cmd.Context())
			if r.IsJSON() {
				return r.JSON(view)
			}
			r.Properties([][2]any{
				{"Mode", view.Mode},
				{"Canonical", view.Text},
				{"Index", view.Index},
				{"Size", view.Size},
				{"Offset", view.Offset},
				{"Skip", view.Skip},
				{"Total", view.Total},
				{"Pages", view.Pages},
			})
			return nil
		},
	}
}

type sortingView struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
}

// NewSortingCommand creates the sorting command.
func NewSortingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sorting [--] <text>...",
		Short: "Parse a comma separated sorting list",
		Long: `Parse sorting keys such as "name,-created".

A leading "+" sorts ascending, "-" or "~" descending. Repeated names keep
the first occurrence. Several arguments are joined with commas. Keys that
start with "-" must follow "--" so they are not read as flags.`,
		Example: `  criteria sorting name,-created
  criteria sorting -- -created name`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sortings, err := GetEngine(cmd.Context()).ParseSortings(strings.Join(args, ","))
			if err != nil {
				return err
			}

			views := make([]sortingView, len(sortings))
			rows := make([]table.Row, len(sortings))
			for i, s := range sortings {
				views[i] = sortingView{Name: s.Name, Mode: s.Mode.String()}
				rows[i] = table.Row{i + 1, s.Name, s.Mode}
			}

			r := GetRenderer(cmd.Context())
			if r.IsJSON() {
				return r.JSON(views)
			}
			r.Table(table.Row{"#", "Name", "Mode"}, rows)
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w (descending keys must follow --, e.g. criteria sorting -- -created)", err)
	})

	return cmd
}

type rangeView struct {
	Text      string `json:"text"`
	Minimum   any    `json:"minimum,omitempty"`
	Maximum   any    `json:"maximum,omitempty"`
	Condition string `json:"condition,omitempty"`
}

func describeRange[T int64 | float64 | string](text, name string) (rangeView, error) {
	rng, err := value.ParseRange[T](text)
	if err != nil {
		return rangeView{}, err
	}

	view := rangeView{Text: rng.String()}
	if v, ok := rng.Minimum(); ok {
		view.Minimum = v
	}
	if v, ok := rng.Maximum(); ok {
		view.Maximum = v
	}
	if c := rng.ToCondition(name); c != nil {
		view.Condition = c.String()
	}
	return view, nil
}

// NewRangeCommand creates the range command.
func NewRangeCommand() *cobra.Command {
	var (
		typ  string
		name string
	)

	cmd := &cobra.Command{
		Use:   "range <text>",
		Short: "Parse a range such as (1~10)",
		Long: `Parse a range string and show its bounds and the condition it
produces. A blank, "*" or "?" side is unbounded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				view rangeView
				err  error
			)
			switch typ {
			case "int":
				view, err = describeRange[int64](args[0], name)
			case "float":
				view, err = describeRange[float64](args[0], name)
			case "string":
				view, err = describeRange[string](args[0], name)
			default:
				return fmt.Errorf("%w: range type %q", criteriaErrors.ErrUnsupportedType, typ)
			}
			if err != nil {
				return err
			}

			r := GetRenderer(cmd.Context())
			if r.IsJSON() {
				return r.JSON(view)
			}
			r.Properties([][2]any{
				{"Canonical", view.Text},
				{"Minimum", boundText(view.Minimum)},
				{"Maximum", boundText(view.Maximum)},
				{"Condition", view.Condition},
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", "int", "Bound type (int|float|string)")
	cmd.Flags().StringVar(&name, "name", "value", "Condition name used for the produced condition")
	_ = cmd.RegisterFlagCompletionFunc("type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"int", "float", "string"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func boundText(v any) any {
	if v == nil {
		return "(unbounded)"
	}
	return v
}

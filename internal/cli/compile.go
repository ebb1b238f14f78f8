package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
	"github.com/pay-theory/criteria/pkg/model"
	"github.com/pay-theory/criteria/pkg/query"
)

type compileView struct {
	Schema  string         `json:"schema"`
	Request *query.Request `json:"request"`
	Next    string         `json:"next,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	var (
		schemaPath string
		paging     string
		sorting    string
		cursor     string
	)

	cmd := &cobra.Command{
		Use:   "compile [expression]",
		Short: "Compile a criteria expression against a YAML schema",
		Long: `Populate criteria declared by a YAML schema from a name=value;...
expression and print the resulting condition tree.

With --strict the first invalid assignment fails the command; otherwise
invalid assignments are logged and skipped. --cursor resumes a request
from the continuation token printed by a previous run.`,
		Example: `  criteria compile --schema order.yaml "status=open;total=(10~)"
  criteria compile --schema order.yaml "customer.email=ann" --paging 1|25 --sort -total`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if schemaPath == "" {
				return errors.New("--schema is required")
			}
			schema, err := model.LoadSchema(schemaPath)
			if err != nil {
				return err
			}

			engine := GetEngine(cmd.Context())

			expression := ""
			if len(args) > 0 {
				expression = args[0]
			}

			var req *query.Request
			if cursor != "" {
				if expression != "" {
					return fmt.Errorf("%w: an expression cannot be combined with --cursor", criteriaErrors.ErrInvalidExpression)
				}
				req, err = engine.Resume(schema.New(), cursor)
				if err != nil {
					return err
				}
				decoded, _ := query.DecodeCursor(cursor)
				expression = decoded.Expression
			} else {
				req, err = engine.Request(schema.New(), expression, paging, sorting)
			}
			if err != nil {
				return err
			}

			next, err := engine.NextCursor(expression, req)
			if err != nil {
				return err
			}

			view := compileView{Schema: schema.Name, Request: req, Next: next}
			r := GetRenderer(cmd.Context())
			if r.IsJSON() {
				return r.JSON(view)
			}

			r.Tree(req.Condition)
			r.Properties([][2]any{
				{"Schema", view.Schema},
				{"Paging", req.Paging},
				{"Sorting", req.Sortings},
				{"Next", next},
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "YAML schema declaring the criteria properties")
	cmd.Flags().StringVar(&paging, "paging", "", "Paging string")
	cmd.Flags().StringVar(&sorting, "sort", "", "Comma separated sorting list")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Continuation token from a previous run")
	_ = cmd.MarkFlagFilename("schema", "yaml", "yml")

	return cmd
}

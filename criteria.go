// Package criteria compiles typed filter criteria and criteria expressions
// into condition trees, and parses the paging and sorting grammars that
// travel with them.
package criteria

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pay-theory/criteria/pkg/compiler"
	"github.com/pay-theory/criteria/pkg/condition"
	"github.com/pay-theory/criteria/pkg/config"
	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
	"github.com/pay-theory/criteria/pkg/model"
	"github.com/pay-theory/criteria/pkg/query"
)

// Engine is the main criteria instance: one registry and one compiler
// configured from a config.Config. It is safe for concurrent use.
type Engine struct {
	config   *config.Config
	logger   zerolog.Logger
	registry *model.Registry
	compiler *compiler.Compiler
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger handed to the registry and compiler
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithRegistry shares an existing registry instead of creating one.
// The registry keeps its own naming convention.
func WithRegistry(r *model.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// New creates an Engine. A nil cfg uses config.Defaults().
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		config: cfg,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		e.registry = model.NewRegistry(
			model.WithConvention(cfg.Convention()),
			model.WithLogger(e.logger),
		)
	}

	e.compiler = compiler.New(
		compiler.WithRegistry(e.registry),
		compiler.WithLogger(e.logger),
		compiler.WithWildcard(cfg.WildcardRune(), cfg.WildcardMode()),
		compiler.WithLimits(cfg.ValidationLimits()),
	)

	return e, nil
}

// Config returns the engine configuration
func (e *Engine) Config() *config.Config {
	return e.config
}

// Registry returns the descriptor registry
func (e *Engine) Registry() *model.Registry {
	return e.registry
}

// Compiler returns the underlying compiler
func (e *Engine) Compiler() *compiler.Compiler {
	return e.compiler
}

// Compile converts the changed properties of criteria into a condition tree
func (e *Engine) Compile(criteria model.Criteria, path ...string) (condition.Node, error) {
	return e.compiler.Compile(criteria, path...)
}

// Populate applies a criteria expression using the configured strictness
func (e *Engine) Populate(criteria model.Criteria, text string) (bool, error) {
	return e.compiler.Populate(criteria, text, e.config.Strict)
}

// CompileExpression populates criteria from text and compiles it
func (e *Engine) CompileExpression(criteria model.Criteria, text string) (condition.Node, bool, error) {
	return e.compiler.CompileExpression(criteria, text, e.config.Strict)
}

// ParsePaging parses paging text with the configured default page size
func (e *Engine) ParsePaging(text string) (query.Paging, error) {
	if p, ok := query.TryParsePagingSize(text, e.config.Paging.DefaultSize); ok {
		return p, nil
	}
	return query.Paging{}, fmt.Errorf("%w: %q", criteriaErrors.ErrInvalidPaging, text)
}

// ParseSortings parses a comma separated sorting list
func (e *Engine) ParseSortings(text string) (query.Sortings, error) {
	return query.ParseSortings(text)
}

// Request builds a query request from the three request strings: the
// criteria expression, the paging and the sorting list
func (e *Engine) Request(criteria model.Criteria, expression, paging, sorting string) (*query.Request, error) {
	cond, _, err := e.CompileExpression(criteria, expression)
	if err != nil {
		return nil, err
	}

	p, err := e.ParsePaging(paging)
	if err != nil {
		return nil, err
	}

	sortings, err := e.ParseSortings(sorting)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("criteria", model.TypeName(criteria)).
		Stringer("paging", p).
		Str("sortings", sortings.String()).
		Msg("criteria request built")

	return query.NewRequest(cond).WithPaging(p).OrderBy(sortings...), nil
}

// NextCursor returns the continuation token for the window after req,
// or an empty string on the last window
func (e *Engine) NextCursor(expression string, req *query.Request) (string, error) {
	if req == nil {
		return "", nil
	}
	return query.NextCursor(expression, req.Paging, req.Sortings)
}

// Resume rebuilds a request from a continuation token
func (e *Engine) Resume(criteria model.Criteria, token string) (*query.Request, error) {
	cursor, err := query.DecodeCursor(token)
	if err != nil {
		return nil, err
	}
	if cursor == nil {
		return nil, fmt.Errorf("%w: empty cursor", criteriaErrors.ErrInvalidPaging)
	}

	cond, _, err := e.CompileExpression(criteria, cursor.Expression)
	if err != nil {
		return nil, err
	}
	return query.NewRequest(cond).WithPaging(cursor.Paging).OrderBy(cursor.Sortings...), nil
}

package compiler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/pay-theory/criteria/internal/expr"
	"github.com/pay-theory/criteria/pkg/condition"
	"github.com/pay-theory/criteria/pkg/convert"
	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
	"github.com/pay-theory/criteria/pkg/model"
)

// Populate applies a name=value[;name=value...] expression to criteria.
// Paths are dot-delimited and matched case-insensitively against property
// names and condition names; nested criteria along a path are created when
// missing.
//
// In strict mode the first failing assignment is returned as a
// *errors.PathError. Otherwise failures are logged, the remaining
// assignments are still applied, and the result reports whether every
// assignment succeeded.
func (c *Compiler) Populate(criteria model.Criteria, text string, strict bool) (bool, error) {
	if isNil(criteria) {
		return false, fmt.Errorf("%w: nil criteria", criteriaErrors.ErrInvalidCriteria)
	}

	typeName := model.TypeName(criteria)

	pairs, err := c.tokenize(text)
	if err != nil {
		if strict {
			return false, criteriaErrors.NewError("populate", typeName, err)
		}
		c.logger.Warn().
			Err(err).
			Str("criteria", typeName).
			Msg("criteria expression rejected")
		return false, nil
	}

	complete := true
	for _, pair := range pairs {
		err := c.assign(criteria, pair)
		if err == nil {
			continue
		}

		if errors.Is(err, criteriaErrors.ErrInvalidDescriptor) {
			return false, err
		}

		pathErr := criteriaErrors.NewPathError(pair.Path, typeName, err)
		if strict {
			return false, pathErr
		}

		complete = false
		c.logger.Warn().
			Err(err).
			Str("criteria", typeName).
			Str("path", pair.Path).
			Msg("criteria assignment skipped")
	}

	return complete, nil
}

// CompileExpression populates criteria from text and compiles it. The
// boolean has the meaning described for Populate.
func (c *Compiler) CompileExpression(criteria model.Criteria, text string, strict bool) (condition.Node, bool, error) {
	complete, err := c.Populate(criteria, text, strict)
	if err != nil {
		return nil, false, err
	}

	node, err := c.Compile(criteria)
	if err != nil {
		return nil, false, err
	}
	return node, complete, nil
}

func (c *Compiler) tokenize(text string) ([]expr.Pair, error) {
	if err := c.limits.ValidateExpression(text); err != nil {
		return nil, err
	}
	return expr.Tokenize(text)
}

func (c *Compiler) assign(root model.Criteria, pair expr.Pair) error {
	if err := c.limits.ValidatePath(pair.Path); err != nil {
		return err
	}
	if err := c.limits.ValidateValue(pair.Path, pair.Value); err != nil {
		return err
	}

	segments := strings.Split(pair.Path, ".")
	current := root

	// nested criteria created along the path are attached only once the
	// leaf value converts, so a failing pair leaves root unchanged
	var pending []attachment

	for i, segment := range segments {
		d, err := c.registry.Get(current)
		if err != nil {
			return err
		}

		p, ok := d.Lookup(segment)
		if !ok {
			return fmt.Errorf("%w: %s has no property %q", criteriaErrors.ErrUnresolvedPath, d.Name, segment)
		}

		last := i == len(segments)-1
		if !last {
			if p.Kind != model.KindNested {
				return fmt.Errorf("%w: %s.%s is not a nested criteria", criteriaErrors.ErrUnresolvedPath, d.Name, p.Name)
			}
			next, created := child(current, p)
			if created {
				pending = append(pending, attachment{parent: current, name: p.Name, child: next})
			}
			current = next
			continue
		}

		if p.Kind == model.KindNested {
			return fmt.Errorf("%w: %s.%s is a nested criteria and takes no value", criteriaErrors.ErrUnresolvedPath, d.Name, p.Name)
		}

		v, err := c.parseValue(pair, p.Type)
		if err != nil {
			return err
		}
		current.Set(p.Name, v)
	}

	for _, a := range pending {
		a.parent.Set(a.name, a.child)
	}
	return nil
}

type attachment struct {
	parent model.Criteria
	name   string
	child  model.Criteria
}

// child returns the nested criteria held by p, or a new one from its factory.
// A new criteria is not stored on parent.
func child(parent model.Criteria, p *model.Property) (model.Criteria, bool) {
	if existing, ok := parent.Get(p.Name); ok && !isNil(existing) {
		if nested, ok := existing.(model.Criteria); ok {
			return nested, false
		}
	}
	return p.Factory(), true
}

func (c *Compiler) parseValue(pair expr.Pair, typ reflect.Type) (any, error) {
	elem := typ
	for elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}

	if elem.Kind() == reflect.Bool && strings.TrimSpace(pair.Value) == "" {
		v, err := convert.Value("true", typ)
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil
	}

	if convert.IsList(elem) {
		if err := c.limits.ValidateList(pair.Path, len(convert.Split(convert.TrimBrackets(pair.Value)))); err != nil {
			return nil, err
		}
		v, err := convert.List(pair.Value, elem)
		if err != nil {
			return nil, err
		}
		if typ.Kind() == reflect.Ptr {
			ptr := reflect.New(elem)
			ptr.Elem().Set(v)
			return ptr.Interface(), nil
		}
		return v.Interface(), nil
	}

	v, err := convert.Value(pair.Value, typ)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

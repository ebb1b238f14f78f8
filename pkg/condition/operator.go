package condition

import (
	"fmt"
	"strings"

	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
)

// Operator is the comparison applied by a Condition
type Operator int

const (
	Equal Operator = iota
	NotEqual
	GreaterThan
	GreaterThanEqual
	LessThan
	LessThanEqual
	Like
	Between
	In
	NotIn
	Exists
	NotExists
)

var operatorNames = [...]string{
	Equal:            "Equal",
	NotEqual:         "NotEqual",
	GreaterThan:      "GreaterThan",
	GreaterThanEqual: "GreaterThanEqual",
	LessThan:         "LessThan",
	LessThanEqual:    "LessThanEqual",
	Like:             "Like",
	Between:          "Between",
	In:               "In",
	NotIn:            "NotIn",
	Exists:           "Exists",
	NotExists:        "NotExists",
}

var operatorSymbols = [...]string{
	Equal:            "=",
	NotEqual:         "!=",
	GreaterThan:      ">",
	GreaterThanEqual: ">=",
	LessThan:         "<",
	LessThanEqual:    "<=",
	Like:             "LIKE",
	Between:          "BETWEEN",
	In:               "IN",
	NotIn:            "NOT IN",
	Exists:           "EXISTS",
	NotExists:        "NOT EXISTS",
}

// IsValid reports whether o is one of the declared operators
func (o Operator) IsValid() bool {
	return o >= Equal && o <= NotExists
}

// Name returns the identifier form of the operator, e.g. "GreaterThanEqual"
func (o Operator) Name() string {
	if !o.IsValid() {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorNames[o]
}

// String returns the symbolic form of the operator, e.g. ">="
func (o Operator) String() string {
	if !o.IsValid() {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorSymbols[o]
}

// MarshalText encodes the operator by name
func (o Operator) MarshalText() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("%w: %d", criteriaErrors.ErrInvalidOperator, int(o))
	}
	return []byte(o.Name()), nil
}

// UnmarshalText accepts any form understood by ParseOperator
func (o *Operator) UnmarshalText(text []byte) error {
	op, err := ParseOperator(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// ParseOperator resolves an operator from its name, short code or symbol
func ParseOperator(text string) (Operator, error) {
	key := strings.ToUpper(strings.TrimSpace(text))
	key = strings.NewReplacer("_", "", " ", "").Replace(key)

	switch key {
	case "EQUAL", "EQ", "=", "==":
		return Equal, nil
	case "NOTEQUAL", "NE", "!=", "<>":
		return NotEqual, nil
	case "GREATERTHAN", "GT", ">":
		return GreaterThan, nil
	case "GREATERTHANEQUAL", "GE", "GTE", ">=":
		return GreaterThanEqual, nil
	case "LESSTHAN", "LT", "<":
		return LessThan, nil
	case "LESSTHANEQUAL", "LE", "LTE", "<=":
		return LessThanEqual, nil
	case "LIKE":
		return Like, nil
	case "BETWEEN":
		return Between, nil
	case "IN":
		return In, nil
	case "NOTIN", "NIN":
		return NotIn, nil
	case "EXISTS":
		return Exists, nil
	case "NOTEXISTS":
		return NotExists, nil
	default:
		return Equal, fmt.Errorf("%w: %s", criteriaErrors.ErrInvalidOperator, text)
	}
}

// Combination joins the children of a Collection
type Combination int

const (
	// Conjunction requires every child to hold (AND)
	Conjunction Combination = iota
	// Disjunction requires any child to hold (OR)
	Disjunction
)

func (c Combination) String() string {
	if c == Disjunction {
		return "OR"
	}
	return "AND"
}

// MarshalText encodes the combination as AND or OR
func (c Combination) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

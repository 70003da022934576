package query

import (
	"strings"

	"github.com/pkg/errors"
)

// Operator is the comparison a selector requirement applies.
type Operator string

const (
	OpEquals    Operator = "="
	OpNotEquals Operator = "!="
	OpIn        Operator = "in"
	OpNotIn     Operator = "notin"
	OpExists    Operator = "exists"
	OpNotExists Operator = "!"
)

// ErrInvalidSelector is returned for selector expressions that cannot be parsed.
var ErrInvalidSelector = errors.New("invalid selector")

// Requirement is one parsed selector expression, e.g. "env in (dev,prod)".
type Requirement struct {
	Key      string
	Operator Operator
	Values   []string
}

// Selector is a conjunction of requirements against a common field space.
// Label selectors address label keys; field selectors address field paths.
type Selector struct {
	Requirements []Requirement
}

// Empty reports whether the selector constrains nothing.
func (s Selector) Empty() bool {
	return len(s.Requirements) == 0
}

// Queries converts each requirement into a query, mapping requirement keys
// to field paths with fieldOf.
func (s Selector) Queries(fieldOf func(key string) string) []Query {
	queries := make([]Query, 0, len(s.Requirements))
	for _, r := range s.Requirements {
		queries = append(queries, r.Query(fieldOf(r.Key)))
	}
	return queries
}

// Query converts the requirement into a predicate over field.
func (r Requirement) Query(field string) Query {
	switch r.Operator {
	case OpNotEquals:
		return NewNotEqual(field, first(r.Values))
	case OpIn:
		return NewIn(field, r.Values...)
	case OpNotIn:
		return NewNotIn(field, r.Values...)
	case OpExists:
		return NewExists(field)
	case OpNotExists:
		return NewNotExists(field)
	default:
		return NewEqual(field, first(r.Values))
	}
}

// ParseLabelSelector parses repeated labelSelector parameters. Besides the
// comparison forms it accepts "key" (exists) and "!key" (does not exist).
func ParseLabelSelector(raw []string) (Selector, error) {
	return parseSelector(raw, true)
}

// ParseFieldSelector parses repeated fieldSelector parameters.
func ParseFieldSelector(raw []string) (Selector, error) {
	return parseSelector(raw, false)
}

func parseSelector(raw []string, allowExistence bool) (Selector, error) {
	var sel Selector
	for _, expr := range raw {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			continue
		}
		r, err := parseRequirement(expr, allowExistence)
		if err != nil {
			return Selector{}, err
		}
		sel.Requirements = append(sel.Requirements, r)
	}
	return sel, nil
}

func parseRequirement(expr string, allowExistence bool) (Requirement, error) {
	if key, values, ok := splitSetExpr(expr, " notin "); ok && validKey(key) {
		return setRequirement(expr, key, OpNotIn, values)
	}
	if key, values, ok := splitSetExpr(expr, " in "); ok && validKey(key) {
		return setRequirement(expr, key, OpIn, values)
	}
	if i := strings.Index(expr, "!="); i >= 0 {
		return valueRequirement(expr, expr[:i], OpNotEquals, expr[i+2:])
	}
	if i := strings.Index(expr, "=="); i >= 0 {
		return valueRequirement(expr, expr[:i], OpEquals, expr[i+2:])
	}
	if i := strings.Index(expr, "="); i >= 0 {
		return valueRequirement(expr, expr[:i], OpEquals, expr[i+1:])
	}

	if !allowExistence {
		return Requirement{}, errors.Wrapf(ErrInvalidSelector, "%q: missing operator", expr)
	}
	if strings.HasPrefix(expr, "!") {
		key := strings.TrimSpace(expr[1:])
		if !validKey(key) {
			return Requirement{}, errors.Wrapf(ErrInvalidSelector, "%q: invalid key", expr)
		}
		return Requirement{Key: key, Operator: OpNotExists}, nil
	}
	if !validKey(expr) {
		return Requirement{}, errors.Wrapf(ErrInvalidSelector, "%q: invalid key", expr)
	}
	return Requirement{Key: expr, Operator: OpExists}, nil
}

func valueRequirement(expr, key string, op Operator, value string) (Requirement, error) {
	key = strings.TrimSpace(key)
	if !validKey(key) {
		return Requirement{}, errors.Wrapf(ErrInvalidSelector, "%q: invalid key", expr)
	}
	return Requirement{Key: key, Operator: op, Values: []string{strings.TrimSpace(value)}}, nil
}

func setRequirement(expr, key string, op Operator, list string) (Requirement, error) {
	list = strings.TrimSpace(list)
	if !strings.HasPrefix(list, "(") || !strings.HasSuffix(list, ")") {
		return Requirement{}, errors.Wrapf(ErrInvalidSelector, "%q: values must be enclosed in parentheses", expr)
	}
	inner := strings.TrimSpace(list[1 : len(list)-1])
	if inner == "" {
		return Requirement{}, errors.Wrapf(ErrInvalidSelector, "%q: empty value set", expr)
	}
	parts := strings.Split(inner, ",")
	values := make([]string, len(parts))
	for i, p := range parts {
		values[i] = strings.TrimSpace(p)
	}
	return Requirement{Key: key, Operator: op, Values: values}, nil
}

func splitSetExpr(expr, op string) (key, values string, ok bool) {
	i := strings.Index(expr, op)
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(expr[:i]), expr[i+len(op):], true
}

func validKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, " \t=!(),")
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

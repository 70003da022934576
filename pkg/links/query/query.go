// Package query models filter predicates over link fields as an immutable
// expression tree, plus the selector and sort syntax that feed it.
package query

import (
	"strconv"
	"strings"
)

// Query is a node of a filter expression tree. The concrete variants are
// All, And, Or, Not, Contains, Equal, In and Exists.
type Query interface {
	String() string
	isQuery()
}

// All matches every record. It is the identity for conjunction.
type All struct{}

// And matches when every child matches.
type And struct {
	Queries []Query
}

// Or matches when at least one child matches.
type Or struct {
	Queries []Query
}

// Not negates its child.
type Not struct {
	Query Query
}

// Contains matches when the field contains Value as a substring.
type Contains struct {
	Field string
	Value string
}

// Equal matches when the field equals Value.
type Equal struct {
	Field string
	Value string
}

// In matches when the field equals any of Values.
type In struct {
	Field  string
	Values []string
}

// Exists matches when the field is present. Only label fields can be absent.
type Exists struct {
	Field string
}

func (All) isQuery()      {}
func (And) isQuery()      {}
func (Or) isQuery()       {}
func (Not) isQuery()      {}
func (Contains) isQuery() {}
func (Equal) isQuery()    {}
func (In) isQuery()       {}
func (Exists) isQuery()   {}

// NewAll returns the match-everything query.
func NewAll() Query { return All{} }

// NewAnd joins queries with a conjunction.
func NewAnd(queries ...Query) Query { return And{Queries: queries} }

// NewOr joins queries with a disjunction.
func NewOr(queries ...Query) Query { return Or{Queries: queries} }

// NewNot negates q.
func NewNot(q Query) Query { return Not{Query: q} }

// NewContains builds a substring match on field.
func NewContains(field, value string) Query { return Contains{Field: field, Value: value} }

// NewEqual builds an equality match on field.
func NewEqual(field, value string) Query { return Equal{Field: field, Value: value} }

// NewNotEqual is Not(Equal). Records lacking the field match.
func NewNotEqual(field, value string) Query { return NewNot(NewEqual(field, value)) }

// NewIn builds a set-membership match on field.
func NewIn(field string, values ...string) Query { return In{Field: field, Values: values} }

// NewNotIn is Not(In).
func NewNotIn(field string, values ...string) Query { return NewNot(NewIn(field, values...)) }

// NewExists builds a presence check on field.
func NewExists(field string) Query { return Exists{Field: field} }

// NewNotExists is Not(Exists).
func NewNotExists(field string) Query { return NewNot(NewExists(field)) }

func (All) String() string { return "*" }

func (q And) String() string { return join(q.Queries, " AND ") }

func (q Or) String() string { return join(q.Queries, " OR ") }

func (q Not) String() string { return "NOT " + q.Query.String() }

func (q Contains) String() string {
	return q.Field + " CONTAINS " + strconv.Quote(q.Value)
}

func (q Equal) String() string {
	return q.Field + " = " + strconv.Quote(q.Value)
}

func (q In) String() string {
	quoted := make([]string, len(q.Values))
	for i, v := range q.Values {
		quoted[i] = strconv.Quote(v)
	}
	return q.Field + " IN (" + strings.Join(quoted, ", ") + ")"
}

func (q Exists) String() string { return "EXISTS " + q.Field }

func join(queries []Query, sep string) string {
	parts := make([]string, len(queries))
	for i, q := range queries {
		parts[i] = q.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

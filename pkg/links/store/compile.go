package store

import (
	"strconv"
	"strings"

	"github.com/AR-26710/plugin-links/pkg/links/models"
	"github.com/AR-26710/plugin-links/pkg/links/query"
	"github.com/pkg/errors"
)

// ErrUnsupportedField is returned when a filter or sort addresses a field that
// is not indexed, or applies an operation the field's type cannot serve.
var ErrUnsupportedField = errors.New("unsupported field")

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindBool
	kindTime
)

type column struct {
	name string
	kind fieldKind
}

// linkIndex maps indexed link field paths to columns of the links table
var linkIndex = map[string]column{
	models.FieldName:              {"links.name", kindString},
	models.FieldCreationTimestamp: {"links.creation_timestamp", kindTime},
	models.FieldDisplayName:       {"links.display_name", kindString},
	models.FieldDescription:       {"links.description", kindString},
	models.FieldURL:               {"links.url", kindString},
	models.FieldLogo:              {"links.logo", kindString},
	models.FieldPriority:          {"links.priority", kindInt},
	models.FieldGroupName:         {"links.group_name", kindString},
	models.FieldHidden:            {"links.hidden", kindBool},
}

const (
	matchAll     = "1 = 1"
	matchNothing = "1 = 0"

	labelExists = "EXISTS (SELECT 1 FROM link_labels WHERE link_labels.link_id = links.id AND link_labels.label_key = ?"
)

// compiler turns a query tree into a SQL predicate with positional arguments
type compiler struct {
	sql  strings.Builder
	args []any
}

func compileLinkQuery(q query.Query) (string, []any, error) {
	c := &compiler{}
	if err := c.compile(q); err != nil {
		return "", nil, err
	}
	return c.sql.String(), c.args, nil
}

func (c *compiler) compile(q query.Query) error {
	switch q := q.(type) {
	case query.All:
		c.sql.WriteString(matchAll)
	case query.And:
		return c.compileJunction(q.Queries, " AND ", matchAll)
	case query.Or:
		return c.compileJunction(q.Queries, " OR ", matchNothing)
	case query.Not:
		c.sql.WriteString("NOT (")
		if err := c.compile(q.Query); err != nil {
			return err
		}
		c.sql.WriteString(")")
	case query.Contains:
		return c.compileContains(q)
	case query.Equal:
		return c.compileIn(q.Field, []string{q.Value}, true)
	case query.In:
		return c.compileIn(q.Field, q.Values, false)
	case query.Exists:
		return c.compileExists(q)
	default:
		return errors.Errorf("unknown query node %T", q)
	}
	return nil
}

func (c *compiler) compileJunction(queries []query.Query, sep, empty string) error {
	if len(queries) == 0 {
		c.sql.WriteString(empty)
		return nil
	}
	c.sql.WriteString("(")
	for i, sub := range queries {
		if i > 0 {
			c.sql.WriteString(sep)
		}
		if err := c.compile(sub); err != nil {
			return err
		}
	}
	c.sql.WriteString(")")
	return nil
}

func (c *compiler) compileContains(q query.Contains) error {
	// case is folded by the database on both sides
	pattern := "%" + escapeLike(q.Value) + "%"
	if key, ok := labelKey(q.Field); ok {
		c.write(labelExists+" AND LOWER(link_labels.label_value) LIKE LOWER(?) ESCAPE '!')", key, pattern)
		return nil
	}
	col, err := lookup(q.Field)
	if err != nil {
		return err
	}
	if col.kind != kindString {
		return errors.Wrapf(ErrUnsupportedField, "%s does not support contains", q.Field)
	}
	c.write("LOWER("+col.name+") LIKE LOWER(?) ESCAPE '!'", pattern)
	return nil
}

// compileIn serves both Equal and In; single renders "col = ?" for readability
func (c *compiler) compileIn(field string, values []string, single bool) error {
	if key, ok := labelKey(field); ok {
		if single {
			c.write(labelExists+" AND link_labels.label_value = ?)", key, values[0])
		} else {
			c.write(labelExists+" AND link_labels.label_value IN ?)", key, values)
		}
		return nil
	}
	col, err := lookup(field)
	if err != nil {
		return err
	}

	var typed []any
	switch col.kind {
	case kindString:
		for _, v := range values {
			typed = append(typed, v)
		}
	case kindBool:
		for _, v := range values {
			// index values are the canonical "true"/"false" strings
			if v == "true" || v == "false" {
				typed = append(typed, v == "true")
			}
		}
	case kindInt:
		for _, v := range values {
			if n, err := strconv.Atoi(v); err == nil {
				typed = append(typed, n)
			}
		}
	default:
		return errors.Wrapf(ErrUnsupportedField, "%s does not support equality", field)
	}

	switch {
	case len(typed) == 0:
		c.sql.WriteString(matchNothing)
	case single:
		c.write(col.name+" = ?", typed[0])
	default:
		c.write(col.name+" IN ?", typed)
	}
	return nil
}

func (c *compiler) compileExists(q query.Exists) error {
	if key, ok := labelKey(q.Field); ok {
		c.write(labelExists+")", key)
		return nil
	}
	if _, err := lookup(q.Field); err != nil {
		return err
	}
	// indexed columns are always present
	c.sql.WriteString(matchAll)
	return nil
}

func (c *compiler) write(sql string, args ...any) {
	c.sql.WriteString(sql)
	c.args = append(c.args, args...)
}

// compileOrders maps sort orders to ORDER BY terms, keeping duplicates
func compileOrders(orders []query.Order) ([]string, error) {
	terms := make([]string, 0, len(orders))
	for _, o := range orders {
		if _, ok := labelKey(o.Field); ok {
			return nil, errors.Wrapf(ErrUnsupportedField, "cannot sort by label %s", o.Field)
		}
		col, err := lookup(o.Field)
		if err != nil {
			return nil, err
		}
		dir := "ASC"
		if o.Direction == query.Desc {
			dir = "DESC"
		}
		terms = append(terms, col.name+" "+dir)
	}
	return terms, nil
}

func lookup(field string) (column, error) {
	col, ok := linkIndex[field]
	if !ok {
		return column{}, errors.Wrapf(ErrUnsupportedField, "%s is not indexed", field)
	}
	return col, nil
}

func labelKey(field string) (string, bool) {
	if !strings.HasPrefix(field, models.LabelFieldPrefix) {
		return "", false
	}
	key := strings.TrimPrefix(field, models.LabelFieldPrefix)
	return key, key != ""
}

func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

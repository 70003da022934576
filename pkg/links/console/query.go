package console

import (
	"strconv"
	"strings"

	"github.com/AR-26710/plugin-links/pkg/links/models"
	"github.com/AR-26710/plugin-links/pkg/links/query"
)

// LinkQuery holds the decoded parameters of a console link listing
type LinkQuery struct {
	Keyword   string
	GroupName string
	// Hidden is nil when the caller did not filter on visibility
	Hidden        *bool
	LabelSelector query.Selector
	FieldSelector query.Selector
	Sort          []query.Order
	Page          int
	Size          int
}

// ParseHidden parses the hidden parameter. Blank input means unset; any other
// value is true only if it equals "true" ignoring case, so "yes" or " true"
// filter on hidden == false.
func ParseHidden(s string) *bool {
	if isBlank(s) {
		return nil
	}
	hidden := strings.EqualFold(s, "true")
	return &hidden
}

// ToFilter builds the filter predicate: the selector predicate combined by
// conjunction with a keyword match over display name, description and URL,
// a group equality and a hidden equality, each only when given. Without any
// of the three the selector predicate is returned as is.
func (q LinkQuery) ToFilter() query.Query {
	base := q.selectorQuery()

	var conjuncts []query.Query
	if !isBlank(q.Keyword) {
		conjuncts = append(conjuncts, query.NewOr(
			query.NewContains(models.FieldDisplayName, q.Keyword),
			query.NewContains(models.FieldDescription, q.Keyword),
			query.NewContains(models.FieldURL, q.Keyword),
		))
	}
	if !isBlank(q.GroupName) {
		conjuncts = append(conjuncts, query.NewEqual(models.FieldGroupName, q.GroupName))
	}
	if q.Hidden != nil {
		conjuncts = append(conjuncts, query.NewEqual(models.FieldHidden, strconv.FormatBool(*q.Hidden)))
	}

	if len(conjuncts) == 0 {
		return base
	}
	return query.NewAnd(append([]query.Query{base}, conjuncts...)...)
}

// ToPageRequest builds the page request. The caller's sort orders always get
// creation time descending then name ascending appended, even when they
// already sort by those fields.
func (q LinkQuery) ToPageRequest() query.PageRequest {
	sort := make([]query.Order, 0, len(q.Sort)+2)
	sort = append(sort, q.Sort...)
	sort = append(sort,
		query.DescOrder(models.FieldCreationTimestamp),
		query.AscOrder(models.FieldName),
	)
	return query.PageRequest{Page: q.Page, Size: q.Size, Sort: sort}
}

func (q LinkQuery) selectorQuery() query.Query {
	queries := q.LabelSelector.Queries(func(key string) string {
		return models.LabelFieldPrefix + key
	})
	queries = append(queries, q.FieldSelector.Queries(func(key string) string {
		return key
	})...)

	switch len(queries) {
	case 0:
		return query.NewAll()
	case 1:
		return queries[0]
	default:
		return query.NewAnd(queries...)
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

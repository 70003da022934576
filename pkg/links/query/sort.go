package query

import (
	"strings"

	"github.com/pkg/errors"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ErrInvalidSort is returned for sort parameters that cannot be parsed.
var ErrInvalidSort = errors.New("invalid sort")

// Order sorts by a single field path.
type Order struct {
	Field     string
	Direction Direction
}

// AscOrder sorts field ascending.
func AscOrder(field string) Order { return Order{Field: field, Direction: Asc} }

// DescOrder sorts field descending.
func DescOrder(field string) Order { return Order{Field: field, Direction: Desc} }

func (o Order) String() string { return o.Field + "," + string(o.Direction) }

// PageRequest selects one page of an ordered result.
// Page is 1-based. A Size of zero requests every record on a single page.
type PageRequest struct {
	Page int
	Size int
	Sort []Order
}

// Unpaged reports whether the request returns all records.
func (p PageRequest) Unpaged() bool {
	return p.Size <= 0
}

// Offset returns the number of records preceding the page.
func (p PageRequest) Offset() int {
	if p.Unpaged() || p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Size
}

// ParseSort parses repeated sort parameters of the form
// "field[,field...][,asc|desc]". Every field in one parameter shares its
// direction, which defaults to ascending. Blank parameters are ignored.
func ParseSort(raw []string) ([]Order, error) {
	var orders []Order
	for _, param := range raw {
		if strings.TrimSpace(param) == "" {
			continue
		}
		parts := strings.Split(param, ",")
		dir := Asc
		if d, ok := parseDirection(parts[len(parts)-1]); ok {
			dir = d
			parts = parts[:len(parts)-1]
		}
		if len(parts) == 0 {
			return nil, errors.Wrapf(ErrInvalidSort, "%q: missing field", param)
		}
		for _, field := range parts {
			field = strings.TrimSpace(field)
			if field == "" {
				return nil, errors.Wrapf(ErrInvalidSort, "%q: empty field", param)
			}
			orders = append(orders, Order{Field: field, Direction: dir})
		}
	}
	return orders, nil
}

func parseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Asc, true
	case "desc":
		return Desc, true
	}
	return "", false
}

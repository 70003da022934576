package store

// ListResult is one page of records along with paging metadata
type ListResult[T any] struct {
	Page        int   `json:"page"`
	Size        int   `json:"size"`
	Total       int64 `json:"total"`
	Items       []T   `json:"items"`
	First       bool  `json:"first"`
	Last        bool  `json:"last"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
	TotalPages  int64 `json:"totalPages"`
}

// NewListResult computes paging metadata for items taken from a result set of
// total records. A size of zero means a single page holding everything.
func NewListResult[T any](page, size int, total int64, items []T) *ListResult[T] {
	if page < 1 {
		page = 1
	}
	if items == nil {
		items = []T{}
	}

	totalPages := int64(1)
	if size > 0 {
		totalPages = (total + int64(size) - 1) / int64(size)
	}

	return &ListResult[T]{
		Page:        page,
		Size:        size,
		Total:       total,
		Items:       items,
		First:       page <= 1,
		Last:        int64(page) >= totalPages,
		HasNext:     int64(page) < totalPages,
		HasPrevious: page > 1,
		TotalPages:  totalPages,
	}
}

// Map converts the items of a result while keeping its paging metadata
func Map[T, R any](r *ListResult[T], fn func(T) R) *ListResult[R] {
	items := make([]R, len(r.Items))
	for i, item := range r.Items {
		items[i] = fn(item)
	}
	return &ListResult[R]{
		Page:        r.Page,
		Size:        r.Size,
		Total:       r.Total,
		Items:       items,
		First:       r.First,
		Last:        r.Last,
		HasNext:     r.HasNext,
		HasPrevious: r.HasPrevious,
		TotalPages:  r.TotalPages,
	}
}

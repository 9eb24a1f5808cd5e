package domain

import "math"

const (
	MinPageSize = 1
	MaxPageSize = 100
)

type ProductFilter struct {
	Search   string
	Page     int
	PageSize int
}

func (f ProductFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// OffsetOverflows reports whether Offset would not fit in an int.
func (f ProductFilter) OffsetOverflows() bool {
	return f.PageSize > 0 && f.Page > 1 && f.Page-1 > math.MaxInt/f.PageSize
}

// ProductPage is one page of products and the total they were drawn from, read from the same snapshot.
type ProductPage struct {
	Items    []Product
	Total    int
	Page     int
	PageSize int
}

func (p ProductPage) Pages() int {
	return PageCount(p.Total, p.PageSize)
}

// PageCount returns ceil(total / pageSize).
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

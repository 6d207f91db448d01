package task

import (
	"math"
	"strconv"
)

// Pagination describes the page returned by a list operation.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// ParsePositive parses raw as a positive integer, returning def when raw is
// empty, not a number or less than one.
func ParsePositive(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Offset returns the number of items preceding page.
func Offset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// NewPagination computes the page count for total items split into pages of limit.
func NewPagination(total int64, page, limit int) Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{
		Total: total,
		Page:  page,
		Pages: int(pages),
	}
}

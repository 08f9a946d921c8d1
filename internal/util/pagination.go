package util

import "strconv"

const (
	DefaultPageSize = 20
	// OrderPageSize is how many orders a board fetches when no size is given.
	OrderPageSize = 1000
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Calculate clamps size to [1, max] and turns a 1-based page into an offset.
func Calculate(page, size, max int) (offset int, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > max {
		size = max
	}

	offset = (page - 1) * size
	limit = size
	return offset, limit
}

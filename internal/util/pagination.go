package util

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxOffset keeps offsets within a 32-bit integer on every driver.
	MaxOffset = math.MaxInt32
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

// Calculate normalizes page and size and returns the matching offset and limit.
// Pages past MaxOffset are clamped to the last page that still fits, which is
// empty for any realistic table.
func Calculate(page, size int) (p, offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if maxPage := MaxOffset/size + 1; page > maxPage {
		page = maxPage
	}
	return page, (page - 1) * size, size
}

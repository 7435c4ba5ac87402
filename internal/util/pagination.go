package util

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxOffset       = math.MaxInt32
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

// Calculate normalises page and size and turns them into an offset. Pages
// start at 1. Size is clamped to MaxPageSize and the offset to MaxOffset.
func Calculate(page, size int) (normPage, offset, limit int) {
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	if maxPage := MaxOffset/size + 1; page > maxPage {
		page = maxPage
	}
	return page, (page - 1) * size, size
}

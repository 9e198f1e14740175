package store

import (
	"github.com/pkg/errors"
)

// Page size bounds shared by every list operation.
const (
	MinPageSize     = 1
	MaxPageSize     = 200
	DefaultPageSize = 30
)

// ErrNoData signals an insert or update that should have returned exactly one
// row but returned none. This is a logic bug or a constraint silently rejecting
// the row, not a transport error, and is surfaced distinctly so callers can
// tell the two apart.
var ErrNoData = errors.New("insert/update returned no data")

// ErrNoFieldsToUpdate rejects an empty update patch before any storage access.
var ErrNoFieldsToUpdate = errors.New("no fields to update")

// NormalizePageSize clamps a requested page size into [MinPageSize, MaxPageSize].
func NormalizePageSize(pageSize int) int {
	if pageSize < MinPageSize {
		return MinPageSize
	}
	if pageSize > MaxPageSize {
		return MaxPageSize
	}
	return pageSize
}

// NormalizeOffset clamps a negative offset to zero.
func NormalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// normalizePagination applies the page-size contract to a find struct's
// optional Limit/Offset pointers in place.
func normalizePagination(limit, offset *int) {
	if limit != nil {
		*limit = NormalizePageSize(*limit)
	}
	if offset != nil {
		*offset = NormalizeOffset(*offset)
	}
}

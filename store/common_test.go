package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePageSize(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		want     int
	}{
		{"zero clamps to min", 0, MinPageSize},
		{"negative clamps to min", -5, MinPageSize},
		{"within bounds unchanged", 30, 30},
		{"min boundary", MinPageSize, MinPageSize},
		{"max boundary", MaxPageSize, MaxPageSize},
		{"above max clamps to max", 500, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePageSize(tt.pageSize))
		})
	}
}

func TestNormalizeOffset(t *testing.T) {
	assert.Equal(t, 0, NormalizeOffset(-1))
	assert.Equal(t, 0, NormalizeOffset(0))
	assert.Equal(t, 40, NormalizeOffset(40))
}

func TestNormalizePagination(t *testing.T) {
	limit, offset := 500, -3
	normalizePagination(&limit, &offset)
	assert.Equal(t, MaxPageSize, limit)
	assert.Equal(t, 0, offset)

	// Nil pointers mean "driver default" and must survive untouched.
	normalizePagination(nil, nil)
}

package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"dimension mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"empty vectors", []float32{}, []float32{}, 0},
		{"nil query", nil, []float32{1, 2}, 0},
		{"zero norm candidate", []float32{1, 2}, []float32{0, 0}, 0},
		{"zero norm query", []float32{0, 0}, []float32{1, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineSimilarity_Bounds(t *testing.T) {
	a := []float32{0.3, -0.7, 0.12, 4.5}
	b := []float32{-1.1, 0.8, 2.4, 0.05}

	got := cosineSimilarity(a, b)
	assert.GreaterOrEqual(t, got, -1.0)
	assert.LessOrEqual(t, got, 1.0)
}

func TestCosineSimilarity_ScaleInvariant(t *testing.T) {
	a := []float32{1, 2, 3}
	scaled := []float32{10, 20, 30}

	assert.InDelta(t, 1, cosineSimilarity(a, scaled), 1e-6)
}

package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorBLOBRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		vec  []float32
	}{
		{"typical", []float32{0.1, -0.5, 3.25, 0}},
		{"single element", []float32{42}},
		{"empty", []float32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob := float32ArrayToBLOB(tt.vec)
			require.Len(t, blob, len(tt.vec)*4)

			got, err := blobToFloat32Array(blob)
			require.NoError(t, err)
			assert.Equal(t, tt.vec, got)
		})
	}
}

func TestBlobToFloat32Array_Misaligned(t *testing.T) {
	_, err := blobToFloat32Array([]byte{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid vector BLOB length")
}

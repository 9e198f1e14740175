package sqlite

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// Vectors are stored as little-endian float32 BLOBs. Dimensions vary by
// embedding model, so the codec only checks 4-byte alignment; dimension
// compatibility is the search engine's concern.

// float32ArrayToBLOB converts a []float32 to its BLOB representation.
func float32ArrayToBLOB(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf
}

// blobToFloat32Array converts a BLOB back to a float32 array.
// This is the inverse of float32ArrayToBLOB.
func blobToFloat32Array(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, errors.Errorf("invalid vector BLOB length: %d", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		bits := binary.LittleEndian.Uint32(blob[i*4 : i*4+4])
		vec[i] = math.Float32frombits(bits)
	}
	return vec, nil
}

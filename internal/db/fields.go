package db

import (
	"encoding/binary"
	"math"
)

// Reserved hash field names. Payload attributes never start with "__".
const (
	// FieldVector holds the embedding as little-endian float32 binary.
	FieldVector = "__vector"
	// FieldContent holds the raw record content.
	FieldContent = "__content"
	// FieldVectorScore is the alias KNN search yields the distance under.
	FieldVectorScore = "__vector_score"
)

// VectorBytes encodes a vector as little-endian float32 binary, the wire
// format FT vector fields expect.
func VectorBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

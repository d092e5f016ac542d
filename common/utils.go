package common

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

// PutFloats writes each float little-endian into buf starting at offset and returns the
// offset just past the last written value.
//
// Parameters:
//   - buf: destination byte slice
//   - offset: starting byte offset
//   - values: the floats to write
//
// Returns:
//   - int: the offset after the last written value
func PutFloats(buf []byte, offset int, values ...float32) int {
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[offset:offset+4], math.Float32bits(v))
		offset += 4
	}
	return offset
}

// Float32sToBytes encodes a float slice into little-endian bytes.
//
// Parameters:
//   - values: the floats to encode
//
// Returns:
//   - []byte: 4*len(values) bytes
func Float32sToBytes(values []float32) []byte {
	buf := make([]byte, 4*len(values))
	PutFloats(buf, 0, values...)
	return buf
}

// Uint32sToBytes encodes a uint32 slice into little-endian bytes.
//
// Parameters:
//   - values: the integers to encode
//
// Returns:
//   - []byte: 4*len(values) bytes
func Uint32sToBytes(values []uint32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], v)
	}
	return buf
}

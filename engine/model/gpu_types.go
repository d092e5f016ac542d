package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// VertexSource is the canonical WGSL definition of the VertexInput struct of every program.
// Matches the Vertex layout exactly (32 bytes).
//
//go:embed assets/vertex.wgsl
var VertexSource string

// Vertex is the GPU representation of a single mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see VertexSource).
// Size: 32 bytes, no padding.
type Vertex struct {
	Position common.Vec3 // offset  0: position in model space (12 bytes)
	Normal   common.Vec3 // offset 12: normal for lighting (12 bytes)
	TexCoord [2]float32  // offset 24: UV texture coordinate (8 bytes)
}

// Size returns the size of the Vertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (v *Vertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the Vertex into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (v *Vertex) Marshal() []byte {
	return v.appendTo(make([]byte, 0, 32))
}

func (v *Vertex) appendTo(buf []byte) []byte {
	for _, f := range v.Position {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	for _, f := range v.Normal {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	for _, f := range v.TexCoord {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}

// MarshalVertices serializes vertices back to back.
//
// Parameters:
//   - vertices: the vertices
//
// Returns:
//   - []byte: len(vertices)*32 bytes
func MarshalVertices(vertices []Vertex) []byte {
	buf := make([]byte, 0, len(vertices)*32)
	for i := range vertices {
		buf = vertices[i].appendTo(buf)
	}
	return buf
}

package shader

import (
	"encoding/binary"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// Value is a uniform value accepted by BindParam. The set of implementations is closed:
// Mat4, Vec3, Vec4, Float, Int, Uint and Bool.
type Value interface {
	bytes() []byte
}

type (
	Mat4  common.Mat4
	Vec3  common.Vec3
	Vec4  common.Vec4
	Float float32
	Int   int32
	Uint  uint32
	Bool  bool
)

func (v Mat4) bytes() []byte  { return common.Float32sToBytes(v[:]) }
func (v Vec3) bytes() []byte  { return common.Float32sToBytes(v[:]) }
func (v Vec4) bytes() []byte  { return common.Float32sToBytes(v[:]) }
func (v Float) bytes() []byte { return common.Float32sToBytes([]float32{float32(v)}) }
func (v Int) bytes() []byte   { return binary.LittleEndian.AppendUint32(nil, uint32(v)) }
func (v Uint) bytes() []byte  { return binary.LittleEndian.AppendUint32(nil, uint32(v)) }

// WGSL bool is not host-shareable, so programs declare flags as u32.
func (v Bool) bytes() []byte {
	if v {
		return binary.LittleEndian.AppendUint32(nil, 1)
	}
	return binary.LittleEndian.AppendUint32(nil, 0)
}

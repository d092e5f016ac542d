package light

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// RecordSize is the size in bytes of one marshaled Record.
const RecordSize = 80

// unassignedID marks a Record that has not been added to a Collection.
const unassignedID = math.MaxUint32

// RecordSource is the canonical WGSL definition of the Light struct.
// Matches the Record layout exactly (80 bytes, 16-byte aligned).
//
//go:embed assets/light.wgsl
var RecordSource string

// RecordTypeName is the WGSL struct name declared by RecordSource.
const RecordTypeName = "Light"

// LightType identifies how a shader evaluates a Record.
type LightType int32

const (
	// LightTypeNone disables the record without removing it.
	LightTypeNone LightType = iota
	// LightTypePoint emits in all directions from Position.
	LightTypePoint
	// LightTypeDirectional emits along Direction with no falloff.
	LightTypeDirectional
	// LightTypeSpot emits in a cone around Direction, limited by Cutoff.
	LightTypeSpot
)

// Record is the GPU-aligned representation of a single light.
// Matches the WGSL Light struct layout exactly (see RecordSource).
//
// Layout:
//
//	vec3<f32> position    (offset  0, padded to 16)
//	vec3<f32> direction   (offset 16, padded to 16)
//	vec3<f32> attenuation (offset 32, padded to 16): constant, linear, quadratic
//	vec4<f32> color       (offset 48)
//	i32       lightType   (offset 64)
//	f32       cutoff      (offset 68): cosine of the spot half-angle
//	u32       id          (offset 72)
//	                      (offset 76, padding to 80)
type Record struct {
	Position    common.Vec3
	Direction   common.Vec3
	Attenuation common.Vec3
	Color       common.Vec4
	Type        LightType
	Cutoff      float32

	id uint32
}

// NewRecord returns an unassigned point light record: white, attenuation (0, 0.1, 0.02),
// cutoff 0.8.
//
// Returns:
//   - Record: the record
func NewRecord() Record {
	return Record{
		Attenuation: common.Vec3{0, 0.1, 0.02},
		Color:       common.Vec4{1, 1, 1, 1},
		Type:        LightTypePoint,
		Cutoff:      0.8,
		id:          unassignedID,
	}
}

// ID returns the id assigned by the Collection. It panics on a record that was never added.
//
// Returns:
//   - uint32: the id
func (r *Record) ID() uint32 {
	if !r.Assigned() {
		panic("light: id of a record that was never added to a collection")
	}
	return r.id
}

// Assigned reports whether the record carries a collection id.
//
// Returns:
//   - bool: true once added
func (r *Record) Assigned() bool {
	return r.id != unassignedID
}

func (r *Record) assign(id uint32) {
	if r.Assigned() {
		panic(fmt.Sprintf("light: reassigning id %d to %d", r.id, id))
	}
	r.id = id
}

// Size returns the size of the Record in bytes.
//
// Returns:
//   - int: the marshaled size in bytes (80)
func (r *Record) Size() int {
	return RecordSize
}

// Marshal serializes the Record into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload
func (r *Record) Marshal() []byte {
	return r.appendTo(make([]byte, 0, RecordSize))
}

func (r *Record) appendTo(buf []byte) []byte {
	start := len(buf)
	buf = append(buf, make([]byte, RecordSize)...)
	out := buf[start:]
	common.PutFloats(out, 0, r.Position[:]...)
	common.PutFloats(out, 16, r.Direction[:]...)
	common.PutFloats(out, 32, r.Attenuation[:]...)
	common.PutFloats(out, 48, r.Color[:]...)
	binary.LittleEndian.PutUint32(out[64:68], uint32(r.Type))
	binary.LittleEndian.PutUint32(out[68:72], math.Float32bits(r.Cutoff))
	binary.LittleEndian.PutUint32(out[72:76], r.id)
	return buf
}

// MarshalRecords serializes records back to back. An empty slice yields a single zeroed
// placeholder record so that the result is always a valid storage binding.
//
// Parameters:
//   - records: the records to marshal
//
// Returns:
//   - []byte: the buffer ready for GPU upload
func MarshalRecords(records []Record) []byte {
	if len(records) == 0 {
		return make([]byte, RecordSize)
	}
	buf := make([]byte, 0, len(records)*RecordSize)
	for i := range records {
		buf = records[i].appendTo(buf)
	}
	return buf
}

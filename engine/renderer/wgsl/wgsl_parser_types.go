package wgsl

import "github.com/cogentcore/webgpu/wgpu"

// Stage identifies the shader stage an entry point belongs to.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

// UniformField describes one leaf member of the program uniform block, addressed by its dotted
// path (e.g. "view" or "material.ambient").
type UniformField struct {
	Path   string
	Type   string
	Offset uint32
	Size   uint32
}

// UniformLayout is the flattened layout of the struct bound at @group(0) @binding(0).
type UniformLayout struct {
	// TypeName is the WGSL struct name of the uniform block.
	TypeName string
	// Size is the block size in bytes, rounded to the struct alignment.
	Size uint32
	// Fields maps dotted member paths to their placement.
	Fields map[string]UniformField
}

// Lookup returns the placement of the member at path.
func (l UniformLayout) Lookup(path string) (UniformField, bool) {
	f, ok := l.Fields[path]
	return f, ok
}

// vertexFormatInfo holds the wgpu vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// typeLayout holds the byte size and alignment of a host-shareable WGSL type.
type typeLayout struct {
	size  uint64
	align uint64
}

// parsedField is a single struct member as written in source.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is a struct block as written in source.
type parsedStruct struct {
	name   string
	fields []parsedField
}

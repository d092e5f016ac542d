package renderer

import "github.com/Carmen-Shannon/oxy-viewer/common"

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	MSAAOff MSAASampleCount = 1
	MSAA4x  MSAASampleCount = 4
)

// ProgramID, BufferID, TextureID and MeshID name GPU objects owned by a Backend. Zero never
// names a live object.
type (
	ProgramID uint32
	BufferID  uint32
	TextureID uint32
	MeshID    uint32
)

// DepthMode selects the depth state of a program's pipeline.
type DepthMode int

const (
	// DepthDefault tests with less-than and writes depth.
	DepthDefault DepthMode = iota
	// DepthReadOnly tests with less-or-equal and never writes depth, for skyboxes drawn last.
	DepthReadOnly
)

// CullMode selects face culling for a program's pipeline.
type CullMode int

const (
	CullNone CullMode = iota
	CullBack
)

// ProgramDescriptor is the input to CompileProgram. Both sources are complete WGSL modules
// after pre-processing.
type ProgramDescriptor struct {
	Label          string
	VertexSource   string
	FragmentSource string
	Depth          DepthMode
	Cull           CullMode
}

// UniformLocation addresses one member inside a program's uniform block.
type UniformLocation struct {
	Offset uint32
	Size   uint32
}

// VertexStride is the byte size of one vertex: position vec3, normal vec3, uv vec2.
const VertexStride = 32

// Backend is the GPU context the viewer renders with. Programs follow a bind/unbind model: at
// most one program is in use, uniform writes go to that program's uniform block, and Draw
// issues an indexed draw of a mesh with the program in use and the current storage buffer
// and texture bindings.
//
// Uniform writes are staged on the CPU and copied to the GPU for each Draw, so values written
// between two draws apply only to the second one and every later one until overwritten.
type Backend interface {
	// CompileProgram compiles and links a program. Failures are returned, never fatal.
	//
	// Parameters:
	//   - desc: the program sources and pipeline state
	//
	// Returns:
	//   - ProgramID: the new program
	//   - error: error if either stage fails to compile or the pipeline cannot be created
	CompileProgram(desc ProgramDescriptor) (ProgramID, error)

	// ReleaseProgram destroys a program. Releasing the program in use is fatal.
	//
	// Parameters:
	//   - id: the program to release
	ReleaseProgram(id ProgramID)

	// UseProgram makes id the program in use. Zero clears it.
	//
	// Parameters:
	//   - id: the program to use, or 0
	UseProgram(id ProgramID)

	// UniformLocation resolves a dotted uniform member path, such as "material.ambient".
	//
	// Parameters:
	//   - id: the program
	//   - name: the member path
	//
	// Returns:
	//   - UniformLocation: the member placement
	//   - bool: false if the program declares no such member
	UniformLocation(id ProgramID, name string) (UniformLocation, bool)

	// SetUniform writes data at loc in the uniform block of program id.
	//
	// Parameters:
	//   - id: the program
	//   - loc: a location obtained from UniformLocation for the same program
	//   - data: at most loc.Size bytes
	SetUniform(id ProgramID, loc UniformLocation, data []byte)

	// CreateStorageBuffer allocates a zeroed storage buffer of size bytes.
	//
	// Parameters:
	//   - label: a debug label
	//   - size: the buffer size in bytes, greater than zero
	//
	// Returns:
	//   - BufferID: the new buffer
	//   - error: error if allocation fails
	CreateStorageBuffer(label string, size uint64) (BufferID, error)

	// WriteBuffer copies data into a buffer at offset.
	//
	// Parameters:
	//   - id: the buffer
	//   - offset: the destination byte offset
	//   - data: the bytes to copy, which must fit the buffer
	WriteBuffer(id BufferID, offset uint64, data []byte)

	// BufferSize returns the allocated size of a buffer in bytes.
	BufferSize(id BufferID) uint64

	// ReleaseBuffer destroys a buffer and clears any slot it is bound to.
	ReleaseBuffer(id BufferID)

	// BindStorageBuffer attaches a buffer to a storage slot. Slot N is visible to programs as
	// @group(1) @binding(N).
	//
	// Parameters:
	//   - id: the buffer
	//   - slot: the storage slot
	BindStorageBuffer(id BufferID, slot uint32)

	// CreateTexture uploads an RGBA8 texture with a repeating linear sampler.
	//
	// Parameters:
	//   - label: a debug label
	//   - data: the pixels
	//
	// Returns:
	//   - TextureID: the new texture
	//   - error: error if the texture cannot be created
	CreateTexture(label string, data common.TextureStagingData) (TextureID, error)

	// CreateCubemap uploads six square RGBA8 faces as a cube texture with a clamped sampler.
	//
	// Parameters:
	//   - label: a debug label
	//   - data: the faces in +X, -X, +Y, -Y, +Z, -Z order
	//
	// Returns:
	//   - TextureID: the new texture
	//   - error: error if the faces disagree in size or the texture cannot be created
	CreateCubemap(label string, data common.CubemapStagingData) (TextureID, error)

	// BindTexture attaches a texture to a texture unit. Unit N is visible to programs as
	// @group(2) @binding(2N) with its sampler at @binding(2N+1).
	//
	// Parameters:
	//   - id: the texture
	//   - unit: the texture unit
	BindTexture(id TextureID, unit uint32)

	// ReleaseTexture destroys a texture and clears any unit it is bound to.
	ReleaseTexture(id TextureID)

	// CreateMesh uploads interleaved vertices (VertexStride bytes each) and triangle indices.
	//
	// Parameters:
	//   - label: a debug label
	//   - vertices: the packed vertex data
	//   - indices: triangle list indices
	//
	// Returns:
	//   - MeshID: the new mesh
	//   - error: error if either buffer cannot be created
	CreateMesh(label string, vertices []byte, indices []uint32) (MeshID, error)

	// ReleaseMesh destroys a mesh.
	ReleaseMesh(id MeshID)

	// Draw issues an indexed draw of mesh with the program in use. Drawing with no program in
	// use or outside BeginFrame/EndFrame is fatal.
	//
	// Parameters:
	//   - mesh: the mesh to draw
	Draw(mesh MeshID)

	// Resize reconfigures the surface and the depth and MSAA targets.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	Resize(width, height int)

	// BeginFrame acquires the next surface texture and begins the frame's render pass.
	//
	// Returns:
	//   - error: error if the surface texture could not be acquired
	BeginFrame() error

	// EndFrame ends the render pass, submits the frame and presents it.
	EndFrame()

	// Release destroys every object the backend still owns.
	Release()
}

// Package renderertest provides an in-memory renderer.Backend that records every call so that
// code above the GPU can be tested without a device.
package renderertest

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/wgsl"
)

// Program is the recorded state of a compiled program.
type Program struct {
	Desc     renderer.ProgramDescriptor
	Layout   wgsl.UniformLayout
	Staging  []byte
	Released bool
}

// Buffer is the recorded state of a storage buffer.
type Buffer struct {
	Label    string
	Data     []byte
	Released bool
}

// BufferWrite is one WriteBuffer call.
type BufferWrite struct {
	ID     renderer.BufferID
	Offset uint64
	Len    int
}

// Texture is the recorded state of a texture or cubemap.
type Texture struct {
	Label    string
	Cube     bool
	Width    uint32
	Height   uint32
	Released bool
}

// Mesh is the recorded state of a mesh.
type Mesh struct {
	Label       string
	VertexCount int
	Indices     []uint32
	Released    bool
}

// DrawCall is one Draw call with a snapshot of the uniform block and bindings at that moment.
type DrawCall struct {
	Program  renderer.ProgramID
	Mesh     renderer.MeshID
	Uniforms []byte
	Storage  map[uint32]renderer.BufferID
	Textures map[uint32]renderer.TextureID
}

// Recorder implements renderer.Backend in memory. All fields are exported for assertions.
type Recorder struct {
	Programs map[renderer.ProgramID]*Program
	Buffers  map[renderer.BufferID]*Buffer
	Textures map[renderer.TextureID]*Texture
	Meshes   map[renderer.MeshID]*Mesh

	Current      renderer.ProgramID
	StorageSlots map[uint32]renderer.BufferID
	TextureUnits map[uint32]renderer.TextureID

	// UseCalls lists every UseProgram argument in call order.
	UseCalls      []renderer.ProgramID
	BufferWrites  []BufferWrite
	BufferCreates int
	Draws         []DrawCall
	Frames        int
	InFrame       bool
	Width         int
	Height        int

	// CompileError, when set, is returned by CompileProgram for descriptors it matches.
	CompileError func(desc renderer.ProgramDescriptor) error

	nextID uint32
}

var _ renderer.Backend = &Recorder{}

// New creates an empty Recorder.
func New() *Recorder {
	return &Recorder{
		Programs:     make(map[renderer.ProgramID]*Program),
		Buffers:      make(map[renderer.BufferID]*Buffer),
		Textures:     make(map[renderer.TextureID]*Texture),
		Meshes:       make(map[renderer.MeshID]*Mesh),
		StorageSlots: make(map[uint32]renderer.BufferID),
		TextureUnits: make(map[uint32]renderer.TextureID),
	}
}

func (r *Recorder) allocID() uint32 {
	r.nextID++
	return r.nextID
}

func (r *Recorder) CompileProgram(desc renderer.ProgramDescriptor) (renderer.ProgramID, error) {
	if r.CompileError != nil {
		if err := r.CompileError(desc); err != nil {
			return 0, err
		}
	}
	layout, err := wgsl.ParseUniformLayout(desc.VertexSource)
	if err != nil {
		return 0, err
	}
	if layout.Size == 0 {
		if layout, err = wgsl.ParseUniformLayout(desc.FragmentSource); err != nil {
			return 0, err
		}
	}
	id := renderer.ProgramID(r.allocID())
	r.Programs[id] = &Program{Desc: desc, Layout: layout, Staging: make([]byte, layout.Size)}
	return id, nil
}

func (r *Recorder) mustProgram(id renderer.ProgramID) *Program {
	p, ok := r.Programs[id]
	if !ok || p.Released {
		panic(fmt.Sprintf("renderertest: unknown program %d", id))
	}
	return p
}

func (r *Recorder) ReleaseProgram(id renderer.ProgramID) {
	if id == r.Current {
		panic(fmt.Sprintf("renderertest: release of program %d while in use", id))
	}
	r.mustProgram(id).Released = true
}

func (r *Recorder) UseProgram(id renderer.ProgramID) {
	if id != 0 {
		r.mustProgram(id)
	}
	r.Current = id
	r.UseCalls = append(r.UseCalls, id)
}

func (r *Recorder) UniformLocation(id renderer.ProgramID, name string) (renderer.UniformLocation, bool) {
	f, ok := r.mustProgram(id).Layout.Lookup(name)
	if !ok {
		return renderer.UniformLocation{}, false
	}
	return renderer.UniformLocation{Offset: f.Offset, Size: f.Size}, true
}

func (r *Recorder) SetUniform(id renderer.ProgramID, loc renderer.UniformLocation, data []byte) {
	p := r.mustProgram(id)
	if uint32(len(data)) > loc.Size {
		panic(fmt.Sprintf("renderertest: %d byte write into %d byte uniform", len(data), loc.Size))
	}
	copy(p.Staging[loc.Offset:], data)
}

func (r *Recorder) CreateStorageBuffer(label string, size uint64) (renderer.BufferID, error) {
	if size == 0 {
		return 0, fmt.Errorf("storage buffer %q: size must be greater than zero", label)
	}
	id := renderer.BufferID(r.allocID())
	r.Buffers[id] = &Buffer{Label: label, Data: make([]byte, size)}
	r.BufferCreates++
	return id, nil
}

func (r *Recorder) mustBuffer(id renderer.BufferID) *Buffer {
	b, ok := r.Buffers[id]
	if !ok || b.Released {
		panic(fmt.Sprintf("renderertest: unknown buffer %d", id))
	}
	return b
}

func (r *Recorder) WriteBuffer(id renderer.BufferID, offset uint64, data []byte) {
	b := r.mustBuffer(id)
	if offset+uint64(len(data)) > uint64(len(b.Data)) {
		panic(fmt.Sprintf("renderertest: write of %d bytes at %d overflows buffer %d", len(data), offset, id))
	}
	copy(b.Data[offset:], data)
	r.BufferWrites = append(r.BufferWrites, BufferWrite{ID: id, Offset: offset, Len: len(data)})
}

func (r *Recorder) BufferSize(id renderer.BufferID) uint64 {
	return uint64(len(r.mustBuffer(id).Data))
}

func (r *Recorder) ReleaseBuffer(id renderer.BufferID) {
	r.mustBuffer(id).Released = true
	for slot, bound := range r.StorageSlots {
		if bound == id {
			delete(r.StorageSlots, slot)
		}
	}
}

func (r *Recorder) BindStorageBuffer(id renderer.BufferID, slot uint32) {
	r.mustBuffer(id)
	r.StorageSlots[slot] = id
}

func (r *Recorder) CreateTexture(label string, data common.TextureStagingData) (renderer.TextureID, error) {
	id := renderer.TextureID(r.allocID())
	r.Textures[id] = &Texture{Label: label, Width: data.Width, Height: data.Height}
	return id, nil
}

func (r *Recorder) CreateCubemap(label string, data common.CubemapStagingData) (renderer.TextureID, error) {
	edge, err := data.Size()
	if err != nil {
		return 0, fmt.Errorf("cubemap %q: %w", label, err)
	}
	id := renderer.TextureID(r.allocID())
	r.Textures[id] = &Texture{Label: label, Cube: true, Width: edge, Height: edge}
	return id, nil
}

func (r *Recorder) BindTexture(id renderer.TextureID, unit uint32) {
	if t, ok := r.Textures[id]; !ok || t.Released {
		panic(fmt.Sprintf("renderertest: unknown texture %d", id))
	}
	r.TextureUnits[unit] = id
}

func (r *Recorder) ReleaseTexture(id renderer.TextureID) {
	t, ok := r.Textures[id]
	if !ok || t.Released {
		panic(fmt.Sprintf("renderertest: unknown texture %d", id))
	}
	t.Released = true
	for unit, bound := range r.TextureUnits {
		if bound == id {
			delete(r.TextureUnits, unit)
		}
	}
}

func (r *Recorder) CreateMesh(label string, vertices []byte, indices []uint32) (renderer.MeshID, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return 0, fmt.Errorf("mesh %q: vertices and indices must not be empty", label)
	}
	id := renderer.MeshID(r.allocID())
	r.Meshes[id] = &Mesh{Label: label, VertexCount: len(vertices) / renderer.VertexStride, Indices: slices.Clone(indices)}
	return id, nil
}

func (r *Recorder) ReleaseMesh(id renderer.MeshID) {
	m, ok := r.Meshes[id]
	if !ok || m.Released {
		panic(fmt.Sprintf("renderertest: unknown mesh %d", id))
	}
	m.Released = true
}

func (r *Recorder) Draw(mesh renderer.MeshID) {
	if r.Current == 0 {
		panic("renderertest: draw with no program in use")
	}
	if m, ok := r.Meshes[mesh]; !ok || m.Released {
		panic(fmt.Sprintf("renderertest: unknown mesh %d", mesh))
	}
	r.Draws = append(r.Draws, DrawCall{
		Program:  r.Current,
		Mesh:     mesh,
		Uniforms: slices.Clone(r.Programs[r.Current].Staging),
		Storage:  cloneMap(r.StorageSlots),
		Textures: cloneMap(r.TextureUnits),
	})
}

func (r *Recorder) Resize(width, height int) {
	r.Width, r.Height = width, height
}

func (r *Recorder) BeginFrame() error {
	if r.InFrame {
		return fmt.Errorf("previous frame not ended")
	}
	r.InFrame = true
	return nil
}

func (r *Recorder) EndFrame() {
	r.InFrame = false
	r.Frames++
}

func (r *Recorder) Release() {}

// Uniform returns the staged bytes of a uniform member, or nil if the program lacks it.
func (r *Recorder) Uniform(id renderer.ProgramID, name string) []byte {
	p := r.mustProgram(id)
	f, ok := p.Layout.Lookup(name)
	if !ok {
		return nil
	}
	return p.Staging[f.Offset : f.Offset+f.Size]
}

// UniformFloats decodes a staged uniform member as little-endian float32 values.
func (r *Recorder) UniformFloats(id renderer.ProgramID, name string) []float32 {
	return DecodeFloats(r.Uniform(id, name))
}

// UniformMat4 decodes a staged mat4x4<f32> uniform member.
func (r *Recorder) UniformMat4(id renderer.ProgramID, name string) common.Mat4 {
	var m common.Mat4
	copy(m[:], r.UniformFloats(id, name))
	return m
}

// DecodeFloats decodes little-endian float32 values.
func DecodeFloats(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}

// ProgramByLabel returns the live program compiled with label.
func (r *Recorder) ProgramByLabel(label string) (renderer.ProgramID, bool) {
	for id, p := range r.Programs {
		if p.Desc.Label == label && !p.Released {
			return id, true
		}
	}
	return 0, false
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
)

// model is the implementation of the Model interface.
type model struct {
	name           string
	meshes         []Mesh
	materials      []material.Material
	boundingRadius float32
	backend        renderer.Backend
	parts          []Part
}

// Drawer issues draws of uploaded meshes, such as a bound shader program.
type Drawer interface {
	Draw(mesh renderer.MeshID)
}

// TextureSetter is implemented by Drawers that sample a per-draw diffuse texture.
type TextureSetter interface {
	SetTexture(tex renderer.TextureID)
}

// Model defines the interface for a static 3D model: one or more meshes with optional
// materials. A Model starts CPU-only; Upload creates its GPU meshes and textures, after which
// Draw can issue its draws.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Meshes retrieves the CPU-side mesh data.
	//
	// Returns:
	//   - []Mesh: the meshes
	Meshes() []Mesh

	// Materials retrieves the materials the meshes reference.
	//
	// Returns:
	//   - []material.Material: the materials
	Materials() []material.Material

	// BoundingRadius retrieves the radius of a sphere around the origin enclosing every mesh.
	//
	// Returns:
	//   - float32: the radius
	BoundingRadius() float32

	// Upload creates one GPU mesh per Mesh and one texture per material diffuse texture. On
	// error everything created so far is released. Uploading twice panics.
	//
	// Parameters:
	//   - backend: the GPU context
	//
	// Returns:
	//   - error: error if a mesh or texture cannot be created
	Upload(backend renderer.Backend) error

	// Uploaded reports whether Upload succeeded and Release has not been called.
	//
	// Returns:
	//   - bool: true while GPU resources exist
	Uploaded() bool

	// Parts retrieves the uploaded parts in mesh order. Panics before Upload.
	//
	// Returns:
	//   - []Part: the parts
	Parts() []Part

	// Draw draws every part with d. When d is a TextureSetter, parts with a texture select it
	// first. The caller uploads the model matrix beforehand. Panics before Upload.
	//
	// Parameters:
	//   - d: the drawer
	Draw(d Drawer)

	// Release destroys the GPU meshes and textures. The CPU data is kept, so the model can be
	// uploaded again.
	Release()
}

var _ Model = &model{}

// NewModel creates a new CPU-only Model instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of ModelBuilderOption functions to configure the model
//
// Returns:
//   - Model: a new Model instance
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	m.boundingRadius = boundingRadius(m.meshes)
	return m
}

// NewModelFromImport creates a CPU-only Model from an importer result.
//
// Parameters:
//   - imported: the imported model
//
// Returns:
//   - Model: a new Model instance
func NewModelFromImport(imported *ImportedModel) Model {
	return NewModel(
		WithName(imported.Name),
		WithMeshes(imported.Meshes...),
		WithMaterials(imported.Materials...),
	)
}

func boundingRadius(meshes []Mesh) float32 {
	var r float32
	for _, m := range meshes {
		for _, v := range m.Vertices {
			r = max(r, v.Position.Len())
		}
	}
	return r
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Meshes() []Mesh {
	return m.meshes
}

func (m *model) Materials() []material.Material {
	return m.materials
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) Uploaded() bool {
	return m.backend != nil
}

func (m *model) Upload(backend renderer.Backend) error {
	if m.backend != nil {
		panic(fmt.Sprintf("model: %s is already uploaded", m.name))
	}

	textures := make(map[int]renderer.TextureID)
	parts := make([]Part, 0, len(m.meshes))
	release := func() {
		for _, p := range parts {
			backend.ReleaseMesh(p.Mesh)
		}
		for _, t := range textures {
			backend.ReleaseTexture(t)
		}
	}

	for i, mat := range m.materials {
		tex := mat.DiffuseTexture()
		if tex == nil {
			continue
		}
		id, err := backend.CreateTexture(fmt.Sprintf("%s material %d", m.name, i), *tex)
		if err != nil {
			release()
			return fmt.Errorf("failed to upload texture of material %d of %s: %w", i, m.name, err)
		}
		textures[i] = id
	}

	for i, mesh := range m.meshes {
		label := common.Coalesce(mesh.Name, fmt.Sprintf("%s mesh %d", m.name, i))
		id, err := backend.CreateMesh(label, MarshalVertices(mesh.Vertices), mesh.Indices)
		if err != nil {
			release()
			return fmt.Errorf("failed to upload mesh %q: %w", label, err)
		}
		part := Part{Mesh: id}
		if mesh.MaterialIndex >= 0 && mesh.MaterialIndex < len(m.materials) {
			part.Material = m.materials[mesh.MaterialIndex]
			part.Texture = textures[mesh.MaterialIndex]
		}
		parts = append(parts, part)
	}

	m.backend = backend
	m.parts = parts
	return nil
}

func (m *model) mustUploaded() {
	if m.backend == nil {
		panic(fmt.Sprintf("model: %s is not uploaded", m.name))
	}
}

func (m *model) Parts() []Part {
	m.mustUploaded()
	return m.parts
}

func (m *model) Draw(d Drawer) {
	m.mustUploaded()
	ts, textured := d.(TextureSetter)
	for _, p := range m.parts {
		if textured && p.Texture != 0 {
			ts.SetTexture(p.Texture)
		}
		d.Draw(p.Mesh)
	}
}

func (m *model) Release() {
	if m.backend == nil {
		return
	}
	released := make(map[renderer.TextureID]bool)
	for _, p := range m.parts {
		m.backend.ReleaseMesh(p.Mesh)
		if p.Texture != 0 && !released[p.Texture] {
			m.backend.ReleaseTexture(p.Texture)
			released[p.Texture] = true
		}
	}
	m.backend = nil
	m.parts = nil
}

package material

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
)

// material is the implementation of the Material interface.
type material struct {
	name           string
	ambient        common.Vec4
	diffuse        common.Vec4
	specular       common.Vec4
	shininess      float32
	diffuseTexture *common.TextureStagingData
}

// Material defines the surface reflectance of the Phong lighting model: ambient, diffuse and
// specular RGBA colors and a specular exponent. A Material is plain CPU state; Upload copies it
// into the "material" uniform of a lit program.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Ambient retrieves the ambient reflectance.
	//
	// Returns:
	//   - common.Vec4: the ambient RGBA color
	Ambient() common.Vec4

	// Diffuse retrieves the diffuse reflectance.
	//
	// Returns:
	//   - common.Vec4: the diffuse RGBA color
	Diffuse() common.Vec4

	// Specular retrieves the specular reflectance.
	//
	// Returns:
	//   - common.Vec4: the specular RGBA color
	Specular() common.Vec4

	// Shininess retrieves the specular exponent.
	//
	// Returns:
	//   - float32: the exponent
	Shininess() float32

	// DiffuseTexture retrieves the decoded diffuse texture imported with the material, or nil.
	//
	// Returns:
	//   - *common.TextureStagingData: the texture pixels, or nil
	DiffuseTexture() *common.TextureStagingData

	// SetAmbient sets the ambient reflectance.
	//
	// Parameters:
	//   - c: the ambient RGBA color
	SetAmbient(c common.Vec4)

	// SetDiffuse sets the diffuse reflectance.
	//
	// Parameters:
	//   - c: the diffuse RGBA color
	SetDiffuse(c common.Vec4)

	// SetSpecular sets the specular reflectance.
	//
	// Parameters:
	//   - c: the specular RGBA color
	SetSpecular(c common.Vec4)

	// SetShininess sets the specular exponent.
	//
	// Parameters:
	//   - s: the exponent
	SetShininess(s float32)

	// Upload writes the material to the "material" uniform of r. r is bound for the duration
	// of the upload if it is not already bound, and its previous state is restored afterwards.
	// Panics if r declares no material uniform.
	//
	// Parameters:
	//   - r: the program to upload to
	Upload(r shader.Resource)
}

var _ Material = &material{}

// NewMaterial creates a new Material. Defaults: ambient 0.1 grey, diffuse white, specular 0.5
// grey, shininess 32.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		ambient:   common.Vec4{0.1, 0.1, 0.1, 1},
		diffuse:   common.Vec4{1, 1, 1, 1},
		specular:  common.Vec4{0.5, 0.5, 0.5, 1},
		shininess: 32,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Ambient() common.Vec4 {
	return m.ambient
}

func (m *material) Diffuse() common.Vec4 {
	return m.diffuse
}

func (m *material) Specular() common.Vec4 {
	return m.specular
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) DiffuseTexture() *common.TextureStagingData {
	return m.diffuseTexture
}

func (m *material) SetAmbient(c common.Vec4) {
	m.ambient = c
}

func (m *material) SetDiffuse(c common.Vec4) {
	m.diffuse = c
}

func (m *material) SetSpecular(c common.Vec4) {
	m.specular = c
}

func (m *material) SetShininess(s float32) {
	m.shininess = s
}

func (m *material) Upload(r shader.Resource) {
	r.WithBound(func() {
		r.BindParam("material.ambient", shader.Vec4(m.ambient))
		r.BindParam("material.diffuse", shader.Vec4(m.diffuse))
		r.BindParam("material.specular", shader.Vec4(m.specular))
		r.BindParam("material.shininess", shader.Float(m.shininess))
	})
}

package material

import "github.com/Carmen-Shannon/oxy-viewer/common"

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithAmbient is an option builder that sets the ambient reflectance.
//
// Parameters:
//   - c: the ambient RGBA color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the ambient option to a material
func WithAmbient(c common.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.ambient = c
	}
}

// WithDiffuse is an option builder that sets the diffuse reflectance.
//
// Parameters:
//   - c: the diffuse RGBA color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse option to a material
func WithDiffuse(c common.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.diffuse = c
	}
}

// WithSpecular is an option builder that sets the specular reflectance.
//
// Parameters:
//   - c: the specular RGBA color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular option to a material
func WithSpecular(c common.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.specular = c
	}
}

// WithShininess is an option builder that sets the specular exponent.
//
// Parameters:
//   - s: the exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shininess option to a material
func WithShininess(s float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = s
	}
}

// WithDiffuseTexture is an option builder that attaches decoded diffuse texture pixels.
//
// Parameters:
//   - tex: the texture pixels
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse texture option to a material
func WithDiffuseTexture(tex *common.TextureStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseTexture = tex
	}
}

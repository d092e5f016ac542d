package game_object

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/transform"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the object's identifier instead of the next free one.
//
// Parameters:
//   - id: the identifier
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithID(id uint64) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.id = id
	}
}

// WithEnabled sets whether the object starts enabled.
//
// Parameters:
//   - enabled: true to render the object
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.enabled = enabled
	}
}

// WithMesh sets the mesh drawn for the object.
//
// Parameters:
//   - mesh: an uploaded mesh
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithMesh(mesh renderer.MeshID) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.mesh = mesh
	}
}

// WithTransform sets the builder the model matrix is built from. The object keeps the builder,
// so callers that share one must Clone it first.
//
// Parameters:
//   - t: the transform
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithTransform(t *transform.Builder) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.transform = t
	}
}

// WithBounds sets the model-space bounding sphere of the mesh.
//
// Parameters:
//   - bounds: the bounds
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithBounds(bounds Sphere) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.bounds = bounds
	}
}

// WithSpin makes Update advance a rotation step of the transform.
//
// Parameters:
//   - step: the index of a rotation step
//   - speed: radians per second
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithSpin(step int, speed float32) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.spinStep = step
		g.spinSpeed = speed
	}
}

package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/transform"
	"github.com/chewxy/math32"
)

var nextID atomic.Uint64

// Sphere is a bounding sphere.
type Sphere struct {
	Center common.Vec3
	Radius float32
}

type gameObject struct {
	id      uint64
	enabled bool
	mesh    renderer.MeshID

	transform *transform.Builder
	bounds    Sphere

	// spinStep is the rotation step advanced by Update, -1 for none
	spinStep  int
	spinSpeed float32
}

// GameObject defines the interface for one placed mesh in a scene. Its model matrix is built
// from a transform.Builder, and a rotation step of that builder can spin at a fixed rate.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether this object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to render the object
	SetEnabled(enabled bool)

	// Mesh returns the uploaded mesh drawn for this object.
	//
	// Returns:
	//   - renderer.MeshID: the mesh
	Mesh() renderer.MeshID

	// Transform returns the builder the model matrix is built from. Changes to it are seen by
	// the next ModelMatrix call.
	//
	// Returns:
	//   - *transform.Builder: the transform
	Transform() *transform.Builder

	// ModelMatrix builds the object's model matrix.
	//
	// Returns:
	//   - common.Mat4: the model matrix
	ModelMatrix() common.Mat4

	// BoundingSphere returns the model-space bounds carried into world space: the center is
	// transformed and the radius grows with the largest axis scale.
	//
	// Returns:
	//   - Sphere: the world-space bounds
	BoundingSphere() Sphere

	// SpinSpeed returns the spin rate in radians per second, 0 when the object does not spin.
	//
	// Returns:
	//   - float32: the spin rate
	SpinSpeed() float32

	// Update advances the spin by speed times dt.
	//
	// Parameters:
	//   - dt: seconds since the last update
	Update(dt float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a GameObject with an identity transform unless options say otherwise.
// It panics if a spin step does not name a rotation step of the transform.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	g := &gameObject{
		id:        nextID.Add(1),
		enabled:   true,
		transform: transform.NewBuilder(),
		spinStep:  -1,
	}
	for _, opt := range options {
		opt(g)
	}
	if g.spinStep >= 0 {
		g.transform.MustAddRotation(g.spinStep, 0)
	}
	return g
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled = enabled
}

func (g *gameObject) Mesh() renderer.MeshID {
	return g.mesh
}

func (g *gameObject) Transform() *transform.Builder {
	return g.transform
}

func (g *gameObject) ModelMatrix() common.Mat4 {
	return g.transform.Build()
}

func (g *gameObject) BoundingSphere() Sphere {
	m := g.ModelMatrix()
	scale := float32(0)
	for _, axis := range []common.Vec4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}} {
		scale = math32.Max(scale, m.MulVec4(axis).Vec3().Len())
	}
	return Sphere{
		Center: m.MulVec4(g.bounds.Center.Vec4(1)).Vec3(),
		Radius: g.bounds.Radius * scale,
	}
}

func (g *gameObject) SpinSpeed() float32 {
	if g.spinStep < 0 {
		return 0
	}
	return g.spinSpeed
}

func (g *gameObject) Update(dt float32) {
	if g.spinStep < 0 || g.spinSpeed == 0 {
		return
	}
	g.transform.MustAddRotation(g.spinStep, g.spinSpeed*dt)
}

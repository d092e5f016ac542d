package camera

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/observable"
)

const (
	defaultFov  = 60.0
	defaultNear = 0.1
	defaultFar  = 100.0
)

type projectionImpl struct {
	width  int
	height int
	fov    float32
	near   float32
	far    float32
	matrix common.Mat4

	channel *observable.Observable[common.Mat4]
	sizeSub *observable.Subscription[common.Size]
}

// Projection is a perspective projection driven by the drawable size. It observes a size
// channel and publishes its matrix after every change. Until a non-zero size is known the
// published matrix is the zero matrix.
type Projection interface {
	observable.Observer[common.Size]

	// SetFov sets the vertical field of view in degrees.
	//
	// Parameters:
	//   - degrees: the field of view
	SetFov(degrees float32)

	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: the field of view
	Fov() float32

	// SetMaxDistance sets the far clipping plane.
	//
	// Parameters:
	//   - far: the far plane distance
	SetMaxDistance(far float32)

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: the near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: the far plane distance
	Far() float32

	// Size returns the drawable size last observed.
	//
	// Returns:
	//   - common.Size: the size
	Size() common.Size

	// Matrix returns the projection matrix. It panics while the width or height is 0.
	//
	// Returns:
	//   - common.Mat4: the projection matrix
	Matrix() common.Mat4

	// Channel returns the channel the matrix is published on.
	//
	// Returns:
	//   - *observable.Observable[common.Mat4]: the channel
	Channel() *observable.Observable[common.Mat4]

	// AttachTo subscribes the projection to a size channel. It panics if already attached.
	//
	// Parameters:
	//   - sizes: the window resize channel
	AttachTo(sizes *observable.Observable[common.Size])

	// Close detaches from the size channel, if attached.
	Close()
}

var _ Projection = &projectionImpl{}

// NewProjection creates a Projection with a 60 degree field of view, near 0.1 and far 100.
//
// Parameters:
//   - options: functional options to configure the projection
//
// Returns:
//   - Projection: the newly created projection
func NewProjection(options ...ProjectionBuilderOption) Projection {
	p := &projectionImpl{
		fov:  defaultFov,
		near: defaultNear,
		far:  defaultFar,
	}
	for _, option := range options {
		option(p)
	}
	p.recalculate()
	p.channel = observable.New(p.matrix)
	return p
}

func (p *projectionImpl) Update(size common.Size) {
	p.width, p.height = size.Width, size.Height
	p.handleChange()
}

func (p *projectionImpl) SetFov(degrees float32) {
	p.fov = degrees
	p.handleChange()
}

func (p *projectionImpl) Fov() float32 {
	return p.fov
}

func (p *projectionImpl) SetMaxDistance(far float32) {
	p.far = far
	p.handleChange()
}

func (p *projectionImpl) Near() float32 {
	return p.near
}

func (p *projectionImpl) Far() float32 {
	return p.far
}

func (p *projectionImpl) Size() common.Size {
	return common.Size{Width: p.width, Height: p.height}
}

func (p *projectionImpl) Matrix() common.Mat4 {
	if p.width == 0 || p.height == 0 {
		panic(fmt.Sprintf("camera: projection matrix requested for a %dx%d viewport", p.width, p.height))
	}
	return p.matrix
}

func (p *projectionImpl) Channel() *observable.Observable[common.Mat4] {
	return p.channel
}

func (p *projectionImpl) AttachTo(sizes *observable.Observable[common.Size]) {
	if p.sizeSub.Active() {
		panic("camera: projection is already attached to a size channel")
	}
	p.sizeSub = sizes.Attach(p)
}

func (p *projectionImpl) Close() {
	if p.sizeSub.Active() {
		p.sizeSub.Detach()
	}
}

func (p *projectionImpl) handleChange() {
	p.recalculate()
	p.channel.Notify(p.matrix)
}

// recalculate leaves the zero matrix in place while the viewport is empty.
func (p *projectionImpl) recalculate() {
	if p.width == 0 || p.height == 0 {
		p.matrix = common.Mat4{}
		return
	}
	aspect := float32(p.width) / float32(p.height)
	p.matrix = common.PerspectiveMatrix(common.Radians(p.fov), aspect, p.near, p.far)
}

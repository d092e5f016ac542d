package camera

import "github.com/Carmen-Shannon/oxy-viewer/common"

// CameraBuilderOption is a functional option applied to a Camera during NewCamera.
type CameraBuilderOption func(*cameraImpl)

// ProjectionBuilderOption is a functional option applied to a Projection during NewProjection.
type ProjectionBuilderOption func(*projectionImpl)

// WithPosition sets the initial eye position.
//
// Parameters:
//   - position: world-space eye position
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(position common.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.eye = position
	}
}

// WithAngles sets the initial yaw and pitch in degrees.
//
// Parameters:
//   - yaw, pitch: the angles in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's orientation
func WithAngles(yaw, pitch float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.yaw = yaw
		c.pitch = pitch
	}
}

// WithSensitivity sets the degrees turned per pixel of cursor movement.
//
// Parameters:
//   - sensitivity: the mouse sensitivity
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's sensitivity
func WithSensitivity(sensitivity float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.sensitivity = sensitivity
	}
}

// WithProjection gives the camera an existing projection instead of a default one.
//
// Parameters:
//   - projection: the projection the camera owns
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's projection
func WithProjection(projection Projection) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = projection
	}
}

// WithFov sets the vertical field of view in degrees.
//
// Parameters:
//   - degrees: field of view
//
// Returns:
//   - ProjectionBuilderOption: a function that sets the projection's field of view
func WithFov(degrees float32) ProjectionBuilderOption {
	return func(p *projectionImpl) {
		p.fov = degrees
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - ProjectionBuilderOption: a function that sets the near plane
func WithNear(near float32) ProjectionBuilderOption {
	return func(p *projectionImpl) {
		p.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - ProjectionBuilderOption: a function that sets the far plane
func WithFar(far float32) ProjectionBuilderOption {
	return func(p *projectionImpl) {
		p.far = far
	}
}

// WithSize sets the initial drawable size so the first published matrix is usable.
//
// Parameters:
//   - size: the drawable size
//
// Returns:
//   - ProjectionBuilderOption: a function that sets the viewport size
func WithSize(size common.Size) ProjectionBuilderOption {
	return func(p *projectionImpl) {
		p.width, p.height = size.Width, size.Height
	}
}

package scene

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
)

// basicConfig collects the options of NewBasic.
type basicConfig struct {
	cameraOptions []camera.CameraBuilderOption
}

// BasicBuilderOption is a functional option for configuring a Basic scene.
// Use the With* functions to create options.
type BasicBuilderOption func(c *basicConfig)

// WithCameraOptions configures the scene camera. The projection is always created by the
// scene from its Settings.
//
// Parameters:
//   - options: camera options such as camera.WithPosition
//
// Returns:
//   - BasicBuilderOption: option function to apply
func WithCameraOptions(options ...camera.CameraBuilderOption) BasicBuilderOption {
	return func(c *basicConfig) {
		c.cameraOptions = append(c.cameraOptions, options...)
	}
}

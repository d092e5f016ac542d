package light

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/observable"
)

type flashlightImpl struct {
	*lightImpl
	sub *observable.Subscription[camera.Properties]
}

var _ Light = &flashlightImpl{}

// NewFlashlight adds a spot light that follows cam: on every camera event it takes the
// camera's position and direction. Defaults: attenuation (0.1, 0.01, 0.005), cutoff 0.9,
// marker hidden.
//
// Parameters:
//   - collection: the collection the record is added to
//   - cam: the camera to follow
//   - options: functional options applied after the flashlight defaults
//
// Returns:
//   - Light: the flashlight; Close also detaches it from the camera
func NewFlashlight(collection Collection, cam camera.Camera, options ...LightBuilderOption) Light {
	defaults := []LightBuilderOption{
		WithType(LightTypeSpot),
		WithAttenuation(common.Vec3{0.1, 0.01, 0.005}),
		WithCutoff(0.9),
		WithMarkerHidden(),
	}
	f := &flashlightImpl{lightImpl: newLight(collection, append(defaults, options...)...)}
	f.sub = cam.Attach(observable.ObserverFunc[camera.Properties](f.follow))
	return f
}

func (f *flashlightImpl) follow(props camera.Properties) {
	f.position = props.Position
	f.direction = props.Direction
	f.update()
}

func (f *flashlightImpl) Close() {
	if f.sub.Active() {
		f.sub.Detach()
	}
	f.lightImpl.Close()
}

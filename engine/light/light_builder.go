package light

import "github.com/Carmen-Shannon/oxy-viewer/common"

// LightBuilderOption is a function that configures a Light during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - position: the position
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(position common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = position
	}
}

// WithDirection is an option builder that sets the direction of the light.
//
// Parameters:
//   - direction: the direction
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(direction common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = direction
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - color: the color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(color common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = color
	}
}

// WithAttenuation is an option builder that sets the constant, linear and quadratic
// attenuation coefficients.
//
// Parameters:
//   - attenuation: the coefficients
//
// Returns:
//   - LightBuilderOption: a function that applies the attenuation option to a lightImpl
func WithAttenuation(attenuation common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.attenuation = attenuation
	}
}

// WithCutoff is an option builder that sets the cosine of the spot half-angle.
//
// Parameters:
//   - cutoff: the cutoff
//
// Returns:
//   - LightBuilderOption: a function that applies the cutoff option to a lightImpl
func WithCutoff(cutoff float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.cutoff = cutoff
	}
}

// WithType is an option builder that sets the light type.
//
// Parameters:
//   - lightType: the type
//
// Returns:
//   - LightBuilderOption: a function that applies the type option to a lightImpl
func WithType(lightType LightType) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightType = lightType
	}
}

// WithMarker is an option builder that draws the light's position as a cube with m.
//
// Parameters:
//   - m: the marker renderer
//
// Returns:
//   - LightBuilderOption: a function that applies the marker option to a lightImpl
func WithMarker(m Marker) LightBuilderOption {
	return func(l *lightImpl) {
		l.marker = m
	}
}

// WithMarkerScale is an option builder that sets the uniform scale of the marker cube.
//
// Parameters:
//   - scale: the cube scale
//
// Returns:
//   - LightBuilderOption: a function that applies the marker scale option to a lightImpl
func WithMarkerScale(scale float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.transform.MustSetScale(1, common.Vec3{scale, scale, scale})
	}
}

// WithMarkerHidden is an option builder that starts the light with its marker hidden.
//
// Returns:
//   - LightBuilderOption: a function that hides the marker of a lightImpl
func WithMarkerHidden() LightBuilderOption {
	return func(l *lightImpl) {
		l.showMarker = false
	}
}

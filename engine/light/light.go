// Package light manages the dynamic light sources of a scene: the GPU-mirrored Collection of
// light records and the scene-level wrappers (point lights, a camera-following flashlight and
// wandering fireflies) that own one record each.
package light

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/transform"
)

// Marker draws the small cube that visualizes a light's position.
type Marker interface {
	// IsBound reports whether the marker program is the bound program.
	//
	// Returns:
	//   - bool: true while bound
	IsBound() bool

	// DrawMarker uploads model and color and draws one marker cube.
	//
	// Parameters:
	//   - model: the marker's model matrix
	//   - color: the light color
	DrawMarker(model common.Mat4, color common.Vec4)
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	collection  Collection
	id          uint32
	position    common.Vec3
	direction   common.Vec3
	attenuation common.Vec3
	color       common.Vec3
	cutoff      float32
	lightType   LightType
	enabled     bool

	marker     Marker
	showMarker bool
	transform  *transform.Builder
	closed     bool
}

// Light is a scene light that owns one record in a Collection. Every setter writes the record
// and pushes it to the GPU with Collection.UpdateLight.
type Light interface {
	// ID returns the id of the owned record.
	//
	// Returns:
	//   - uint32: the record id
	ID() uint32

	// Position returns the world-space position.
	//
	// Returns:
	//   - common.Vec3: the position
	Position() common.Vec3

	// SetPosition moves the light and its marker.
	//
	// Parameters:
	//   - position: the world-space position
	SetPosition(position common.Vec3)

	// Direction returns the light direction.
	//
	// Returns:
	//   - common.Vec3: the direction
	Direction() common.Vec3

	// SetDirection sets the direction used by directional and spot lights.
	//
	// Parameters:
	//   - direction: the direction
	SetDirection(direction common.Vec3)

	// Color returns the RGB color.
	//
	// Returns:
	//   - common.Vec3: the color
	Color() common.Vec3

	// SetColor sets the RGB color. Alpha is always 1.
	//
	// Parameters:
	//   - color: the color
	SetColor(color common.Vec3)

	// Attenuation returns the constant, linear and quadratic attenuation coefficients.
	//
	// Returns:
	//   - common.Vec3: the coefficients
	Attenuation() common.Vec3

	// SetAttenuation sets the constant, linear and quadratic attenuation coefficients.
	//
	// Parameters:
	//   - attenuation: the coefficients
	SetAttenuation(attenuation common.Vec3)

	// Cutoff returns the cosine of the spot half-angle.
	//
	// Returns:
	//   - float32: the cutoff
	Cutoff() float32

	// SetCutoff sets the cosine of the spot half-angle.
	//
	// Parameters:
	//   - cutoff: the cutoff
	SetCutoff(cutoff float32)

	// Type returns the light type the light has while enabled.
	//
	// Returns:
	//   - LightType: the type
	Type() LightType

	// SetType changes the light type.
	//
	// Parameters:
	//   - lightType: the type
	SetType(lightType LightType)

	// Enabled reports whether the light contributes to shading.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled toggles the light. Disabling stores LightTypeNone in the record; enabling
	// restores the previous type.
	//
	// Parameters:
	//   - enabled: the new state
	SetEnabled(enabled bool)

	// SetMarkerVisible controls whether Render draws the marker cube.
	//
	// Parameters:
	//   - visible: true to draw the marker
	SetMarkerVisible(visible bool)

	// Render draws the marker cube when the light has a visible marker. The marker program
	// must be bound.
	Render()

	// Close removes the owned record from the collection. Calling Close twice is a no-op.
	Close()
}

var _ Light = &lightImpl{}

// NewLight adds a point light record to collection and returns the Light owning it.
// Defaults: position (0, 10, 0), white, attenuation (0, 0.1, 0.02), cutoff 0.8,
// marker scale 0.2.
//
// Parameters:
//   - collection: the collection the record is added to
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the new light
func NewLight(collection Collection, options ...LightBuilderOption) Light {
	return newLight(collection, options...)
}

func newLight(collection Collection, options ...LightBuilderOption) *lightImpl {
	l := &lightImpl{
		collection:  collection,
		position:    common.Vec3{0, 10, 0},
		direction:   common.Vec3{1, 1, 1},
		attenuation: common.Vec3{0, 0.1, 0.02},
		color:       common.Vec3{1, 1, 1},
		cutoff:      0.8,
		lightType:   LightTypePoint,
		enabled:     true,
		showMarker:  true,
		transform:   transform.NewBuilder().Translate(common.Vec3{}).ScaleUniform(0.2),
	}
	for _, option := range options {
		option(l)
	}

	rec := NewRecord()
	rec.Type = l.lightType
	l.id = collection.AddLight(rec)
	l.update()
	return l
}

func (l *lightImpl) ID() uint32 {
	return l.id
}

func (l *lightImpl) Position() common.Vec3 {
	return l.position
}

func (l *lightImpl) SetPosition(position common.Vec3) {
	l.position = position
	l.update()
}

func (l *lightImpl) Direction() common.Vec3 {
	return l.direction
}

func (l *lightImpl) SetDirection(direction common.Vec3) {
	l.direction = direction
	l.update()
}

func (l *lightImpl) Color() common.Vec3 {
	return l.color
}

func (l *lightImpl) SetColor(color common.Vec3) {
	l.color = color
	l.update()
}

func (l *lightImpl) Attenuation() common.Vec3 {
	return l.attenuation
}

func (l *lightImpl) SetAttenuation(attenuation common.Vec3) {
	l.attenuation = attenuation
	l.update()
}

func (l *lightImpl) Cutoff() float32 {
	return l.cutoff
}

func (l *lightImpl) SetCutoff(cutoff float32) {
	l.cutoff = cutoff
	l.update()
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) SetType(lightType LightType) {
	l.lightType = lightType
	l.update()
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
	l.update()
}

func (l *lightImpl) SetMarkerVisible(visible bool) {
	l.showMarker = visible
}

func (l *lightImpl) Render() {
	l.mustLive()
	if l.marker == nil || !l.showMarker {
		return
	}
	if !l.marker.IsBound() {
		panic(fmt.Sprintf("light: rendering marker of light %d while the marker program is unbound", l.id))
	}
	l.marker.DrawMarker(l.transform.Build(), l.color.Vec4(1))
}

func (l *lightImpl) Close() {
	if l.closed {
		return
	}
	l.closed = true
	l.collection.RemoveLight(l.id)
}

// update copies the wrapper state into the owned record and uploads it.
func (l *lightImpl) update() {
	l.mustLive()
	rec := l.collection.GetLight(l.id)
	rec.Position = l.position
	rec.Direction = l.direction
	rec.Attenuation = l.attenuation
	rec.Color = l.color.Vec4(1)
	rec.Cutoff = l.cutoff
	rec.Type = l.lightType
	if !l.enabled {
		rec.Type = LightTypeNone
	}
	l.collection.UpdateLight(l.id)
	l.transform.MustSetTranslation(0, l.position)
}

func (l *lightImpl) mustLive() {
	if l.closed {
		panic(fmt.Sprintf("light: use of closed light %d", l.id))
	}
}

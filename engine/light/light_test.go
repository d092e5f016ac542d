package light

import (
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type markerRecorder struct {
	bound  bool
	models []common.Mat4
	colors []common.Vec4
}

func (m *markerRecorder) IsBound() bool {
	return m.bound
}

func (m *markerRecorder) DrawMarker(model common.Mat4, color common.Vec4) {
	m.models = append(m.models, model)
	m.colors = append(m.colors, color)
}

func TestNewLightDefaults(t *testing.T) {
	_, c := newTestCollection(t)
	l := NewLight(c)

	rec := c.GetLight(l.ID())
	assert.Equal(t, common.Vec3{0, 10, 0}, rec.Position)
	assert.Equal(t, common.Vec3{0, 0.1, 0.02}, rec.Attenuation)
	assert.Equal(t, common.Vec4{1, 1, 1, 1}, rec.Color)
	assert.Equal(t, LightTypePoint, rec.Type)
	assert.Equal(t, float32(0.8), rec.Cutoff)
}

func TestSettersUpdateRecordWithoutRealloc(t *testing.T) {
	rec, c := newTestCollection(t)
	l := NewLight(c)
	creates := rec.BufferCreates

	l.SetPosition(common.Vec3{1, 2, 3})
	l.SetColor(common.Vec3{0.5, 0.5, 0})
	l.SetAttenuation(common.Vec3{1, 0, 0})

	assert.Equal(t, creates, rec.BufferCreates)
	r := c.GetLight(l.ID())
	assert.Equal(t, common.Vec3{1, 2, 3}, r.Position)
	assert.Equal(t, common.Vec4{0.5, 0.5, 0, 1}, r.Color)
	assert.Equal(t, common.Vec3{1, 0, 0}, r.Attenuation)
}

func TestDisableStoresNoneAndEnableRestores(t *testing.T) {
	_, c := newTestCollection(t)
	l := NewLight(c, WithType(LightTypeDirectional))

	l.SetEnabled(false)
	assert.Equal(t, LightTypeNone, c.GetLight(l.ID()).Type)
	assert.False(t, l.Enabled())

	l.SetEnabled(true)
	assert.Equal(t, LightTypeDirectional, c.GetLight(l.ID()).Type)
}

func TestCloseRemovesRecord(t *testing.T) {
	_, c := newTestCollection(t)
	l := NewLight(c)
	other := NewLight(c)

	l.Close()
	l.Close()

	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Has(other.ID()))
	assert.Panics(t, func() { l.SetPosition(common.Vec3{}) })
}

func TestRenderDrawsMarkerAtPosition(t *testing.T) {
	_, c := newTestCollection(t)
	m := &markerRecorder{}
	l := NewLight(c, WithMarker(m), WithPosition(common.Vec3{1, 2, 3}), WithColor(common.Vec3{1, 0, 0}))

	assert.Panics(t, func() { l.Render() })

	m.bound = true
	l.Render()
	require.Len(t, m.models, 1)
	want := common.TranslationMatrix(common.Vec3{1, 2, 3}).Mul(common.ScaleMatrix(common.Vec3{0.2, 0.2, 0.2}))
	assert.Equal(t, want, m.models[0])
	assert.Equal(t, common.Vec4{1, 0, 0, 1}, m.colors[0])

	l.SetMarkerVisible(false)
	l.Render()
	assert.Len(t, m.models, 1)
}

func TestFlashlightFollowsCamera(t *testing.T) {
	_, c := newTestCollection(t)
	cam := camera.NewCamera()
	f := NewFlashlight(c, cam)

	rec := c.GetLight(f.ID())
	assert.Equal(t, LightTypeSpot, rec.Type)
	assert.Equal(t, common.Vec3{0.1, 0.01, 0.005}, rec.Attenuation)
	assert.Equal(t, float32(0.9), rec.Cutoff)
	assert.Equal(t, cam.Position(), rec.Position)

	cam.SetPosition(common.Vec3{5, 5, 5})
	cam.SetYaw(90)

	rec = c.GetLight(f.ID())
	assert.Equal(t, common.Vec3{5, 5, 5}, rec.Position)
	assert.Equal(t, cam.Direction(), rec.Direction)

	f.Close()
	assert.Equal(t, 0, cam.Channel().Len())
	assert.Equal(t, 0, c.Len())
}

func TestFireflyStaysWithinHeightBounds(t *testing.T) {
	_, c := newTestCollection(t)
	f := NewFirefly(c, rand.New(rand.NewPCG(1, 2)))

	start := f.Position()
	assert.Equal(t, float32(2), start[1])
	assert.LessOrEqual(t, start[0], float32(10))
	assert.GreaterOrEqual(t, start[0], float32(-10))
	assert.Equal(t, common.Vec4{1, 1, 0.3, 1}, c.GetLight(f.ID()).Color)

	for range 600 {
		f.Update(0.1)
		y := f.Position()[1]
		require.GreaterOrEqual(t, y, float32(1))
		require.LessOrEqual(t, y, float32(4))
	}
	assert.NotEqual(t, start, f.Position())
}

package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func litResource(t *testing.T) (*renderertest.Recorder, *shader.Binder, shader.Resource) {
	t.Helper()
	vertex := Source + `
struct Uniforms {
    model: mat4x4<f32>,
    material: Material,
    lightingFlags: u32,
}

@group(0) @binding(0) var<uniform> u: Uniforms;

@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return u.model * vec4<f32>(position, 1.0);
}
`
	rec := renderertest.New()
	binder := shader.NewBinder(rec)
	res, err := shader.NewResource(binder, renderer.ProgramDescriptor{Label: "lit", VertexSource: vertex, FragmentSource: vertex})
	require.NoError(t, err)
	return rec, binder, res
}

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial(WithName("default"))

	assert.Equal(t, "default", m.Name())
	assert.Equal(t, common.Vec4{0.1, 0.1, 0.1, 1}, m.Ambient())
	assert.Equal(t, common.Vec4{1, 1, 1, 1}, m.Diffuse())
	assert.Equal(t, common.Vec4{0.5, 0.5, 0.5, 1}, m.Specular())
	assert.Equal(t, float32(32), m.Shininess())
	assert.Nil(t, m.DiffuseTexture())
}

func TestUploadWhileUnboundRestoresState(t *testing.T) {
	rec, binder, res := litResource(t)
	m := NewMaterial(
		WithAmbient(common.Vec4{0.1, 0.1, 0.1, 0.1}),
		WithDiffuse(common.Vec4{0.419, 0.678, 0.274, 1}),
		WithSpecular(common.Vec4{0.047, 1, 0, 1}),
		WithShininess(64),
	)

	m.Upload(res)

	assert.False(t, res.IsBound())
	assert.Nil(t, binder.Active())
	id := res.ProgramID()
	assert.Equal(t, []float32{0.419, 0.678, 0.274, 1}, rec.UniformFloats(id, "material.diffuse"))
	assert.Equal(t, []float32{0.047, 1, 0, 1}, rec.UniformFloats(id, "material.specular"))
	assert.Equal(t, []float32{64}, rec.UniformFloats(id, "material.shininess"))
}

func TestUploadWhileBoundStaysBound(t *testing.T) {
	rec, _, res := litResource(t)
	res.Bind()
	m := NewMaterial()
	m.SetShininess(8)

	m.Upload(res)

	assert.True(t, res.IsBound())
	assert.Equal(t, []float32{8}, rec.UniformFloats(res.ProgramID(), "material.shininess"))
}

func TestLightingFlags(t *testing.T) {
	assert.Equal(t, LightingFlags(1), FlagAmbient)
	assert.Equal(t, LightingFlags(2), FlagDiffuse)
	assert.Equal(t, LightingFlags(4), FlagSpecular)
	assert.Equal(t, LightingFlags(8), FlagHalfway)

	f := FlagsBlinnPhong.With(FlagSpecular, false)
	assert.False(t, f.Has(FlagSpecular))
	assert.True(t, f.Has(FlagAmbient|FlagHalfway))
	assert.Equal(t, "ambient|diffuse|halfway", f.String())
	assert.Equal(t, "none", LightingFlags(0).String())
}

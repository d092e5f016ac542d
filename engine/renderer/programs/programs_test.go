package programs

import (
	"context"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embeddedSources struct{}

func (embeddedSources) ReadShader(_ context.Context, name string) (string, error) {
	b, err := Shaders.ReadFile(ShaderDir + "/" + name)
	return string(b), err
}

// overlaySources serves edited sources over the embedded ones, like shader files on disk.
type overlaySources map[string]string

func (o overlaySources) ReadShader(ctx context.Context, name string) (string, error) {
	if src, ok := o[name]; ok {
		return src, nil
	}
	return embeddedSources{}.ReadShader(ctx, name)
}

// missingSources hides one file from the embedded sources.
type missingSources string

func (m missingSources) ReadShader(ctx context.Context, name string) (string, error) {
	if name == string(m) {
		return "", fmt.Errorf("no shader %q", name)
	}
	return embeddedSources{}.ReadShader(ctx, name)
}

type fixture struct {
	rec    *renderertest.Recorder
	binder *shader.Binder
	mesh   renderer.MeshID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rec := renderertest.New()
	mesh, err := rec.CreateMesh("cube", make([]byte, renderer.VertexStride*3), []uint32{0, 1, 2})
	require.NoError(t, err)
	require.NoError(t, rec.BeginFrame())
	return &fixture{rec: rec, binder: shader.NewBinder(rec), mesh: mesh}
}

func TestAllProgramsLoadFromEmbeddedSources(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lights, err := light.NewCollection(f.rec, "lights")
	require.NoError(t, err)

	_, err = LoadBasic(ctx, f.binder, embeddedSources{})
	require.NoError(t, err)
	_, err = LoadTextured(ctx, f.binder, embeddedSources{})
	require.NoError(t, err)
	_, err = LoadLights(ctx, f.binder, embeddedSources{}, lights)
	require.NoError(t, err)
	_, err = LoadLightsTextured(ctx, f.binder, embeddedSources{}, lights)
	require.NoError(t, err)
	_, err = LoadLightCube(ctx, f.binder, embeddedSources{}, f.mesh)
	require.NoError(t, err)
	_, err = LoadSkybox(ctx, f.binder, embeddedSources{}, f.mesh, 0)
	require.NoError(t, err)

	for _, label := range []string{"basic", "textured", "lights", "lights_texture", "light_cube", "skybox"} {
		_, ok := f.rec.ProgramByLabel(label)
		assert.True(t, ok, label)
	}
	assert.Nil(t, f.binder.Active())
}

func TestLightsFragmentDeclaresLightStorage(t *testing.T) {
	f := newFixture(t)
	lights, err := light.NewCollection(f.rec, "lights")
	require.NoError(t, err)

	p, err := LoadLights(context.Background(), f.binder, embeddedSources{}, lights)
	require.NoError(t, err)

	src := f.rec.Programs[p.ProgramID()].Desc.FragmentSource
	assert.Contains(t, src, "@group(1) @binding(0) var<storage, read> lights: array<Light>;")
	assert.Contains(t, src, "struct Light {")
	assert.NotContains(t, src, "//@oxy:")
}

func TestLightsUploadsDefaultsAndBindsCollection(t *testing.T) {
	f := newFixture(t)
	lights, err := light.NewCollection(f.rec, "lights")
	require.NoError(t, err)
	p, err := LoadLights(context.Background(), f.binder, embeddedSources{}, lights)
	require.NoError(t, err)
	id := p.ProgramID()

	assert.Equal(t, material.FlagsPhong, p.Flags())
	assert.Equal(t, []float32{32}, f.rec.UniformFloats(id, "material.shininess"))

	p.ApplyBlinnPhong()
	p.SetFlag(material.FlagSpecular, false)
	assert.Equal(t, uint32(material.FlagAmbient|material.FlagDiffuse|material.FlagHalfway), binary.LittleEndian.Uint32(f.rec.Uniform(id, "lightingFlags")))

	lights.AddLight(light.NewRecord())
	p.Bind()
	p.ModelMatrix(common.Ident4())
	p.Draw(f.mesh)
	p.Unbind()

	require.Len(t, f.rec.Draws, 1)
	assert.Equal(t, lights.Buffer(), f.rec.Draws[0].Storage[LightsSlot])
	assert.Equal(t, common.Ident4(), f.rec.UniformMat4(id, "normalMatrix"))
}

func TestLightsWithBoundAttachesCollectionAndTexture(t *testing.T) {
	f := newFixture(t)
	lights, err := light.NewCollection(f.rec, "lights")
	require.NoError(t, err)
	p, err := LoadLightsTextured(context.Background(), f.binder, embeddedSources{}, lights)
	require.NoError(t, err)
	tex, err := f.rec.CreateTexture("bark", common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1})
	require.NoError(t, err)
	p.SetTexture(tex)
	delete(f.rec.StorageSlots, LightsSlot)

	p.WithBound(func() {
		p.ModelMatrix(common.Ident4())
		p.Draw(f.mesh)
	})

	require.Len(t, f.rec.Draws, 1)
	assert.Equal(t, lights.Buffer(), f.rec.Draws[0].Storage[LightsSlot])
	assert.Equal(t, tex, f.rec.Draws[0].Textures[DiffuseUnit])
}

func TestLightsSetMaterialSurvivesReload(t *testing.T) {
	f := newFixture(t)
	lights, err := light.NewCollection(f.rec, "lights")
	require.NoError(t, err)
	p, err := LoadLights(context.Background(), f.binder, embeddedSources{}, lights)
	require.NoError(t, err)
	p.SetMaterial(material.NewMaterial(material.WithShininess(64)))
	p.SetFlags(material.FlagAmbient)
	old := p.ProgramID()

	require.NoError(t, p.ReloadSources(context.Background()))

	assert.NotEqual(t, old, p.ProgramID())
	assert.Equal(t, []float32{64}, f.rec.UniformFloats(p.ProgramID(), "material.shininess"))
	assert.Equal(t, uint32(material.FlagAmbient), binary.LittleEndian.Uint32(f.rec.Uniform(p.ProgramID(), "lightingFlags")))
}

func TestReloadRereadsIncludes(t *testing.T) {
	f := newFixture(t)
	lights, err := light.NewCollection(f.rec, "lights")
	require.NoError(t, err)
	sources := overlaySources{}
	p, err := LoadLights(context.Background(), f.binder, sources, lights)
	require.NoError(t, err)
	assert.NotContains(t, f.rec.Programs[p.ProgramID()].Desc.FragmentSource, "const tuned")

	phong, err := embeddedSources{}.ReadShader(context.Background(), IncludeDir+"/phong.wgsl")
	require.NoError(t, err)
	sources[IncludeDir+"/phong.wgsl"] = phong + "\nconst tuned = 1.0;\n"
	require.NoError(t, p.ReloadSources(context.Background()))

	assert.Contains(t, f.rec.Programs[p.ProgramID()].Desc.FragmentSource, "const tuned = 1.0;")
}

func TestMissingIncludeFailsLoad(t *testing.T) {
	f := newFixture(t)
	_, err := LoadBasic(context.Background(), f.binder, missingSources(IncludeDir+"/transform_uniforms.wgsl"))
	assert.ErrorContains(t, err, "transform_uniforms")
	assert.Empty(t, f.rec.Programs)
}

func TestTexturedRequiresTexture(t *testing.T) {
	f := newFixture(t)
	p, err := LoadTextured(context.Background(), f.binder, embeddedSources{})
	require.NoError(t, err)
	tex, err := f.rec.CreateTexture("grass", common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1})
	require.NoError(t, err)

	p.Bind()
	p.ModelMatrix(common.Ident4())
	assert.Panics(t, func() { p.Draw(f.mesh) })

	p.SetTexture(tex)
	p.Draw(f.mesh)
	p.Unbind()

	require.Len(t, f.rec.Draws, 1)
	assert.Equal(t, tex, f.rec.Draws[0].Textures[DiffuseUnit])
}

func TestUntexturedLightsRejectsTexture(t *testing.T) {
	f := newFixture(t)
	lights, err := light.NewCollection(f.rec, "lights")
	require.NoError(t, err)
	p, err := LoadLights(context.Background(), f.binder, embeddedSources{}, lights)
	require.NoError(t, err)

	assert.Panics(t, func() { p.SetTexture(1) })
}

func TestLightCubeDrawsLightMarker(t *testing.T) {
	f := newFixture(t)
	cube, err := LoadLightCube(context.Background(), f.binder, embeddedSources{}, f.mesh)
	require.NoError(t, err)
	lights, err := light.NewCollection(f.rec, "lights")
	require.NoError(t, err)
	l := light.NewLight(lights, light.WithMarker(cube), light.WithColor(common.Vec3{1, 0, 0}))

	cube.Bind()
	l.Render()
	cube.Unbind()

	require.Len(t, f.rec.Draws, 1)
	id := cube.ProgramID()
	assert.Equal(t, []float32{1, 0, 0, 1}, f.rec.UniformFloats(id, "lightColor"))
	assert.Equal(t, common.Vec4{1, 0, 0, 1}, cube.LightColor())
}

func TestLightCubeSetColorWhileUnbound(t *testing.T) {
	f := newFixture(t)
	cube, err := LoadLightCube(context.Background(), f.binder, embeddedSources{}, f.mesh)
	require.NoError(t, err)

	cube.SetLightColor(common.Vec4{0, 1, 0, 1})

	assert.False(t, cube.IsBound())
	assert.Equal(t, []float32{0, 1, 0, 1}, f.rec.UniformFloats(cube.ProgramID(), "lightColor"))
}

func TestSkyboxFollowsCamera(t *testing.T) {
	f := newFixture(t)
	cubemap, err := f.rec.CreateCubemap("sky", common.CubemapStagingData{})
	require.NoError(t, err)
	sky, err := LoadSkybox(context.Background(), f.binder, embeddedSources{}, f.mesh, cubemap)
	require.NoError(t, err)
	cam := camera.NewCamera(camera.WithPosition(common.Vec3{1, 2, 3}))
	sky.AttachCamera(cam.Channel())

	assert.Equal(t, common.Vec3{1, 2, 3}, sky.Center())
	cam.SetPosition(common.Vec3{4, 5, 6})
	assert.Equal(t, common.Vec3{4, 5, 6}, sky.Center())

	sky.SetFollow(false)
	cam.SetPosition(common.Vec3{0, 0, 0})
	assert.Equal(t, common.Vec3{4, 5, 6}, sky.Center())

	sky.Render()
	require.Len(t, f.rec.Draws, 1)
	assert.Equal(t, cubemap, f.rec.Draws[0].Textures[DiffuseUnit])
	assert.Equal(t, common.TranslationMatrix(common.Vec3{4, 5, 6}), f.rec.UniformMat4(sky.ProgramID(), "model"))
	assert.Equal(t, renderer.DepthReadOnly, f.rec.Programs[sky.ProgramID()].Desc.Depth)
	assert.Nil(t, f.binder.Active())
}

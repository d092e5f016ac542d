package shader

import (
	"context"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/observable"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/wgsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSources map[string]string

func (m mapSources) ReadShader(_ context.Context, name string) (string, error) {
	src, ok := m[name]
	if !ok {
		return "", fmt.Errorf("no shader %q", name)
	}
	return src, nil
}

func testSources() mapSources {
	return mapSources{"test.vert.wgsl": testVertex, "test.frag.wgsl": testFragment}
}

func loadTestProgram(t *testing.T, rec *renderertest.Recorder, binder *Binder, options ...ProgramBuilderOption) *Program {
	t.Helper()
	p, err := LoadProgram(context.Background(), binder, testSources(), "test.vert.wgsl", "test.frag.wgsl", options...)
	require.NoError(t, err)
	return p
}

func TestLoadProgramIsAllOrNothing(t *testing.T) {
	rec := renderertest.New()
	binder := NewBinder(rec)

	p, err := LoadProgram(context.Background(), binder, testSources(), "test.vert.wgsl", "missing.frag.wgsl")

	assert.Nil(t, p)
	assert.ErrorContains(t, err, "missing.frag.wgsl")
	assert.Empty(t, rec.Programs)
}

func TestLoadProgramPreProcessError(t *testing.T) {
	rec := renderertest.New()
	sources := testSources()
	sources["bad.frag.wgsl"] = "//@oxy:include nothing\n" + testFragment

	p, err := LoadProgram(context.Background(), NewBinder(rec), sources, "test.vert.wgsl", "bad.frag.wgsl",
		WithPreProcessor(wgsl.NewPreProcessor()))

	assert.Nil(t, p)
	require.Error(t, err)
	assert.Empty(t, rec.Programs)
}

func TestLoadProgramDefaultLabel(t *testing.T) {
	rec := renderertest.New()
	p := loadTestProgram(t, rec, NewBinder(rec))

	assert.Equal(t, "test.vert.wgsl+test.frag.wgsl", p.Label())
	vs, fs := p.Sources()
	assert.Equal(t, "test.vert.wgsl", vs)
	assert.Equal(t, "test.frag.wgsl", fs)
}

func TestCameraEventUploadsViewEagerly(t *testing.T) {
	rec := renderertest.New()
	p := loadTestProgram(t, rec, NewBinder(rec))
	cam := camera.NewCamera()
	p.AttachCamera(cam.Channel())
	defer p.Close()

	assert.Equal(t, cam.View(), rec.UniformMat4(p.ProgramID(), "view"))
	assert.Equal(t, []float32{-3, 3, -3}, rec.UniformFloats(p.ProgramID(), "cameraPosition"))
	assert.False(t, p.IsBound())

	cam.SetPosition(common.Vec3{1, 1, 1})

	assert.Equal(t, cam.View(), rec.UniformMat4(p.ProgramID(), "view"))
	assert.Equal(t, []float32{1, 1, 1}, rec.UniformFloats(p.ProgramID(), "cameraPosition"))
	assert.False(t, p.IsBound())
}

func TestProjectionEventUploadsProjection(t *testing.T) {
	rec := renderertest.New()
	p := loadTestProgram(t, rec, NewBinder(rec))
	sizes := observable.New(common.Size{})
	proj := camera.NewProjection()
	proj.AttachTo(sizes)
	p.AttachProjection(proj.Channel())
	defer p.Close()

	assert.Equal(t, common.Mat4{}, rec.UniformMat4(p.ProgramID(), "projection"))

	sizes.Notify(common.Size{Width: 800, Height: 600})

	assert.Equal(t, proj.Matrix(), rec.UniformMat4(p.ProgramID(), "projection"))
}

func TestDoubleAttachPanics(t *testing.T) {
	rec := renderertest.New()
	p := loadTestProgram(t, rec, NewBinder(rec))
	cam := camera.NewCamera()
	p.AttachCamera(cam.Channel())

	assert.Panics(t, func() { p.AttachCamera(cam.Channel()) })

	p.DetachCamera()
	assert.Equal(t, 0, cam.Channel().Len())
	assert.NotPanics(t, func() { p.AttachCamera(cam.Channel()) })
}

func TestCameraEventWhileAnotherProgramIsBoundPanics(t *testing.T) {
	rec := renderertest.New()
	binder := NewBinder(rec)
	a := loadTestProgram(t, rec, binder, WithLabel("a"))
	b := loadTestProgram(t, rec, binder, WithLabel("b"))
	cam := camera.NewCamera()
	a.AttachCamera(cam.Channel())

	b.Bind()
	assert.Panics(t, func() { cam.MoveForward(1) })
}

func TestDrawRequiresModelMatrixEachBindCycle(t *testing.T) {
	rec := renderertest.New()
	p := loadTestProgram(t, rec, NewBinder(rec))
	mesh, err := rec.CreateMesh("m", make([]byte, 32*3), []uint32{0, 1, 2})
	require.NoError(t, err)

	p.Bind()
	assert.Panics(t, func() { p.Draw(mesh) })

	model := common.TranslationMatrix(common.Vec3{1, 2, 3})
	p.ModelMatrix(model)
	p.Draw(mesh)
	require.Len(t, rec.Draws, 1)
	assert.Equal(t, model, rec.UniformMat4(p.ProgramID(), "model"))
	assert.Equal(t, common.NormalMatrix(model), rec.UniformMat4(p.ProgramID(), "normalMatrix"))
	p.Unbind()

	p.Bind()
	assert.Panics(t, func() { p.Draw(mesh) })
	p.Unbind()
}

func TestWithBoundStartsNewBindCycle(t *testing.T) {
	rec := renderertest.New()
	p := loadTestProgram(t, rec, NewBinder(rec))
	mesh, err := rec.CreateMesh("m", make([]byte, 32*3), []uint32{0, 1, 2})
	require.NoError(t, err)

	p.Bind()
	p.ModelMatrix(common.Ident4())
	p.Draw(mesh)
	p.Unbind()

	assert.Panics(t, func() { p.WithBound(func() { p.Draw(mesh) }) })
	assert.False(t, p.IsBound(), "the deferred unbind runs on panic")
	assert.Len(t, rec.Draws, 1)

	p.WithBound(func() {
		p.ModelMatrix(common.Ident4())
		p.Draw(mesh)
	})
	assert.Len(t, rec.Draws, 2)
}

func TestBindHooksRunOnEveryBind(t *testing.T) {
	rec := renderertest.New()
	p := loadTestProgram(t, rec, NewBinder(rec))
	var binds int
	p.OnBind(func() {
		assert.True(t, p.IsBound())
		binds++
	})

	p.Bind()
	p.WithBound(func() {})
	p.Unbind()
	assert.Equal(t, 1, binds, "nested WithBound keeps the current bind")

	p.WithBound(func() {})
	assert.Equal(t, 2, binds)
}

func TestModelMatrixWhileUnboundPanics(t *testing.T) {
	rec := renderertest.New()
	p := loadTestProgram(t, rec, NewBinder(rec))

	assert.Panics(t, func() { p.ModelMatrix(common.Ident4()) })
}

func TestReloadSourcesReuploadsCamera(t *testing.T) {
	rec := renderertest.New()
	sources := testSources()
	p, err := LoadProgram(context.Background(), NewBinder(rec), sources, "test.vert.wgsl", "test.frag.wgsl")
	require.NoError(t, err)
	cam := camera.NewCamera()
	p.AttachCamera(cam.Channel())
	oldID := p.ProgramID()

	require.NoError(t, p.ReloadSources(context.Background()))

	assert.NotEqual(t, oldID, p.ProgramID())
	assert.Equal(t, cam.View(), rec.UniformMat4(p.ProgramID(), "view"))
}

func TestCameraHookOverride(t *testing.T) {
	rec := renderertest.New()
	var calls int
	p := loadTestProgram(t, rec, NewBinder(rec), WithCameraHook(func(p *Program, props camera.Properties) {
		calls++
		p.BindParam("view", Mat4(common.Ident4()))
	}))
	cam := camera.NewCamera()
	p.AttachCamera(cam.Channel())

	assert.Equal(t, 1, calls)
	assert.Equal(t, common.Ident4(), rec.UniformMat4(p.ProgramID(), "view"))
}

package shader

import (
	"context"
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/observable"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/wgsl"
)

// SourceReader provides shader source text by asset name.
type SourceReader interface {
	// ReadShader returns the source of the named shader asset.
	//
	// Parameters:
	//   - ctx: cancellation for the read
	//   - name: the asset name, e.g. "basic.vert.wgsl"
	//
	// Returns:
	//   - string: the source text
	//   - error: error if the asset cannot be read
	ReadShader(ctx context.Context, name string) (string, error)
}

// PreProcessorFactory builds the pre-processor a Program expands its sources with.
type PreProcessorFactory func(ctx context.Context, sources SourceReader) (wgsl.PreProcessor, error)

// CameraHook uploads camera-derived uniforms while the program is bound.
type CameraHook func(p *Program, props camera.Properties)

// Program is a Resource that follows a camera and a projection. Camera events upload the view
// matrix and projection events upload the projection matrix at the moment they are published,
// so a Program never draws with a stale camera.
//
// A Program also enforces that the model matrix is uploaded in every bind cycle before a draw.
type Program struct {
	Resource

	sources        SourceReader
	pp             wgsl.PreProcessor
	newPP          PreProcessorFactory
	vertexName     string
	fragmentName   string
	desc           renderer.ProgramDescriptor
	onCamera       CameraHook
	cameraSub      *observable.Subscription[camera.Properties]
	projectionSub  *observable.Subscription[common.Mat4]
	modelUploaded  bool
	bindHooks      []func()
	lastProperties camera.Properties
	lastProjection common.Mat4
}

// LoadProgram reads, pre-processes and compiles a program from two named shader assets. Any
// failure returns nil and the error; a Program is never returned half-built.
//
// Parameters:
//   - ctx: cancellation for the source reads
//   - binder: the GPU context
//   - sources: where shader sources are read from
//   - vertexName: the vertex stage asset name
//   - fragmentName: the fragment stage asset name
//   - options: builder options
//
// Returns:
//   - *Program: the unbound Program
//   - error: error if reading, pre-processing or compiling fails
func LoadProgram(ctx context.Context, binder *Binder, sources SourceReader, vertexName, fragmentName string, options ...ProgramBuilderOption) (*Program, error) {
	p := &Program{
		sources:      sources,
		vertexName:   vertexName,
		fragmentName: fragmentName,
		desc:         renderer.ProgramDescriptor{Label: vertexName + "+" + fragmentName},
	}
	for _, opt := range options {
		opt(p)
	}

	vs, fs, err := p.readSources(ctx)
	if err != nil {
		return nil, err
	}
	desc := p.desc
	desc.VertexSource, desc.FragmentSource = vs, fs
	res, err := NewResource(binder, desc)
	if err != nil {
		return nil, err
	}
	p.Resource = res
	return p, nil
}

func (p *Program) readSources(ctx context.Context) (string, string, error) {
	vs, err := p.sources.ReadShader(ctx, p.vertexName)
	if err != nil {
		return "", "", fmt.Errorf("failed to read vertex shader %q: %w", p.vertexName, err)
	}
	fs, err := p.sources.ReadShader(ctx, p.fragmentName)
	if err != nil {
		return "", "", fmt.Errorf("failed to read fragment shader %q: %w", p.fragmentName, err)
	}
	pp := p.pp
	if p.newPP != nil {
		if pp, err = p.newPP(ctx, p.sources); err != nil {
			return "", "", err
		}
	}
	if pp != nil {
		if vs, err = pp.Process(vs); err != nil {
			return "", "", fmt.Errorf("failed to pre-process %q: %w", p.vertexName, err)
		}
		if fs, err = pp.Process(fs); err != nil {
			return "", "", fmt.Errorf("failed to pre-process %q: %w", p.fragmentName, err)
		}
	}
	return vs, fs, nil
}

// Sources returns the asset names this Program was loaded from.
func (p *Program) Sources() (vertexName, fragmentName string) {
	return p.vertexName, p.fragmentName
}

// ReloadSources re-reads both assets and recompiles. On error the current program stays in use.
// Camera and projection uniforms are re-uploaded from the last published values.
//
// Parameters:
//   - ctx: cancellation for the source reads
//
// Returns:
//   - error: error if reading or compiling fails
func (p *Program) ReloadSources(ctx context.Context) error {
	vs, fs, err := p.readSources(ctx)
	if err != nil {
		return err
	}
	if err := p.Reload(vs, fs); err != nil {
		return err
	}
	if p.cameraSub.Active() {
		p.handleCamera(p.lastProperties)
	}
	if p.projectionSub.Active() {
		p.handleProjection(p.lastProjection)
	}
	return nil
}

// Bind binds the program, starts a new bind cycle for the model matrix check and runs the
// hooks registered with OnBind.
func (p *Program) Bind() {
	p.Resource.Bind()
	p.modelUploaded = false
	for _, hook := range p.bindHooks {
		hook()
	}
}

// WithBound runs fn with the program bound. An unbound program goes through Bind and Unbind, so
// the bind hooks run and fn starts a new bind cycle.
//
// Parameters:
//   - fn: the work to run while bound
func (p *Program) WithBound(fn func()) {
	if p.IsBound() {
		fn()
		return
	}
	p.Bind()
	defer p.Unbind()
	fn()
}

// OnBind registers fn to run after every Bind, including the binds made by WithBound. Programs
// use it to attach the storage buffers and textures their draws sample.
//
// Parameters:
//   - fn: the work run while bound
func (p *Program) OnBind(fn func()) {
	p.bindHooks = append(p.bindHooks, fn)
}

// ModelMatrix uploads the model matrix, and the normal matrix when the program declares
// "normalMatrix". It panics while unbound.
//
// Parameters:
//   - m: the model matrix
func (p *Program) ModelMatrix(m common.Mat4) {
	p.BindParam("model", Mat4(m))
	if p.HasParam("normalMatrix") {
		p.BindParam("normalMatrix", Mat4(common.NormalMatrix(m)))
	}
	p.modelUploaded = true
}

// Draw draws mesh. It panics unless ModelMatrix was called since the last Bind.
//
// Parameters:
//   - mesh: the mesh to draw
func (p *Program) Draw(mesh renderer.MeshID) {
	if !p.modelUploaded {
		panic(fmt.Sprintf("shader: draw with %s before the model matrix was uploaded", p.Label()))
	}
	p.Resource.Draw(mesh)
}

// AttachCamera subscribes the program to a camera channel. The current camera state is
// uploaded immediately.
//
// Parameters:
//   - channel: the camera's channel
func (p *Program) AttachCamera(channel *observable.Observable[camera.Properties]) {
	if p.cameraSub.Active() {
		panic(fmt.Sprintf("shader: %s is already attached to a camera", p.Label()))
	}
	p.cameraSub = channel.AttachFunc(p.handleCamera)
}

// AttachProjection subscribes the program to a projection channel. The current projection is
// uploaded immediately.
//
// Parameters:
//   - channel: the projection's channel
func (p *Program) AttachProjection(channel *observable.Observable[common.Mat4]) {
	if p.projectionSub.Active() {
		panic(fmt.Sprintf("shader: %s is already attached to a projection", p.Label()))
	}
	p.projectionSub = channel.AttachFunc(p.handleProjection)
}

// DetachCamera ends the camera subscription, if any.
func (p *Program) DetachCamera() {
	if p.cameraSub.Active() {
		p.cameraSub.Detach()
	}
}

// DetachProjection ends the projection subscription, if any.
func (p *Program) DetachProjection() {
	if p.projectionSub.Active() {
		p.projectionSub.Detach()
	}
}

// Close detaches both subscriptions and releases the program.
func (p *Program) Close() {
	p.DetachCamera()
	p.DetachProjection()
	p.Release()
}

func (p *Program) handleCamera(props camera.Properties) {
	p.lastProperties = props
	p.WithBound(func() {
		if p.onCamera != nil {
			p.onCamera(p, props)
			return
		}
		DefaultCameraHook(p, props)
	})
}

// handleProjection ignores the zero matrix a projection publishes before its first resize.
func (p *Program) handleProjection(m common.Mat4) {
	if m == (common.Mat4{}) {
		return
	}
	p.lastProjection = m
	p.WithBound(func() {
		p.BindParam("projection", Mat4(m))
	})
}

// DefaultCameraHook uploads "view", and "cameraPosition" when the program declares it.
func DefaultCameraHook(p *Program, props camera.Properties) {
	p.BindParam("view", Mat4(props.View))
	if p.HasParam("cameraPosition") {
		p.BindParam("cameraPosition", Vec3(props.Position))
	}
}

package shader

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/wgsl"
)

// ProgramBuilderOption is a functional option applied to a Program during LoadProgram.
type ProgramBuilderOption func(*Program)

// WithLabel overrides the debug label, which defaults to "<vertex>+<fragment>".
//
// Parameters:
//   - label: the label
//
// Returns:
//   - ProgramBuilderOption: a function that applies the label option to a Program
func WithLabel(label string) ProgramBuilderOption {
	return func(p *Program) {
		p.desc.Label = label
	}
}

// WithDepthMode sets the pipeline depth state.
//
// Parameters:
//   - mode: renderer.DepthDefault or renderer.DepthReadOnly
//
// Returns:
//   - ProgramBuilderOption: a function that applies the depth option to a Program
func WithDepthMode(mode renderer.DepthMode) ProgramBuilderOption {
	return func(p *Program) {
		p.desc.Depth = mode
	}
}

// WithCullMode sets face culling.
//
// Parameters:
//   - mode: renderer.CullNone or renderer.CullBack
//
// Returns:
//   - ProgramBuilderOption: a function that applies the cull option to a Program
func WithCullMode(mode renderer.CullMode) ProgramBuilderOption {
	return func(p *Program) {
		p.desc.Cull = mode
	}
}

// WithPreProcessor runs both sources through pp before compiling.
//
// Parameters:
//   - pp: the pre-processor
//
// Returns:
//   - ProgramBuilderOption: a function that applies the pre-processor option to a Program
func WithPreProcessor(pp wgsl.PreProcessor) ProgramBuilderOption {
	return func(p *Program) {
		p.pp = pp
	}
}

// WithPreProcessorFactory builds a fresh pre-processor from the program's sources on every load
// and reload, so included fragments are re-read together with the stages.
//
// Parameters:
//   - factory: builds the pre-processor
//
// Returns:
//   - ProgramBuilderOption: a function that applies the factory option to a Program
func WithPreProcessorFactory(factory PreProcessorFactory) ProgramBuilderOption {
	return func(p *Program) {
		p.newPP = factory
	}
}

// WithCameraHook replaces DefaultCameraHook for camera events.
//
// Parameters:
//   - hook: the uniforms upload run on every camera event
//
// Returns:
//   - ProgramBuilderOption: a function that applies the hook option to a Program
func WithCameraHook(hook CameraHook) ProgramBuilderOption {
	return func(p *Program) {
		p.onCamera = hook
	}
}

package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Stages holds the compiled shader stages and layouts a render pipeline is created from.
type Stages struct {
	Layout        *wgpu.PipelineLayout
	Vertex        *wgpu.ShaderModule
	VertexEntry   string
	Fragment      *wgpu.ShaderModule
	FragmentEntry string
	VertexBuffers []wgpu.VertexBufferLayout
}

// pipeline is the implementation of the Pipeline interface.
// It holds the fixed-function state of a render pipeline and, once created, the wgpu pipeline.
type pipeline struct {
	// pipelineKey labels the pipeline in wgpu validation messages
	pipelineKey string

	renderPipeline *wgpu.RenderPipeline

	// The following properties configure the pipeline during creation and can be set with the builder options.

	colorFormat       wgpu.TextureFormat
	depthFormat       wgpu.TextureFormat
	sampleCount       uint32
	depthWriteEnabled bool
	depthCompare      wgpu.CompareFunction
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline describes a render pipeline: the depth, blend, cull and topology state applied to a
// vertex and fragment stage pair, and the wgpu pipeline created from it.
type Pipeline interface {
	// PipelineKey returns the label of this pipeline.
	//
	// Returns:
	//   - string: the label
	PipelineKey() string

	// Descriptor builds the wgpu descriptor for the given stages from the configured state.
	//
	// Parameters:
	//   - stages: the shader modules, entry points and layouts
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor
	Descriptor(stages Stages) *wgpu.RenderPipelineDescriptor

	// Create creates the wgpu pipeline on device. A previously created pipeline is released.
	//
	// Parameters:
	//   - device: the device
	//   - stages: the shader modules, entry points and layouts
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the created pipeline
	//   - error: error if wgpu rejects the descriptor
	Create(device *wgpu.Device, stages Stages) (*wgpu.RenderPipeline, error)

	// RenderPipeline returns the pipeline from the last successful Create, nil before that.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// DepthCompare returns the depth test function.
	//
	// Returns:
	//   - wgpu.CompareFunction: the comparison applied against the depth buffer
	DepthCompare() wgpu.CompareFunction

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeBack)
	CullMode() wgpu.CullMode

	// SampleCount returns the multisample count of the pipeline's targets.
	//
	// Returns:
	//   - uint32: the sample count
	SampleCount() uint32

	// Release releases the created wgpu pipeline, if any.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new Pipeline. Defaults are a triangle list wound
// counter-clockwise, no culling, a depth test with writes and a single sample.
//
// Parameters:
//   - pipelineKey: the label for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		colorFormat:       wgpu.TextureFormatBGRA8UnormSrgb,
		depthFormat:       wgpu.TextureFormatDepth24Plus,
		sampleCount:       1,
		depthWriteEnabled: true,
		depthCompare:      wgpu.CompareFunctionLess,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Descriptor(stages Stages) *wgpu.RenderPipelineDescriptor {
	target := wgpu.ColorTargetState{
		Format:    p.colorFormat,
		WriteMask: p.writeMask,
	}
	if p.blendEnabled {
		target.Blend = p.blendState
	}
	return &wgpu.RenderPipelineDescriptor{
		Label:  p.pipelineKey + " Render Pipeline",
		Layout: stages.Layout,
		Vertex: wgpu.VertexState{
			Module:     stages.Vertex,
			EntryPoint: stages.VertexEntry,
			Buffers:    stages.VertexBuffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     stages.Fragment,
			EntryPoint: stages.FragmentEntry,
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: p.sampleCount,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            p.depthFormat,
			DepthWriteEnabled: p.depthWriteEnabled,
			DepthCompare:      p.depthCompare,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	}
}

func (p *pipeline) Create(device *wgpu.Device, stages Stages) (*wgpu.RenderPipeline, error) {
	rp, err := device.CreateRenderPipeline(p.Descriptor(stages))
	if err != nil {
		return nil, err
	}
	p.Release()
	p.renderPipeline = rp
	return rp, nil
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthCompare() wgpu.CompareFunction {
	return p.depthCompare
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) SampleCount() uint32 {
	return p.sampleCount
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}

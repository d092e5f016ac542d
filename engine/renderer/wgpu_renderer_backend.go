package renderer

import (
	"fmt"
	"log"
	"runtime"
	"slices"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/wgsl"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	uniformGroup = 0
	storageGroup = 1
	textureGroup = 2

	// uniformAlignment is minUniformBufferOffsetAlignment from the WebGPU default limits.
	uniformAlignment = 256

	defaultRingSize = 4 << 20
	depthFormat     = wgpu.TextureFormatDepth24Plus
)

type wgpuProgram struct {
	label    string
	pipeline pipeline.Pipeline
	layouts  []*wgpu.BindGroupLayout
	uniforms wgsl.UniformLayout
	staging  []byte

	uniformBindGroup *wgpu.BindGroup
	storageSlots     []uint32
	textureUnits     []uint32

	storageGroups bind_group_provider.BindGroupProvider[*wgpu.BindGroup]
	textureGroups bind_group_provider.BindGroupProvider[*wgpu.BindGroup]
}

type wgpuBuffer struct {
	buf  *wgpu.Buffer
	size uint64
}

type wgpuTexture struct {
	tex     *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

type wgpuMesh struct {
	vertex     *wgpu.Buffer
	index      *wgpu.Buffer
	indexCount uint32
}

type wgpuBackend struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat        wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	forceFallbackAdapter bool
	presentMode          PresentMode
	sampleCount          MSAASampleCount
	clearColor           [4]float64

	ring       *wgpu.Buffer
	ringSize   uint64
	ringOffset uint64

	nextID   uint32
	programs map[ProgramID]*wgpuProgram
	buffers  map[BufferID]*wgpuBuffer
	textures map[TextureID]*wgpuTexture
	meshes   map[MeshID]*wgpuMesh

	current      ProgramID
	storageSlots map[uint32]BufferID
	textureUnits map[uint32]TextureID

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ Backend = &wgpuBackend{}

// NewBackend creates the wgpu Backend rendering to the given surface. The calling goroutine is
// locked to its OS thread, and every later call must come from it.
//
// Parameters:
//   - surfaceDescriptor: the platform surface, typically from the window
//   - width: the initial surface width in pixels
//   - height: the initial surface height in pixels
//   - options: builder options
//
// Returns:
//   - Backend: the backend
//   - error: error if no adapter or device is available
func NewBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...BackendBuilderOption) (Backend, error) {
	runtime.LockOSThread()
	b := &wgpuBackend{
		mu:           &sync.Mutex{},
		presentMode:  PresentModeUncapped,
		sampleCount:  MSAA4x,
		clearColor:   [4]float64{0.1, 0.1, 0.1, 1.0},
		ringSize:     defaultRingSize,
		programs:     make(map[ProgramID]*wgpuProgram),
		buffers:      make(map[BufferID]*wgpuBuffer),
		textures:     make(map[TextureID]*wgpuTexture),
		meshes:       make(map[MeshID]*wgpuMesh),
		storageSlots: make(map[uint32]BufferID),
		textureUnits: make(map[uint32]TextureID),
	}
	for _, opt := range options {
		opt(b)
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = a

	limits := wgpu.DefaultLimits()
	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{Limits: limits},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	b.ring, err = d.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Uniform Ring",
		Size:  b.ringSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create uniform ring: %w", err)
	}

	b.Resize(width, height)
	log.Printf("[Renderer] device ready (msaa %dx, surface %v)", b.sampleCount, b.surfaceFormat)
	return b, nil
}

func (b *wgpuBackend) allocID() uint32 {
	b.nextID++
	return b.nextID
}

func (b *wgpuBackend) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	presentMode := wgpu.PresentModeImmediate
	if b.presentMode == PresentModeVSync {
		presentMode = wgpu.PresentModeFifo
	}
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
	}

	count := uint32(b.sampleCount)
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}
	if count > 1 {
		b.msaaTextureView = b.mustCreateTargetView("MSAA Texture", size, count, b.surfaceFormat)
	}
	b.depthTextureView = b.mustCreateTargetView("Depth Texture", size, count, depthFormat)

	// With MSAA the pass draws into the multisampled texture and resolves into the swapchain
	// view, which BeginFrame sets as ResolveTarget. Without it BeginFrame sets View directly.
	storeOp := wgpu.StoreOpStore
	if count > 1 {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    b.msaaTextureView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: storeOp,
				ClearValue: wgpu.Color{
					R: b.clearColor[0], G: b.clearColor[1], B: b.clearColor[2], A: b.clearColor[3],
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuBackend) mustCreateTargetView(label string, size wgpu.Extent3D, samples uint32, format wgpu.TextureFormat) *wgpu.TextureView {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: create %s: %v", label, err))
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		panic(fmt.Sprintf("renderer: create %s view: %v", label, err))
	}
	return view
}

func (b *wgpuBackend) CompileProgram(desc ProgramDescriptor) (ProgramID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	uniforms, err := wgsl.ParseUniformLayout(desc.VertexSource)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", desc.Label, err)
	}
	if fragUniforms, fragErr := wgsl.ParseUniformLayout(desc.FragmentSource); fragErr != nil {
		return 0, fmt.Errorf("%s: %w", desc.Label, fragErr)
	} else if fragUniforms.Size > 0 && uniforms.Size == 0 {
		uniforms = fragUniforms
	} else if fragUniforms.Size > 0 && fragUniforms.TypeName != uniforms.TypeName {
		return 0, fmt.Errorf("%s: vertex and fragment stages declare different uniform blocks %q and %q", desc.Label, uniforms.TypeName, fragUniforms.TypeName)
	}

	vertexLayout, ok := wgsl.ParseVertexLayout(desc.VertexSource)
	if !ok {
		return 0, fmt.Errorf("%s: vertex stage declares no vertex input struct", desc.Label)
	}
	if vertexLayout.ArrayStride != VertexStride {
		return 0, fmt.Errorf("%s: vertex input is %d bytes, expected %d", desc.Label, vertexLayout.ArrayStride, VertexStride)
	}

	vs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.Label + " vertex",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.VertexSource},
	})
	if err != nil {
		return 0, fmt.Errorf("%s: compile vertex stage: %w", desc.Label, err)
	}
	defer vs.Release()
	fs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.Label + " fragment",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.FragmentSource},
	})
	if err != nil {
		return 0, fmt.Errorf("%s: compile fragment stage: %w", desc.Label, err)
	}
	defer fs.Release()

	vGroups, _ := wgsl.ParseBindGroupLayouts(desc.VertexSource, wgpu.ShaderStageVertex)
	fGroups, _ := wgsl.ParseBindGroupLayouts(desc.FragmentSource, wgpu.ShaderStageFragment)
	merged := mergeBindGroupLayouts(vGroups, fGroups)

	p := &wgpuProgram{
		label:    desc.Label,
		uniforms: uniforms,
		staging:  make([]byte, roundUp(uint64(uniforms.Size), 16)),
	}
	p.storageGroups = b.bindGroupProvider(p, storageGroup)
	p.textureGroups = b.bindGroupProvider(p, textureGroup)
	for _, e := range merged[storageGroup].Entries {
		p.storageSlots = append(p.storageSlots, e.Binding)
	}
	for _, e := range merged[textureGroup].Entries {
		if e.Binding%2 == 0 {
			p.textureUnits = append(p.textureUnits, e.Binding/2)
		}
	}

	maxGroup := -1
	for g := range merged {
		maxGroup = max(maxGroup, g)
	}
	p.layouts = make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g := range p.layouts {
		d := merged[g]
		d.Label = fmt.Sprintf("%s group %d", desc.Label, g)
		layout, layoutErr := b.device.CreateBindGroupLayout(&d)
		if layoutErr != nil {
			p.release()
			return 0, fmt.Errorf("%s: create bind group layout %d: %w", desc.Label, g, layoutErr)
		}
		p.layouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: p.layouts,
	})
	if err != nil {
		p.release()
		return 0, fmt.Errorf("%s: create pipeline layout: %w", desc.Label, err)
	}
	defer pipelineLayout.Release()

	p.pipeline = pipelineFor(desc, b.surfaceFormat, b.sampleCount)
	_, err = p.pipeline.Create(b.device, pipeline.Stages{
		Layout:        pipelineLayout,
		Vertex:        vs,
		VertexEntry:   wgsl.ParseEntryPoint(desc.VertexSource, wgsl.StageVertex),
		Fragment:      fs,
		FragmentEntry: wgsl.ParseEntryPoint(desc.FragmentSource, wgsl.StageFragment),
		VertexBuffers: []wgpu.VertexBufferLayout{vertexLayout},
	})
	if err != nil {
		p.release()
		return 0, fmt.Errorf("%s: create render pipeline: %w", desc.Label, err)
	}

	if len(p.staging) > 0 {
		p.uniformBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  desc.Label + " uniforms",
			Layout: p.layouts[uniformGroup],
			Entries: []wgpu.BindGroupEntry{{
				Binding: 0,
				Buffer:  b.ring,
				Offset:  0,
				Size:    uint64(len(p.staging)),
			}},
		})
		if err != nil {
			p.release()
			return 0, fmt.Errorf("%s: create uniform bind group: %w", desc.Label, err)
		}
	}

	id := ProgramID(b.allocID())
	b.programs[id] = p
	return id, nil
}

// pipelineFor maps a program's depth and cull modes onto pipeline state for the surface targets.
func pipelineFor(desc ProgramDescriptor, format wgpu.TextureFormat, samples MSAASampleCount) pipeline.Pipeline {
	opts := []pipeline.PipelineBuilderOption{
		pipeline.WithColorFormat(format),
		pipeline.WithDepthFormat(depthFormat),
		pipeline.WithSampleCount(uint32(samples)),
	}
	if desc.Depth == DepthReadOnly {
		opts = append(opts, pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual), pipeline.WithDepthWriteEnabled(false))
	}
	if desc.Cull == CullBack {
		opts = append(opts, pipeline.WithCullMode(wgpu.CullModeBack))
	}
	return pipeline.NewPipeline(desc.Label, opts...)
}

// bindGroupProvider caches the bind groups of one group index of p, created against the
// layout compiled for that group.
func (b *wgpuBackend) bindGroupProvider(p *wgpuProgram, group int) bind_group_provider.BindGroupProvider[*wgpu.BindGroup] {
	return bind_group_provider.NewBindGroupProvider(p.label, group,
		func(label string, entries []wgpu.BindGroupEntry) (*wgpu.BindGroup, error) {
			return b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
				Label:   label,
				Layout:  p.layouts[group],
				Entries: entries,
			})
		},
		bind_group_provider.WithRelease(func(bg *wgpu.BindGroup) { bg.Release() }),
	)
}

func (p *wgpuProgram) release() {
	p.storageGroups.Release()
	p.textureGroups.Release()
	if p.uniformBindGroup != nil {
		p.uniformBindGroup.Release()
	}
	for _, l := range p.layouts {
		if l != nil {
			l.Release()
		}
	}
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}

func (b *wgpuBackend) ReleaseProgram(id ProgramID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if id == b.current {
		panic(fmt.Sprintf("renderer: release of program %d while in use", id))
	}
	p := b.mustProgram(id)
	p.release()
	delete(b.programs, id)
}

func (b *wgpuBackend) mustProgram(id ProgramID) *wgpuProgram {
	p, ok := b.programs[id]
	if !ok {
		panic(fmt.Sprintf("renderer: unknown program %d", id))
	}
	return p
}

func (b *wgpuBackend) UseProgram(id ProgramID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if id != 0 {
		b.mustProgram(id)
	}
	b.current = id
}

func (b *wgpuBackend) UniformLocation(id ProgramID, name string) (UniformLocation, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, ok := b.mustProgram(id).uniforms.Lookup(name)
	if !ok {
		return UniformLocation{}, false
	}
	return UniformLocation{Offset: f.Offset, Size: f.Size}, true
}

func (b *wgpuBackend) SetUniform(id ProgramID, loc UniformLocation, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.mustProgram(id)
	if uint32(len(data)) > loc.Size || int(loc.Offset)+len(data) > len(p.staging) {
		panic(fmt.Sprintf("renderer: %d byte uniform write does not fit location %+v of %s", len(data), loc, p.label))
	}
	copy(p.staging[loc.Offset:], data)
}

func (b *wgpuBackend) CreateStorageBuffer(label string, size uint64) (BufferID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if size == 0 {
		return 0, fmt.Errorf("storage buffer %q: size must be greater than zero", label)
	}
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  roundUp(size, 4),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("storage buffer %q: %w", label, err)
	}
	id := BufferID(b.allocID())
	b.buffers[id] = &wgpuBuffer{buf: buf, size: size}
	return id, nil
}

func (b *wgpuBackend) WriteBuffer(id BufferID, offset uint64, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := b.mustBuffer(id)
	if offset+uint64(len(data)) > buf.size {
		panic(fmt.Sprintf("renderer: write of %d bytes at %d overflows buffer %d (%d bytes)", len(data), offset, id, buf.size))
	}
	b.queue.WriteBuffer(buf.buf, offset, data)
}

func (b *wgpuBackend) mustBuffer(id BufferID) *wgpuBuffer {
	buf, ok := b.buffers[id]
	if !ok {
		panic(fmt.Sprintf("renderer: unknown buffer %d", id))
	}
	return buf
}

func (b *wgpuBackend) BufferSize(id BufferID) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.mustBuffer(id).size
}

func (b *wgpuBackend) ReleaseBuffer(id BufferID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := b.mustBuffer(id)
	for slot, bound := range b.storageSlots {
		if bound == id {
			delete(b.storageSlots, slot)
		}
	}
	for _, p := range b.programs {
		p.storageGroups.Evict(uint32(id))
	}
	buf.buf.Release()
	delete(b.buffers, id)
}

func (b *wgpuBackend) BindStorageBuffer(id BufferID, slot uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mustBuffer(id)
	b.storageSlots[slot] = id
}

func (b *wgpuBackend) CreateTexture(label string, data common.TextureStagingData) (TextureID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	size := wgpu.Extent3D{Width: data.Width, Height: data.Height, DepthOrArrayLayers: 1}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return 0, fmt.Errorf("texture %q: %w", label, err)
	}
	b.writeLayer(tex, 0, data)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return 0, fmt.Errorf("texture %q view: %w", label, err)
	}
	sampler, err := b.createSampler(label, wgpu.AddressModeRepeat)
	if err != nil {
		view.Release()
		tex.Release()
		return 0, err
	}

	id := TextureID(b.allocID())
	b.textures[id] = &wgpuTexture{tex: tex, view: view, sampler: sampler}
	return id, nil
}

func (b *wgpuBackend) CreateCubemap(label string, data common.CubemapStagingData) (TextureID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	edge, err := data.Size()
	if err != nil {
		return 0, fmt.Errorf("cubemap %q: %w", label, err)
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          wgpu.Extent3D{Width: edge, Height: edge, DepthOrArrayLayers: 6},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return 0, fmt.Errorf("cubemap %q: %w", label, err)
	}
	for i, face := range data.Faces {
		b.writeLayer(tex, uint32(i), face)
	}

	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           label + " view",
		Format:          wgpu.TextureFormatRGBA8UnormSrgb,
		Dimension:       wgpu.TextureViewDimensionCube,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 6,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		tex.Release()
		return 0, fmt.Errorf("cubemap %q view: %w", label, err)
	}
	sampler, err := b.createSampler(label, wgpu.AddressModeClampToEdge)
	if err != nil {
		view.Release()
		tex.Release()
		return 0, err
	}

	id := TextureID(b.allocID())
	b.textures[id] = &wgpuTexture{tex: tex, view: view, sampler: sampler}
	return id, nil
}

func (b *wgpuBackend) writeLayer(tex *wgpu.Texture, layer uint32, data common.TextureStagingData) {
	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{Z: layer},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{Width: data.Width, Height: data.Height, DepthOrArrayLayers: 1},
	)
}

func (b *wgpuBackend) createSampler(label string, address wgpu.AddressMode) (*wgpu.Sampler, error) {
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " sampler",
		AddressModeU:  address,
		AddressModeV:  address,
		AddressModeW:  address,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("sampler for %q: %w", label, err)
	}
	return samp, nil
}

func (b *wgpuBackend) BindTexture(id TextureID, unit uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mustTexture(id)
	b.textureUnits[unit] = id
}

func (b *wgpuBackend) mustTexture(id TextureID) *wgpuTexture {
	t, ok := b.textures[id]
	if !ok {
		panic(fmt.Sprintf("renderer: unknown texture %d", id))
	}
	return t
}

func (b *wgpuBackend) ReleaseTexture(id TextureID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.mustTexture(id)
	for unit, bound := range b.textureUnits {
		if bound == id {
			delete(b.textureUnits, unit)
		}
	}
	for _, p := range b.programs {
		p.textureGroups.Evict(uint32(id))
	}
	t.sampler.Release()
	t.view.Release()
	t.tex.Release()
	delete(b.textures, id)
}

func (b *wgpuBackend) CreateMesh(label string, vertices []byte, indices []uint32) (MeshID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertices) == 0 || len(indices) == 0 {
		return 0, fmt.Errorf("mesh %q: vertices and indices must not be empty", label)
	}
	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Vertex Buffer",
		Size:  roundUp(uint64(len(vertices)), 4),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("mesh %q vertex buffer: %w", label, err)
	}
	b.queue.WriteBuffer(vb, 0, vertices)

	indexBytes := common.Uint32sToBytes(indices)
	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Index Buffer",
		Size:  uint64(len(indexBytes)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return 0, fmt.Errorf("mesh %q index buffer: %w", label, err)
	}
	b.queue.WriteBuffer(ib, 0, indexBytes)

	id := MeshID(b.allocID())
	b.meshes[id] = &wgpuMesh{vertex: vb, index: ib, indexCount: uint32(len(indices))}
	return id, nil
}

func (b *wgpuBackend) ReleaseMesh(id MeshID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.meshes[id]
	if !ok {
		panic(fmt.Sprintf("renderer: unknown mesh %d", id))
	}
	m.vertex.Release()
	m.index.Release()
	delete(b.meshes, id)
}

func (b *wgpuBackend) Draw(mesh MeshID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == 0 {
		panic("renderer: draw with no program in use")
	}
	if b.framePass == nil {
		panic("renderer: draw outside BeginFrame/EndFrame")
	}
	m, ok := b.meshes[mesh]
	if !ok {
		panic(fmt.Sprintf("renderer: unknown mesh %d", mesh))
	}
	p := b.programs[b.current]

	b.framePass.SetPipeline(p.pipeline.RenderPipeline())

	if p.uniformBindGroup != nil {
		if b.ringOffset+uint64(len(p.staging)) > b.ringSize {
			panic(fmt.Sprintf("renderer: uniform ring of %d bytes exhausted this frame", b.ringSize))
		}
		b.queue.WriteBuffer(b.ring, b.ringOffset, p.staging)
		b.framePass.SetBindGroup(uniformGroup, p.uniformBindGroup, []uint32{uint32(b.ringOffset)})
		b.ringOffset = roundUp(b.ringOffset+uint64(len(p.staging)), uniformAlignment)
	}
	if len(p.storageSlots) > 0 {
		b.framePass.SetBindGroup(storageGroup, b.storageBindGroup(p), nil)
	}
	if len(p.textureUnits) > 0 {
		b.framePass.SetBindGroup(textureGroup, b.textureBindGroup(p), nil)
	}

	b.framePass.SetVertexBuffer(0, m.vertex, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(m.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(m.indexCount, 1, 0, 0, 0)
}

func (b *wgpuBackend) storageBindGroup(p *wgpuProgram) *wgpu.BindGroup {
	ids := make([]uint32, len(p.storageSlots))
	entries := make([]wgpu.BindGroupEntry, len(p.storageSlots))
	for i, slot := range p.storageSlots {
		id, ok := b.storageSlots[slot]
		if !ok {
			panic(fmt.Sprintf("renderer: %s reads storage slot %d but no buffer is bound", p.label, slot))
		}
		ids[i] = uint32(id)
		entries[i] = wgpu.BindGroupEntry{Binding: slot, Buffer: b.buffers[id].buf, Offset: 0, Size: wgpu.WholeSize}
	}
	return mustBindGroup(p.storageGroups, ids, entries)
}

func (b *wgpuBackend) textureBindGroup(p *wgpuProgram) *wgpu.BindGroup {
	ids := make([]uint32, len(p.textureUnits))
	entries := make([]wgpu.BindGroupEntry, 0, 2*len(p.textureUnits))
	for i, unit := range p.textureUnits {
		id, ok := b.textureUnits[unit]
		if !ok {
			panic(fmt.Sprintf("renderer: %s samples texture unit %d but no texture is bound", p.label, unit))
		}
		ids[i] = uint32(id)
		t := b.textures[id]
		entries = append(entries,
			wgpu.BindGroupEntry{Binding: 2 * unit, TextureView: t.view},
			wgpu.BindGroupEntry{Binding: 2*unit + 1, Sampler: t.sampler},
		)
	}
	return mustBindGroup(p.textureGroups, ids, entries)
}

func mustBindGroup(provider bind_group_provider.BindGroupProvider[*wgpu.BindGroup], ids []uint32, entries []wgpu.BindGroupEntry) *wgpu.BindGroup {
	bg, err := provider.BindGroup(ids, entries)
	if err != nil {
		panic(fmt.Sprintf("renderer: %v", err))
	}
	return bg
}

func (b *wgpuBackend) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}

	b.frameEncoder = encoder
	b.framePass = encoder.BeginRenderPass(b.renderPassDescriptor)
	b.frameSurface = surfaceTexture
	b.frameView = view
	b.ringOffset = 0
	return nil
}

func (b *wgpuBackend) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err == nil {
		b.queue.Submit(commandBuffer)
		commandBuffer.Release()
		b.surface.Present()
	} else {
		log.Printf("[Renderer] frame dropped: %v", err)
	}

	b.frameView.Release()
	b.frameView = nil
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, p := range b.programs {
		p.release()
		delete(b.programs, id)
	}
	for id, buf := range b.buffers {
		buf.buf.Release()
		delete(b.buffers, id)
	}
	for id, t := range b.textures {
		t.sampler.Release()
		t.view.Release()
		t.tex.Release()
		delete(b.textures, id)
	}
	for id, m := range b.meshes {
		m.vertex.Release()
		m.index.Release()
		delete(b.meshes, id)
	}
	if b.ring != nil {
		b.ring.Release()
	}
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
	}
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.surface.Release()
	b.instance.Release()
}

func roundUp(value, alignment uint64) uint64 {
	return (value + alignment - 1) / alignment * alignment
}

// mergeBindGroupLayouts combines the per-stage layouts of a program. A binding declared by
// both stages keeps one entry with the union of their visibility.
func mergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)
	for _, stage := range []map[int]wgpu.BindGroupLayoutDescriptor{vertexLayouts, fragmentLayouts} {
		for g, desc := range stage {
			entries := slices.Clone(merged[g].Entries)
			for _, e := range desc.Entries {
				i := slices.IndexFunc(entries, func(x wgpu.BindGroupLayoutEntry) bool { return x.Binding == e.Binding })
				if i >= 0 {
					entries[i].Visibility |= e.Visibility
				} else {
					entries = append(entries, e)
				}
			}
			sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })
			merged[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
		}
	}
	return merged
}

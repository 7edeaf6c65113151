package renderer

import (
	"cmp"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sort"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-quad/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Bindings of the quad bind group (group 0).
const (
	uniformBinding = 0
	textureBinding = 1
	samplerBinding = 2
)

type wgpuRendererBackendImpl struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	presentMode   wgpu.PresentMode
	// width and height of the current surface configuration, 0 until configured
	width, height int

	renderPipeline *wgpu.RenderPipeline
	pipelineLayout *wgpu.PipelineLayout
	// quad holds the uniform buffer, texture, sampler and bind group plus the vertex and index buffers
	quad bind_group_provider.BindGroupProvider

	// Frame state between BeginFrame and Present
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// wgpuDrawSurface presents the swapchain image acquired by BeginFrame.
type wgpuDrawSurface struct {
	backend *wgpuRendererBackendImpl
}

func (s *wgpuDrawSurface) Present() error {
	return s.backend.present()
}

func newWGPURendererBackend(win window.Window, forceFallbackAdapter bool) (*wgpuRendererBackendImpl, error) {
	if win == nil || win.SurfaceDescriptor() == nil {
		return nil, &ResourceError{Resource: "surface", Err: ErrNotInitialized}
	}

	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		quad:        bind_group_provider.NewBindGroupProvider("Quad"),
	}
	b.surface = b.instance.CreateSurface(win.SurfaceDescriptor())

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, &ResourceError{Resource: "adapter", Err: err}
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Quad Device",
	})
	if err != nil {
		b.Release()
		return nil, &ResourceError{Resource: "device", Err: err}
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		b.Release()
		return nil, &ResourceError{Resource: "surface", Err: errors.New("adapter reports no compatible surface format")}
	}
	b.surfaceFormat = linearSurfaceFormat(capabilities.Formats)
	b.alphaMode = capabilities.AlphaModes[0]

	log.Printf("[Renderer] WebGPU device ready (fallback adapter: %t, surface format: %v)", forceFallbackAdapter, b.surfaceFormat)

	b.configureSurface(win.Width(), win.Height())
	return b, nil
}

// configureSurface (re)configures the swapchain. Zero sizes are skipped; a minimized window
// reports 0x0 and the surface keeps its previous configuration.
func (b *wgpuRendererBackendImpl) configureSurface(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   b.alphaMode,
	})
	b.width, b.height = width, height
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
	if b.width > 0 && b.height > 0 {
		b.configureSurface(b.width, b.height)
	}
}

func (b *wgpuRendererBackendImpl) RegisterPipeline(p pipeline.Pipeline) error {
	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return &PipelineError{Pipeline: p.PipelineKey(), Stage: "create", Log: "both vertex and fragment shaders must be set"}
	}
	if p.Language() != shader.LanguageWGSL {
		return &PipelineError{Pipeline: p.PipelineKey(), Stage: "create", Log: fmt.Sprintf("the WebGPU backend needs WGSL shaders, got %s", p.Language())}
	}

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return &PipelineError{Pipeline: p.PipelineKey(), Stage: "compile", Log: err.Error()}
	}
	defer vs.Release()
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return &PipelineError{Pipeline: p.PipelineKey(), Stage: "compile", Log: err.Error()}
	}
	defer fs.Release()

	merged := mergeBindGroupLayouts(vertexShader.BindGroupLayoutDescriptors(), fragmentShader.BindGroupLayoutDescriptors())
	desc, ok := merged[0]
	if !ok || len(merged) != 1 {
		return &PipelineError{Pipeline: p.PipelineKey(), Stage: "create", Log: fmt.Sprintf("quad shaders must declare exactly one bind group at group 0, found %d", len(merged))}
	}
	bindGroupLayout, err := b.device.CreateBindGroupLayout(&desc)
	if err != nil {
		return &PipelineError{Pipeline: p.PipelineKey(), Stage: "create", Log: fmt.Sprintf("bind group layout: %v", err)}
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	if err != nil {
		bindGroupLayout.Release()
		return &PipelineError{Pipeline: p.PipelineKey(), Stage: "create", Log: err.Error()}
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexShader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    b.surfaceFormat,
					Blend:     p.BlendState(),
					WriteMask: p.WriteMask(),
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		pipelineLayout.Release()
		bindGroupLayout.Release()
		return &PipelineError{Pipeline: p.PipelineKey(), Stage: "link", Log: err.Error()}
	}

	b.releasePipeline()
	b.renderPipeline = created
	b.pipelineLayout = pipelineLayout
	b.quad.SetBindGroupLayout(bindGroupLayout)
	p.SetPipeline(created)

	// the previous bind group went with the previous layout
	if b.quad.TextureView(textureBinding) != nil && b.quad.Sampler(samplerBinding) != nil && b.quad.Buffer(uniformBinding) != nil {
		return b.createBindGroup()
	}
	return nil
}

func (b *wgpuRendererBackendImpl) InitQuadBuffers(indices []uint32, vertexBufferSize int) error {
	if len(indices) == 0 || vertexBufferSize <= 0 {
		return &ResourceError{Resource: "quad buffers", Err: fmt.Errorf("%d indices, vertex buffer of %d bytes", len(indices), vertexBufferSize)}
	}

	vertexBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            b.quad.Label() + " Vertex Buffer",
		Size:             uint64(vertexBufferSize),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return &ResourceError{Resource: "vertex buffer", Err: err}
	}
	b.quad.SetVertexBuffer(vertexBuffer)

	indexData := common.SliceToBytes(indices)
	indexBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            b.quad.Label() + " Index Buffer",
		Size:             uint64(len(indexData)),
		Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return &ResourceError{Resource: "index buffer", Err: err}
	}
	b.queue.WriteBuffer(indexBuffer, 0, indexData)
	b.quad.SetIndexBuffer(indexBuffer, len(indices))

	uniformBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: b.quad.Label() + " Uniform Buffer",
		Size:  QuadUniformsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return &ResourceError{Resource: "uniform buffer", Err: err}
	}
	b.quad.SetBuffer(uniformBinding, uniformBuffer)

	return nil
}

func (b *wgpuRendererBackendImpl) LoadTexture(stagingData common.TextureStagingData, samplerStagingData common.SamplerStagingData) error {
	if b.quad.BindGroupLayout() == nil || b.quad.Buffer(uniformBinding) == nil {
		return ErrNotInitialized
	}
	b.quad.ReleaseTexture(textureBinding, samplerBinding)

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     b.quad.Label() + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              stagingData.Width,
			Height:             stagingData.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return &ResourceError{Resource: "texture", Err: err}
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  stagingData.Width * 4,
			RowsPerImage: stagingData.Height,
		},
		&wgpu.Extent3D{
			Width:              stagingData.Width,
			Height:             stagingData.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return &ResourceError{Resource: "texture view", Err: err}
	}
	b.quad.SetTexture(textureBinding, tex, view)

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         b.quad.Label() + " Sampler",
		AddressModeU:  cmp.Or(samplerStagingData.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  cmp.Or(samplerStagingData.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  cmp.Or(samplerStagingData.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     cmp.Or(samplerStagingData.MagFilter, wgpu.FilterModeNearest),
		MinFilter:     cmp.Or(samplerStagingData.MinFilter, wgpu.FilterModeNearest),
		MipmapFilter:  cmp.Or(samplerStagingData.MipmapFilter, wgpu.MipmapFilterModeNearest),
		LodMinClamp:   cmp.Or(samplerStagingData.LodMinClamp, 0.0),
		LodMaxClamp:   cmp.Or(samplerStagingData.LodMaxClamp, 1.0),
		MaxAnisotropy: cmp.Or(samplerStagingData.MaxAnisotropy, 1),
	})
	if err != nil {
		return &ResourceError{Resource: "sampler", Err: err}
	}
	b.quad.SetSampler(samplerBinding, samp)

	return b.createBindGroup()
}

// createBindGroup binds the uniform buffer and the loaded texture against the current layout.
func (b *wgpuRendererBackendImpl) createBindGroup() error {
	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  b.quad.Label() + " Bind Group",
		Layout: b.quad.BindGroupLayout(),
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: uniformBinding,
				Buffer:  b.quad.Buffer(uniformBinding),
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
			{
				Binding:     textureBinding,
				TextureView: b.quad.TextureView(textureBinding),
			},
			{
				Binding: samplerBinding,
				Sampler: b.quad.Sampler(samplerBinding),
			},
		},
	})
	if err != nil {
		return &ResourceError{Resource: "bind group", Err: err}
	}
	b.quad.SetBindGroup(bindGroup)
	return nil
}

func (b *wgpuRendererBackendImpl) BeginFrame(width, height int, clear common.Color) error {
	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}
	if width != b.width || height != b.height {
		b.configureSurface(width, height)
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		// outdated or lost swapchain: reconfigure so the next frame can acquire a texture
		b.configureSurface(width, height)
		return &SurfaceError{Err: err, Transient: true}
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

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(clear.R),
					G: float64(clear.G),
					B: float64(clear.B),
					A: float64(clear.A),
				},
			},
		},
	})

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) DrawQuads(vertexData []byte, uniforms QuadUniforms, indexCount int) error {
	if b.framePass == nil || b.renderPipeline == nil || b.quad.VertexBuffer() == nil {
		return ErrNotInitialized
	}
	if b.quad.BindGroup() == nil {
		return ErrTextureNotLoaded
	}
	if len(vertexData) == 0 || indexCount == 0 {
		return nil
	}

	b.queue.WriteBuffer(b.quad.VertexBuffer(), 0, vertexData)
	b.queue.WriteBuffer(b.quad.Buffer(uniformBinding), 0, common.StructToBytes(&uniforms))

	b.framePass.SetPipeline(b.renderPipeline)
	b.framePass.SetBindGroup(0, b.quad.BindGroup(), nil)
	b.framePass.SetVertexBuffer(0, b.quad.VertexBuffer(), 0, uint64(len(vertexData)))
	b.framePass.SetIndexBuffer(b.quad.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(indexCount), 1, 0, 0, 0)

	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() error {
	if b.framePass == nil {
		return ErrNotInitialized
	}
	b.framePass.End()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		return err
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	return nil
}

func (b *wgpuRendererBackendImpl) Surface() DrawSurface {
	return &wgpuDrawSurface{backend: b}
}

// present presents the acquired swapchain image and releases the frame's references.
func (b *wgpuRendererBackendImpl) present() error {
	if b.frameSurface == nil {
		return nil
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil

	return nil
}

func (b *wgpuRendererBackendImpl) releasePipeline() {
	if b.renderPipeline != nil {
		b.renderPipeline.Release()
		b.renderPipeline = nil
	}
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
		b.pipelineLayout = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
	b.quad.Release()
	b.releasePipeline()
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// linearSurfaceFormat picks the first surface format without sRGB encoding so blending and
// output match the OpenGL backend, which renders to a linear RGBA8 framebuffer. It falls back to
// the adapter's preferred format when every format is sRGB.
func linearSurfaceFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, format := range formats {
		switch format {
		case wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatBGRA8UnormSrgb:
			continue
		}
		return format
	}
	return formats[0]
}

// mergeBindGroupLayouts merges the bind group layout descriptors from a vertex and fragment shader
// into a unified set of descriptors suitable for a render pipeline layout.
//
// For each group index present in either shader:
//   - Entries with the same binding number have their Visibility flags ORed together
//   - Entries unique to one shader are included with their original visibility
//
// Parameters:
//   - vertexLayouts: bind group layout descriptors from the vertex shader
//   - fragmentLayouts: bind group layout descriptors from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
func mergeBindGroupLayouts(
	vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor,
) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)

	for g, vDesc := range vertexLayouts {
		fDesc, hasF := fragmentLayouts[g]
		if !hasF {
			merged[g] = vDesc
			continue
		}

		entryMap := make(map[uint32]wgpu.BindGroupLayoutEntry)
		for _, e := range vDesc.Entries {
			entryMap[e.Binding] = e
		}
		for _, e := range fDesc.Entries {
			if existing, ok := entryMap[e.Binding]; ok {
				existing.Visibility |= e.Visibility
				entryMap[e.Binding] = existing
			} else {
				entryMap[e.Binding] = e
			}
		}

		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
		for _, e := range entryMap {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})

		merged[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   vDesc.Label,
			Entries: entries,
		}
	}
	for g, fDesc := range fragmentLayouts {
		if _, hasV := vertexLayouts[g]; !hasV {
			merged[g] = fDesc
		}
	}

	return merged
}

package wgpugfx

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/spotlight/gfx"
	"github.com/gekko3d/spotlight/gfx/wgpugfx/shaders"
)

var (
	ErrNoFrame        = errors.New("draw outside of a frame")
	ErrUnboundProgram = errors.New("draw without a program")
	ErrUnboundBuffer  = errors.New("draw without a required buffer")
	ErrUnknownProgram = errors.New("unknown program")
)

var programSources = map[string]string{
	"basic": shaders.BasicWGSL,
}

// uniform slots per chunk; a chunk covers this many draws per frame
const drawsPerChunk = 256

// Device implements gfx.FrameDevice on top of a WebGPU surface.
type Device struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig wgpu.SurfaceConfiguration

	ClearColor wgpu.Color

	library *gfx.ProgramLibrary
	scope   *gfx.Scope

	bindGroupLayout *wgpu.BindGroupLayout
	pipelineLayout  *wgpu.PipelineLayout
	pipelines       map[string]*wgpu.RenderPipeline

	uniforms   *ring
	bindGroups []*wgpu.BindGroup
	backings   []*backing

	program      *gfx.Program
	vertexBuffer *gfx.VertexBuffer
	indexBuffer  *gfx.IndexBuffer

	// per frame
	texture *wgpu.Texture
	view    *wgpu.TextureView
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
	errs    []error
}

var _ gfx.FrameDevice = (*Device)(nil)

// backing is the GPU side of a gfx buffer: the slot of its latest upload.
type backing struct {
	ring    *ring
	current ringSlot
	size    uint64
	ready   bool
}

// NewDevice requests an adapter and device for win and configures its
// surface. The window must outlive the device.
func NewDevice(win *Window) (*Device, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	surface := instance.CreateSurface(win.SurfaceDescriptor())
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		surface.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Spotlight Device",
	})
	if err != nil {
		adapter.Release()
		surface.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}

	width, height := win.FramebufferSize()
	caps := surface.GetCapabilities(adapter)
	d := &Device{
		surface: surface,
		adapter: adapter,
		device:  device,
		queue:   device.GetQueue(),
		surfaceConfig: wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      caps.Formats[0],
			Width:       uint32(width),
			Height:      uint32(height),
			PresentMode: wgpu.PresentModeFifo,
			AlphaMode:   caps.AlphaModes[0],
		},
		ClearColor: wgpu.Color{R: 0.08, G: 0.08, B: 0.1, A: 1},
		scope:      gfx.NewScope(),
		pipelines:  make(map[string]*wgpu.RenderPipeline),
	}
	surface.Configure(adapter, device, &d.surfaceConfig)
	d.library = gfx.NewProgramLibrary(d.compile)

	if err := d.createLayouts(); err != nil {
		d.Release()
		return nil, err
	}
	d.uniforms = newRing(device, "DrawUniforms", wgpu.BufferUsageUniform, uniformAlignment, drawsPerChunk)
	return d, nil
}

func (d *Device) createLayouts() error {
	bgl, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "DrawUniformsBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   drawUniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("bind group layout: %w", err)
	}
	d.bindGroupLayout = bgl

	pl, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "DrawPipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return fmt.Errorf("pipeline layout: %w", err)
	}
	d.pipelineLayout = pl
	return nil
}

func (d *Device) compile(name string, _ gfx.ProgramOptions) (any, error) {
	code, ok := programSources[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownProgram, name)
	}
	return d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
}

func (d *Device) ProgramLibrary() *gfx.ProgramLibrary { return d.library }
func (d *Device) Scope() *gfx.Scope                   { return d.scope }

func (d *Device) CreateVertexBuffer(format gfx.VertexFormat, numVertices int, usage gfx.BufferUsage) (*gfx.VertexBuffer, error) {
	size := alignUp(uint64(format.Stride*numVertices), 4)
	b := d.newBacking("VertexBuffer", wgpu.BufferUsageVertex, size, usage)
	vb, err := gfx.NewVertexBuffer(format, numVertices, usage, gfx.UploaderFunc(func(data []byte) {
		d.upload(b, data)
	}))
	if err != nil {
		return nil, err
	}
	vb.Backend = b
	return vb, nil
}

func (d *Device) CreateIndexBuffer(numIndices int) (*gfx.IndexBuffer, error) {
	size := alignUp(uint64(2*numIndices), 4)
	b := d.newBacking("IndexBuffer", wgpu.BufferUsageIndex, size, gfx.UsageStatic)
	ib, err := gfx.NewIndexBuffer(numIndices, gfx.UploaderFunc(func(data []byte) {
		d.upload(b, data)
	}))
	if err != nil {
		return nil, err
	}
	ib.Backend = b
	return ib, nil
}

func (d *Device) newBacking(label string, usage wgpu.BufferUsage, size uint64, hint gfx.BufferUsage) *backing {
	slots := 1
	if hint == gfx.UsageDynamic {
		slots = drawsPerChunk
	}
	b := &backing{
		ring: newRing(d.device, label, usage, size, slots),
		size: size,
	}
	d.backings = append(d.backings, b)
	return b
}

func (d *Device) upload(b *backing, data []byte) {
	slot, err := b.ring.acquire()
	if err != nil {
		d.errs = append(d.errs, err)
		return
	}
	if err := d.queue.WriteBuffer(slot.buffer, slot.offset, data); err != nil {
		d.errs = append(d.errs, fmt.Errorf("%s: write: %w", b.ring.label, err))
		return
	}
	b.current = slot
	b.ready = true
}

func (d *Device) SetProgram(p *gfx.Program)                   { d.program = p }
func (d *Device) SetVertexBuffer(vb *gfx.VertexBuffer, _ int) { d.vertexBuffer = vb }
func (d *Device) SetIndexBuffer(ib *gfx.IndexBuffer)          { d.indexBuffer = ib }

// Draw records the call into the current render pass. Failures are collected
// and reported by EndFrame.
func (d *Device) Draw(call gfx.DrawCall) {
	if err := d.draw(call); err != nil {
		d.errs = append(d.errs, err)
	}
}

func (d *Device) draw(call gfx.DrawCall) error {
	if d.pass == nil {
		return ErrNoFrame
	}
	if d.program == nil {
		return ErrUnboundProgram
	}
	vb, ok := backingOf(d.vertexBuffer)
	if !ok {
		return fmt.Errorf("%w: vertex", ErrUnboundBuffer)
	}

	pipeline, err := d.pipeline(d.program, call.Type, d.vertexBuffer.Format())
	if err != nil {
		return err
	}

	uniforms, err := d.uniforms.acquire()
	if err != nil {
		return err
	}
	if err := d.queue.WriteBuffer(uniforms.buffer, uniforms.offset, packDrawUniforms(d.scope.Snapshot())); err != nil {
		return fmt.Errorf("uniforms: %w", err)
	}
	bg, err := d.bindGroup(uniforms)
	if err != nil {
		return err
	}

	d.pass.SetPipeline(pipeline)
	d.pass.SetBindGroup(0, bg, []uint32{uint32(uniforms.offset)})
	d.pass.SetVertexBuffer(0, vb.current.buffer, vb.current.offset, vb.size)

	if !call.Indexed {
		d.pass.Draw(uint32(call.Count), 1, uint32(call.Base), 0)
		return nil
	}
	var ib *backing
	if d.indexBuffer != nil {
		ib, ok = d.indexBuffer.Backend.(*backing)
	}
	if ib == nil || !ok || !ib.ready {
		return fmt.Errorf("%w: index", ErrUnboundBuffer)
	}
	d.pass.SetIndexBuffer(ib.current.buffer, wgpu.IndexFormatUint16, ib.current.offset, ib.size)
	d.pass.DrawIndexed(uint32(call.Count), 1, uint32(call.Base), 0, 0)
	return nil
}

func backingOf(vb *gfx.VertexBuffer) (*backing, bool) {
	if vb == nil {
		return nil, false
	}
	b, ok := vb.Backend.(*backing)
	if !ok || !b.ready {
		return nil, false
	}
	return b, true
}

func (d *Device) bindGroup(slot ringSlot) (*wgpu.BindGroup, error) {
	for len(d.bindGroups) <= slot.chunk {
		bg, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("DrawUniformsBG#%d", len(d.bindGroups)),
			Layout: d.bindGroupLayout,
			Entries: []wgpu.BindGroupEntry{
				{
					Binding: 0,
					Buffer:  d.uniforms.chunks[len(d.bindGroups)],
					Size:    drawUniformSize,
				},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("uniform bind group: %w", err)
		}
		d.bindGroups = append(d.bindGroups, bg)
	}
	return d.bindGroups[slot.chunk], nil
}

func (d *Device) pipeline(p *gfx.Program, prim gfx.PrimType, format gfx.VertexFormat) (*wgpu.RenderPipeline, error) {
	key := fmt.Sprintf("%s|%s|%d", p.Key(), prim, format.Stride)
	if rp, ok := d.pipelines[key]; ok {
		return rp, nil
	}

	module, ok := p.Handle.(*wgpu.ShaderModule)
	if !ok {
		return nil, fmt.Errorf("program %s was not compiled by this device", p.Name)
	}
	top, err := topology(prim)
	if err != nil {
		return nil, err
	}
	layout, err := vertexLayout(format)
	if err != nil {
		return nil, err
	}

	rp, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  key,
		Layout: d.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{layout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    d.surfaceConfig.Format,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  top,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", key, err)
	}
	d.pipelines[key] = rp
	return rp, nil
}

// BeginFrame acquires the next surface texture and opens the render pass.
func (d *Device) BeginFrame() error {
	if d.pass != nil {
		return errors.New("previous frame not ended")
	}

	texture, err := d.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return err
	}
	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		texture.Release()
		return err
	}

	d.texture, d.view, d.encoder = texture, view, encoder
	d.pass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: d.ClearColor,
			},
		},
	})
	return nil
}

// EndFrame submits and presents the frame, then returns everything that went
// wrong since BeginFrame.
func (d *Device) EndFrame() error {
	if d.pass == nil {
		return ErrNoFrame
	}
	d.pass.End()
	d.pass = nil

	cb, err := d.encoder.Finish(nil)
	if err != nil {
		d.errs = append(d.errs, fmt.Errorf("finish: %w", err))
	} else {
		d.queue.Submit(cb)
		cb.Release()
		d.surface.Present()
	}

	d.encoder.Release()
	d.view.Release()
	d.texture.Release()
	d.encoder, d.view, d.texture = nil, nil, nil

	d.uniforms.reset()
	for _, b := range d.backings {
		b.ring.reset()
	}

	err = errors.Join(d.errs...)
	d.errs = nil
	return err
}

// Resize reconfigures the surface for a new framebuffer size.
func (d *Device) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	d.surfaceConfig.Width = uint32(width)
	d.surfaceConfig.Height = uint32(height)
	d.surface.Configure(d.adapter, d.device, &d.surfaceConfig)
	return nil
}

func (d *Device) Release() {
	for _, bg := range d.bindGroups {
		bg.Release()
	}
	d.bindGroups = nil
	for _, rp := range d.pipelines {
		rp.Release()
	}
	d.pipelines = map[string]*wgpu.RenderPipeline{}
	for _, b := range d.backings {
		b.ring.release()
	}
	d.backings = nil
	if d.uniforms != nil {
		d.uniforms.release()
	}
	if d.pipelineLayout != nil {
		d.pipelineLayout.Release()
	}
	if d.bindGroupLayout != nil {
		d.bindGroupLayout.Release()
	}
	if d.device != nil {
		d.device.Release()
	}
	if d.adapter != nil {
		d.adapter.Release()
	}
	if d.surface != nil {
		d.surface.Release()
	}
}

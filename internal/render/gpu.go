package render

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/oxidekit/oxidekit-core/internal/logging"
	"github.com/oxidekit/oxidekit-core/internal/textsys"
)

// vertex is one corner of a quad pushed to the GPU, matching the
// uniform layout the frame shader expects: clip-space position, a
// 0..1 UV into the glyph atlas (unused for solid rects), and a
// straight-alpha RGBA tint.
type vertex struct {
	Position [2]float32
	UV       [2]float32
	Color    [4]float32
}

// GPU owns the wgpu device/queue/surface triple and the single render
// pipeline every frame's draw list is submitted through. One GPU is
// created per window.
type GPU struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface
	pipeline *wgpu.RenderPipeline

	bindGroupLayout *wgpu.BindGroupLayout
	sampler         *wgpu.Sampler

	atlasTexture *wgpu.Texture
	atlasView    *wgpu.TextureView
	atlasGroup   *wgpu.BindGroup
	atlasW       int
	atlasH       int

	width, height uint32
	scale         float64
}

// SurfaceDescriptor carries the native window handles wgpu needs to
// create a Surface; the app package fills this in from glfw's native
// window accessors, which vary per platform.
type SurfaceDescriptor struct {
	// Exactly one of these is set depending on GOOS, mirroring the
	// glfw.Window native-handle accessors (GetWin32Window,
	// GetCocoaWindow, GetX11Window/GetX11Display, GetWaylandWindow/
	// GetWaylandDisplay).
	Win32HWND      uintptr
	CocoaNSWindow  uintptr
	X11Window      uintptr
	X11Display     uintptr
	WaylandSurface uintptr
	WaylandDisplay uintptr
}

// NewGPU initialises a wgpu instance, requests an adapter/device for
// the given surface, and builds the single render pipeline used for
// every frame (a textured-quad pipeline: solid-color rects sample the
// atlas's reserved white swatch, glyphs sample the textsys atlas, both paths unified
// behind one pipeline to avoid per-draw-call state changes).
//
// width/height are the surface's physical pixel dimensions; scale is
// the device pixel ratio (physical ÷ logical) the app package computed
// from the window's framebuffer-to-window-size ratio. Every draw
// command's geometry arrives in logical pixels (layout's native unit,
// per §4.3) and is scaled up uniformly right before the clip-space
// conversion (§4.4 step 1's "convert logical → physical" boundary),
// rather than threading a scale factor through the layout engine
// itself.
func NewGPU(desc SurfaceDescriptor, width, height uint32, scale float64) (*GPU, error) {
	instance := wgpu.CreateInstance(nil)

	surface := instance.CreateSurface(surfaceSourceFor(desc))
	if surface == nil {
		return nil, fmt.Errorf("render: failed to create wgpu surface")
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("render: requesting adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "oxidekit-device"})
	if err != nil {
		return nil, fmt.Errorf("render: requesting device: %w", err)
	}

	if scale <= 0 {
		scale = 1
	}
	g := &GPU{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
		surface:  surface,
		width:    width,
		height:   height,
		scale:    scale,
	}

	if err := g.configureSurface(width, height); err != nil {
		return nil, err
	}
	if err := g.buildPipeline(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GPU) configureSurface(width, height uint32) error {
	caps := g.surface.GetCapabilities(g.adapter)
	format := wgpu.TextureFormatBGRA8UnormSrgb
	if len(caps.Formats) > 0 {
		format = caps.Formats[0]
	}
	g.surface.Configure(g.adapter, g.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       width,
		Height:      height,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   wgpu.CompositeAlphaModeAuto,
	})
	g.width, g.height = width, height
	return nil
}

// Resize reconfigures the surface after a window resize, per §4.9's
// resize-handling requirement, and records the window's current device
// pixel ratio for the next frame's logical-to-physical scaling.
func (g *GPU) Resize(width, height uint32, scale float64) error {
	if width == 0 || height == 0 {
		return nil
	}
	if scale > 0 {
		g.scale = scale
	}
	return g.configureSurface(width, height)
}

func (g *GPU) buildPipeline() error {
	shader, err := g.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "frame-shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: frameShaderWGSL},
	})
	if err != nil {
		return fmt.Errorf("render: compiling shader: %w", err)
	}
	defer shader.Release()

	bindGroupLayout, err := g.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "frame-bind-group-layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture:    wgpu.TextureBindingLayout{SampleType: wgpu.TextureSampleTypeFloat, ViewDimension: wgpu.TextureViewDimension2D},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("render: building bind group layout: %w", err)
	}
	g.bindGroupLayout = bindGroupLayout

	sampler, err := g.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "atlas-sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("render: building sampler: %w", err)
	}
	g.sampler = sampler

	pipelineLayout, err := g.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "frame-pipeline-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("render: building pipeline layout: %w", err)
	}

	pipeline, err := g.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "frame-pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(vertexStride),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    wgpu.TextureFormatBGRA8UnormSrgb,
					Blend:     &wgpu.BlendStateNormal,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			CullMode:  wgpu.CullModeNone,
			FrontFace: wgpu.FrontFaceCCW,
		},
		Multisample: wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return fmt.Errorf("render: building pipeline: %w", err)
	}
	g.pipeline = pipeline
	return nil
}

const vertexStride = 4*2 + 4*2 + 4*4 // position + uv + rgba, all float32

// ensureAtlas uploads atlas's current pixels to the GPU, recreating the
// backing texture only when the atlas has grown since the last upload.
// Called once per frame before drawing any DrawText command — simpler
// than tracking per-glyph dirty regions, and the atlas is small and
// append-only within a session.
func (g *GPU) ensureAtlas(atlas *textsys.Atlas) error {
	if atlas == nil {
		return nil
	}
	if g.atlasTexture == nil || atlas.Width != g.atlasW || atlas.Height != g.atlasH {
		if g.atlasTexture != nil {
			g.atlasTexture.Release()
		}
		texture, err := g.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "glyph-atlas",
			Size:          wgpu.Extent3D{Width: uint32(atlas.Width), Height: uint32(atlas.Height), DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     wgpu.TextureDimension2D,
			Format:        wgpu.TextureFormatRGBA8Unorm,
			Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("render: creating atlas texture: %w", err)
		}
		view, err := texture.CreateView(nil)
		if err != nil {
			return fmt.Errorf("render: creating atlas view: %w", err)
		}
		group, err := g.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "frame-bind-group",
			Layout: g.bindGroupLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, TextureView: view},
				{Binding: 1, Sampler: g.sampler},
			},
		})
		if err != nil {
			return fmt.Errorf("render: creating atlas bind group: %w", err)
		}
		g.atlasTexture, g.atlasView, g.atlasGroup = texture, view, group
		g.atlasW, g.atlasH = atlas.Width, atlas.Height
	}

	g.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: g.atlasTexture},
		atlas.Pixels.Pix,
		&wgpu.TextureDataLayout{BytesPerRow: uint32(atlas.Pixels.Stride), RowsPerImage: uint32(atlas.Height)},
		&wgpu.Extent3D{Width: uint32(atlas.Width), Height: uint32(atlas.Height), DepthOrArrayLayers: 1},
	)
	return nil
}

// surfaceSourceFor picks whichever native-handle wgpu.SurfaceSource
// variant matches the platform fields the caller populated in desc.
func surfaceSourceFor(desc SurfaceDescriptor) wgpu.SurfaceSource {
	switch {
	case desc.Win32HWND != 0:
		return wgpu.SurfaceSourceWindowsHWND{Hwnd: desc.Win32HWND}
	case desc.CocoaNSWindow != 0:
		return wgpu.SurfaceSourceMetalLayer{Layer: desc.CocoaNSWindow}
	case desc.WaylandSurface != 0:
		return wgpu.SurfaceSourceWaylandSurface{Surface: desc.WaylandSurface, Display: desc.WaylandDisplay}
	default:
		return wgpu.SurfaceSourceXlibWindow{Window: uint64(desc.X11Window), Display: desc.X11Display}
	}
}

// frameShaderWGSL is the single shader every draw command is rendered
// through: a textured quad, vertex color modulating the sampled texel
// (white for solid rects, the glyph atlas's alpha mask for text).
const frameShaderWGSL = `
struct VertexOut {
  @builtin(position) position: vec4<f32>,
  @location(0) uv: vec2<f32>,
  @location(1) color: vec4<f32>,
}

@vertex
fn vs_main(
  @location(0) position: vec2<f32>,
  @location(1) uv: vec2<f32>,
  @location(2) color: vec4<f32>,
) -> VertexOut {
  var out: VertexOut;
  out.position = vec4<f32>(position, 0.0, 1.0);
  out.uv = uv;
  out.color = color;
  return out;
}

@group(0) @binding(0) var atlasTexture: texture_2d<f32>;
@group(0) @binding(1) var atlasSampler: sampler;

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
  let texel = textureSample(atlasTexture, atlasSampler, in.uv);
  return in.color * texel;
}
`

// scissorRect is a pixel-space clip rectangle, clamped to the surface.
type scissorRect struct{ x, y, w, h uint32 }

func (r scissorRect) intersect(o scissorRect) scissorRect {
	x0, y0 := max(r.x, o.x), max(r.y, o.y)
	x1, y1 := min(r.x+r.w, o.x+o.w), min(r.y+r.h, o.y+o.h)
	if x1 < x0 || y1 < y0 {
		return scissorRect{x: x0, y: y0}
	}
	return scissorRect{x: x0, y: y0, w: x1 - x0, h: y1 - y0}
}

// SubmitFrame converts a Frame's draw list into one or more screen-space
// quad batches and renders them in a single render pass, matching §4.4's
// "one GPU submission per frame" requirement — a DrawClipPush/Pop pair
// only forces a new draw call (to change the scissor rect), not a new
// pass or submission.
func (g *GPU) SubmitFrame(frame *Frame) error {
	if hasText(frame) {
		if err := g.ensureAtlas(frame.Atlas); err != nil {
			return err
		}
	}

	surfaceTexture, err := g.surface.GetCurrentTexture()
	if err != nil {
		// A lost or outdated surface is reconfigured at its current size
		// and this frame is skipped; the next frame acquires a fresh texture.
		if cerr := g.configureSurface(g.width, g.height); cerr != nil {
			return fmt.Errorf("render: acquiring surface texture: %w (reconfigure failed: %v)", err, cerr)
		}
		return fmt.Errorf("render: acquiring surface texture (surface reconfigured, frame skipped): %w", err)
	}
	view, err := surfaceTexture.Texture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("render: creating surface view: %w", err)
	}
	defer view.Release()

	encoder, err := g.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "frame-encoder"})
	if err != nil {
		return fmt.Errorf("render: creating command encoder: %w", err)
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	pass.SetPipeline(g.pipeline)
	if g.atlasGroup != nil {
		pass.SetBindGroup(0, g.atlasGroup, nil)
	}

	full := scissorRect{x: 0, y: 0, w: g.width, h: g.height}
	clipStack := []scissorRect{full}
	pass.SetScissorRect(full.x, full.y, full.w, full.h)

	var batch []vertex
	flush := func() {
		if len(batch) == 0 {
			return
		}
		vbuf, err := g.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "frame-vertices",
			Contents: wgpu.ToBytes(batch),
			Usage:    wgpu.BufferUsageVertex,
		})
		if err != nil {
			logging.Category(logging.CategoryWarn).Errorf("render: uploading vertex batch: %v", err)
			batch = batch[:0]
			return
		}
		pass.SetVertexBuffer(0, vbuf, 0, wgpu.WholeSize)
		pass.Draw(uint32(len(batch)), 1, 0, 0)
		vbuf.Release()
		batch = batch[:0]
	}

	for _, cmd := range frame.Commands {
		switch cmd.Kind {
		case DrawRect:
			u, v := whiteUV(g.atlasW, g.atlasH)
			batch = append(batch, quadVertices(cmd.X, cmd.Y, cmd.Width, cmd.Height, g.width, g.height, g.scale, u, v, u, v, cmd.Background)...)
		case DrawText:
			batch = append(batch, textVertices(cmd, g.width, g.height, g.scale, g.atlasW, g.atlasH)...)
		case DrawClipPush:
			flush()
			next := clipStack[len(clipStack)-1].intersect(pixelRect(cmd, g.width, g.height, g.scale))
			clipStack = append(clipStack, next)
			pass.SetScissorRect(next.x, next.y, next.w, next.h)
		case DrawClipPop:
			flush()
			if len(clipStack) > 1 {
				clipStack = clipStack[:len(clipStack)-1]
			}
			top := clipStack[len(clipStack)-1]
			pass.SetScissorRect(top.x, top.y, top.w, top.h)
		}
	}
	flush()
	pass.End()

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("render: finishing command buffer: %w", err)
	}
	g.queue.Submit(cmdBuffer)
	g.surface.Present()
	return nil
}

func hasText(frame *Frame) bool {
	for _, cmd := range frame.Commands {
		if cmd.Kind == DrawText {
			return true
		}
	}
	return false
}

func pixelRect(cmd DrawCommand, surfaceW, surfaceH uint32, scale float64) scissorRect {
	x, y := clampNonNegative(cmd.X*scale), clampNonNegative(cmd.Y*scale)
	w, h := clampNonNegative(cmd.Width*scale), clampNonNegative(cmd.Height*scale)
	r := scissorRect{x: uint32(x), y: uint32(y), w: uint32(w), h: uint32(h)}
	return r.intersect(scissorRect{x: 0, y: 0, w: surfaceW, h: surfaceH})
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// whiteUV returns the UV coordinate a solid-fill quad samples, a single
// point inside the atlas's reserved opaque-white swatch so the one
// textured pipeline can draw both rects and glyphs.
func whiteUV(atlasW, atlasH int) (u, v float64) {
	return textsys.WhiteTexelUV(atlasW, atlasH)
}

// quadVertices builds two triangles for the screen-space rect
// (x,y,w,h), with UV interpolated across the quad from (u0,v0) at the
// top-left corner to (u1,v1) at the bottom-right.
func quadVertices(x, y, w, h float64, surfaceW, surfaceH uint32, scale float64, u0, v0, u1, v1 float64, color [4]uint8) []vertex {
	x0, y0 := toClip(x*scale, y*scale, surfaceW, surfaceH)
	x1, y1 := toClip((x+w)*scale, (y+h)*scale, surfaceW, surfaceH)
	c := [4]float32{float32(color[0]) / 255, float32(color[1]) / 255, float32(color[2]) / 255, float32(color[3]) / 255}
	uv0 := [2]float32{float32(u0), float32(v0)}
	uv1 := [2]float32{float32(u1), float32(v0)}
	uv2 := [2]float32{float32(u1), float32(v1)}
	uv3 := [2]float32{float32(u0), float32(v1)}
	return []vertex{
		{Position: [2]float32{x0, y0}, UV: uv0, Color: c},
		{Position: [2]float32{x1, y0}, UV: uv1, Color: c},
		{Position: [2]float32{x1, y1}, UV: uv2, Color: c},
		{Position: [2]float32{x0, y0}, UV: uv0, Color: c},
		{Position: [2]float32{x1, y1}, UV: uv2, Color: c},
		{Position: [2]float32{x0, y1}, UV: uv3, Color: c},
	}
}

func textVertices(cmd DrawCommand, surfaceW, surfaceH uint32, scale float64, atlasW, atlasH int) []vertex {
	if cmd.Shape == nil {
		return nil
	}
	var verts []vertex
	for _, g := range cmd.Shape.Glyphs {
		gx, gy := cmd.X+g.X, cmd.Y+g.Y
		u0, v0, u1, v1 := g.UVRect(atlasW, atlasH)
		verts = append(verts, quadVertices(gx, gy, g.Width, g.Height, surfaceW, surfaceH, scale, u0, v0, u1, v1, cmd.TextFill)...)
	}
	return verts
}

func toClip(x, y float64, surfaceW, surfaceH uint32) (float32, float32) {
	cx := float32(x)/float32(surfaceW)*2 - 1
	cy := 1 - float32(y)/float32(surfaceH)*2
	return cx, cy
}

// Release tears down the GPU's wgpu resources.
func (g *GPU) Release() {
	if g.pipeline != nil {
		g.pipeline.Release()
	}
	if g.surface != nil {
		g.surface.Unconfigure()
	}
	if g.device != nil {
		g.device.Release()
	}
}

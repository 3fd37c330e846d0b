package goopdraw

import (
	"structs"
	"unsafe"

	"honnef.co/go/safeish"
	"honnef.co/go/wgpu"

	"github.com/goopgame/goopdraw/atlas"
	"github.com/goopgame/goopdraw/board"
	"github.com/goopgame/goopdraw/gmath"
	"github.com/goopgame/goopdraw/grid"
	"github.com/goopgame/goopdraw/mouse"
)

// RendererOptions configure a [Renderer].
type RendererOptions struct {
	// SurfaceFormat is the texture format of the surface Draw targets.
	SurfaceFormat wgpu.TextureFormat

	// DebugBounds makes the identifier pipeline paint out-of-range atlas
	// indexes in the sentinel color instead of discarding them. Debug
	// only; sentinel pixels decode as garbage picks.
	DebugBounds bool
}

// An AtlasPipeline is a render pipeline running the atlas programs over
// quads with per-vertex graph positions and atlas coordinates.
type AtlasPipeline struct {
	BindLayout *wgpu.BindGroupLayout
	Pipeline   *wgpu.RenderPipeline
}

// vertexBuffers is the two-buffer vertex layout shared by the atlas
// pipelines: positions in slot 0, atlas coordinates in slot 1, matching
// the quad and uv slices the Drawer builds.
func vertexBuffers() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: 8,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: 8,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},
			},
		},
	}
}

func uniformBindLayout(dev *wgpu.Device, label string) *wgpu.BindGroupLayout {
	return dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: &wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
		},
	})
}

// NewAtlasPipeline builds an atlas pipeline rendering to format with the
// given out-of-range policy. blended selects alpha blending, wanted for
// the visible variant so discarded fragments show the background, and
// wrong for the identifier variant whose colors are a wire format.
func NewAtlasPipeline(dev *wgpu.Device, format wgpu.TextureFormat, policy atlas.Policy, blended bool) *AtlasPipeline {
	shader := dev.CreateShaderModule(wgpu.ShaderModuleDescriptor{
		Label:  "atlas shaders",
		Source: wgpu.ShaderSourceWGSL(atlas.ShaderSource),
	})
	bindLayout := uniformBindLayout(dev, "atlas bind group layout")
	pipelineLayout := dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "atlas pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindLayout},
	})

	target := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	if blended {
		target.Blend = &wgpu.BlendState{
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
		}
	}

	pipeline := dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "atlas pipeline",
		Layout: pipelineLayout,
		Vertex: &wgpu.VertexState{
			Module:     shader,
			EntryPoint: atlas.VertexEntry,
			Buffers:    vertexBuffers(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: atlas.FragmentEntry(policy),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: &wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: &wgpu.MultisampleState{
			Count:                  1,
			Mask:                   ^uint32(0),
			AlphaToCoverageEnabled: false,
		},
	})
	return &AtlasPipeline{BindLayout: bindLayout, Pipeline: pipeline}
}

// lineUniforms is the uniform block of the line pipeline.
type lineUniforms struct {
	_ structs.HostLayout

	Transform gmath.GPUMatrix
	Color     [4]float32
}

const lineShaderSource = `
struct LineUniforms {
	// graph space -> clip space
	transform: mat3x3<f32>,
	color: vec4<f32>,
}

@group(0) @binding(0)
var<uniform> u: LineUniforms;

@vertex
fn vs_line(@location(0) point: vec2<f32>) -> @builtin(position) vec4<f32> {
	let pos = u.transform * vec3(point, 1.0);
	return vec4(pos.xy, 0.0, 1.0);
}

@fragment
fn fs_line() -> @location(0) vec4<f32> {
	return u.color;
}
`

// A LinePipeline draws graph-space line lists in a single uniform color:
// the map boundary, outflow markers and the mouse highlight.
type LinePipeline struct {
	BindLayout *wgpu.BindGroupLayout
	Pipeline   *wgpu.RenderPipeline
}

func NewLinePipeline(dev *wgpu.Device, format wgpu.TextureFormat) *LinePipeline {
	shader := dev.CreateShaderModule(wgpu.ShaderModuleDescriptor{
		Label:  "line shaders",
		Source: wgpu.ShaderSourceWGSL(lineShaderSource),
	})
	bindLayout := uniformBindLayout(dev, "line bind group layout")
	pipelineLayout := dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "line pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindLayout},
	})
	pipeline := dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "line pipeline",
		Layout: pipelineLayout,
		Vertex: &wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_line",
			Buffers:    vertexBuffers()[:1],
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_line",
			Targets: []wgpu.ColorTargetState{
				{
					Format: format,
					Blend: &wgpu.BlendState{
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
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: &wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyLineList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: &wgpu.MultisampleState{
			Count:                  1,
			Mask:                   ^uint32(0),
			AlphaToCoverageEnabled: false,
		},
	})
	return &LinePipeline{BindLayout: bindLayout, Pipeline: pipeline}
}

// A Renderer draws board states onto wgpu surfaces and answers picks from
// an off-screen identifier target. It owns all GPU state that persists
// between frames: the pipelines, the map's static vertex and index
// buffers, and the per-frame buffers rewritten on each draw.
type Renderer struct {
	opts   RendererOptions
	drawer *Drawer

	viz   *AtlasPipeline
	ids   *AtlasPipeline
	lines *LinePipeline

	// Static map geometry.
	squareVerts   *wgpu.Buffer
	squareIndices *wgpu.Buffer
	idUV          *wgpu.Buffer
	boundaryVerts *wgpu.Buffer
	boundaryIdx   *wgpu.Buffer

	// Rewritten per frame.
	goopUV       *wgpu.Buffer
	outflowVerts *wgpu.Buffer
	mouseVerts   *wgpu.Buffer

	vizUniforms      *wgpu.Buffer
	idUniforms       *wgpu.Buffer
	boundaryUniforms *wgpu.Buffer
	outflowUniforms  *wgpu.Buffer
	mouseUniforms    *wgpu.Buffer

	vizBind      *wgpu.BindGroup
	idBind       *wgpu.BindGroup
	boundaryBind *wgpu.BindGroup
	outflowBind  *wgpu.BindGroup
	mouseBind    *wgpu.BindGroup

	// Scratch reused across frames.
	goopScratch    []uvVertex
	outflowScratch []graphVertex

	pick *pickReader
}

// NewRenderer builds a renderer for m. The static geometry is uploaded
// once, here; everything else is written per frame.
func NewRenderer(dev *wgpu.Device, queue *wgpu.Queue, m *board.Map, opts RendererOptions) (*Renderer, error) {
	drawer, err := NewDrawer(m)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		opts:   opts,
		drawer: drawer,
		viz:    NewAtlasPipeline(dev, opts.SurfaceFormat, atlas.Discard, true),
		ids:    NewAtlasPipeline(dev, wgpu.TextureFormatRGBA8Unorm, idParams(opts.DebugBounds).OutOfRange, false),
		lines:  NewLinePipeline(dev, opts.SurfaceFormat),
	}

	newBuf := func(label string, usage wgpu.BufferUsage, size int) *wgpu.Buffer {
		return dev.CreateBuffer(&wgpu.BufferDescriptor{
			Label: label,
			Size:  uint64(size),
			Usage: usage | wgpu.BufferUsageCopyDst,
		})
	}
	upload := func(label string, usage wgpu.BufferUsage, data []byte) *wgpu.Buffer {
		buf := newBuf(label, usage, len(data))
		queue.WriteBuffer(buf, 0, data)
		return buf
	}

	r.squareVerts = upload("goop squares", wgpu.BufferUsageVertex, safeish.SliceCast[[]byte](drawer.squares))
	r.squareIndices = upload("goop square indices", wgpu.BufferUsageIndex, safeish.SliceCast[[]byte](drawer.squareIndices))
	r.idUV = upload("identifier uvs", wgpu.BufferUsageVertex, safeish.SliceCast[[]byte](drawer.idUVs))
	r.boundaryVerts = upload("boundary endpoints", wgpu.BufferUsageVertex, safeish.SliceCast[[]byte](drawer.endpoints))
	r.boundaryIdx = upload("boundary indices", wgpu.BufferUsageIndex, safeish.SliceCast[[]byte](drawer.lineIndices))

	graph := m.Graph
	r.goopUV = newBuf("goop uvs", wgpu.BufferUsageVertex, len(drawer.squares)*8)
	// Two directed outflows per undirected edge, two vertices each.
	r.outflowVerts = newBuf("outflow lines", wgpu.BufferUsageVertex, graph.Edges()*4*8)
	r.mouseVerts = newBuf("mouse line", wgpu.BufferUsageVertex, 2*8)

	uniform := func(label string) *wgpu.Buffer {
		return newBuf(label, wgpu.BufferUsageUniform, int(unsafe.Sizeof(lineUniforms{})))
	}
	r.vizUniforms = newBuf("visible atlas uniforms", wgpu.BufferUsageUniform, int(unsafe.Sizeof(atlas.Uniforms{})))
	r.idUniforms = newBuf("identifier atlas uniforms", wgpu.BufferUsageUniform, int(unsafe.Sizeof(atlas.Uniforms{})))
	r.boundaryUniforms = uniform("boundary line uniforms")
	r.outflowUniforms = uniform("outflow line uniforms")
	r.mouseUniforms = uniform("mouse line uniforms")

	bind := func(layout *wgpu.BindGroupLayout, buf *wgpu.Buffer) *wgpu.BindGroup {
		return dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout: layout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: buf, Size: ^uint64(0)},
			},
		})
	}
	r.vizBind = bind(r.viz.BindLayout, r.vizUniforms)
	r.idBind = bind(r.ids.BindLayout, r.idUniforms)
	r.boundaryBind = bind(r.lines.BindLayout, r.boundaryUniforms)
	r.outflowBind = bind(r.lines.BindLayout, r.outflowUniforms)
	r.mouseBind = bind(r.lines.BindLayout, r.mouseUniforms)

	return r, nil
}

// Drawer returns the renderer's geometry builder.
func (r *Renderer) Drawer() *Drawer { return r.drawer }

func writeUniform[T any](queue *wgpu.Queue, buf *wgpu.Buffer, v T) {
	queue.WriteBuffer(buf, 0, safeish.AsBytes(&v))
}

// Draw renders state and the mouse highlight to target, a width×height
// view in the renderer's surface format. It returns this frame's
// window-to-graph transform for the mouse handling.
func (r *Renderer) Draw(dev *wgpu.Device, queue *wgpu.Queue, target *wgpu.TextureView, width, height int, state *board.State, disp mouse.Display) gmath.Matrix {
	t := GraphToDevice(r.drawer.m, width, height)

	r.goopScratch = r.drawer.goopUVs(state.Nodes, r.goopScratch[:0])
	queue.WriteBuffer(r.goopUV, 0, safeish.SliceCast[[]byte](r.goopScratch))

	r.outflowScratch = r.drawer.outflowVertices(state.Nodes, r.outflowScratch[:0])
	queue.WriteBuffer(r.outflowVerts, 0, safeish.SliceCast[[]byte](r.outflowScratch))

	mouseSeg, mouseColor, mouseOK := r.drawer.mouseVertices(disp)
	if mouseOK {
		queue.WriteBuffer(r.mouseVerts, 0, safeish.SliceCast[[]byte](mouseSeg[:]))
	}

	writeUniform(queue, r.vizUniforms, atlas.NewUniforms(t, vizParams()))
	writeUniform(queue, r.boundaryUniforms, lineUniforms{Transform: t.GPU(), Color: boundaryColor})
	writeUniform(queue, r.outflowUniforms, lineUniforms{Transform: t.GPU(), Color: outflowColor})
	if mouseOK {
		writeUniform(queue, r.mouseUniforms, lineUniforms{Transform: t.GPU(), Color: mouseColor})
	}

	encoder := dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "board frame"})
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:   target,
				LoadOp: wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(backgroundColor[0]),
					G: float64(backgroundColor[1]),
					B: float64(backgroundColor[2]),
					A: float64(backgroundColor[3]),
				},
			},
		},
	})
	defer pass.Release()

	pass.SetPipeline(r.viz.Pipeline)
	pass.SetBindGroup(0, r.vizBind, nil)
	pass.SetVertexBuffer(0, r.squareVerts, 0, ^uint64(0))
	pass.SetVertexBuffer(1, r.goopUV, 0, ^uint64(0))
	pass.SetIndexBuffer(r.squareIndices, wgpu.IndexFormatUint32, 0, ^uint64(0))
	pass.DrawIndexed(uint32(len(r.drawer.squareIndices)), 1, 0, 0, 0)

	pass.SetPipeline(r.lines.Pipeline)
	pass.SetBindGroup(0, r.boundaryBind, nil)
	pass.SetVertexBuffer(0, r.boundaryVerts, 0, ^uint64(0))
	pass.SetIndexBuffer(r.boundaryIdx, wgpu.IndexFormatUint32, 0, ^uint64(0))
	pass.DrawIndexed(uint32(len(r.drawer.lineIndices)), 1, 0, 0, 0)

	if len(r.outflowScratch) > 0 {
		pass.SetBindGroup(0, r.outflowBind, nil)
		pass.SetVertexBuffer(0, r.outflowVerts, 0, ^uint64(0))
		pass.Draw(uint32(len(r.outflowScratch)), 1, 0, 0)
	}
	if mouseOK {
		pass.SetBindGroup(0, r.mouseBind, nil)
		pass.SetVertexBuffer(0, r.mouseVerts, 0, ^uint64(0))
		pass.Draw(2, 1, 0, 0)
	}
	pass.End()

	cmd := encoder.Finish(nil)
	defer cmd.Release()
	queue.Submit(cmd)

	return WindowToGraph(r.drawer.m, width, height)
}

// Pick renders the identifier variant into the off-screen target and
// decodes the pixel under window coordinates (x, y). It blocks until the
// GPU work for that frame has completed; issue at most one call per
// frame.
func (r *Renderer) Pick(dev *wgpu.Device, queue *wgpu.Queue, x, y, width, height int) (grid.Node, bool, error) {
	if r.pick == nil || r.pick.width != width || r.pick.height != height {
		Logger().Debug("allocating pick target", "width", width, "height", height)
		r.pick = newPickReader(dev, width, height)
	}

	t := GraphToDevice(r.drawer.m, width, height)
	writeUniform(queue, r.idUniforms, atlas.NewUniforms(t, idParams(r.opts.DebugBounds)))

	pixel, err := r.pick.read(dev, queue, x, y, func(pass *wgpu.RenderPassEncoder) {
		pass.SetPipeline(r.ids.Pipeline)
		pass.SetBindGroup(0, r.idBind, nil)
		pass.SetVertexBuffer(0, r.squareVerts, 0, ^uint64(0))
		pass.SetVertexBuffer(1, r.idUV, 0, ^uint64(0))
		pass.SetIndexBuffer(r.squareIndices, wgpu.IndexFormatUint32, 0, ^uint64(0))
		pass.DrawIndexed(uint32(len(r.drawer.squareIndices)), 1, 0, 0, 0)
	})
	if err != nil {
		return grid.NoNode, false, err
	}

	index, ok := atlas.DecodeRGBA8(pixel)
	if !ok || int(index) >= r.drawer.m.Graph.Nodes() {
		return grid.NoNode, false, nil
	}
	return grid.Node(index), true, nil
}

package goopdraw

import (
	"image"
	"math"

	"github.com/goopgame/goopdraw/atlas"
	"github.com/goopgame/goopdraw/board"
	"github.com/goopgame/goopdraw/gmath"
	"github.com/goopgame/goopdraw/grid"
	"github.com/goopgame/goopdraw/mouse"
)

// A CPUFrame is an in-memory RGBA8 render target drawn by host-side
// implementations of the same programs the wgpu pipelines run. It exists
// so every stage, including picking, works without a GPU; it makes no
// attempt to be fast.
type CPUFrame struct {
	width, height int
	pix           []byte
}

// NewCPUFrame returns a cleared width×height frame.
func NewCPUFrame(width, height int) *CPUFrame {
	return &CPUFrame{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*4),
	}
}

func (f *CPUFrame) Width() int  { return f.width }
func (f *CPUFrame) Height() int { return f.height }

// Clear fills the frame with c. Identifier frames clear to zero so that
// untouched pixels have zero alpha and decode as no entity.
func (f *CPUFrame) Clear(c atlas.Color) {
	px := pack(c)
	for i := 0; i < len(f.pix); i += 4 {
		copy(f.pix[i:i+4], px[:])
	}
}

// Pixel returns the RGBA bytes at window coordinates (x, y). Out-of-frame
// coordinates read as zero.
func (f *CPUFrame) Pixel(x, y int) [4]byte {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return [4]byte{}
	}
	var p [4]byte
	copy(p[:], f.pix[(y*f.width+x)*4:])
	return p
}

// Pick decodes the identifier under window coordinates (x, y). The frame
// must have been drawn with the identifier variant; ok is false over
// background, circle edges and out-of-frame coordinates.
func (f *CPUFrame) Pick(x, y int) (index uint32, ok bool) {
	return atlas.DecodeRGBA8(f.Pixel(x, y))
}

// Image copies the frame into an image for encoding or inspection.
func (f *CPUFrame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	copy(img.Pix, f.pix)
	return img
}

func pack(c atlas.Color) [4]byte {
	b := func(v float32) byte {
		return byte(gmath.Clamp(math.Round(float64(v)*255), 0, 255))
	}
	return [4]byte{b(c[0]), b(c[1]), b(c[2]), b(c[3])}
}

// set writes c over the pixel, blending by c's alpha.
func (f *CPUFrame) set(x, y int, c atlas.Color) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	i := (y*f.width + x) * 4
	if c[3] >= 1 {
		px := pack(c)
		copy(f.pix[i:i+4], px[:])
		return
	}
	a := c[3]
	for ch := range 3 {
		old := float32(f.pix[i+ch]) / 255
		f.pix[i+ch] = pack(atlas.Color{c[ch]*a + old*(1-a)})[0]
	}
	olda := float32(f.pix[i+3]) / 255
	f.pix[i+3] = pack(atlas.Color{a + olda*(1-a)})[0]
}

// device converts a clip-space position to window pixel coordinates.
func (f *CPUFrame) device(pos [4]float32) (float32, float32) {
	return (pos[0] + 1) / 2 * float32(f.width), (1 - pos[1]) / 2 * float32(f.height)
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// drawAtlasTriangles rasterizes indexed triangles through the atlas
// programs: each vertex through the vertex stage, each covered pixel
// through the fragment stage with its barycentrically interpolated atlas
// coordinate. Every pixel is a pure function of its own inputs, same as
// on the GPU; discarded fragments leave the frame untouched.
func (f *CPUFrame) drawAtlasTriangles(transform gmath.Matrix, points []graphVertex, uvs []uvVertex, indices []uint32, p atlas.Params) {
	for i := 0; i+2 < len(indices); i += 3 {
		var px, py [3]float32
		var uv [3][2]float32
		for v := range 3 {
			vert := indices[i+v]
			pos, outUV := atlas.Vertex(transform, points[vert].Point, uvs[vert].UV)
			px[v], py[v] = f.device(pos)
			uv[v] = outUV
		}

		area := edge(px[0], py[0], px[1], py[1], px[2], py[2])
		if area == 0 {
			continue
		}

		minX := max(int(math.Floor(float64(min(px[0], px[1], px[2])))), 0)
		maxX := min(int(math.Ceil(float64(max(px[0], px[1], px[2])))), f.width-1)
		minY := max(int(math.Floor(float64(min(py[0], py[1], py[2])))), 0)
		maxY := min(int(math.Ceil(float64(max(py[0], py[1], py[2])))), f.height-1)

		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				sx, sy := float32(x)+0.5, float32(y)+0.5
				w0 := edge(px[1], py[1], px[2], py[2], sx, sy) / area
				w1 := edge(px[2], py[2], px[0], py[0], sx, sy) / area
				w2 := edge(px[0], py[0], px[1], py[1], sx, sy) / area
				if w0 < 0 || w1 < 0 || w2 < 0 {
					continue
				}
				sample := [2]float32{
					w0*uv[0][0] + w1*uv[1][0] + w2*uv[2][0],
					w0*uv[0][1] + w1*uv[1][1] + w2*uv[2][1],
				}
				if c, ok := atlas.Fragment(sample, p); ok {
					f.set(x, y, c)
				}
			}
		}
	}
}

// drawLine draws the transformed segment a..b in color c.
func (f *CPUFrame) drawLine(transform gmath.Matrix, a, b graphVertex, c atlas.Color) {
	pa, _ := atlas.Vertex(transform, a.Point, [2]float32{})
	pb, _ := atlas.Vertex(transform, b.Point, [2]float32{})
	ax, ay := f.device(pa)
	bx, by := f.device(pb)

	steps := int(math.Ceil(math.Max(math.Abs(float64(bx-ax)), math.Abs(float64(by-ay)))))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		f.set(int(ax+(bx-ax)*t), int(ay+(by-ay)*t), c)
	}
}

// drawLines draws consecutive vertex pairs as segments.
func (f *CPUFrame) drawLines(transform gmath.Matrix, verts []graphVertex, c atlas.Color) {
	for i := 0; i+1 < len(verts); i += 2 {
		f.drawLine(transform, verts[i], verts[i+1], c)
	}
}

// drawLinesIndexed draws consecutive index pairs as segments.
func (f *CPUFrame) drawLinesIndexed(transform gmath.Matrix, verts []graphVertex, indices []uint32, c atlas.Color) {
	for i := 0; i+1 < len(indices); i += 2 {
		f.drawLine(transform, verts[indices[i]], verts[indices[i+1]], c)
	}
}

// backgroundColor is the visible frame's clear color.
var backgroundColor = atlas.Color{1, 1, 1, 1}

// DrawCPU renders state and the mouse highlight into f with the host-side
// pipeline: goop circles, map boundary, outflows, mouse. It returns the
// window-to-graph transform for this frame, which the caller feeds mouse
// positions through.
func (d *Drawer) DrawCPU(f *CPUFrame, state *board.State, disp mouse.Display) gmath.Matrix {
	f.Clear(backgroundColor)
	t := GraphToDevice(d.m, f.width, f.height)

	uvs := d.goopUVs(state.Nodes, nil)
	f.drawAtlasTriangles(t, d.squares, uvs, d.squareIndices, vizParams())
	f.drawLinesIndexed(t, d.endpoints, d.lineIndices, boundaryColor)
	f.drawLines(t, d.outflowVertices(state.Nodes, nil), outflowColor)
	if seg, c, ok := d.mouseVertices(disp); ok {
		f.drawLines(t, seg[:], c)
	}

	return WindowToGraph(d.m, f.width, f.height)
}

// DrawIDsCPU renders the identifier variant into f: every node's quad
// aimed at its own circle slot, over a zero-alpha background, nothing
// else. A subsequent [CPUFrame.Pick] on a drawn pixel recovers the node.
func (d *Drawer) DrawIDsCPU(f *CPUFrame, debugBounds bool) {
	f.Clear(atlas.Color{})
	t := GraphToDevice(d.m, f.width, f.height)
	f.drawAtlasTriangles(t, d.squares, d.idUVs, d.squareIndices, idParams(debugBounds))
}

// PickNode picks the node under window coordinates (x, y) from an
// identifier frame drawn by [Drawer.DrawIDsCPU].
func (d *Drawer) PickNode(f *CPUFrame, x, y int) (grid.Node, bool) {
	index, ok := f.Pick(x, y)
	if !ok || int(index) >= d.m.Graph.Nodes() {
		return grid.NoNode, false
	}
	return grid.Node(index), true
}

package goopdraw

import (
	"fmt"
	"math"
	"structs"

	"github.com/lucasb-eyer/go-colorful"
	"honnef.co/go/curve"

	"github.com/goopgame/goopdraw/atlas"
	"github.com/goopgame/goopdraw/board"
	"github.com/goopgame/goopdraw/grid"
	"github.com/goopgame/goopdraw/mouse"
)

// Spacing is the circle slot spacing both atlas variants draw with. Goop
// circles grow up to √MaxGoop times the unit radius, so spacing slots
// MaxGoop apart keeps even the largest circle inside its own slot.
const Spacing = float32(board.MaxGoop)

// graphVertex is a vertex position in graph space.
type graphVertex struct {
	_ structs.HostLayout

	Point [2]float32
}

// uvVertex is a vertex's atlas coordinate.
type uvVertex struct {
	_ structs.HostLayout

	UV [2]float32
}

// Colors of the line geometry drawn over the goop circles.
var (
	boundaryColor = atlas.Color{0, 0, 0, 1}
	outflowColor  = atlas.Color{0.25, 0.25, 0.25, 1}
	hoverColor    = atlas.Color{0, 0, 0, 0.5}
	activeColor   = atlas.Color{0.94, 0.96, 0, 1}
)

// A Drawer turns a map and successive board states into the vertex data
// the atlas and line programs consume. The geometry that only depends on
// the map is built once; per-state data is rebuilt each frame into caller
// or renderer owned buffers.
//
// The quad for node i occupies vertices 4i..4i+4 of the square buffers,
// corners counterclockwise from the first quadrant, and indices 6i..6i+6
// of the index buffer.
type Drawer struct {
	m *board.Map

	// Map boundary lines: all segment endpoints, and pairs of indices
	// into them with shared interior edges culled.
	endpoints   []graphVertex
	lineIndices []uint32

	// One quad per node, side length 1.6 times the node radius.
	squares       []graphVertex
	squareIndices []uint32

	// Atlas coordinates aiming node i's quad at circle slot i. Static;
	// the identifier variant has no per-state sizing.
	idUVs []uvVertex

	// playerSlots[p] is the atlas slot whose encoded color approximates
	// player p's color.
	playerSlots []uint32
}

// NewDrawer builds the static geometry for m. It fails if the graph has
// more nodes than the atlas has circle slots, since nodes beyond that
// could not be told apart in a pick.
func NewDrawer(m *board.Map) (*Drawer, error) {
	graph := m.Graph
	n := graph.Nodes()
	if n > atlas.Slots {
		return nil, fmt.Errorf("graph has %d nodes, identifier atlas holds %d", n, atlas.Slots)
	}

	d := &Drawer{m: m}

	for _, p := range graph.Endpoints() {
		d.endpoints = append(d.endpoints, graphVertex{Point: [2]float32{float32(p.X), float32(p.Y)}})
	}
	for node := range n {
		for _, seg := range graph.Boundary(node) {
			// Interior boundary lines appear in two nodes' segment lists.
			// Keep the copy seen from the lower-numbered node.
			if seg.Neighbor == grid.NoNode || node < seg.Neighbor {
				d.lineIndices = append(d.lineIndices, uint32(seg.Start), uint32(seg.End))
			}
		}
	}

	// Don't take up the node's full area.
	radius := float32(graph.Radius()) * 0.8
	for node := range n {
		c := graph.Center(node)
		for _, p := range corners(float32(c.X), float32(c.Y), radius) {
			d.squares = append(d.squares, graphVertex{Point: p})
		}
		for _, p := range corners(float32(node)*Spacing, 0, 1) {
			d.idUVs = append(d.idUVs, uvVertex{UV: p})
		}
		base := uint32(node * 4)
		d.squareIndices = append(d.squareIndices,
			base, base+1, base+2,
			base+2, base+3, base)
	}

	seen := make(map[uint32]board.Player, len(m.PlayerColors))
	for p, c := range m.PlayerColors {
		slot := colorSlot(c)
		if prev, dup := seen[slot]; dup {
			Logger().Warn("player colors quantize to the same atlas slot",
				"player", p, "other", prev, "slot", slot)
		} else {
			seen[slot] = board.Player(p)
		}
		d.playerSlots = append(d.playerSlots, slot)
	}
	return d, nil
}

// Map returns the map this drawer was built for.
func (d *Drawer) Map() *board.Map { return d.m }

// PlayerSlot returns the atlas circle slot representing player p's color.
func (d *Drawer) PlayerSlot(p board.Player) uint32 {
	return d.playerSlots[p]
}

// colorSlot finds the circle slot whose encoded color is nearest to c:
// the top four bits of each 8-bit channel, packed in the codec's R, B, G
// field order.
func colorSlot(c colorful.Color) uint32 {
	r, g, b := c.RGB255()
	return uint32(r>>4)<<8 | uint32(b>>4)<<4 | uint32(g>>4)
}

// corners returns the corners of an axis-aligned square with the given
// center and half-extent, counterclockwise from the first quadrant. The
// order matches the index pattern built in NewDrawer.
func corners(cx, cy, r float32) [4][2]float32 {
	return [4][2]float32{
		{cx + r, cy + r},
		{cx - r, cy + r},
		{cx - r, cy - r},
		{cx + r, cy - r},
	}
}

// goopUVs appends to dst the atlas coordinates drawing each node's current
// goop amount: a circle of the owner's color, sized so its area is
// proportional to the amount. Circle radius in graph space is the quad
// radius divided by the uv half-extent, so more goop means a smaller
// half-extent.
//
// Nodes holding no goop point their quad wholly into the atlas's blank
// region, where both fragment variants discard everything.
func (d *Drawer) goopUVs(nodes []*board.Occupied, dst []uvVertex) []uvVertex {
	for _, occupied := range nodes {
		var cx, extent float32
		if occupied != nil && occupied.Goop > 0 {
			cx = float32(d.playerSlots[occupied.Player]) * Spacing
			extent = float32(math.Sqrt(board.MaxGoop / float64(occupied.Goop)))
		} else {
			cx = -2 * Spacing
			extent = 1
		}
		for _, p := range corners(cx, 0, extent) {
			dst = append(dst, uvVertex{UV: p})
		}
	}
	return dst
}

// outflowVertices appends to dst a line from the node center to the edge
// midpoint for every outflow in nodes.
func (d *Drawer) outflowVertices(nodes []*board.Occupied, dst []graphVertex) []graphVertex {
	for node, occupied := range nodes {
		if occupied == nil {
			continue
		}
		start := d.m.Graph.Center(node)
		for _, to := range occupied.Outflows {
			mid := midpoint(start, d.m.Graph.Center(to))
			dst = append(dst,
				graphVertex{Point: [2]float32{float32(start.X), float32(start.Y)}},
				graphVertex{Point: [2]float32{float32(mid.X), float32(mid.Y)}})
		}
	}
	return dst
}

// mouseVertices returns the line and color highlighting the outflow under
// the mouse, if any.
func (d *Drawer) mouseVertices(disp mouse.Display) (seg [2]graphVertex, c atlas.Color, ok bool) {
	if disp.Kind != mouse.DisplayOutflow {
		return seg, c, false
	}
	start := d.m.Graph.Center(disp.From)
	mid := midpoint(start, d.m.Graph.Center(disp.To))
	seg = [2]graphVertex{
		{Point: [2]float32{float32(start.X), float32(start.Y)}},
		{Point: [2]float32{float32(mid.X), float32(mid.Y)}},
	}
	if disp.Active {
		return seg, activeColor, true
	}
	return seg, hoverColor, true
}

func midpoint(a, b curve.Point) curve.Point {
	return curve.Pt((a.X+b.X)/2, (a.Y+b.Y)/2)
}

// vizParams are the per-draw atlas parameters of the visible variant;
// idParams the identifier variant's, with the out-of-range policy chosen
// by the renderer's options.
func vizParams() atlas.Params {
	return atlas.Params{Spacing: Spacing, IndexBase: 0, OutOfRange: atlas.Discard}
}

func idParams(debugBounds bool) atlas.Params {
	p := atlas.Params{Spacing: Spacing, IndexBase: 0, OutOfRange: atlas.Discard}
	if debugBounds {
		p.OutOfRange = atlas.Sentinel
	}
	return p
}

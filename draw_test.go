package goopdraw

import (
	"testing"

	"honnef.co/go/curve"

	"github.com/goopgame/goopdraw/atlas"
	"github.com/goopgame/goopdraw/board"
	"github.com/goopgame/goopdraw/grid"
	"github.com/goopgame/goopdraw/mouse"
)

func newTestBoard(t *testing.T) (*board.State, *Drawer) {
	t.Helper()
	state := board.NewState(board.Parameters{
		Rows:    2,
		Cols:    2,
		Sources: []grid.Node{0, 3},
	})
	d, err := NewDrawer(state.Map)
	if err != nil {
		t.Fatal(err)
	}
	return state, d
}

func TestPickRecoversNodes(t *testing.T) {
	state, d := newTestBoard(t)
	f := NewCPUFrame(200, 200)
	d.DrawIDsCPU(f, false)

	for node := range state.Map.Graph.Nodes() {
		x, y := windowOf(state.Map, 200, 200, state.Map.Graph.Center(node))
		got, ok := d.PickNode(f, x, y)
		if !ok {
			t.Errorf("pick at center of node %d found nothing", node)
			continue
		}
		if got != node {
			t.Errorf("pick at center of node %d = %d", node, got)
		}
	}
}

func TestPickMissesBetweenNodes(t *testing.T) {
	state, d := newTestBoard(t)
	f := NewCPUFrame(200, 200)
	d.DrawIDsCPU(f, false)

	// The node quads leave a margin around each cell; the shared corner of
	// all four cells is outside every circle.
	x, y := windowOf(state.Map, 200, 200, curve.Pt(1, 1))
	if got, ok := d.PickNode(f, x, y); ok {
		t.Errorf("pick on the cell corner found node %d", got)
	}

	// Off the board entirely.
	if _, ok := d.PickNode(f, 1, 1); ok {
		t.Error("pick in the letterbox margin found a node")
	}
	if _, ok := d.PickNode(f, -5, 10); ok {
		t.Error("out-of-frame pick found a node")
	}
}

func TestDrawShowsPlayerColor(t *testing.T) {
	state, d := newTestBoard(t)
	state.Advance() // sources now hold goop

	f := NewCPUFrame(200, 200)
	d.DrawCPU(f, state, mouse.Display{})

	for player, source := range state.Map.Sources {
		x, y := windowOf(state.Map, 200, 200, state.Map.Graph.Center(source))
		got := f.Pixel(x, y)
		want := pack(atlas.Encode(d.PlayerSlot(board.Player(player))))
		if got != want {
			t.Errorf("pixel at source %d = %v, want player %d's circle color %v", source, got, player, want)
		}
	}
}

func TestDrawEmptyNodeShowsBackground(t *testing.T) {
	state, d := newTestBoard(t)
	state.Advance()

	f := NewCPUFrame(200, 200)
	d.DrawCPU(f, state, mouse.Display{})

	// Nodes 1 and 2 are vacant; their quads aim at the blank atlas region
	// and every fragment is discarded.
	x, y := windowOf(state.Map, 200, 200, state.Map.Graph.Center(1))
	if got, want := f.Pixel(x, y), pack(backgroundColor); got != want {
		t.Errorf("pixel at vacant node = %v, want background %v", got, want)
	}
}

func TestVizAndPickAgree(t *testing.T) {
	state, d := newTestBoard(t)
	for range 5 {
		state.Advance()
	}

	viz := NewCPUFrame(160, 160)
	ids := NewCPUFrame(160, 160)
	d.DrawCPU(viz, state, mouse.Display{})
	d.DrawIDsCPU(ids, false)

	for _, source := range state.Map.Sources {
		x, y := windowOf(state.Map, 160, 160, state.Map.Graph.Center(source))

		node, ok := d.PickNode(ids, x, y)
		if !ok || node != source {
			t.Fatalf("pick at source %d = %d, %v", source, node, ok)
		}

		// The visible pixel decodes to the owner's color slot through the
		// same codec.
		slot, ok := atlas.DecodeRGBA8(viz.Pixel(x, y))
		if !ok {
			t.Fatalf("visible pixel at source %d does not decode", source)
		}
		if want := d.PlayerSlot(state.Nodes[node].Player); slot != want {
			t.Errorf("visible pixel at source %d decodes to slot %d, want %d", source, slot, want)
		}
	}
}

func TestMouseHighlightDrawn(t *testing.T) {
	state, d := newTestBoard(t)

	plain := NewCPUFrame(200, 200)
	hover := NewCPUFrame(200, 200)
	d.DrawCPU(plain, state, mouse.Display{})
	d.DrawCPU(hover, state, mouse.Display{
		Kind: mouse.DisplayOutflow,
		From: 0,
		To:   1,
	})

	diff := 0
	for i := range plain.pix {
		if plain.pix[i] != hover.pix[i] {
			diff++
		}
	}
	if diff == 0 {
		t.Error("hover display drew nothing")
	}
}

func TestSentinelPolicyMarksStrayGeometry(t *testing.T) {
	state, d := newTestBoard(t)

	// Force a quad past the last valid slot.
	bad := make([]uvVertex, len(d.idUVs))
	copy(bad, d.idUVs)
	for i := range 4 {
		bad[i].UV[0] += float32(atlas.Slots) * Spacing
	}
	saved := d.idUVs
	d.idUVs = bad
	defer func() { d.idUVs = saved }()

	f := NewCPUFrame(200, 200)
	d.DrawIDsCPU(f, true)

	x, y := windowOf(state.Map, 200, 200, state.Map.Graph.Center(0))
	if got, want := f.Pixel(x, y), pack(atlas.SentinelColor); got != want {
		t.Errorf("out-of-range pixel = %v, want sentinel %v", got, want)
	}

	// The same geometry under the production policy draws nothing.
	d.DrawIDsCPU(f, false)
	if _, ok := f.Pick(x, y); ok {
		t.Error("discard policy produced a pick from out-of-range geometry")
	}
}

func TestDrawerRejectsOversizedGraphs(t *testing.T) {
	g := grid.NewSquareGrid(65, 64) // 4160 nodes
	m := board.NewMap(g, []grid.Node{0}, board.Palette(1))
	if _, err := NewDrawer(m); err == nil {
		t.Error("drawer accepted a graph with more nodes than atlas slots")
	}
}

package goopdraw

import (
	"testing"

	"honnef.co/go/curve"

	"github.com/goopgame/goopdraw/board"
	"github.com/goopgame/goopdraw/grid"
)

func approx(t *testing.T, name string, got, want curve.Point) {
	t.Helper()
	const eps = 1e-5
	if dx, dy := got.X-want.X, got.Y-want.Y; dx*dx+dy*dy > eps*eps {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestViewTransform(t *testing.T) {
	view := curve.Rect{X0: 0, Y0: 0, X1: 4, Y1: 2}

	tests := []struct {
		name           string
		viewportAspect float32
		corner         curve.Point // where (4, 2) should land
	}{
		{"matching aspect", 2, curve.Pt(1, 1)},
		{"wider viewport", 4, curve.Pt(0.5, 1)},
		{"taller viewport", 1, curve.Pt(1, 0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ViewTransform(view, tt.viewportAspect)
			approx(t, "center", m.Apply(curve.Pt(2, 1)), curve.Pt(0, 0))
			approx(t, "upper right", m.Apply(curve.Pt(4, 2)), tt.corner)
			approx(t, "lower left", m.Apply(curve.Pt(0, 0)),
				curve.Pt(-tt.corner.X, -tt.corner.Y))
		})
	}
}

func TestViewTransformRoundTrip(t *testing.T) {
	view := curve.Rect{X0: -3, Y0: 2, X1: 5, Y1: 12}
	m := ViewTransform(view, 1.7)
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("view transform not invertible")
	}
	for _, p := range []curve.Point{
		curve.Pt(-3, 2), curve.Pt(5, 12), curve.Pt(1, 7), curve.Pt(0.25, 3.5),
	} {
		approx(t, "round trip", inv.Apply(m.Apply(p)), p)
	}
}

func TestViewTransformDegenerate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("zero-width view did not panic")
		}
	}()
	ViewTransform(curve.Rect{X0: 1, Y0: 0, X1: 1, Y1: 2}, 1)
}

// windowOf returns the window pixel under a graph-space point.
func windowOf(m *board.Map, width, height int, p curve.Point) (int, int) {
	d := GraphToDevice(m, width, height).Apply(p)
	return int((d.X + 1) / 2 * float64(width)), int((1 - d.Y) / 2 * float64(height))
}

func TestWindowToGraphInvertsGraphToDevice(t *testing.T) {
	g := grid.NewSquareGrid(3, 4)
	m := board.NewMap(g, []grid.Node{0}, board.Palette(1))

	for _, size := range [][2]int{{640, 480}, {480, 640}, {512, 512}} {
		w, h := size[0], size[1]
		toGraph := WindowToGraph(m, w, h)
		for node := range g.Nodes() {
			c := g.Center(node)
			x, y := windowOf(m, w, h, c)
			back := toGraph.Apply(curve.Pt(float64(x), float64(y)))
			// Within a pixel's footprint of the center.
			if dx, dy := back.X-c.X, back.Y-c.Y; dx*dx+dy*dy > 0.01 {
				t.Errorf("%dx%d: node %d center maps back to %v, want %v", w, h, node, back, c)
			}
		}
	}
}

func TestGraphToDeviceLetterboxes(t *testing.T) {
	g := grid.NewSquareGrid(1, 2) // game aspect 2
	m := board.NewMap(g, []grid.Node{0}, board.Palette(1))

	// In a square viewport a wide board must shrink vertically.
	d := GraphToDevice(m, 400, 400)
	ur := d.Apply(curve.Pt(2, 1))
	if ur.X <= 0.9 || ur.Y >= 0.5 {
		t.Errorf("upper right corner = %v, want x near 0.95 and y at 0.475", ur)
	}
}

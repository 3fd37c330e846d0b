package grid

import (
	"slices"
	"testing"

	"honnef.co/go/curve"
)

func sameElements(a, b []Node) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func TestSquareGridNodes(t *testing.T) {
	if got := NewSquareGrid(4, 7).Nodes(); got != 28 {
		t.Errorf("NewSquareGrid(4, 7).Nodes() = %d, want 28", got)
	}
	if got := NewSquareGrid(0, 100).Nodes(); got != 0 {
		t.Errorf("NewSquareGrid(0, 100).Nodes() = %d, want 0", got)
	}
}

func TestSquareGridEdges(t *testing.T) {
	if got := NewSquareGrid(4, 7).Edges(); got != 55 {
		t.Errorf("NewSquareGrid(4, 7).Edges() = %d, want 55", got)
	}
	if got := NewSquareGrid(0, 100).Edges(); got != 0 {
		t.Errorf("NewSquareGrid(0, 100).Edges() = %d, want 0", got)
	}
}

func TestSquareGridNeighbors(t *testing.T) {
	grid := NewSquareGrid(4, 7)

	tests := []struct {
		node Node
		want []Node
	}{
		// Corners.
		{0, []Node{1, 7}},
		{6, []Node{5, 13}},
		{21, []Node{14, 22}},
		{27, []Node{26, 20}},
		// Edges.
		{4, []Node{3, 5, 11}},
		{7, []Node{0, 8, 14}},
		{20, []Node{13, 19, 27}},
		{23, []Node{22, 16, 24}},
		// Interior nodes.
		{8, []Node{7, 9, 1, 15}},
		{17, []Node{16, 18, 10, 24}},
	}
	for _, tt := range tests {
		if got := grid.Neighbors(tt.node); !sameElements(got, tt.want) {
			t.Errorf("Neighbors(%d) = %v, want %v", tt.node, got, tt.want)
		}
	}

	row := NewSquareGrid(1, 3)
	if got := row.Neighbors(1); !sameElements(got, []Node{0, 2}) {
		t.Errorf("1×3 Neighbors(1) = %v, want [0 2]", got)
	}
	col := NewSquareGrid(3, 1)
	if got := col.Neighbors(1); !sameElements(got, []Node{0, 2}) {
		t.Errorf("3×1 Neighbors(1) = %v, want [0 2]", got)
	}
	if got := NewSquareGrid(1, 1).Neighbors(0); len(got) != 0 {
		t.Errorf("1×1 Neighbors(0) = %v, want none", got)
	}
}

func TestSquareGridBounds(t *testing.T) {
	if got := NewSquareGrid(4, 7).Bounds(); got != curve.Pt(7, 4) {
		t.Errorf("Bounds() = %v, want (7, 4)", got)
	}
}

func TestSquareGridCenter(t *testing.T) {
	grid := NewSquareGrid(4, 7)
	tests := []struct {
		node Node
		want curve.Point
	}{
		{0, curve.Pt(0.5, 0.5)},
		{1, curve.Pt(1.5, 0.5)},
		{6, curve.Pt(6.5, 0.5)},
		{7, curve.Pt(0.5, 1.5)},
		{9, curve.Pt(2.5, 1.5)},
		{21, curve.Pt(0.5, 3.5)},
		{22, curve.Pt(1.5, 3.5)},
		{27, curve.Pt(6.5, 3.5)},
	}
	for _, tt := range tests {
		if got := grid.Center(tt.node); got != tt.want {
			t.Errorf("Center(%d) = %v, want %v", tt.node, got, tt.want)
		}
	}
}

func TestSquareGridEndpoints(t *testing.T) {
	got := NewSquareGrid(3, 2).Endpoints()
	want := []curve.Point{
		curve.Pt(0, 0), curve.Pt(1, 0), curve.Pt(2, 0),
		curve.Pt(0, 1), curve.Pt(1, 1), curve.Pt(2, 1),
		curve.Pt(0, 2), curve.Pt(1, 2), curve.Pt(2, 2),
		curve.Pt(0, 3), curve.Pt(1, 3), curve.Pt(2, 3),
	}
	if !slices.Equal(got, want) {
		t.Errorf("Endpoints() = %v, want %v", got, want)
	}
}

// segment boundary as endpoint coordinates plus neighbor, independent of
// endpoint indexing.
type segPts struct {
	start, end curve.Point
	neighbor   Node
}

func boundaryPts(g *SquareGrid, node Node) []segPts {
	endpoints := g.Endpoints()
	var out []segPts
	for _, seg := range g.Boundary(node) {
		out = append(out, segPts{endpoints[seg.Start], endpoints[seg.End], seg.Neighbor})
	}
	return out
}

func TestSquareGridBoundary(t *testing.T) {
	single := NewSquareGrid(1, 1)
	want := []segPts{
		{curve.Pt(0, 0), curve.Pt(1, 0), NoNode},
		{curve.Pt(1, 0), curve.Pt(1, 1), NoNode},
		{curve.Pt(1, 1), curve.Pt(0, 1), NoNode},
		{curve.Pt(0, 1), curve.Pt(0, 0), NoNode},
	}
	got := boundaryPts(single, 0)
	for _, w := range want {
		if !slices.ContainsFunc(got, func(s segPts) bool {
			// Segment direction doesn't matter for drawing.
			return (s == w) || (s == segPts{w.end, w.start, w.neighbor})
		}) {
			t.Errorf("1×1 Boundary(0) = %v, missing %v", got, w)
		}
	}

	grid := NewSquareGrid(3, 2)
	got = boundaryPts(grid, 3)
	wantNeighbors := map[Node]bool{1: true, 5: true, 2: true, NoNode: true}
	for _, s := range got {
		if !wantNeighbors[s.neighbor] {
			t.Errorf("Boundary(3) contains unexpected neighbor %d", s.neighbor)
		}
	}
	if len(got) != 4 {
		t.Errorf("Boundary(3) has %d segments, want 4", len(got))
	}
}

func TestSquareGridBoundaryHit(t *testing.T) {
	grid := NewSquareGrid(3, 4)

	ordered := func(a, b Node) (Node, Node) {
		if a > b {
			return b, a
		}
		return a, b
	}

	misses := []curve.Point{
		// Wildly outside the grid.
		curve.Pt(-100, -100), curve.Pt(-100, 1.5), curve.Pt(2000, 2000),
		// Nearby outside.
		curve.Pt(2, -0.5), curve.Pt(4.5, 1.5), curve.Pt(2, 3.5), curve.Pt(-0.5, 1.5),
		// On corners.
		curve.Pt(0, 0), curve.Pt(4, 0), curve.Pt(4, 3), curve.Pt(0, 3),
		// On the outer edge.
		curve.Pt(3.5, 0), curve.Pt(4, 2.3), curve.Pt(1.7, 3), curve.Pt(0, 1.2),
		// Inside, but not close to any boundary.
		curve.Pt(2.4, 1.6), curve.Pt(1.3, 0.7),
	}
	for _, p := range misses {
		if from, to, ok := grid.BoundaryHit(p); ok {
			t.Errorf("BoundaryHit(%v) = (%d, %d), want miss", p, from, to)
		}
	}

	hits := []struct {
		p        curve.Point
		from, to Node
	}{
		// Interior horizontal boundaries.
		{curve.Pt(0.5, 1.1), 0, 4},
		{curve.Pt(3.6, 1.9), 7, 11},
		// Interior vertical boundaries.
		{curve.Pt(2.1, 1.3), 5, 6},
		{curve.Pt(3.0, 2.7), 10, 11},
	}
	for _, tt := range hits {
		from, to, ok := grid.BoundaryHit(tt.p)
		if !ok {
			t.Errorf("BoundaryHit(%v) missed, want (%d, %d)", tt.p, tt.from, tt.to)
			continue
		}
		gotFrom, gotTo := ordered(from, to)
		if gotFrom != tt.from || gotTo != tt.to {
			t.Errorf("BoundaryHit(%v) = (%d, %d), want (%d, %d)", tt.p, gotFrom, gotTo, tt.from, tt.to)
		}
	}
}

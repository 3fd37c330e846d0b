package grid

import (
	"fmt"
	"math"

	"honnef.co/go/curve"
)

// SquareGrid is a grid of 1×1 squares with a given number of rows and
// columns. A cell's neighbors are the cells above, below, left and right of
// it; diagonals don't touch. In graph space the grid extends from (0,0) to
// (cols, rows), and nodes are numbered in row-major order, bottom to top,
// left to right.
type SquareGrid struct {
	rows, cols int
}

// NewSquareGrid returns a grid with the given dimensions.
func NewSquareGrid(rows, cols int) *SquareGrid {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("negative grid dimensions %d×%d", rows, cols))
	}
	return &SquareGrid{rows: rows, cols: cols}
}

// nodeRC returns the row and column of node.
func (g *SquareGrid) nodeRC(node Node) (row, col int) {
	if node < 0 || node >= g.Nodes() {
		panic(fmt.Sprintf("node %d out of range", node))
	}
	return node / g.cols, node % g.cols
}

// rcNode returns the node at the given row and column.
func (g *SquareGrid) rcNode(row, col int) Node {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		panic(fmt.Sprintf("cell (%d, %d) out of range", row, col))
	}
	return row*g.cols + col
}

func (g *SquareGrid) Nodes() int { return g.rows * g.cols }

func (g *SquareGrid) Edges() int {
	// Each row has cols-1 horizontal edges; each column has rows-1
	// vertical edges.
	if g.rows == 0 || g.cols == 0 {
		return 0
	}
	return g.rows*(g.cols-1) + g.cols*(g.rows-1)
}

func (g *SquareGrid) Neighbors(node Node) []Node {
	row, col := g.nodeRC(node)
	var neighbors []Node
	if row+1 < g.rows {
		neighbors = append(neighbors, g.rcNode(row+1, col))
	}
	if col+1 < g.cols {
		neighbors = append(neighbors, g.rcNode(row, col+1))
	}
	if row >= 1 {
		neighbors = append(neighbors, g.rcNode(row-1, col))
	}
	if col >= 1 {
		neighbors = append(neighbors, g.rcNode(row, col-1))
	}
	return neighbors
}

func (g *SquareGrid) Bounds() curve.Point {
	return curve.Pt(float64(g.cols), float64(g.rows))
}

func (g *SquareGrid) Center(node Node) curve.Point {
	row, col := g.nodeRC(node)
	return curve.Pt(float64(col)+0.5, float64(row)+0.5)
}

func (g *SquareGrid) Radius() float64 { return 0.5 }

func (g *SquareGrid) Boundary(node Node) []Segment {
	row, col := g.nodeRC(node)

	// Endpoints are laid out in row-major order with cols+1 points per row,
	// outer boundary included.
	ptCols := g.cols + 1

	// Index of the cell's southwestern corner.
	sw := row*ptCols + col

	neighborOr := func(ok bool, n Node) Node {
		if ok {
			return n
		}
		return NoNode
	}

	return []Segment{
		// north
		{Start: sw + ptCols, End: sw + ptCols + 1, Neighbor: neighborOr(row+1 < g.rows, node+g.cols)},
		// east
		{Start: sw + ptCols + 1, End: sw + 1, Neighbor: neighborOr(col+1 < g.cols, node+1)},
		// south
		{Start: sw + 1, End: sw, Neighbor: neighborOr(row > 0, node-g.cols)},
		// west
		{Start: sw, End: sw + ptCols, Neighbor: neighborOr(col > 0, node-1)},
	}
}

func (g *SquareGrid) Endpoints() []curve.Point {
	points := make([]curve.Point, 0, (g.rows+1)*(g.cols+1))
	for r := 0; r <= g.rows; r++ {
		for c := 0; c <= g.cols; c++ {
			points = append(points, curve.Pt(float64(c), float64(r)))
		}
	}
	return points
}

// hitTolerance bounds how far from a boundary line a point may be and still
// hit it, and how close to a corner or node center it may be before the hit
// is ambiguous. Must stay below 0.5.
const hitTolerance = 0.2

// near reports whether val is within distance of the nearest integer.
func near(val, distance float64) bool {
	return math.Abs(val-math.Round(val)) <= distance
}

// BoundaryHit recognizes hits on interior boundary segments. Points near
// segment endpoints are excluded as ambiguous, as are points outside the
// grid or on its outer edge, so every hit has a node on both sides.
func (g *SquareGrid) BoundaryHit(p curve.Point) (from, to Node, ok bool) {
	bounds := g.Bounds()
	if p.X < hitTolerance || p.X > bounds.X-hitTolerance ||
		p.Y < hitTolerance || p.Y > bounds.Y-hitTolerance {
		return 0, 0, false
	}

	// Corners are ambiguous.
	if near(p.X, hitTolerance) && near(p.Y, hitTolerance) {
		return 0, 0, false
	}

	// Points near vertical edges. These cannot also be near horizontal
	// edges; corners were excluded above.
	if near(p.X, hitTolerance) {
		// Round and floor both yield positive values, given the exclusions
		// above.
		col := int(math.Round(p.X))
		row := int(math.Floor(p.Y))
		return g.rcNode(row, col), g.rcNode(row, col-1), true
	}

	// Points near horizontal edges, transposed.
	if near(p.Y, hitTolerance) {
		col := int(math.Floor(p.X))
		row := int(math.Round(p.Y))
		return g.rcNode(row, col), g.rcNode(row-1, col), true
	}

	return 0, 0, false
}

// Package grid defines the graphs that game boards are built on and the
// square-grid implementation the game ships with.
//
// A visible graph lives in its own coordinate space, "graph space": node
// areas fall inside the axis-aligned box from (0,0) to Bounds(). The drawing
// code owns the transforms between graph space and everything else.
package grid

import "honnef.co/go/curve"

// Node is the index of a node in a graph. Nodes of a graph are numbered
// 0..Nodes().
type Node = int

// NoNode marks the absence of a node, e.g. on the far side of an exterior
// boundary segment.
const NoNode Node = -1

// A Graph is a set of nodes and their neighbor relationships.
type Graph interface {
	// Nodes returns the number of nodes in the graph.
	Nodes() int

	// Edges returns the number of undirected edges in the graph.
	Edges() int

	// Neighbors returns the nodes adjacent to node.
	Neighbors(node Node) []Node
}

// A Segment is one line segment of a node's boundary. Start and End index
// into the endpoint vector returned by [VisibleGraph.Endpoints]; sharing
// endpoint coordinates this way keeps the vertex buffer small and lets
// shared boundary lines be culled by comparing node numbers.
type Segment struct {
	Start, End int

	// Neighbor is the node on the other side of the segment, or NoNode if
	// the segment is part of the graph's exterior boundary.
	Neighbor Node
}

// A VisibleGraph is a graph whose nodes occupy non-overlapping areas of the
// plane and can be drawn on screen.
//
// Implementations must ensure that a straight line between the centers of
// two neighboring nodes never crosses a third node's area; the outflow
// drawing relies on it.
type VisibleGraph interface {
	Graph

	// Bounds returns the upper-right corner of the smallest axis-aligned
	// bounding box containing all node areas. The lower-left corner is the
	// origin.
	Bounds() curve.Point

	// Center returns the center of node's area.
	Center(node Node) curve.Point

	// Radius returns the radius of the circle representing a node full of
	// goop. It is the same for all nodes so that amounts in different nodes
	// compare visually.
	Radius() float64

	// Boundary returns the line segments bounding node's area.
	Boundary(node Node) []Segment

	// Endpoints returns the coordinates Segment indexes refer to.
	Endpoints() []curve.Point

	// BoundaryHit determines which directed edge a click on p refers to.
	// ok is false when p is not close enough to any interior boundary to
	// count.
	BoundaryHit(p curve.Point) (from, to Node, ok bool)
}

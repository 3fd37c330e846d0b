// Package board holds the parts of a game that the renderer consumes: the
// static map and the varying state of its nodes.
//
// The split follows what changes: the graph, source positions and player
// colors are fixed for a whole game and live in [Map]; the goop levels,
// ownership and chosen outflows vary every tick and live in [State].
// Hover/click effects are ephemeral and belong to the mouse handling, not
// here.
//
// State stops at what a local demo needs. Synchronizing states between
// players, and the protocol doing so, are someone else's problem.
package board

import (
	"github.com/goopgame/goopdraw/gmath"
	"github.com/goopgame/goopdraw/grid"
	"github.com/lucasb-eyer/go-colorful"
)

// A Player identifies one of the players of a game by number.
type Player int

// A Map holds everything about a game that does not change while it is
// played.
type Map struct {
	// Graph is the board's territory.
	Graph grid.VisibleGraph

	// Sources are the nodes of Graph that produce goop. One per player;
	// player i owns Sources[i].
	Sources []grid.Node

	// GraphToGame transforms graph space to game space, where the whole
	// board spans (-1,-1)..(1,1) with a small margin.
	GraphToGame gmath.Matrix

	// GameToGraph is the inverse of GraphToGame.
	GameToGraph gmath.Matrix

	// GameAspect is the width/height ratio of the board's bounding box.
	GameAspect float32

	// PlayerColors is the color of each player's goop, indexed by player
	// number. Same length as Sources.
	PlayerColors []colorful.Color
}

// NewMap builds a map from a graph, goop source positions and player
// colors. len(colors) must equal len(sources). The graph must have a
// non-empty bounding box.
func NewMap(g grid.VisibleGraph, sources []grid.Node, colors []colorful.Color) *Map {
	if len(sources) != len(colors) {
		panic("one color per source player")
	}
	bounds := g.Bounds()
	w, h := float32(bounds.X), float32(bounds.Y)

	// Graph space (0,0)..(w,h) onto game space (-1,-1)..(1,1), with a
	// little margin inside the window.
	graphToGame := gmath.Scale(0.95, 0.95).
		Mul(gmath.Translate(-1, -1)).
		Mul(gmath.Scale(2/w, 2/h))

	gameToGraph, ok := graphToGame.Invert()
	if !ok {
		panic("degenerate graph bounds")
	}

	return &Map{
		Graph:        g,
		Sources:      sources,
		GraphToGame:  graphToGame,
		GameToGraph:  gameToGraph,
		GameAspect:   w / h,
		PlayerColors: colors,
	}
}

// Palette returns n distinguishable goop colors for a new game's players.
func Palette(n int) []colorful.Color {
	colors, err := colorful.HappyPalette(n)
	if err != nil {
		// HappyPalette can fail for large n; fall back to spaced hues.
		colors = make([]colorful.Color, n)
		for i := range colors {
			colors[i] = colorful.Hsv(float64(i)*360/float64(n), 0.9, 0.9)
		}
	}
	return colors
}

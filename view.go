package goopdraw

import (
	"honnef.co/go/curve"

	"github.com/goopgame/goopdraw/board"
	"github.com/goopgame/goopdraw/gmath"
)

// ViewTransform maps the world rectangle view onto clip space, letterboxed
// to preserve its shape in a viewport with the given width/height aspect
// ratio. The view's center lands on the clip space origin; depending on
// the relative aspect ratios the view is centered either horizontally or
// vertically.
//
// A degenerate view rectangle (zero width or height) is a caller error and
// panics.
func ViewTransform(view curve.Rect, viewportAspect float32) gmath.Matrix {
	w := float32(view.X1 - view.X0)
	h := float32(view.Y1 - view.Y0)
	if w == 0 || h == 0 {
		panic("zero-area view rectangle")
	}
	cx := float32(view.X0+view.X1) / 2
	cy := float32(view.Y0+view.Y1) / 2

	viewToSquare := gmath.Scale(2/w, 2/h).Mul(gmath.Translate(-cx, -cy))
	return fitAspect(w/h, viewportAspect).Mul(viewToSquare)
}

// fitAspect maps the (-1,-1)..(1,1) square holding content with the given
// aspect ratio into clip space for a viewport with viewportAspect,
// shrinking one axis so the content keeps its shape.
func fitAspect(contentAspect, viewportAspect float32) gmath.Matrix {
	if viewportAspect > contentAspect {
		// Viewport is wider than the content. Center horizontally.
		return gmath.Scale(contentAspect/viewportAspect, 1)
	}
	// Content is wider than the viewport. Center vertically.
	return gmath.Scale(1, viewportAspect/contentAspect)
}

// GraphToDevice maps m's graph space to clip space for a width×height
// viewport, letterboxing the board per fitAspect. Recompute it whenever
// the viewport changes; it is read-only for the frame.
func GraphToDevice(m *board.Map, width, height int) gmath.Matrix {
	deviceAspect := float32(width) / float32(height)
	return fitAspect(m.GameAspect, deviceAspect).Mul(m.GraphToGame)
}

// WindowToGraph maps window pixel coordinates, origin at the upper left
// with y growing down, to m's graph space. It is the inverse of
// GraphToDevice composed with the window-to-device change of coordinates,
// and is what mouse handling feeds to BoundaryHit.
func WindowToGraph(m *board.Map, width, height int) gmath.Matrix {
	windowToDevice := gmath.Translate(-1, 1).
		Mul(gmath.Scale(2/float32(width), -2/float32(height)))

	deviceToGraph, ok := GraphToDevice(m, width, height).Invert()
	if !ok {
		panic("graph-to-device transform must be invertible")
	}
	return deviceToGraph.Mul(windowToDevice)
}

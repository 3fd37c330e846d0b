// Package goopdraw renders game boards and answers "what did the user
// click on" without ever storing an image.
//
// Both jobs ride on the same trick: a virtual texture of up to 4096 unit
// circles spaced along the x axis, evaluated in closed form per pixel. The
// circle a pixel belongs to is derived from its interpolated atlas
// coordinate, and the circle's color is its index pushed through the
// [atlas] codec. Drawing goop amounts means pointing a node's quad at the
// circle matching its player's color, scaled so circle area tracks the
// amount. Picking means rendering the same quads with per-node indices
// into an off-screen target and decoding the pixel under the pointer.
//
// # Coordinate spaces
//
// Working from concrete to abstract:
//
//   - Window coordinates: pixels, origin at the upper left, y growing
//     down.
//   - Device coordinates: the clip space quad (-1,-1)..(1,1), origin at
//     the center, y growing up.
//   - Game coordinates: (-1,-1)..(1,1) spans the whole board display. The
//     game-to-device transform letterboxes the board into the window.
//   - Graph coordinates: the space a [grid.VisibleGraph] defines, node
//     areas inside (0,0)..Bounds().
//   - Atlas coordinates: the procedural texture's space; x selects a
//     circle slot, the offset from the slot center decides membership.
//
// [Drawer] owns the transforms between these and the vertex data flowing
// through them; [Renderer] runs the wgpu pipelines, and [CPUFrame] runs
// the same programs on the host for tests and headless use.
package goopdraw

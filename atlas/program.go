package atlas

import (
	"math"

	"github.com/goopgame/goopdraw/gmath"
)

// Policy says what the atlas programs do with a fragment whose implied
// circle index is out of range.
type Policy int

const (
	// Discard leaves out-of-range fragments untouched, so whatever was
	// rendered underneath stays visible. This is the production policy for
	// both the visible and the identifier variant.
	Discard Policy = iota

	// Sentinel paints out-of-range fragments in [SentinelColor]. Only useful
	// while debugging geometry that feeds the atlas; a released build must
	// never ship it, as sentinel pixels would decode as garbage picks.
	Sentinel
)

// SentinelColor is the warning color the Sentinel policy emits.
var SentinelColor = Color{1, 0, 1, 1}

// Params are the per-draw inputs of the atlas programs. They are fixed for
// the duration of a draw call.
type Params struct {
	// Spacing is the center-to-center distance between adjacent circle
	// slots along the x axis. Must be positive.
	Spacing float32

	// IndexBase is the index of the first valid circle slot. The valid
	// range is [IndexBase, IndexBase+MaxIndex].
	IndexBase int32

	// OutOfRange selects the policy for fragments outside the valid range.
	OutOfRange Policy
}

// Vertex is the vertex stage shared by both atlas variants: it transforms a
// graph-space point to a clip-space position and forwards the atlas
// coordinate untouched for interpolation. It has no other inputs and no
// effects, which is what lets the rasterizer run it on every vertex
// concurrently.
func Vertex(transform gmath.Matrix, point, uv [2]float32) (pos [4]float32, outUV [2]float32) {
	xy := transform.Apply2(point)
	return [4]float32{xy[0], xy[1], 0, 1}, uv
}

// Fragment evaluates the atlas program for a single pixel. uv is the
// interpolated atlas coordinate; the result is the pixel's color, or
// ok=false when the pixel is discarded. It is a pure function of its
// arguments, matching the per-fragment execution model of the GPU variants
// in [ShaderSource]: no invocation sees any other invocation's state.
//
// The steps, in order: atlas coordinates left of -Spacing are the reserved
// blank region; the nearest slot is picked by rounding half up; indexes
// outside [IndexBase, IndexBase+MaxIndex] follow the out-of-range policy;
// pixels further than the unit radius from the slot center are outside the
// circle; everything else is inside and gets the encoding of its index.
func Fragment(uv [2]float32, p Params) (c Color, ok bool) {
	if uv[0] < -p.Spacing {
		return Color{}, false
	}
	index := float32(math.Floor(float64(uv[0]/p.Spacing + 0.5)))
	base := float32(p.IndexBase)
	if index < base || index > base+MaxIndex {
		if p.OutOfRange == Sentinel {
			return SentinelColor, true
		}
		return Color{}, false
	}
	dx := uv[0] - index*p.Spacing
	dy := uv[1]
	if dx*dx+dy*dy > 1 {
		return Color{}, false
	}
	return Encode(uint32(index)), true
}

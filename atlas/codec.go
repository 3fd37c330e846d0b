// Package atlas implements the procedural circle atlas: a virtual image of
// up to 4096 unit circles laid out along the x axis, synthesized per pixel
// instead of being stored as texture data.
//
// Each circle's fill color encodes its index, so a frame rendered with the
// atlas doubles as an identifier map: reading a pixel back and decoding its
// color recovers the index of the circle that produced it. The package holds
// both sides of that contract, the WGSL shaders that run on the GPU and
// bit-exact Go implementations of the same functions. The Go versions are a
// debug and test tool, not a viable software renderer, mirroring how the
// compute pipeline this engine grew out of treats its CPU shaders.
package atlas

import (
	"math"

	"github.com/goopgame/goopdraw/gmath"
)

const (
	// Slots is the number of circles in the atlas.
	Slots = 4096
	// MaxIndex is the largest encodable circle index.
	MaxIndex = Slots - 1

	// levels is the number of exact values each color channel can take.
	levels = 16
)

// Tolerance is the distance, per channel, beyond which a sampled color no
// longer counts as a clean encoding of any index. The 16 exact levels land
// on 8-bit sample values with zero error (k/15 is k·17/255), so anything
// further off than a quarter step is interpolation at a primitive edge, not
// quantization noise. 1/64 is the nearest power of two under a quarter step.
const Tolerance = 1.0 / 64

// Color is an RGBA color with components in [0, 1].
type Color [4]float32

// Encode maps a circle index, treated as a 12-bit unsigned value, to its
// color. The three 4-bit fields go to the R, B and G channels in that order;
// alpha is always 1 and carries no identity.
//
// The R/B/G field order is the wire format between the shaders and
// [Decode]. It is not a mistake and must never be "fixed" to R/G/B on one
// side only.
func Encode(index uint32) Color {
	index &= MaxIndex
	r := index >> 8 & 0xf
	b := index >> 4 & 0xf
	g := index & 0xf
	return Color{
		float32(r) / (levels - 1),
		float32(g) / (levels - 1),
		float32(b) / (levels - 1),
		1,
	}
}

// channel quantizes one color component to its 4-bit field.
func channel(v float32) uint32 {
	k := int32(math.Round(float64(v) * (levels - 1)))
	return uint32(gmath.Clamp(k, 0, levels-1))
}

// Decode recovers the index a color encodes, rounding each channel to the
// nearest of the 16 levels. It always produces some index; use
// [DecodeExact] when the color may not come from a clean circle interior.
func Decode(c Color) uint32 {
	r := channel(c[0])
	g := channel(c[1])
	b := channel(c[2])
	return r<<8 | b<<4 | g
}

// DecodeExact decodes c and verifies the result: the decoded index is
// re-encoded and every color channel must lie within [Tolerance] of the
// exact encoding. Colors produced by antialiasing or interpolation at circle
// edges fail this check, and ok is false. An index is never guessed.
func DecodeExact(c Color) (index uint32, ok bool) {
	index = Decode(c)
	exact := Encode(index)
	for i := range 3 {
		if abs32(c[i]-exact[i]) > Tolerance {
			return 0, false
		}
	}
	return index, true
}

// DecodeRGBA8 decodes one pixel read back from an 8-bit RGBA identifier
// target. A pixel the atlas program never wrote has zero alpha (the clear
// value of the offscreen target) and decodes to no index at all; written
// pixels carry full alpha and go through [DecodeExact].
func DecodeRGBA8(p [4]byte) (index uint32, ok bool) {
	if p[3] != 0xff {
		return 0, false
	}
	return DecodeExact(Color{
		float32(p[0]) / 255,
		float32(p[1]) / 255,
		float32(p[2]) / 255,
		1,
	})
}

func abs32(f float32) float32 {
	return float32(math.Abs(float64(f)))
}

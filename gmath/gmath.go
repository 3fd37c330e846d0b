// Package gmath provides the homogeneous 2D transforms shared between the
// host and the shaders.
//
// Matrices are column-major [3][3]float32 values, the layout WGSL's
// mat3x3<f32> uses (modulo column padding, see [Matrix.GPU]). A 2D point is
// extended with an implicit 1 to make it a homogeneous coordinate before a
// matrix is applied to it.
package gmath

import (
	"structs"

	"golang.org/x/exp/constraints"
	"honnef.co/go/curve"
)

// Matrix is a 3×3 homogeneous transform. m[c][r] is the element in column c,
// row r.
type Matrix [3][3]float32

// Identity is the identity transform.
var Identity = Matrix{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// Scale returns a transform that scales by sx and sy along the x and y axes.
func Scale(sx, sy float32) Matrix {
	return Matrix{
		{sx, 0, 0},
		{0, sy, 0},
		{0, 0, 1},
	}
}

// Translate returns a transform that moves points by dx to the right and dy
// upwards.
func Translate(dx, dy float32) Matrix {
	return Matrix{
		{1, 0, 0},
		{0, 1, 0},
		{dx, dy, 1},
	}
}

// We don't provide a rotation constructor; nothing in the game rotates.

func scale3(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}

func div3(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] / s, v[1] / s, v[2] / s}
}

func add3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// apply3 applies m to a homogeneous column vector.
func (m Matrix) apply3(v [3]float32) [3]float32 {
	return add3(add3(scale3(m[0], v[0]), scale3(m[1], v[1])), scale3(m[2], v[2]))
}

// Apply transforms p, dividing through by the homogeneous coordinate.
func (m Matrix) Apply(p curve.Point) curve.Point {
	h := m.apply3([3]float32{float32(p.X), float32(p.Y), 1})
	return curve.Pt(float64(h[0]/h[2]), float64(h[1]/h[2]))
}

// Apply2 is Apply for raw float32 coordinate pairs, as the vertex buffers
// store them.
func (m Matrix) Apply2(v [2]float32) [2]float32 {
	h := m.apply3([3]float32{v[0], v[1], 1})
	return [2]float32{h[0] / h[2], h[1] / h[2]}
}

// Mul returns the product m·other: the transform that applies other first and
// m second.
func (m Matrix) Mul(other Matrix) Matrix {
	return Matrix{
		m.apply3(other[0]),
		m.apply3(other[1]),
		m.apply3(other[2]),
	}
}

// Transpose returns a matrix whose nth row is m's nth column.
func (m Matrix) Transpose() Matrix {
	return Matrix{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

// Det returns the determinant of m.
func (m Matrix) Det() float32 {
	return m[0][0]*(m[1][1]*m[2][2]-m[2][1]*m[1][2]) -
		m[1][0]*(m[0][1]*m[2][2]-m[2][1]*m[0][2]) +
		m[2][0]*(m[0][1]*m[1][2]-m[1][1]*m[0][2])
}

// Invert returns the transform that undoes m. The second return value is
// false if m is singular.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.Det()
	if det == 0 {
		return Matrix{}, false
	}
	adj := Matrix{
		div3(cross3(m[1], m[2]), det),
		div3(cross3(m[2], m[0]), det),
		div3(cross3(m[0], m[1]), det),
	}
	return adj.Transpose(), true
}

// GPUMatrix is Matrix in WGSL uniform layout: mat3x3<f32> columns are padded
// to 16 bytes.
type GPUMatrix struct {
	_ structs.HostLayout

	Cols [3][4]float32
}

// GPU returns m in the layout the shaders expect.
func (m Matrix) GPU() GPUMatrix {
	var out GPUMatrix
	for c := range 3 {
		out.Cols[c] = [4]float32{m[c][0], m[c][1], m[c][2], 0}
	}
	return out
}

// Clamp limits x to [lo, hi].
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	return min(max(x, lo), hi)
}

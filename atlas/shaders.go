package atlas

import (
	"structs"

	"github.com/goopgame/goopdraw/gmath"
)

// Uniforms is the uniform block both atlas shader variants bind at
// @group(0) @binding(0). The layout matches the WGSL struct in
// [ShaderSource]: a padded mat3x3<f32> followed by the scalar draw
// parameters, padded to a 16-byte multiple.
type Uniforms struct {
	_ structs.HostLayout

	Transform gmath.GPUMatrix
	Spacing   float32
	IndexBase float32
	_pad      [2]float32
}

// NewUniforms packs a transform and the draw parameters for upload. The
// out-of-range policy is not part of the uniform data; it selects the
// fragment entry point instead ([FragmentEntry]).
func NewUniforms(transform gmath.Matrix, p Params) Uniforms {
	return Uniforms{
		Transform: transform.GPU(),
		Spacing:   p.Spacing,
		IndexBase: float32(p.IndexBase),
	}
}

// VertexEntry is the entry point of the shared vertex stage.
const VertexEntry = "vs_atlas"

// FragmentEntry returns the fragment entry point implementing the given
// out-of-range policy.
func FragmentEntry(p Policy) string {
	if p == Sentinel {
		return "fs_atlas_debug"
	}
	return "fs_atlas"
}

// ShaderSource is the WGSL module containing the atlas vertex stage and both
// fragment variants. The fragment code must stay in lockstep with [Fragment]
// and [Encode]: a color sampled from a rendered frame is decoded by the Go
// side, so the two are ends of one wire format.
const ShaderSource = `
struct AtlasUniforms {
	// graph space -> clip space
	transform: mat3x3<f32>,
	spacing: f32,
	index_base: f32,
}

@group(0) @binding(0)
var<uniform> u: AtlasUniforms;

struct AtlasVarying {
	@builtin(position) position: vec4<f32>,
	@location(0) uv: vec2<f32>,
}

@vertex
fn vs_atlas(@location(0) point: vec2<f32>, @location(1) uv: vec2<f32>) -> AtlasVarying {
	let p = u.transform * vec3(point, 1.0);
	var out: AtlasVarying;
	out.position = vec4(p.xy, 0.0, 1.0);
	out.uv = uv;
	return out;
}

fn encode_index(index: u32) -> vec4<f32> {
	// 12-bit index -> 4-bit fields in R, B, G order. Wire format shared
	// with the host decoder; do not reorder.
	let r = f32((index >> 8u) & 0xfu) / 15.0;
	let b = f32((index >> 4u) & 0xfu) / 15.0;
	let g = f32(index & 0xfu) / 15.0;
	return vec4(r, g, b, 1.0);
}

@fragment
fn fs_atlas(in: AtlasVarying) -> @location(0) vec4<f32> {
	// Everything left of the first slot is the reserved blank region.
	if in.uv.x < -u.spacing {
		discard;
	}
	let index = floor(in.uv.x / u.spacing + 0.5);
	if index < u.index_base || index > u.index_base + 4095.0 {
		discard;
	}
	let rel = in.uv - vec2(index * u.spacing, 0.0);
	if dot(rel, rel) > 1.0 {
		discard;
	}
	return encode_index(u32(index));
}

@fragment
fn fs_atlas_debug(in: AtlasVarying) -> @location(0) vec4<f32> {
	if in.uv.x < -u.spacing {
		discard;
	}
	let index = floor(in.uv.x / u.spacing + 0.5);
	if index < u.index_base || index > u.index_base + 4095.0 {
		// Out-of-range warning color, development builds only.
		return vec4(1.0, 0.0, 1.0, 1.0);
	}
	let rel = in.uv - vec2(index * u.spacing, 0.0);
	if dot(rel, rel) > 1.0 {
		discard;
	}
	return encode_index(u32(index));
}
`

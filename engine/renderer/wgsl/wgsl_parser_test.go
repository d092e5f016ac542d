package wgsl

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const litSource = `
struct Material {
    ambient: f32,
    diffuse: vec3<f32>,
    specular: vec3<f32>,
    shininess: f32,
}

struct Uniforms {
    model: mat4x4<f32>,
    view: mat4x4<f32>,
    projection: mat4x4<f32>,
    viewPos: vec3<f32>,
    material: Material,
    lightingFlags: u32,
}

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) uv: vec2<f32>,
}

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) normal: vec3<f32>,
}

/* the lights live in group 1 */
@group(0) @binding(0) var<uniform> u: Uniforms;
@group(1) @binding(0) var<storage, read> lights: array<vec4<f32>>;
@group(2) @binding(0) var tex: texture_2d<f32>;
@group(2) @binding(1) var samp: sampler;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func TestParseUniformLayoutFlattensNestedStructs(t *testing.T) {
	layout, err := ParseUniformLayout(litSource)
	require.NoError(t, err)
	assert.Equal(t, "Uniforms", layout.TypeName)

	cases := map[string]UniformField{
		"model":              {Path: "model", Type: "mat4x4<f32>", Offset: 0, Size: 64},
		"view":               {Path: "view", Type: "mat4x4<f32>", Offset: 64, Size: 64},
		"projection":         {Path: "projection", Type: "mat4x4<f32>", Offset: 128, Size: 64},
		"viewPos":            {Path: "viewPos", Type: "vec3<f32>", Offset: 192, Size: 12},
		"material.ambient":   {Path: "material.ambient", Type: "f32", Offset: 208, Size: 4},
		"material.diffuse":   {Path: "material.diffuse", Type: "vec3<f32>", Offset: 224, Size: 12},
		"material.specular":  {Path: "material.specular", Type: "vec3<f32>", Offset: 240, Size: 12},
		"material.shininess": {Path: "material.shininess", Type: "f32", Offset: 252, Size: 4},
		"lightingFlags":      {Path: "lightingFlags", Type: "u32", Offset: 256, Size: 4},
	}
	for path, want := range cases {
		got, ok := layout.Lookup(path)
		require.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}
	assert.Equal(t, uint32(272), layout.Size)
	_, ok := layout.Lookup("material")
	assert.False(t, ok)
}

func TestParseUniformLayoutWithoutBlock(t *testing.T) {
	layout, err := ParseUniformLayout("@vertex fn main() {}")
	require.NoError(t, err)
	assert.Empty(t, layout.Fields)
	assert.Zero(t, layout.Size)
}

func TestParseUniformLayoutUnknownType(t *testing.T) {
	_, err := ParseUniformLayout("@group(0) @binding(0) var<uniform> u: Missing;")
	assert.Error(t, err)
}

func TestParseVertexLayoutSkipsOutputs(t *testing.T) {
	layout, ok := ParseVertexLayout(litSource)
	require.True(t, ok)
	assert.Equal(t, uint64(32), layout.ArrayStride)
	require.Len(t, layout.Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layout.Attributes[1].Format)
	assert.Equal(t, uint64(12), layout.Attributes[1].Offset)
	assert.Equal(t, uint64(24), layout.Attributes[2].Offset)
	assert.Equal(t, uint32(2), layout.Attributes[2].ShaderLocation)
}

func TestParseBindGroupLayouts(t *testing.T) {
	groups, names := ParseBindGroupLayouts(litSource, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	require.Len(t, groups, 3)

	u := groups[0].Entries[0]
	assert.Equal(t, wgpu.BufferBindingTypeUniform, u.Buffer.Type)
	assert.True(t, u.Buffer.HasDynamicOffset)
	assert.Equal(t, uint64(272), u.Buffer.MinBindingSize)

	lights := groups[1].Entries[0]
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, lights.Buffer.Type)
	assert.False(t, lights.Buffer.HasDynamicOffset)
	assert.Equal(t, uint64(16), lights.Buffer.MinBindingSize)

	require.Len(t, groups[2].Entries, 2)
	assert.Equal(t, wgpu.TextureViewDimension2D, groups[2].Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, groups[2].Entries[1].Sampler.Type)
	assert.Equal(t, "samp", names[2][1])
}

func TestParseEntryPoint(t *testing.T) {
	assert.Equal(t, "vs_main", ParseEntryPoint(litSource, StageVertex))
	assert.Equal(t, "fs_main", ParseEntryPoint(litSource, StageFragment))
	assert.Equal(t, "", ParseEntryPoint("fn helper() {}", StageVertex))
}

func TestPreProcessorExpandsDirectives(t *testing.T) {
	p := NewPreProcessor(WithInclude("light", Include{Source: "struct Light { position: vec4<f32>, }", Type: "Light"}))
	out, err := p.Process("//@oxy:include light\n//@oxy:storage 0 lights light\nfn f() {}")
	require.NoError(t, err)
	assert.Contains(t, out, "struct Light")
	assert.Contains(t, out, "@group(1) @binding(0) var<storage, read> lights: array<Light>;")
	assert.Equal(t, []StorageDeclaration{{Slot: 0, VarName: "lights", Include: "light"}}, p.Declarations())
}

func TestPreProcessorRejectsUnknown(t *testing.T) {
	p := NewPreProcessor()
	_, err := p.Process("fn a() {}\n//@oxy:include nothing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = p.Process("//@oxy:frobnicate")
	assert.Error(t, err)
}

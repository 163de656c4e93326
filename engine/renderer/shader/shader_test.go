package shader

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `
struct CameraUniform {
    view_proj: mat4x4<f32>,
    position: vec3<f32>,
    padding: f32,
};

// @group(3) @binding(0) var<uniform> ignored: CameraUniform;
@group(0) @binding(0)
var<uniform> camera: CameraUniform;

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) color: vec3<f32>,
};

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) color: vec3<f32>,
};

/* block /* nested */ comment */
@vertex
fn vs_main(model: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.color = model.color;
    out.clip_position = camera.view_proj * vec4<f32>(model.position, 1.0);
    return out;
}

@fragment
fn fs_main(frag: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(frag.color, 1.0);
}
`

func testLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 24,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		},
	}
}

func TestNewShaderReflection(t *testing.T) {
	s := NewShader("cube", testSource)

	assert.Equal(t, "cube", s.Key())
	assert.Equal(t, "vs_main", s.VertexEntryPoint())
	assert.Equal(t, "fs_main", s.FragmentEntryPoint())
	assert.Equal(t, map[uint32]wgpu.VertexFormat{
		0: wgpu.VertexFormatFloat32x3,
		1: wgpu.VertexFormatFloat32x3,
	}, s.VertexLocations())
	assert.Equal(t, []uint32{0}, s.BindGroups())
	assert.Equal(t, "camera", s.BindGroupVarName(0, 0))
	assert.Empty(t, s.BindGroupVarName(3, 0))

	mod := s.Module()
	require.NotNil(t, mod.WGSLDescriptor)
	assert.Equal(t, "cube", mod.Label)
	assert.Equal(t, testSource, mod.WGSLDescriptor.Code)
}

func TestInlineVertexParameters(t *testing.T) {
	src := `
@vertex
fn main_vs(@builtin(vertex_index) idx: u32, @location(2) uv: vec2f, @location(0) pos: vec4<f32>) -> @builtin(position) vec4<f32> {
    return pos;
}
`
	s := NewShader("inline", src)
	assert.Equal(t, "main_vs", s.VertexEntryPoint())
	assert.Empty(t, s.FragmentEntryPoint())
	assert.Equal(t, map[uint32]wgpu.VertexFormat{
		0: wgpu.VertexFormatFloat32x4,
		2: wgpu.VertexFormatFloat32x2,
	}, s.VertexLocations())
	assert.Empty(t, s.BindGroups())
}

func TestCheckVertexLayout(t *testing.T) {
	s := NewShader("cube", testSource)
	assert.NoError(t, s.CheckVertexLayout(testLayout()))

	tests := []struct {
		name   string
		mutate func(l *wgpu.VertexBufferLayout)
	}{
		{"missing location", func(l *wgpu.VertexBufferLayout) { l.Attributes = l.Attributes[:1] }},
		{"extra location", func(l *wgpu.VertexBufferLayout) {
			l.Attributes = append(l.Attributes, wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32, Offset: 24, ShaderLocation: 2})
		}},
		{"wrong format", func(l *wgpu.VertexBufferLayout) { l.Attributes[1].Format = wgpu.VertexFormatFloat32x4 }},
		{"duplicate location", func(l *wgpu.VertexBufferLayout) { l.Attributes[1].ShaderLocation = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := testLayout()
			tt.mutate(&l)
			err := s.CheckVertexLayout(l)
			assert.True(t, errors.Is(err, common.ErrConfiguration), "got %v", err)
		})
	}
}

func TestCheckBindGroups(t *testing.T) {
	s := NewShader("cube", testSource)
	assert.NoError(t, s.CheckBindGroups(1))
	assert.ErrorIs(t, s.CheckBindGroups(0), common.ErrConfiguration)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, NewShader("cube", testSource).Validate())

	err := NewShader("broken", "@vertex fn vs_main( -> {").Validate()
	assert.ErrorIs(t, err, common.ErrPipelineCreation)

	err = NewShader("no-fragment", "@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }").Validate()
	assert.ErrorIs(t, err, common.ErrPipelineCreation)
}

func TestStripComments(t *testing.T) {
	got := stripComments("a // line\nb /* x /* y */ z */ c")
	assert.Equal(t, "a \nb  c\n", got)
}

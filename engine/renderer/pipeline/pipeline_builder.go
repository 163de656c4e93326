package pipeline

import (
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption overrides part of a pipeline's configuration. Options not given keep the
// defaults set by NewPipeline.
type PipelineBuilderOption func(*pipeline)

// WithShader sets the module supplying both stages.
func WithShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.shader = s
	}
}

// WithVertexLayout sets the layout of the buffer bound at vertex slot 0.
func WithVertexLayout(layout wgpu.VertexBufferLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexLayout = layout
	}
}

// WithBindGroupLayouts sets the pipeline layout. layouts[i] is bind group i.
func WithBindGroupLayouts(layouts ...*wgpu.BindGroupLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.bindGroupLayouts = layouts
	}
}

// WithColorFormat sets the format of the single color target.
func WithColorFormat(format wgpu.TextureFormat) PipelineBuilderOption {
	return func(p *pipeline) {
		p.colorFormat = format
	}
}

// WithDepthFormat sets the depth attachment format. It must be a depth format.
func WithDepthFormat(format wgpu.TextureFormat) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthFormat = format
	}
}

// WithPrimitive sets how vertices assemble into triangles and which of them are dropped.
//
// Parameters:
//   - topology: the primitive topology
//   - frontFace: the winding that counts as front facing
//   - cull: the faces to discard
//
// Returns:
//   - PipelineBuilderOption: the option
func WithPrimitive(topology wgpu.PrimitiveTopology, frontFace wgpu.FrontFace, cull wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
		p.frontFace = frontFace
		p.cullMode = cull
	}
}

// WithDepthTest sets the depth comparison and whether passing fragments update the depth buffer.
//
// Parameters:
//   - compare: the comparison a fragment must pass
//   - write: true to store passing depths
//
// Returns:
//   - PipelineBuilderOption: the option
func WithDepthTest(compare wgpu.CompareFunction, write bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthCompare = compare
		p.depthWriteEnabled = write
	}
}

// WithBlend sets the color target's blend state and write mask. A nil state disables blending.
func WithBlend(state *wgpu.BlendState, mask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = state
		p.writeMask = mask
	}
}

package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// blendableColorFormats lists the color target formats that can be rendered to with a blend state attached.
// Integer and 32-bit float formats are renderable but not blendable, so they are rejected here.
var blendableColorFormats = map[wgpu.TextureFormat]bool{
	wgpu.TextureFormatR8Unorm:        true,
	wgpu.TextureFormatRG8Unorm:       true,
	wgpu.TextureFormatRGBA8Unorm:     true,
	wgpu.TextureFormatRGBA8UnormSrgb: true,
	wgpu.TextureFormatBGRA8Unorm:     true,
	wgpu.TextureFormatBGRA8UnormSrgb: true,
	wgpu.TextureFormatRGB10A2Unorm:   true,
	wgpu.TextureFormatR16Float:       true,
	wgpu.TextureFormatRG16Float:      true,
	wgpu.TextureFormatRGBA16Float:    true,
}

// depthFormats lists the formats accepted as a depth-stencil attachment.
var depthFormats = map[wgpu.TextureFormat]bool{
	wgpu.TextureFormatDepth16Unorm:         true,
	wgpu.TextureFormatDepth24Plus:          true,
	wgpu.TextureFormatDepth24PlusStencil8:  true,
	wgpu.TextureFormatDepth32Float:         true,
	wgpu.TextureFormatDepth32FloatStencil8: true,
}

// pipeline is the implementation of the Pipeline interface.
// It holds the immutable render configuration and, once registered, the GPU objects created from it.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, also used as the pipeline label
	pipelineKey string

	shader           shader.Shader
	vertexLayout     wgpu.VertexBufferLayout
	bindGroupLayouts []*wgpu.BindGroupLayout
	colorFormat      wgpu.TextureFormat
	depthFormat      wgpu.TextureFormat

	// fixed function state
	depthWriteEnabled bool
	depthCompare      wgpu.CompareFunction
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState

	// GPU objects owned by the pipeline after registration
	renderPipeline *wgpu.RenderPipeline
	layout         *wgpu.PipelineLayout
	module         *wgpu.ShaderModule
}

// Pipeline defines the interface for a render pipeline configuration. It bundles the shader, vertex
// layout, bind group layouts, target formats and fixed function state required to create a
// wgpu.RenderPipeline, and owns the GPU objects once the renderer has registered it.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader returns the shader providing both the vertex and fragment stages.
	//
	// Returns:
	//   - shader.Shader: the pipeline's shader, or nil if not set
	Shader() shader.Shader

	// VertexLayout returns the single vertex buffer layout fed to the vertex stage.
	//
	// Returns:
	//   - wgpu.VertexBufferLayout: the vertex buffer layout
	VertexLayout() wgpu.VertexBufferLayout

	// BindGroupLayouts returns the bind group layouts in group index order.
	//
	// Returns:
	//   - []*wgpu.BindGroupLayout: the layouts making up the pipeline layout
	BindGroupLayouts() []*wgpu.BindGroupLayout

	// ColorFormat returns the format of the single color target.
	//
	// Returns:
	//   - wgpu.TextureFormat: the color target format
	ColorFormat() wgpu.TextureFormat

	// DepthFormat returns the format of the depth attachment.
	//
	// Returns:
	//   - wgpu.TextureFormat: the depth-stencil format
	DepthFormat() wgpu.TextureFormat

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// DepthCompare returns the depth comparison function.
	//
	// Returns:
	//   - wgpu.CompareFunction: the depth test function
	DepthCompare() wgpu.CompareFunction

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state configured for this pipeline.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state for this pipeline
	BlendState() *wgpu.BlendState

	// Validate checks the configuration before any GPU object is created. Target formats are
	// checked first, then the shader's reflected inputs against the vertex layout and bind groups.
	//
	// Returns:
	//   - error: an error wrapping common.ErrConfiguration if the configuration cannot produce a pipeline
	Validate() error

	// Descriptor builds the render pipeline descriptor from the configuration.
	//
	// Parameters:
	//   - layout: the pipeline layout created from BindGroupLayouts
	//   - module: the shader module created from the shader's descriptor
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor ready for Device.CreateRenderPipeline
	Descriptor(layout *wgpu.PipelineLayout, module *wgpu.ShaderModule) *wgpu.RenderPipelineDescriptor

	// RenderPipeline returns the created GPU pipeline, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the GPU objects created for this pipeline. The pipeline takes ownership of them.
	//
	// Parameters:
	//   - rp: the render pipeline
	//   - layout: the pipeline layout
	//   - module: the shader module
	SetRenderPipeline(rp *wgpu.RenderPipeline, layout *wgpu.PipelineLayout, module *wgpu.ShaderModule)

	// Release frees the GPU objects owned by this pipeline. It is safe to call more than once.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new Pipeline. The defaults describe an opaque, depth-tested
// triangle list: CCW front faces with back-face culling, depth Less with writes, and a REPLACE blend.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	replace := wgpu.BlendStateReplace
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthFormat:       wgpu.TextureFormatDepth24Plus,
		depthWriteEnabled: true,
		depthCompare:      wgpu.CompareFunctionLess,
		cullMode:          wgpu.CullModeBack,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState:        &replace,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) VertexLayout() wgpu.VertexBufferLayout {
	return p.vertexLayout
}

func (p *pipeline) BindGroupLayouts() []*wgpu.BindGroupLayout {
	return p.bindGroupLayouts
}

func (p *pipeline) ColorFormat() wgpu.TextureFormat {
	return p.colorFormat
}

func (p *pipeline) DepthFormat() wgpu.TextureFormat {
	return p.depthFormat
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthCompare() wgpu.CompareFunction {
	return p.depthCompare
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) Validate() error {
	if p.shader == nil {
		return fmt.Errorf("pipeline %s: no shader: %w", p.pipelineKey, common.ErrConfiguration)
	}
	if len(p.bindGroupLayouts) == 0 {
		return fmt.Errorf("pipeline %s: no bind group layouts: %w", p.pipelineKey, common.ErrConfiguration)
	}
	for i, l := range p.bindGroupLayouts {
		if l == nil {
			return fmt.Errorf("pipeline %s: bind group layout %d is nil: %w", p.pipelineKey, i, common.ErrConfiguration)
		}
	}
	if !blendableColorFormats[p.colorFormat] {
		return fmt.Errorf("pipeline %s: color format %v is not a blendable color target: %w",
			p.pipelineKey, p.colorFormat, common.ErrConfiguration)
	}
	if !depthFormats[p.depthFormat] {
		return fmt.Errorf("pipeline %s: format %v is not a depth format: %w", p.pipelineKey, p.depthFormat, common.ErrConfiguration)
	}
	if err := p.shader.CheckVertexLayout(p.vertexLayout); err != nil {
		return fmt.Errorf("pipeline %s: %w", p.pipelineKey, err)
	}
	if err := p.shader.CheckBindGroups(len(p.bindGroupLayouts)); err != nil {
		return fmt.Errorf("pipeline %s: %w", p.pipelineKey, err)
	}
	return nil
}

func (p *pipeline) Descriptor(layout *wgpu.PipelineLayout, module *wgpu.ShaderModule) *wgpu.RenderPipelineDescriptor {
	return &wgpu.RenderPipelineDescriptor{
		Label:  p.pipelineKey,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.shader.VertexEntryPoint(),
			Buffers:    []wgpu.VertexBufferLayout{p.vertexLayout},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            p.depthFormat,
			DepthWriteEnabled: p.depthWriteEnabled,
			DepthCompare:      p.depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.shader.FragmentEntryPoint(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    p.colorFormat,
					Blend:     p.blendState,
					WriteMask: p.writeMask,
				},
			},
		},
	}
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline, layout *wgpu.PipelineLayout, module *wgpu.ShaderModule) {
	p.renderPipeline = rp
	p.layout = layout
	p.module = module
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}

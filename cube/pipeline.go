package cube

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/camera"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineKey labels the cube's render pipeline and its layout.
const PipelineKey = "Render Pipeline"

//go:embed assets/cube.wgsl
var cubeStages string

// ShaderSource returns the complete cube WGSL: the camera uniform declaration followed by the
// vs_main and fs_main stages.
func ShaderSource() string {
	return camera.GPUCameraUniformSource + "\n" + cubeStages
}

// NewShader parses the cube shader.
func NewShader() shader.Shader {
	return shader.NewShader("Cube Shader", ShaderSource())
}

// PipelineConfig assembles and validates the cube's pipeline configuration without touching the
// device. The pipeline layout holds exactly one bind group layout, the camera's, at group 0.
//
// Parameters:
//   - ctx: the render context providing the target formats
//   - cameraLayout: the camera's bind group layout
//
// Returns:
//   - pipeline.Pipeline: the unregistered pipeline
//   - error: an error wrapping common.ErrConfiguration if the layout is missing, a format is
//     unusable or the shader does not match the vertex layout
func PipelineConfig(ctx renderer.Context, cameraLayout *wgpu.BindGroupLayout) (pipeline.Pipeline, error) {
	if cameraLayout == nil {
		return nil, fmt.Errorf("pipeline %s: camera bind group layout is nil: %w", PipelineKey, common.ErrConfiguration)
	}

	replace := wgpu.BlendStateReplace
	p := pipeline.NewPipeline(PipelineKey,
		pipeline.WithShader(NewShader()),
		pipeline.WithVertexLayout(VertexLayout()),
		pipeline.WithBindGroupLayouts(cameraLayout),
		pipeline.WithColorFormat(ctx.SurfaceFormat()),
		pipeline.WithDepthFormat(ctx.DepthFormat()),
		pipeline.WithPrimitive(wgpu.PrimitiveTopologyTriangleList, wgpu.FrontFaceCCW, wgpu.CullModeBack),
		pipeline.WithDepthTest(wgpu.CompareFunctionLess, true),
		pipeline.WithBlend(&replace, wgpu.ColorWriteMaskAll),
	)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// BuildPipeline creates the cube's render pipeline for ctx's surface and depth formats.
//
// Parameters:
//   - ctx: the render context providing the device and target formats
//   - cameraLayout: the camera's bind group layout
//
// Returns:
//   - pipeline.Pipeline: the registered pipeline, owned by the caller
//   - error: an error wrapping common.ErrConfiguration if the layout is missing or a format is
//     unusable, or common.ErrPipelineCreation if the shader or a GPU object could not be created
func BuildPipeline(ctx renderer.Context, cameraLayout *wgpu.BindGroupLayout) (pipeline.Pipeline, error) {
	p, err := PipelineConfig(ctx, cameraLayout)
	if err != nil {
		return nil, err
	}
	if err := renderer.RegisterRenderPipeline(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

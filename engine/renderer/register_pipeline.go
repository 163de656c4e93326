package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RegisterRenderPipeline validates the pipeline configuration, compiles its shader, then creates the
// shader module, the pipeline layout and the render pipeline and stores them on p.
// Nothing is created on the device unless the configuration and the shader are valid.
//
// Parameters:
//   - ctx: the render context providing the device
//   - p: the pipeline configuration
//
// Returns:
//   - error: an error wrapping common.ErrConfiguration for an invalid configuration, or
//     common.ErrPipelineCreation if the shader does not compile or the device rejects an object
func RegisterRenderPipeline(ctx Context, p pipeline.Pipeline) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s := p.Shader()
	if err := s.Validate(); err != nil {
		return fmt.Errorf("pipeline %s: %w", p.PipelineKey(), err)
	}

	device := ctx.Device()
	module, err := device.CreateShaderModule(s.Module())
	if err != nil {
		return fmt.Errorf("pipeline %s: create shader module: %w: %w", p.PipelineKey(), common.ErrPipelineCreation, err)
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey() + " Layout",
		BindGroupLayouts: p.BindGroupLayouts(),
	})
	if err != nil {
		module.Release()
		return fmt.Errorf("pipeline %s: create layout: %w: %w", p.PipelineKey(), common.ErrPipelineCreation, err)
	}

	rp, err := device.CreateRenderPipeline(p.Descriptor(layout, module))
	if err != nil {
		layout.Release()
		module.Release()
		return fmt.Errorf("pipeline %s: create render pipeline: %w: %w", p.PipelineKey(), common.ErrPipelineCreation, err)
	}

	p.SetRenderPipeline(rp, layout, module)
	common.Logger().Debug("render pipeline registered", "pipeline", p.PipelineKey(), "color_format", p.ColorFormat(), "depth_format", p.DepthFormat())
	return nil
}

package renderer

import (
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// DrawCall encodes a single indexed draw into pass: the pipeline, the mesh's vertex buffer at slot 0,
// its uint32 index buffer, each bind group at its position in bindGroups, then DrawIndexed over
// every index with one instance. The bind groups stay owned by whoever created them.
//
// Parameters:
//   - pass: the render pass being recorded
//   - p: the registered pipeline
//   - meshProvider: the BindGroupProvider holding vertex and index buffers
//   - bindGroups: the bind groups set at group 0, 1, ...
func DrawCall(pass RenderPass, p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, bindGroups ...*wgpu.BindGroup) {
	pass.SetPipeline(p.RenderPipeline())
	pass.SetVertexBuffer(0, meshProvider.VertexBuffer(), 0, wgpu.WholeSize)
	pass.SetIndexBuffer(meshProvider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	pass.DrawIndexed(uint32(meshProvider.IndexCount()), 1, 0, 0, 0)
}

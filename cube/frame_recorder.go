package cube

import (
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// FrameRecorder records the cube's single draw into a render pass.
type FrameRecorder struct {
	pipeline pipeline.Pipeline
	mesh     bind_group_provider.BindGroupProvider
	camera   *wgpu.BindGroup // owned by the camera
}

// NewFrameRecorder binds a registered pipeline, the uploaded mesh and the camera's bind group.
// The recorder does not own any of them.
//
// Parameters:
//   - p: the registered cube pipeline
//   - resources: the cube's buffers
//   - cameraGroup: the camera's bind group
//
// Returns:
//   - *FrameRecorder: the recorder
func NewFrameRecorder(p pipeline.Pipeline, resources *Resources, cameraGroup *wgpu.BindGroup) *FrameRecorder {
	return &FrameRecorder{
		pipeline: p,
		mesh:     resources.Mesh(),
		camera:   cameraGroup,
	}
}

// Record sets the pipeline, the vertex buffer at slot 0, the uint32 index buffer and the camera
// at group 0, then issues DrawIndexed(36, 1, 0, 0, 0).
func (r *FrameRecorder) Record(pass renderer.RenderPass) {
	renderer.DrawCall(pass, r.pipeline, r.mesh, r.camera)
}

package cube

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// VertexLayout describes Vertex to the pipeline: position at location 0 and color at
// location 1, both vec3<f32>, one Vertex per vertex step.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout of the vertex buffer at slot 0
func VertexLayout() wgpu.VertexBufferLayout {
	var v Vertex
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(v)),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{
				Format:         wgpu.VertexFormatFloat32x3,
				Offset:         uint64(unsafe.Offsetof(v.Position)),
				ShaderLocation: 0,
			},
			{
				Format:         wgpu.VertexFormatFloat32x3,
				Offset:         uint64(unsafe.Offsetof(v.Color)),
				ShaderLocation: 1,
			},
		},
	}
}

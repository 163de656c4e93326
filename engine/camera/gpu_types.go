package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSource is the WGSL definition of the CameraUniform struct.
// Shaders that bind the camera prepend it to their own source.
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform mirrors the WGSL CameraUniform struct byte for byte (80 bytes).
type GPUCameraUniform struct {
	ViewProj       mgl32.Mat4 // offset  0: column-major view-projection (mat4x4<f32>)
	CameraPosition mgl32.Vec3 // offset 64: world-space eye position (vec3<f32>)
	Padding        float32    // offset 76
}

// GPUCameraUniformSize is the size of GPUCameraUniform in bytes.
const GPUCameraUniformSize = uint64(unsafe.Sizeof(GPUCameraUniform{}))

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g GPUCameraUniform) Size() int {
	return int(GPUCameraUniformSize)
}

// Marshal serializes the uniform into little-endian bytes for upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], math.Float32bits(g.Padding))
	return buf
}

// BindGroupLayoutDescriptor describes the camera bind group: one vertex-visible uniform buffer at
// binding 0 holding a GPUCameraUniform.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
func BindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: false,
					MinBindingSize:   GPUCameraUniformSize,
				},
			},
		},
	}
}

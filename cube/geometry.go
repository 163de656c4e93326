// Package cube renders a static colored unit cube viewed through an orbit camera.
//
// The cube is centered on the origin with side length 1. Each face carries its own flat color,
// so the mesh holds four vertices per face rather than eight shared corners.
package cube

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-cube/common"
)

// Vertex is one corner of a cube face as laid out in the vertex buffer.
type Vertex struct {
	Position [3]float32
	Color    [3]float32
}

// VertexCount is the number of vertices in the mesh, four per face.
const VertexCount = 24

// IndexCount is the number of indices in the mesh, two triangles per face.
const IndexCount = 36

var (
	red     = [3]float32{1, 0, 0}
	green   = [3]float32{0, 1, 0}
	blue    = [3]float32{0, 0, 1}
	yellow  = [3]float32{1, 1, 0}
	cyan    = [3]float32{0, 1, 1}
	magenta = [3]float32{1, 0, 1}
)

// vertices lists the faces in the order +Z, +X, -Z, -X, +Y, -Y. Corners within a face run
// counter-clockwise seen from outside the cube.
var vertices = [VertexCount]Vertex{
	// +Z
	{Position: [3]float32{0.5, 0.5, 0.5}, Color: red},
	{Position: [3]float32{-0.5, 0.5, 0.5}, Color: red},
	{Position: [3]float32{-0.5, -0.5, 0.5}, Color: red},
	{Position: [3]float32{0.5, -0.5, 0.5}, Color: red},
	// +X
	{Position: [3]float32{0.5, 0.5, 0.5}, Color: green},
	{Position: [3]float32{0.5, -0.5, 0.5}, Color: green},
	{Position: [3]float32{0.5, -0.5, -0.5}, Color: green},
	{Position: [3]float32{0.5, 0.5, -0.5}, Color: green},
	// -Z
	{Position: [3]float32{0.5, 0.5, -0.5}, Color: blue},
	{Position: [3]float32{0.5, -0.5, -0.5}, Color: blue},
	{Position: [3]float32{-0.5, -0.5, -0.5}, Color: blue},
	{Position: [3]float32{-0.5, 0.5, -0.5}, Color: blue},
	// -X
	{Position: [3]float32{-0.5, 0.5, 0.5}, Color: yellow},
	{Position: [3]float32{-0.5, 0.5, -0.5}, Color: yellow},
	{Position: [3]float32{-0.5, -0.5, -0.5}, Color: yellow},
	{Position: [3]float32{-0.5, -0.5, 0.5}, Color: yellow},
	// +Y
	{Position: [3]float32{0.5, 0.5, 0.5}, Color: cyan},
	{Position: [3]float32{0.5, 0.5, -0.5}, Color: cyan},
	{Position: [3]float32{-0.5, 0.5, -0.5}, Color: cyan},
	{Position: [3]float32{-0.5, 0.5, 0.5}, Color: cyan},
	// -Y
	{Position: [3]float32{0.5, -0.5, 0.5}, Color: magenta},
	{Position: [3]float32{-0.5, -0.5, 0.5}, Color: magenta},
	{Position: [3]float32{-0.5, -0.5, -0.5}, Color: magenta},
	{Position: [3]float32{0.5, -0.5, -0.5}, Color: magenta},
}

var indices = faceIndices()

// faceIndices splits each face b..b+3 along its b,b+2 diagonal.
func faceIndices() [IndexCount]uint32 {
	var out [IndexCount]uint32
	for face := range 6 {
		b := uint32(face * 4)
		copy(out[face*6:], []uint32{b, b + 1, b + 2, b, b + 2, b + 3})
	}
	return out
}

// Vertices returns a copy of the cube's 24 vertices.
//
// Returns:
//   - []Vertex: the vertices, four per face
func Vertices() []Vertex {
	return slices.Clone(vertices[:])
}

// Indices returns a copy of the cube's 36 triangle-list indices.
//
// Returns:
//   - []uint32: the indices, six per face
func Indices() []uint32 {
	return slices.Clone(indices[:])
}

// VertexBytes returns the vertex table as uploaded to the GPU.
func VertexBytes() []byte {
	return common.SliceToBytes(Vertices())
}

// IndexBytes returns the index table as uploaded to the GPU.
func IndexBytes() []byte {
	return common.SliceToBytes(Indices())
}

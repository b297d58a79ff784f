package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CubeFace identifies one side of a unit cube. The ordering is fixed and
// defines the vertex layout of every per-cube buffer: face f owns vertices
// [4f, 4f+4) and indices [6f, 6f+6).
type CubeFace int

const (
	PositiveZ CubeFace = iota
	NegativeZ
	PositiveX
	NegativeX
	PositiveY
	NegativeY
)

const (
	FaceCount       = 6
	VerticesPerFace = 4
	IndicesPerFace  = 6
	CubeVertexCount = FaceCount * VerticesPerFace
	CubeIndexCount  = FaceCount * IndicesPerFace
)

// QuadIndices triangulates the four corners of a face. Both triangles are
// counter-clockwise when the face is seen from outside the cube.
var QuadIndices = [IndicesPerFace]uint32{0, 1, 3, 1, 2, 3}

// Corners are listed bottom-left, bottom-right, top-right, top-left as seen
// from outside, relative to a unit cube centered at the origin.
var faceCorners = [FaceCount][VerticesPerFace]mgl32.Vec3{
	PositiveZ: {
		{-0.5, -0.5, 0.5},
		{0.5, -0.5, 0.5},
		{0.5, 0.5, 0.5},
		{-0.5, 0.5, 0.5},
	},
	NegativeZ: {
		{0.5, -0.5, -0.5},
		{-0.5, -0.5, -0.5},
		{-0.5, 0.5, -0.5},
		{0.5, 0.5, -0.5},
	},
	PositiveX: {
		{0.5, -0.5, 0.5},
		{0.5, -0.5, -0.5},
		{0.5, 0.5, -0.5},
		{0.5, 0.5, 0.5},
	},
	NegativeX: {
		{-0.5, -0.5, -0.5},
		{-0.5, -0.5, 0.5},
		{-0.5, 0.5, 0.5},
		{-0.5, 0.5, -0.5},
	},
	PositiveY: {
		{-0.5, 0.5, 0.5},
		{0.5, 0.5, 0.5},
		{0.5, 0.5, -0.5},
		{-0.5, 0.5, -0.5},
	},
	NegativeY: {
		{-0.5, -0.5, -0.5},
		{0.5, -0.5, -0.5},
		{0.5, -0.5, 0.5},
		{-0.5, -0.5, 0.5},
	},
}

var faceNormals = [FaceCount]mgl32.Vec3{
	PositiveZ: {0, 0, 1},
	NegativeZ: {0, 0, -1},
	PositiveX: {1, 0, 0},
	NegativeX: {-1, 0, 0},
	PositiveY: {0, 1, 0},
	NegativeY: {0, -1, 0},
}

// Faces lists every face in layout order.
var Faces = [FaceCount]CubeFace{PositiveZ, NegativeZ, PositiveX, NegativeX, PositiveY, NegativeY}

// Corners returns the four corner offsets of the face.
func (f CubeFace) Corners() [VerticesPerFace]mgl32.Vec3 {
	return faceCorners[f]
}

// Normal returns the outward unit normal of the face.
func (f CubeFace) Normal() mgl32.Vec3 {
	return faceNormals[f]
}

func (f CubeFace) String() string {
	switch f {
	case PositiveZ:
		return "+Z"
	case NegativeZ:
		return "-Z"
	case PositiveX:
		return "+X"
	case NegativeX:
		return "-X"
	case PositiveY:
		return "+Y"
	case NegativeY:
		return "-Y"
	default:
		return "?"
	}
}

// Quad builds one face of a cube centered at offset. uv holds the texture
// coordinate of each corner in corner order. Indices are biased by the
// face's slot in the cube layout plus indexOffset.
func Quad(face CubeFace, offset mgl32.Vec3, uv [VerticesPerFace]mgl32.Vec2, indexOffset uint32, color Color) ([VerticesPerFace]Vertex, [IndicesPerFace]uint32) {
	var (
		quad    [VerticesPerFace]Vertex
		indices [IndicesPerFace]uint32
	)
	base := uint32(face)*VerticesPerFace + indexOffset
	for i, idx := range QuadIndices {
		indices[i] = idx + base
	}
	normal := faceNormals[face]
	for i, corner := range faceCorners[face] {
		quad[i] = Vertex{
			Position: offset.Add(corner),
			Normal:   normal,
			Color:    color,
			TexCoord: uv[i],
		}
	}
	return quad, indices
}

// UniformCube builds all six faces of a cube centered at offset, every face
// using the same texture corners. The result always holds CubeVertexCount
// vertices and CubeIndexCount indices in [indexOffset, indexOffset+24).
func UniformCube(offset mgl32.Vec3, uv [VerticesPerFace]mgl32.Vec2, indexOffset uint32, color Color) ([]Vertex, []uint32) {
	vertices := make([]Vertex, 0, CubeVertexCount)
	indices := make([]uint32, 0, CubeIndexCount)
	for _, face := range Faces {
		quad, idx := Quad(face, offset, uv, indexOffset, color)
		vertices = append(vertices, quad[:]...)
		indices = append(indices, idx[:]...)
	}
	return vertices, indices
}

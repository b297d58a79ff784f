package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerVertex is the interleaved float layout width used for GPU upload:
// position(3) + normal(3) + color(4) + texcoord(2).
const FloatsPerVertex = 12

// Color is an RGBA color with 8 bits per channel.
type Color [4]uint8

// White is the untinted vertex color.
var White = Color{255, 255, 255, 255}

// Vec4 returns the color normalized to [0,1].
func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{
		float32(c[0]) / 255,
		float32(c[1]) / 255,
		float32(c[2]) / 255,
		float32(c[3]) / 255,
	}
}

// Vertex is a single mesh corner. Vertices are plain values and are copied
// into mesh buffers.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    Color
	TexCoord mgl32.Vec2
}

// AppendFloats appends the interleaved representation of v to dst.
func (v Vertex) AppendFloats(dst []float32) []float32 {
	c := v.Color.Vec4()
	return append(dst,
		v.Position[0], v.Position[1], v.Position[2],
		v.Normal[0], v.Normal[1], v.Normal[2],
		c[0], c[1], c[2], c[3],
		v.TexCoord[0], v.TexCoord[1],
	)
}

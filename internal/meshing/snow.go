package meshing

import (
	"chunkview/internal/geometry"
	"chunkview/internal/texture"
	"chunkview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// SnowTile is the atlas cell of the snow layer, regardless of what the block
// table says.
var SnowTile = texture.Tile{Column: 2, Row: 4}

// SnowRenderer draws a snow layer whose height grows with its metadata. The
// bottom face stays on the cell floor.
type SnowRenderer struct{}

// SnowHeight returns the fraction of a cell a snow layer fills:
// (metadata+1)/16. Metadata above 15 is clamped on purpose so a layer never
// grows past a full block; chunks clamp stored metadata the same way.
func SnowHeight(metadata uint8) float32 {
	m := min(metadata, world.MaxMetadata)
	return float32(m+1) / 16
}

func (SnowRenderer) Render(d world.BlockDescriptor, offset mgl32.Vec3, _ texture.Tile, indexOffset uint32) ([]geometry.Vertex, []uint32) {
	// Build the cube in [0,1]^3 so scaling Y keeps the floor at 0.
	overhead := mgl32.Vec3{0.5, 0.5, 0.5}
	vertices, indices := geometry.UniformCube(overhead, SnowTile.Corners(), indexOffset, geometry.White)

	height := SnowHeight(d.Metadata)
	shift := offset.Sub(overhead)
	for i := range vertices {
		p := vertices[i].Position
		if p.Y() > 0 {
			p[1] *= height
		}
		vertices[i].Position = p.Add(shift)
	}
	return vertices, indices
}

package meshing

import (
	"chunkview/internal/geometry"
	"chunkview/internal/profiling"
	"chunkview/internal/texture"
	"chunkview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is CPU-side chunk geometry. It is plain data and may be built on any
// goroutine; only the render thread turns it into GPU buffers.
type Mesh struct {
	Coord    world.ChunkCoord
	Vertices []geometry.Vertex
	Indices  []uint32
}

// IsEmpty reports whether the mesh has nothing to draw.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Indices) == 0
}

// Floats returns the vertices interleaved as geometry.FloatsPerVertex
// float32s each.
func (m *Mesh) Floats() []float32 {
	out := make([]float32, 0, len(m.Vertices)*geometry.FloatsPerVertex)
	for _, v := range m.Vertices {
		out = v.AppendFloats(out)
	}
	return out
}

// TileSource supplies the texture mapper for a block type.
type TileSource interface {
	Mapper(id world.BlockID) texture.Mapper
}

// MeshBuilder turns a chunk snapshot into a mesh.
type MeshBuilder interface {
	Build(s *world.Snapshot) *Mesh
}

// Builder emits every non-air block of a snapshot into one mesh. It keeps no
// state between calls and is safe for concurrent use.
type Builder struct {
	renderers *Renderers
	tiles     TileSource
}

func NewBuilder(renderers *Renderers, tiles TileSource) *Builder {
	return &Builder{renderers: renderers, tiles: tiles}
}

// Build scans the snapshot Y, then Z, then X and appends each block's
// geometry with its world-space offset.
func (b *Builder) Build(s *world.Snapshot) *Mesh {
	defer profiling.Track("meshing.Build")()

	coord := s.Coord()
	mesh := &Mesh{Coord: coord}
	if s.IsEmpty() {
		return mesh
	}
	mesh.Vertices = make([]geometry.Vertex, 0, s.SolidCount()*geometry.CubeVertexCount)
	mesh.Indices = make([]uint32, 0, s.SolidCount()*geometry.CubeIndexCount)

	baseX := float32(coord.X * world.ChunkSizeX)
	baseZ := float32(coord.Z * world.ChunkSizeZ)
	for y := range world.ChunkSizeY {
		for z := range world.ChunkSizeZ {
			for x := range world.ChunkSizeX {
				d := s.Descriptor(x, y, z)
				if d.ID == world.Air {
					continue
				}
				offset := mgl32.Vec3{baseX + float32(x), float32(y), baseZ + float32(z)}
				vertices, indices := b.renderers.RenderBlock(d, offset, b.tiles.Mapper(d.ID), uint32(len(mesh.Vertices)))
				mesh.Vertices = append(mesh.Vertices, vertices...)
				mesh.Indices = append(mesh.Indices, indices...)
			}
		}
	}
	return mesh
}

package meshing

import (
	"testing"

	"chunkview/internal/geometry"
	"chunkview/internal/registry"
	"chunkview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder() *Builder {
	return NewBuilder(NewDefaultRenderers(), registry.NewDefaultTable())
}

func TestBuildEmptyChunk(t *testing.T) {
	mesh := newTestBuilder().Build(world.NewChunk(world.ChunkCoord{X: 1, Z: 2}).Snapshot())
	assert.Equal(t, world.ChunkCoord{X: 1, Z: 2}, mesh.Coord)
	assert.Empty(t, mesh.Vertices)
	assert.Empty(t, mesh.Indices)
	assert.True(t, mesh.IsEmpty())
}

func TestBuildSingleBlock(t *testing.T) {
	c := world.NewChunk(world.ChunkCoord{})
	c.SetBlock(0, 0, 0, world.Block{ID: world.Stone})
	mesh := newTestBuilder().Build(c.Snapshot())

	require.Len(t, mesh.Vertices, 24)
	require.Len(t, mesh.Indices, 36)
	for _, i := range mesh.Indices {
		assert.Less(t, i, uint32(24))
	}
	assert.Len(t, mesh.Floats(), 24*geometry.FloatsPerVertex)
}

func TestBuildUsesWorldOffset(t *testing.T) {
	c := world.NewChunk(world.ChunkCoord{X: -1, Z: 2})
	c.SetBlock(3, 7, 4, world.Block{ID: world.Dirt})
	mesh := newTestBuilder().Build(c.Snapshot())

	var center mgl32.Vec3
	for _, v := range mesh.Vertices {
		center = center.Add(v.Position)
	}
	center = center.Mul(1.0 / float32(len(mesh.Vertices)))
	assert.InDelta(t, -16+3, center.X(), 1e-4)
	assert.InDelta(t, 7, center.Y(), 1e-4)
	assert.InDelta(t, 32+4, center.Z(), 1e-4)
}

func TestBuildIsDeterministicAndIndexed(t *testing.T) {
	c := world.NewChunk(world.ChunkCoord{X: 3})
	world.NewGenerator(7).PopulateChunk(c)
	snap := c.Snapshot()
	b := newTestBuilder()

	first := b.Build(snap)
	second := b.Build(snap)
	assert.Equal(t, first, second)

	require.Len(t, first.Vertices, snap.SolidCount()*geometry.CubeVertexCount)
	require.Len(t, first.Indices, snap.SolidCount()*geometry.CubeIndexCount)
	for q := 0; q < len(first.Indices); q += geometry.CubeIndexCount {
		base := uint32(q / geometry.CubeIndexCount * geometry.CubeVertexCount)
		for _, i := range first.Indices[q : q+geometry.CubeIndexCount] {
			assert.GreaterOrEqual(t, i, base)
			assert.Less(t, i, base+geometry.CubeVertexCount)
		}
	}
}

func BenchmarkBuild(b *testing.B) {
	c := world.NewChunk(world.ChunkCoord{})
	world.NewGenerator(1).PopulateChunk(c)
	snap := c.Snapshot()
	builder := newTestBuilder()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = builder.Build(snap)
	}
}

package physics

import (
	"testing"

	"chunkview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockMap map[world.BlockPos]world.Block

func (m blockMap) Block(x, y, z int) world.Block {
	return m[world.BlockPos{X: x, Y: y, Z: z}]
}

func TestRaycastLookingDown(t *testing.T) {
	s := world.NewStore()
	c := world.NewChunk(world.ChunkCoord{})
	world.NewFlatGenerator(4).PopulateChunk(c)
	require.True(t, s.AddChunk(c))

	hit, ok := Raycast(s, mgl32.Vec3{2, 10, 2}, mgl32.Vec3{0, -1, 0}, DefaultReach)
	require.True(t, ok)
	assert.Equal(t, world.BlockPos{X: 2, Y: 4, Z: 2}, hit.Block)
	assert.Equal(t, world.BlockPos{X: 2, Y: 5, Z: 2}, hit.Adjacent)
	assert.InDelta(t, 5.5, hit.Distance, 1e-5)
}

func TestRaycastSideFaces(t *testing.T) {
	blocks := blockMap{
		{X: 3, Y: 1, Z: 0}:   {ID: world.Stone},
		{X: -3, Y: 1, Z: -1}: {ID: world.Stone},
	}

	tests := []struct {
		name     string
		origin   mgl32.Vec3
		dir      mgl32.Vec3
		hit      world.BlockPos
		adjacent world.BlockPos
	}{
		{
			name:     "positive x",
			origin:   mgl32.Vec3{0, 1, 0},
			dir:      mgl32.Vec3{1, 0, 0},
			hit:      world.BlockPos{X: 3, Y: 1, Z: 0},
			adjacent: world.BlockPos{X: 2, Y: 1, Z: 0},
		},
		{
			name:     "negative x across a chunk border",
			origin:   mgl32.Vec3{0, 1, -1},
			dir:      mgl32.Vec3{-1, 0, 0},
			hit:      world.BlockPos{X: -3, Y: 1, Z: -1},
			adjacent: world.BlockPos{X: -2, Y: 1, Z: -1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := Raycast(blocks, tt.origin, tt.dir, 10)
			require.True(t, ok)
			assert.Equal(t, tt.hit, hit.Block)
			assert.Equal(t, tt.adjacent, hit.Adjacent)
			assert.InDelta(t, 2.5, hit.Distance, 1e-5)
		})
	}
}

func TestRaycastMisses(t *testing.T) {
	blocks := blockMap{{X: 0, Y: 0, Z: 0}: {ID: world.Stone}}

	_, ok := Raycast(blocks, mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0, 1, 0}, 20)
	assert.False(t, ok, "pointing away")

	_, ok = Raycast(blocks, mgl32.Vec3{0, 20, 0}, mgl32.Vec3{0, -1, 0}, 5)
	assert.False(t, ok, "out of reach")

	_, ok = Raycast(blocks, mgl32.Vec3{0, 2, 0}, mgl32.Vec3{}, 5)
	assert.False(t, ok, "zero direction")
}

func TestRaycastStartsInsideBlock(t *testing.T) {
	blocks := blockMap{{X: 0, Y: 0, Z: 0}: {ID: world.Stone}}
	hit, ok := Raycast(blocks, mgl32.Vec3{0.1, 0.2, 0}, mgl32.Vec3{1, 0, 0}, 5)
	require.True(t, ok)
	assert.Equal(t, hit.Block, hit.Adjacent)
	assert.Zero(t, hit.Distance)
}

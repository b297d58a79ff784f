package world

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// TerrainGenerator fills chunks with blocks.
type TerrainGenerator interface {
	HeightAt(worldX, worldZ int) int
	PopulateChunk(c *Chunk)
}

// Generator builds rolling perlin terrain with snow on the peaks.
type Generator struct {
	noise      *perlin.Perlin
	scale      float64
	baseHeight int
	amp        float64
	seaLevel   int
	snowLine   int
}

// NewGenerator creates a deterministic generator for seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		noise:      perlin.NewPerlin(2, 2, 3, seed),
		scale:      1.0 / 48.0,
		baseHeight: 40,
		amp:        28,
		seaLevel:   34,
		snowLine:   52,
	}
}

// HeightAt returns the surface block Y for a world column.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	n := g.noise.Noise2D(float64(worldX)*g.scale, float64(worldZ)*g.scale)
	h := int(math.Floor(float64(g.baseHeight) + n*g.amp))
	return min(max(h, 1), ChunkSizeY-2)
}

// PopulateChunk fills c from its coordinate.
func (g *Generator) PopulateChunk(c *Chunk) {
	for lx := range ChunkSizeX {
		for lz := range ChunkSizeZ {
			h := g.HeightAt(c.Coord.X*ChunkSizeX+lx, c.Coord.Z*ChunkSizeZ+lz)
			for y := 0; y <= h; y++ {
				c.SetBlock(lx, y, lz, Block{ID: g.blockAt(y, h)})
			}
			if h >= g.snowLine {
				depth := uint8(min(h-g.snowLine, MaxMetadata))
				c.SetBlock(lx, h+1, lz, Block{ID: SnowLayer, Metadata: depth})
			}
		}
	}
}

func (g *Generator) blockAt(y, surface int) BlockID {
	switch {
	case y == 0:
		return Bedrock
	case y < surface-3:
		return Stone
	case surface <= g.seaLevel && y >= surface-1:
		return Sand
	case y < surface:
		return Dirt
	default:
		return Grass
	}
}

// FlatGenerator produces a flat world of the given height.
type FlatGenerator struct {
	Height int
}

func NewFlatGenerator(height int) *FlatGenerator {
	return &FlatGenerator{Height: height}
}

func (g *FlatGenerator) HeightAt(int, int) int {
	return g.Height
}

func (g *FlatGenerator) PopulateChunk(c *Chunk) {
	for lx := range ChunkSizeX {
		for lz := range ChunkSizeZ {
			for y := 0; y <= g.Height; y++ {
				id := Dirt
				switch {
				case y == 0:
					id = Bedrock
				case y == g.Height:
					id = Grass
				}
				c.SetBlock(lx, y, lz, Block{ID: id})
			}
		}
	}
}

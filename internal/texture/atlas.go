package texture

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Atlas geometry: a square terrain image split into a 16x16 grid of 16px tiles.
const (
	TileSize     = 16
	AtlasSize    = 256
	TilesPerSide = AtlasSize / TileSize
)

// tileScale converts tile units to normalized atlas coordinates.
const tileScale = float32(TileSize) / float32(AtlasSize)

// Tile addresses one cell of the atlas grid.
type Tile struct {
	Column int
	Row    int
}

// DefaultTile is used whenever a block has no tile of its own.
var DefaultTile = Tile{}

// Valid reports whether the tile lies inside the atlas grid.
func (t Tile) Valid() bool {
	return t.Column >= 0 && t.Column < TilesPerSide && t.Row >= 0 && t.Row < TilesPerSide
}

// UV returns the normalized rectangle covered by the tile. Rows grow
// downwards, matching image space.
func (t Tile) UV() (min, max mgl32.Vec2) {
	min = mgl32.Vec2{float32(t.Column) * tileScale, float32(t.Row) * tileScale}
	max = mgl32.Vec2{float32(t.Column+1) * tileScale, float32(t.Row+1) * tileScale}
	return min, max
}

// Corners returns the texture coordinates for a face's corners in
// bottom-left, bottom-right, top-right, top-left order.
func (t Tile) Corners() [4]mgl32.Vec2 {
	min, max := t.UV()
	return [4]mgl32.Vec2{
		{min.X(), max.Y()},
		{max.X(), max.Y()},
		{max.X(), min.Y()},
		{min.X(), min.Y()},
	}
}

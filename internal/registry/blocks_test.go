package registry

import (
	"testing"

	"chunkview/internal/texture"
	"chunkview/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	tbl := NewDefaultTable()
	assert.Equal(t, 11, tbl.Len())

	id, ok := tbl.ByName("gravel")
	require.True(t, ok)
	assert.Equal(t, world.Gravel, id)

	assert.Equal(t, texture.Tile{Column: 1, Row: 0}, texture.Resolve(tbl.Mapper(world.Stone), 0))
	assert.Nil(t, tbl.Mapper(world.Air))
	assert.Nil(t, tbl.Mapper(200))
	assert.Equal(t, texture.DefaultTile, texture.Resolve(tbl.Mapper(200), 3))
}

func TestWoolUsesMetadata(t *testing.T) {
	m := NewDefaultTable().Mapper(world.Wool)
	assert.Equal(t, texture.Tile{Column: 0, Row: 4}, texture.Resolve(m, 0))
	assert.Equal(t, texture.Tile{Column: 1, Row: 8}, texture.Resolve(m, 14))
	for meta := range uint8(16) {
		tile, ok := m.TileFor(meta)
		assert.True(t, ok)
		assert.True(t, tile.Valid())
	}
}

func TestRegisterReplaces(t *testing.T) {
	tbl := NewTable()
	tbl.Register(&BlockDefinition{ID: 9, Name: "old", Tiles: texture.Fixed{Column: 1}})
	tbl.Register(&BlockDefinition{ID: 9, Name: "new", Tiles: texture.Fixed{Column: 2}})

	_, ok := tbl.ByName("old")
	assert.False(t, ok)
	def, ok := tbl.Lookup(9)
	require.True(t, ok)
	assert.Equal(t, "new", def.Name)
	assert.Equal(t, 1, tbl.Len())

	assert.Panics(t, func() { tbl.Register(nil) })
}

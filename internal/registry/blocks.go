package registry

import (
	"chunkview/internal/texture"
	"chunkview/internal/world"
)

// BlockDefinition describes a block type and where its texture lives in the
// terrain atlas.
type BlockDefinition struct {
	ID    world.BlockID
	Name  string
	Tiles texture.Mapper
}

// Table maps block IDs to definitions. It is filled during startup and only
// read afterwards.
type Table struct {
	defs  [256]*BlockDefinition
	names map[string]world.BlockID
}

func NewTable() *Table {
	return &Table{names: make(map[string]world.BlockID)}
}

// NewDefaultTable returns a table holding every built-in block.
func NewDefaultTable() *Table {
	t := NewTable()
	RegisterDefaults(t)
	return t
}

// Register installs def, replacing any earlier definition for the same ID.
func (t *Table) Register(def *BlockDefinition) {
	if def == nil {
		panic("registry: nil block definition")
	}
	if old := t.defs[def.ID]; old != nil {
		delete(t.names, old.Name)
	}
	t.defs[def.ID] = def
	if def.Name != "" {
		t.names[def.Name] = def.ID
	}
}

func (t *Table) Lookup(id world.BlockID) (*BlockDefinition, bool) {
	def := t.defs[id]
	return def, def != nil
}

func (t *Table) ByName(name string) (world.BlockID, bool) {
	id, ok := t.names[name]
	return id, ok
}

// Len returns the number of registered block types.
func (t *Table) Len() int {
	n := 0
	for _, def := range t.defs {
		if def != nil {
			n++
		}
	}
	return n
}

// Mapper returns the texture mapper for id. Unknown blocks and blocks without
// tiles get nil, which texture.Resolve turns into the default tile.
func (t *Table) Mapper(id world.BlockID) texture.Mapper {
	if def := t.defs[id]; def != nil {
		return def.Tiles
	}
	return nil
}

func tile(col, row int) *texture.Tile {
	return &texture.Tile{Column: col, Row: row}
}

func fixed(col, row int) texture.Mapper {
	return texture.Fixed{Column: col, Row: row}
}

// woolTiles lists the sixteen dye colors in metadata order.
var woolTiles = [16]texture.Tile{
	{Column: 0, Row: 4},  // white
	{Column: 2, Row: 13}, // orange
	{Column: 2, Row: 12}, // magenta
	{Column: 2, Row: 11}, // light blue
	{Column: 2, Row: 10}, // yellow
	{Column: 2, Row: 9},  // lime
	{Column: 2, Row: 8},  // pink
	{Column: 2, Row: 7},  // gray
	{Column: 1, Row: 14}, // light gray
	{Column: 1, Row: 13}, // cyan
	{Column: 1, Row: 12}, // purple
	{Column: 1, Row: 11}, // blue
	{Column: 1, Row: 10}, // brown
	{Column: 1, Row: 9},  // green
	{Column: 1, Row: 8},  // red
	{Column: 1, Row: 7},  // black
}

func woolMapper() texture.Mapper {
	byValue := make(map[uint8]texture.Tile, len(woolTiles))
	for meta, t := range woolTiles {
		byValue[uint8(meta)] = t
	}
	return texture.Variants{Base: tile(0, 4), ByValue: byValue}
}

// RegisterDefaults registers the built-in blocks in ID order.
func RegisterDefaults(t *Table) {
	t.Register(&BlockDefinition{ID: world.Air, Name: "air"})
	t.Register(&BlockDefinition{ID: world.Stone, Name: "stone", Tiles: fixed(1, 0)})
	t.Register(&BlockDefinition{ID: world.Grass, Name: "grass", Tiles: fixed(0, 0)})
	t.Register(&BlockDefinition{ID: world.Dirt, Name: "dirt", Tiles: fixed(2, 0)})
	t.Register(&BlockDefinition{ID: world.Cobblestone, Name: "cobblestone", Tiles: fixed(0, 1)})
	t.Register(&BlockDefinition{ID: world.Planks, Name: "planks", Tiles: fixed(4, 0)})
	t.Register(&BlockDefinition{ID: world.Bedrock, Name: "bedrock", Tiles: fixed(1, 1)})
	t.Register(&BlockDefinition{ID: world.Sand, Name: "sand", Tiles: fixed(2, 1)})
	t.Register(&BlockDefinition{ID: world.Gravel, Name: "gravel", Tiles: fixed(3, 1)})
	t.Register(&BlockDefinition{ID: world.Wool, Name: "wool", Tiles: woolMapper()})
	// The snow layer renderer pins its own tile.
	t.Register(&BlockDefinition{ID: world.SnowLayer, Name: "snow_layer", Tiles: fixed(2, 4)})
}

package texture

// Mapper resolves a block's metadata to an atlas tile. It is a pure
// function of the metadata. ok is false when the variant has no tile of its
// own; callers substitute DefaultTile.
type Mapper interface {
	TileFor(metadata uint8) (tile Tile, ok bool)
}

// MapperFunc adapts a function to the Mapper interface.
type MapperFunc func(metadata uint8) (Tile, bool)

func (f MapperFunc) TileFor(metadata uint8) (Tile, bool) {
	return f(metadata)
}

// Fixed maps every metadata value to the same tile.
type Fixed Tile

func (f Fixed) TileFor(uint8) (Tile, bool) {
	return Tile(f), true
}

// Variants maps individual metadata values to tiles. Metadata values with no
// entry fall back to Base when it is set.
type Variants struct {
	Base    *Tile
	ByValue map[uint8]Tile
}

func (v Variants) TileFor(metadata uint8) (Tile, bool) {
	if t, ok := v.ByValue[metadata]; ok {
		return t, true
	}
	if v.Base != nil {
		return *v.Base, true
	}
	return Tile{}, false
}

// Resolve asks m for a tile, falling back to DefaultTile when m is nil or has
// nothing for the metadata.
func Resolve(m Mapper, metadata uint8) Tile {
	if m == nil {
		return DefaultTile
	}
	if t, ok := m.TileFor(metadata); ok {
		return t
	}
	return DefaultTile
}

package world

// StackSnow thickens the snow on top of the column at x, z by one layer,
// starting a new layer above the surface when the top is not snow or is
// already a full block. It reports whether the world changed.
func StackSnow(s *Store, x, z int) bool {
	y, top, ok := s.Surface(x, z)
	if !ok {
		return false
	}
	if top.ID == SnowLayer && top.Metadata < MaxMetadata {
		return s.SetBlock(x, y, z, Block{ID: SnowLayer, Metadata: top.Metadata + 1})
	}
	if y+1 >= ChunkSizeY {
		return false
	}
	return s.SetBlock(x, y+1, z, Block{ID: SnowLayer})
}

// ClearTop removes the highest block of the column at x, z. Bedrock at the
// floor stays.
func ClearTop(s *Store, x, z int) bool {
	y, top, ok := s.Surface(x, z)
	if !ok || top.ID == Bedrock {
		return false
	}
	return s.SetBlock(x, y, z, Block{})
}

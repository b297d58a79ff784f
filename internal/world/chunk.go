package world

import "fmt"

const (
	ChunkSizeX = 16
	ChunkSizeY = 128
	ChunkSizeZ = 16

	SectionHeight = 16
	NumSections   = ChunkSizeY / SectionHeight
	SectionVolume = ChunkSizeX * SectionHeight * ChunkSizeZ
	ChunkVolume   = ChunkSizeX * ChunkSizeY * ChunkSizeZ
)

// ChunkCoord addresses a full-height chunk column.
type ChunkCoord struct {
	X, Z int
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// ChunkCoordAt returns the chunk containing world block column (x, z).
func ChunkCoordAt(x, z int) ChunkCoord {
	return ChunkCoord{X: floorDiv(x, ChunkSizeX), Z: floorDiv(z, ChunkSizeZ)}
}

// section is a 16x16x16 slab. Slabs that never held a solid block stay nil.
type section struct {
	ids   []BlockID
	meta  []uint8
	solid int
}

// Chunk is the mutable block grid of one column. It is owned by a single
// goroutine at a time; concurrent readers go through Snapshot.
type Chunk struct {
	Coord    ChunkCoord
	sections [NumSections]*section
	dirty    bool
}

// NewChunk creates an empty chunk.
func NewChunk(coord ChunkCoord) *Chunk {
	return &Chunk{Coord: coord, dirty: true}
}

func inBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSizeX && y >= 0 && y < ChunkSizeY && z >= 0 && z < ChunkSizeZ
}

// blockIndex orders cells Y, then Z, then X, the builder's scan order.
func blockIndex(x, y, z int) int {
	return (y*ChunkSizeZ+z)*ChunkSizeX + x
}

func sectionIndex(x, localY, z int) int {
	return (localY*ChunkSizeZ+z)*ChunkSizeX + x
}

// Block returns the block at local coordinates. Out-of-range positions read
// as air.
func (c *Chunk) Block(x, y, z int) Block {
	if !inBounds(x, y, z) {
		return Block{}
	}
	sec := c.sections[y/SectionHeight]
	if sec == nil {
		return Block{}
	}
	i := sectionIndex(x, y%SectionHeight, z)
	return Block{ID: sec.ids[i], Metadata: sec.meta[i]}
}

// SetBlock stores b at local coordinates and reports whether anything
// changed. Metadata above MaxMetadata is clamped.
func (c *Chunk) SetBlock(x, y, z int, b Block) bool {
	if !inBounds(x, y, z) {
		return false
	}
	if b.Metadata > MaxMetadata {
		b.Metadata = MaxMetadata
	}
	if b.ID == Air {
		b.Metadata = 0
	}

	secIdx := y / SectionHeight
	sec := c.sections[secIdx]
	if sec == nil {
		if b.ID == Air {
			return false
		}
		sec = &section{
			ids:  make([]BlockID, SectionVolume),
			meta: make([]uint8, SectionVolume),
		}
		c.sections[secIdx] = sec
	}

	i := sectionIndex(x, y%SectionHeight, z)
	old := Block{ID: sec.ids[i], Metadata: sec.meta[i]}
	if old == b {
		return false
	}
	switch {
	case old.ID == Air && b.ID != Air:
		sec.solid++
	case old.ID != Air && b.ID == Air:
		sec.solid--
	}
	sec.ids[i] = b.ID
	sec.meta[i] = b.Metadata
	if sec.solid == 0 {
		c.sections[secIdx] = nil
	}
	c.dirty = true
	return true
}

// IsEmpty reports whether the chunk holds no solid blocks.
func (c *Chunk) IsEmpty() bool {
	for _, sec := range c.sections {
		if sec != nil {
			return false
		}
	}
	return true
}

// IsDirty reports whether the chunk changed since the last snapshot.
func (c *Chunk) IsDirty() bool {
	return c.dirty
}

// Snapshot copies the chunk into an immutable Snapshot and marks it clean.
func (c *Chunk) Snapshot() *Snapshot {
	s := &Snapshot{coord: c.Coord}
	for secIdx, sec := range c.sections {
		if sec == nil {
			continue
		}
		baseY := secIdx * SectionHeight
		for ly := range SectionHeight {
			for z := range ChunkSizeZ {
				for x := range ChunkSizeX {
					si := sectionIndex(x, ly, z)
					if sec.ids[si] == Air {
						continue
					}
					di := blockIndex(x, baseY+ly, z)
					s.ids[di] = sec.ids[si]
					s.meta[di] = sec.meta[si]
					s.solid++
				}
			}
		}
	}
	s.fingerprint = s.computeFingerprint()
	c.dirty = false
	return s
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

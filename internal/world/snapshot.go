package world

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Snapshot is a read-only copy of one chunk's block grid. It is safe to share
// between goroutines.
type Snapshot struct {
	coord       ChunkCoord
	ids         [ChunkVolume]BlockID
	meta        [ChunkVolume]uint8
	solid       int
	fingerprint uint64
}

// Coord returns the chunk the snapshot was taken from.
func (s *Snapshot) Coord() ChunkCoord {
	return s.coord
}

// Block returns the block at local coordinates, air when out of range.
func (s *Snapshot) Block(x, y, z int) Block {
	if !inBounds(x, y, z) {
		return Block{}
	}
	i := blockIndex(x, y, z)
	return Block{ID: s.ids[i], Metadata: s.meta[i]}
}

// Descriptor returns the block at local coordinates together with its
// position.
func (s *Snapshot) Descriptor(x, y, z int) BlockDescriptor {
	b := s.Block(x, y, z)
	return BlockDescriptor{ID: b.ID, Metadata: b.Metadata, Coordinates: BlockPos{X: x, Y: y, Z: z}}
}

// SolidCount is the number of non-air blocks.
func (s *Snapshot) SolidCount() int {
	return s.solid
}

// IsEmpty reports whether the snapshot holds only air.
func (s *Snapshot) IsEmpty() bool {
	return s.solid == 0
}

// Fingerprint hashes the block contents and the chunk coordinate. Two
// snapshots with equal fingerprints mesh to the same geometry.
func (s *Snapshot) Fingerprint() uint64 {
	return s.fingerprint
}

func (s *Snapshot) computeFingerprint() uint64 {
	h := xxhash.New()
	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[0:], uint64(int64(s.coord.X)))
	binary.LittleEndian.PutUint64(hdr[8:], uint64(int64(s.coord.Z)))
	_, _ = h.Write(hdr[:])

	ids := make([]byte, ChunkVolume)
	for i, id := range s.ids {
		ids[i] = byte(id)
	}
	_, _ = h.Write(ids)
	_, _ = h.Write(s.meta[:])
	return h.Sum64()
}

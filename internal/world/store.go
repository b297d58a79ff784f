package world

import (
	"sync"

	"chunkview/internal/profiling"
)

// EventKind says what happened to a chunk.
type EventKind int

const (
	ChunkLoaded EventKind = iota
	ChunkModified
	ChunkUnloaded
)

func (k EventKind) String() string {
	switch k {
	case ChunkLoaded:
		return "loaded"
	case ChunkModified:
		return "modified"
	case ChunkUnloaded:
		return "unloaded"
	default:
		return "unknown"
	}
}

// ChunkEvent is delivered to listeners after the store has changed. Snapshot
// is nil for ChunkUnloaded. Seq is the store's modification count after the
// change; listeners see events in increasing Seq order.
type ChunkEvent struct {
	Kind     EventKind
	Coord    ChunkCoord
	Snapshot *Snapshot
	Seq      uint64
}

// Listener receives chunk events. It runs on the goroutine that changed the
// store and may read the store, but must not call its mutating methods.
type Listener func(ChunkEvent)

// Store holds the loaded chunks keyed by coordinate.
type Store struct {
	// eventMu is taken before mu by every mutation and held until its
	// listeners return, so events are delivered in modification order.
	eventMu   sync.Mutex
	mu        sync.RWMutex
	chunks    map[ChunkCoord]*Chunk
	listeners []Listener
	modCount  uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{chunks: make(map[ChunkCoord]*Chunk)}
}

// Subscribe registers fn for every subsequent event.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// notify must be called with eventMu held and mu released.
func (s *Store) notify(listeners []Listener, ev ChunkEvent) {
	for _, fn := range listeners {
		fn(ev)
	}
}

// HasChunk reports whether coord is loaded.
func (s *Store) HasChunk(coord ChunkCoord) bool {
	s.mu.RLock()
	_, ok := s.chunks[coord]
	s.mu.RUnlock()
	return ok
}

// Len returns the number of loaded chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// ModCount increases on every add, change and removal.
func (s *Store) ModCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modCount
}

// AddChunk installs a populated chunk. A chunk already loaded at the same
// coordinate is kept and false is returned.
func (s *Store) AddChunk(c *Chunk) bool {
	s.eventMu.Lock()
	defer s.eventMu.Unlock()
	s.mu.Lock()
	if _, ok := s.chunks[c.Coord]; ok {
		s.mu.Unlock()
		return false
	}
	s.chunks[c.Coord] = c
	s.modCount++
	ev := ChunkEvent{Kind: ChunkLoaded, Coord: c.Coord, Snapshot: c.Snapshot(), Seq: s.modCount}
	listeners := s.listeners
	s.mu.Unlock()

	s.notify(listeners, ev)
	return true
}

// Snapshot returns an immutable copy of the chunk at coord.
func (s *Store) Snapshot(coord ChunkCoord) (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chunks[coord]
	if !ok {
		return nil, false
	}
	return c.Snapshot(), true
}

// Block returns the block at world coordinates; unloaded space reads as air.
func (s *Store) Block(x, y, z int) Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chunks[ChunkCoordAt(x, z)]
	if !ok {
		return Block{}
	}
	return c.Block(mod(x, ChunkSizeX), y, mod(z, ChunkSizeZ))
}

// Surface returns the highest non-air block in the column at x, z. ok is
// false when the column is unloaded or empty.
func (s *Store) Surface(x, z int) (y int, b Block, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, loaded := s.chunks[ChunkCoordAt(x, z)]
	if !loaded {
		return 0, Block{}, false
	}
	lx, lz := mod(x, ChunkSizeX), mod(z, ChunkSizeZ)
	for y := ChunkSizeY - 1; y >= 0; y-- {
		if b := c.Block(lx, y, lz); !b.IsAir() {
			return y, b, true
		}
	}
	return 0, Block{}, false
}

// SetBlock changes a block at world coordinates. The owning chunk must be
// loaded. Listeners see one ChunkModified event carrying a fresh snapshot.
func (s *Store) SetBlock(x, y, z int, b Block) bool {
	coord := ChunkCoordAt(x, z)
	s.eventMu.Lock()
	defer s.eventMu.Unlock()
	s.mu.Lock()
	c, ok := s.chunks[coord]
	if !ok || !c.SetBlock(mod(x, ChunkSizeX), y, mod(z, ChunkSizeZ), b) {
		s.mu.Unlock()
		return false
	}
	s.modCount++
	ev := ChunkEvent{Kind: ChunkModified, Coord: coord, Snapshot: c.Snapshot(), Seq: s.modCount}
	listeners := s.listeners
	s.mu.Unlock()

	s.notify(listeners, ev)
	return true
}

// Remove unloads the chunk at coord.
func (s *Store) Remove(coord ChunkCoord) bool {
	s.eventMu.Lock()
	defer s.eventMu.Unlock()
	s.mu.Lock()
	if _, ok := s.chunks[coord]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.chunks, coord)
	s.modCount++
	ev := ChunkEvent{Kind: ChunkUnloaded, Coord: coord, Seq: s.modCount}
	listeners := s.listeners
	s.mu.Unlock()

	s.notify(listeners, ev)
	return true
}

// EvictFarChunks unloads every chunk further than radius chunks from center
// and returns the removed coordinates.
func (s *Store) EvictFarChunks(center ChunkCoord, radius int) []ChunkCoord {
	defer profiling.Track("world.EvictFarChunks")()
	var far []ChunkCoord
	s.mu.RLock()
	for coord := range s.chunks {
		dx := coord.X - center.X
		dz := coord.Z - center.Z
		if dx*dx+dz*dz > radius*radius {
			far = append(far, coord)
		}
	}
	s.mu.RUnlock()

	removed := far[:0]
	for _, coord := range far {
		if s.Remove(coord) {
			removed = append(removed, coord)
		}
	}
	return removed
}

package world

import (
	"context"
	"math"
	"sync"

	"chunkview/internal/profiling"
)

// Streamer generates chunks around the viewer on background goroutines and
// installs them into a Store, which in turn notifies its listeners.
type Streamer struct {
	store *Store
	gen   TerrainGenerator

	jobs      chan ChunkCoord
	pendingMu sync.Mutex
	pending   map[ChunkCoord]struct{}

	maxJobsPerCall int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStreamer starts workers generator goroutines.
func NewStreamer(store *Store, gen TerrainGenerator, workers int) *Streamer {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Streamer{
		store:          store,
		gen:            gen,
		jobs:           make(chan ChunkCoord, 1024),
		pending:        make(map[ChunkCoord]struct{}),
		maxJobsPerCall: 256,
		ctx:            ctx,
		cancel:         cancel,
	}
	for range max(workers, 1) {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

// Close stops the workers and waits for them.
func (s *Streamer) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Streamer) worker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case coord := <-s.jobs:
			s.generate(coord)
			s.pendingMu.Lock()
			delete(s.pending, coord)
			s.pendingMu.Unlock()
		}
	}
}

func (s *Streamer) generate(coord ChunkCoord) {
	if s.store.HasChunk(coord) {
		return
	}
	c := NewChunk(coord)
	s.gen.PopulateChunk(c)
	s.store.AddChunk(c)
}

// LoadSync generates every missing chunk within radius of center on the
// calling goroutine.
func (s *Streamer) LoadSync(center ChunkCoord, radius int) {
	defer profiling.Track("world.LoadSync")()
	for _, coord := range ring(center, radius) {
		s.generate(coord)
	}
}

// StreamAround queues missing chunks within radius, nearest rings first.
// It never blocks; coordinates that do not fit in the queue are retried on
// the next call.
func (s *Streamer) StreamAround(center ChunkCoord, radius int) int {
	defer profiling.Track("world.StreamAround")()
	pushed := 0
	for _, coord := range ring(center, radius) {
		if pushed >= s.maxJobsPerCall {
			break
		}
		if s.request(coord) {
			pushed++
		}
	}
	return pushed
}

func (s *Streamer) request(coord ChunkCoord) bool {
	if s.store.HasChunk(coord) {
		return false
	}
	s.pendingMu.Lock()
	if _, ok := s.pending[coord]; ok {
		s.pendingMu.Unlock()
		return false
	}
	s.pending[coord] = struct{}{}
	s.pendingMu.Unlock()

	select {
	case s.jobs <- coord:
		return true
	default:
		s.pendingMu.Lock()
		delete(s.pending, coord)
		s.pendingMu.Unlock()
		return false
	}
}

// EvictFar unloads chunks outside radius of center.
func (s *Streamer) EvictFar(center ChunkCoord, radius int) int {
	return len(s.store.EvictFarChunks(center, radius))
}

// ColumnAt returns the chunk holding the world position x, z. Blocks are
// centred on integer coordinates, so block n spans [n-0.5, n+0.5).
func ColumnAt(x, z float32) ChunkCoord {
	return ChunkCoordAt(int(math.Floor(float64(x)+0.5)), int(math.Floor(float64(z)+0.5)))
}

// ring lists the coordinates of a disc of the given radius ordered by
// square ring, center first.
func ring(center ChunkCoord, radius int) []ChunkCoord {
	out := []ChunkCoord{center}
	for r := 1; r <= radius; r++ {
		for dx := -r; dx <= r; dx++ {
			for dz := -r; dz <= r; dz++ {
				if max(abs(dx), abs(dz)) != r || dx*dx+dz*dz > radius*radius {
					continue
				}
				out = append(out, ChunkCoord{X: center.X + dx, Z: center.Z + dz})
			}
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

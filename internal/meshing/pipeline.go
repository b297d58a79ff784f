package meshing

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"chunkview/internal/metrics"
	"chunkview/internal/world"

	"github.com/alitto/pond/v2"
)

var (
	// ErrPipelineClosed is returned by Enqueue after Dispose.
	ErrPipelineClosed = errors.New("meshing: pipeline closed")
	ErrNilSnapshot    = errors.New("meshing: nil snapshot")
)

// Result is a completed mesh. Generation increases with every accepted
// Enqueue across all keys; a consumer keeps the highest generation it has
// seen per chunk and drops anything older.
type Result struct {
	Mesh       *Mesh
	Generation uint64
}

type slotState int

const (
	slotQueued slotState = iota
	slotBuilding
)

// slot tracks the single outstanding build for a chunk key.
type slot struct {
	state slotState
	snap  *world.Snapshot
	gen   uint64
	// rebuild is set when a newer snapshot arrived during a build.
	rebuild bool
	// forgotten is set by Forget during a build.
	forgotten bool
}

// Options configures a Pipeline.
type Options struct {
	Workers      int
	ResultBuffer int
	Metrics      *metrics.Pipeline
}

// Pipeline builds chunk meshes on a worker pool and hands them to the render
// thread through a buffered channel. Each chunk key has at most one build
// outstanding; requests that arrive meanwhile are merged into it.
type Pipeline struct {
	builder MeshBuilder
	workers int
	metrics *metrics.Pipeline
	results chan Result

	mu        sync.Mutex
	slots     map[world.ChunkCoord]*slot
	delivered map[world.ChunkCoord]uint64 // fingerprint of the last delivered snapshot
	gen       uint64
	started   bool
	closed    bool
	pool      pond.Pool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewPipeline(builder MeshBuilder, opts Options) *Pipeline {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pipeline{
		builder:   builder,
		workers:   max(opts.Workers, 1),
		metrics:   opts.Metrics,
		results:   make(chan Result, max(opts.ResultBuffer, 1)),
		slots:     make(map[world.ChunkCoord]*slot),
		delivered: make(map[world.ChunkCoord]uint64),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start creates the worker pool and schedules everything enqueued so far.
// Calling it again, or after Dispose, does nothing.
func (p *Pipeline) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true
	p.pool = pond.NewPool(p.workers)
	for coord := range p.slots {
		p.submit(coord)
	}
	log.Printf("Meshing pipeline started with %d workers", p.workers)
}

// Enqueue schedules a build of s. It never blocks. If a build for the same
// chunk is already queued, s replaces its snapshot; if one is running, s is
// built once it finishes and the running result is dropped. A snapshot
// identical to the last delivered one for its chunk is ignored.
func (p *Pipeline) Enqueue(s *world.Snapshot) error {
	if s == nil {
		return ErrNilSnapshot
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPipelineClosed
	}
	p.metrics.IncEnqueued()

	coord := s.Coord()
	if sl, ok := p.slots[coord]; ok {
		p.gen++
		sl.snap = s
		sl.gen = p.gen
		sl.forgotten = false
		if sl.state == slotBuilding {
			sl.rebuild = true
		}
		p.metrics.IncCoalesced()
		return nil
	}
	if fp, ok := p.delivered[coord]; ok && fp == s.Fingerprint() {
		p.metrics.IncCoalesced()
		return nil
	}

	p.gen++
	p.slots[coord] = &slot{state: slotQueued, snap: s, gen: p.gen}
	p.metrics.SetPending(len(p.slots))
	if p.started {
		p.submit(coord)
	}
	return nil
}

// Forget drops the chunk's queued build and its delivered fingerprint, so a
// later Enqueue builds it again even if unchanged. A build already running is
// discarded when it finishes. The returned generation is at least that of
// every result the chunk could still deliver from earlier requests.
func (p *Pipeline) Forget(coord world.ChunkCoord) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.delivered, coord)
	if sl, ok := p.slots[coord]; ok {
		if sl.state == slotQueued {
			delete(p.slots, coord)
			p.metrics.SetPending(len(p.slots))
		} else {
			sl.forgotten = true
			sl.rebuild = false
		}
	}
	return p.gen
}

// Invalidate forgets the chunk's delivered fingerprint so the next Enqueue
// builds it even if unchanged. Queued and running builds are untouched. The
// consumer calls it when a delivered mesh could not be used.
func (p *Pipeline) Invalidate(coord world.ChunkCoord) {
	p.mu.Lock()
	delete(p.delivered, coord)
	p.mu.Unlock()
}

// submit must be called with p.mu held.
func (p *Pipeline) submit(coord world.ChunkCoord) {
	p.pool.Submit(func() { p.run(coord) })
}

func (p *Pipeline) run(coord world.ChunkCoord) {
	for {
		p.mu.Lock()
		sl, ok := p.slots[coord]
		if !ok || p.closed || sl.state != slotQueued {
			p.mu.Unlock()
			return
		}
		sl.state = slotBuilding
		snap, gen := sl.snap, sl.gen
		p.mu.Unlock()

		start := time.Now()
		mesh := p.builder.Build(snap)
		p.metrics.ObserveBuild(time.Since(start))

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			p.metrics.AddDiscarded(1)
			return
		}
		if sl.rebuild {
			sl.rebuild = false
			sl.state = slotQueued
			p.mu.Unlock()
			p.metrics.IncSuperseded()
			continue
		}
		delete(p.slots, coord)
		p.metrics.SetPending(len(p.slots))
		if sl.forgotten {
			p.mu.Unlock()
			p.metrics.IncSuperseded()
			return
		}
		p.delivered[coord] = snap.Fingerprint()
		p.mu.Unlock()

		select {
		case p.results <- Result{Mesh: mesh, Generation: gen}:
			p.metrics.IncDelivered()
		case <-p.ctx.Done():
			p.metrics.AddDiscarded(1)
		}
		return
	}
}

// Results is the completion channel. Only the render thread should receive
// from it, and never blockingly.
func (p *Pipeline) Results() <-chan Result {
	return p.results
}

// Drain passes every result that is ready right now to fn and returns how
// many there were. It does not wait for builds in progress.
func (p *Pipeline) Drain(fn func(Result)) int {
	n := 0
	for {
		select {
		case r := <-p.results:
			fn(r)
			n++
		default:
			return n
		}
	}
}

// Pending returns the number of chunk keys queued or building.
func (p *Pipeline) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots)
}

// Dispose stops accepting work, waits for running builds and throws away
// their output along with anything still in the result channel.
func (p *Pipeline) Dispose() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	abandoned := 0
	for _, sl := range p.slots {
		if sl.state == slotQueued {
			abandoned++
		}
	}
	clear(p.slots)
	p.metrics.SetPending(0)
	pool := p.pool
	p.mu.Unlock()

	p.cancel()
	if pool != nil {
		pool.StopAndWait()
	}
	discarded := p.Drain(func(Result) {})
	p.metrics.AddDiscarded(discarded)
	log.Printf("Meshing pipeline disposed: %d queued builds abandoned, %d results discarded", abandoned, discarded)
}

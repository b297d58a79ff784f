package meshing

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"chunkview/internal/metrics"
	"chunkview/internal/world"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedBuilder blocks every build until released and records how many run
// at once per chunk.
type gatedBuilder struct {
	inner   MeshBuilder
	started chan *world.Snapshot
	release chan struct{}

	mu      sync.Mutex
	running map[world.ChunkCoord]int
	maxSeen int
	builds  atomic.Int32
}

func newGatedBuilder() *gatedBuilder {
	return &gatedBuilder{
		inner:   newTestBuilder(),
		started: make(chan *world.Snapshot, 16),
		release: make(chan struct{}),
		running: make(map[world.ChunkCoord]int),
	}
}

func (g *gatedBuilder) Build(s *world.Snapshot) *Mesh {
	g.mu.Lock()
	g.running[s.Coord()]++
	g.maxSeen = max(g.maxSeen, g.running[s.Coord()])
	g.mu.Unlock()

	g.builds.Add(1)
	g.started <- s
	<-g.release

	g.mu.Lock()
	g.running[s.Coord()]--
	g.mu.Unlock()
	return g.inner.Build(s)
}

func snapshotWith(coord world.ChunkCoord, blocks int) *world.Snapshot {
	c := world.NewChunk(coord)
	for i := range blocks {
		c.SetBlock(i%world.ChunkSizeX, i/world.ChunkSizeX, 0, world.Block{ID: world.Stone})
	}
	return c.Snapshot()
}

func waitResult(t *testing.T, p *Pipeline) Result {
	t.Helper()
	select {
	case r := <-p.Results():
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a mesh")
		return Result{}
	}
}

func assertNoResult(t *testing.T, p *Pipeline) {
	t.Helper()
	select {
	case r := <-p.Results():
		t.Fatalf("unexpected result for %v", r.Mesh.Coord)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPipelineDeliversMesh(t *testing.T) {
	p := NewPipeline(newTestBuilder(), Options{Workers: 2, ResultBuffer: 4})
	defer p.Dispose()
	p.Start()

	require.NoError(t, p.Enqueue(snapshotWith(world.ChunkCoord{X: 1}, 3)))
	r := waitResult(t, p)
	assert.Equal(t, world.ChunkCoord{X: 1}, r.Mesh.Coord)
	assert.Len(t, r.Mesh.Vertices, 3*24)
	assert.Equal(t, uint64(1), r.Generation)
	assert.Eventually(t, func() bool { return p.Pending() == 0 }, time.Second, time.Millisecond)
}

func TestPipelineCoalescesQueuedRequests(t *testing.T) {
	m := metrics.NewPipeline(prometheus.NewRegistry())
	p := NewPipeline(newTestBuilder(), Options{Workers: 2, ResultBuffer: 4, Metrics: m})
	defer p.Dispose()

	key := world.ChunkCoord{X: 4, Z: 4}
	require.NoError(t, p.Enqueue(snapshotWith(key, 1)))
	require.NoError(t, p.Enqueue(snapshotWith(key, 2)))
	assert.Equal(t, 1, p.Pending())
	p.Start()

	r := waitResult(t, p)
	assert.Len(t, r.Mesh.Vertices, 2*24)
	assert.Equal(t, uint64(2), r.Generation)
	assertNoResult(t, p)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Coalesced))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Enqueued))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Delivered))
}

func TestPipelineRebuildsAfterRequestDuringBuild(t *testing.T) {
	g := newGatedBuilder()
	m := metrics.NewPipeline(nil)
	p := NewPipeline(g, Options{Workers: 4, ResultBuffer: 4, Metrics: m})
	defer p.Dispose()
	p.Start()

	key := world.ChunkCoord{}
	require.NoError(t, p.Enqueue(snapshotWith(key, 1)))
	<-g.started

	require.NoError(t, p.Enqueue(snapshotWith(key, 2)))
	require.NoError(t, p.Enqueue(snapshotWith(key, 3)))
	g.release <- struct{}{}

	second := <-g.started
	assert.Equal(t, 3, second.SolidCount())
	g.release <- struct{}{}

	r := waitResult(t, p)
	assert.Len(t, r.Mesh.Vertices, 3*24)
	assert.Equal(t, uint64(3), r.Generation)
	assertNoResult(t, p)

	assert.Equal(t, int32(2), g.builds.Load())
	assert.Equal(t, 1, g.maxSeen)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Superseded))
}

func TestPipelineSkipsUnchangedSnapshot(t *testing.T) {
	p := NewPipeline(newTestBuilder(), Options{Workers: 1, ResultBuffer: 4})
	defer p.Dispose()
	p.Start()

	key := world.ChunkCoord{Z: -3}
	require.NoError(t, p.Enqueue(snapshotWith(key, 5)))
	waitResult(t, p)

	require.Eventually(t, func() bool { return p.Pending() == 0 }, time.Second, time.Millisecond)
	require.NoError(t, p.Enqueue(snapshotWith(key, 5)))
	assert.Equal(t, 0, p.Pending())
	assertNoResult(t, p)

	floor := p.Forget(key)
	assert.Equal(t, uint64(1), floor)
	require.NoError(t, p.Enqueue(snapshotWith(key, 5)))
	r := waitResult(t, p)
	assert.Greater(t, r.Generation, floor)
}

func TestPipelineInvalidateAllowsIdenticalRebuild(t *testing.T) {
	p := NewPipeline(newTestBuilder(), Options{Workers: 1, ResultBuffer: 4})
	defer p.Dispose()
	p.Start()

	key := world.ChunkCoord{X: 4, Z: 4}
	require.NoError(t, p.Enqueue(snapshotWith(key, 2)))
	first := waitResult(t, p)
	require.Eventually(t, func() bool { return p.Pending() == 0 }, time.Second, time.Millisecond)

	p.Invalidate(key)
	require.NoError(t, p.Enqueue(snapshotWith(key, 2)))
	r := waitResult(t, p)
	assert.Equal(t, key, r.Mesh.Coord)
	assert.Greater(t, r.Generation, first.Generation)
}

func TestPipelineForgetDuringBuildDropsResult(t *testing.T) {
	g := newGatedBuilder()
	p := NewPipeline(g, Options{Workers: 1, ResultBuffer: 4})
	defer p.Dispose()
	p.Start()

	key := world.ChunkCoord{X: 9}
	require.NoError(t, p.Enqueue(snapshotWith(key, 1)))
	<-g.started
	p.Forget(key)
	g.release <- struct{}{}

	assertNoResult(t, p)
	assert.Eventually(t, func() bool { return p.Pending() == 0 }, time.Second, time.Millisecond)
}

func TestPipelineBuildsKeysIndependently(t *testing.T) {
	p := NewPipeline(newTestBuilder(), Options{Workers: 4, ResultBuffer: 16})
	defer p.Dispose()
	p.Start()

	want := map[world.ChunkCoord]bool{}
	for x := range 8 {
		key := world.ChunkCoord{X: x}
		want[key] = true
		require.NoError(t, p.Enqueue(snapshotWith(key, x+1)))
	}
	got := map[world.ChunkCoord]bool{}
	for range want {
		got[waitResult(t, p).Mesh.Coord] = true
	}
	assert.Equal(t, want, got)
}

func TestPipelineDispose(t *testing.T) {
	g := newGatedBuilder()
	m := metrics.NewPipeline(nil)
	p := NewPipeline(g, Options{Workers: 1, ResultBuffer: 1, Metrics: m})
	p.Start()

	require.NoError(t, p.Enqueue(snapshotWith(world.ChunkCoord{X: 1}, 1)))
	require.NoError(t, p.Enqueue(snapshotWith(world.ChunkCoord{X: 2}, 1)))
	<-g.started

	done := make(chan struct{})
	go func() {
		p.Dispose()
		close(done)
	}()
	require.Eventually(t, func() bool {
		return p.Enqueue(snapshotWith(world.ChunkCoord{X: 3}, 1)) == ErrPipelineClosed
	}, time.Second, time.Millisecond)

	close(g.release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispose did not return")
	}

	assert.Equal(t, 0, p.Drain(func(Result) {}))
	assert.Equal(t, int32(1), g.builds.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Discarded))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Delivered))

	p.Dispose()
	p.Start()
	assert.ErrorIs(t, p.Enqueue(snapshotWith(world.ChunkCoord{}, 1)), ErrPipelineClosed)
}

func TestPipelineEnqueueNeverBlocks(t *testing.T) {
	g := newGatedBuilder()
	p := NewPipeline(g, Options{Workers: 1, ResultBuffer: 1})
	p.Start()

	done := make(chan struct{})
	go func() {
		for x := range 500 {
			_ = p.Enqueue(snapshotWith(world.ChunkCoord{X: x}, 1))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Enqueue blocked")
	}
	assert.ErrorIs(t, p.Enqueue(nil), ErrNilSnapshot)

	go func() {
		for range g.started {
		}
	}()
	close(g.release)
	p.Dispose()
}

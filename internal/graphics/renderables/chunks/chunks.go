package chunks

import (
	"cmp"
	"log"
	"slices"
	"sync"

	"chunkview/internal/config"
	"chunkview/internal/graphics"
	"chunkview/internal/graphics/renderer"
	"chunkview/internal/meshing"
	"chunkview/internal/metrics"
	"chunkview/internal/profiling"
	"chunkview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Source yields completed meshes without blocking and is told when a
// chunk's mesh is dropped on this side. *meshing.Pipeline implements it.
type Source interface {
	Drain(fn func(meshing.Result)) int
	// Forget drops outstanding work for coord and returns the highest
	// generation already handed out for it.
	Forget(coord world.ChunkCoord) uint64
	// Invalidate makes the next request for coord build even if unchanged.
	Invalidate(coord world.ChunkCoord)
}

type entry struct {
	coord  world.ChunkCoord
	buffer graphics.Buffer
	gen    uint64
	seq    uint64
}

// Chunks owns the realized chunk meshes and draws them nearest first.
//
// Prepare, Render and Dispose run on the GL thread. SetViewer, Unload and
// Prune may be called from any goroutine; they queue work that the next
// Prepare applies after the completed meshes have been realized.
type Chunks struct {
	device  graphics.Device
	source  Source
	metrics *metrics.Meshes

	entries []*entry
	index   map[world.ChunkCoord]*entry
	floors  map[world.ChunkCoord]uint64
	nextSeq uint64
	viewer  mgl32.Vec3
	drawn   int

	mu        sync.Mutex
	actions   []func()
	scheduled mgl32.Vec3
	hasViewer bool
}

func New(device graphics.Device, source Source, m *metrics.Meshes) *Chunks {
	return &Chunks{
		device:  device,
		source:  source,
		metrics: m,
		index:   make(map[world.ChunkCoord]*entry),
		floors:  make(map[world.ChunkCoord]uint64),
	}
}

func (c *Chunks) Init() error {
	return nil
}

func (c *Chunks) SetViewport(int, int) {}

func (c *Chunks) schedule(fn func()) {
	c.mu.Lock()
	c.actions = append(c.actions, fn)
	c.mu.Unlock()
}

// SetViewer records the viewer position. Once it has moved further than the
// configured sort threshold since the last scheduled sort, a re-sort is
// queued for the next frame.
func (c *Chunks) SetViewer(pos mgl32.Vec3) {
	c.mu.Lock()
	if c.hasViewer && pos.Sub(c.scheduled).Len() <= config.GetSortThreshold() {
		c.mu.Unlock()
		return
	}
	c.hasViewer = true
	c.scheduled = pos
	c.actions = append(c.actions, func() { c.sortFrom(pos) })
	c.mu.Unlock()
}

// Unload queues removal of a chunk's mesh. Results for the chunk with a
// generation at or below floor are ignored from then on, so a build that
// was already in flight cannot bring the mesh back. A mesh newer than floor
// realized in the meantime is kept.
func (c *Chunks) Unload(coord world.ChunkCoord, floor uint64) {
	c.schedule(func() {
		if e, ok := c.index[coord]; ok && e.gen > floor {
			return
		}
		c.floors[coord] = max(c.floors[coord], floor)
		c.remove(coord)
	})
}

// Prune queues removal of every mesh further than radius chunks from
// center. Pruned chunks are forgotten by the source, so requesting one again
// rebuilds it even when its blocks have not changed.
func (c *Chunks) Prune(center world.ChunkCoord, radius int) {
	c.schedule(func() {
		for coord := range c.floors {
			if chunkDist2(coord, center) > radius*radius {
				delete(c.floors, coord)
			}
		}
		kept := c.entries[:0]
		for _, e := range c.entries {
			if chunkDist2(e.coord, center) > radius*radius {
				c.device.Release(e.buffer)
				delete(c.index, e.coord)
				c.floors[e.coord] = c.source.Forget(e.coord)
				continue
			}
			kept = append(kept, e)
		}
		clear(c.entries[len(kept):])
		c.entries = kept
		c.metrics.SetResident(len(c.entries))
	})
}

// Prepare realizes every completed mesh available now, then applies queued
// actions in the order they were scheduled.
func (c *Chunks) Prepare() {
	defer profiling.Track("chunks.Prepare")()

	inserted := false
	c.source.Drain(func(r meshing.Result) {
		if c.realize(r) {
			inserted = true
		}
	})
	if inserted {
		c.sortFrom(c.viewer)
	}

	c.mu.Lock()
	actions := c.actions
	c.actions = nil
	c.mu.Unlock()
	for _, fn := range actions {
		fn()
	}
	c.metrics.SetResident(len(c.entries))
}

// realize uploads r and reports whether a new entry was added.
func (c *Chunks) realize(r meshing.Result) bool {
	coord := r.Mesh.Coord
	if floor, ok := c.floors[coord]; ok && r.Generation <= floor {
		c.metrics.IncStale()
		return false
	}
	existing := c.index[coord]
	if existing != nil && r.Generation <= existing.gen {
		c.metrics.IncStale()
		return false
	}
	delete(c.floors, coord)

	if r.Mesh.IsEmpty() {
		c.remove(coord)
		return false
	}
	buf, err := c.device.Upload(r.Mesh)
	if err != nil {
		log.Printf("chunks: upload %v: %v", coord, err)
		c.source.Invalidate(coord)
		return false
	}
	c.metrics.IncRealized()

	if existing != nil {
		c.device.Release(existing.buffer)
		existing.buffer = buf
		existing.gen = r.Generation
		return false
	}
	e := &entry{coord: coord, buffer: buf, gen: r.Generation, seq: c.nextSeq}
	c.nextSeq++
	c.entries = append(c.entries, e)
	c.index[coord] = e
	return true
}

func (c *Chunks) remove(coord world.ChunkCoord) {
	e, ok := c.index[coord]
	if !ok {
		return
	}
	c.device.Release(e.buffer)
	delete(c.index, coord)
	c.entries = slices.DeleteFunc(c.entries, func(x *entry) bool { return x == e })
}

// chunkCenter is the middle of a chunk column in the XZ plane. Blocks are
// centered on integer coordinates, so a column spans [16n-0.5, 16n+15.5).
func chunkCenter(coord world.ChunkCoord) mgl32.Vec2 {
	return mgl32.Vec2{
		float32(coord.X*world.ChunkSizeX) + world.ChunkSizeX/2 - 0.5,
		float32(coord.Z*world.ChunkSizeZ) + world.ChunkSizeZ/2 - 0.5,
	}
}

func distance2(coord world.ChunkCoord, pos mgl32.Vec3) float32 {
	d := chunkCenter(coord).Sub(mgl32.Vec2{pos.X(), pos.Z()})
	return d.Dot(d)
}

func chunkDist2(a, b world.ChunkCoord) int {
	dx, dz := a.X-b.X, a.Z-b.Z
	return dx*dx + dz*dz
}

// sortFrom orders the entries by distance to pos, nearest first, breaking
// ties by insertion order. The key is total, so sorting twice from the same
// position changes nothing.
func (c *Chunks) sortFrom(pos mgl32.Vec3) {
	defer profiling.Track("chunks.Sort")()
	c.viewer = pos
	slices.SortFunc(c.entries, func(a, b *entry) int {
		if d := cmp.Compare(distance2(a.coord, pos), distance2(b.coord, pos)); d != 0 {
			return d
		}
		return cmp.Compare(a.seq, b.seq)
	})
}

// Order returns the chunk coordinates in draw order.
func (c *Chunks) Order() []world.ChunkCoord {
	out := make([]world.ChunkCoord, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.coord
	}
	return out
}

// Len returns the number of resident meshes.
func (c *Chunks) Len() int {
	return len(c.entries)
}

// Drawn returns how many meshes the last Render drew.
func (c *Chunks) Drawn() int {
	return c.drawn
}

func chunkAABB(coord world.ChunkCoord) (mgl32.Vec3, mgl32.Vec3) {
	lo := mgl32.Vec3{
		float32(coord.X*world.ChunkSizeX) - 0.5,
		-0.5,
		float32(coord.Z*world.ChunkSizeZ) - 0.5,
	}
	return lo, lo.Add(mgl32.Vec3{world.ChunkSizeX, world.ChunkSizeY, world.ChunkSizeZ})
}

// Render draws the resident meshes in order, skipping chunks beyond the
// render distance or outside the view frustum.
func (c *Chunks) Render(ctx renderer.RenderContext) {
	defer profiling.Track("chunks.Render")()

	c.device.Begin(ctx.View, ctx.Proj)
	frustum := graphics.ExtractFrustum(ctx.Proj.Mul4(ctx.View))

	eye := ctx.Camera.Position
	center := world.ColumnAt(eye.X(), eye.Z())
	radius := config.GetMaxRenderRadius()

	c.drawn = 0
	for _, e := range c.entries {
		if chunkDist2(e.coord, center) > radius*radius {
			continue
		}
		lo, hi := chunkAABB(e.coord)
		if !frustum.IntersectsAABB(lo, hi) {
			continue
		}
		c.device.Draw(e.buffer)
		c.drawn++
	}
	c.metrics.SetDrawn(c.drawn)
}

// Dispose releases every buffer.
func (c *Chunks) Dispose() {
	for _, e := range c.entries {
		c.device.Release(e.buffer)
	}
	c.entries = nil
	clear(c.index)
	clear(c.floors)
	c.metrics.SetResident(0)
}

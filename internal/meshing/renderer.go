package meshing

import (
	"fmt"

	"chunkview/internal/geometry"
	"chunkview/internal/texture"
	"chunkview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderer produces the geometry of a single block. offset is the center of
// the block's cell in world space and indexOffset is the number of vertices
// already in the mesh the result will be appended to.
type Renderer interface {
	Render(d world.BlockDescriptor, offset mgl32.Vec3, tile texture.Tile, indexOffset uint32) ([]geometry.Vertex, []uint32)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(d world.BlockDescriptor, offset mgl32.Vec3, tile texture.Tile, indexOffset uint32) ([]geometry.Vertex, []uint32)

func (f RendererFunc) Render(d world.BlockDescriptor, offset mgl32.Vec3, tile texture.Tile, indexOffset uint32) ([]geometry.Vertex, []uint32) {
	return f(d, offset, tile, indexOffset)
}

// CubeRenderer draws a full unit cube with the same tile on every face.
type CubeRenderer struct{}

func (CubeRenderer) Render(_ world.BlockDescriptor, offset mgl32.Vec3, tile texture.Tile, indexOffset uint32) ([]geometry.Vertex, []uint32) {
	return geometry.UniformCube(offset, tile.Corners(), indexOffset, geometry.White)
}

// DefaultRenderer is used for every block type without a renderer of its
// own.
var DefaultRenderer Renderer = CubeRenderer{}

// Renderers maps each of the 256 block IDs to a Renderer. Every slot is
// populated; unregistered IDs hold DefaultRenderer. Registration happens
// during startup, lookups afterwards need no locking.
type Renderers struct {
	table [256]Renderer
}

func NewRenderers() *Renderers {
	r := &Renderers{}
	for i := range r.table {
		r.table[i] = DefaultRenderer
	}
	return r
}

// NewDefaultRenderers returns a table with the built-in renderers
// registered.
func NewDefaultRenderers() *Renderers {
	r := NewRenderers()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults installs every built-in block-specific renderer. The list
// is explicit so the startup order stays fixed.
func RegisterDefaults(r *Renderers) {
	r.Register(world.SnowLayer, SnowRenderer{})
}

// Register installs renderer for id; the last registration wins.
func (r *Renderers) Register(id world.BlockID, renderer Renderer) {
	if renderer == nil {
		panic(fmt.Sprintf("meshing: nil renderer for block %d", id))
	}
	r.table[id] = renderer
}

func (r *Renderers) Lookup(id world.BlockID) Renderer {
	return r.table[id]
}

// RenderBlock resolves the renderer for d.ID and the tile for d.Metadata,
// using texture.DefaultTile when the mapper has none, and renders the block.
func (r *Renderers) RenderBlock(d world.BlockDescriptor, offset mgl32.Vec3, mapper texture.Mapper, indexOffset uint32) ([]geometry.Vertex, []uint32) {
	tile := texture.Resolve(mapper, d.Metadata)
	return r.table[d.ID].Render(d, offset, tile, indexOffset)
}

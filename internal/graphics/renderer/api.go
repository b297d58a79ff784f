package renderer

import (
	"chunkview/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext is the per-frame state handed to every renderable.
type RenderContext struct {
	Camera *graphics.Camera
	DT     float64
	View   mgl32.Mat4
	Proj   mgl32.Mat4
}

// Renderable is a feature drawn by the Renderer.
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
	SetViewport(width, height int)
}

// Preparer is implemented by renderables with main-thread work that must
// finish before the frame's matrices are computed, such as realizing meshes
// or reordering them.
type Preparer interface {
	Prepare()
}

package renderer

import (
	"chunkview/internal/graphics"
	"chunkview/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Renderer drives the frame: prepare, then compute matrices, then draw.
type Renderer struct {
	renderables []Renderable
	camera      *graphics.Camera
	clear       func()
}

func clearScreen() {
	gl.ClearColor(0.53, 0.81, 0.92, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// NewRenderer initializes rs in order. It must run on the GL thread.
func NewRenderer(camera *graphics.Camera, rs ...Renderable) (*Renderer, error) {
	return newRenderer(camera, clearScreen, rs...)
}

func newRenderer(camera *graphics.Camera, clear func(), rs ...Renderable) (*Renderer, error) {
	for i, r := range rs {
		if err := r.Init(); err != nil {
			for j := i - 1; j >= 0; j-- {
				rs[j].Dispose()
			}
			return nil, err
		}
	}
	return &Renderer{renderables: rs, camera: camera, clear: clear}, nil
}

// Render runs one frame. Every Prepare completes before the view and
// projection matrices are computed and any renderable draws.
func (r *Renderer) Render(dt float64) {
	func() {
		defer profiling.Track("renderer.Prepare")()
		for _, rd := range r.renderables {
			if p, ok := rd.(Preparer); ok {
				p.Prepare()
			}
		}
	}()

	ctx := RenderContext{
		Camera: r.camera,
		DT:     dt,
		View:   r.camera.ViewMatrix(),
		Proj:   r.camera.ProjectionMatrix(),
	}

	r.clear()
	defer profiling.Track("renderer.Render")()
	for _, rd := range r.renderables {
		rd.Render(ctx)
	}
}

// Dispose cleans up renderables in reverse order.
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
}

func (r *Renderer) Camera() *graphics.Camera {
	return r.camera
}

// UpdateViewport resizes the camera and every renderable.
func (r *Renderer) UpdateViewport(width, height int) {
	r.camera.SetViewport(width, height)
	for _, rd := range r.renderables {
		rd.SetViewport(width, height)
	}
}

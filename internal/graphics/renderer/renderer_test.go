package renderer

import (
	"errors"
	"testing"

	"chunkview/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name    string
	log     *[]string
	initErr error
	ctx     RenderContext
	w, h    int
}

func (r *recorder) Init() error {
	*r.log = append(*r.log, r.name+".init")
	return r.initErr
}

func (r *recorder) Render(ctx RenderContext) {
	r.ctx = ctx
	*r.log = append(*r.log, r.name+".render")
}

func (r *recorder) Dispose() {
	*r.log = append(*r.log, r.name+".dispose")
}

func (r *recorder) SetViewport(w, h int) {
	r.w, r.h = w, h
}

type preparing struct {
	recorder
	camera *graphics.Camera
}

// Prepare moves the camera so the test can see that matrices are taken after
// every Prepare ran.
func (p *preparing) Prepare() {
	*p.log = append(*p.log, p.name+".prepare")
	p.camera.Position = mgl32.Vec3{5, 6, 7}
}

func TestRenderPreparesBeforeDrawing(t *testing.T) {
	var log []string
	cam := graphics.NewCamera(640, 480)
	plain := &recorder{name: "plain", log: &log}
	prep := &preparing{recorder: recorder{name: "chunks", log: &log}, camera: cam}

	r, err := newRenderer(cam, func() { log = append(log, "clear") }, plain, prep)
	require.NoError(t, err)
	log = nil

	r.Render(0.016)
	assert.Equal(t, []string{"chunks.prepare", "clear", "plain.render", "chunks.render"}, log)
	assert.Equal(t, cam.ViewMatrix(), plain.ctx.View)
	assert.Equal(t, 0.016, plain.ctx.DT)

	r.UpdateViewport(300, 100)
	assert.Equal(t, float32(3), cam.AspectRatio)
	assert.Equal(t, 300, prep.w)

	log = nil
	r.Dispose()
	assert.Equal(t, []string{"chunks.dispose", "plain.dispose"}, log)
}

func TestNewRendererUnwindsOnInitError(t *testing.T) {
	var log []string
	a := &recorder{name: "a", log: &log}
	b := &recorder{name: "b", log: &log, initErr: errors.New("boom")}

	_, err := newRenderer(graphics.NewCamera(1, 1), func() {}, a, b)
	require.Error(t, err)
	assert.Equal(t, []string{"a.init", "b.init", "a.dispose"}, log)
}

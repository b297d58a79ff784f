package graphics

import (
	_ "embed"
	"fmt"
	"image"

	"chunkview/internal/geometry"
	"chunkview/internal/meshing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	//go:embed shaders/chunk.vert
	chunkVertexSrc string
	//go:embed shaders/chunk.frag
	chunkFragmentSrc string
)

const floatSize = 4

// GLDevice draws chunk meshes with OpenGL 4.1. It must only be used on the
// thread that made the context current.
type GLDevice struct {
	shader    *Shader
	atlas     uint32
	lightDir  mgl32.Vec3
	wireframe bool
	live      int
	disposed  bool
}

// NewGLDevice compiles the chunk program and uploads the terrain atlas.
func NewGLDevice(atlas *image.RGBA) (*GLDevice, error) {
	shader, err := NewShader(chunkVertexSrc, chunkFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("chunk shader: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	return &GLDevice{
		shader:   shader,
		atlas:    UploadTexture(atlas),
		lightDir: mgl32.Vec3{-0.4, -1, -0.3},
	}, nil
}

func (d *GLDevice) checkAlive() {
	if d.disposed {
		panic("graphics: device used after Dispose")
	}
}

func (d *GLDevice) Begin(view, proj mgl32.Mat4) {
	d.checkAlive()
	d.shader.Use()
	d.shader.SetMat4("view", view)
	d.shader.SetMat4("proj", proj)
	d.shader.SetVec3("lightDir", d.lightDir)
	d.shader.SetInt("atlas", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, d.atlas)
	if d.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// SetWireframe switches between filled and outlined polygons from the next
// frame on.
func (d *GLDevice) SetWireframe(on bool) {
	d.wireframe = on
}

func (d *GLDevice) Wireframe() bool {
	return d.wireframe
}

// Upload copies m into a new VAO with interleaved position, normal, color and
// texture coordinate attributes.
func (d *GLDevice) Upload(m *meshing.Mesh) (Buffer, error) {
	d.checkAlive()
	if m.IsEmpty() {
		return Buffer{}, ErrEmptyMesh
	}
	floats := m.Floats()

	var b Buffer
	gl.GenVertexArrays(1, &b.VAO)
	gl.GenBuffers(1, &b.VBO)
	gl.GenBuffers(1, &b.EBO)

	gl.BindVertexArray(b.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(floats)*floatSize, gl.Ptr(floats), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	stride := int32(geometry.FloatsPerVertex * floatSize)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*floatSize)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, stride, 6*floatSize)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(3, 2, gl.FLOAT, false, stride, 10*floatSize)
	gl.EnableVertexAttribArray(3)

	gl.BindVertexArray(0)
	b.IndexCount = int32(len(m.Indices))
	d.live++

	if code := gl.GetError(); code != gl.NO_ERROR {
		d.Release(b)
		return Buffer{}, fmt.Errorf("mesh upload for chunk %v: gl error 0x%x", m.Coord, code)
	}
	return b, nil
}

func (d *GLDevice) Draw(b Buffer) {
	d.checkAlive()
	gl.BindVertexArray(b.VAO)
	gl.DrawElements(gl.TRIANGLES, b.IndexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func (d *GLDevice) Release(b Buffer) {
	d.checkAlive()
	if b.VAO == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &b.VAO)
	gl.DeleteBuffers(1, &b.VBO)
	gl.DeleteBuffers(1, &b.EBO)
	d.live--
}

// Live returns the number of buffers uploaded and not yet released.
func (d *GLDevice) Live() int {
	return d.live
}

// Dispose frees the program and atlas. Buffers must be released first.
func (d *GLDevice) Dispose() {
	if d.disposed {
		return
	}
	gl.DeleteTextures(1, &d.atlas)
	d.shader.Delete()
	d.disposed = true
}

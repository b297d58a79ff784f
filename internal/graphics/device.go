package graphics

import (
	"errors"

	"chunkview/internal/meshing"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrEmptyMesh is returned when asked to upload a mesh with no indices.
var ErrEmptyMesh = errors.New("graphics: empty mesh")

// Buffer is a mesh realized on the GPU.
type Buffer struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// Device is the slice of the graphics context the chunk renderer needs.
// Every method must be called on the thread that owns the context.
type Device interface {
	// Begin binds the chunk program and sets the frame's matrices.
	Begin(view, proj mgl32.Mat4)
	Upload(m *meshing.Mesh) (Buffer, error)
	Draw(b Buffer)
	Release(b Buffer)
}

package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestPressedIsEdgeTriggered(t *testing.T) {
	m := NewManager()

	m.HandleKey(glfw.KeyF, glfw.Press)
	assert.True(t, m.Pressed(ToggleWireframe))
	assert.True(t, m.Held(ToggleWireframe))

	m.EndFrame()
	m.HandleKey(glfw.KeyF, glfw.Repeat)
	assert.False(t, m.Pressed(ToggleWireframe), "repeat is not a new press")
	assert.True(t, m.Held(ToggleWireframe))

	m.HandleKey(glfw.KeyF, glfw.Release)
	assert.False(t, m.Held(ToggleWireframe))
}

func TestExtraBindings(t *testing.T) {
	m := NewManager()
	m.BindKey(glfw.KeyUp, MoveForward)

	m.HandleKey(glfw.KeyUp, glfw.Press)
	assert.True(t, m.Held(MoveForward))

	m.UnbindKey(glfw.KeyW)
	m.HandleKey(glfw.KeyW, glfw.Release)
	assert.True(t, m.Held(MoveForward), "unbound key no longer drives the action")
}

func TestMouseButtons(t *testing.T) {
	m := NewManager()
	m.HandleButton(glfw.MouseButtonRight, glfw.Press)
	assert.True(t, m.Pressed(StackSnow))
	assert.False(t, m.Pressed(ClearBlock))
}

func TestInvalidAction(t *testing.T) {
	m := NewManager()
	m.BindKey(glfw.KeyZ, actionCount)
	assert.False(t, m.Held(actionCount))
	assert.False(t, m.Pressed(Action(-1)))
}

func TestMouseDelta(t *testing.T) {
	var mouse Mouse
	dx, dy := mouse.Delta(100, 100)
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	dx, dy = mouse.Delta(110, 90)
	assert.Equal(t, 10.0, dx)
	assert.Equal(t, 10.0, dy, "moving up yields a positive delta")

	mouse.Reset()
	dx, _ = mouse.Delta(0, 0)
	assert.Zero(t, dx)
}

package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a logical viewer command, independent of the physical key.
type Action int

const (
	MoveForward Action = iota
	MoveBackward
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	Sprint
	ToggleWireframe
	ToggleProfiling
	ReleaseCursor
	StackSnow
	ClearBlock
	actionCount
)

// Manager maps keys and mouse buttons to actions and tracks which actions
// are held and which were pressed since the last EndFrame. Event handlers
// may run on any goroutine.
type Manager struct {
	mu      sync.RWMutex
	keys    map[glfw.Key][]Action
	buttons map[glfw.MouseButton][]Action
	held    [actionCount]bool
	pressed [actionCount]bool
}

// NewManager returns a manager with the default bindings.
func NewManager() *Manager {
	m := &Manager{
		keys:    make(map[glfw.Key][]Action),
		buttons: make(map[glfw.MouseButton][]Action),
	}
	m.BindKey(glfw.KeyW, MoveForward)
	m.BindKey(glfw.KeyS, MoveBackward)
	m.BindKey(glfw.KeyA, MoveLeft)
	m.BindKey(glfw.KeyD, MoveRight)
	m.BindKey(glfw.KeySpace, MoveUp)
	m.BindKey(glfw.KeyLeftShift, MoveDown)
	m.BindKey(glfw.KeyLeftControl, Sprint)
	m.BindKey(glfw.KeyF, ToggleWireframe)
	m.BindKey(glfw.KeyV, ToggleProfiling)
	m.BindKey(glfw.KeyEscape, ReleaseCursor)
	m.BindButton(glfw.MouseButtonRight, StackSnow)
	m.BindButton(glfw.MouseButtonLeft, ClearBlock)
	return m
}

// BindKey adds a binding; one key may drive several actions.
func (m *Manager) BindKey(key glfw.Key, a Action) {
	if !valid(a) {
		return
	}
	m.mu.Lock()
	m.keys[key] = append(m.keys[key], a)
	m.mu.Unlock()
}

func (m *Manager) UnbindKey(key glfw.Key) {
	m.mu.Lock()
	delete(m.keys, key)
	m.mu.Unlock()
}

func (m *Manager) BindButton(button glfw.MouseButton, a Action) {
	if !valid(a) {
		return
	}
	m.mu.Lock()
	m.buttons[button] = append(m.buttons[button], a)
	m.mu.Unlock()
}

// HandleKey records a key event. Repeats count as held.
func (m *Manager) HandleKey(key glfw.Key, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(m.keys[key], action == glfw.Press || action == glfw.Repeat)
}

func (m *Manager) HandleButton(button glfw.MouseButton, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(m.buttons[button], action == glfw.Press)
}

func (m *Manager) apply(actions []Action, down bool) {
	for _, a := range actions {
		if down && !m.held[a] {
			m.pressed[a] = true
		}
		m.held[a] = down
	}
}

// Attach installs key and mouse button callbacks on the window.
func (m *Manager) Attach(w *glfw.Window) {
	w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		m.HandleKey(key, action)
	})
	w.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		m.HandleButton(button, action)
	})
}

// Held reports whether the action is currently down.
func (m *Manager) Held(a Action) bool {
	if !valid(a) {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.held[a]
}

// Pressed reports whether the action went down since the last EndFrame.
func (m *Manager) Pressed(a Action) bool {
	if !valid(a) {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pressed[a]
}

// EndFrame clears the pressed edges. Call it once per frame after input has
// been consumed.
func (m *Manager) EndFrame() {
	m.mu.Lock()
	clear(m.pressed[:])
	m.mu.Unlock()
}

func valid(a Action) bool {
	return a >= 0 && a < actionCount
}

// Mouse turns absolute cursor positions into per-event deltas.
type Mouse struct {
	lastX, lastY float64
	primed       bool
}

// Delta returns the movement since the previous position. The first call
// after Reset returns zero so the view does not jump.
func (m *Mouse) Delta(x, y float64) (dx, dy float64) {
	if m.primed {
		dx, dy = x-m.lastX, m.lastY-y
	}
	m.lastX, m.lastY = x, y
	m.primed = true
	return dx, dy
}

func (m *Mouse) Reset() {
	m.primed = false
}

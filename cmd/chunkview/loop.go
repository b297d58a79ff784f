package main

import (
	"fmt"
	"log"
	"time"

	"chunkview/internal/config"
	"chunkview/internal/input"
	"chunkview/internal/physics"
	"chunkview/internal/profiling"
	"chunkview/internal/world"

	"github.com/faiface/mainthread"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const slowFrame = 50 * time.Millisecond

func (a *app) loop() {
	for !a.stopped.Load() {
		mainthread.Call(a.frame)
	}
}

// frame runs one iteration on the main thread.
func (a *app) frame() {
	if a.stopped.Load() {
		return
	}
	if a.window.ShouldClose() {
		a.stopped.Store(true)
		return
	}

	profiling.ResetFrame()
	start := time.Now()
	dt := start.Sub(a.lastTime).Seconds()
	a.lastTime = start

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()
	a.update(dt)
	a.renderer.Render(dt)
	func() { defer profiling.Track("glfw.SwapBuffers")(); a.window.SwapBuffers() }()
	a.input.EndFrame()

	a.report(start, time.Since(start))

	limit := a.cfg.Window.MaxFPS
	if !a.captured {
		limit = idleFPS
	}
	a.limiter.wait(limit)
}

func (a *app) update(dt float64) {
	defer profiling.Track("app.Update")()
	cam := a.renderer.Camera()

	if a.input.Pressed(input.ToggleWireframe) {
		a.device.SetWireframe(!a.device.Wireframe())
	}
	if a.input.Pressed(input.ToggleProfiling) {
		a.showProfile = !a.showProfile
	}
	if a.input.Pressed(input.ReleaseCursor) {
		a.captured = !a.captured
		if a.captured {
			a.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			a.mouse.Reset()
		} else {
			a.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
	}

	var move mgl32.Vec3
	if a.input.Held(input.MoveForward) {
		move = move.Add(cam.Front())
	}
	if a.input.Held(input.MoveBackward) {
		move = move.Sub(cam.Front())
	}
	if a.input.Held(input.MoveRight) {
		move = move.Add(cam.Right())
	}
	if a.input.Held(input.MoveLeft) {
		move = move.Sub(cam.Right())
	}
	if a.input.Held(input.MoveUp) {
		move = move.Add(mgl32.Vec3{0, 1, 0})
	}
	if a.input.Held(input.MoveDown) {
		move = move.Sub(mgl32.Vec3{0, 1, 0})
	}
	if move.Len() > 0 {
		speed := float32(flySpeed)
		if a.input.Held(input.Sprint) {
			speed = sprintSpeed
		}
		cam.Position = cam.Position.Add(move.Normalize().Mul(speed * float32(dt)))
	}
	a.chunks.SetViewer(cam.Position)

	if a.captured && (a.input.Pressed(input.StackSnow) || a.input.Pressed(input.ClearBlock)) {
		a.edit(cam.Position, cam.Front())
	}

	if time.Since(a.lastStream) >= streamInterval {
		a.lastStream = time.Now()
		// Streaming, eviction and pruning share one center so a mesh is
		// never pruned while its chunk stays loaded.
		center := world.ColumnAt(cam.Position.X(), cam.Position.Z())
		a.streamer.StreamAround(center, config.GetChunkLoadRadius())
		evictRadius := config.GetChunkEvictRadius()
		a.streamer.EvictFar(center, evictRadius)
		a.chunks.Prune(center, evictRadius)
	}
}

// edit applies the pressed edit actions to the column the camera is aimed
// at.
func (a *app) edit(eye, dir mgl32.Vec3) {
	hit, ok := physics.Raycast(a.store, eye, dir, physics.DefaultReach)
	if !ok {
		return
	}
	x, z := hit.Block.X, hit.Block.Z
	if a.input.Pressed(input.StackSnow) {
		world.StackSnow(a.store, x, z)
	}
	if a.input.Pressed(input.ClearBlock) {
		world.ClearTop(a.store, x, z)
	}
}

func (a *app) report(now time.Time, frameDur time.Duration) {
	if frameDur > slowFrame {
		log.Printf("Slow frame %v: %s", frameDur.Round(time.Millisecond), profiling.TopN(5))
	}

	a.frames++
	elapsed := now.Sub(a.lastReport)
	if elapsed < time.Second {
		return
	}
	fps := float64(a.frames) / elapsed.Seconds()
	a.frames = 0
	a.lastReport = now

	a.window.SetTitle(fmt.Sprintf("%s | %.0f FPS | %d meshes | %d drawn",
		a.cfg.Window.Title, fps, a.chunks.Len(), a.chunks.Drawn()))
	if a.showProfile {
		log.Printf("FPS %.0f, chunks %d, pending builds %d, buffers %d: %s",
			fps, a.store.Len(), a.pipeline.Pending(), a.device.Live(), profiling.TopN(5))
	}
}

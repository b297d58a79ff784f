package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"chunkview/internal/config"
	"chunkview/internal/graphics"
	"chunkview/internal/graphics/renderables/chunks"
	"chunkview/internal/graphics/renderer"
	"chunkview/internal/input"
	"chunkview/internal/meshing"
	"chunkview/internal/metrics"
	"chunkview/internal/registry"
	"chunkview/internal/texture"
	"chunkview/internal/world"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	spawnRadius      = 2
	mouseSensitivity = 0.1
	flySpeed         = 12.0
	sprintSpeed      = 40.0
	streamInterval   = 250 * time.Millisecond
)

type app struct {
	cfg config.File

	window   *glfw.Window
	device   *graphics.GLDevice
	renderer *renderer.Renderer
	chunks   *chunks.Chunks
	pipeline *meshing.Pipeline
	store    *world.Store
	streamer *world.Streamer
	server   *http.Server
	input    *input.Manager
	mouse    input.Mouse
	limiter  frameLimiter

	captured    bool
	showProfile bool

	lastTime   time.Time
	lastStream time.Time
	lastReport time.Time
	frames     int

	stopped      atomic.Bool
	shutdownOnce sync.Once
}

func setupWindow(cfg config.WindowConfig) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, err
	}

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	return window, nil
}

func loadAtlas(dir string) *image.RGBA {
	pack := texture.NewPack()
	if err := pack.LoadDefaults(dir); err != nil {
		log.Printf("Using placeholder textures: %v", err)
		return texture.PlaceholderAtlas()
	}
	atlas, err := pack.TerrainAtlas()
	if err != nil {
		log.Printf("Using placeholder textures: %v", err)
		return texture.PlaceholderAtlas()
	}
	return atlas
}

func newGenerator(cfg config.WorldConfig) world.TerrainGenerator {
	if cfg.Generator == "flat" {
		return world.NewFlatGenerator(cfg.FlatHeight)
	}
	return world.NewGenerator(cfg.Seed)
}

// newApp wires the viewer together. It must run on the main thread.
func newApp(cfg config.File) (*app, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw: %w", err)
	}
	window, err := setupWindow(cfg.Window)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("window: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	pipelineMetrics := metrics.NewPipeline(reg)
	meshMetrics := metrics.NewMeshes(reg)

	device, err := graphics.NewGLDevice(loadAtlas(cfg.Render.TextureDir))
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, err
	}

	builder := meshing.NewBuilder(meshing.NewDefaultRenderers(), registry.NewDefaultTable())
	pipeline := meshing.NewPipeline(builder, meshing.Options{
		Workers:      config.GetMeshWorkers(),
		ResultBuffer: config.GetResultBuffer(),
		Metrics:      pipelineMetrics,
	})
	chunkLayer := chunks.New(device, pipeline, meshMetrics)

	width, height := window.GetSize()
	camera := graphics.NewCamera(width, height)
	camera.FOV = config.GetFOV()

	r, err := renderer.NewRenderer(camera, chunkLayer)
	if err != nil {
		pipeline.Dispose()
		device.Dispose()
		window.Destroy()
		glfw.Terminate()
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		window:   window,
		device:   device,
		renderer: r,
		chunks:   chunkLayer,
		pipeline: pipeline,
		store:    world.NewStore(),
		input:    input.NewManager(),
		captured: true,
	}
	a.store.Subscribe(a.onChunkEvent)
	pipeline.Start()

	gen := newGenerator(cfg.World)
	a.streamer = world.NewStreamer(a.store, gen, max(runtime.NumCPU()/2, 1))
	a.streamer.LoadSync(world.ChunkCoord{}, spawnRadius)
	camera.Position = mgl32.Vec3{0, float32(gen.HeightAt(0, 0) + 3), 0}
	a.chunks.SetViewer(camera.Position)

	if cfg.Metrics.Address != "" {
		a.server = metrics.Serve(cfg.Metrics.Address, reg)
	}

	a.attachCallbacks()
	now := time.Now()
	a.lastTime, a.lastReport = now, now
	log.Printf("Viewer ready: generator=%s render distance=%d", cfg.World.Generator, config.GetRenderDistance())
	return a, nil
}

// onChunkEvent feeds store changes into the meshing pipeline. It runs on
// whichever goroutine changed the store.
func (a *app) onChunkEvent(ev world.ChunkEvent) {
	switch ev.Kind {
	case world.ChunkLoaded, world.ChunkModified:
		if err := a.pipeline.Enqueue(ev.Snapshot); err != nil && !errors.Is(err, meshing.ErrPipelineClosed) {
			log.Printf("Enqueue %v: %v", ev.Coord, err)
		}
	case world.ChunkUnloaded:
		a.chunks.Unload(ev.Coord, a.pipeline.Forget(ev.Coord))
	}
}

func (a *app) attachCallbacks() {
	a.input.Attach(a.window)

	a.window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if !a.captured {
			return
		}
		dx, dy := a.mouse.Delta(x, y)
		a.renderer.Camera().Rotate(float32(dx*mouseSensitivity), float32(dy*mouseSensitivity))
	})

	a.window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
		a.renderer.UpdateViewport(w.GetSize())
	})
}

// shutdown stops the workers and then releases GL resources on the main
// thread. It is safe to call more than once.
func (a *app) shutdown() {
	a.shutdownOnce.Do(func() {
		a.stopped.Store(true)
		a.streamer.Close()
		a.pipeline.Dispose()

		if a.server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := a.server.Shutdown(ctx); err != nil {
				log.Printf("Metrics server shutdown: %v", err)
			}
			cancel()
		}

		mainthread.Call(func() {
			a.renderer.Dispose()
			a.device.Dispose()
			a.window.Destroy()
			glfw.Terminate()
		})
		log.Printf("Viewer stopped")
	})
}

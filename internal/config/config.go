package config

import "sync"

// Bounds for the clamped settings.
const (
	MinRenderDistance = 2
	MaxRenderDistance = 32
	MinMeshWorkers    = 1
	MaxMeshWorkers    = 64
	MinResultBuffer   = 1
	MinFOV            = 30
	MaxFOV            = 110
)

// RenderSettings holds the process-wide render configuration.
type RenderSettings struct {
	mu             sync.RWMutex
	renderDistance int // in chunks
	meshWorkers    int
	resultBuffer   int
	sortThreshold  float32 // blocks the viewer must move before a re-sort
	fov            float32 // degrees
}

var globalRenderSettings = &RenderSettings{
	renderDistance: 8,
	meshWorkers:    4,
	resultBuffer:   64,
	sortThreshold:  1,
	fov:            70,
}

func clamp[T int | float32](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// GetRenderDistance returns the render distance in chunks.
func GetRenderDistance() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.renderDistance
}

// SetRenderDistance sets the render distance in chunks.
func SetRenderDistance(distance int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.renderDistance = clamp(distance, MinRenderDistance, MaxRenderDistance)
}

// GetChunkLoadRadius is the radius chunks are streamed in at.
func GetChunkLoadRadius() int {
	return GetRenderDistance() + 1
}

// GetChunkEvictRadius is the radius beyond which chunks are unloaded.
func GetChunkEvictRadius() int {
	return GetRenderDistance() * 2
}

// GetMaxRenderRadius bounds the meshes that are drawn at all.
func GetMaxRenderRadius() int {
	return GetRenderDistance()
}

func GetMeshWorkers() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.meshWorkers
}

func SetMeshWorkers(n int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.meshWorkers = clamp(n, MinMeshWorkers, MaxMeshWorkers)
}

// GetResultBuffer is the capacity of the pipeline's completion channel.
func GetResultBuffer() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.resultBuffer
}

func SetResultBuffer(n int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.resultBuffer = max(n, MinResultBuffer)
}

func GetSortThreshold() float32 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.sortThreshold
}

// SetSortThreshold sets how far, in blocks, the viewer must move before the
// mesh collection is re-sorted. Negative values are treated as zero.
func SetSortThreshold(blocks float32) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.sortThreshold = max(blocks, 0)
}

func GetFOV() float32 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fov
}

func SetFOV(deg float32) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.fov = clamp(deg, MinFOV, MaxFOV)
}

package physics

import (
	"math"

	"chunkview/internal/profiling"
	"chunkview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultReach is how far the viewer can target blocks.
const DefaultReach = 64.0

// BlockSource reads blocks at world coordinates. *world.Store implements it.
type BlockSource interface {
	Block(x, y, z int) world.Block
}

// Hit is the first non-air block along a ray.
type Hit struct {
	Block world.BlockPos
	// Adjacent is the last empty cell the ray crossed before Block. It
	// equals Block when the ray starts inside a solid block.
	Adjacent world.BlockPos
	Distance float32
}

// Raycast walks the voxel grid from origin along dir and returns the first
// solid block within maxDist. Blocks are unit cubes centred on integer
// coordinates.
func Raycast(src BlockSource, origin, dir mgl32.Vec3, maxDist float32) (Hit, bool) {
	defer profiling.Track("physics.Raycast")()
	if dir.Len() == 0 {
		return Hit{}, false
	}
	dir = dir.Normalize()

	// Shift so cell i spans [i, i+1).
	p := origin.Add(mgl32.Vec3{0.5, 0.5, 0.5})
	var cell, step [3]int
	var tMax, tDelta [3]float32
	for i := range 3 {
		cell[i] = int(math.Floor(float64(p[i])))
		switch {
		case dir[i] > 0:
			step[i] = 1
			tDelta[i] = 1 / dir[i]
			tMax[i] = (float32(cell[i]+1) - p[i]) / dir[i]
		case dir[i] < 0:
			step[i] = -1
			tDelta[i] = -1 / dir[i]
			tMax[i] = (p[i] - float32(cell[i])) / -dir[i]
		default:
			tDelta[i] = float32(math.Inf(1))
			tMax[i] = float32(math.Inf(1))
		}
	}

	prev := cell
	var t float32
	for t <= maxDist {
		if !src.Block(cell[0], cell[1], cell[2]).IsAir() {
			return Hit{Block: toPos(cell), Adjacent: toPos(prev), Distance: t}, true
		}
		prev = cell
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t = tMax[axis]
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
	}
	return Hit{}, false
}

func toPos(c [3]int) world.BlockPos {
	return world.BlockPos{X: c[0], Y: c[1], Z: c[2]}
}

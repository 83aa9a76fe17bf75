// Package debug builds overlay geometry drawn on top of the scene.
package debug

import "github.com/go-gl/mathgl/mgl32"

// BoxLineFloats is the length of the slice BoxLines returns: 12 edges of
// two points each.
const BoxLineFloats = 12 * 2 * 3

// DefaultBoxPadding is how far selection boxes sit outside the geometry.
const DefaultBoxPadding = 0.05

// BoxLines returns line segments outlining the box lo..hi grown by padding
// on every side. Corners given in the wrong order are swapped.
func BoxLines(lo, hi mgl32.Vec3, padding float32) []float32 {
	for i := range 3 {
		if lo[i] > hi[i] {
			lo[i], hi[i] = hi[i], lo[i]
		}
		lo[i] -= padding
		hi[i] += padding
	}
	x0, y0, z0 := lo.Elem()
	x1, y1, z1 := hi.Elem()

	return []float32{
		// bottom
		x0, y0, z0, x1, y0, z0,
		x1, y0, z0, x1, y0, z1,
		x1, y0, z1, x0, y0, z1,
		x0, y0, z1, x0, y0, z0,
		// top
		x0, y1, z0, x1, y1, z0,
		x1, y1, z0, x1, y1, z1,
		x1, y1, z1, x0, y1, z1,
		x0, y1, z1, x0, y1, z0,
		// verticals
		x0, y0, z0, x0, y1, z0,
		x1, y0, z0, x1, y1, z0,
		x1, y0, z1, x1, y1, z1,
		x0, y0, z1, x0, y1, z1,
	}
}

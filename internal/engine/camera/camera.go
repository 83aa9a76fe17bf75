// Package camera provides the orbit camera used by the viewer.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center mgl32.Vec3

	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around +Y

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32

	FovY float32 // radians
	Near float32
	Far  float32
}

// NewOrbitCamera returns a camera looking at the origin from the front
// and slightly above.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        12,
		Pitch:           0.35,
		Yaw:             0.5,
		MinDistance:     1,
		MaxDistance:     200,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FovY:            mgl32.DegToRad(45),
		Near:            0.05,
		Far:             500,
	}
}

// Position returns the eye position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	sinP, cosP := gomath.Sincos(float64(c.Pitch))
	sinY, cosY := gomath.Sincos(float64(c.Yaw))
	offset := mgl32.Vec3{
		float32(cosP * sinY),
		float32(sinP),
		float32(cosP * cosY),
	}
	return c.Center.Add(offset.Mul(c.Distance))
}

// View returns the view matrix.
func (c *OrbitCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// Projection returns a perspective matrix for the given aspect ratio.
func (c *OrbitCamera) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *OrbitCamera) ViewProjection(aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Mul4(c.View())
}

// HandleDrag orbits by a mouse drag in pixels.
func (c *OrbitCamera) HandleDrag(dx, dy float32) {
	c.Yaw -= dx * c.DragSensitivity
	c.Pitch = mgl32.Clamp(c.Pitch+dy*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom moves closer for positive wheel steps.
func (c *OrbitCamera) HandleZoom(steps float32) {
	c.Distance = mgl32.Clamp(c.Distance-steps*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToBounds centers on a box and backs off far enough to see all of it.
func (c *OrbitCamera) FitToBounds(lo, hi mgl32.Vec3) {
	c.Center = lo.Add(hi).Mul(0.5)
	radius := hi.Sub(lo).Len() / 2
	d := radius / float32(gomath.Sin(float64(c.FovY/2)))
	c.Distance = mgl32.Clamp(d, c.MinDistance, c.MaxDistance)
}

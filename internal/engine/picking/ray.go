// Package picking casts rays from the screen into the scene.
package picking

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/onionskin/internal/onion"
)

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 { return r.Origin.Add(r.Dir.Mul(t)) }

// ScreenToRay unprojects a pixel position into a world-space ray. invViewProj
// is the inverse of the view-projection matrix used to draw the frame.
func ScreenToRay(x, y, width, height float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*x/width - 1
	ndcY := 1 - 2*y/height

	near := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, 1, 1})

	dir := far.Sub(near)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: near, Dir: dir}
}

func unproject(inv mgl32.Mat4, p mgl32.Vec4) mgl32.Vec3 {
	w := inv.Mul4x1(p)
	if w.W() != 0 {
		return w.Vec3().Mul(1 / w.W())
	}
	return w.Vec3()
}

// AABB is an axis-aligned box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// BoundsOf returns the box around points. ok is false for no points.
func BoundsOf(points [][3]float32) (box AABB, ok bool) {
	for _, p := range points {
		if !ok {
			box.Min, box.Max, ok = p, p, true
			continue
		}
		for i := range 3 {
			box.Min[i] = min(box.Min[i], p[i])
			box.Max[i] = max(box.Max[i], p[i])
		}
	}
	return box, ok
}

// IntersectAABB returns the entry distance, or the exit distance when the
// ray starts inside the box.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for i := range 3 {
		if r.Dir[i] == 0 {
			if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[i] - r.Origin[i]) / r.Dir[i]
		t2 := (box.Max[i] - r.Origin[i]) / r.Dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle is the Möller-Trumbore test. Both windings hit.
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3) (t float32, hit bool) {
	const eps = 1e-7
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if det > -eps && det < eps {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectSnapshot returns the nearest triangle hit of a world-space
// snapshot.
func (r Ray) IntersectSnapshot(s *onion.Snapshot) (t float32, hit bool) {
	box, ok := BoundsOf(s.Vertices)
	if !ok {
		return 0, false
	}
	if _, boxHit := r.IntersectAABB(box); !boxHit {
		return 0, false
	}
	best := float32(gomath.MaxFloat32)
	for _, tri := range s.Indices {
		d, ok := r.IntersectTriangle(s.Vertices[tri[0]], s.Vertices[tri[1]], s.Vertices[tri[2]])
		if ok && d < best {
			best, hit = d, true
		}
	}
	return best, hit
}

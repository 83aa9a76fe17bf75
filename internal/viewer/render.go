package viewer

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/onionskin/internal/engine/debug"
	"github.com/Faultbox/onionskin/internal/engine/picking"
	"github.com/Faultbox/onionskin/internal/onion"
	"github.com/Faultbox/onionskin/internal/scene"
)

// placed is a scene object drawn under an extra parent transform, used for
// the contents of linked instances.
type placed struct {
	*scene.Object
	base mgl32.Mat4
}

func (p placed) WorldMatrix() mgl32.Mat4 {
	return p.base.Mul4(p.Object.WorldMatrix())
}

// render draws solids, then the onion skin draw handlers, then in-front
// objects over a cleared depth buffer.
func (v *Viewer) render() {
	v.dev.BeginFrame()
	v.dev.SetViewProjection(v.cam.ViewProjection(v.aspect()))

	var front []scene.Drawable
	for _, d := range v.scene.Drawables() {
		if d.Object.InFront {
			front = append(front, d)
			continue
		}
		v.drawSolid(d)
	}

	v.sched.Draw()

	if len(front) > 0 {
		v.dev.ClearDepth()
		for _, d := range front {
			v.drawSolid(d)
		}
	}

	if v.scene.OverlaysVisible() {
		v.drawSelectionBox()
	}
}

// drawSelectionBox outlines the geometry owned by the active object.
func (v *Viewer) drawSelectionBox() {
	active, ok := v.scene.Active()
	if !ok {
		return
	}
	var snaps []*onion.Snapshot
	for _, d := range v.scene.Drawables() {
		if d.Owner != active {
			continue
		}
		if s, err := v.sampler.Sample(placed{d.Object, d.Base}, v.scene.CurrentFrame()); err == nil {
			snaps = append(snaps, s)
		}
	}
	if lo, hi, ok := Bounds(snaps); ok {
		v.dev.DrawLines(debug.BoxLines(lo, hi, debug.DefaultBoxPadding), boxColor)
	}
}

func (v *Viewer) drawSolid(d scene.Drawable) {
	snap, err := v.sampler.Sample(placed{d.Object, d.Base}, v.scene.CurrentFrame())
	if err != nil {
		v.log.Debug("skip drawable", zap.String("object", d.Object.Name()), zap.Error(err))
		return
	}
	color := solidColor
	if a, ok := v.scene.Active(); ok && a.ID() == d.Owner.ID() {
		color = selectedColor
	}
	if err := v.dev.DrawSolid(snap, color); err != nil {
		v.log.Warn("draw failed", zap.String("object", d.Object.Name()), zap.Error(err))
	}
}

func (v *Viewer) aspect() float32 {
	w, h := v.win.DrawableSize()
	if h <= 0 {
		return 1
	}
	return float32(w) / float32(h)
}

// pick selects the object under the window position x, y, or clears the
// selection when nothing is hit.
func (v *Viewer) pick(x, y int) {
	w, h := v.win.Size()
	if w <= 0 || h <= 0 {
		return
	}
	inv := v.cam.ViewProjection(v.aspect()).Inv()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv)

	hit := Nearest(ray, v.scene.Drawables(), func(d scene.Drawable) (*onion.Snapshot, error) {
		return v.sampler.Sample(placed{d.Object, d.Base}, v.scene.CurrentFrame())
	})
	if hit == nil {
		v.scene.Deselect()
	} else if err := v.scene.Select(hit.Name()); err != nil {
		v.report(err)
	}
	v.updateTitle()
}

// Nearest returns the owner of the closest drawable hit by ray, or nil.
func Nearest(ray picking.Ray, drawables []scene.Drawable, sample func(scene.Drawable) (*onion.Snapshot, error)) *scene.Object {
	var best *scene.Object
	bestT := float32(0)
	for _, d := range drawables {
		snap, err := sample(d)
		if err != nil {
			continue
		}
		if t, ok := ray.IntersectSnapshot(snap); ok && (best == nil || t < bestT) {
			best, bestT = d.Owner, t
		}
	}
	return best
}

// Package scene is a small in-memory scene graph with keyframed objects. It
// is the host that onionview and onionbake run the onion skinner against.
package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/onionskin/internal/onion"
)

var (
	// ErrDuplicateName is returned when adding an object whose name is taken.
	ErrDuplicateName = errors.New("object name already in use")
	// ErrNotFound is returned for unknown object names.
	ErrNotFound = errors.New("object not found")
	// ErrNotLinked is returned when materializing something that is not a
	// linked instance.
	ErrNotLinked = errors.New("object is not a linked instance")
)

// Scene holds objects, the time cursor, the selection and viewport flags.
type Scene struct {
	frame    onion.Frame
	objects  map[onion.EntityID]*Object
	order    []*Object
	active   *Object
	overlays bool
}

// New returns an empty scene at frame 0 with overlays visible.
func New() *Scene {
	return &Scene{
		objects:  map[onion.EntityID]*Object{},
		overlays: true,
	}
}

// NewObject creates an object that is not part of any scene yet. Use Add to
// register it, or keep it unregistered as the root of a linked library.
func (s *Scene) NewObject(name string, kind onion.EntityKind) *Object {
	return &Object{
		scene:    s,
		name:     name,
		kind:     kind,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Add registers o under parent (nil for a root).
func (s *Scene) Add(o *Object, parent *Object) error {
	if _, ok := s.objects[o.ID()]; ok {
		return fmt.Errorf("%s: %w", o.name, ErrDuplicateName)
	}
	o.scene = s
	s.objects[o.ID()] = o
	s.order = append(s.order, o)
	if parent != nil {
		o.SetParent(parent)
	}
	return nil
}

// Remove deletes the named object. Its children become roots.
func (s *Scene) Remove(name string) error {
	o, ok := s.objects[onion.EntityID(name)]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	s.remove(o)
	return nil
}

func (s *Scene) remove(o *Object) {
	for _, c := range append([]*Object(nil), o.children...) {
		c.SetParent(nil)
	}
	o.SetParent(nil)
	delete(s.objects, o.ID())
	for i, x := range s.order {
		if x == o {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	if s.active == o {
		s.active = nil
	}
}

// Object returns the named object.
func (s *Scene) Object(name string) (*Object, bool) {
	o, ok := s.objects[onion.EntityID(name)]
	return o, ok
}

// Objects returns all registered objects in insertion order.
func (s *Scene) Objects() []*Object {
	return append([]*Object(nil), s.order...)
}

// Select makes the named object active.
func (s *Scene) Select(name string) error {
	o, ok := s.objects[onion.EntityID(name)]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	s.active = o
	return nil
}

// Deselect clears the active selection.
func (s *Scene) Deselect() { s.active = nil }

// SetOverlaysVisible toggles viewport overlays.
func (s *Scene) SetOverlaysVisible(on bool) { s.overlays = on }

// CurrentFrame implements onion.Scene.
func (s *Scene) CurrentFrame() onion.Frame { return s.frame }

// SetFrame implements onion.Scene.
func (s *Scene) SetFrame(f onion.Frame) { s.frame = f }

// Lookup implements onion.Scene.
func (s *Scene) Lookup(id onion.EntityID) (onion.Entity, bool) {
	o, ok := s.objects[id]
	if !ok {
		return nil, false
	}
	return o, true
}

// Active implements onion.Scene.
func (s *Scene) Active() (onion.Entity, bool) {
	if s.active == nil {
		return nil, false
	}
	return s.active, true
}

// OverlaysVisible implements onion.Scene.
func (s *Scene) OverlaysVisible() bool { return s.overlays }

// FrameRange returns the first and last keyed frame over all objects,
// including linked hierarchies. ok is false when nothing is keyed.
func (s *Scene) FrameRange() (first, last onion.Frame, ok bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	var visit func(o *Object)
	visit = func(o *Object) {
		if o.Action != nil {
			for _, t := range o.Action.KeyTimes() {
				lo, hi = math.Min(lo, t), math.Max(hi, t)
			}
		}
		if o.Instance != nil {
			visit(o.Instance)
		}
		for _, c := range o.children {
			if _, registered := s.objects[c.ID()]; !registered {
				visit(c)
			}
		}
	}
	for _, o := range s.order {
		visit(o)
	}
	if math.IsInf(lo, 1) {
		return 0, 0, false
	}
	return onion.Frame(lo), onion.Frame(hi), true
}

// MaterializeProxy implements onion.Scene. The linked hierarchy behind the
// empty is copied into the scene under the empty, the empty is hidden, and
// the first mesh of the copy is returned.
func (s *Scene) MaterializeProxy(e onion.Entity) (onion.Entity, error) {
	src, ok := s.objects[e.ID()]
	if !ok {
		return nil, fmt.Errorf("%s: %w", e.ID(), ErrNotFound)
	}
	if src.kind != onion.KindEmpty || src.Instance == nil {
		return nil, fmt.Errorf("%s: %w", e.ID(), ErrNotLinked)
	}

	var copies []*Object
	var visual *Object
	var copyTree func(o, parent *Object) error
	copyTree = func(o, parent *Object) error {
		c := o.clone(s.uniqueName(o.name + ".override"))
		c.proxyOf = src
		if err := s.Add(c, parent); err != nil {
			return err
		}
		copies = append(copies, c)
		if visual == nil && c.kind == onion.KindMesh {
			visual = c
		}
		for _, child := range o.children {
			if err := copyTree(child, c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := copyTree(src.Instance, src); err != nil {
		for _, c := range copies {
			s.remove(c)
		}
		return nil, err
	}
	if visual == nil {
		for _, c := range copies {
			s.remove(c)
		}
		return nil, fmt.Errorf("%s: linked hierarchy has no mesh", e.ID())
	}

	src.Hidden = true
	return visual, nil
}

// ReleaseProxy implements onion.Scene. Every copy made from the same empty
// is removed and the empty is shown again. The copy passed in may already
// have been deleted from the scene.
func (s *Scene) ReleaseProxy(visual onion.Entity) error {
	o, ok := visual.(*Object)
	if !ok {
		if o, ok = s.objects[visual.ID()]; !ok {
			return fmt.Errorf("%s: %w", visual.ID(), ErrNotFound)
		}
	}
	src := o.proxyOf
	if src == nil {
		return fmt.Errorf("%s: %w", visual.ID(), ErrNotLinked)
	}
	for _, x := range s.Objects() {
		if x.proxyOf == src {
			s.remove(x)
		}
	}
	src.Hidden = false
	return nil
}

func (s *Scene) uniqueName(base string) string {
	name := base
	for i := 1; ; i++ {
		if _, taken := s.objects[onion.EntityID(name)]; !taken {
			return name
		}
		name = fmt.Sprintf("%s.%03d", base, i)
	}
}

// Drawable is a mesh to draw this frame together with an extra transform
// applied before its own world matrix. Owner is the registered object a
// click on it selects: the mesh itself, or the empty showing a linked
// instance.
type Drawable struct {
	Object *Object
	Base   mgl32.Mat4
	Owner  *Object
}

// Drawables returns every visible mesh, including the contents of visible
// linked instances.
func (s *Scene) Drawables() []Drawable {
	var out []Drawable
	var visitLinked func(o, owner *Object, base mgl32.Mat4)
	visitLinked = func(o, owner *Object, base mgl32.Mat4) {
		if o.kind == onion.KindMesh && o.Mesh != nil && !o.Hidden {
			out = append(out, Drawable{Object: o, Base: base, Owner: owner})
		}
		for _, c := range o.children {
			visitLinked(c, owner, base)
		}
	}
	for _, o := range s.order {
		if o.Hidden {
			continue
		}
		if o.kind == onion.KindMesh && o.Mesh != nil {
			out = append(out, Drawable{Object: o, Base: mgl32.Ident4(), Owner: o})
		}
		if o.kind == onion.KindEmpty && o.Instance != nil {
			visitLinked(o.Instance, o, o.WorldMatrix())
		}
	}
	return out
}

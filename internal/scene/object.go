package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/onionskin/internal/onion"
)

// Object is a node of the scene graph: a mesh or an empty. Empties with an
// Instance stand in for a linked library hierarchy.
type Object struct {
	scene    *Scene
	name     string
	kind     onion.EntityKind
	parent   *Object
	children []*Object

	// Rest transform, overridden per channel by Action keys.
	Location mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	Action *Action
	Mesh   *Mesh
	Bend   *Bend

	// Instance is the root of a linked hierarchy shown through this empty.
	Instance *Object

	Hidden  bool
	InFront bool

	// proxyOf is the linked empty this object was materialized from.
	proxyOf *Object
}

// Name returns the object name.
func (o *Object) Name() string { return o.name }

// ID implements onion.Entity.
func (o *Object) ID() onion.EntityID { return onion.EntityID(o.name) }

// Kind implements onion.Entity.
func (o *Object) Kind() onion.EntityKind { return o.kind }

// Parent implements onion.Entity.
func (o *Object) Parent() (onion.Entity, bool) {
	if o.parent == nil {
		return nil, false
	}
	return o.parent, true
}

// ParentObject returns the parent object or nil.
func (o *Object) ParentObject() *Object { return o.parent }

// Children returns the direct children.
func (o *Object) Children() []*Object { return o.children }

// IsProxy reports whether o was materialized from a linked instance.
func (o *Object) IsProxy() bool { return o.proxyOf != nil }

// ProxySource implements onion.ProxyCopy.
func (o *Object) ProxySource() (onion.Entity, bool) {
	if o.proxyOf == nil {
		return nil, false
	}
	return o.proxyOf, true
}

// KeyTimes implements onion.Entity.
func (o *Object) KeyTimes() ([]float64, bool) {
	if o.Action == nil {
		return nil, false
	}
	return o.Action.KeyTimes(), true
}

// SetShowInFront implements onion.InFrontSetter.
func (o *Object) SetShowInFront(on bool) { o.InFront = on }

// SetParent reparents o. A nil parent makes o a root.
func (o *Object) SetParent(parent *Object) {
	if o.parent != nil {
		siblings := o.parent.children
		for i, c := range siblings {
			if c == o {
				o.parent.children = append(siblings[:i:i], siblings[i+1:]...)
				break
			}
		}
	}
	o.parent = parent
	if parent != nil {
		parent.children = append(parent.children, o)
	}
}

func (o *Object) frame() float64 {
	if o.scene == nil {
		return 0
	}
	return float64(o.scene.frame)
}

// LocalMatrix returns translate * rotate * scale at the current frame.
func (o *Object) LocalMatrix() mgl32.Mat4 {
	t := o.frame()
	loc, rot, scale := o.Location, o.Rotation, o.Scale
	if o.Action != nil {
		if v, ok := o.Action.Location(t); ok {
			loc = v
		}
		if q, ok := o.Action.Rotation(t); ok {
			rot = q
		}
		if v, ok := o.Action.Scale(t); ok {
			scale = v
		}
	}
	if rot.Len() == 0 {
		rot = mgl32.QuatIdent()
	}
	return mgl32.Translate3D(loc.X(), loc.Y(), loc.Z()).
		Mul4(rot.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// WorldMatrix implements onion.Entity.
func (o *Object) WorldMatrix() mgl32.Mat4 {
	m := o.LocalMatrix()
	for p := o.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// bendAmount reads the bend channel from o, falling back to its parent the
// way a rig drives a skinned mesh.
func (o *Object) bendAmount() float32 {
	t := o.frame()
	if o.Action != nil {
		if v, ok := o.Action.Bend(t); ok {
			return v
		}
	}
	if o.parent != nil && o.parent.Action != nil {
		if v, ok := o.parent.Action.Bend(t); ok {
			return v
		}
	}
	return 0
}

// Evaluate implements onion.Entity.
func (o *Object) Evaluate() (*onion.Geometry, error) {
	if o.Mesh == nil {
		return nil, fmt.Errorf("object %s has no mesh", o.name)
	}
	positions := make([][3]float32, len(o.Mesh.Positions))
	copy(positions, o.Mesh.Positions)
	if o.Bend != nil {
		o.Bend.Apply(positions, o.bendAmount())
	}
	return &onion.Geometry{Positions: positions, Faces: o.Mesh.Faces}, nil
}

// clone copies o without scene registration or hierarchy.
func (o *Object) clone(name string) *Object {
	c := *o
	c.name = name
	c.parent = nil
	c.children = nil
	c.proxyOf = nil
	return &c
}

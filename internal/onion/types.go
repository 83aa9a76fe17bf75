// Package onion bakes per-frame snapshots of an animated mesh and draws a
// window of them around the current frame as translucent overlays.
//
// The host scene graph, the GPU and the event loop are reached through the
// Scene, Entity, Device and Scheduler interfaces. Everything in this package
// runs on the host's single UI/render thread.
package onion

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Frame is an integer point on the host timeline.
type Frame int

// EntityID names an entity in the host scene.
type EntityID string

// EntityKind distinguishes renderable meshes from empties. Empties are how
// hosts expose linked rig instances.
type EntityKind int

const (
	KindMesh EntityKind = iota
	KindEmpty
)

func (k EntityKind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Geometry is deformed local-space geometry as the host evaluates it.
// Faces are polygons of three or more vertex indices.
type Geometry struct {
	Positions [][3]float32
	Faces     [][]uint32
}

// Entity is an animatable object in the host scene.
type Entity interface {
	ID() EntityID
	Kind() EntityKind
	// Parent returns the parent entity, used as the key source for rigs.
	Parent() (Entity, bool)
	// KeyTimes returns the times of every key on every curve. ok is false
	// when the entity carries no animation curves at all.
	KeyTimes() (times []float64, ok bool)
	// Evaluate returns fully deformed geometry at the scene's current frame.
	Evaluate() (*Geometry, error)
	// WorldMatrix returns the world transform at the scene's current frame.
	WorldMatrix() mgl32.Mat4
}

// Scene is the host collaborator that owns the time cursor and the entities.
type Scene interface {
	CurrentFrame() Frame
	SetFrame(f Frame)
	Lookup(id EntityID) (Entity, bool)
	// Active returns the user's active selection.
	Active() (Entity, bool)
	// OverlaysVisible reports whether viewport overlays are enabled.
	OverlaysVisible() bool
	// MaterializeProxy turns a linked instance into a local, drawable copy.
	MaterializeProxy(e Entity) (Entity, error)
	// ReleaseProxy removes a copy made by MaterializeProxy.
	ReleaseProxy(visual Entity) error
}

// InFrontSetter is implemented by entities that can be drawn over the
// onion skins.
type InFrontSetter interface {
	SetShowInFront(on bool)
}

// ProxyCopy is implemented by entities that can be part of a materialized
// linked hierarchy. ProxySource returns the linked entity the copy was made
// from, with ok false for ordinary entities.
type ProxyCopy interface {
	ProxySource() (Entity, bool)
}

// Snapshot is the world-space triangulated mesh of an entity at one frame.
// Snapshots are never mutated after a bake.
type Snapshot struct {
	Vertices [][3]float32
	Indices  [][3]uint32
}

// VertexCount returns the number of vertices.
func (s *Snapshot) VertexCount() int { return len(s.Vertices) }

// TriangleCount returns the number of triangles.
func (s *Snapshot) TriangleCount() int { return len(s.Indices) }

// FrameSet is an unordered set of frames.
type FrameSet map[Frame]struct{}

// NewFrameSet returns a set holding frames.
func NewFrameSet(frames ...Frame) FrameSet {
	s := make(FrameSet, len(frames))
	for _, f := range frames {
		s[f] = struct{}{}
	}
	return s
}

// Has reports whether f is in the set.
func (s FrameSet) Has(f Frame) bool {
	_, ok := s[f]
	return ok
}

// Len returns the number of frames in the set.
func (s FrameSet) Len() int { return len(s) }

// Sorted returns the frames in ascending numeric order.
func (s FrameSet) Sorted() []Frame {
	out := make([]Frame, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

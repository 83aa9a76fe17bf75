package onion

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Sampler turns an entity at a frame into a world-space Snapshot.
type Sampler struct {
	scene Scene
}

// NewSampler returns a sampler that moves scene's time cursor.
func NewSampler(scene Scene) *Sampler {
	return &Sampler{scene: scene}
}

// Sample moves the time cursor to f and snapshots e there. The cursor is
// left at f; SampleFrames restores it after a whole pass.
func (s *Sampler) Sample(e Entity, f Frame) (*Snapshot, error) {
	s.scene.SetFrame(f)

	geom, err := e.Evaluate()
	if err != nil {
		return nil, fmt.Errorf("evaluating %s at frame %d: %w", e.ID(), f, err)
	}
	world := e.WorldMatrix()

	vertices := make([][3]float32, len(geom.Positions))
	for i, p := range geom.Positions {
		v := world.Mul4x1(mgl32.Vec3(p).Vec4(1)).Vec3()
		vertices[i] = [3]float32(v)
	}

	indices, err := triangulate(geom.Faces, len(vertices))
	if err != nil {
		return nil, fmt.Errorf("triangulating %s at frame %d: %w", e.ID(), f, err)
	}
	return &Snapshot{Vertices: vertices, Indices: indices}, nil
}

// SampleFrames snapshots e at every frame and puts the time cursor back
// where it was once the pass ends, whether or not it succeeded.
func (s *Sampler) SampleFrames(e Entity, frames []Frame) (map[Frame]*Snapshot, error) {
	orig := s.scene.CurrentFrame()
	defer s.scene.SetFrame(orig)

	out := make(map[Frame]*Snapshot, len(frames))
	for _, f := range frames {
		snap, err := s.Sample(e, f)
		if err != nil {
			return nil, err
		}
		out[f] = snap
	}
	return out, nil
}

// triangulate fans each polygon from its first vertex. Winding is kept as
// the host supplied it.
func triangulate(faces [][]uint32, vertexCount int) ([][3]uint32, error) {
	n := 0
	for _, face := range faces {
		if len(face) >= 3 {
			n += len(face) - 2
		}
	}

	tris := make([][3]uint32, 0, n)
	for fi, face := range faces {
		if len(face) < 3 {
			continue
		}
		for _, idx := range face {
			if int(idx) >= vertexCount {
				return nil, fmt.Errorf("face %d references vertex %d of %d", fi, idx, vertexCount)
			}
		}
		for i := 1; i+1 < len(face); i++ {
			tris = append(tris, [3]uint32{face[0], face[i], face[i+1]})
		}
	}
	return tris, nil
}

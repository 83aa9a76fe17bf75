package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/onionskin/internal/onion"
)

// Names of the objects in the demo scene.
const (
	DemoRig    = "Rig"
	DemoBody   = "Body"
	DemoCrowd  = "Crowd"
	DemoWalker = "Walker"
)

// Demo builds a small scene: a keyed rig swinging and bending a column, and
// an empty showing a linked walker that strides on its own keys. Body is
// selected and the cursor sits on frame 1.
func Demo() *Scene {
	s := New()
	s.frame = 1

	rig := s.NewObject(DemoRig, onion.KindEmpty)
	rig.Action = &Action{
		PosKeys: []VecKey{
			{Frame: 1, Value: mgl32.Vec3{-3, 0, 0}},
			{Frame: 10, Value: mgl32.Vec3{0, 0.5, 0}},
			{Frame: 20, Value: mgl32.Vec3{3, 0, 0}},
		},
		RotKeys: []RotKey{
			{Frame: 1, Value: mgl32.QuatIdent()},
			{Frame: 20, Value: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})},
		},
		BendKeys: []ScalarKey{
			{Frame: 1, Value: 0},
			{Frame: 10, Value: 0.8},
			{Frame: 20, Value: -0.4},
		},
	}
	mustAdd(s, rig, nil)

	body := s.NewObject(DemoBody, onion.KindMesh)
	body.Mesh = mustColumn(0.6, 3, 0.6, 12)
	body.Bend = &Bend{Height: 3}
	mustAdd(s, body, rig)

	walker := s.NewObject(DemoWalker, onion.KindMesh)
	walker.Mesh = mustColumn(0.4, 1.6, 0.4, 4)
	walker.Action = &Action{
		PosKeys: []VecKey{
			{Frame: 1, Value: mgl32.Vec3{0, 0, -2}},
			{Frame: 12, Value: mgl32.Vec3{0, 0.3, 0}},
			{Frame: 24, Value: mgl32.Vec3{0, 0, 2}},
		},
	}

	crowd := s.NewObject(DemoCrowd, onion.KindEmpty)
	crowd.Location = mgl32.Vec3{0, 0, -4}
	crowd.Instance = walker
	mustAdd(s, crowd, nil)

	s.active = body
	return s
}

func mustAdd(s *Scene, o, parent *Object) {
	if err := s.Add(o, parent); err != nil {
		panic(err)
	}
}

func mustColumn(w, h, d float32, segments int) *Mesh {
	m, err := Column(w, h, d, segments)
	if err != nil {
		panic(err)
	}
	return m
}

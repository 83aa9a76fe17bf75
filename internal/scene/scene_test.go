package scene

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/onionskin/internal/onion"
)

func TestActionInterpolation(t *testing.T) {
	a := &Action{
		PosKeys: []VecKey{
			{Frame: 0, Value: mgl32.Vec3{0, 0, 0}},
			{Frame: 10, Value: mgl32.Vec3{10, 0, 0}},
		},
		BendKeys: []ScalarKey{{Frame: 4, Value: 1}},
	}

	tests := []struct {
		t    float64
		want mgl32.Vec3
	}{
		{-3, mgl32.Vec3{0, 0, 0}},
		{0, mgl32.Vec3{0, 0, 0}},
		{5, mgl32.Vec3{5, 0, 0}},
		{10, mgl32.Vec3{10, 0, 0}},
		{20, mgl32.Vec3{10, 0, 0}},
	}
	for _, tt := range tests {
		got, ok := a.Location(tt.t)
		if !ok || !got.ApproxEqual(tt.want) {
			t.Errorf("Location(%g) = %v, %v; want %v", tt.t, got, ok, tt.want)
		}
	}

	if _, ok := a.Scale(5); ok {
		t.Error("Scale reported keys on an empty channel")
	}
	if v, ok := a.Bend(100); !ok || v != 1 {
		t.Errorf("Bend(100) = %v, %v; want 1, true", v, ok)
	}
}

func TestActionRotationSlerp(t *testing.T) {
	a := &Action{RotKeys: []RotKey{
		{Frame: 0, Value: mgl32.QuatIdent()},
		{Frame: 10, Value: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})},
	}}
	got, ok := a.Rotation(5)
	want := mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0})
	if !ok || !got.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("Rotation(5) = %v, want %v", got, want)
	}
}

func TestActionKeyTimesSort(t *testing.T) {
	a := &Action{
		PosKeys:  []VecKey{{Frame: 9}, {Frame: 2}},
		BendKeys: []ScalarKey{{Frame: 5}},
	}
	a.Sort()
	if a.PosKeys[0].Frame != 2 {
		t.Errorf("PosKeys not sorted: %v", a.PosKeys)
	}
	got := a.KeyTimes()
	slices.Sort(got)
	if !slices.Equal(got, []float64{2, 5, 9}) {
		t.Errorf("KeyTimes = %v", got)
	}
	if a.Empty() {
		t.Error("Empty on keyed action")
	}
}

func TestWorldMatrix(t *testing.T) {
	s := New()
	parent := s.NewObject("parent", onion.KindEmpty)
	parent.Location = mgl32.Vec3{1, 0, 0}
	parent.Scale = mgl32.Vec3{2, 2, 2}
	child := s.NewObject("child", onion.KindEmpty)
	child.Location = mgl32.Vec3{0, 2, 0}
	mustAdd(s, parent, nil)
	mustAdd(s, child, parent)

	got := child.WorldMatrix().Col(3)
	if !got.ApproxEqual(mgl32.Vec4{1, 4, 0, 1}) {
		t.Errorf("child origin = %v, want [1 4 0 1]", got)
	}
}

func TestWorldMatrixFollowsCursor(t *testing.T) {
	s := New()
	o := s.NewObject("o", onion.KindEmpty)
	o.Action = &Action{PosKeys: []VecKey{
		{Frame: 0, Value: mgl32.Vec3{0, 0, 0}},
		{Frame: 4, Value: mgl32.Vec3{0, 0, 8}},
	}}
	mustAdd(s, o, nil)

	s.SetFrame(2)
	if got := o.WorldMatrix().Col(3); !got.ApproxEqual(mgl32.Vec4{0, 0, 4, 1}) {
		t.Errorf("origin at frame 2 = %v", got)
	}
}

func TestColumn(t *testing.T) {
	m, err := Column(1, 3, 1, 3)
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if len(m.Positions) != 16 {
		t.Errorf("positions = %d, want 16", len(m.Positions))
	}
	if len(m.Faces) != 14 {
		t.Errorf("faces = %d, want 14", len(m.Faces))
	}
	if top := m.Positions[15]; top[1] != 3 {
		t.Errorf("top ring height = %v, want 3", top[1])
	}

	for _, bad := range []struct {
		w, h, d  float32
		segments int
	}{
		{1, 1, 1, 0},
		{0, 1, 1, 1},
		{1, -1, 1, 1},
	} {
		if _, err := Column(bad.w, bad.h, bad.d, bad.segments); err == nil {
			t.Errorf("Column(%v) succeeded", bad)
		}
	}
}

func TestBendApply(t *testing.T) {
	b := &Bend{Height: 2}
	pos := [][3]float32{{1, 0, 0}, {1, 2, 0}}
	b.Apply(pos, math.Pi/2)

	if pos[0] != [3]float32{1, 0, 0} {
		t.Errorf("base vertex moved to %v", pos[0])
	}
	want := mgl32.Vec3{-2, 1, 0}
	if !mgl32.Vec3(pos[1]).ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("top vertex = %v, want %v", pos[1], want)
	}
}

func TestEvaluateReadsParentBend(t *testing.T) {
	s := New()
	rig := s.NewObject("rig", onion.KindEmpty)
	rig.Action = &Action{BendKeys: []ScalarKey{{Frame: 0, Value: 0}, {Frame: 10, Value: 1}}}
	body := s.NewObject("body", onion.KindMesh)
	body.Mesh = mustColumn(1, 2, 1, 2)
	body.Bend = &Bend{Height: 2}
	mustAdd(s, rig, nil)
	mustAdd(s, body, rig)

	s.SetFrame(0)
	rest, err := body.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	s.SetFrame(10)
	bent, err := body.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	last := len(rest.Positions) - 1
	if rest.Positions[last] == bent.Positions[last] {
		t.Error("top vertex did not move with the rig's bend channel")
	}
	if body.Mesh.Positions[last] != rest.Positions[last] {
		t.Error("Evaluate modified the rest mesh")
	}

	if _, err := rig.Evaluate(); err == nil {
		t.Error("Evaluate on an empty succeeded")
	}
}

func TestSceneRegistry(t *testing.T) {
	s := Demo()

	if err := s.Add(s.NewObject(DemoBody, onion.KindMesh), nil); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate Add error = %v", err)
	}
	if err := s.Select("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Select unknown error = %v", err)
	}

	active, ok := s.Active()
	if !ok || active.ID() != DemoBody {
		t.Fatalf("Active = %v, %v", active, ok)
	}

	if err := s.Remove(DemoRig); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	body, _ := s.Object(DemoBody)
	if body.ParentObject() != nil {
		t.Error("child kept a removed parent")
	}
	if _, ok := s.Lookup(DemoRig); ok {
		t.Error("removed object still resolves")
	}

	if err := s.Remove(DemoBody); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := s.Active(); ok {
		t.Error("removing the active object kept the selection")
	}
	if err := s.Remove(DemoBody); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove error = %v", err)
	}
}

func TestMaterializeAndReleaseProxy(t *testing.T) {
	s := Demo()
	crowd, _ := s.Object(DemoCrowd)

	visual, err := s.MaterializeProxy(crowd)
	if err != nil {
		t.Fatalf("MaterializeProxy: %v", err)
	}
	if visual.ID() != DemoWalker+".override" {
		t.Errorf("proxy id = %s", visual.ID())
	}
	if visual.Kind() != onion.KindMesh {
		t.Errorf("proxy kind = %v", visual.Kind())
	}
	if p, ok := visual.Parent(); !ok || p.ID() != DemoCrowd {
		t.Errorf("proxy parent = %v, %v", p, ok)
	}
	if !crowd.Hidden {
		t.Error("linked empty still shown after materializing")
	}
	keys, err := onion.ExtractKeys(visual)
	if err != nil || !slices.Equal(keys, []onion.Frame{1, 12, 24}) {
		t.Errorf("proxy keys = %v, %v", keys, err)
	}

	// Proxy sits where the empty puts it.
	s.SetFrame(1)
	if got := visual.WorldMatrix().Col(3); !got.ApproxEqual(mgl32.Vec4{0, 0, -6, 1}) {
		t.Errorf("proxy origin = %v", got)
	}

	if err := s.ReleaseProxy(visual); err != nil {
		t.Fatalf("ReleaseProxy: %v", err)
	}
	if _, ok := s.Lookup(visual.ID()); ok {
		t.Error("proxy still in scene")
	}
	if crowd.Hidden {
		t.Error("linked empty still hidden after release")
	}
	if len(crowd.Children()) != 0 {
		t.Errorf("empty kept %d children", len(crowd.Children()))
	}
}

func TestMaterializeProxyErrors(t *testing.T) {
	s := Demo()
	rig, _ := s.Object(DemoRig)
	body, _ := s.Object(DemoBody)

	if _, err := s.MaterializeProxy(rig); !errors.Is(err, ErrNotLinked) {
		t.Errorf("MaterializeProxy(rig) error = %v", err)
	}
	if _, err := s.MaterializeProxy(body); !errors.Is(err, ErrNotLinked) {
		t.Errorf("MaterializeProxy(body) error = %v", err)
	}
	if err := s.ReleaseProxy(body); !errors.Is(err, ErrNotLinked) {
		t.Errorf("ReleaseProxy(body) error = %v", err)
	}
}

func TestMaterializeTwiceGetsUniqueNames(t *testing.T) {
	s := Demo()
	crowd, _ := s.Object(DemoCrowd)
	a, err := s.MaterializeProxy(crowd)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.MaterializeProxy(crowd)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID() == b.ID() {
		t.Fatalf("both proxies named %s", a.ID())
	}
	if b.ID() != DemoWalker+".override.001" {
		t.Errorf("second proxy = %s", b.ID())
	}
}

func TestFrameRange(t *testing.T) {
	if _, _, ok := New().FrameRange(); ok {
		t.Error("empty scene reported a frame range")
	}
	first, last, ok := Demo().FrameRange()
	if !ok || first != 1 || last != 24 {
		t.Errorf("FrameRange = %d..%d, %v; want 1..24", first, last, ok)
	}
}

func TestDrawables(t *testing.T) {
	s := Demo()
	names := func() []string {
		var out []string
		for _, d := range s.Drawables() {
			out = append(out, d.Object.Name())
		}
		return out
	}
	if got := names(); !slices.Equal(got, []string{DemoBody, DemoWalker}) {
		t.Errorf("drawables = %v", got)
	}
	if owner := s.Drawables()[1].Owner; owner == nil || owner.Name() != DemoCrowd {
		t.Errorf("linked drawable owner = %v", owner)
	}

	crowd, _ := s.Object(DemoCrowd)
	if _, err := s.MaterializeProxy(crowd); err != nil {
		t.Fatal(err)
	}
	if got := names(); !slices.Equal(got, []string{DemoBody, DemoWalker + ".override"}) {
		t.Errorf("drawables with proxy = %v", got)
	}
}

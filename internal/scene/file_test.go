package scene

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/onionskin/internal/onion"
)

const sampleScene = `
frame: 3
active: Arm
objects:
  - name: Root
    type: empty
    keys:
      - frame: 1
        location: [0, 0, 0]
        bend: 0
      - frame: 7.9
        location: [2, 0, 0]
        bend: 1
  - name: Arm
    type: mesh
    parent: Root
    in_front: true
    mesh:
      primitive: column
      size: [1, 2, 1]
      segments: 2
    bend:
      height: 2
  - name: Ghost
    type: empty
    location: [0, 0, 5]
    linked: Prop
library:
  Prop:
    - name: PropBase
      type: mesh
      mesh:
        vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
        faces: [[0, 1, 2]]
      keys:
        - frame: 2
          rotation: [0, 90, 0]
`

func TestLoad(t *testing.T) {
	s, err := Load(strings.NewReader(sampleScene))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.CurrentFrame() != 3 {
		t.Errorf("frame = %d, want 3", s.CurrentFrame())
	}
	if a, ok := s.Active(); !ok || a.ID() != "Arm" {
		t.Errorf("active = %v, %v", a, ok)
	}

	arm, _ := s.Object("Arm")
	if arm.ParentObject() == nil || arm.ParentObject().Name() != "Root" {
		t.Errorf("Arm parent = %v", arm.ParentObject())
	}
	if !arm.InFront {
		t.Error("in_front not applied")
	}
	if len(arm.Mesh.Positions) != 12 {
		t.Errorf("Arm vertices = %d, want 12", len(arm.Mesh.Positions))
	}

	root, _ := s.Object("Root")
	times, ok := root.KeyTimes()
	slices.Sort(times)
	if !ok || !slices.Equal(times, []float64{1, 1, 7.9, 7.9}) {
		t.Errorf("Root key times = %v, %v", times, ok)
	}

	ghost, _ := s.Object("Ghost")
	if ghost.Instance == nil || ghost.Instance.Name() != "PropBase" {
		t.Fatalf("Ghost instance = %v", ghost.Instance)
	}
	if _, ok := s.Lookup("PropBase"); ok {
		t.Error("library object registered in the scene")
	}
	q, _ := ghost.Instance.Action.Rotation(2)
	want := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	if !q.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("PropBase rotation = %v, want %v", q, want)
	}

	keys, err := onion.ExtractKeys(arm)
	if err != nil || !slices.Equal(keys, []onion.Frame{1, 7}) {
		t.Errorf("Arm keys = %v, %v; want [1 7]", keys, err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.yaml")
	if err := os.WriteFile(path, []byte(sampleScene), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err != nil {
		t.Errorf("LoadFile: %v", err)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile on a missing file succeeded")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		invalid bool
	}{
		{"unknown field", "objects:\n  - name: A\n    type: empty\n    colour: red\n", false},
		{"no name", "objects:\n  - type: empty\n", true},
		{"unknown type", "objects:\n  - name: A\n    type: light\n", true},
		{"duplicate name", "objects:\n  - name: A\n    type: empty\n  - name: A\n    type: empty\n", true},
		{"unknown parent", "objects:\n  - name: A\n    type: empty\n    parent: B\n", true},
		{"mesh without geometry", "objects:\n  - name: A\n    type: mesh\n", true},
		{"empty with mesh", "objects:\n  - name: A\n    type: empty\n    mesh: {primitive: column}\n", true},
		{"bad location", "objects:\n  - name: A\n    type: empty\n    location: [1, 2]\n", true},
		{"bad key rotation", "objects:\n  - name: A\n    type: empty\n    keys:\n      - frame: 1\n        rotation: [1]\n", true},
		{"face out of range", "objects:\n  - name: A\n    type: mesh\n    mesh:\n      vertices: [[0, 0, 0]]\n      faces: [[0, 1, 2]]\n", true},
		{"unknown primitive", "objects:\n  - name: A\n    type: mesh\n    mesh: {primitive: torus}\n", true},
		{"unknown library", "objects:\n  - name: A\n    type: empty\n    linked: Lib\n", true},
		{"mesh links", "objects:\n  - name: A\n    type: mesh\n    mesh: {primitive: column}\n    linked: Lib\nlibrary:\n  Lib:\n    - name: L\n      type: empty\n", true},
		{"library two roots", "objects: []\nlibrary:\n  Lib:\n    - name: L1\n      type: empty\n    - name: L2\n      type: empty\n", true},
		{"unknown active", "active: Z\nobjects:\n  - name: A\n    type: empty\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("Load succeeded")
			}
			if got := errors.Is(err, ErrInvalidScene); got != tt.invalid {
				t.Errorf("errors.Is(ErrInvalidScene) = %v, want %v (err: %v)", got, tt.invalid, err)
			}
		})
	}
}

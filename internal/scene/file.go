package scene

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/onionskin/internal/onion"
)

// ErrInvalidScene is returned for malformed scene descriptions.
var ErrInvalidScene = errors.New("invalid scene file")

// File is the YAML layout of a scene description.
type File struct {
	Frame   int                     `yaml:"frame"`
	Active  string                  `yaml:"active,omitempty"`
	Objects []ObjectSpec            `yaml:"objects"`
	Library map[string][]ObjectSpec `yaml:"library,omitempty"`
}

// ObjectSpec describes one object.
type ObjectSpec struct {
	Name     string    `yaml:"name"`
	Type     string    `yaml:"type"` // mesh or empty
	Parent   string    `yaml:"parent,omitempty"`
	Location []float32 `yaml:"location,omitempty"`
	Rotation []float32 `yaml:"rotation,omitempty"` // XYZ euler, degrees
	Scale    []float32 `yaml:"scale,omitempty"`
	Mesh     *MeshSpec `yaml:"mesh,omitempty"`
	Bend     *BendSpec `yaml:"bend,omitempty"`
	Keys     []KeySpec `yaml:"keys,omitempty"`
	Linked   string    `yaml:"linked,omitempty"` // library entry shown through an empty
	InFront  bool      `yaml:"in_front,omitempty"`
}

// MeshSpec is either a primitive or explicit geometry.
type MeshSpec struct {
	Primitive string       `yaml:"primitive,omitempty"` // column
	Size      []float32    `yaml:"size,omitempty"`
	Segments  int          `yaml:"segments,omitempty"`
	Vertices  [][3]float32 `yaml:"vertices,omitempty"`
	Faces     [][]uint32   `yaml:"faces,omitempty"`
}

// BendSpec configures the bend deformer.
type BendSpec struct {
	Height float32 `yaml:"height"`
}

// KeySpec keys any subset of channels at one frame.
type KeySpec struct {
	Frame    float64   `yaml:"frame"`
	Location []float32 `yaml:"location,omitempty"`
	Rotation []float32 `yaml:"rotation,omitempty"`
	Scale    []float32 `yaml:"scale,omitempty"`
	Bend     *float32  `yaml:"bend,omitempty"`
}

// LoadFile reads a scene description from path.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()
	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Load decodes a scene description and builds the scene.
func Load(r io.Reader) (*Scene, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return Build(&file)
}

// Build turns a decoded description into a scene.
func Build(file *File) (*Scene, error) {
	s := New()
	s.frame = onion.Frame(file.Frame)

	library := map[string]*Object{}
	for name, specs := range file.Library {
		root, err := s.buildDetached(name, specs)
		if err != nil {
			return nil, err
		}
		library[name] = root
	}

	objects, err := s.buildObjects(file.Objects)
	if err != nil {
		return nil, err
	}
	for i, spec := range file.Objects {
		if spec.Linked == "" {
			continue
		}
		root, ok := library[spec.Linked]
		if !ok {
			return nil, fmt.Errorf("%w: %s links unknown library %q", ErrInvalidScene, spec.Name, spec.Linked)
		}
		if objects[i].kind != onion.KindEmpty {
			return nil, fmt.Errorf("%w: only empties can link, %s is a mesh", ErrInvalidScene, spec.Name)
		}
		objects[i].Instance = root
	}
	for i, spec := range file.Objects {
		if spec.Parent == "" {
			continue
		}
		parent, ok := s.Object(spec.Parent)
		if !ok {
			return nil, fmt.Errorf("%w: %s has unknown parent %q", ErrInvalidScene, spec.Name, spec.Parent)
		}
		objects[i].SetParent(parent)
	}

	if file.Active != "" {
		if err := s.Select(file.Active); err != nil {
			return nil, fmt.Errorf("%w: active %v", ErrInvalidScene, err)
		}
	}
	return s, nil
}

func (s *Scene) buildObjects(specs []ObjectSpec) ([]*Object, error) {
	objects := make([]*Object, len(specs))
	for i := range specs {
		o, err := s.buildObject(&specs[i])
		if err != nil {
			return nil, err
		}
		if err := s.Add(o, nil); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
		}
		objects[i] = o
	}
	return objects, nil
}

// buildDetached builds a library hierarchy that is never registered in the
// scene. The single root is returned.
func (s *Scene) buildDetached(name string, specs []ObjectSpec) (*Object, error) {
	byName := map[string]*Object{}
	objects := make([]*Object, len(specs))
	for i := range specs {
		o, err := s.buildObject(&specs[i])
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", name, err)
		}
		if _, dup := byName[o.name]; dup {
			return nil, fmt.Errorf("%w: library %s repeats %q", ErrInvalidScene, name, o.name)
		}
		byName[o.name] = o
		objects[i] = o
	}
	var root *Object
	for i, spec := range specs {
		if spec.Parent == "" {
			if root != nil {
				return nil, fmt.Errorf("%w: library %s has more than one root", ErrInvalidScene, name)
			}
			root = objects[i]
			continue
		}
		parent, ok := byName[spec.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: library %s: %s has unknown parent %q", ErrInvalidScene, name, spec.Name, spec.Parent)
		}
		objects[i].SetParent(parent)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: library %s has no root", ErrInvalidScene, name)
	}
	return root, nil
}

func (s *Scene) buildObject(spec *ObjectSpec) (*Object, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: object without a name", ErrInvalidScene)
	}
	var kind onion.EntityKind
	switch spec.Type {
	case "mesh":
		kind = onion.KindMesh
	case "empty":
		kind = onion.KindEmpty
	default:
		return nil, fmt.Errorf("%w: %s has unknown type %q", ErrInvalidScene, spec.Name, spec.Type)
	}

	o := s.NewObject(spec.Name, kind)
	o.InFront = spec.InFront
	var err error
	if o.Location, err = vec3(spec.Location, o.Location); err != nil {
		return nil, fmt.Errorf("%w: %s location: %v", ErrInvalidScene, spec.Name, err)
	}
	if o.Scale, err = vec3(spec.Scale, o.Scale); err != nil {
		return nil, fmt.Errorf("%w: %s scale: %v", ErrInvalidScene, spec.Name, err)
	}
	if o.Rotation, err = euler(spec.Rotation, o.Rotation); err != nil {
		return nil, fmt.Errorf("%w: %s rotation: %v", ErrInvalidScene, spec.Name, err)
	}

	if spec.Mesh != nil {
		if kind != onion.KindMesh {
			return nil, fmt.Errorf("%w: empty %s cannot carry a mesh", ErrInvalidScene, spec.Name)
		}
		if o.Mesh, err = spec.Mesh.build(); err != nil {
			return nil, fmt.Errorf("%w: %s mesh: %v", ErrInvalidScene, spec.Name, err)
		}
	} else if kind == onion.KindMesh {
		return nil, fmt.Errorf("%w: mesh %s has no geometry", ErrInvalidScene, spec.Name)
	}
	if spec.Bend != nil {
		o.Bend = &Bend{Height: spec.Bend.Height}
	}

	if len(spec.Keys) > 0 {
		a := &Action{}
		for _, k := range spec.Keys {
			if err := a.addKey(k); err != nil {
				return nil, fmt.Errorf("%w: %s key at %g: %v", ErrInvalidScene, spec.Name, k.Frame, err)
			}
		}
		a.Sort()
		o.Action = a
	}
	return o, nil
}

func (a *Action) addKey(k KeySpec) error {
	if k.Location != nil {
		v, err := vec3(k.Location, mgl32.Vec3{})
		if err != nil {
			return err
		}
		a.PosKeys = append(a.PosKeys, VecKey{Frame: k.Frame, Value: v})
	}
	if k.Rotation != nil {
		q, err := euler(k.Rotation, mgl32.QuatIdent())
		if err != nil {
			return err
		}
		a.RotKeys = append(a.RotKeys, RotKey{Frame: k.Frame, Value: q})
	}
	if k.Scale != nil {
		v, err := vec3(k.Scale, mgl32.Vec3{})
		if err != nil {
			return err
		}
		a.ScaleKeys = append(a.ScaleKeys, VecKey{Frame: k.Frame, Value: v})
	}
	if k.Bend != nil {
		a.BendKeys = append(a.BendKeys, ScalarKey{Frame: k.Frame, Value: *k.Bend})
	}
	return nil
}

func (m *MeshSpec) build() (*Mesh, error) {
	switch m.Primitive {
	case "":
		if len(m.Vertices) == 0 {
			return nil, errors.New("no vertices")
		}
		for _, f := range m.Faces {
			for _, idx := range f {
				if int(idx) >= len(m.Vertices) {
					return nil, fmt.Errorf("face index %d out of range", idx)
				}
			}
		}
		return &Mesh{Positions: m.Vertices, Faces: m.Faces}, nil
	case "column":
		size, err := vec3(m.Size, mgl32.Vec3{1, 1, 1})
		if err != nil {
			return nil, err
		}
		segments := m.Segments
		if segments == 0 {
			segments = 1
		}
		return Column(size.X(), size.Y(), size.Z(), segments)
	default:
		return nil, fmt.Errorf("unknown primitive %q", m.Primitive)
	}
}

func vec3(v []float32, def mgl32.Vec3) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	default:
		return def, fmt.Errorf("want 3 components, got %d", len(v))
	}
}

func euler(v []float32, def mgl32.Quat) (mgl32.Quat, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl32.AnglesToQuat(
			mgl32.DegToRad(v[0]), mgl32.DegToRad(v[1]), mgl32.DegToRad(v[2]),
			mgl32.XYZ,
		), nil
	default:
		return def, fmt.Errorf("want 3 angles, got %d", len(v))
	}
}

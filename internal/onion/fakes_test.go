package onion

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// fakeEntity is a unit quad that slides +X by one unit per frame.
type fakeEntity struct {
	scene   *fakeScene
	id      EntityID
	kind    EntityKind
	parent  *fakeEntity
	keys    []float64
	curves  bool
	faces   [][]uint32
	evalErr error
	inFront bool
	proxyOf *fakeEntity
}

func (e *fakeEntity) ID() EntityID     { return e.id }
func (e *fakeEntity) Kind() EntityKind { return e.kind }

func (e *fakeEntity) Parent() (Entity, bool) {
	if e.parent == nil {
		return nil, false
	}
	return e.parent, true
}

func (e *fakeEntity) KeyTimes() ([]float64, bool) {
	return e.keys, e.curves
}

func (e *fakeEntity) Evaluate() (*Geometry, error) {
	e.scene.evaluations++
	if e.evalErr != nil {
		return nil, e.evalErr
	}
	faces := e.faces
	if faces == nil {
		faces = [][]uint32{{0, 1, 2, 3}}
	}
	return &Geometry{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Faces:     faces,
	}, nil
}

func (e *fakeEntity) WorldMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(float32(e.scene.frame), 0, 0)
}

func (e *fakeEntity) SetShowInFront(on bool) { e.inFront = on }

func (e *fakeEntity) ProxySource() (Entity, bool) {
	if e.proxyOf == nil {
		return nil, false
	}
	return e.proxyOf, true
}

type fakeScene struct {
	frame       Frame
	entities    map[EntityID]*fakeEntity
	active      EntityID
	overlays    bool
	evaluations int
	frameSets   []Frame
	proxies     int
	released    []EntityID
	proxyErr    error
}

func newFakeScene() *fakeScene {
	return &fakeScene{
		entities: map[EntityID]*fakeEntity{},
		overlays: true,
	}
}

func (s *fakeScene) add(id EntityID, keys ...float64) *fakeEntity {
	e := &fakeEntity{scene: s, id: id, kind: KindMesh, keys: keys, curves: len(keys) > 0}
	s.entities[id] = e
	return e
}

func (s *fakeScene) CurrentFrame() Frame { return s.frame }

func (s *fakeScene) SetFrame(f Frame) {
	s.frame = f
	s.frameSets = append(s.frameSets, f)
}

func (s *fakeScene) Lookup(id EntityID) (Entity, bool) {
	e, ok := s.entities[id]
	if !ok {
		return nil, false
	}
	return e, true
}

func (s *fakeScene) Active() (Entity, bool) {
	if s.active == "" {
		return nil, false
	}
	return s.Lookup(s.active)
}

func (s *fakeScene) OverlaysVisible() bool { return s.overlays }

func (s *fakeScene) MaterializeProxy(e Entity) (Entity, error) {
	if s.proxyErr != nil {
		return nil, s.proxyErr
	}
	src := e.(*fakeEntity)
	s.proxies++
	id := EntityID(fmt.Sprintf("%s.proxy%d", src.id, s.proxies))
	p := s.add(id)
	p.parent = src
	p.proxyOf = src
	return p, nil
}

// ReleaseProxy drops every copy made from the same source, like a host
// removing a whole materialized hierarchy.
func (s *fakeScene) ReleaseProxy(visual Entity) error {
	p, ok := visual.(*fakeEntity)
	if !ok || p.proxyOf == nil {
		return errors.New("unknown proxy")
	}
	for id, e := range s.entities {
		if e.proxyOf == p.proxyOf {
			delete(s.entities, id)
		}
	}
	s.released = append(s.released, visual.ID())
	return nil
}

type fakeBatch struct {
	frame    int
	released int
}

func (b *fakeBatch) Release() { b.released++ }

type submission struct {
	batch *fakeBatch
	color Color
	caps  Capability
}

type fakeDevice struct {
	built       []*fakeBatch
	failAfter   int // fail the n-th NewBatch call when > 0
	calls       int
	caps        Capability
	submissions []submission
}

func (d *fakeDevice) NewBatch(s *Snapshot) (Batch, error) {
	d.calls++
	if d.failAfter > 0 && d.calls >= d.failAfter {
		return nil, errors.New("out of buffers")
	}
	b := &fakeBatch{frame: len(d.built)}
	d.built = append(d.built, b)
	return b, nil
}

func (d *fakeDevice) Enable(c Capability)  { d.caps |= c }
func (d *fakeDevice) Disable(c Capability) { d.caps &^= c }

func (d *fakeDevice) Submit(b Batch, c Color) {
	d.submissions = append(d.submissions, submission{batch: b.(*fakeBatch), color: c, caps: d.caps})
}

type fakeScheduler struct {
	next   Handle
	timers map[Handle]func()
	draws  map[Handle]func()
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{timers: map[Handle]func(){}, draws: map[Handle]func(){}}
}

func (s *fakeScheduler) AddTimer(_ time.Duration, fn func()) Handle {
	s.next++
	s.timers[s.next] = fn
	return s.next
}

func (s *fakeScheduler) AddDrawHandler(fn func()) Handle {
	s.next++
	s.draws[s.next] = fn
	return s.next
}

func (s *fakeScheduler) Remove(h Handle) {
	delete(s.timers, h)
	delete(s.draws, h)
}

func (s *fakeScheduler) tick() {
	for _, fn := range s.timers {
		fn()
	}
}

func (s *fakeScheduler) render() {
	for _, fn := range s.draws {
		fn()
	}
}

func directTarget(e *fakeEntity) Target {
	return Target{Kind: TargetDirect, Source: e, Visual: e}
}

package onion

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Options configures a Session.
type Options struct {
	Scene     Scene
	Device    Device
	Scheduler Scheduler
	Display   Display
	Mode      Mode
	Logger    *zap.Logger
}

// Session is the onion skin state of one open document: display settings,
// sampling mode, the cache and at most one running controller. Its methods
// are the user-facing operations; each failure is logged as one status line
// and returned.
type Session struct {
	scene  Scene
	device Device
	sched  Scheduler
	log    *zap.Logger

	display Display
	mode    Mode
	cache   *Cache
	ctrl    *Controller
}

// NewSession validates opts and returns a session with no target.
func NewSession(opts Options) (*Session, error) {
	if opts.Scene == nil || opts.Device == nil || opts.Scheduler == nil {
		return nil, errors.New("onion session needs a scene, device and scheduler")
	}
	if err := opts.Display.Validate(opts.Mode); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("onion")

	display := opts.Display
	// Drawing only starts through ToggleDraw.
	display.Draw = false

	return &Session{
		scene:   opts.Scene,
		device:  opts.Device,
		sched:   opts.Scheduler,
		log:     log,
		display: display,
		mode:    opts.Mode,
		cache:   NewCache(opts.Scene, log.Named("cache")),
	}, nil
}

// Display returns the current display settings.
func (s *Session) Display() Display { return s.display }

// Mode returns the sampling mode.
func (s *Session) Mode() Mode { return s.mode }

// Cache returns the session's cache.
func (s *Session) Cache() *Cache { return s.cache }

// Target returns the current onion target.
func (s *Session) Target() Target { return s.cache.Target() }

// Controller returns the running controller, or nil.
func (s *Session) Controller() *Controller { return s.ctrl }

// SetTarget makes the active selection the onion target and bakes it. On
// success drawing is switched on. On failure the previous target and cache
// stay as they were.
func (s *Session) SetTarget() error {
	active, ok := s.scene.Active()
	if !ok {
		return s.fail("set target", ErrNoSelection)
	}
	if err := s.display.Validate(s.mode); err != nil {
		return s.fail("set target", err)
	}

	prev := s.cache.Target()
	t, fresh, err := s.resolve(active)
	if err != nil {
		return s.fail("set target", err)
	}
	if err := s.cache.Rebuild(t, s.mode, s.display.SkinStep, s.device); err != nil {
		if fresh {
			s.releaseProxy(t)
		}
		return s.fail("set target", err)
	}
	if prev.Kind == TargetLinkedProxy && !sameLink(prev, t) {
		s.releaseProxy(prev)
	}
	s.applyInFront()

	if !s.display.Draw {
		return s.ToggleDraw()
	}
	return nil
}

// resolve reuses the current proxy when the user re-selects either side of
// it, retargets within the proxy when another copy of the same linked
// hierarchy is selected, and otherwise classifies e afresh. fresh is true
// when a new proxy was materialized.
func (s *Session) resolve(e Entity) (t Target, fresh bool, err error) {
	cur := s.cache.Target()
	if cur.Kind == TargetLinkedProxy {
		if e.ID() == cur.Source.ID() || e.ID() == cur.Visual.ID() {
			return cur, false, nil
		}
		if src, ok := proxySource(e); ok && src.ID() == cur.Source.ID() {
			return Target{Kind: TargetLinkedProxy, Source: cur.Source, Visual: e}, false, nil
		}
	}
	t, err = ResolveTarget(s.scene, e)
	if err != nil {
		return Target{}, false, err
	}
	return t, t.Kind == TargetLinkedProxy, nil
}

// UpdateTarget rebakes the current target, e.g. after its animation was
// edited.
func (s *Session) UpdateTarget() error {
	t := s.cache.Target()
	if t.IsZero() {
		return s.fail("update target", ErrNoSelection)
	}
	if !s.targetAlive() {
		return s.fail("update target", ErrTargetUnresolvable)
	}
	if err := s.display.Validate(s.mode); err != nil {
		return s.fail("update target", err)
	}
	if err := s.cache.Rebuild(t, s.mode, s.display.SkinStep, s.device); err != nil {
		return s.fail("update target", err)
	}
	return nil
}

// ClearTarget drops the target and its cache and removes any linked proxy.
// A running controller stops on its next tick. Clearing without a target
// does nothing.
func (s *Session) ClearTarget() error {
	t := s.cache.Target()
	s.cache.Clear()
	if t.Kind == TargetLinkedProxy {
		s.releaseProxy(t)
	}
	if !t.IsZero() {
		s.log.Info("onion target cleared", zap.String("target", string(t.ID())))
	}
	return nil
}

// AddOrClear sets a target when there is none and clears it otherwise.
func (s *Session) AddOrClear() error {
	if s.cache.Target().IsZero() {
		return s.SetTarget()
	}
	return s.ClearTarget()
}

// ToggleDraw flips the draw toggle. Switching it on starts a new
// controller; switching it off lets the running one stop on its next tick.
func (s *Session) ToggleDraw() error {
	if s.display.Draw {
		s.display.Draw = false
		return nil
	}
	if s.ctrl != nil {
		s.ctrl.Finish()
	}
	s.display.Draw = true
	ctrl := newController(s)
	if err := ctrl.Start(); err != nil {
		s.display.Draw = false
		return s.fail("toggle draw", err)
	}
	s.ctrl = ctrl
	return nil
}

// SetMode switches the sampling mode and rebakes the current target from
// scratch. If the rebake fails the previous mode is kept.
func (s *Session) SetMode(m Mode) error {
	if !m.Valid() {
		return s.fail("set mode", fmt.Errorf("%w: mode %d", ErrInvalidConfiguration, int(m)))
	}
	if m == s.mode {
		return nil
	}
	if err := s.display.Validate(m); err != nil {
		return s.fail("set mode", err)
	}

	t := s.cache.Target()
	if !t.IsZero() && !s.targetAlive() {
		// The cache cannot be rebaked for m, so it goes with its target.
		s.log.Info("onion target lost on mode change", zap.String("target", string(t.ID())))
		s.ClearTarget()
	}
	prev := s.mode
	s.mode = m
	if s.cache.Target().IsZero() {
		return nil
	}
	if err := s.cache.Rebuild(t, m, s.display.SkinStep, s.device); err != nil {
		s.mode = prev
		return s.fail("set mode", err)
	}
	return nil
}

// SetDisplay replaces the display settings. The draw toggle is left alone;
// use ToggleDraw for it.
func (s *Session) SetDisplay(d Display) error {
	if err := d.Validate(s.mode); err != nil {
		return s.fail("set display", err)
	}
	d.Draw = s.display.Draw
	s.display = d
	s.applyInFront()
	return nil
}

// Reset tears the session down when the document is replaced. Linked
// proxies belong to the old document and are left for it to discard.
func (s *Session) Reset() {
	if s.ctrl != nil {
		s.ctrl.Finish()
	}
	s.cache.Clear()
	s.display.Draw = false
}

// sameLink reports whether b still draws from the proxy hierarchy of a, so
// releasing a would delete b.
func sameLink(a, b Target) bool {
	return a.Kind == TargetLinkedProxy && b.Kind == TargetLinkedProxy && a.Source.ID() == b.Source.ID()
}

func proxySource(e Entity) (Entity, bool) {
	p, ok := e.(ProxyCopy)
	if !ok {
		return nil, false
	}
	return p.ProxySource()
}

func (s *Session) targetAlive() bool {
	t := s.cache.Target()
	if t.IsZero() {
		return false
	}
	_, ok := s.scene.Lookup(t.Visual.ID())
	return ok
}

func (s *Session) applyInFront() {
	t := s.cache.Target()
	if t.IsZero() {
		return
	}
	if f, ok := t.Visual.(InFrontSetter); ok {
		f.SetShowInFront(s.display.InFront)
	}
}

func (s *Session) releaseProxy(t Target) {
	if err := s.scene.ReleaseProxy(t.Visual); err != nil {
		s.log.Warn("releasing linked proxy", zap.String("proxy", string(t.Visual.ID())), zap.Error(err))
	}
}

func (s *Session) fail(op string, err error) error {
	s.log.Info(op+" cancelled", zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}

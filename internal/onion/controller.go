package onion

import (
	"time"

	"go.uber.org/zap"
)

// TickInterval is how often a running controller checks whether it should
// stop.
const TickInterval = 100 * time.Millisecond

// Handle identifies a scheduler subscription.
type Handle uint64

// Scheduler is the host event loop. Callbacks run on the host thread and
// must return promptly.
type Scheduler interface {
	AddTimer(interval time.Duration, fn func()) Handle
	AddDrawHandler(fn func()) Handle
	Remove(h Handle)
}

// State is a controller lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCancelled
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCancelled:
		return "cancelled"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is Cancelled or Finished.
func (s State) Terminal() bool {
	return s == StateCancelled || s == StateFinished
}

// Controller draws the session's cache once per render pass until the
// draw toggle goes off, the target disappears or the mode changes. A
// controller runs once; drawing again needs a new one.
type Controller struct {
	session *Session
	log     *zap.Logger

	state State
	mode  Mode
	timer Handle
	draw  Handle
}

func newController(s *Session) *Controller {
	return &Controller{
		session: s,
		log:     s.log.Named("controller"),
	}
}

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Start subscribes to timer ticks and render passes and records the mode
// to watch.
func (c *Controller) Start() error {
	if c.state != StateIdle {
		return ErrControllerSpent
	}
	sched := c.session.sched
	c.mode = c.session.mode
	c.timer = sched.AddTimer(TickInterval, func() { c.Tick() })
	c.draw = sched.AddDrawHandler(func() { c.Draw() })
	c.state = StateRunning
	c.log.Debug("draw loop started", zap.Stringer("mode", c.mode))
	return nil
}

// Tick checks the stop conditions and returns the resulting state.
func (c *Controller) Tick() State {
	if c.state != StateRunning {
		return c.state
	}
	s := c.session
	switch {
	case !s.targetAlive():
		c.stop(StateCancelled, ErrTargetUnresolvable.Error())
	case !s.display.Draw:
		c.stop(StateCancelled, "draw toggled off")
	case s.mode != c.mode:
		c.stop(StateCancelled, "mode changed")
	}
	return c.state
}

// Draw submits every cached batch the render policy lets through and
// returns how many were submitted.
func (c *Controller) Draw() int {
	if c.state != StateRunning {
		return 0
	}
	s := c.session
	if !s.scene.OverlaysVisible() {
		return 0
	}

	now := s.scene.CurrentFrame()
	d := s.display
	caps := d.capabilities()
	cache := s.cache

	n := 0
	for _, key := range cache.keys {
		dec := Decide(now, key, cache.directKeys, d)
		if !dec.Draw {
			continue
		}
		batch, ok := cache.batches[key]
		if !ok {
			continue
		}
		c.submit(batch, dec.Color, caps)
		n++
	}
	return n
}

// submit wraps one submission in its own capability scope so no state
// carries over to the next batch.
func (c *Controller) submit(b Batch, col Color, caps Capability) {
	dev := c.session.device
	if caps != 0 {
		dev.Enable(caps)
	}
	defer dev.Disable(CapAll)
	dev.Submit(b, col)
}

// Finish ends a running controller normally.
func (c *Controller) Finish() {
	if c.state == StateRunning {
		c.stop(StateFinished, "finished")
	}
}

func (c *Controller) stop(next State, reason string) {
	s := c.session
	s.sched.Remove(c.timer)
	s.sched.Remove(c.draw)
	s.display.Draw = false
	c.state = next
	if s.ctrl == c {
		s.ctrl = nil
	}
	c.log.Debug("draw loop stopped", zap.Stringer("state", next), zap.String("reason", reason))
}

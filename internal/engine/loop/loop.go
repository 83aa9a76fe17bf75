// Package loop runs periodic timers and per-frame draw handlers on the
// viewer's main thread. Nothing here starts a goroutine: the host loop
// calls Tick once per iteration and Draw once per rendered frame.
package loop

import (
	"time"

	"github.com/Faultbox/onionskin/internal/onion"
)

// Clock returns the current time. Tests substitute a manual clock.
type Clock func() time.Time

type timer struct {
	handle   onion.Handle
	interval time.Duration
	deadline time.Time
	fn       func()
	removed  bool
}

type drawHandler struct {
	handle  onion.Handle
	fn      func()
	removed bool
}

// Scheduler implements onion.Scheduler.
type Scheduler struct {
	now    Clock
	next   onion.Handle
	timers []*timer
	draws  []*drawHandler
}

// New returns a scheduler reading time from clock, or time.Now when nil.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = time.Now
	}
	return &Scheduler{now: clock}
}

// AddTimer registers fn to run every interval. The first call happens one
// interval from now.
func (s *Scheduler) AddTimer(interval time.Duration, fn func()) onion.Handle {
	if interval <= 0 {
		interval = time.Millisecond
	}
	s.next++
	s.timers = append(s.timers, &timer{
		handle:   s.next,
		interval: interval,
		deadline: s.now().Add(interval),
		fn:       fn,
	})
	return s.next
}

// AddDrawHandler registers fn to run on every Draw, after the handlers
// registered before it.
func (s *Scheduler) AddDrawHandler(fn func()) onion.Handle {
	s.next++
	s.draws = append(s.draws, &drawHandler{handle: s.next, fn: fn})
	return s.next
}

// Remove unregisters h. Removing from inside a callback is allowed; the
// removed callback is not called again, not even later in the same pass.
func (s *Scheduler) Remove(h onion.Handle) {
	for i, t := range s.timers {
		if t.handle == h {
			t.removed = true
			s.timers = append(s.timers[:i:i], s.timers[i+1:]...)
			return
		}
	}
	for i, d := range s.draws {
		if d.handle == h {
			d.removed = true
			s.draws = append(s.draws[:i:i], s.draws[i+1:]...)
			return
		}
	}
}

// Tick runs every timer whose deadline has passed and returns how many
// ran. A timer runs at most once per Tick; a late timer is rescheduled
// from its previous deadline, or from now when it fell more than one
// interval behind.
func (s *Scheduler) Tick() int {
	now := s.now()
	fired := 0
	for _, t := range append([]*timer(nil), s.timers...) {
		if t.removed || now.Before(t.deadline) {
			continue
		}
		t.deadline = t.deadline.Add(t.interval)
		if !t.deadline.After(now) {
			t.deadline = now.Add(t.interval)
		}
		t.fn()
		fired++
	}
	return fired
}

// Draw runs every draw handler in registration order.
func (s *Scheduler) Draw() {
	for _, d := range append([]*drawHandler(nil), s.draws...) {
		if !d.removed {
			d.fn()
		}
	}
}

// Len reports the registered timers and draw handlers.
func (s *Scheduler) Len() (timers, draws int) {
	return len(s.timers), len(s.draws)
}

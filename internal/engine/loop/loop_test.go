package loop

import (
	"slices"
	"testing"
	"time"

	"github.com/Faultbox/onionskin/internal/onion"
)

type manualClock struct{ t time.Time }

func (c *manualClock) now() time.Time          { return c.t }
func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestScheduler() (*Scheduler, *manualClock) {
	c := &manualClock{t: time.Unix(1000, 0)}
	return New(c.now), c
}

func TestTimerFiresOnInterval(t *testing.T) {
	s, clock := newTestScheduler()
	calls := 0
	s.AddTimer(100*time.Millisecond, func() { calls++ })

	steps := []struct {
		advance time.Duration
		want    int
	}{
		{50 * time.Millisecond, 0},
		{50 * time.Millisecond, 1},
		{10 * time.Millisecond, 1},
		{90 * time.Millisecond, 2},
		// A long stall fires once, not once per missed interval.
		{time.Second, 3},
		{50 * time.Millisecond, 3},
		{50 * time.Millisecond, 4},
	}
	for i, st := range steps {
		clock.advance(st.advance)
		s.Tick()
		if calls != st.want {
			t.Fatalf("step %d: calls = %d, want %d", i, calls, st.want)
		}
	}
}

func TestDrawOrder(t *testing.T) {
	s, _ := newTestScheduler()
	var order []string
	s.AddDrawHandler(func() { order = append(order, "a") })
	s.AddDrawHandler(func() { order = append(order, "b") })

	s.Draw()
	if !slices.Equal(order, []string{"a", "b"}) {
		t.Errorf("order = %v", order)
	}
}

func TestRemoveFromCallback(t *testing.T) {
	s, clock := newTestScheduler()
	var order []string
	var second onion.Handle
	s.AddDrawHandler(func() {
		order = append(order, "first")
		s.Remove(second)
	})
	second = s.AddDrawHandler(func() { order = append(order, "second") })

	s.Draw()
	if !slices.Equal(order, []string{"first"}) {
		t.Errorf("draw after removal = %v", order)
	}

	timerCalls := 0
	var h onion.Handle
	h = s.AddTimer(time.Millisecond, func() {
		timerCalls++
		s.Remove(h)
	})
	clock.advance(time.Millisecond)
	s.Tick()
	clock.advance(time.Millisecond)
	s.Tick()
	if timerCalls != 1 {
		t.Errorf("self-removing timer ran %d times", timerCalls)
	}
	if timers, draws := s.Len(); timers != 0 || draws != 1 {
		t.Errorf("Len = %d, %d; want 0, 1", timers, draws)
	}
}

func TestRemoveUnknownHandle(t *testing.T) {
	s, _ := newTestScheduler()
	s.AddDrawHandler(func() {})
	s.Remove(42)
	if _, draws := s.Len(); draws != 1 {
		t.Errorf("draws = %d, want 1", draws)
	}
}

func TestNonPositiveInterval(t *testing.T) {
	s, clock := newTestScheduler()
	calls := 0
	s.AddTimer(0, func() { calls++ })
	s.Tick()
	if calls != 0 {
		t.Error("timer ran before any time passed")
	}
	clock.advance(time.Millisecond)
	if s.Tick() != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

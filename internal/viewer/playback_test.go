package viewer

import (
	"testing"
	"time"

	"github.com/Faultbox/onionskin/internal/onion"
)

func TestPlaybackAdvance(t *testing.T) {
	p := NewPlayback(1, 5, 10)

	if got := p.Advance(3, time.Second); got != 3 {
		t.Errorf("stopped playback moved to %d", got)
	}

	p.Toggle()
	steps := []struct {
		dt   time.Duration
		want onion.Frame
	}{
		{50 * time.Millisecond, 3},
		{50 * time.Millisecond, 4},
		{200 * time.Millisecond, 1}, // 5, then wraps
		{10 * time.Second, 1},       // capped at one second: ten frames
	}
	cur := onion.Frame(3)
	for i, st := range steps {
		cur = p.Advance(cur, st.dt)
		if cur != st.want {
			t.Fatalf("step %d: frame = %d, want %d", i, cur, st.want)
		}
	}
}

func TestPlaybackStep(t *testing.T) {
	p := NewPlayback(20, 1, 0)
	if p.First != 1 || p.Last != 20 || p.FPS != 24 {
		t.Fatalf("NewPlayback = %+v", p)
	}

	tests := []struct {
		cur   onion.Frame
		delta int
		want  onion.Frame
	}{
		{5, 1, 6},
		{5, -1, 4},
		{20, 1, 1},
		{1, -1, 20},
		{0, 1, 1},
	}
	for _, tt := range tests {
		if got := p.Step(tt.cur, tt.delta); got != tt.want {
			t.Errorf("Step(%d, %d) = %d, want %d", tt.cur, tt.delta, got, tt.want)
		}
	}
}

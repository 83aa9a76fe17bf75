package viewer

import (
	"time"

	"github.com/Faultbox/onionskin/internal/onion"
)

// Playback moves the time cursor through a looping frame range.
type Playback struct {
	First   onion.Frame
	Last    onion.Frame
	FPS     int
	Playing bool

	acc time.Duration
}

// NewPlayback returns a stopped playback over first..last.
func NewPlayback(first, last onion.Frame, fps int) *Playback {
	if last < first {
		first, last = last, first
	}
	if fps <= 0 {
		fps = 24
	}
	return &Playback{First: first, Last: last, FPS: fps}
}

// Toggle starts or stops playback.
func (p *Playback) Toggle() {
	p.Playing = !p.Playing
	p.acc = 0
}

// Advance returns the frame reached from cur after dt of wall time. At
// most one second is caught up after a stall.
func (p *Playback) Advance(cur onion.Frame, dt time.Duration) onion.Frame {
	if !p.Playing {
		return cur
	}
	per := time.Second / time.Duration(p.FPS)
	p.acc += min(dt, time.Second)
	for p.acc >= per {
		p.acc -= per
		cur = p.wrap(cur + 1)
	}
	return cur
}

// Step moves delta frames from cur, wrapping at the range ends.
func (p *Playback) Step(cur onion.Frame, delta int) onion.Frame {
	return p.wrap(cur + onion.Frame(delta))
}

func (p *Playback) wrap(f onion.Frame) onion.Frame {
	switch {
	case f > p.Last:
		return p.First
	case f < p.First:
		return p.Last
	}
	return f
}

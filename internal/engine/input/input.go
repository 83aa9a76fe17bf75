// Package input turns SDL2 events into viewer events and matches key
// chords.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Mod is a normalized modifier set; left and right keys are not
// distinguished.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
)

// Event is one processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Mod    Mod
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Button uint8
	Wheel  float32
}

// Chord is a key plus an exact modifier set.
type Chord struct {
	Key sdl.Scancode
	Mod Mod
}

// Matches reports whether e is a key press of c. Repeats match too.
func (c Chord) Matches(e Event) bool {
	return e.Type == EventKeyDown && e.Key == c.Key && e.Mod == c.Mod
}

// NormalizeMod folds SDL's left/right modifier bits into a Mod.
func NormalizeMod(m sdl.Keymod) Mod {
	var out Mod
	if m&sdl.KMOD_SHIFT != 0 {
		out |= ModShift
	}
	if m&sdl.KMOD_CTRL != 0 {
		out |= ModCtrl
	}
	if m&sdl.KMOD_ALT != 0 {
		out |= ModAlt
	}
	return out
}

// Input collects the events of one loop iteration.
type Input struct {
	events []Event
}

// New returns an input handler.
func New() *Input {
	return &Input{events: make([]Event, 0, 16)}
}

// Update drains the SDL queue. It returns true when the window was asked
// to close.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				i.events = append(i.events, Event{
					Type:   EventKeyDown,
					Key:    e.Keysym.Scancode,
					Mod:    NormalizeMod(sdl.Keymod(e.Keysym.Mod)),
					Repeat: e.Repeat != 0,
				})
			}

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				DeltaX: int(e.XRel),
				DeltaY: int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			t := EventMouseUp
			if e.Type == sdl.MOUSEBUTTONDOWN {
				t = EventMouseDown
			}
			i.events = append(i.events, Event{
				Type:   t,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			})

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{Type: EventMouseWheel, Wheel: float32(e.Y)})
		}
	}
	return quit
}

// Events returns the events of the last Update.
func (i *Input) Events() []Event {
	return i.events
}

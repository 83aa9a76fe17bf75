package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestNormalizeMod(t *testing.T) {
	tests := []struct {
		in   sdl.Keymod
		want Mod
	}{
		{sdl.KMOD_NONE, 0},
		{sdl.KMOD_LSHIFT, ModShift},
		{sdl.KMOD_RSHIFT, ModShift},
		{sdl.KMOD_LALT | sdl.KMOD_RSHIFT, ModAlt | ModShift},
		{sdl.KMOD_RCTRL | sdl.KMOD_NUM, ModCtrl},
	}
	for _, tt := range tests {
		if got := NormalizeMod(tt.in); got != tt.want {
			t.Errorf("NormalizeMod(%#x) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestChordMatches(t *testing.T) {
	c := Chord{Key: sdl.SCANCODE_R, Mod: ModAlt | ModShift}
	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{"exact", Event{Type: EventKeyDown, Key: sdl.SCANCODE_R, Mod: ModAlt | ModShift}, true},
		{"repeat", Event{Type: EventKeyDown, Key: sdl.SCANCODE_R, Mod: ModAlt | ModShift, Repeat: true}, true},
		{"missing shift", Event{Type: EventKeyDown, Key: sdl.SCANCODE_R, Mod: ModAlt}, false},
		{"extra ctrl", Event{Type: EventKeyDown, Key: sdl.SCANCODE_R, Mod: ModAlt | ModShift | ModCtrl}, false},
		{"other key", Event{Type: EventKeyDown, Key: sdl.SCANCODE_T, Mod: ModAlt | ModShift}, false},
		{"not a key", Event{Type: EventMouseDown, Mod: ModAlt | ModShift}, false},
	}
	for _, tt := range tests {
		if got := c.Matches(tt.ev); got != tt.want {
			t.Errorf("%s: Matches = %v, want %v", tt.name, got, tt.want)
		}
	}
}

package viewer

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/onionskin/internal/engine/input"
)

// Action is a viewer command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionUpdateTarget
	ActionToggleDraw
	ActionAddOrClear
	ActionModePerFrame
	ActionModePerFrameStepped
	ActionModeDirectKeys
	ActionModeInbetweening
	ActionPlay
	ActionStepBack
	ActionStepForward
	ActionOverlays
	ActionXRay
	ActionFlat
	ActionInFront
	ActionMoreSkins
	ActionFewerSkins
	ActionWiderStep
	ActionNarrowerStep
	ActionSelectNext
	ActionCapture
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:                "none",
	ActionUpdateTarget:        "update_target",
	ActionToggleDraw:          "toggle_draw",
	ActionAddOrClear:          "add_or_clear",
	ActionModePerFrame:        "mode_per_frame",
	ActionModePerFrameStepped: "mode_per_frame_stepped",
	ActionModeDirectKeys:      "mode_direct_keys",
	ActionModeInbetweening:    "mode_inbetweening",
	ActionPlay:                "play",
	ActionStepBack:            "step_back",
	ActionStepForward:         "step_forward",
	ActionOverlays:            "overlays",
	ActionXRay:                "xray",
	ActionFlat:                "flat",
	ActionInFront:             "in_front",
	ActionMoreSkins:           "more_skins",
	ActionFewerSkins:          "fewer_skins",
	ActionWiderStep:           "wider_step",
	ActionNarrowerStep:        "narrower_step",
	ActionSelectNext:          "select_next",
	ActionCapture:             "capture",
	ActionQuit:                "quit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// repeatable actions keep firing while the key is held.
func (a Action) repeatable() bool {
	return a == ActionStepBack || a == ActionStepForward
}

// Binding ties a chord to an action.
type Binding struct {
	Chord  input.Chord
	Action Action
}

const altShift = input.ModAlt | input.ModShift

// DefaultBindings returns the stock key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		{input.Chord{Key: sdl.SCANCODE_R, Mod: altShift}, ActionUpdateTarget},
		{input.Chord{Key: sdl.SCANCODE_T, Mod: altShift}, ActionToggleDraw},
		{input.Chord{Key: sdl.SCANCODE_C, Mod: altShift}, ActionAddOrClear},
		{input.Chord{Key: sdl.SCANCODE_1}, ActionModePerFrame},
		{input.Chord{Key: sdl.SCANCODE_2}, ActionModePerFrameStepped},
		{input.Chord{Key: sdl.SCANCODE_3}, ActionModeDirectKeys},
		{input.Chord{Key: sdl.SCANCODE_4}, ActionModeInbetweening},
		{input.Chord{Key: sdl.SCANCODE_SPACE}, ActionPlay},
		{input.Chord{Key: sdl.SCANCODE_LEFT}, ActionStepBack},
		{input.Chord{Key: sdl.SCANCODE_RIGHT}, ActionStepForward},
		{input.Chord{Key: sdl.SCANCODE_O}, ActionOverlays},
		{input.Chord{Key: sdl.SCANCODE_X}, ActionXRay},
		{input.Chord{Key: sdl.SCANCODE_F}, ActionFlat},
		{input.Chord{Key: sdl.SCANCODE_I}, ActionInFront},
		{input.Chord{Key: sdl.SCANCODE_EQUALS}, ActionMoreSkins},
		{input.Chord{Key: sdl.SCANCODE_EQUALS, Mod: input.ModShift}, ActionMoreSkins},
		{input.Chord{Key: sdl.SCANCODE_MINUS}, ActionFewerSkins},
		{input.Chord{Key: sdl.SCANCODE_RIGHTBRACKET}, ActionWiderStep},
		{input.Chord{Key: sdl.SCANCODE_LEFTBRACKET}, ActionNarrowerStep},
		{input.Chord{Key: sdl.SCANCODE_TAB}, ActionSelectNext},
		{input.Chord{Key: sdl.SCANCODE_P}, ActionCapture},
		{input.Chord{Key: sdl.SCANCODE_ESCAPE}, ActionQuit},
	}
}

// Keymap resolves key events to actions. The first matching binding wins.
type Keymap struct {
	bindings []Binding
}

// NewKeymap returns a keymap over bindings.
func NewKeymap(bindings []Binding) *Keymap {
	return &Keymap{bindings: bindings}
}

// Lookup returns the action bound to e. Held keys only repeat actions that
// make sense to repeat.
func (k *Keymap) Lookup(e input.Event) (Action, bool) {
	for _, b := range k.bindings {
		if !b.Chord.Matches(e) {
			continue
		}
		if e.Repeat && !b.Action.repeatable() {
			return ActionNone, false
		}
		return b.Action, true
	}
	return ActionNone, false
}

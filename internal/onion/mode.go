package onion

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode selects which frames are baked and how their colors are assigned.
type Mode int

const (
	// PerFrame bakes every frame of the keyed range.
	PerFrame Mode = iota
	// PerFrameStepped bakes every SkinStep-th frame of the keyed range.
	PerFrameStepped
	// DirectKeys bakes only the keyed frames.
	DirectKeys
	// Inbetweening bakes every frame and colors keyed frames with the future
	// ramp and interpolated frames with the past ramp.
	Inbetweening
)

var modeNames = [...]string{
	PerFrame:        "per_frame",
	PerFrameStepped: "per_frame_stepped",
	DirectKeys:      "direct_keys",
	Inbetweening:    "inbetweening",
}

// Short codes used by older settings files.
var modeCodes = map[string]Mode{
	"pf":  PerFrame,
	"pfs": PerFrameStepped,
	"dc":  DirectKeys,
	"inb": Inbetweening,
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Valid reports whether m is one of the four known modes.
func (m Mode) Valid() bool {
	return m >= PerFrame && int(m) < len(modeNames)
}

// ParseMode parses a mode name such as "direct_keys" or a short code such as
// "INB". Matching is case-insensitive and accepts dashes for underscores.
func ParseMode(s string) (Mode, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, name := range modeNames {
		if name == key {
			return Mode(i), nil
		}
	}
	if m, ok := modeCodes[key]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfiguration, s)
}

// MarshalYAML writes the mode by name.
func (m Mode) MarshalYAML() (interface{}, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: mode %d", ErrInvalidConfiguration, int(m))
	}
	return m.String(), nil
}

// UnmarshalYAML reads a mode name or short code.
func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

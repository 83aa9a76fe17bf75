package onion

import "fmt"

// Side holds the color ramp for one side of the current frame.
type Side struct {
	Enabled      bool       `yaml:"enabled"`
	Color        [3]float32 `yaml:"color"`
	OpacityStart float32    `yaml:"opacity_start"`
	OpacityEnd   float32    `yaml:"opacity_end"`
}

// alpha ramps linearly from OpacityStart at delta 0 toward OpacityEnd at
// delta == count. The result is not clamped.
func (s Side) alpha(delta, count int) float32 {
	step := (s.OpacityStart - s.OpacityEnd) / float32(count)
	return s.OpacityStart - step*float32(delta)
}

func (s Side) validate(name string) error {
	if s.OpacityStart < 0 || s.OpacityStart > 1 {
		return fmt.Errorf("%w: %s start opacity %.2f outside [0,1]", ErrInvalidConfiguration, name, s.OpacityStart)
	}
	if s.OpacityEnd < 0 || s.OpacityEnd > 1 {
		return fmt.Errorf("%w: %s end opacity %.2f outside [0,1]", ErrInvalidConfiguration, name, s.OpacityEnd)
	}
	for i, c := range s.Color {
		if c < 0 || c > 1 {
			return fmt.Errorf("%w: %s color channel %d is %.2f", ErrInvalidConfiguration, name, i, c)
		}
	}
	return nil
}

// Display is the user-editable onion skin configuration.
type Display struct {
	Past   Side `yaml:"past"`
	Future Side `yaml:"future"`

	// SkinCount is the window radius in frames around the current frame.
	SkinCount int `yaml:"skin_count"`
	// SkinStep is the frame stride used by PerFrameStepped.
	SkinStep int `yaml:"skin_step"`

	Flat    bool `yaml:"flat"`     // draw without blending or culling
	XRay    bool `yaml:"xray"`     // draw without depth testing
	InFront bool `yaml:"in_front"` // draw the target over its onion skins
	Draw    bool `yaml:"draw"`
}

// DefaultDisplay returns red past skins and blue future skins, one frame
// either side.
func DefaultDisplay() Display {
	return Display{
		Past: Side{
			Enabled:      true,
			Color:        [3]float32{1, 0.1, 0.1},
			OpacityStart: 0.5,
			OpacityEnd:   0.1,
		},
		Future: Side{
			Enabled:      true,
			Color:        [3]float32{0.1, 0.4, 1},
			OpacityStart: 0.5,
			OpacityEnd:   0.1,
		},
		SkinCount: 1,
		SkinStep:  1,
	}
}

// Validate rejects settings that cannot be baked or drawn.
func (d Display) Validate(mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: mode %d", ErrInvalidConfiguration, int(mode))
	}
	if d.SkinCount <= 0 {
		return fmt.Errorf("%w: skin count %d must be at least 1", ErrInvalidConfiguration, d.SkinCount)
	}
	if d.SkinStep < 1 {
		return fmt.Errorf("%w: skin step %d must be at least 1", ErrInvalidConfiguration, d.SkinStep)
	}
	if err := d.Past.validate("past"); err != nil {
		return err
	}
	return d.Future.validate("future")
}

// side returns the ramp settings for r.
func (d Display) side(r Ramp) Side {
	if r == RampFuture {
		return d.Future
	}
	return d.Past
}

// capabilities returns the GPU state enabled around each submission.
func (d Display) capabilities() Capability {
	var caps Capability
	if !d.Flat {
		caps |= CapBlend | CapCull
	}
	if !d.XRay {
		caps |= CapDepthTest
	}
	return caps
}

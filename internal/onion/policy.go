package onion

// Ramp names the color ramp a cached frame is drawn with. In Inbetweening
// mode the future ramp colors keyed frames and the past ramp colors
// interpolated ones.
type Ramp int

const (
	RampPast Ramp = iota
	RampFuture
)

func (r Ramp) String() string {
	if r == RampFuture {
		return "future"
	}
	return "past"
}

// Decision is the outcome of Decide for one cached frame.
type Decision struct {
	Draw  bool
	Ramp  Ramp
	Color Color
}

// Decide reports whether the snapshot cached at key is drawn while the
// timeline sits at now, and with which color. A non-empty directKeys set
// switches to Inbetweening coloring.
func Decide(now, key Frame, directKeys FrameSet, d Display) Decision {
	if now == key || d.SkinCount <= 0 {
		return Decision{}
	}
	delta := int(now - key)
	if delta < 0 {
		delta = -delta
	}
	if delta > d.SkinCount {
		return Decision{}
	}

	var ramp Ramp
	switch {
	case directKeys.Len() > 0:
		if directKeys.Has(key) {
			ramp = RampFuture
		} else {
			ramp = RampPast
		}
	case now > key:
		ramp = RampPast
	default:
		ramp = RampFuture
	}

	side := d.side(ramp)
	if !side.Enabled {
		return Decision{}
	}
	return Decision{
		Draw: true,
		Ramp: ramp,
		Color: Color{
			R: side.Color[0],
			G: side.Color[1],
			B: side.Color[2],
			A: side.alpha(delta, d.SkinCount),
		},
	}
}

package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// VecKey is a vector keyframe (location or scale).
type VecKey struct {
	Frame float64
	Value mgl32.Vec3
}

// RotKey is a rotation keyframe.
type RotKey struct {
	Frame float64
	Value mgl32.Quat
}

// ScalarKey is a keyframe on a single float channel.
type ScalarKey struct {
	Frame float64
	Value float32
}

// Action holds the keyframe channels of one object. Keys in each channel
// are kept sorted by frame.
type Action struct {
	PosKeys   []VecKey
	RotKeys   []RotKey
	ScaleKeys []VecKey
	BendKeys  []ScalarKey
}

// Sort orders every channel by frame.
func (a *Action) Sort() {
	sort.SliceStable(a.PosKeys, func(i, j int) bool { return a.PosKeys[i].Frame < a.PosKeys[j].Frame })
	sort.SliceStable(a.RotKeys, func(i, j int) bool { return a.RotKeys[i].Frame < a.RotKeys[j].Frame })
	sort.SliceStable(a.ScaleKeys, func(i, j int) bool { return a.ScaleKeys[i].Frame < a.ScaleKeys[j].Frame })
	sort.SliceStable(a.BendKeys, func(i, j int) bool { return a.BendKeys[i].Frame < a.BendKeys[j].Frame })
}

// KeyTimes returns the frame of every key on every channel, duplicates
// included.
func (a *Action) KeyTimes() []float64 {
	times := make([]float64, 0, len(a.PosKeys)+len(a.RotKeys)+len(a.ScaleKeys)+len(a.BendKeys))
	for _, k := range a.PosKeys {
		times = append(times, k.Frame)
	}
	for _, k := range a.RotKeys {
		times = append(times, k.Frame)
	}
	for _, k := range a.ScaleKeys {
		times = append(times, k.Frame)
	}
	for _, k := range a.BendKeys {
		times = append(times, k.Frame)
	}
	return times
}

// Empty reports whether no channel has keys.
func (a *Action) Empty() bool {
	return len(a.PosKeys) == 0 && len(a.RotKeys) == 0 && len(a.ScaleKeys) == 0 && len(a.BendKeys) == 0
}

// bracket finds the keys surrounding t. Before the first key both indices
// are 0; at or after the last key both are the last index.
func bracket(n int, frameAt func(int) float64, t float64) (prev, next int, frac float32) {
	for i := 0; i < n; i++ {
		if frameAt(i) > t {
			next = i
			if i == 0 {
				return 0, 0, 0
			}
			f0, f1 := frameAt(prev), frameAt(next)
			if f1 != f0 {
				frac = float32((t - f0) / (f1 - f0))
			}
			return prev, next, frac
		}
		prev = i
	}
	return prev, prev, 0
}

// Location interpolates the location channel at t. ok is false when the
// channel has no keys.
func (a *Action) Location(t float64) (mgl32.Vec3, bool) {
	return lerpVecKeys(a.PosKeys, t)
}

// Scale interpolates the scale channel at t.
func (a *Action) Scale(t float64) (mgl32.Vec3, bool) {
	return lerpVecKeys(a.ScaleKeys, t)
}

// Rotation slerps the rotation channel at t.
func (a *Action) Rotation(t float64) (mgl32.Quat, bool) {
	keys := a.RotKeys
	if len(keys) == 0 {
		return mgl32.QuatIdent(), false
	}
	prev, next, frac := bracket(len(keys), func(i int) float64 { return keys[i].Frame }, t)
	if prev == next {
		return keys[prev].Value, true
	}
	return mgl32.QuatSlerp(keys[prev].Value, keys[next].Value, frac), true
}

// Bend interpolates the bend channel at t.
func (a *Action) Bend(t float64) (float32, bool) {
	keys := a.BendKeys
	if len(keys) == 0 {
		return 0, false
	}
	prev, next, frac := bracket(len(keys), func(i int) float64 { return keys[i].Frame }, t)
	v0, v1 := keys[prev].Value, keys[next].Value
	return v0 + frac*(v1-v0), true
}

func lerpVecKeys(keys []VecKey, t float64) (mgl32.Vec3, bool) {
	if len(keys) == 0 {
		return mgl32.Vec3{}, false
	}
	prev, next, frac := bracket(len(keys), func(i int) float64 { return keys[i].Frame }, t)
	v0, v1 := keys[prev].Value, keys[next].Value
	return v0.Add(v1.Sub(v0).Mul(frac)), true
}

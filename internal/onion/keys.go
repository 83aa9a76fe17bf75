package onion

import (
	"fmt"
	"math"
	"slices"
)

// MaxFrame bounds key times on either side of zero, the timeline limit of
// common DCC hosts. Keys beyond it are ignored like NaN and infinities.
const MaxFrame = 1048574

// ExtractKeys returns the distinct keyed frames of e in ascending order.
// When e itself carries no curves its parent is used instead, since rigs key
// a controller while the skinned mesh is what gets drawn.
func ExtractKeys(e Entity) ([]Frame, error) {
	times, ok := e.KeyTimes()
	if !ok || len(times) == 0 {
		parent, hasParent := e.Parent()
		if !hasParent {
			return nil, fmt.Errorf("%s: %w", e.ID(), ErrNoAnimationData)
		}
		times, ok = parent.KeyTimes()
		if !ok || len(times) == 0 {
			return nil, fmt.Errorf("%s (parent %s): %w", e.ID(), parent.ID(), ErrNoAnimationData)
		}
	}

	frames := make([]Frame, 0, len(times))
	for _, t := range times {
		if math.IsNaN(t) || t > MaxFrame || t < -MaxFrame {
			continue
		}
		// Truncate toward zero, matching how hosts snap key times to frames.
		frames = append(frames, Frame(t))
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%s: %w", e.ID(), ErrNoAnimationData)
	}
	slices.Sort(frames)
	return slices.Compact(frames), nil
}

// SelectFrames returns the frames a bake samples for mode, given the sorted
// keys of the target. The range is [first key, last key + 1). For
// Inbetweening the keys are also returned as the direct-key set; every other
// mode returns an empty set.
func SelectFrames(mode Mode, keys []Frame, step int) ([]Frame, FrameSet, error) {
	if len(keys) == 0 {
		return nil, nil, ErrNoAnimationData
	}
	start, end := keys[0], keys[len(keys)-1]+1

	switch mode {
	case PerFrame:
		return frameRange(start, end, 1), FrameSet{}, nil
	case PerFrameStepped:
		if step < 1 {
			return nil, nil, fmt.Errorf("%w: skin step %d must be at least 1", ErrInvalidConfiguration, step)
		}
		return frameRange(start, end, step), FrameSet{}, nil
	case DirectKeys:
		return slices.Clone(keys), FrameSet{}, nil
	case Inbetweening:
		return frameRange(start, end, 1), NewFrameSet(keys...), nil
	default:
		return nil, nil, fmt.Errorf("%w: mode %d", ErrInvalidConfiguration, int(mode))
	}
}

func frameRange(start, end Frame, step int) []Frame {
	frames := make([]Frame, 0, (int(end-start)+step-1)/step)
	for f := start; f < end; f += Frame(step) {
		frames = append(frames, f)
	}
	return frames
}

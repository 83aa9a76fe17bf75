package onion

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Bake is a fully sampled cache generation that has not been installed yet.
type Bake struct {
	Target     Target
	Mode       Mode
	Frames     []Frame
	Snapshots  map[Frame]*Snapshot
	DirectKeys FrameSet
}

// Cache holds the snapshots and batches of the current onion target. Its
// contents always belong to exactly one target and one mode; any change of
// either is a full rebuild.
type Cache struct {
	sampler *Sampler
	log     *zap.Logger

	target     Target
	mode       Mode
	keys       []Frame
	snapshots  map[Frame]*Snapshot
	batches    map[Frame]Batch
	directKeys FrameSet
}

// NewCache returns an empty cache sampling from scene.
func NewCache(scene Scene, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		sampler:    NewSampler(scene),
		log:        log,
		snapshots:  map[Frame]*Snapshot{},
		batches:    map[Frame]Batch{},
		directKeys: FrameSet{},
	}
}

// Bake samples t for mode without touching the live cache. The scene's time
// cursor is restored before Bake returns.
func (c *Cache) Bake(t Target, mode Mode, step int) (*Bake, error) {
	if t.IsZero() {
		return nil, ErrNoSelection
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: mode %d", ErrInvalidConfiguration, int(mode))
	}
	if mode == PerFrameStepped && step < 1 {
		return nil, fmt.Errorf("%w: skin step %d must be at least 1", ErrInvalidConfiguration, step)
	}

	keys, err := ExtractKeys(t.Visual)
	if err != nil {
		return nil, err
	}
	frames, direct, err := SelectFrames(mode, keys, step)
	if err != nil {
		return nil, err
	}
	snaps, err := c.sampler.SampleFrames(t.Visual, frames)
	if err != nil {
		return nil, fmt.Errorf("baking %s: %w", t.ID(), err)
	}

	c.log.Debug("baked onion frames",
		zap.String("target", string(t.ID())),
		zap.Stringer("mode", mode),
		zap.Int("frames", len(frames)),
		zap.Int("first", int(keys[0])),
		zap.Int("last", int(keys[len(keys)-1])),
		zap.Int("direct_keys", direct.Len()),
	)
	return &Bake{
		Target:     t,
		Mode:       mode,
		Frames:     frames,
		Snapshots:  snaps,
		DirectKeys: direct,
	}, nil
}

// Install builds a batch for every snapshot in b and then swaps b in,
// releasing the previous generation. If any batch fails the new batches are
// released and the live cache is left as it was.
func (c *Cache) Install(b *Bake, dev Device) error {
	batches := make(map[Frame]Batch, len(b.Frames))
	for _, f := range b.Frames {
		batch, err := dev.NewBatch(b.Snapshots[f])
		if err != nil {
			releaseBatches(batches)
			return fmt.Errorf("building batch for frame %d: %w", f, err)
		}
		batches[f] = batch
	}

	releaseBatches(c.batches)
	c.target = b.Target
	c.mode = b.Mode
	c.keys = slices.Clone(b.Frames)
	slices.Sort(c.keys)
	c.snapshots = b.Snapshots
	c.batches = batches
	c.directKeys = b.DirectKeys

	c.log.Info("onion cache ready",
		zap.String("target", string(c.target.ID())),
		zap.Stringer("kind", c.target.Kind),
		zap.Stringer("mode", c.mode),
		zap.Int("batches", len(c.batches)),
	)
	return nil
}

// Rebuild bakes t and installs the result.
func (c *Cache) Rebuild(t Target, mode Mode, step int, dev Device) error {
	b, err := c.Bake(t, mode, step)
	if err != nil {
		return err
	}
	return c.Install(b, dev)
}

// Clear releases every batch and forgets the target. Safe to call on an
// empty cache.
func (c *Cache) Clear() {
	releaseBatches(c.batches)
	c.target = Target{}
	c.mode = PerFrame
	c.keys = nil
	c.snapshots = map[Frame]*Snapshot{}
	c.batches = map[Frame]Batch{}
	c.directKeys = FrameSet{}
}

// Target returns the target the cache was baked for.
func (c *Cache) Target() Target { return c.target }

// Mode returns the mode the cache was baked with.
func (c *Cache) Mode() Mode { return c.mode }

// Len returns the number of cached frames.
func (c *Cache) Len() int { return len(c.keys) }

// Keys returns the cached frames in ascending order.
func (c *Cache) Keys() []Frame { return slices.Clone(c.keys) }

// Snapshot returns the snapshot cached at f.
func (c *Cache) Snapshot(f Frame) (*Snapshot, bool) {
	s, ok := c.snapshots[f]
	return s, ok
}

// Batch returns the batch cached at f.
func (c *Cache) Batch(f Frame) (Batch, bool) {
	b, ok := c.batches[f]
	return b, ok
}

// DirectKeys returns a copy of the direct-key set.
func (c *Cache) DirectKeys() FrameSet {
	out := make(FrameSet, len(c.directKeys))
	for f := range c.directKeys {
		out[f] = struct{}{}
	}
	return out
}

// IsDirectKey reports whether f is a true animation key in Inbetweening mode.
func (c *Cache) IsDirectKey(f Frame) bool { return c.directKeys.Has(f) }

func releaseBatches(batches map[Frame]Batch) {
	for f, b := range batches {
		b.Release()
		delete(batches, f)
	}
}

package onion

import "fmt"

// TargetKind tells how the onion target maps onto host entities.
type TargetKind int

const (
	// TargetDirect targets a local mesh.
	TargetDirect TargetKind = iota
	// TargetLinkedProxy targets a local copy materialized from a linked
	// instance.
	TargetLinkedProxy
)

func (k TargetKind) String() string {
	if k == TargetLinkedProxy {
		return "linked-proxy"
	}
	return "direct"
}

// Target is the resolved onion target. Source is what the user selected and
// Visual is what gets sampled; they are the same entity for direct targets.
type Target struct {
	Kind   TargetKind
	Source Entity
	Visual Entity
}

// IsZero reports whether no target is set.
func (t Target) IsZero() bool {
	return t.Visual == nil
}

// ID returns the ID of the sampled entity, or "" when unset.
func (t Target) ID() EntityID {
	if t.Visual == nil {
		return ""
	}
	return t.Visual.ID()
}

// ResolveTarget classifies e once. Empties are linked instances and get a
// local proxy from the scene.
func ResolveTarget(scene Scene, e Entity) (Target, error) {
	if e.Kind() != KindEmpty {
		return Target{Kind: TargetDirect, Source: e, Visual: e}, nil
	}
	visual, err := scene.MaterializeProxy(e)
	if err != nil {
		return Target{}, fmt.Errorf("materializing %s: %w", e.ID(), err)
	}
	return Target{Kind: TargetLinkedProxy, Source: e, Visual: visual}, nil
}

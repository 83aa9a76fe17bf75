package onion

// Capability is a set of GPU pipeline states toggled around a submission.
type Capability uint8

const (
	CapBlend Capability = 1 << iota
	CapCull
	CapDepthTest

	CapAll = CapBlend | CapCull | CapDepthTest
)

// Has reports whether every state in other is set in c.
func (c Capability) Has(other Capability) bool {
	return c&other == other
}

// Color is a straight (non-premultiplied) RGBA color.
type Color struct {
	R, G, B, A float32
}

// Batch is a GPU-resident copy of a Snapshot.
type Batch interface {
	// Release frees the GPU resources. Called once per batch.
	Release()
}

// Device submits triangles with a uniform color.
type Device interface {
	NewBatch(s *Snapshot) (Batch, error)
	Enable(caps Capability)
	Disable(caps Capability)
	Submit(b Batch, c Color)
}

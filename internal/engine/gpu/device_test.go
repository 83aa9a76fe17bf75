package gpu

import (
	"slices"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/onionskin/internal/onion"
)

func TestFlatten(t *testing.T) {
	s := &onion.Snapshot{
		Vertices: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Indices:  [][3]uint32{{0, 1, 2}, {0, 2, 3}},
	}
	vertices, indices := flatten(s)
	if len(vertices) != 12 {
		t.Errorf("vertices = %d floats, want 12", len(vertices))
	}
	if vertices[6] != 1 || vertices[7] != 1 {
		t.Errorf("third vertex = %v", vertices[6:9])
	}
	if !slices.Equal(indices, []uint32{0, 1, 2, 0, 2, 3}) {
		t.Errorf("indices = %v", indices)
	}

	if v, i := flatten(nil); v != nil || i != nil {
		t.Error("flatten(nil) returned data")
	}
}

func TestClampColor(t *testing.T) {
	got := clampColor(onion.Color{R: -0.5, G: 0.25, B: 3, A: 1.2})
	want := onion.Color{R: 0, G: 0.25, B: 1, A: 1}
	if got != want {
		t.Errorf("clampColor = %+v, want %+v", got, want)
	}
}

func TestGLCaps(t *testing.T) {
	tests := []struct {
		caps onion.Capability
		want []uint32
	}{
		{0, nil},
		{onion.CapBlend, []uint32{gl.BLEND}},
		{onion.CapBlend | onion.CapDepthTest, []uint32{gl.BLEND, gl.DEPTH_TEST}},
		{onion.CapAll, []uint32{gl.BLEND, gl.CULL_FACE, gl.DEPTH_TEST}},
	}
	for _, tt := range tests {
		if got := glCaps(tt.caps); !slices.Equal(got, tt.want) {
			t.Errorf("glCaps(%v) = %v, want %v", tt.caps, got, tt.want)
		}
	}
}

package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		azimuth, elevation float32
		want               mgl32.Vec3
	}{
		{0, 0, mgl32.Vec3{0, 0, 1}},
		{90, 0, mgl32.Vec3{1, 0, 0}},
		{0, 90, mgl32.Vec3{0, 1, 0}},
		{180, 45, mgl32.Vec3{0, 0.7071068, -0.7071068}},
	}
	for _, tt := range tests {
		got := SunDirection(tt.azimuth, tt.elevation)
		if !got.ApproxEqualThreshold(tt.want, 1e-5) {
			t.Errorf("SunDirection(%g, %g) = %v, want %v", tt.azimuth, tt.elevation, got, tt.want)
		}
		if l := got.Len(); l < 0.9999 || l > 1.0001 {
			t.Errorf("SunDirection(%g, %g) length = %g", tt.azimuth, tt.elevation, l)
		}
	}
}

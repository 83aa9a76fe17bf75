package scene

import (
	"fmt"
	gomath "math"
)

// Mesh is rest-pose geometry in object space. Faces are quads or triangles.
type Mesh struct {
	Positions [][3]float32
	Faces     [][]uint32
}

// Column builds a box of the given size standing on the origin, split into
// segments along Y so it can bend. Every face is a counter-clockwise quad
// seen from outside.
func Column(width, height, depth float32, segments int) (*Mesh, error) {
	if segments < 1 {
		return nil, fmt.Errorf("column needs at least one segment, got %d", segments)
	}
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("column size %gx%gx%g must be positive", width, height, depth)
	}

	hw, hd := width/2, depth/2
	ring := [4][2]float32{{-hw, -hd}, {hw, -hd}, {hw, hd}, {-hw, hd}}

	m := &Mesh{}
	for i := 0; i <= segments; i++ {
		y := height * float32(i) / float32(segments)
		for _, c := range ring {
			m.Positions = append(m.Positions, [3]float32{c[0], y, c[1]})
		}
	}

	for i := 0; i < segments; i++ {
		lo, hi := uint32(i*4), uint32((i+1)*4)
		for j := uint32(0); j < 4; j++ {
			k := (j + 1) % 4
			m.Faces = append(m.Faces, []uint32{lo + j, hi + j, hi + k, lo + k})
		}
	}
	top := uint32(segments * 4)
	m.Faces = append(m.Faces,
		[]uint32{0, 1, 2, 3},
		[]uint32{top + 3, top + 2, top + 1, top},
	)
	return m, nil
}

// Bend curls geometry around the Z axis. The rotation grows linearly with
// height, reaching the driving amount (radians) at Height.
type Bend struct {
	Height float32
}

// Apply bends positions in place by amount radians.
func (b *Bend) Apply(positions [][3]float32, amount float32) {
	if amount == 0 || b.Height <= 0 {
		return
	}
	for i, p := range positions {
		theta := float64(amount * p[1] / b.Height)
		sin, cos := gomath.Sincos(theta)
		x, y := float64(p[0]), float64(p[1])
		positions[i][0] = float32(x*cos - y*sin)
		positions[i][1] = float32(x*sin + y*cos)
	}
}

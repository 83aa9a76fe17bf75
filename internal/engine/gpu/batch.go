package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/onionskin/internal/onion"
)

// batch owns one VAO with its vertex and index buffers.
type batch struct {
	dev      *Device
	vao      uint32
	vbo      uint32
	ebo      uint32
	count    int32
	released bool
}

// Release implements onion.Batch.
func (b *batch) Release() {
	if b.released {
		return
	}
	b.released = true
	b.free()
	b.dev.live--
}

func (b *batch) upload(s *onion.Snapshot, usage uint32) error {
	vertices, indices := flatten(s)
	b.count = int32(len(indices))
	if b.count == 0 {
		return nil
	}

	if b.vao == 0 {
		gl.GenVertexArrays(1, &b.vao)
		gl.GenBuffers(1, &b.vbo)
		gl.GenBuffers(1, &b.ebo)
	}
	gl.BindVertexArray(b.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), usage)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), usage)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("upload %d triangles: gl error 0x%x", b.count/3, code)
	}
	return nil
}

func (b *batch) free() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		gl.DeleteBuffers(1, &b.vbo)
		gl.DeleteBuffers(1, &b.ebo)
		b.vao, b.vbo, b.ebo = 0, 0, 0
	}
	b.count = 0
}

// flatten lays a snapshot out as tightly packed float32 positions and
// uint32 triangle indices.
func flatten(s *onion.Snapshot) ([]float32, []uint32) {
	if s == nil {
		return nil, nil
	}
	vertices := make([]float32, 0, len(s.Vertices)*3)
	for _, v := range s.Vertices {
		vertices = append(vertices, v[0], v[1], v[2])
	}
	indices := make([]uint32, 0, len(s.Indices)*3)
	for _, tri := range s.Indices {
		indices = append(indices, tri[0], tri[1], tri[2])
	}
	return vertices, indices
}

// Package gpu implements the onion skin draw device on OpenGL 4.1 core.
package gpu

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/onionskin/internal/engine/gpu/shaders"
	"github.com/Faultbox/onionskin/internal/engine/shader"
	"github.com/Faultbox/onionskin/internal/onion"
)

// Device draws snapshots with a single uniform-color program. It must be
// created and used on the thread that owns the GL context.
type Device struct {
	log  *zap.Logger
	prog *shader.Program

	locViewProj int32
	locModel    int32
	locColor    int32
	locShaded   int32
	locLight    int32

	viewProj mgl32.Mat4
	light    mgl32.Vec3
	stream   *batch
	live     int

	lineVAO uint32
	lineVBO uint32
}

// DefaultLightDir is the direction solid geometry is shaded from until
// SetLightDir is called.
var DefaultLightDir = mgl32.Vec3{0.4, 1, 0.6}

// New initializes GL function pointers and compiles the program. Call it
// after the window has created the context.
func New(log *zap.Logger) (*Device, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	prog, err := shader.Compile(shaders.FlatVertexShader, shaders.FlatFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("flat shader: %w", err)
	}

	d := &Device{
		log:         log,
		prog:        prog,
		locViewProj: prog.Uniform("uViewProj"),
		locModel:    prog.Uniform("uModel"),
		locColor:    prog.Uniform("uColor"),
		locShaded:   prog.Uniform("uShaded"),
		locLight:    prog.Uniform("uLightDir"),
		viewProj:    mgl32.Ident4(),
		light:       DefaultLightDir.Normalize(),
		stream:      &batch{},
	}
	d.stream.dev = d

	gl.DepthFunc(gl.LEQUAL)
	gl.ClearColor(0.16, 0.16, 0.18, 1.0)
	return d, nil
}

// Close frees the program and the streaming buffers. Batches still held by
// callers must be released before.
func (d *Device) Close() {
	if d.live > 0 {
		d.log.Warn("closing device with live batches", zap.Int("batches", d.live))
	}
	d.stream.free()
	if d.lineVAO != 0 {
		gl.DeleteBuffers(1, &d.lineVBO)
		gl.DeleteVertexArrays(1, &d.lineVAO)
		d.lineVAO, d.lineVBO = 0, 0
	}
	d.prog.Delete()
}

// Resize sets the viewport.
func (d *Device) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	d.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// BeginFrame clears color and depth.
func (d *Device) BeginFrame() {
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ClearDepth clears only the depth buffer so later draws land in front.
func (d *Device) ClearDepth() {
	gl.DepthMask(true)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

// SetViewProjection sets the camera transform used by every draw.
func (d *Device) SetViewProjection(m mgl32.Mat4) { d.viewProj = m }

// SetLightDir sets the direction solids are shaded from. A zero vector
// is ignored.
func (d *Device) SetLightDir(dir mgl32.Vec3) {
	if dir.Len() == 0 {
		return
	}
	d.light = dir.Normalize()
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (d *Device) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// Live returns the number of batches not yet released.
func (d *Device) Live() int { return d.live }

// NewBatch implements onion.Device.
func (d *Device) NewBatch(s *onion.Snapshot) (onion.Batch, error) {
	if s == nil {
		return nil, errors.New("nil snapshot")
	}
	b := &batch{dev: d}
	if err := b.upload(s, gl.STATIC_DRAW); err != nil {
		b.free()
		return nil, err
	}
	d.live++
	return b, nil
}

// Enable implements onion.Device.
func (d *Device) Enable(caps onion.Capability) {
	for _, c := range glCaps(caps) {
		gl.Enable(c)
	}
	if caps.Has(onion.CapBlend) {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
}

// Disable implements onion.Device.
func (d *Device) Disable(caps onion.Capability) {
	for _, c := range glCaps(caps) {
		gl.Disable(c)
	}
}

// Submit implements onion.Device. Snapshots are already in world space.
func (d *Device) Submit(b onion.Batch, c onion.Color) {
	gb, ok := b.(*batch)
	if !ok || gb.released {
		d.log.Warn("submit of foreign or released batch")
		return
	}
	d.draw(gb, mgl32.Ident4(), clampColor(c), false)
}

// DrawSolid draws live geometry shaded and depth tested. The geometry is
// streamed; nothing is kept after the call.
func (d *Device) DrawSolid(s *onion.Snapshot, c onion.Color) error {
	if err := d.stream.upload(s, gl.STREAM_DRAW); err != nil {
		return err
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.Disable(gl.BLEND)
	d.draw(d.stream, mgl32.Ident4(), clampColor(c), true)
	return nil
}

// DrawLines draws unlit segments over everything, two points (six floats)
// per segment.
func (d *Device) DrawLines(points []float32, c onion.Color) {
	if len(points) < 6 {
		return
	}
	if d.lineVAO == 0 {
		gl.GenVertexArrays(1, &d.lineVAO)
		gl.GenBuffers(1, &d.lineVBO)
	}
	gl.BindVertexArray(d.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(points)*4, gl.Ptr(points), gl.STREAM_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	d.setUniforms(mgl32.Ident4(), clampColor(c), false)
	gl.DrawArrays(gl.LINES, 0, int32(len(points)/6*2))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (d *Device) draw(b *batch, model mgl32.Mat4, c onion.Color, shaded bool) {
	if b.count == 0 {
		return
	}
	d.setUniforms(model, c, shaded)

	gl.BindVertexArray(b.vao)
	gl.DrawElements(gl.TRIANGLES, b.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (d *Device) setUniforms(model mgl32.Mat4, c onion.Color, shaded bool) {
	d.prog.Use()
	gl.UniformMatrix4fv(d.locViewProj, 1, false, &d.viewProj[0])
	gl.UniformMatrix4fv(d.locModel, 1, false, &model[0])
	gl.Uniform4f(d.locColor, c.R, c.G, c.B, c.A)
	shade := int32(0)
	if shaded {
		shade = 1
	}
	gl.Uniform1i(d.locShaded, shade)
	gl.Uniform3f(d.locLight, d.light.X(), d.light.Y(), d.light.Z())
}

func glCaps(caps onion.Capability) []uint32 {
	var out []uint32
	if caps.Has(onion.CapBlend) {
		out = append(out, gl.BLEND)
	}
	if caps.Has(onion.CapCull) {
		out = append(out, gl.CULL_FACE)
	}
	if caps.Has(onion.CapDepthTest) {
		out = append(out, gl.DEPTH_TEST)
	}
	return out
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func clampColor(c onion.Color) onion.Color {
	return onion.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

// Package viewer runs the interactive onion skin viewer: an SDL window
// showing the scene, with key bindings driving an onion.Session.
package viewer

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/onionskin/internal/config"
	"github.com/Faultbox/onionskin/internal/engine/camera"
	"github.com/Faultbox/onionskin/internal/engine/capture"
	"github.com/Faultbox/onionskin/internal/engine/gpu"
	"github.com/Faultbox/onionskin/internal/engine/input"
	"github.com/Faultbox/onionskin/internal/engine/lighting"
	"github.com/Faultbox/onionskin/internal/engine/loop"
	"github.com/Faultbox/onionskin/internal/engine/window"
	"github.com/Faultbox/onionskin/internal/onion"
	"github.com/Faultbox/onionskin/internal/scene"
)

var (
	solidColor    = onion.Color{R: 0.72, G: 0.72, B: 0.72, A: 1}
	selectedColor = onion.Color{R: 1, G: 0.62, B: 0.2, A: 1}
	boxColor      = onion.Color{R: 1, G: 0.85, B: 0.4, A: 1}
)

// Options configures a Viewer.
type Options struct {
	Config *config.Config
	Scene  *scene.Scene
	Logger *zap.Logger
}

// Viewer owns the window, the GL device and the onion session.
type Viewer struct {
	cfg   *config.Config
	log   *zap.Logger
	scene *scene.Scene

	win     *window.Window
	in      *input.Input
	dev     *gpu.Device
	cam     *camera.OrbitCamera
	sched   *loop.Scheduler
	session *onion.Session
	sampler *onion.Sampler
	keys    *Keymap
	play    *Playback
	capture *capture.Capturer

	dragging    bool
	dragged     int
	quit        bool
	wantCapture bool
	status      string
}

// New opens the window and sets up the session. The target named in the
// config, if any, is selected and baked right away.
func New(opts Options) (*Viewer, error) {
	if opts.Config == nil || opts.Scene == nil {
		return nil, errors.New("viewer needs a config and a scene")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Config

	v := &Viewer{
		cfg:     cfg,
		log:     log.Named("viewer"),
		scene:   opts.Scene,
		in:      input.New(),
		cam:     camera.NewOrbitCamera(),
		sched:   loop.New(nil),
		sampler: onion.NewSampler(opts.Scene),
		keys:    NewKeymap(DefaultBindings()),
	}

	format, err := capture.ParseFormat(cfg.Viewer.CaptureFormat)
	if err != nil {
		return nil, err
	}
	v.capture = capture.New(cfg.Viewer.CaptureDir, "onionskin", format)

	v.win, err = window.New(window.Config{
		Title:      "onionskin",
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
	}, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	v.dev, err = gpu.New(log.Named("gpu"))
	if err != nil {
		v.win.Close()
		return nil, fmt.Errorf("create device: %w", err)
	}
	v.dev.Resize(v.win.DrawableSize())
	v.dev.SetLightDir(lighting.SunDirection(cfg.Viewer.SunAzimuth, cfg.Viewer.SunElevation))

	v.session, err = onion.NewSession(onion.Options{
		Scene:     v.scene,
		Device:    v.dev,
		Scheduler: v.sched,
		Display:   cfg.Onion.Display,
		Mode:      cfg.Onion.Mode,
		Logger:    log,
	})
	if err != nil {
		v.dev.Close()
		v.win.Close()
		return nil, fmt.Errorf("create session: %w", err)
	}

	first, last, ok := v.scene.FrameRange()
	if !ok {
		first, last = 1, 100
	}
	v.play = NewPlayback(first, last, cfg.Viewer.FPS)
	v.frameCamera()

	if cfg.Scene.Target != "" {
		if err := v.scene.Select(cfg.Scene.Target); err != nil {
			v.log.Warn("startup target not found", zap.String("target", cfg.Scene.Target))
		} else {
			v.report(v.session.SetTarget())
		}
	}
	return v, nil
}

// Close tears the session down and releases GL and SDL resources.
func (v *Viewer) Close() {
	v.session.Reset()
	v.dev.Close()
	v.win.Close()
}

// Run loops until the window is closed or Escape is pressed.
func (v *Viewer) Run() error {
	last := time.Now()
	frames := 0
	fpsTimer := last
	v.updateTitle()

	for !v.quit {
		now := time.Now()
		dt := now.Sub(last)
		last = now

		if v.in.Update() {
			break
		}
		for _, ev := range v.in.Events() {
			v.handle(ev)
		}

		cur := v.scene.CurrentFrame()
		if next := v.play.Advance(cur, dt); next != cur {
			v.scene.SetFrame(next)
			v.updateTitle()
		}

		v.sched.Tick()
		v.render()
		if v.wantCapture {
			v.wantCapture = false
			v.saveCapture()
		}
		v.win.SwapBuffers()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frames), zap.Int("live_batches", v.dev.Live()))
			frames = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (v *Viewer) handle(ev input.Event) {
	switch ev.Type {
	case input.EventWindowResize:
		v.dev.Resize(v.win.DrawableSize())
	case input.EventKeyDown:
		if a, ok := v.keys.Lookup(ev); ok {
			v.apply(a)
		}
	case input.EventMouseDown:
		if ev.Button == 1 {
			v.dragging, v.dragged = true, 0
		}
	case input.EventMouseUp:
		if ev.Button == 1 && v.dragging {
			v.dragging = false
			// A press that barely moved is a click.
			if v.dragged < 4 {
				v.pick(ev.MouseX, ev.MouseY)
			}
		}
	case input.EventMouseMove:
		if v.dragging {
			v.cam.HandleDrag(float32(ev.DeltaX), float32(ev.DeltaY))
			v.dragged += abs(ev.DeltaX) + abs(ev.DeltaY)
		}
	case input.EventMouseWheel:
		v.cam.HandleZoom(ev.Wheel)
	}
}

// apply runs one bound action. Session failures are already logged; they
// are only shown in the title here.
func (v *Viewer) apply(a Action) {
	v.log.Debug("action", zap.Stringer("action", a))
	var err error
	switch a {
	case ActionUpdateTarget:
		err = v.session.UpdateTarget()
	case ActionToggleDraw:
		err = v.session.ToggleDraw()
	case ActionAddOrClear:
		err = v.session.AddOrClear()
	case ActionModePerFrame:
		err = v.session.SetMode(onion.PerFrame)
	case ActionModePerFrameStepped:
		err = v.session.SetMode(onion.PerFrameStepped)
	case ActionModeDirectKeys:
		err = v.session.SetMode(onion.DirectKeys)
	case ActionModeInbetweening:
		err = v.session.SetMode(onion.Inbetweening)
	case ActionPlay:
		v.play.Toggle()
	case ActionStepBack:
		v.scene.SetFrame(v.play.Step(v.scene.CurrentFrame(), -1))
	case ActionStepForward:
		v.scene.SetFrame(v.play.Step(v.scene.CurrentFrame(), 1))
	case ActionOverlays:
		v.scene.SetOverlaysVisible(!v.scene.OverlaysVisible())
	case ActionXRay, ActionFlat, ActionInFront, ActionMoreSkins, ActionFewerSkins:
		err = v.session.SetDisplay(editDisplay(v.session.Display(), a))
	case ActionWiderStep, ActionNarrowerStep:
		err = v.changeStep(a)
	case ActionSelectNext:
		v.selectNext()
	case ActionCapture:
		v.wantCapture = true
	case ActionQuit:
		v.quit = true
	}
	v.report(err)
	v.updateTitle()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// editDisplay applies a display toggle or counter change.
func editDisplay(d onion.Display, a Action) onion.Display {
	switch a {
	case ActionXRay:
		d.XRay = !d.XRay
	case ActionFlat:
		d.Flat = !d.Flat
	case ActionInFront:
		d.InFront = !d.InFront
	case ActionMoreSkins:
		d.SkinCount++
	case ActionFewerSkins:
		if d.SkinCount > 1 {
			d.SkinCount--
		}
	case ActionWiderStep:
		d.SkinStep++
	case ActionNarrowerStep:
		if d.SkinStep > 1 {
			d.SkinStep--
		}
	}
	return d
}

// changeStep edits the stepped stride. The cache only picks it up on the
// next bake, so a live stepped target is rebaked.
func (v *Viewer) changeStep(a Action) error {
	if err := v.session.SetDisplay(editDisplay(v.session.Display(), a)); err != nil {
		return err
	}
	if v.session.Mode() == onion.PerFrameStepped && !v.session.Target().IsZero() {
		return v.session.UpdateTarget()
	}
	return nil
}

// selectNext moves the selection to the next object that can be onion
// skinned.
func (v *Viewer) selectNext() {
	candidates := Selectable(v.scene.Objects())
	if len(candidates) == 0 {
		return
	}
	next := candidates[0]
	if active, ok := v.scene.Active(); ok {
		for i, o := range candidates {
			if o.ID() == active.ID() {
				next = candidates[(i+1)%len(candidates)]
				break
			}
		}
	}
	if err := v.scene.Select(next.Name()); err != nil {
		v.report(err)
	}
}

// Selectable filters objects down to meshes and linked empties, skipping
// hidden ones and proxy copies.
func Selectable(objects []*scene.Object) []*scene.Object {
	var out []*scene.Object
	for _, o := range objects {
		if o.Hidden || o.IsProxy() {
			continue
		}
		if o.Kind() == onion.KindMesh || o.Instance != nil {
			out = append(out, o)
		}
	}
	return out
}

func (v *Viewer) saveCapture() {
	w, h := v.win.DrawableSize()
	name, err := v.capture.FromPixels(v.dev.ReadPixels(w, h), w, h, int(v.scene.CurrentFrame()))
	if err != nil {
		v.log.Warn("capture failed", zap.Error(err))
		v.report(err)
	} else {
		v.log.Info("capture saved", zap.String("file", name))
		v.status = "saved " + name
	}
	v.updateTitle()
}

func (v *Viewer) report(err error) {
	if err != nil {
		v.status = err.Error()
		return
	}
	v.status = ""
}

func (v *Viewer) updateTitle() {
	target := "none"
	if t := v.session.Target(); !t.IsZero() {
		target = string(t.Source.ID())
	}
	selected := "none"
	if a, ok := v.scene.Active(); ok {
		selected = string(a.ID())
	}
	d := v.session.Display()
	title := fmt.Sprintf("onionskin | frame %d | %s | selected %s | target %s | skins %d step %d | draw %v",
		v.scene.CurrentFrame(), v.session.Mode(), selected, target, d.SkinCount, d.SkinStep, d.Draw)
	if v.status != "" {
		title += " | " + v.status
	}
	v.win.SetTitle(title)
}

// frameCamera fits the camera to everything drawn at the current frame.
func (v *Viewer) frameCamera() {
	var snaps []*onion.Snapshot
	for _, d := range v.scene.Drawables() {
		if s, err := v.sampler.Sample(placed{d.Object, d.Base}, v.scene.CurrentFrame()); err == nil {
			snaps = append(snaps, s)
		}
	}
	if lo, hi, ok := Bounds(snaps); ok {
		v.cam.FitToBounds(lo, hi)
	}
}

// Bounds returns the axis-aligned box around every vertex of snaps.
func Bounds(snaps []*onion.Snapshot) (lo, hi mgl32.Vec3, ok bool) {
	for _, s := range snaps {
		for _, p := range s.Vertices {
			if !ok {
				lo, hi, ok = p, p, true
				continue
			}
			for i := range 3 {
				lo[i] = min(lo[i], p[i])
				hi[i] = max(hi[i], p[i])
			}
		}
	}
	return lo, hi, ok
}

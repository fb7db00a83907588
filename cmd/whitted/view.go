package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/render"
	"github.com/taigrr/whitted/pkg/setup"
)

// RotationAxis tracks position and velocity for one rotation axis with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewRotationAxis creates an axis with harmonica spring for smooth velocity decay
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0 using spring
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// Moving reports whether the axis still has visible velocity.
func (a *RotationAxis) Moving() bool {
	return math.Abs(a.Velocity) > 1e-4
}

// Orbit swings the camera around a target point. Yaw turns about world Z
// and pitch raises the view axis toward Z, both in radians.
type Orbit struct {
	Pitch, Yaw RotationAxis
	Target     math3d.Vec3
	Distance   float64

	fps                int
	homePitch, homeYaw float64
	homeDistance       float64
}

// NewOrbit starts an orbit that reproduces the camera's current view of
// target.
func NewOrbit(cam render.Camera, target math3d.Vec3, fps int) *Orbit {
	eye := cam.Transform().Position()
	d := target.Sub(eye)
	dist := d.Len()
	if dist < 1e-6 {
		d = cam.Transform().ApplyToNormal(math3d.Forward())
		dist = 5
	}
	d = d.Normalize()

	o := &Orbit{
		Target:       target,
		fps:          fps,
		homePitch:    math.Asin(math.Max(-1, math.Min(1, d.Z))),
		homeYaw:      math.Atan2(-d.X, d.Y),
		homeDistance: dist,
	}
	o.Reset()
	return o
}

// Reset returns to the starting view and stops all motion.
func (o *Orbit) Reset() {
	o.Pitch = NewRotationAxis(o.fps)
	o.Yaw = NewRotationAxis(o.fps)
	o.Pitch.Position = o.homePitch
	o.Yaw.Position = o.homeYaw
	o.Distance = o.homeDistance
}

func (o *Orbit) ApplyImpulse(pitch, yaw float64) {
	o.Pitch.Velocity += pitch
	o.Yaw.Velocity += yaw
}

// Update advances the springs and reports whether the view changed.
func (o *Orbit) Update() bool {
	moving := o.Pitch.Moving() || o.Yaw.Moving()
	o.Pitch.Update()
	o.Yaw.Update()

	// Stop short of the poles where yaw degenerates
	limit := math.Pi/2 - 0.01
	o.Pitch.Position = math.Max(-limit, math.Min(limit, o.Pitch.Position))
	return moving
}

// Place positions the camera transform on the orbit, looking at Target.
func (o *Orbit) Place(t *math3d.Transform) {
	t.SetRotationMatrix(math3d.RotateZ(o.Yaw.Position).Mul(math3d.RotateX(o.Pitch.Position)))
	eye := o.Target.Sub(t.ApplyToNormal(math3d.Forward()).Scale(o.Distance))
	t.SetPosition(eye.X, eye.Y, eye.Z)
}

// HUD renders an overlay with scene info and controls
type HUD struct {
	title     string
	triangles int
	frameTime time.Duration
	rays      int64
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(width, height int, show, bounds bool) {
	// ANSI escape codes for positioning and styling
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)
	if !show {
		return
	}

	// Top left: frame time
	fmt.Printf("%s%s%s %v/frame %s", moveTo(1, 1), bgBlack, fgGreen, h.frameTime.Round(time.Millisecond), reset)

	// Top middle: scene name
	titleCol := max((width-len(h.title)-2)/2, 1)
	fmt.Print(moveTo(1, titleCol) + fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.title, reset))

	// Top right: triangle count
	fmt.Print(moveTo(1, max(width-16, 1)) + fmt.Sprintf("%s%s%s %d tris %s", bgBlack, fgCyan, bold, h.triangles, reset))

	check := "[ ]"
	if bounds {
		check = "[✓]"
	}
	fmt.Print(moveTo(height, 1) + fmt.Sprintf("%s%s %s Bounds  %d rays %s", bgBlack, fgWhite, check, h.rays, reset))
	fmt.Print(moveTo(height, max(width-18, 1)) + fmt.Sprintf("%s%s%s R: reset view %s", bgBlack, dim, fgYellow, reset))
}

// viewInput is the state shared between the event goroutine and the
// render loop.
type viewInput struct {
	mu         sync.Mutex
	pitch, yaw float64 // held-key torque
	impulse    [2]float64
	zoom       float64
	reset      bool
	showHUD    bool
	showBounds bool
	dirty      bool
	resized    bool
	cols, rows int
}

func runViewer(ctx context.Context, s *setup.Setup, fps int) error {
	if fps <= 0 {
		fps = 30
	}

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	renderer := s.Renderer(nil)
	orbit := NewOrbit(s.Camera, s.Scene.Bounds().Center(), fps)
	hud := &HUD{title: s.Scene.Meshes[0].Name, triangles: s.Scene.TriangleCount()}
	if len(s.Scene.Meshes) > 1 {
		hud.title = fmt.Sprintf("%s +%d", hud.title, len(s.Scene.Meshes)-1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := &viewInput{dirty: true, showBounds: *showBounds}
	const torqueStrength = 1.5

	// Event handler
	go func() {
		for ev := range term.Events() {
			in.mu.Lock()
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				in.cols, in.rows = ev.Width, ev.Height
				in.resized = true

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c"):
					in.mu.Unlock()
					cancel()
					return
				case ev.MatchString("w", "up"):
					in.pitch = torqueStrength
				case ev.MatchString("s", "down"):
					in.pitch = -torqueStrength
				case ev.MatchString("a", "left"):
					in.yaw = torqueStrength
				case ev.MatchString("d", "right"):
					in.yaw = -torqueStrength
				case ev.MatchString("space"):
					in.impulse[0] += (rand.Float64() - 0.5) * 0.3
					in.impulse[1] += (rand.Float64() - 0.5) * 0.3
				case ev.MatchString("+", "="):
					in.zoom -= 0.5
				case ev.MatchString("-", "_"):
					in.zoom += 0.5
				case ev.MatchString("r"):
					in.reset = true
				case ev.MatchString("b"):
					in.showBounds = !in.showBounds
					in.dirty = true
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					in.showHUD = !in.showHUD
					in.dirty = true
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w", "up", "s", "down"):
					in.pitch = 0
				case ev.MatchString("a", "left", "d", "right"):
					in.yaw = 0
				}
			}
			in.mu.Unlock()
		}
	}()

	// Main loop
	targetDuration := time.Second / time.Duration(fps)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := math.Min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		in.mu.Lock()
		if in.resized {
			width, height = in.cols, in.rows
			term.Erase()
			term.Resize(width, height)
			termRenderer = render.NewTerminalRenderer(term, width, height)
			fbWidth, fbHeight = termRenderer.FramebufferSize()
			fb = render.NewFramebuffer(fbWidth, fbHeight)
			in.resized = false
			in.dirty = true
		}
		if in.reset {
			orbit.Reset()
			in.reset = false
			in.dirty = true
		}
		orbit.ApplyImpulse(in.pitch*dt+in.impulse[0], in.yaw*dt+in.impulse[1])
		in.impulse = [2]float64{}
		if in.zoom != 0 {
			orbit.Distance = math.Max(0.5, orbit.Distance+in.zoom)
			in.zoom = 0
			in.dirty = true
		}
		// Key release events are unreliable; decay held torque
		in.pitch *= 0.9
		in.yaw *= 0.9
		dirty := orbit.Update() || in.dirty
		in.dirty = false
		showHUD, bounds := in.showHUD, in.showBounds
		in.mu.Unlock()

		if dirty {
			orbit.Place(s.Camera.Transform())
			start := time.Now()
			if err := renderer.Render(ctx, fb); err != nil {
				// Cancelled mid-frame; the loop exits on the next pass
				continue
			}
			hud.frameTime = time.Since(start)
			hud.rays = renderer.Stats().Total()

			if bounds {
				render.NewOverlay(s.Camera, fb).DrawScene(s.Scene, s.Light, render.RGB(0, 255, 128))
			}

			termRenderer.Render(fb)
			if err := termRenderer.Flush(); err != nil {
				cleanup()
				return fmt.Errorf("flush: %w", err)
			}
			// HUD rows are cleared when hidden, so only touch them after a redraw
			hud.Render(width, height, showHUD, bounds)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

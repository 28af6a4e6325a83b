package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// Angle units per key press and per dragged cell.
const (
	keyStep   = 64
	dragStep  = 12
	spinStep  = 6
	zoomStep  = 100
	minZoom   = 300
	maxZoom   = 3400
	maxPitch  = 400
	textureHz = 50
)

func newViewCmd(sf *sceneFlags) *cobra.Command {
	var fps int
	var bg string
	cmd := &cobra.Command{
		Use:   "view [model.glb]",
		Short: "Interactive terminal viewer",
		Long:  "View a glTF/GLB model, or the built-in box, in the terminal using half-block cells.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r, g, b uint8 = 30, 30, 40
			if _, err := fmt.Sscanf(bg, "%d,%d,%d", &r, &g, &b); err != nil {
				return fmt.Errorf("background %q: %w", bg, err)
			}
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return runView(cmd.Context(), path, sf, fps, render.RGB(r, g, b))
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 60, "target frames per second")
	cmd.Flags().StringVar(&bg, "bg", "30,30,40", "background color (R,G,B)")
	return cmd
}

// springAxis eases one angle toward its target.
type springAxis struct {
	pos, vel, target float64
	spring           harmonica.Spring
}

func newSpringAxis(fps int, start float64) springAxis {
	return springAxis{
		pos:    start,
		target: start,
		// Critically damped so the view never overshoots.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

func (a *springAxis) update() {
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, a.target)
}

func (a *springAxis) value() int32 {
	return int32(math.Round(a.pos))
}

// viewState is everything the key bindings change.
type viewState struct {
	yaw, pitch, zoom springAxis
	spin             bool
	wireframe        bool
	showAABB         bool
	showHUD          bool
	picked           bool
}

func newViewState(fps int, sf *sceneFlags) *viewState {
	return &viewState{
		yaw:     newSpringAxis(fps, float64(sf.yaw)),
		pitch:   newSpringAxis(fps, float64(sf.pitch)),
		zoom:    newSpringAxis(fps, float64(sf.distance)),
		showHUD: true,
	}
}

func (v *viewState) reset(fps int, sf *sceneFlags) {
	hud := v.showHUD
	*v = *newViewState(fps, sf)
	v.showHUD = hud
}

func (v *viewState) update() {
	if v.spin {
		v.yaw.target += spinStep
	}
	v.yaw.update()
	v.pitch.update()
	v.zoom.update()
}

func (v *viewState) turn(dyaw, dpitch float64) {
	v.yaw.target += dyaw
	v.pitch.target = max(-maxPitch, min(maxPitch, v.pitch.target+dpitch))
}

func (v *viewState) zoomBy(d float64) {
	v.zoom.target = max(minZoom, min(maxZoom, v.zoom.target+d))
}

func runView(ctx context.Context, path string, sf *sceneFlags, fps int, bg uint32) error {
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}

	// Logs written while the alternate screen is up would tear the frame;
	// hold them until the terminal is restored.
	var held bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&held, &slog.HandlerOptions{Level: sf.level}))
	defer func() {
		if held.Len() > 0 {
			os.Stderr.Write(held.Bytes())
		}
	}()

	sc, err := loadScene(path, sf, logger)
	if err != nil {
		return err
	}

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

	fmt.Fprint(os.Stdout, "\x1b[?1002h") // button-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode
	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1002l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	// Each cell shows two framebuffer rows.
	fb := render.NewFramebuffer(width, height*2)
	cam := newCamera(sf)
	r := render.NewRasterizer(render.WithLogger(logger), render.WithTextures(sc.textures))
	state := newViewState(fps, sf)
	hud := NewHUD(sc.name, sc.model.FaceCount())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		dragging         bool
		lastX, lastY     int
		lastRes          render.CullResult
		frames, texTicks int
	)

	handle := func(ev uv.Event) {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			fb = render.NewFramebuffer(width, height*2)

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape", "ctrl+c"):
				cancel()
			case ev.MatchString("w", "up"):
				state.turn(0, -keyStep)
			case ev.MatchString("s", "down"):
				state.turn(0, keyStep)
			case ev.MatchString("a", "left"):
				state.turn(-keyStep, 0)
			case ev.MatchString("d", "right"):
				state.turn(keyStep, 0)
			case ev.MatchString("space"):
				state.spin = !state.spin
			case ev.MatchString("r"):
				state.reset(fps, sf)
			case ev.MatchString("+", "="):
				state.zoomBy(-zoomStep)
			case ev.MatchString("-", "_"):
				state.zoomBy(zoomStep)
			case ev.MatchString("x"):
				state.wireframe = !state.wireframe
			case ev.MatchString("b"):
				state.showAABB = !state.showAABB
			case ev.MatchString("t"):
				r.AffineTextures = !r.AffineTextures
			case ev.MatchString("g"):
				r.GouraudBarycentric = !r.GouraudBarycentric
			case ev.MatchString("c"):
				r.DisableBackfaceCulling = !r.DisableBackfaceCulling
			case ev.MatchString("?", "shift+/"):
				state.showHUD = !state.showHUD
			}

		case uv.MouseClickEvent:
			dragging = true
			lastX, lastY = ev.X, ev.Y
			state.picked = r.Contains(int32(ev.X), int32(ev.Y*2))

		case uv.MouseReleaseEvent:
			dragging = false

		case uv.MouseMotionEvent:
			if dragging {
				state.turn(float64(ev.X-lastX)*dragStep, float64(ev.Y-lastY)*dragStep)
				lastX, lastY = ev.X, ev.Y
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				state.zoomBy(-zoomStep)
			case uv.MouseWheelDown:
				state.zoomBy(zoomStep)
			}
		}
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-term.Events():
			handle(ev)
			continue
		case <-ticker.C:
		}

		state.update()
		frames++
		// Texture animation runs at the client's 50 Hz regardless of fps.
		if want := frames * textureHz / fps; want > texTicks {
			sc.textures.Animate(int32(want - texTicks))
			texTicks = want
		}

		cam.SetRotation(state.pitch.value(), 0)
		pos := cam.Focus(state.zoom.value())
		pos.Yaw = state.yaw.value() & math3d.AngleMask

		fb.Clear(bg)
		r.ResetCullingStats()
		lastRes, err = r.RenderModel(fb, sc.model, pos, cam)
		if err != nil {
			return fmt.Errorf("render %s: %w", sc.name, err)
		}

		if lastRes == render.CullVisible {
			w := render.NewWireframe(cam, fb)
			if state.wireframe {
				w.DrawModel(r, render.RGB(0, 255, 128))
			}
			if state.showAABB {
				w.DrawAABB(r.ProjectedAABB(), render.ColorYellow)
			}
		}

		hud.UpdateFPS()
		term.Draw(uv.DrawableFunc(func(scr uv.Screen, area uv.Rectangle) {
			fb.Draw(scr, area)
			if state.showHUD {
				hud.Draw(scr, area, hudStatus{
					result:      lastRes,
					stats:       r.CullingStats,
					wireframe:   state.wireframe,
					aabb:        state.showAABB,
					affine:      r.AffineTextures,
					barycentric: r.GouraudBarycentric,
					twoSided:    r.DisableBackfaceCulling,
					picked:      state.picked,
				})
			}
		}))
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}
}

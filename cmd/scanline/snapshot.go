package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"
)

type snapshotFlags struct {
	output    string
	frames    int
	label     bool
	wireframe bool
	affine    bool
	bg        uint32
}

func newSnapshotCmd(sf *sceneFlags) *cobra.Command {
	opts := &snapshotFlags{}
	var bg string
	cmd := &cobra.Command{
		Use:   "snapshot [model.glb]",
		Short: "Render to PNG",
		Long: "Render one frame, or a turntable of --frames frames drawn concurrently,\n" +
			"to PNG. Turntable frames are numbered before the extension.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r, g, b uint8
			if _, err := fmt.Sscanf(bg, "%d,%d,%d", &r, &g, &b); err != nil {
				return fmt.Errorf("background %q: %w", bg, err)
			}
			opts.bg = render.RGB(r, g, b)
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return runSnapshot(cmd.Context(), path, sf, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "scanline.png", "output PNG path")
	f.IntVar(&opts.frames, "frames", 1, "number of turntable frames")
	f.BoolVar(&opts.label, "label", true, "stamp model name and face counts on each frame")
	f.BoolVar(&opts.wireframe, "wireframe", false, "overlay face edges")
	f.BoolVar(&opts.affine, "affine", false, "use affine texture mapping")
	f.StringVar(&bg, "bg", "30,30,40", "background color (R,G,B)")
	return cmd
}

func runSnapshot(ctx context.Context, path string, sf *sceneFlags, opts *snapshotFlags) error {
	if opts.frames < 1 {
		return fmt.Errorf("frames must be at least 1, got %d", opts.frames)
	}
	if sf.width <= 0 || sf.height <= 0 {
		return fmt.Errorf("invalid size %dx%d", sf.width, sf.height)
	}
	logger := slog.Default()

	sc, err := loadScene(path, sf, logger)
	if err != nil {
		return err
	}

	// Each frame gets its own rasterizer and framebuffer; the model,
	// textures and palette are only read.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range opts.frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			yaw := sf.yaw + int32(i*math3d.AngleSteps/opts.frames)
			out := framePath(opts.output, i, opts.frames)
			if err := renderFrame(sc, sf, opts, yaw, out); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			logger.Info("wrote frame", "path", out, "yaw", yaw&math3d.AngleMask)
			return nil
		})
	}
	return g.Wait()
}

// framePath numbers turntable frames as name_000.png.
func framePath(output string, i, frames int) string {
	if frames == 1 {
		return output
	}
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(output, ext), i, ext)
}

func renderFrame(sc *scene, sf *sceneFlags, opts *snapshotFlags, yaw int32, out string) error {
	cam := newCamera(sf)
	pos := cam.Focus(sf.distance)
	pos.Yaw = yaw & math3d.AngleMask

	fb := render.NewFramebuffer(sf.width, sf.height)
	fb.Clear(opts.bg)

	r := render.NewRasterizer(render.WithTextures(sc.textures))
	r.AffineTextures = opts.affine
	res, err := r.RenderModel(fb, sc.model, pos, cam)
	if err != nil {
		return err
	}
	if res == render.CullVisible && opts.wireframe {
		render.NewWireframe(cam, fb).DrawModel(r, render.RGB(0, 255, 128))
	}

	img := fb.ToImage()
	if opts.label {
		drawLabel(img, frameLabel(sc.model, res, r.CullingStats))
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", out, err)
	}
	return f.Close()
}

func frameLabel(m *models.Model, res render.CullResult, st render.CullingStats) string {
	if res != render.CullVisible {
		return fmt.Sprintf("%s  culled (%s)", m.Name, res)
	}
	return fmt.Sprintf("%s  %d/%d faces  %d clipped", m.Name, st.FacesDrawn, m.FaceCount(), st.FacesClipped)
}

// drawLabel stamps text in the top-left corner with a one pixel shadow.
func drawLabel(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Face: face}
	for _, pass := range []struct {
		off int
		c   color.Color
	}{{1, color.Black}, {0, color.White}} {
		d.Src = image.NewUniform(pass.c)
		d.Dot = fixed.P(4+pass.off, face.Ascent+4+pass.off)
		d.DrawString(text)
	}
}

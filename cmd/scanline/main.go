// scanline draws fixed-point models with the software renderer, either live
// in the terminal or into PNG files.
//
// Viewer controls:
//
//	Mouse drag  - Rotate model
//	Click       - Pick (HUD shows whether the model was hit)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Space       - Toggle turntable spin
//	R           - Reset view
//	X           - Toggle wireframe overlay
//	B           - Toggle screen box overlay
//	T           - Toggle affine texture mapping
//	G           - Toggle barycentric gouraud
//	C           - Toggle back-face culling
//	?           - Toggle HUD overlay
//	+/-         - Adjust zoom
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/scanline/pkg/render"
)

var version = "dev"

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

// sceneFlags are shared by every subcommand.
type sceneFlags struct {
	width, height int
	fov           int32
	pitch, yaw    int32
	distance      int32
	texture       string
	logLevel      string
	level         slog.Level
}

func newRootCmd() *cobra.Command {
	sf := &sceneFlags{}
	root := &cobra.Command{
		Use:   "scanline",
		Short: "Fixed-point software model renderer",
		Long: "scanline projects, sorts and rasterizes fixed-point models the way the\n" +
			"classic client did: painter's order, integer math, no depth buffer.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := sf.level.UnmarshalText([]byte(sf.logLevel)); err != nil {
				return fmt.Errorf("log level %q: %w", sf.logLevel, err)
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: sf.level}))
			slog.SetDefault(logger)
			render.SetLogger(logger)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.IntVar(&sf.width, "width", 320, "framebuffer width in pixels (snapshot)")
	pf.IntVar(&sf.height, "height", 240, "framebuffer height in pixels (snapshot)")
	pf.Int32Var(&sf.fov, "fov", render.DefaultFOV, "field of view in angle units (2048 per turn)")
	pf.Int32Var(&sf.pitch, "pitch", 64, "camera pitch in angle units")
	pf.Int32Var(&sf.yaw, "yaw", 0, "model yaw in angle units")
	pf.Int32Var(&sf.distance, "distance", 1400, "distance from the camera to the model")
	pf.StringVar(&sf.texture, "texture", "", "texture image applied to every face (PNG/JPG)")
	pf.StringVar(&sf.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newViewCmd(sf), newSnapshotCmd(sf))
	return root
}

package main

import (
	"context"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/scanline/pkg/render"
)

func testSceneFlags() *sceneFlags {
	return &sceneFlags{
		width:    96,
		height:   72,
		fov:      render.DefaultFOV,
		pitch:    64,
		distance: 1400,
	}
}

func TestFramePath(t *testing.T) {
	tests := []struct {
		output    string
		i, frames int
		want      string
	}{
		{"out.png", 0, 1, "out.png"},
		{"out.png", 0, 4, "out_000.png"},
		{"dir/spin.png", 12, 36, "dir/spin_012.png"},
		{"noext", 3, 8, "noext_003"},
	}
	for _, tc := range tests {
		if got := framePath(tc.output, tc.i, tc.frames); got != tc.want {
			t.Errorf("framePath(%q, %d, %d) = %q, want %q", tc.output, tc.i, tc.frames, got, tc.want)
		}
	}
}

func TestLoadSceneDefaultBox(t *testing.T) {
	sc, err := loadScene("", testSceneFlags(), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}
	if sc.name != "box" || sc.model.FaceCount() != 12 {
		t.Errorf("got %s with %d faces", sc.name, sc.model.FaceCount())
	}
	if sc.textures.Len() != 0 {
		t.Errorf("box registered %d textures", sc.textures.Len())
	}
}

func TestLoadSceneMissingFiles(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	if _, err := loadScene(filepath.Join(t.TempDir(), "nope.glb"), testSceneFlags(), logger); err == nil {
		t.Error("missing model loaded")
	}
	sf := testSceneFlags()
	sf.texture = filepath.Join(t.TempDir(), "nope.png")
	if _, err := loadScene("", sf, logger); err == nil {
		t.Error("missing texture loaded")
	}
}

func TestRunSnapshotTurntable(t *testing.T) {
	dir := t.TempDir()
	opts := &snapshotFlags{
		output: filepath.Join(dir, "spin.png"),
		frames: 4,
		label:  true,
		bg:     render.RGB(30, 30, 40),
	}
	if err := runSnapshot(context.Background(), "", testSceneFlags(), opts); err != nil {
		t.Fatal(err)
	}

	for i := range opts.frames {
		path := framePath(opts.output, i, opts.frames)
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if b := img.Bounds(); b.Dx() != 96 || b.Dy() != 72 {
			t.Errorf("frame %d is %v", i, b)
		}
		// The box sits at the center of every frame.
		r, g, b, _ := img.At(48, 40).RGBA()
		if r>>8 == 30 && g>>8 == 30 && b>>8 == 40 {
			t.Errorf("frame %d: center pixel is background", i)
		}
	}
}

func TestRunSnapshotRejectsBadFlags(t *testing.T) {
	opts := &snapshotFlags{output: filepath.Join(t.TempDir(), "x.png")}
	if err := runSnapshot(context.Background(), "", testSceneFlags(), opts); err == nil {
		t.Error("zero frames accepted")
	}
	opts.frames = 1
	sf := testSceneFlags()
	sf.width = 0
	if err := runSnapshot(context.Background(), "", sf, opts); err == nil {
		t.Error("zero width accepted")
	}
}

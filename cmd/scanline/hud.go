package main

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/scanline/pkg/render"
)

var (
	hudBase   = lipgloss.NewStyle().Background(lipgloss.Color("#000000")).Padding(0, 1)
	fpsStyle  = hudBase.Foreground(lipgloss.Color("#5FFF87"))
	nameStyle = hudBase.Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	statStyle = hudBase.Foreground(lipgloss.Color("#5FD7FF")).Bold(true)
	modeStyle = hudBase.Foreground(lipgloss.Color("#FFFFFF"))
	hintStyle = hudBase.Foreground(lipgloss.Color("#FFD75F")).Faint(true)
	hitStyle  = hudBase.Foreground(lipgloss.Color("#FF5F87")).Bold(true)
)

// hudStatus is the per-frame state shown in the overlay.
type hudStatus struct {
	result      render.CullResult
	stats       render.CullingStats
	wireframe   bool
	aabb        bool
	affine      bool
	barycentric bool
	twoSided    bool
	picked      bool
}

// HUD renders an overlay with model info and the active toggles.
type HUD struct {
	filename  string
	faceCount int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD
func NewHUD(filename string, faceCount int) *HUD {
	return &HUD{
		filename:  filename,
		faceCount: faceCount,
		fpsTime:   time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Draw writes the top and bottom HUD rows over area.
func (h *HUD) Draw(scr uv.Screen, area uv.Rectangle, st hudStatus) {
	top, bottom := area.Min.Y, area.Max.Y-1
	width := area.Dx()

	put := func(x, y int, s string) {
		w := lipgloss.Width(s)
		x = max(area.Min.X, min(x, area.Max.X-w))
		uv.NewStyledString(s).Draw(scr, uv.Rect(x, y, w, 1))
	}

	put(area.Min.X, top, fpsStyle.Render(fmt.Sprintf("%.0f FPS", h.fps)))

	name := nameStyle.Render(h.filename)
	put(area.Min.X+(width-lipgloss.Width(name))/2, top, name)

	var stat string
	if st.result == render.CullVisible {
		stat = fmt.Sprintf("%d/%d faces", st.stats.FacesDrawn, h.faceCount)
		if st.stats.FacesClipped > 0 {
			stat += fmt.Sprintf(" (%d clipped)", st.stats.FacesClipped)
		}
	} else {
		stat = "culled: " + st.result.String()
	}
	stat = statStyle.Render(stat)
	put(area.Max.X-lipgloss.Width(stat), top, stat)

	modes := modeStyle.Render(strings.Join([]string{
		checkbox(st.wireframe) + " X-Ray",
		checkbox(st.aabb) + " Box",
		checkbox(st.affine) + " Affine",
		checkbox(st.barycentric) + " Barycentric",
		checkbox(st.twoSided) + " Two-sided",
	}, "  "))
	put(area.Min.X, bottom, modes)

	hint := hintStyle.Render("? hide HUD")
	if st.picked {
		hint = hitStyle.Render("◉ hit")
	}
	put(area.Max.X-lipgloss.Width(hint), bottom, hint)
}

func checkbox(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}

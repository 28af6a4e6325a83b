package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.Width; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: pixelColor(fb.GetPixel(x, topY)),
					Bg: pixelColor(fb.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

func pixelColor(p uint32) color.Color {
	return RGBA(p)
}

// Colors for convenience, packed 0xRRGGBB.
const (
	ColorBlack   uint32 = 0x000000
	ColorWhite   uint32 = 0xFFFFFF
	ColorRed     uint32 = 0xFF0000
	ColorGreen   uint32 = 0x00FF00
	ColorBlue    uint32 = 0x0000FF
	ColorYellow  uint32 = 0xFFFF00
	ColorCyan    uint32 = 0x00FFFF
	ColorMagenta uint32 = 0xFF00FF
	ColorGray    uint32 = 0x808080
	ColorSky     uint32 = 0x87CEEB
)

// RGB packs 8-bit channels.
func RGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

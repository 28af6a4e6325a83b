package models

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/scanline/pkg/math3d"
)

// HSL16 packs 6 bits of hue, 3 of saturation and 7 of lightness.
func HSL16(hue, sat, light int32) int32 {
	return (hue&63)<<10 | (sat&7)<<7 | (light & 127)
}

// SplitHSL16 unpacks an HSL16 color.
func SplitHSL16(hsl int32) (hue, sat, light int32) {
	return (hsl >> 10) & 63, (hsl >> 7) & 7, hsl & 127
}

// ColorToHSL16 quantizes an RGB color into HSL16.
func ColorToHSL16(c colorful.Color) int32 {
	h, s, l := c.Clamped().Hsl()
	hue := int32(h/360*64) & 63
	sat := math3d.Clamp(int32(s*8), 0, 7)
	light := math3d.Clamp(int32(l*128), 0, 127)
	return HSL16(hue, sat, light)
}

// RGBToHSL16 quantizes 8-bit RGB components into HSL16.
func RGBToHSL16(r, g, b uint8) int32 {
	return ColorToHSL16(colorful.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	})
}

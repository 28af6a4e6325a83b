package render

import (
	"math"
	"sync"
)

// DefaultBrightness is the gamma applied to the default palette.
const DefaultBrightness = 0.8

// Palette maps every HSL16 value to packed 0xRRGGBB. Rows are indexed by
// hue<<3|saturation and columns by the 7-bit lightness.
type Palette [1 << 16]uint32

var (
	paletteOnce    sync.Once
	defaultPalette *Palette
)

// DefaultPalette returns the shared palette at DefaultBrightness, building it
// on first use.
func DefaultPalette() *Palette {
	paletteOnce.Do(func() {
		defaultPalette = NewPalette(DefaultBrightness)
	})
	return defaultPalette
}

// NewPalette builds a palette with the given gamma.
func NewPalette(brightness float64) *Palette {
	p := new(Palette)
	i := 0
	for row := range 512 {
		hue := float64(row/8)/64.0 + 0.0078125
		sat := float64(row&7)/8.0 + 0.0625
		for col := range 128 {
			l := float64(col) / 128.0
			r, g, b := l, l, l
			if sat != 0 {
				var q float64
				if l < 0.5 {
					q = l * (sat + 1)
				} else {
					q = l + sat - l*sat
				}
				pp := l*2 - q

				tr := hue + 1.0/3.0
				if tr > 1 {
					tr--
				}
				tb := hue - 1.0/3.0
				if tb < 0 {
					tb++
				}
				r = hueChannel(pp, q, tr)
				g = hueChannel(pp, q, hue)
				b = hueChannel(pp, q, tb)
			}
			rgb := int32(r*256)<<16 + int32(g*256)<<8 + int32(b*256)
			p[i] = applyGamma(rgb, brightness)
			i++
		}
	}
	return p
}

func hueChannel(p, q, t float64) float64 {
	switch {
	case t*6 < 1:
		return p + (q-p)*6*t
	case t*2 < 1:
		return q
	case t*3 < 2:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

func applyGamma(rgb int32, gamma float64) uint32 {
	r := float64(rgb>>16) / 256
	g := float64(rgb>>8&0xFF) / 256
	b := float64(rgb&0xFF) / 256
	ir := int32(math.Pow(r, gamma) * 256)
	ig := int32(math.Pow(g, gamma) * 256)
	ib := int32(math.Pow(b, gamma) * 256)
	return uint32(ir<<16 + ig<<8 + ib)
}

// RGB returns the packed color for an HSL16 value.
func (p *Palette) RGB(hsl int32) uint32 {
	return p[hsl&0xFFFF]
}

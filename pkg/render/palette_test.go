package render

import (
	"math"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/scanline/pkg/models"
)

func TestDefaultPaletteShared(t *testing.T) {
	if DefaultPalette() != DefaultPalette() {
		t.Error("DefaultPalette built twice")
	}
}

func TestPaletteBlackAtZeroLightness(t *testing.T) {
	pal := DefaultPalette()
	for hue := range int32(64) {
		for sat := range int32(8) {
			if got := pal.RGB(models.HSL16(hue, sat, 0)); got != 0 {
				t.Fatalf("hue %d sat %d: lightness 0 gave %#06x", hue, sat, got)
			}
		}
	}
}

// TestPaletteMatchesHSL checks palette entries against go-colorful's HSL
// conversion with the same hue and saturation offsets and gamma.
func TestPaletteMatchesHSL(t *testing.T) {
	pal := DefaultPalette()
	channel := func(p uint32, shift uint) int {
		return int(p >> shift & 0xFF)
	}

	for _, hsl := range []struct{ hue, sat, light int32 }{
		{0, 7, 64},
		{10, 3, 30},
		{21, 5, 100},
		{42, 1, 64},
		{63, 6, 120},
	} {
		got := pal.RGB(models.HSL16(hsl.hue, hsl.sat, hsl.light))

		h := (float64(hsl.hue)/64 + 0.0078125) * 360
		s := float64(hsl.sat)/8 + 0.0625
		l := float64(hsl.light) / 128
		c := colorful.Hsl(h, s, l)

		for i, want := range []float64{c.R, c.G, c.B} {
			w := int(math.Pow(want, DefaultBrightness) * 256)
			g := channel(got, uint(16-8*i))
			if d := g - w; d < -3 || d > 3 {
				t.Errorf("hsl %+v channel %d = %d, want ~%d", hsl, i, g, w)
			}
		}
	}
}

func TestPaletteBrightnessOrdering(t *testing.T) {
	dim := NewPalette(1.0)
	bright := NewPalette(0.6)
	hsl := models.HSL16(12, 4, 50)
	if dim.RGB(hsl)>>16 > bright.RGB(hsl)>>16 {
		t.Errorf("lower gamma should brighten: %#06x vs %#06x", dim.RGB(hsl), bright.RGB(hsl))
	}
}

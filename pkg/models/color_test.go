package models

import "testing"

func TestHSL16Packing(t *testing.T) {
	hsl := HSL16(33, 5, 101)
	h, s, l := SplitHSL16(hsl)
	if h != 33 || s != 5 || l != 101 {
		t.Errorf("split = %d %d %d, want 33 5 101", h, s, l)
	}
	if hsl != 33<<10|5<<7|101 {
		t.Errorf("packed = %#x", hsl)
	}
}

func TestRGBToHSL16(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    int32
	}{
		{"black", 0, 0, 0, HSL16(0, 0, 0)},
		{"white", 255, 255, 255, HSL16(0, 0, 127)},
		{"red", 255, 0, 0, HSL16(0, 7, 64)},
		{"green", 0, 255, 0, HSL16(21, 7, 64)},
		{"blue", 0, 0, 255, HSL16(42, 7, 64)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RGBToHSL16(tc.r, tc.g, tc.b); got != tc.want {
				t.Errorf("got %#x, want %#x", got, tc.want)
			}
		})
	}
}

package render

// Triangle rasterizers take screen coordinates already offset to the
// framebuffer origin. Every variant sorts its vertices by ascending y and
// walks the long edge AC against AB for the top half, then against BC for
// the bottom half. Edge positions are Q16 unless noted.

// edgeStep is the per-row x increment of an edge in the given fixed point,
// or 0 for a horizontal edge.
func edgeStep(dx, dy int32, shift uint) int32 {
	if dy <= 0 {
		return 0
	}
	return (dx << shift) / dy
}

// sortY3 orders three points by y with the same three swaps the shading
// variants use, so colors carried alongside stay paired.
func sortY3(x0, y0, x1, y1, x2, y2 int32) (int32, int32, int32, int32, int32, int32) {
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	if y1 > y2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	return x0, y0, x1, y1, x2, y2
}

// flatSpan is called with a clipped row slice.
type flatSpan func(row []uint32)

// RasterFlat fills a triangle with one color.
func RasterFlat(fb *Framebuffer, x0, y0, x1, y1, x2, y2 int32, rgb uint32) {
	walkFlat(fb, x0, y0, x1, y1, x2, y2, func(row []uint32) {
		for i := range row {
			row[i] = rgb
		}
	})
}

// RasterFlatAlpha blends one color over a triangle with coverage alpha.
func RasterFlatAlpha(fb *Framebuffer, x0, y0, x1, y1, x2, y2 int32, rgb uint32, alpha int32) {
	walkFlat(fb, x0, y0, x1, y1, x2, y2, func(row []uint32) {
		for i, p := range row {
			row[i] = Blend(alpha, p, rgb)
		}
	})
}

func walkFlat(fb *Framebuffer, x0, y0, x1, y1, x2, y2 int32, span flatSpan) {
	x0, y0, x1, y1, x2, y2 = sortY3(x0, y0, x1, y1, x2, y2)
	if x0 == x1 && x1 == x2 {
		return
	}

	stepAC := edgeStep(x2-x0, y2-y0, 16)
	stepAB := edgeStep(x1-x0, y1-y0, 16)
	stepBC := edgeStep(x2-x1, y2-y1, 16)

	edgeAC := x0 << 16
	edgeAB := x0 << 16
	edgeBC := x1 << 16

	if y0 < 0 {
		edgeAC -= stepAC * y0
		edgeAB -= stepAB * y0
		y0 = 0
	}
	if y1 < 0 {
		edgeBC -= stepBC * y1
		y1 = 0
	}

	h := int32(fb.Height)
	for y := y0; y < y1 && y < h; y++ {
		flatScanline(fb, y, edgeAC>>16, edgeAB>>16, span)
		edgeAC += stepAC
		edgeAB += stepAB
	}
	for y := y1; y < y2 && y < h; y++ {
		flatScanline(fb, y, edgeAC>>16, edgeBC>>16, span)
		edgeAC += stepAC
		edgeBC += stepBC
	}
}

// flatScanline covers [xs, xe) clipped to the framebuffer width.
func flatScanline(fb *Framebuffer, y, xs, xe int32, span flatSpan) {
	if xs == xe {
		return
	}
	if xs > xe {
		xs, xe = xe, xs
	}
	xe = min(xe, int32(fb.Width))
	xs = max(xs, 0)
	if xs > xe {
		return
	}
	off := int(y) * fb.Stride
	span(fb.Pixels[off+int(xs) : off+int(xe)])
}

package render

// Gouraud triangles interpolate HSL16 values, not RGB. Edge colors are
// Q15 and scanline colors Q8. The color steps once every four pixels,
// which is what lets the block variant resolve one palette entry per
// four pixels.

// gouraudSpan draws row y between xs and xe with Q8 end colors.
type gouraudSpan func(fb *Framebuffer, pal *Palette, y, xs, xe, cs, ce int32)

// RasterGouraud is the per-pixel reference rasterizer: each pixel computes
// its own color from the span start rather than accumulating.
func RasterGouraud(fb *Framebuffer, pal *Palette, x0, y0, x1, y1, x2, y2, c0, c1, c2 int32) {
	walkGouraud(fb, pal, x0, y0, x1, y1, x2, y2, c0, c1, c2, gouraudScanline)
}

// RasterGouraudAlpha blends a gouraud triangle with coverage alpha.
func RasterGouraudAlpha(fb *Framebuffer, pal *Palette, x0, y0, x1, y1, x2, y2, c0, c1, c2, alpha int32) {
	walkGouraud(fb, pal, x0, y0, x1, y1, x2, y2, c0, c1, c2,
		func(fb *Framebuffer, pal *Palette, y, xs, xe, cs, ce int32) {
			gouraudScanlineAlpha(fb, pal, y, xs, xe, cs, ce, alpha)
		})
}

func walkGouraud(fb *Framebuffer, pal *Palette, x0, y0, x1, y1, x2, y2, c0, c1, c2 int32, span gouraudSpan) {
	if y0 > y1 {
		x0, y0, c0, x1, y1, c1 = x1, y1, c1, x0, y0, c0
	}
	if y1 > y2 {
		x1, y1, c1, x2, y2, c2 = x2, y2, c2, x1, y1, c1
	}
	if y0 > y1 {
		x0, y0, c0, x1, y1, c1 = x1, y1, c1, x0, y0, c0
	}
	if y2-y0 == 0 {
		return
	}
	if x0 == x1 && x1 == x2 {
		return
	}

	dyAC, dyAB, dyBC := y2-y0, y1-y0, y2-y1

	stepAC := edgeStep(x2-x0, dyAC, 16)
	stepAB := edgeStep(x1-x0, dyAB, 16)
	stepBC := edgeStep(x2-x1, dyBC, 16)
	edgeAC, edgeAB, edgeBC := x0<<16, x0<<16, x1<<16

	colorStepAC := edgeStep(c2-c0, dyAC, 15)
	colorStepAB := edgeStep(c1-c0, dyAB, 15)
	colorStepBC := edgeStep(c2-c1, dyBC, 15)
	colorAC, colorAB, colorBC := c0<<15, c0<<15, c1<<15

	if y0 < 0 {
		edgeAC -= stepAC * y0
		edgeAB -= stepAB * y0
		colorAC -= colorStepAC * y0
		colorAB -= colorStepAB * y0
		y0 = 0
	}
	if y1 < 0 {
		edgeBC -= stepBC * y1
		colorBC -= colorStepBC * y1
		y1 = 0
	}

	h := int32(fb.Height)
	for y := y0; y < y1 && y < h; y++ {
		span(fb, pal, y, edgeAC>>16, edgeAB>>16, colorAC>>7, colorAB>>7)
		edgeAC += stepAC
		edgeAB += stepAB
		colorAC += colorStepAC
		colorAB += colorStepAB
	}
	for y := y1; y < y2 && y < h; y++ {
		span(fb, pal, y, edgeAC>>16, edgeBC>>16, colorAC>>7, colorBC>>7)
		edgeAC += stepAC
		edgeBC += stepBC
		colorAC += colorStepAC
		colorBC += colorStepBC
	}
}

// clipGouraudSpan orders and clips a span. It returns the first pixel
// offset, the pixel count, the Q8 start color and the per-pixel step.
// Spans shorter than four pixels are flat.
func clipGouraudSpan(fb *Framebuffer, y, xs, xe, cs, ce int32) (off int, n, color, step int32, ok bool) {
	if xs == xe {
		return 0, 0, 0, 0, false
	}
	if xs > xe {
		xs, xe = xe, xs
		cs, ce = ce, cs
	}
	if dx := xe - xs; dx > 3 {
		step = (ce - cs) / dx
	}
	w := int32(fb.Width)
	if xe >= w {
		xe = w - 1
	}
	if xs < 0 {
		cs -= step * xs
		xs = 0
	}
	if xs >= xe {
		return 0, 0, 0, 0, false
	}
	return int(y)*fb.Stride + int(xs), xe - xs, cs, step, true
}

func gouraudScanline(fb *Framebuffer, pal *Palette, y, xs, xe, cs, ce int32) {
	off, n, color, step, ok := clipGouraudSpan(fb, y, xs, xe, cs, ce)
	if !ok {
		return
	}
	row := fb.Pixels[off : off+int(n)]
	for k := range n {
		c := color + step*(k&^3)
		row[k] = pal[(c>>8)&0xFFFF]
	}
}

func gouraudScanlineAlpha(fb *Framebuffer, pal *Palette, y, xs, xe, cs, ce, alpha int32) {
	off, n, color, step, ok := clipGouraudSpan(fb, y, xs, xe, cs, ce)
	if !ok {
		return
	}
	row := fb.Pixels[off : off+int(n)]
	step <<= 2
	k := 0
	for range n >> 2 {
		rgb := pal[(color>>8)&0xFFFF]
		px := row[k : k+4 : k+4]
		px[0] = Blend(alpha, px[0], rgb)
		px[1] = Blend(alpha, px[1], rgb)
		px[2] = Blend(alpha, px[2], rgb)
		px[3] = Blend(alpha, px[3], rgb)
		k += 4
		color += step
	}
	rgb := pal[(color>>8)&0xFFFF]
	for ; k < len(row); k++ {
		row[k] = Blend(alpha, row[k], rgb)
	}
}

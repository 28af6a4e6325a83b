// Optimized gouraud routines. The block variant resolves one palette entry
// per four pixels; the barycentric variant replaces per-edge color walks with
// a single plane gradient.
package render

import "math"

// RasterGouraudBlock is the four-pixel block rasterizer the renderer uses.
// Its output is identical to RasterGouraud.
func RasterGouraudBlock(fb *Framebuffer, pal *Palette, x0, y0, x1, y1, x2, y2, c0, c1, c2 int32) {
	walkGouraud(fb, pal, x0, y0, x1, y1, x2, y2, c0, c1, c2, gouraudScanlineBlock)
}

func gouraudScanlineBlock(fb *Framebuffer, pal *Palette, y, xs, xe, cs, ce int32) {
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
		px[0], px[1], px[2], px[3] = rgb, rgb, rgb, rgb
		k += 4
		color += step
	}
	rgb := pal[(color>>8)&0xFFFF]
	for ; k < len(row); k++ {
		row[k] = rgb
	}
}

// baryShift is the fixed point of edge positions in the barycentric walk.
const baryShift = 8

// RasterGouraudBarycentric interpolates color from the triangle's plane
// gradient. Edges are Q8, so it tolerates larger screen extents before the
// edge steps overflow. Colors may differ from RasterGouraud by rounding.
func RasterGouraudBarycentric(fb *Framebuffer, pal *Palette, x0, y0, x1, y1, x2, y2, c0, c1, c2 int32) {
	// Plane gradient in Q8, from the caller's winding.
	dxAB, dyAB := int64(x1-x0), int64(y1-y0)
	dxAC, dyAC := int64(x2-x0), int64(y2-y0)
	area := dxAB*dyAC - dxAC*dyAB
	if area == 0 {
		return
	}
	dAB, dAC := int64(c1-c0), int64(c2-c0)
	stepX := clampInt32(((dAB*dyAC - dAC*dyAB) << 8) / area)
	stepY := clampInt32(((dAC*dxAB - dAB*dxAC) << 8) / area)

	if y0 > y1 {
		x0, y0, c0, x1, y1, c1 = x1, y1, c1, x0, y0, c0
	}
	if y1 > y2 {
		x1, y1, c1, x2, y2, c2 = x2, y2, c2, x1, y1, c1
	}
	if y0 > y1 {
		x0, y0, c0, x1, y1, c1 = x1, y1, c1, x0, y0, c0
	}
	h := int32(fb.Height)
	if y0 >= h || y2 < 0 {
		return
	}

	stepAC := edgeStep(x2-x0, y2-y0, baryShift)
	stepAB := edgeStep(x1-x0, y1-y0, baryShift)
	stepBC := edgeStep(x2-x1, y2-y1, baryShift)
	edgeAC, edgeAB, edgeBC := x0<<baryShift, x0<<baryShift, x1<<baryShift

	// Color at x = 0 on row y0.
	hsl := clampInt32(int64(stepX) + int64(c0)<<8 - int64(x0)*int64(stepX))

	if y0 < 0 {
		edgeAC -= stepAC * y0
		edgeAB -= stepAB * y0
		hsl -= stepY * y0
		y0 = 0
	}
	if y1 < 0 {
		edgeBC -= stepBC * y1
		y1 = 0
	}
	y1 = min(y1, h-1)

	off := int(y0) * fb.Stride
	for y := y0; y < y1; y++ {
		baryScanline(fb, pal, off, edgeAC, edgeAB, hsl, stepX)
		edgeAC += stepAC
		edgeAB += stepAB
		hsl += stepY
		off += fb.Stride
	}

	y2 = min(y2, h-1)
	if y1 >= y2 {
		return
	}
	for y := y1; y < y2; y++ {
		baryScanline(fb, pal, off, edgeAC, edgeBC, hsl, stepX)
		edgeAC += stepAC
		edgeBC += stepBC
		hsl += stepY
		off += fb.Stride
	}
}

func baryScanline(fb *Framebuffer, pal *Palette, off int, xsQ, xeQ, hsl, step int32) {
	if xsQ > xeQ {
		xsQ, xeQ = xeQ, xsQ
	}
	xs := max(xsQ>>baryShift, 0)
	xe := min(xeQ>>baryShift, int32(fb.Width)-1)
	if xs >= xe {
		return
	}
	row := fb.Pixels[off+int(xs) : off+int(xe)]
	hsl += step * xs
	step <<= 2
	k := 0
	for range len(row) >> 2 {
		rgb := pal[(hsl>>8)&0xFFFF]
		px := row[k : k+4 : k+4]
		px[0], px[1], px[2], px[3] = rgb, rgb, rgb, rgb
		k += 4
		hsl += step
	}
	rgb := pal[(hsl>>8)&0xFFFF]
	for ; k < len(row); k++ {
		row[k] = rgb
	}
}

func clampInt32(v int64) int32 {
	return int32(max(min(v, math.MaxInt32), math.MinInt32))
}

package render

// UVBasis is the camera-space texture frame of a face: P is the texel
// origin, M the end of the U axis and N the end of the V axis.
type UVBasis struct {
	PX, PY, PZ int32
	MX, MY, MZ int32
	NX, NY, NZ int32
}

// texRow draws row y between the Q16 edge positions x0q and x1q. au, bv and
// cw are the plane values at the left of the screen and shade is the Q8
// shade at x = 0.
type texRow func(t *texturer, y, x0q, x1q int32, off int, au, bv, cw, shade int32)

// texturer carries the per-triangle constants shared by every row.
type texturer struct {
	fb     *Framebuffer
	texels []uint32
	size   int32
	shift  uint
	vmask  int32
	opaque bool

	// Plane x gradients.
	dau, dbv, dcw int32
	dshade        int32

	// Affine state, Q16 u and v relative to vertex A.
	ax, ay     int32
	ua, va     int64
	dudx, dudy int64
	dvdx, dvdy int64
}

// RasterTexture draws a perspective-correct textured triangle. u and v are
// recovered with a divide every eight pixels and interpolated linearly in
// between. s0..s2 are 7-bit shades.
func RasterTexture(fb *Framebuffer, tex *Texture, fov, x0, y0, x1, y1, x2, y2 int32, b UVBasis, s0, s1, s2 int32) {
	walkTexture(fb, tex, fov, x0, y0, x1, y1, x2, y2, b, s0, s1, s2, false, perspectiveRow)
}

// RasterTextureFlat draws a textured triangle with a single shade.
func RasterTextureFlat(fb *Framebuffer, tex *Texture, fov, x0, y0, x1, y1, x2, y2 int32, b UVBasis, shade int32) {
	walkTexture(fb, tex, fov, x0, y0, x1, y1, x2, y2, b, shade, shade, shade, false, perspectiveRow)
}

// RasterTextureAffine maps u and v linearly in screen space from their
// values at the three vertices. It is cheaper and visibly warps large faces.
func RasterTextureAffine(fb *Framebuffer, tex *Texture, fov, x0, y0, x1, y1, x2, y2 int32, b UVBasis, s0, s1, s2 int32) {
	walkTexture(fb, tex, fov, x0, y0, x1, y1, x2, y2, b, s0, s1, s2, true, affineRow)
}

func walkTexture(fb *Framebuffer, tex *Texture, fov, x0, y0, x1, y1, x2, y2 int32, b UVBasis, s0, s1, s2 int32, affine bool, row texRow) {
	if tex == nil || len(tex.Texels) < int(tex.Size*tex.Size) {
		return
	}
	if y2 < y0 {
		x0, y0, s0, x2, y2, s2 = x2, y2, s2, x0, y0, s0
	}
	if y1 < y0 {
		x0, y0, s0, x1, y1, s1 = x1, y1, s1, x0, y0, s0
	}
	if y2 < y1 {
		x1, y1, s1, x2, y2, s2 = x2, y2, s2, x1, y1, s1
	}

	h := int32(fb.Height)
	if y0 >= h {
		return
	}

	// Plane normals spanned by the texture axes and the origin.
	uX, uY, uZ := b.MX-b.PX, b.MY-b.PY, b.MZ-b.PZ
	vX, vY, vZ := b.NX-b.PX, b.NY-b.PY, b.NZ-b.PZ

	uvX := uZ*vY - uY*vZ
	uvY := uX*vZ - uZ*vX
	uvZ := uY*vX - uX*vY

	ovX := b.PY*vZ - b.PZ*vY
	ovY := b.PZ*vX - b.PX*vZ
	ovZ := b.PX*vY - b.PY*vX

	uoX := uY*b.PZ - uZ*b.PY
	uoY := uZ*b.PX - uX*b.PZ
	uoZ := uX*b.PY - uY*b.PX

	dxAC, dyAC := x2-x0, y2-y0
	dxAB, dyAB := x1-x0, y1-y0
	dxBC, dyBC := x2-x1, y2-y1

	stepAC := edgeStep(dxAC, dyAC, 16)
	stepAB := edgeStep(dxAB, dyAB, 16)
	stepBC := edgeStep(dxBC, dyBC, 16)

	area := dxAC*dyAB - dxAB*dyAC
	if area == 0 {
		return
	}

	// Shades arrive as 7 bits; <<9 makes them 8-bit Q8.
	dab, dac := s1-s0, s2-s0
	shadeY := ((dxAC*dab - dxAB*dac) << 9) / area
	shadeX := ((dyAB*dac - dyAC*dab) << 9) / area
	shadeEdge := (s0 << 9) - shadeX*x0 + shadeX

	t := texturer{
		fb:     fb,
		texels: tex.Texels,
		size:   tex.Size,
		shift:  tex.shift(),
		vmask:  tex.vMask(),
		opaque: tex.Opaque,
		dau:    ovX,
		dbv:    uoX,
		dcw:    uvX,
		dshade: shadeX,
	}

	if affine {
		w := int32(fb.Width)
		pu, pv := [3]int64{}, [3]int64{}
		for i, p := range [3][2]int32{{x0, y0}, {x1, y1}, {x2, y2}} {
			dx, dy := p[0]-w>>1, p[1]-h>>1
			au := ProjectScaleUnit(ovZ, fov) + ovY*dy + ovX*dx
			bv := ProjectScaleUnit(uoZ, fov) + uoY*dy + uoX*dx
			cw := (ProjectScaleUnit(uvZ, fov) + uvY*dy + uvX*dx) >> t.shift
			if cw == 0 {
				cw = 1
			}
			pu[i], pv[i] = int64(au/cw), int64(bv/cw)
		}
		a := int64(area)
		t.ax, t.ay = x0, y0
		t.ua, t.va = pu[0]<<16, pv[0]<<16
		t.dudx = ((int64(dyAB)*(pu[2]-pu[0]) - int64(dyAC)*(pu[1]-pu[0])) << 16) / a
		t.dudy = ((int64(dxAC)*(pu[1]-pu[0]) - int64(dxAB)*(pu[2]-pu[0])) << 16) / a
		t.dvdx = ((int64(dyAB)*(pv[2]-pv[0]) - int64(dyAC)*(pv[1]-pv[0])) << 16) / a
		t.dvdy = ((int64(dxAC)*(pv[1]-pv[0]) - int64(dxAB)*(pv[2]-pv[0])) << 16) / a
	}

	edgeAC, edgeAB, edgeBC := x0<<16, x0<<16, x1<<16
	if y0 < 0 {
		edgeAC -= stepAC * y0
		edgeAB -= stepAB * y0
		shadeEdge -= shadeY * y0
		y0 = 0
	}
	if y1 < 0 {
		edgeBC -= stepBC * y1
		y1 = 0
	}
	if y0 > y1 {
		return
	}
	y1 = min(y1, h-1)

	dy := y0 - h>>1
	au := ProjectScaleUnit(ovZ, fov) + ovY*dy
	bv := ProjectScaleUnit(uoZ, fov) + uoY*dy
	cw := ProjectScaleUnit(uvZ, fov) + uvY*dy

	off := int(y0) * fb.Stride
	for y := y0; y < y1; y++ {
		row(&t, y, edgeAC, edgeAB, off, au, bv, cw, shadeEdge)
		edgeAC += stepAC
		edgeAB += stepAB
		au += ovY
		bv += uoY
		cw += uvY
		shadeEdge += shadeY
		off += fb.Stride
	}

	y2 = min(y2, h-1)
	if y1 > y2 {
		return
	}

	dy = y1 - h>>1
	au = ProjectScaleUnit(ovZ, fov) + ovY*dy
	bv = ProjectScaleUnit(uoZ, fov) + uoY*dy
	cw = ProjectScaleUnit(uvZ, fov) + uvY*dy

	off = int(y1) * fb.Stride
	for y := y1; y < y2; y++ {
		row(&t, y, edgeAC, edgeBC, off, au, bv, cw, shadeEdge)
		edgeAC += stepAC
		edgeBC += stepBC
		au += ovY
		bv += uoY
		cw += uvY
		shadeEdge += shadeY
		off += fb.Stride
	}
}

// clipTexRow orders and clips a row to [sx0, sx1) with sx1 < width.
func clipTexRow(fb *Framebuffer, x0q, x1q int32) (sx0, sx1 int32, ok bool) {
	if x0q == x1q {
		return 0, 0, false
	}
	if x0q > x1q {
		x0q, x1q = x1q, x0q
	}
	x0q = max(x0q, 0)
	sx0 = x0q >> 16
	sx1 = min(x1q>>16, int32(fb.Width)-1)
	if sx0 >= sx1 {
		return 0, 0, false
	}
	return sx0, sx1, true
}

func perspectiveRow(t *texturer, _, x0q, x1q int32, off int, au, bv, cw, shade int32) {
	sx0, sx1, ok := clipTexRow(t.fb, x0q, x1q)
	if !ok {
		return
	}

	adjust := sx0 - int32(t.fb.Width)>>1
	au += t.dau * adjust
	bv += t.dbv * adjust
	cw += t.dcw * adjust
	dau, dbv, dcw := t.dau<<3, t.dbv<<3, t.dcw<<3
	dshade := t.dshade << 3
	shade += t.dshade * sx0

	px := t.fb.Pixels[off+int(sx0) : off+int(sx1)]
	maxU := t.size - 1

	// Once the plane depth reaches zero the rest of the row is beyond the
	// horizon and is left undrawn.
	for len(px) > 0 {
		w := cw >> t.shift
		if w == 0 {
			return
		}
		cu := min(max(au/w, 0), maxU)
		cv := bv / w

		au += dau
		bv += dbv
		cw += dcw
		w = cw >> t.shift
		if w == 0 {
			return
		}
		nu := min(max(au/w, 0), maxU)
		nv := bv / w

		n := min(8, len(px))
		t.lerp(px[:n:n], cu, cv, nu, nv, shade>>8)
		px = px[n:]
		shade += dshade
	}
}

// lerp draws up to eight pixels stepping linearly from (cu, cv) toward
// (nu, nv).
func (t *texturer) lerp(dst []uint32, cu, cv, nu, nv, shade int32) {
	stepU := (nu - cu) << (t.shift - 3)
	stepV := (nv - cv) << (t.shift - 3)
	us := cu << t.shift
	vs := cv << t.shift
	for i := range dst {
		texel := t.texels[us>>t.shift+vs&t.vmask]
		if t.opaque || texel != 0 {
			dst[i] = shadeTexel(texel, shade)
		}
		us += stepU
		vs += stepV
	}
}

func affineRow(t *texturer, y, x0q, x1q int32, off int, _, _, _, shade int32) {
	sx0, sx1, ok := clipTexRow(t.fb, x0q, x1q)
	if !ok {
		return
	}

	dx, dy := int64(sx0-t.ax), int64(y-t.ay)
	u := t.ua + t.dudx*dx + t.dudy*dy
	v := t.va + t.dvdx*dx + t.dvdy*dy
	shade += t.dshade * sx0

	px := t.fb.Pixels[off+int(sx0) : off+int(sx1)]
	maxU := int64(t.size - 1)
	for i := range px {
		tu := min(max(u>>16, 0), maxU)
		tv := (int32(v>>16) << t.shift) & t.vmask
		texel := t.texels[int32(tu)+tv]
		if t.opaque || texel != 0 {
			px[i] = shadeTexel(texel, shade>>8)
		}
		u += t.dudx
		v += t.dvdx
		shade += t.dshade
	}
}

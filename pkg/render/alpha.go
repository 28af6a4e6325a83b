package render

// Blend mixes other over base with coverage alpha in [0, 0xFF]. Red and
// blue are multiplied together through the 0xFF00FF mask and green on its
// own, so no channel needs unpacking.
func Blend(alpha int32, base, other uint32) uint32 {
	switch {
	case alpha >= 0xFF:
		return other
	case alpha <= 0:
		return base
	}
	a := uint32(alpha)
	inv := 0xFF - a
	return ((((base & 0xFF00FF) * inv) >> 8) & 0xFF00FF) +
		((((other & 0xFF00FF) * a) >> 8) & 0xFF00FF) +
		((((other & 0xFF00) * a) >> 8) & 0xFF00) +
		((((base & 0xFF00) * inv) >> 8) & 0xFF00)
}

// faceAlpha converts a model alpha (0 opaque, 255 invisible) into blend
// coverage.
func faceAlpha(modelAlpha int32) int32 {
	return 0xFF - (modelAlpha & 0xFF)
}

// shadeTexel scales a texel by shade/256.
func shadeTexel(texel uint32, shade int32) uint32 {
	s := uint32(max(0, min(shade, 0xFF)))
	rb := (texel & 0x00FF00FF) * s
	g := (texel & 0x0000FF00) * s
	return ((rb & 0xFF00FF00) | (g & 0x00FF0000)) >> 8
}

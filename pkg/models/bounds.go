package models

import "github.com/taigrr/scanline/pkg/math3d"

// Bounds is the bounding cylinder around the model's Y axis. The renderer
// uses it for fast culling, the 8-corner screen box and the depth offset.
// +Y points down on screen.
type Bounds struct {
	Radius         int32 // max horizontal distance from the Y axis
	MinY, MaxY     int32
	CenterToTop    int32 // |MaxY| + 1
	CenterToBottom int32 // |MinY| + 1
	MinDepth       int32 // conservative depth radius at any yaw
}

// ComputeBounds derives the bounding cylinder for a vertex set.
func ComputeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}

	var radiusSq int64
	minY, maxY := vertices[0].Y, vertices[0].Y
	for _, v := range vertices {
		minY = min(minY, v.Y)
		maxY = max(maxY, v.Y)
		r := int64(v.X)*int64(v.X) + int64(v.Z)*int64(v.Z)
		radiusSq = max(radiusSq, r)
	}

	lo, hi := int64(minY), int64(maxY)
	toBottom := math3d.ISqrt(radiusSq+lo*lo) + 1
	toTop := math3d.ISqrt(radiusSq+hi*hi) + 1

	return Bounds{
		Radius:         math3d.ISqrt(radiusSq),
		MinY:           minY,
		MaxY:           maxY,
		CenterToBottom: math3d.ISqrt(lo*lo) + 1,
		CenterToTop:    math3d.ISqrt(hi*hi) + 1,
		// The camera is not assumed to sit above the model, so take the
		// larger of the two slant distances.
		MinDepth: max(toTop, toBottom),
	}
}

// CalculateBounds recomputes m.Bounds from the current vertices.
func (m *Model) CalculateBounds() {
	m.Bounds = ComputeBounds(m.Vertices)
}

// Height returns the vertical extent.
func (b Bounds) Height() int32 {
	return b.MaxY - b.MinY
}

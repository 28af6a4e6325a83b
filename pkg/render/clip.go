package render

import "github.com/taigrr/scanline/pkg/math3d"

// ClipPolygon is a face cut by the near plane. Points are relative to the
// viewport center. A triangle with one vertex behind the plane becomes a
// quad, one with two behind stays a triangle.
type ClipPolygon struct {
	X, Y, Color [4]int32
	N           int
}

// Triangles returns the fan (0,1,2) and, for a quad, (0,2,3).
func (p *ClipPolygon) Triangles() [][3]int {
	switch p.N {
	case 3:
		return [][3]int{{0, 1, 2}}
	case 4:
		return [][3]int{{0, 1, 2}, {0, 2, 3}}
	}
	return nil
}

func (p *ClipPolygon) push(x, y, color int32) {
	p.X[p.N], p.Y[p.N], p.Color[p.N] = x, y, color
	p.N++
}

// ClipNear builds the visible part of triangle (a, b, c) against the near
// plane. Colors ride along and are interpolated with the same slope. When
// no vertex is behind the plane the projected points are copied unchanged.
// It reports false when fewer than three points survive.
func ClipNear(vb *VertexBuffer, a, b, c int32, colors [3]int32, near, fov int32, poly *ClipPolygon) bool {
	poly.N = 0
	idx := [3]int32{a, b, c}

	// Each vertex behind the plane is replaced by its crossings toward the
	// two neighbours, previous first.
	for i, v := range idx {
		if vb.OrthoZ[v] >= near {
			poly.push(vb.ScreenX[v], vb.ScreenY[v], colors[i])
			continue
		}
		prev, next := (i+2)%3, (i+1)%3
		for _, j := range [2]int{prev, next} {
			f := idx[j]
			if vb.OrthoZ[f] < near {
				continue
			}
			slope := (vb.OrthoZ[f] - near) * math3d.Reciprocal16(vb.OrthoZ[f]-vb.OrthoZ[v])
			x := lerpNear(slope, vb.OrthoX[f], vb.OrthoX[v])
			y := lerpNear(slope, vb.OrthoY[f], vb.OrthoY[v])
			poly.push(
				ProjectDivide(x, near, fov),
				ProjectDivide(y, near, fov),
				lerpNear(slope, colors[j], colors[i]),
			)
		}
	}
	return poly.N >= 3
}

// lerpNear moves from the front value toward the back value by a Q16 slope.
func lerpNear(slope, front, back int32) int32 {
	return front + int32((int64(back-front)*int64(slope))>>16)
}

package render

import (
	"fmt"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
)

// CullResult is the outcome of visibility testing for one model.
type CullResult uint8

const (
	CullVisible CullResult = iota
	CullFast               // rejected by the bounding cylinder
	CullAABB               // rejected by the projected screen box
	CullError              // the model cannot be drawn
)

func (c CullResult) String() string {
	switch c {
	case CullVisible:
		return "visible"
	case CullFast:
		return "fast"
	case CullAABB:
		return "aabb"
	case CullError:
		return "error"
	}
	return fmt.Sprintf("CullResult(%d)", uint8(c))
}

// AABB is a screen-space box in framebuffer pixels.
type AABB struct {
	MinX, MinY int32
	MaxX, MaxY int32
}

// Contains reports whether (x, y) lies inside the box, edges included.
func (b AABB) Contains(x, y int32) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Visible reports whether any part of the box overlaps the viewport.
func (b AABB) Visible(vp ViewPort) bool {
	return b.MinX < vp.Width && b.MinY < vp.Height && b.MaxX >= 0 && b.MaxY >= 0
}

// FastCull tests the bounding cylinder against the view. It returns the
// camera-space model origin along with whether the model is culled.
func FastCull(b models.Bounds, p *ProjectionParams, vp ViewPort) (mid ProjectedVertex, culled bool) {
	mid = ProjectOrthographic(0, 0, 0, p.Yaw, p.SceneX, p.SceneY, p.SceneZ, p.Pitch, p.CameraYaw)
	r := b.Radius

	if mid.Z+r < p.Near || mid.Z > FarCullZ {
		return mid, true
	}

	midZ := max(mid.Z, p.Near)

	xMin := ProjectDivide(mid.X-r, midZ+r, p.FOV)
	xMax := ProjectDivide(mid.X+r, midZ+r, p.FOV)
	halfW := vp.Width >> 1
	if xMin > halfW || xMax < -halfW {
		return mid, true
	}

	t := math3d.Trig()
	pitch := p.Pitch & math3d.AngleMask
	bottom := (b.CenterToBottom*t.Cos[pitch])>>16 + (r*t.Sin[pitch])>>16

	yMin := ProjectDivide(mid.Y-math3d.Abs(bottom), midZ, p.FOV)
	yMax := ProjectDivide(mid.Y+math3d.Abs(b.CenterToTop), midZ, p.FOV)
	halfH := vp.Height >> 1
	if yMin > halfH || yMax < -halfH {
		return mid, true
	}
	return mid, false
}

// boxCorners are the sign patterns of the eight cylinder box corners.
var boxCorners = [8][3]int32{
	{1, 0, 1}, {1, 0, -1}, {1, 1, 1}, {1, 1, -1},
	{-1, 0, 1}, {-1, 0, -1}, {-1, 1, 1}, {-1, 1, -1},
}

// ComputeAABB projects the eight corners of the bounding box (±radius,
// MinY/MaxY, ±radius) with the model yaw and returns their screen extent.
// Corners behind the near plane project to ClippedX, which widens the box.
func ComputeAABB(b models.Bounds, p *ProjectionParams, vp ViewPort) AABB {
	corner := *p
	corner.MidZ = 0
	c := cot15(p.FOV)

	var vb VertexBuffer
	var ox, oy, oz, sx, sy, sz [8]int32
	vb.OrthoX, vb.OrthoY, vb.OrthoZ = ox[:], oy[:], oz[:]
	vb.ScreenX, vb.ScreenY, vb.ScreenZ = sx[:], sy[:], sz[:]

	for i, k := range boxCorners {
		y := b.MinY
		if k[1] == 1 {
			y = b.MaxY
		}
		projectInto(&vb, i, models.Vertex{X: k[0] * b.Radius, Y: y, Z: k[2] * b.Radius}, &corner, c)
	}

	box := AABB{MinX: sx[0], MinY: sy[0], MaxX: sx[0], MaxY: sy[0]}
	for i := 1; i < 8; i++ {
		box.MinX = min(box.MinX, sx[i])
		box.MaxX = max(box.MaxX, sx[i])
		box.MinY = min(box.MinY, sy[i])
		box.MaxY = max(box.MaxY, sy[i])
	}
	box.MinX += vp.Width >> 1
	box.MaxX += vp.Width >> 1
	box.MinY += vp.Height >> 1
	box.MaxY += vp.Height >> 1
	return box
}

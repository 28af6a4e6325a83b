package render

import (
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
)

const (
	// ClippedX marks a vertex behind the near plane in VertexBuffer.ScreenX.
	// A divided result that happens to equal it is nudged to ClippedX-1.
	ClippedX = -5000

	// FarCullZ is the camera-space depth beyond which a model is culled.
	FarCullZ = 3500
)

// ProjectedVertex is a single camera-space point.
type ProjectedVertex struct {
	X, Y, Z int32
}

// ProjectOrthographic moves a model-local point into camera space: rotate by
// the model yaw, translate by the scene offset, then rotate by camera yaw and
// camera pitch. Every rotation is a Q16 table multiply followed by >> 16.
func ProjectOrthographic(x, y, z, yaw, sceneX, sceneY, sceneZ, pitch, cameraYaw int32) ProjectedVertex {
	t := math3d.Trig()
	cosPitch := t.Cos[pitch&math3d.AngleMask]
	sinPitch := t.Sin[pitch&math3d.AngleMask]
	cosYaw := t.Cos[cameraYaw&math3d.AngleMask]
	sinYaw := t.Sin[cameraYaw&math3d.AngleMask]

	xr, zr := x, z
	if yaw != 0 {
		s := t.Sin[yaw&math3d.AngleMask]
		c := t.Cos[yaw&math3d.AngleMask]
		xr = (x*c + z*s) >> 16
		zr = (z*c - x*s) >> 16
	}

	xr += sceneX
	yr := y + sceneY
	zr += sceneZ

	xs := (xr*cosYaw + zr*sinYaw) >> 16
	zs := (zr*cosYaw - xr*sinYaw) >> 16

	ys := (yr*cosPitch - zs*sinPitch) >> 16
	zf := (yr*sinPitch + zs*cosPitch) >> 16

	return ProjectedVertex{X: xs, Y: ys, Z: zf}
}

// cot15 is cot(fov/2) in Q15.
func cot15(fov int32) int32 {
	return math3d.CotHalfFOV(fov) >> 1
}

// ProjectDivide scales a camera-space coordinate by the field of view and
// divides by depth.
func ProjectDivide(p, z, fov int32) int32 {
	p *= cot15(fov)
	p >>= 15
	return (p << math3d.UnitShift) / z
}

// ProjectScaleUnit applies the field-of-view scale without dividing. It uses
// a coarser cotangent so the result keeps six integer bits of headroom.
func ProjectScaleUnit(p, fov int32) int32 {
	p *= math3d.CotHalfFOV(fov) >> 6
	p >>= 10
	return p << math3d.UnitShift
}

// ProjectPerspective divides a camera-space point onto the screen. ok is
// false when z is in front of the near plane; x and y are then the scaled,
// undivided values.
func ProjectPerspective(x, y, z, fov, near int32) (sx, sy int32, ok bool) {
	c := cot15(fov)
	sx = ((x * c) >> 15) << math3d.UnitShift
	sy = ((y * c) >> 15) << math3d.UnitShift
	if z < near {
		return sx, sy, false
	}
	return sx / z, sy / z, true
}

// ProjectionParams gathers everything a BatchProjector needs for one model.
type ProjectionParams struct {
	Yaw                    int32 // Model yaw
	MidZ                   int32 // Camera-space z of the model origin
	SceneX, SceneY, SceneZ int32
	Near                   int32
	FOV                    int32
	Pitch                  int32
	CameraYaw              int32
}

// NewProjectionParams derives parameters from a camera and placement. Near
// is raised to at least 1 so the perspective divide never sees zero.
func NewProjectionParams(cam *Camera, pos Position, midZ int32) ProjectionParams {
	sx, sy, sz := cam.SceneOffset(pos)
	return ProjectionParams{
		Yaw:       pos.Yaw & math3d.AngleMask,
		MidZ:      midZ,
		SceneX:    sx,
		SceneY:    sy,
		SceneZ:    sz,
		Near:      max(cam.Near, 1),
		FOV:       cam.FOV,
		Pitch:     cam.Pitch & math3d.AngleMask,
		CameraYaw: cam.Yaw & math3d.AngleMask,
	}
}

// VertexBuffer holds the projected form of a model's vertices, one entry
// per model vertex. ScreenX/ScreenY are relative to the viewport center.
type VertexBuffer struct {
	OrthoX, OrthoY, OrthoZ    []int32
	ScreenX, ScreenY, ScreenZ []int32
}

// NewVertexBuffer allocates a buffer able to hold capacity vertices.
func NewVertexBuffer(capacity int) *VertexBuffer {
	return &VertexBuffer{
		OrthoX:  make([]int32, 0, capacity),
		OrthoY:  make([]int32, 0, capacity),
		OrthoZ:  make([]int32, 0, capacity),
		ScreenX: make([]int32, 0, capacity),
		ScreenY: make([]int32, 0, capacity),
		ScreenZ: make([]int32, 0, capacity),
	}
}

// Len returns the number of projected vertices.
func (vb *VertexBuffer) Len() int {
	return len(vb.ScreenX)
}

// Cap returns the vertex capacity.
func (vb *VertexBuffer) Cap() int {
	return cap(vb.ScreenX)
}

// Reset sizes the buffer for n vertices. It fails rather than grow past the
// capacity it was created with.
func (vb *VertexBuffer) Reset(n int) error {
	if n > vb.Cap() {
		return ErrCapacityExceeded
	}
	vb.OrthoX = vb.OrthoX[:n]
	vb.OrthoY = vb.OrthoY[:n]
	vb.OrthoZ = vb.OrthoZ[:n]
	vb.ScreenX = vb.ScreenX[:n]
	vb.ScreenY = vb.ScreenY[:n]
	vb.ScreenZ = vb.ScreenZ[:n]
	return nil
}

// Clipped reports whether vertex i lies behind the near plane.
func (vb *VertexBuffer) Clipped(i int32) bool {
	return vb.ScreenX[i] == ClippedX
}

// projectInto is the reference projection of one vertex into slot i.
func projectInto(vb *VertexBuffer, i int, v models.Vertex, p *ProjectionParams, c int32) {
	o := ProjectOrthographic(v.X, v.Y, v.Z, p.Yaw, p.SceneX, p.SceneY, p.SceneZ, p.Pitch, p.CameraYaw)
	vb.OrthoX[i] = o.X
	vb.OrthoY[i] = o.Y
	vb.OrthoZ[i] = o.Z

	sx := ((o.X * c) >> 15) << math3d.UnitShift
	sy := ((o.Y * c) >> 15) << math3d.UnitShift
	vb.ScreenZ[i] = o.Z - p.MidZ

	if o.Z < p.Near {
		vb.ScreenX[i] = ClippedX
		vb.ScreenY[i] = sy
		return
	}
	sx /= o.Z
	if sx == ClippedX {
		sx = ClippedX - 1
	}
	vb.ScreenX[i] = sx
	vb.ScreenY[i] = sy / o.Z
}

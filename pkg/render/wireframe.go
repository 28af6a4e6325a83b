package render

import "github.com/taigrr/scanline/pkg/models"

// Wireframe draws debugging overlays: model edges, screen boxes and world
// space guides.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera: camera,
		fb:     fb,
	}
}

// WorldToScreen projects a world point to framebuffer pixels. ok is false
// when the point is behind the near plane.
func (w *Wireframe) WorldToScreen(p models.Vertex) (x, y int32, ok bool) {
	c := w.camera
	o := ProjectOrthographic(p.X-c.X, p.Y-c.Y, p.Z-c.Z, 0, 0, 0, 0, c.Pitch, c.Yaw)
	x, y, ok = ProjectPerspective(o.X, o.Y, o.Z, c.FOV, max(c.Near, 1))
	return x + int32(w.fb.Width)>>1, y + int32(w.fb.Height)>>1, ok
}

// DrawLine3D draws a line between two world points.
func (w *Wireframe) DrawLine3D(p1, p2 models.Vertex, color uint32) {
	x1, y1, vis1 := w.WorldToScreen(p1)
	x2, y2, vis2 := w.WorldToScreen(p2)

	// Simple clipping: only draw if both points are in front of the camera
	if !vis1 || !vis2 {
		return
	}
	w.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), color)
}

// DrawModel outlines every face of the rasterizer's last projected model in
// draw order. Faces touching the near plane are skipped.
func (w *Wireframe) DrawModel(r *Rasterizer, color uint32) {
	m := r.model
	if m == nil {
		return
	}
	vb := r.vb
	cx, cy := w.fb.Width>>1, w.fb.Height>>1
	pt := func(i int32) (int, int) {
		return int(vb.ScreenX[i]) + cx, int(vb.ScreenY[i]) + cy
	}
	for _, fi := range r.Order() {
		f := &m.Faces[fi]
		if f.Kind == models.FaceHidden || vb.Clipped(f.A) || vb.Clipped(f.B) || vb.Clipped(f.C) {
			continue
		}
		xa, ya := pt(f.A)
		xb, yb := pt(f.B)
		xc, yc := pt(f.C)
		w.fb.DrawLine(xa, ya, xb, yb, color)
		w.fb.DrawLine(xb, yb, xc, yc, color)
		w.fb.DrawLine(xc, yc, xa, ya, color)
	}
}

// DrawAABB outlines a screen box.
func (w *Wireframe) DrawAABB(box AABB, color uint32) {
	w.fb.DrawRectOutline(
		int(box.MinX), int(box.MinY),
		int(box.MaxX-box.MinX+1), int(box.MaxY-box.MinY+1),
		color,
	)
}

// DrawAxes draws the world axes at pos.
func (w *Wireframe) DrawAxes(pos Position, length int32) {
	origin := models.Vertex{X: pos.X, Y: pos.Y, Z: pos.Z}
	w.DrawLine3D(origin, models.Vertex{X: pos.X + length, Y: pos.Y, Z: pos.Z}, ColorRed)   // X axis
	w.DrawLine3D(origin, models.Vertex{X: pos.X, Y: pos.Y + length, Z: pos.Z}, ColorGreen) // Y axis
	w.DrawLine3D(origin, models.Vertex{X: pos.X, Y: pos.Y, Z: pos.Z + length}, ColorBlue)  // Z axis
}

// DrawGrid draws a grid on the XZ plane at height y around (cx, cz).
func (w *Wireframe) DrawGrid(cx, y, cz, size, step int32, color uint32) {
	if step <= 0 {
		return
	}
	half := size / 2
	for x := -half; x <= half; x += step {
		w.DrawLine3D(models.Vertex{X: cx + x, Y: y, Z: cz - half}, models.Vertex{X: cx + x, Y: y, Z: cz + half}, color)
	}
	for z := -half; z <= half; z += step {
		w.DrawLine3D(models.Vertex{X: cx - half, Y: y, Z: cz + z}, models.Vertex{X: cx + half, Y: y, Z: cz + z}, color)
	}
}

// DrawCross marks a framebuffer pixel with a small cross.
func (w *Wireframe) DrawCross(x, y, size int, color uint32) {
	half := size / 2
	w.fb.DrawLine(x-half, y, x+half, y, color)
	w.fb.DrawLine(x, y-half, x, y+half, color)
}

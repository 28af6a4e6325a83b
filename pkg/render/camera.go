package render

import (
	"github.com/taigrr/scanline/pkg/math3d"
)

// Default camera parameters.
const (
	DefaultFOV  = 512 // 90 degrees in angle units
	DefaultNear = 50
)

// Camera is the eye position and orientation for one draw call. Angles are
// in units of 2π/2048.
type Camera struct {
	// Eye position in world space
	X, Y, Z int32

	Pitch int32 // Rotation around X (looking down is positive)
	Yaw   int32 // Rotation around Y
	FOV   int32 // Full field of view

	// Near is the camera-space z below which a vertex is clipped.
	Near int32
}

// NewCamera creates a camera at the origin with default settings.
func NewCamera() *Camera {
	return &Camera{
		FOV:  DefaultFOV,
		Near: DefaultNear,
	}
}

// SetPosition sets the eye position.
func (c *Camera) SetPosition(x, y, z int32) {
	c.X, c.Y, c.Z = x, y, z
}

// SetRotation sets pitch and yaw, wrapping both into [0, 2048).
func (c *Camera) SetRotation(pitch, yaw int32) {
	c.Pitch = math3d.WrapAngle(pitch)
	c.Yaw = math3d.WrapAngle(yaw)
}

// SetFOV sets the field of view. Values are clamped to (0, 1024) so that
// the half-angle cotangent stays finite.
func (c *Camera) SetFOV(fov int32) {
	c.FOV = math3d.Clamp(fov, 2, 1022)
}

// SceneOffset returns the instance position relative to the eye.
func (c *Camera) SceneOffset(p Position) (x, y, z int32) {
	return p.X - c.X, p.Y - c.Y, p.Z - c.Z
}

// Focus returns the world position that lands distance units straight ahead
// of the eye, at screen center.
func (c *Camera) Focus(distance int32) Position {
	t := math3d.Trig()
	pitch := c.Pitch & math3d.AngleMask
	yaw := c.Yaw & math3d.AngleMask

	// Undo pitch then yaw.
	zs := (distance * t.Cos[pitch]) >> 16
	y := (distance * t.Sin[pitch]) >> 16
	x := -(zs * t.Sin[yaw]) >> 16
	z := (zs * t.Cos[yaw]) >> 16

	return Position{X: c.X + x, Y: c.Y + y, Z: c.Z + z}
}

// Position places one model instance in the world.
type Position struct {
	X, Y, Z int32
	Yaw     int32
}

// ViewPort describes the projection target. Screen coordinates produced by
// projection are relative to (CenterX, CenterY).
type ViewPort struct {
	Width, Height int32
	Stride        int32
	CenterX       int32
	CenterY       int32
}

// NewViewPort creates a viewport centered on a width×height buffer.
func NewViewPort(width, height int) ViewPort {
	return ViewPort{
		Width:   int32(width),
		Height:  int32(height),
		Stride:  int32(width),
		CenterX: int32(width / 2),
		CenterY: int32(height / 2),
	}
}

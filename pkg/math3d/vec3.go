package math3d

// Vec3 is an integer 3D vector in model or camera units.
type Vec3 struct {
	X, Y, Z int32
}

// V3 creates a new Vec3.
func V3(x, y, z int32) Vec3 {
	return Vec3{x, y, z}
}

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Dot returns the dot product a · b. Products wrap like 32-bit C ints.
func (a Vec3) Dot(b Vec3) int32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// LenSq returns the squared length, widened to avoid overflow.
func (a Vec3) LenSq() int64 {
	x, y, z := int64(a.X), int64(a.Y), int64(a.Z)
	return x*x + y*y + z*z
}

// Len returns the truncated length.
func (a Vec3) Len() int32 {
	return ISqrt(a.LenSq())
}

// Halve shifts every component right by one.
func (a Vec3) Halve() Vec3 {
	return Vec3{a.X >> 1, a.Y >> 1, a.Z >> 1}
}

// RotateY rotates the vector about the Y axis by a table angle.
func (a Vec3) RotateY(angle int32) Vec3 {
	if angle == 0 {
		return a
	}
	s, c := Sin(angle), Cos(angle)
	return Vec3{
		(a.X*c + a.Z*s) >> 16,
		a.Y,
		(a.Z*c - a.X*s) >> 16,
	}
}

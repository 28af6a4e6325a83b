package models

import "github.com/taigrr/scanline/pkg/math3d"

// Lighting parameters for the per-model lighting pass.
type Lighting struct {
	Ambient  int32
	Contrast int32 // attenuation before scaling by the light vector length
	X, Y, Z  int32 // light source direction
}

// DefaultLighting returns the client's standard light.
func DefaultLighting() Lighting {
	return Lighting{
		Ambient:  64,
		Contrast: 768,
		X:        -50,
		Y:        -10,
		Z:        -50,
	}
}

// ForModel folds a model's own ambient and contrast adjustments into l.
func (l Lighting) ForModel(ambient, contrast int32) Lighting {
	l.Ambient += ambient
	l.Contrast += (contrast & 0xff) * 5
	return l
}

// Normal is an accumulated vertex or face normal scaled to 256.
type Normal struct {
	X, Y, Z   int32
	FaceCount int32
}

// FaceNormal returns the cross product AB × AC, halved until every
// component fits in ±8192.
func FaceNormal(a, b, c Vertex) math3d.Vec3 {
	ab := math3d.V3(b.X-a.X, b.Y-a.Y, b.Z-a.Z)
	ac := math3d.V3(c.X-a.X, c.Y-a.Y, c.Z-a.Z)
	n := ab.Cross(ac)
	for n.X > 8192 || n.Y > 8192 || n.Z > 8192 ||
		n.X < -8192 || n.Y < -8192 || n.Z < -8192 {
		n = n.Halve()
	}
	return n
}

// CalculateNormals returns per-vertex and per-face normals. Vertex normals
// are the sum of the unit-256 normals of every face touching the vertex.
func (m *Model) CalculateNormals() (vertexNormals, faceNormals []Normal) {
	vertexNormals = make([]Normal, len(m.Vertices))
	faceNormals = make([]Normal, len(m.Faces))

	for i, f := range m.Faces {
		n := FaceNormal(m.Vertices[f.A], m.Vertices[f.B], m.Vertices[f.C])
		mag := math3d.ISqrt(int64(n.X*n.X + n.Y*n.Y + n.Z*n.Z))
		if mag <= 0 {
			mag = 1
		}
		n = math3d.V3((n.X<<8)/mag, (n.Y<<8)/mag, (n.Z<<8)/mag)

		for _, v := range [3]int32{f.A, f.B, f.C} {
			vn := &vertexNormals[v]
			vn.X += n.X
			vn.Y += n.Y
			vn.Z += n.Z
			vn.FaceCount++
		}
		faceNormals[i] = Normal{n.X, n.Y, n.Z, 1}
	}
	return vertexNormals, faceNormals
}

// shadeHSL scales the 7-bit lightness of an HSL16 color.
func shadeHSL(hsl, lightness int32) int32 {
	s := lightness * (hsl & 0x7f) >> 7
	return (hsl & 0xff80) + math3d.Clamp(s, 2, 126)
}

func (l Lighting) lightness(n Normal, divisor int32) int32 {
	return l.Ambient + (l.X*n.X+l.Y*n.Y+l.Z*n.Z)/divisor
}

// ApplyLighting computes ColorA/B/C for every face from its base Color and
// the model normals, then resolves face kinds.
//
// Face type comes from Info&3, overridden by Alpha -1 (type 2) and
// Alpha -2 (type 3). Type 0 is smooth shaded, 1 is flat shaded, 2 and 3 are
// hidden.
func (m *Model) ApplyLighting(l Lighting) {
	vertexNormals, faceNormals := m.CalculateNormals()

	lightLen := math3d.ISqrt(int64(l.X)*int64(l.X) + int64(l.Y)*int64(l.Y) + int64(l.Z)*int64(l.Z))
	atten := (l.Contrast * lightLen) >> 8
	if atten == 0 {
		atten = 1
	}

	for i := range m.Faces {
		f := &m.Faces[i]

		kind := f.Info & 3
		switch f.Alpha {
		case -2:
			kind = 3
		case -1:
			kind = 2
		}

		textured := f.Texture != NoTexture
		shade := func(light int32) int32 {
			if textured {
				return math3d.Clamp(light, 2, 126)
			}
			return shadeHSL(f.Color, light)
		}

		switch kind {
		case 0:
			for j, v := range [3]int32{f.A, f.B, f.C} {
				n := vertexNormals[v]
				c := shade(l.lightness(n, atten*n.FaceCount))
				switch j {
				case 0:
					f.ColorA = c
				case 1:
					f.ColorB = c
				case 2:
					f.ColorC = c
				}
			}
		case 1:
			f.ColorA = shade(l.lightness(faceNormals[i], atten+(atten>>1)))
			f.ColorC = ColorFlat
		case 2:
			f.ColorC = ColorHidden
		case 3:
			if !textured {
				f.ColorA = 128
			}
			f.ColorC = ColorHidden
		}
	}
	m.Resolve()
}

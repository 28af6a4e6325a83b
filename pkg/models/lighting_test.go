package models

import "testing"

func TestFaceNormalFitsRange(t *testing.T) {
	n := FaceNormal(Vertex{0, 0, 0}, Vertex{4000, 0, 0}, Vertex{0, 4000, 0})
	for _, c := range []int32{n.X, n.Y, n.Z} {
		if c > 8192 || c < -8192 {
			t.Fatalf("component %d out of range in %v", c, n)
		}
	}
	if n.Z <= 0 {
		t.Errorf("normal %v should point along +Z", n)
	}
}

func TestCalculateNormalsUnitLength(t *testing.T) {
	m := NewCube(100, HSL16(0, 0, 64))
	vertexNormals, faceNormals := m.CalculateNormals()

	for i, n := range faceNormals {
		lenSq := n.X*n.X + n.Y*n.Y + n.Z*n.Z
		// 256² with truncation slack
		if lenSq < 250*250 || lenSq > 256*256 {
			t.Errorf("face %d normal %+v has length² %d", i, n, lenSq)
		}
	}
	for i, n := range vertexNormals {
		// every cube corner touches between three and six triangles
		if n.FaceCount < 3 || n.FaceCount > 6 {
			t.Errorf("vertex %d face count %d", i, n.FaceCount)
		}
	}
}

func TestApplyLightingFaceTypes(t *testing.T) {
	base := HSL16(20, 5, 100)

	tests := []struct {
		name    string
		info    int32
		alpha   int32
		texture int32
		check   func(t *testing.T, f Face)
	}{
		{"smooth", 0, 0, NoTexture, func(t *testing.T, f Face) {
			if f.Kind != FaceGouraud {
				t.Errorf("kind = %v", f.Kind)
			}
			for _, c := range []int32{f.ColorA, f.ColorB, f.ColorC} {
				if c&^0x7f != base&^0x7f {
					t.Errorf("hue/sat changed: %#x", c)
				}
				if l := c & 0x7f; l < 2 || l > 126 {
					t.Errorf("lightness %d out of range", l)
				}
			}
		}},
		{"flat", 1, 0, NoTexture, func(t *testing.T, f Face) {
			if f.Kind != FaceFlat || f.ColorC != ColorFlat {
				t.Errorf("kind = %v colorC = %d", f.Kind, f.ColorC)
			}
		}},
		{"hidden info", 2, 0, NoTexture, func(t *testing.T, f Face) {
			if f.Kind != FaceHidden {
				t.Errorf("kind = %v", f.Kind)
			}
		}},
		{"alpha -2", 0, -2, NoTexture, func(t *testing.T, f Face) {
			if f.Kind != FaceHidden || f.ColorA != 128 {
				t.Errorf("kind = %v colorA = %d", f.Kind, f.ColorA)
			}
		}},
		{"alpha -1", 0, -1, NoTexture, func(t *testing.T, f Face) {
			if f.Kind != FaceHidden {
				t.Errorf("kind = %v", f.Kind)
			}
		}},
		{"textured smooth", 0, 0, 3, func(t *testing.T, f Face) {
			if f.Kind != FaceTextured {
				t.Errorf("kind = %v", f.Kind)
			}
			for _, c := range []int32{f.ColorA, f.ColorB, f.ColorC} {
				if c < 2 || c > 126 {
					t.Errorf("shade %d out of range", c)
				}
			}
		}},
		{"textured flat", 1, 0, 3, func(t *testing.T, f Face) {
			if f.Kind != FaceTexturedFlat {
				t.Errorf("kind = %v", f.Kind)
			}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewCube(100, base)
			for i := range m.Faces {
				m.Faces[i].Info = tc.info
				m.Faces[i].Alpha = tc.alpha
				m.Faces[i].Texture = tc.texture
			}
			m.ApplyLighting(DefaultLighting())
			for _, f := range m.Faces {
				tc.check(t, f)
			}
		})
	}
}

func TestLightingBrightensLitSide(t *testing.T) {
	m := NewCube(100, HSL16(0, 0, 100))
	m.ApplyLighting(DefaultLighting())

	// The light points along (-50, -10, -50): faces whose outward normal is
	// -X or -Z receive more light than +X or +Z faces.
	var lit, dark int32
	for _, f := range m.Faces {
		n := FaceNormal(m.Vertices[f.A], m.Vertices[f.B], m.Vertices[f.C])
		switch {
		case n.X < 0 && n.Y == 0 && n.Z == 0:
			lit = max(lit, f.ColorA&0x7f)
		case n.X > 0 && n.Y == 0 && n.Z == 0:
			dark = max(dark, f.ColorA&0x7f)
		}
	}
	if lit <= dark {
		t.Errorf("lit side %d should be brighter than dark side %d", lit, dark)
	}
}

func TestLightingForModel(t *testing.T) {
	l := DefaultLighting().ForModel(10, 0x102)
	if l.Ambient != 74 {
		t.Errorf("ambient = %d, want 74", l.Ambient)
	}
	if l.Contrast != 768+2*5 {
		t.Errorf("contrast = %d, want 778", l.Contrast)
	}
}

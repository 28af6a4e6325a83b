package models

import "testing"

func TestNewBox(t *testing.T) {
	m := NewBox(100, 50, 80, HSL16(5, 5, 60))

	if m.VertexCount() != 8 {
		t.Errorf("vertices = %d, want 8", m.VertexCount())
	}
	if m.FaceCount() != 12 {
		t.Errorf("faces = %d, want 12", m.FaceCount())
	}
	if len(m.TexCoords) != 6 {
		t.Errorf("texcoords = %d, want 6", len(m.TexCoords))
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	for i, f := range m.Faces {
		a, b, c := m.Vertices[f.A], m.Vertices[f.B], m.Vertices[f.C]
		n := FaceNormal(a, b, c)
		cx, cy, cz := a.X+b.X+c.X, a.Y+b.Y+c.Y, a.Z+b.Z+c.Z
		if int64(n.X)*int64(cx)+int64(n.Y)*int64(cy)+int64(n.Z)*int64(cz) <= 0 {
			t.Errorf("face %d is wound inward", i)
		}
		if f.Kind != FaceGouraud {
			t.Errorf("face %d kind = %v", i, f.Kind)
		}
	}
}

func TestSetTexture(t *testing.T) {
	m := NewCube(64, HSL16(5, 5, 60))
	m.SetTexture(7)
	for i, f := range m.Faces {
		if f.Texture != 7 || f.Kind != FaceTextured {
			t.Errorf("face %d: texture %d kind %v", i, f.Texture, f.Kind)
		}
		if f.ColorA > 127 || f.ColorB > 127 || f.ColorC > 127 {
			t.Errorf("face %d shade out of range", i)
		}
	}
}

func TestSetPriorities(t *testing.T) {
	m := NewCube(64, HSL16(5, 5, 60))
	m.SetPriorities([]int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11})
	if !m.HasPriorities {
		t.Fatal("HasPriorities not set")
	}
	for i, f := range m.Faces {
		if f.Priority != int32(i) {
			t.Errorf("face %d priority %d", i, f.Priority)
		}
	}
}

package models

// NewBox returns an axis-aligned box centered on the origin. Every face is
// wound so that it is front-facing when its outward side faces the camera,
// and carries the unlit color hsl. Lighting is not applied.
func NewBox(halfX, halfY, halfZ, hsl int32) *Model {
	m := NewModel("box")
	for _, c := range [8][3]int32{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	} {
		m.AddVertex(c[0]*halfX, c[1]*halfY, c[2]*halfZ)
	}

	// Corners listed top-left, top-right, bottom-right, bottom-left as seen
	// from outside.
	quads := [6][4]int32{
		{0, 1, 2, 3}, // -Z
		{5, 4, 7, 6}, // +Z
		{4, 0, 3, 7}, // -X
		{1, 5, 6, 2}, // +X
		{4, 5, 1, 0}, // -Y
		{3, 2, 6, 7}, // +Y
	}
	for _, q := range quads {
		m.addQuad(q, hsl)
	}

	m.CalculateBounds()
	m.Resolve()
	return m
}

// NewCube returns a cube with the given half extent.
func NewCube(half, hsl int32) *Model {
	return NewBox(half, half, half, hsl)
}

func (m *Model) addQuad(q [4]int32, hsl int32) {
	tc := int32(len(m.TexCoords))
	m.TexCoords = append(m.TexCoords, TexCoord{P: q[0], M: q[1], N: q[3]})

	for _, tri := range [2][3]int32{{q[0], q[3], q[2]}, {q[0], q[2], q[1]}} {
		a, b, c := m.orientOutward(tri[0], tri[1], tri[2])
		f := m.AddFace(a, b, c, hsl)
		f.TexCoord = tc
	}
}

// orientOutward orders a triangle of a convex origin-centered solid so that
// AB × AC points away from the origin.
func (m *Model) orientOutward(a, b, c int32) (int32, int32, int32) {
	va, vb, vc := m.Vertices[a], m.Vertices[b], m.Vertices[c]
	n := FaceNormal(va, vb, vc)
	cx := int64(va.X) + int64(vb.X) + int64(vc.X)
	cy := int64(va.Y) + int64(vb.Y) + int64(vc.Y)
	cz := int64(va.Z) + int64(vb.Z) + int64(vc.Z)
	if int64(n.X)*cx+int64(n.Y)*cy+int64(n.Z)*cz < 0 {
		return a, c, b
	}
	return a, b, c
}

// SetTexture textures every face with id at full brightness. Faces keep
// their UV basis; ApplyLighting afterwards replaces the shade.
func (m *Model) SetTexture(id int32) {
	for i := range m.Faces {
		f := &m.Faces[i]
		f.Texture = id
		f.ColorA, f.ColorB = 127, 127
		if f.ColorC != ColorFlat && f.ColorC != ColorHidden {
			f.ColorC = 127
		}
	}
	m.Resolve()
}

// SetPriorities assigns one priority per face and enables priority ordering.
func (m *Model) SetPriorities(priorities []int32) {
	for i := range m.Faces {
		if i < len(priorities) {
			m.Faces[i].Priority = priorities[i]
		}
	}
	m.HasPriorities = true
}

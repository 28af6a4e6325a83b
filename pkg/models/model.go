// Package models provides the fixed-point model format consumed by the scanline renderer.
package models

import (
	"errors"
	"fmt"
)

// Capacity limits shared with the renderer's per-frame buffers.
const (
	MaxVertices = 4096
	MaxFaces    = 4096
	MaxPriority = 11
)

// Shading sentinels stored in Face.ColorC.
const (
	ColorFlat   = -1 // ColorA holds the single face color
	ColorHidden = -2 // never rasterized
)

// NoTexture marks an untextured face, and NoTexCoord a textured face whose UV
// basis is its own three vertices.
const (
	NoTexture  = -1
	NoTexCoord = -1
)

var (
	ErrCapacityExceeded = errors.New("model exceeds renderer capacity")
	ErrInvalidIndex     = errors.New("index out of range")
	ErrInvalidPriority  = errors.New("face priority out of range")
)

// FaceKind is the rasterizer path a face takes. It is resolved once per
// model by Resolve rather than re-derived every draw.
type FaceKind uint8

const (
	FaceGouraud      FaceKind = iota // three HSL16 vertex colors
	FaceFlat                         // one HSL16 color
	FaceTextured                     // texture with per-vertex shade
	FaceTexturedFlat                 // texture with one shade
	FaceHidden                       // skipped
)

func (k FaceKind) String() string {
	switch k {
	case FaceGouraud:
		return "gouraud"
	case FaceFlat:
		return "flat"
	case FaceTextured:
		return "textured"
	case FaceTexturedFlat:
		return "textured-flat"
	case FaceHidden:
		return "hidden"
	}
	return fmt.Sprintf("FaceKind(%d)", uint8(k))
}

// Vertex is a model-local position.
type Vertex struct {
	X, Y, Z int32
}

// Face is one triangle with its shading attributes.
type Face struct {
	A, B, C int32 // Indices into Model.Vertices

	// Shaded colors. HSL16 for untextured faces, lightness 0..127 for
	// textured faces. ColorC carries the ColorFlat/ColorHidden sentinels.
	ColorA, ColorB, ColorC int32

	Color    int32 // Unlit base HSL16, input to ApplyLighting
	Texture  int32 // Texture id or NoTexture
	TexCoord int32 // Index into Model.TexCoords or NoTexCoord
	Alpha    int32 // 0 is opaque; -1/-2 are lighting sentinels
	Priority int32 // 0..11, used when Model.HasPriorities is set
	Info     int32 // Packed face info, Info&3 is the face type

	Kind FaceKind
}

// TexCoord names the three vertices (P, M, N) spanning a texture's UV plane.
type TexCoord struct {
	P, M, N int32
}

// Model is an immutable renderable asset.
type Model struct {
	Name          string
	Vertices      []Vertex
	Faces         []Face
	TexCoords     []TexCoord
	HasPriorities bool

	Bounds Bounds
}

// NewModel creates an empty model.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// VertexCount returns the number of vertices.
func (m *Model) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of faces.
func (m *Model) FaceCount() int {
	return len(m.Faces)
}

// AddVertex appends a vertex and returns its index.
func (m *Model) AddVertex(x, y, z int32) int32 {
	m.Vertices = append(m.Vertices, Vertex{x, y, z})
	return int32(len(m.Vertices) - 1)
}

// AddFace appends an untextured face with an unlit base color.
func (m *Model) AddFace(a, b, c, hsl int32) *Face {
	m.Faces = append(m.Faces, Face{
		A: a, B: b, C: c,
		ColorA: hsl, ColorB: hsl, ColorC: hsl,
		Color:    hsl,
		Texture:  NoTexture,
		TexCoord: NoTexCoord,
	})
	return &m.Faces[len(m.Faces)-1]
}

// ResolveKind derives the rasterizer path for a face from its info bits,
// color sentinels and texture id.
func ResolveKind(f *Face) FaceKind {
	if f.Info&3 == 2 || f.ColorC == ColorHidden {
		return FaceHidden
	}
	if f.Texture != NoTexture {
		if f.ColorC == ColorFlat {
			return FaceTexturedFlat
		}
		return FaceTextured
	}
	if f.ColorC == ColorFlat {
		return FaceFlat
	}
	return FaceGouraud
}

// Resolve assigns Kind on every face. Call after any change to face colors,
// including ApplyLighting.
func (m *Model) Resolve() {
	for i := range m.Faces {
		m.Faces[i].Kind = ResolveKind(&m.Faces[i])
	}
}

// Validate checks index ranges and capacity limits.
func (m *Model) Validate() error {
	if len(m.Vertices) > MaxVertices {
		return fmt.Errorf("%d vertices: %w", len(m.Vertices), ErrCapacityExceeded)
	}
	if len(m.Faces) > MaxFaces {
		return fmt.Errorf("%d faces: %w", len(m.Faces), ErrCapacityExceeded)
	}
	nv := int32(len(m.Vertices))
	inRange := func(i int32) bool { return i >= 0 && i < nv }
	for i, f := range m.Faces {
		if !inRange(f.A) || !inRange(f.B) || !inRange(f.C) {
			return fmt.Errorf("face %d vertex: %w", i, ErrInvalidIndex)
		}
		if f.TexCoord != NoTexCoord && (f.TexCoord < 0 || int(f.TexCoord) >= len(m.TexCoords)) {
			return fmt.Errorf("face %d texcoord %d: %w", i, f.TexCoord, ErrInvalidIndex)
		}
		if m.HasPriorities && (f.Priority < 0 || f.Priority > MaxPriority) {
			return fmt.Errorf("face %d priority %d: %w", i, f.Priority, ErrInvalidPriority)
		}
	}
	for i, tc := range m.TexCoords {
		if !inRange(tc.P) || !inRange(tc.M) || !inRange(tc.N) {
			return fmt.Errorf("texcoord %d: %w", i, ErrInvalidIndex)
		}
	}
	return nil
}

// Clone creates a deep copy of the model.
func (m *Model) Clone() *Model {
	clone := &Model{
		Name:          m.Name,
		Vertices:      make([]Vertex, len(m.Vertices)),
		Faces:         make([]Face, len(m.Faces)),
		TexCoords:     make([]TexCoord, len(m.TexCoords)),
		HasPriorities: m.HasPriorities,
		Bounds:        m.Bounds,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.TexCoords, m.TexCoords)
	return clone
}

// Translate offsets every vertex. Bounds are recomputed.
func (m *Model) Translate(dx, dy, dz int32) {
	for i := range m.Vertices {
		m.Vertices[i].X += dx
		m.Vertices[i].Y += dy
		m.Vertices[i].Z += dz
	}
	m.Bounds = ComputeBounds(m.Vertices)
}

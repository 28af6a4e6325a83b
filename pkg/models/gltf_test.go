package models

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/qmuntal/gltf"
)

func TestLoadGLTFInvalidPath(t *testing.T) {
	_, err := LoadGLTF("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if loader.FitSize != DefaultFitSize {
		t.Errorf("FitSize = %d, want %d", loader.FitSize, DefaultFitSize)
	}
	if !loader.ApplyLighting {
		t.Error("ApplyLighting should default to true")
	}
}

// triangleDocument builds a single-triangle document with positions
// (0,0,0), (1,0,0), (0,1,0) and a red material.
func triangleDocument() *gltf.Document {
	data := make([]byte, 36)
	for i, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(f))
	}
	view, mat := 0, 0
	return &gltf.Document{
		Buffers:     []*gltf.Buffer{{ByteLength: 36, Data: data}},
		BufferViews: []*gltf.BufferView{{Buffer: 0, ByteLength: 36}},
		Accessors: []*gltf.Accessor{{
			BufferView:    &view,
			ComponentType: gltf.ComponentFloat,
			Count:         3,
			Type:          gltf.AccessorVec3,
		}},
		Materials: []*gltf.Material{{
			Name: "red",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{1, 0, 0, 1},
			},
		}},
		Meshes: []*gltf.Mesh{{
			Name: "tri",
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{gltf.POSITION: 0},
				Material:   &mat,
				Mode:       gltf.PrimitiveTriangles,
			}},
		}},
	}
}

func TestConvertTriangle(t *testing.T) {
	loader := NewGLTFLoader()
	loader.ApplyLighting = false

	imp, err := loader.Convert(triangleDocument(), "")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	m := imp.Model

	if m.FaceCount() != 1 || m.VertexCount() != 3 {
		t.Fatalf("got %d faces %d vertices, want 1 and 3", m.FaceCount(), m.VertexCount())
	}

	// Centered, scaled to 512 and flipped into Y-down.
	want := []Vertex{{-256, 256, 0}, {256, 256, 0}, {-256, -256, 0}}
	for i, v := range want {
		if m.Vertices[i] != v {
			t.Errorf("vertex %d = %+v, want %+v", i, m.Vertices[i], v)
		}
	}

	f := m.Faces[0]
	if f.Kind != FaceGouraud {
		t.Errorf("kind = %v, want gouraud", f.Kind)
	}
	if f.Color != RGBToHSL16(255, 0, 0) {
		t.Errorf("color = %#x, want material red %#x", f.Color, RGBToHSL16(255, 0, 0))
	}
	if m.Bounds.Radius == 0 {
		t.Error("bounds were not computed")
	}
}

func TestConvertWithLighting(t *testing.T) {
	imp, err := NewGLTFLoader().Convert(triangleDocument(), "")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	f := imp.Model.Faces[0]
	if f.ColorA&^0x7f != f.Color&^0x7f {
		t.Errorf("lighting changed hue/saturation: %#x vs %#x", f.ColorA, f.Color)
	}
}

func TestConvertEmpty(t *testing.T) {
	_, err := NewGLTFLoader().Convert(&gltf.Document{}, "")
	if !errors.Is(err, ErrNoGeometry) {
		t.Errorf("got %v, want ErrNoGeometry", err)
	}
}

func TestConvertBadAccessor(t *testing.T) {
	doc := triangleDocument()
	doc.Meshes[0].Primitives[0].Attributes = map[string]int{gltf.POSITION: 5}
	_, err := NewGLTFLoader().Convert(doc, "")
	if !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("got %v, want ErrInvalidIndex", err)
	}
}

func TestNodeTransformApplied(t *testing.T) {
	doc := triangleDocument()
	meshIdx := 0
	doc.Nodes = []*gltf.Node{{Mesh: &meshIdx, Scale: [3]float64{2, 2, 2}}}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}

	loader := NewGLTFLoader()
	loader.ApplyLighting = false
	loader.FitSize = 0

	imp, err := loader.Convert(doc, "")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	// Scaled by 2 then centered on (1, 1, 0).
	if got := imp.Model.Vertices[1]; got != (Vertex{1, 1, 0}) {
		t.Errorf("vertex 1 = %+v, want {1 1 0}", got)
	}
}

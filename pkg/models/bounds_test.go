package models

import "testing"

func TestComputeBounds(t *testing.T) {
	tests := []struct {
		name     string
		vertices []Vertex
		want     Bounds
	}{
		{
			name:     "empty",
			vertices: nil,
			want:     Bounds{},
		},
		{
			name:     "column",
			vertices: []Vertex{{3, -10, 4}, {0, 20, 0}},
			want: Bounds{
				Radius:         5,
				MinY:           -10,
				MaxY:           20,
				CenterToBottom: 11,
				CenterToTop:    21,
				MinDepth:       21, // sqrt(25+400)+1
			},
		},
		{
			name:     "floating above origin",
			vertices: []Vertex{{0, -50, 0}, {0, -40, 0}},
			want: Bounds{
				MinY:           -50,
				MaxY:           -40,
				CenterToBottom: 51,
				CenterToTop:    41,
				MinDepth:       51,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeBounds(tc.vertices); got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestCubeBounds(t *testing.T) {
	m := NewCube(256, HSL16(0, 0, 64))
	b := m.Bounds
	// sqrt(256² + 256²) = 362.03
	if b.Radius != 362 {
		t.Errorf("radius = %d, want 362", b.Radius)
	}
	// sqrt(2*256² + 256²) = 443.4
	if b.MinDepth != 444 {
		t.Errorf("min depth = %d, want 444", b.MinDepth)
	}
	if b.Height() != 512 {
		t.Errorf("height = %d, want 512", b.Height())
	}
}

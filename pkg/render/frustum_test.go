package render

import (
	"testing"

	"github.com/taigrr/scanline/pkg/models"
)

func TestAABBContains(t *testing.T) {
	box := AABB{MinX: 10, MinY: 20, MaxX: 30, MaxY: 40}
	tests := []struct {
		x, y int32
		want bool
	}{
		{10, 20, true},
		{30, 40, true},
		{20, 30, true},
		{9, 30, false},
		{31, 30, false},
		{20, 19, false},
		{20, 41, false},
	}
	for _, tc := range tests {
		if got := box.Contains(tc.x, tc.y); got != tc.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestAABBVisible(t *testing.T) {
	vp := NewViewPort(100, 80)
	tests := []struct {
		name string
		box  AABB
		want bool
	}{
		{"inside", AABB{10, 10, 20, 20}, true},
		{"covers", AABB{-500, -500, 500, 500}, true},
		{"touches left", AABB{-10, 10, 0, 20}, true},
		{"left", AABB{-10, 10, -1, 20}, false},
		{"right", AABB{100, 10, 120, 20}, false},
		{"above", AABB{10, -30, 20, -1}, false},
		{"below", AABB{10, 80, 20, 90}, false},
		{"last pixel", AABB{99, 79, 150, 150}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.box.Visible(vp); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFastCull(t *testing.T) {
	b := models.Bounds{Radius: 100}
	vp := NewViewPort(320, 240)
	cam := NewCamera()

	tests := []struct {
		name string
		pos  Position
		want bool
	}{
		{"ahead", Position{Z: 1000}, false},
		{"behind near plane", Position{Z: -60}, true},
		{"straddles near plane", Position{Z: -40}, false},
		{"at far limit", Position{Z: FarCullZ}, false},
		{"past far limit", Position{Z: FarCullZ + 1}, true},
		{"right of view", Position{X: 3000, Z: 1000}, true},
		{"left of view", Position{X: -3000, Z: 1000}, true},
		{"above view", Position{Y: -3000, Z: 1000}, true},
		{"below view", Position{Y: 3000, Z: 1000}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProjectionParams(cam, tc.pos, 0)
			mid, culled := FastCull(b, &p, vp)
			if culled != tc.want {
				t.Errorf("culled = %v, want %v (mid %+v)", culled, tc.want, mid)
			}
		})
	}
}

func TestFastCullReturnsOrigin(t *testing.T) {
	cam := NewCamera()
	cam.SetPosition(100, 0, -200)
	p := NewProjectionParams(cam, Position{X: 100, Z: 800}, 0)
	mid, _ := FastCull(models.Bounds{Radius: 10}, &p, NewViewPort(64, 64))
	if mid.X != 0 || mid.Y != 0 || mid.Z != 1000 {
		t.Errorf("mid = %+v, want (0, 0, 1000)", mid)
	}
}

func TestComputeAABBCentered(t *testing.T) {
	cube := models.NewCube(256, cubeColor)
	vp := NewViewPort(320, 240)
	p := NewProjectionParams(NewCamera(), Position{Z: 1500}, 0)
	box := ComputeAABB(cube.Bounds, &p, vp)

	if d := box.MinX + box.MaxX - vp.Width; d < -2 || d > 2 {
		t.Errorf("x extent %d..%d not centered", box.MinX, box.MaxX)
	}
	if d := box.MinY + box.MaxY - vp.Height; d < -2 || d > 2 {
		t.Errorf("y extent %d..%d not centered", box.MinY, box.MaxY)
	}
	if box.MaxX-box.MinX < 210 {
		t.Errorf("box narrower than the front face: %+v", box)
	}

	far := NewProjectionParams(NewCamera(), Position{Z: 3000}, 0)
	small := ComputeAABB(cube.Bounds, &far, vp)
	if small.MaxX-small.MinX >= box.MaxX-box.MinX {
		t.Errorf("farther box %+v not smaller than %+v", small, box)
	}
}

func TestComputeAABBBehindNear(t *testing.T) {
	cube := models.NewCube(256, cubeColor)
	vp := NewViewPort(320, 240)
	p := NewProjectionParams(NewCamera(), Position{Z: 100}, 0)
	box := ComputeAABB(cube.Bounds, &p, vp)
	if box.MinX > ClippedX+vp.Width {
		t.Errorf("clipped corners did not widen the box: %+v", box)
	}
	if !box.Visible(vp) {
		t.Error("straddling model reported invisible")
	}
}

func TestCullResultString(t *testing.T) {
	tests := map[CullResult]string{
		CullVisible:   "visible",
		CullFast:      "fast",
		CullAABB:      "aabb",
		CullError:     "error",
		CullResult(9): "CullResult(9)",
	}
	for c, want := range tests {
		if got := c.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", c, got, want)
		}
	}
}

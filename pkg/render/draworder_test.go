package render

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/taigrr/scanline/pkg/models"
)

// depthFace describes one synthetic face: its average depth slot and
// priority.
type depthFace struct {
	depth    int32
	priority int32
	back     bool
}

// sortFixture gives every face three private vertices forming a small
// front-facing triangle whose average depth lands exactly on depth when the
// model depth offset is zero.
func sortFixture(t *testing.T, layout []depthFace) (*VertexBuffer, []models.Face) {
	t.Helper()
	vb := NewVertexBuffer(3 * len(layout))
	if err := vb.Reset(3 * len(layout)); err != nil {
		t.Fatal(err)
	}
	faces := make([]models.Face, len(layout))
	for i, s := range layout {
		a, b, c := int32(3*i), int32(3*i+1), int32(3*i+2)
		vb.ScreenX[a], vb.ScreenY[a] = 0, 0
		vb.ScreenX[b], vb.ScreenY[b] = 0, 10
		vb.ScreenX[c], vb.ScreenY[c] = 10, 0
		if s.back {
			b, c = c, b
		}
		// (3z * 21845) >> 16 == z - 1 for small positive z.
		for _, v := range []int32{a, b, c} {
			vb.ScreenZ[v] = s.depth + 1
		}
		faces[i] = models.Face{A: a, B: b, C: c, Priority: s.priority}
	}
	return vb, faces
}

func TestAverageDepth(t *testing.T) {
	for _, d := range []int32{1, 50, 999, 1499} {
		if got := averageDepth(d+1, d+1, d+1, 0); got != d {
			t.Errorf("averageDepth(%d ×3) = %d, want %d", d+1, got, d)
		}
	}
	if got := averageDepth(-30, -30, -30, 100); got != 70 {
		t.Errorf("offset depth = %d, want 70", got)
	}
}

func TestDepthSortFarToNear(t *testing.T) {
	vb, faces := sortFixture(t, []depthFace{
		{depth: 300}, {depth: 900}, {depth: 300}, {depth: 10}, {depth: 900}, {depth: 1200},
	})
	d := NewDrawOrder()
	if err := d.DepthSort(vb, faces, 0, false); err != nil {
		t.Fatal(err)
	}

	// Ties keep model order.
	want := []int32{5, 1, 4, 0, 2, 3}
	if got := d.Order(); !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if lo, hi := d.DepthRange(); lo != 10 || hi != 1200 {
		t.Errorf("range = [%d, %d], want [10, 1200]", lo, hi)
	}
}

func TestDepthSortRejects(t *testing.T) {
	vb, faces := sortFixture(t, []depthFace{
		{depth: 100},
		{depth: 200, back: true},
		{depth: 0},
		{depth: 1500},
		{depth: 1499},
	})
	// Face 5 is degenerate: all three vertices share a point.
	faces = append(faces, models.Face{A: 0, B: 0, C: 0})

	d := NewDrawOrder()
	if err := d.DepthSort(vb, faces, 0, false); err != nil {
		t.Fatal(err)
	}
	if got, want := d.Order(), []int32{4, 0}; !slices.Equal(got, want) {
		t.Errorf("culled order = %v, want %v", got, want)
	}

	if err := d.DepthSort(vb, faces, 0, true); err != nil {
		t.Fatal(err)
	}
	if got, want := d.Order(), []int32{4, 1, 0}; !slices.Equal(got, want) {
		t.Errorf("two-sided order = %v, want %v", got, want)
	}
}

func TestDepthSortClearsPreviousFrame(t *testing.T) {
	d := NewDrawOrder()
	vb, faces := sortFixture(t, []depthFace{{depth: 700}, {depth: 800}})
	if err := d.DepthSort(vb, faces, 0, false); err != nil {
		t.Fatal(err)
	}

	vb, faces = sortFixture(t, []depthFace{{depth: 750}})
	if err := d.DepthSort(vb, faces, 0, false); err != nil {
		t.Fatal(err)
	}
	if got := d.Order(); !slices.Equal(got, []int32{0}) {
		t.Errorf("order = %v, want [0]", got)
	}

	// An empty frame leaves nothing behind either.
	if err := d.DepthSort(vb, nil, 0, false); err != nil {
		t.Fatal(err)
	}
	if got := d.Order(); len(got) != 0 {
		t.Errorf("order = %v, want empty", got)
	}
}

func TestDepthSortCapacity(t *testing.T) {
	layout := make([]depthFace, DepthSlotFaces+1)
	for i := range layout {
		layout[i].depth = 42
	}
	vb, faces := sortFixture(t, layout)

	d := NewDrawOrder()
	err := d.DepthSort(vb, faces, 0, false)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("got %v, want ErrCapacityExceeded", err)
	}

	// The overflowing slot must not leak into the next sort.
	vb, faces = sortFixture(t, []depthFace{{depth: 10}})
	if err := d.DepthSort(vb, faces, 0, false); err != nil {
		t.Fatal(err)
	}
	if got := d.Order(); !slices.Equal(got, []int32{0}) {
		t.Errorf("order after overflow = %v, want [0]", got)
	}
}

func TestPrioritySort(t *testing.T) {
	vb, faces := sortFixture(t, []depthFace{
		{depth: 100, priority: 0},   // 0
		{depth: 200, priority: 1},   // 1
		{depth: 300, priority: 2},   // 2
		{depth: 400, priority: 3},   // 3
		{depth: 500, priority: 4},   // 4
		{depth: 1000, priority: 10}, // 5: farther than avg {1,2}
		{depth: 350, priority: 11},  // 6
		{depth: 50, priority: 10},   // 7
		{depth: 600, priority: 5},   // 8
	})
	d := NewDrawOrder()
	if err := d.DepthSort(vb, faces, 0, false); err != nil {
		t.Fatal(err)
	}
	if err := d.PrioritySort(faces); err != nil {
		t.Fatal(err)
	}

	// avg{1,2} = 250, avg{3,4} = 450, avg{6,8} = 0 with no faces. The
	// merged flexible list is 10s then 11s: 5 (1000), 7 (50), 6 (350).
	want := []int32{5, 0, 1, 2, 3, 4, 7, 6, 8}
	if got := d.Order(); !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestPrioritySortClassesBackToFront(t *testing.T) {
	vb, faces := sortFixture(t, []depthFace{
		{depth: 100, priority: 7},
		{depth: 900, priority: 7},
		{depth: 500, priority: 2},
		{depth: 800, priority: 2},
	})
	d := NewDrawOrder()
	if err := d.DepthSort(vb, faces, 0, false); err != nil {
		t.Fatal(err)
	}
	if err := d.PrioritySort(faces); err != nil {
		t.Fatal(err)
	}
	if got, want := d.Order(), []int32{3, 2, 1, 0}; !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestPrioritySortInvalid(t *testing.T) {
	vb, faces := sortFixture(t, []depthFace{{depth: 100, priority: 12}})
	d := NewDrawOrder()
	if err := d.DepthSort(vb, faces, 0, false); err != nil {
		t.Fatal(err)
	}
	if err := d.PrioritySort(faces); !errors.Is(err, models.ErrInvalidPriority) {
		t.Errorf("got %v, want ErrInvalidPriority", err)
	}
}

// TestPrioritySortPermutation shuffles the model's faces and checks that
// every accepted face is emitted exactly once and that each priority class
// keeps its members and its position in the order.
func TestPrioritySortPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	layout := make([]depthFace, 300)
	for i := range layout {
		layout[i] = depthFace{
			depth:    1 + rng.Int31n(1400),
			priority: rng.Int31n(PrioritySlots),
		}
	}

	classSeq := func(layout []depthFace) (map[int32][]int32, []int32) {
		vb, faces := sortFixture(t, layout)
		d := NewDrawOrder()
		if err := d.DepthSort(vb, faces, 0, false); err != nil {
			t.Fatal(err)
		}
		if err := d.PrioritySort(faces); err != nil {
			t.Fatal(err)
		}
		order := d.Order()
		if len(order) != len(layout) {
			t.Fatalf("emitted %d faces, want %d", len(order), len(layout))
		}
		members := make(map[int32][]int32)
		var prios []int32
		for _, fi := range order {
			p := layout[fi].priority
			members[p] = append(members[p], layout[fi].depth)
			prios = append(prios, p)
		}
		return members, prios
	}

	wantMembers, wantPrios := classSeq(layout)
	for trial := range 5 {
		shuffled := slices.Clone(layout)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		gotMembers, gotPrios := classSeq(shuffled)
		if !slices.Equal(gotPrios, wantPrios) {
			t.Fatalf("trial %d: class sequence changed under permutation", trial)
		}
		for p, depths := range wantMembers {
			if !slices.Equal(gotMembers[p], depths) {
				t.Fatalf("trial %d: class %d depths %v, want %v", trial, p, gotMembers[p], depths)
			}
		}
	}
}

func BenchmarkDrawOrder(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	n := 4000
	vb := NewVertexBuffer(3 * n)
	_ = vb.Reset(3 * n)
	faces := make([]models.Face, n)
	for i := range faces {
		a, bb, c := int32(3*i), int32(3*i+1), int32(3*i+2)
		vb.ScreenY[bb], vb.ScreenX[c] = 10, 10
		z := rng.Int31n(1400)
		vb.ScreenZ[a], vb.ScreenZ[bb], vb.ScreenZ[c] = z, z, z
		faces[i] = models.Face{A: a, B: bb, C: c, Priority: rng.Int31n(PrioritySlots)}
	}
	d := NewDrawOrder()

	b.Run("depth", func(b *testing.B) {
		for b.Loop() {
			_ = d.DepthSort(vb, faces, 1, false)
		}
	})
	b.Run("priority", func(b *testing.B) {
		for b.Loop() {
			_ = d.DepthSort(vb, faces, 1, false)
			_ = d.PrioritySort(faces)
		}
	})
}

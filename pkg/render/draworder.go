package render

import (
	"fmt"

	"github.com/taigrr/scanline/pkg/models"
)

// Draw order capacities.
const (
	DepthSlots        = 1500 // accepted average depths are 1..DepthSlots-1
	DepthSlotFaces    = 512
	PrioritySlots     = models.MaxPriority + 1
	PrioritySlotFaces = 2000
)

// Priorities 10 and 11 float between the fixed classes by depth.
const (
	flexPriorityA = 10
	flexPriorityB = 11
)

type flexFace struct {
	depth, face int32
}

// DrawOrder resolves the painter's order of one model's faces. Its buckets
// are sized once and reused; it is not safe for concurrent use.
type DrawOrder struct {
	depthFaces []int32
	depthCount [DepthSlots]int32
	minDepth   int32
	maxDepth   int32

	prioFaces []int32
	prioCount [PrioritySlots]int32
	prioDepth [flexPriorityA]int32
	flexA     []flexFace // also holds the merged list
	flexB     []flexFace

	order []int32
}

// NewDrawOrder allocates the bucket storage.
func NewDrawOrder() *DrawOrder {
	return &DrawOrder{
		depthFaces: make([]int32, DepthSlots*DepthSlotFaces),
		prioFaces:  make([]int32, PrioritySlots*PrioritySlotFaces),
		flexA:      make([]flexFace, 0, 2*PrioritySlotFaces),
		flexB:      make([]flexFace, 0, PrioritySlotFaces),
		order:      make([]int32, 0, models.MaxFaces),
		minDepth:   DepthSlots,
		maxDepth:   -1,
	}
}

// Order returns the face indices from the last sort, back to front. The
// slice is reused by the next sort.
func (d *DrawOrder) Order() []int32 {
	return d.order
}

// DepthRange returns the lowest and highest occupied depth slot. lo > hi
// when nothing was accepted.
func (d *DrawOrder) DepthRange() (lo, hi int32) {
	return d.minDepth, d.maxDepth
}

// averageDepth is the face's mean camera depth shifted by the model's depth
// radius. 21845/65536 stands in for a divide by three.
func averageDepth(za, zb, zc, minDepth int32) int32 {
	return ((za+zb+zc)*21845)>>16 + minDepth
}

// frontFacing is the screen-space winding test. Zero area is never drawn;
// with keepBack either winding passes.
func frontFacing(vb *VertexBuffer, f *models.Face, keepBack bool) bool {
	xa, xb, xc := vb.ScreenX[f.A], vb.ScreenX[f.B], vb.ScreenX[f.C]
	ya, yb, yc := vb.ScreenY[f.A], vb.ScreenY[f.B], vb.ScreenY[f.C]
	cross := (xa-xb)*(yc-yb) - (ya-yb)*(xc-xb)
	if keepBack {
		return cross != 0
	}
	return cross > 0
}

// DepthSort drops back faces and buckets the rest by average depth, then
// fills the order from the farthest slot to the nearest. Faces sharing a
// slot keep their model order. Faces whose depth falls outside the slot
// range are dropped.
func (d *DrawOrder) DepthSort(vb *VertexBuffer, faces []models.Face, minDepth int32, keepBack bool) error {
	if len(faces) > cap(d.order) {
		return fmt.Errorf("%d faces: %w", len(faces), ErrCapacityExceeded)
	}

	// Only slots inside last frame's range can be dirty.
	if d.minDepth <= d.maxDepth {
		clear(d.depthCount[d.minDepth : d.maxDepth+1])
	}
	d.minDepth, d.maxDepth = DepthSlots, -1
	d.order = d.order[:0]

	for i := range faces {
		f := &faces[i]
		if !frontFacing(vb, f, keepBack) {
			continue
		}
		depth := averageDepth(vb.ScreenZ[f.A], vb.ScreenZ[f.B], vb.ScreenZ[f.C], minDepth)
		if depth <= 0 || depth >= DepthSlots {
			continue
		}
		n := d.depthCount[depth]
		if n >= DepthSlotFaces {
			d.maxDepth = max(d.maxDepth, depth)
			d.minDepth = min(d.minDepth, depth)
			return fmt.Errorf("depth slot %d: %w", depth, ErrCapacityExceeded)
		}
		d.depthFaces[depth*DepthSlotFaces+n] = int32(i)
		d.depthCount[depth] = n + 1
		d.minDepth = min(d.minDepth, depth)
		d.maxDepth = max(d.maxDepth, depth)
	}

	for depth := d.maxDepth; depth >= d.minDepth; depth-- {
		d.order = append(d.order, d.slot(depth)...)
	}
	return nil
}

func (d *DrawOrder) slot(depth int32) []int32 {
	base := depth * DepthSlotFaces
	return d.depthFaces[base : base+d.depthCount[depth]]
}

// PrioritySort reorders the faces accepted by the last DepthSort by their
// priority class. Classes 0..9 draw in class order, each back to front.
// Classes 10 and 11 are merged and interleaved before classes 0, 3 and 5
// while they lie farther than the mean depth of classes {1,2}, {3,4} and
// {6,8} respectively; the rest draw last.
func (d *DrawOrder) PrioritySort(faces []models.Face) error {
	clear(d.prioCount[:])
	clear(d.prioDepth[:])
	d.flexA = d.flexA[:0]
	d.flexB = d.flexB[:0]

	for depth := d.maxDepth; depth >= d.minDepth; depth-- {
		for _, fi := range d.slot(depth) {
			prio := faces[fi].Priority
			if prio < 0 || prio >= PrioritySlots {
				return fmt.Errorf("face %d priority %d: %w", fi, prio, models.ErrInvalidPriority)
			}
			n := d.prioCount[prio]
			if n >= PrioritySlotFaces {
				return fmt.Errorf("priority %d: %w", prio, ErrCapacityExceeded)
			}
			d.prioFaces[prio*PrioritySlotFaces+n] = fi
			d.prioCount[prio] = n + 1

			switch prio {
			case flexPriorityA:
				d.flexA = append(d.flexA, flexFace{depth, fi})
			case flexPriorityB:
				d.flexB = append(d.flexB, flexFace{depth, fi})
			default:
				d.prioDepth[prio] += depth
			}
		}
	}

	avg12 := d.meanDepth(1, 2)
	avg34 := d.meanDepth(3, 4)
	avg68 := d.meanDepth(6, 8)

	flex := append(d.flexA, d.flexB...)
	d.flexA = flex[:0]

	d.order = d.order[:0]
	next := 0
	emitFlex := func(limit int32, all bool) {
		for next < len(flex) && (all || flex[next].depth > limit) {
			d.order = append(d.order, flex[next].face)
			next++
		}
	}
	emitClasses := func(lo, hi int32) {
		for p := lo; p < hi; p++ {
			base := p * PrioritySlotFaces
			d.order = append(d.order, d.prioFaces[base:base+d.prioCount[p]]...)
		}
	}

	emitFlex(avg12, false)
	emitClasses(0, 3)
	emitFlex(avg34, false)
	emitClasses(3, 5)
	emitFlex(avg68, false)
	emitClasses(5, flexPriorityA)
	emitFlex(0, true)
	return nil
}

// meanDepth is the average depth over two classes, or 0 when both are
// empty.
func (d *DrawOrder) meanDepth(a, b int32) int32 {
	n := d.prioCount[a] + d.prioCount[b]
	if n == 0 {
		return 0
	}
	return (d.prioDepth[a] + d.prioDepth[b]) / n
}

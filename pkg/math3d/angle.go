// Package math3d provides the fixed-point math primitives used by the scanline renderer.
//
// Angles are expressed in units of 2π/2048. Trigonometric values are Q16
// (65536 == 1.0).
package math3d

import (
	"math"
	"sync"
)

const (
	// AngleSteps is the number of discrete angle units in a full turn.
	AngleSteps = 2048
	// AngleMask wraps an angle into [0, AngleSteps).
	AngleMask = AngleSteps - 1
	// UnitShift is the fixed-point shift applied before the perspective divide.
	UnitShift = 9
	// UnitScale is 1 << UnitShift.
	UnitScale = 1 << UnitShift

	// radiansPerStep is 2π/2048 rounded the way the asset pipeline rounded it.
	radiansPerStep = 0.0030679615
)

// TrigTable holds Q16 sine, cosine and tangent over AngleSteps entries.
type TrigTable struct {
	Sin [AngleSteps]int32
	Cos [AngleSteps]int32
	Tan [AngleSteps]int32
}

var (
	trigOnce  sync.Once
	trigTable *TrigTable
)

// Trig returns the process-wide trig table, building it on first use.
func Trig() *TrigTable {
	trigOnce.Do(func() {
		trigTable = NewTrigTable()
	})
	return trigTable
}

// NewTrigTable computes a fresh table. Most callers want Trig.
func NewTrigTable() *TrigTable {
	t := &TrigTable{}
	for i := range AngleSteps {
		a := float64(i) * radiansPerStep
		t.Sin[i] = q16(math.Sin(a))
		t.Cos[i] = q16(math.Cos(a))
		// tan overflows int32 at 512 and 1536; those entries saturate.
		t.Tan[i] = q16(math.Tan(a))
	}
	return t
}

func q16(v float64) int32 {
	f := v * 65536
	switch {
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}

// Sin returns sin(angle) in Q16. The angle is wrapped.
func Sin(angle int32) int32 {
	return Trig().Sin[angle&AngleMask]
}

// Cos returns cos(angle) in Q16. The angle is wrapped.
func Cos(angle int32) int32 {
	return Trig().Cos[angle&AngleMask]
}

// CotHalfFOV returns cot(fov/2) in Q16 using tan(3π/2 - θ) = cot(θ).
func CotHalfFOV(fov int32) int32 {
	return Trig().Tan[(1536-(fov>>1))&AngleMask]
}

// WrapAngle folds any angle into [0, AngleSteps).
func WrapAngle(angle int32) int32 {
	return angle & AngleMask
}

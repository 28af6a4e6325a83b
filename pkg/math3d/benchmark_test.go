package math3d

import (
	"testing"
)

func BenchmarkNewTrigTable(b *testing.B) {
	for b.Loop() {
		_ = NewTrigTable()
	}
}

func BenchmarkSinCos(b *testing.B) {
	var acc int32
	var a int32
	for b.Loop() {
		acc += Sin(a) + Cos(a)
		a++
	}
	_ = acc
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(120, -44, 18)
	v2 := V3(-9, 301, 77)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

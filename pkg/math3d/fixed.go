package math3d

import (
	"math"
	"sync"
)

// ReciprocalSize is the number of entries in the Q16 reciprocal table.
const ReciprocalSize = 4096

var (
	recipOnce  sync.Once
	recipTable [ReciprocalSize]int32
)

func buildReciprocals() {
	for i := 1; i < ReciprocalSize; i++ {
		recipTable[i] = int32(65536 / i)
	}
}

// Reciprocal16 returns 65536/v. Values outside the table fall back to a
// direct division; zero returns zero.
func Reciprocal16(v int32) int32 {
	if v > 0 && v < ReciprocalSize {
		recipOnce.Do(buildReciprocals)
		return recipTable[v]
	}
	if v == 0 {
		return 0
	}
	return 65536 / v
}

// ISqrt returns int(sqrt(v)) computed in double precision, matching the
// truncation the asset tools used.
func ISqrt(v int64) int32 {
	if v <= 0 {
		return 0
	}
	return int32(math.Sqrt(float64(v)))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Abs returns |v|.
func Abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

/*
Package checked implements unsigned arithmetic with overflow checks.

Type bit widths, natural-number codes, and Bit Machine cell counts
are all bounded counters; every operation that can grow one of
them goes through this package so that an adversarial program is
rejected with ErrOverflow instead of wrapping around.
*/
package checked

import (
	"errors"
	"math"
)

var ErrOverflow = errors.New("arithmetic overflow")

// AddUint32 returns a + b
// with an integer overflow check.
func AddUint32(a, b uint32) (sum uint32, ok bool) {
	if math.MaxUint32-a < b {
		return 0, false
	}
	return a + b, true
}

// IncUint32 returns a + 1
// with an integer overflow check.
func IncUint32(a uint32) (sum uint32, ok bool) {
	return AddUint32(a, 1)
}

// LshiftUint32 returns a << b
// with an integer overflow check.
func LshiftUint32(a, b uint32) (result uint32, ok bool) {
	if b >= 32 {
		return 0, false
	}
	if a > math.MaxUint32>>b {
		return 0, false
	}
	return a << b, true
}

// AddUint64 returns a + b
// with an integer overflow check.
func AddUint64(a, b uint64) (sum uint64, ok bool) {
	if math.MaxUint64-a < b {
		return 0, false
	}
	return a + b, true
}

// MaxUint32 returns the larger of a and b.
func MaxUint32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Between reports lo < v && v <= hi. Threshold ladders are half-open on the
// low side so that a reading sitting exactly on a step belongs to the lower band.
func Between[T constraints.Ordered](v, lo, hi T) bool {
	return v > lo && v <= hi
}
